package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sampleSize = 4096

const (
	CharsetUTF8    = "UTF-8"
	CharsetUTF16LE = "UTF-16LE"
	CharsetUTF16BE = "UTF-16BE"
	CharsetDefault = "windows-1252"
)

var boms = []struct {
	mark    []byte
	charset string
}{
	{[]byte{0xEF, 0xBB, 0xBF}, CharsetUTF8},
	{[]byte{0xFF, 0xFE}, CharsetUTF16LE},
	{[]byte{0xFE, 0xFF}, CharsetUTF16BE},
}

// decoders for the charsets chardet reports that we know how to read.
var decoders = map[string]xenc.Encoding{
	CharsetUTF16LE: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	CharsetUTF16BE: unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
}

// Detect guesses the charset of sample. A byte-order mark wins, then valid
// UTF-8, then chardet's best guess. Unknown input is treated as Windows-1252.
func Detect(sample []byte) string {
	for _, b := range boms {
		if bytes.HasPrefix(sample, b.mark) {
			return b.charset
		}
	}

	if utf8.Valid(sample) {
		return CharsetUTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err == nil {
		if _, ok := decoders[result.Charset]; ok || result.Charset == CharsetUTF8 {
			return result.Charset
		}
	}

	return CharsetDefault
}

// NewUTF8Reader wraps r so it yields UTF-8, and reports the detected charset.
// A UTF-8 byte-order mark is dropped.
func NewUTF8Reader(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sampleSize)

	sample, err := br.Peek(sampleSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	charset := Detect(sample)

	if charset == CharsetUTF8 {
		if bytes.HasPrefix(sample, boms[0].mark) {
			_, _ = br.Discard(len(boms[0].mark))
		}

		return br, charset, nil
	}

	dec, ok := decoders[charset]
	if !ok {
		dec = charmap.Windows1252
	}

	return transform.NewReader(br, dec.NewDecoder()), charset, nil
}
