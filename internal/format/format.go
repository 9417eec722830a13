package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// symbols for the currencies the app is expected to show. Others print their
// ISO code.
var symbols = map[currency.Unit]string{
	currency.MustParseISO("PHP"): "₱",
	currency.USD: "$",
	currency.EUR: "€",
	currency.GBP: "£",
	currency.JPY: "¥",
}

// Formatter renders money and dates for one locale and currency.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
	symbol  string
	point   string
	sep     string
}

func New(locale, code string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("parsing currency %q: %w", code, err)
	}

	symbol, ok := symbols[unit]
	if !ok {
		symbol = unit.String() + " "
	}

	printer := message.NewPrinter(tag)

	return &Formatter{
		printer: printer,
		unit:    unit,
		symbol:  symbol,
		point:   decimalPoint(printer),
		sep:     strings.Trim(printer.Sprint(number.Decimal(1000)), "01"),
	}, nil
}

// MustNew is like New but panics on an invalid locale or currency.
func MustNew(locale, code string) *Formatter {
	f, err := New(locale, code)
	if err != nil {
		panic(err)
	}

	return f
}

// Default formats Philippine pesos in English.
func Default() *Formatter {
	return MustNew("en-PH", "PHP")
}

// decimalPoint is the locale's fraction separator, read back from a sample.
func decimalPoint(p *message.Printer) string {
	s := p.Sprint(number.Decimal(1.5, number.Scale(1)))
	if len(s) < 3 {
		return "."
	}

	return s[1 : len(s)-1]
}

// Amount renders d with the currency symbol, grouping and two decimals. The
// digits come from the decimal itself so large balances stay exact.
func (f *Formatter) Amount(d decimal.Decimal) string {
	d = d.Round(2)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	whole, cents, _ := strings.Cut(d.StringFixed(2), ".")

	return sign + f.symbol + group(whole, f.sep) + f.point + cents
}

// group inserts the thousands separator into a string of digits.
func group(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}

	var sb strings.Builder

	head := len(digits) % 3
	if head > 0 {
		sb.WriteString(digits[:head])
	}

	for i := head; i < len(digits); i += 3 {
		if sb.Len() > 0 {
			sb.WriteString(sep)
		}

		sb.WriteString(digits[i : i+3])
	}

	return sb.String()
}

func (f *Formatter) Date(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// DateRange renders an inclusive range of days, collapsing a single day.
func (f *Formatter) DateRange(start, end time.Time) string {
	if start.Equal(end) {
		return f.Date(start)
	}

	return f.Date(start) + " – " + f.Date(end)
}

func (f *Formatter) Currency() string {
	return f.unit.String()
}
