package mood

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultTag is used when no mood was picked.
const DefaultTag = "happy"

// Mood is a selectable feeling with the saving it suggests.
type Mood struct {
	Tag   string          `json:"tag"`
	Emoji string          `json:"emoji"`
	Goal  decimal.Decimal `json:"goal"`
}

type Catalog struct {
	moods []Mood
}

func NewCatalog(moods []Mood) *Catalog {
	return &Catalog{moods: slices.Clone(moods)}
}

// Default is the built-in set of moods. Goals other than happy's are
// illustrative amounts.
func Default() *Catalog {
	return NewCatalog([]Mood{
		{Tag: "happy", Emoji: "😊", Goal: decimal.NewFromInt(500)},
		{Tag: "excited", Emoji: "🤩", Goal: decimal.NewFromInt(1000)},
		{Tag: "calm", Emoji: "😌", Goal: decimal.NewFromInt(300)},
		{Tag: "sad", Emoji: "😢", Goal: decimal.NewFromInt(200)},
		{Tag: "stressed", Emoji: "😰", Goal: decimal.NewFromInt(250)},
		{Tag: "angry", Emoji: "😠", Goal: decimal.NewFromInt(150)},
	})
}

func (c *Catalog) All() []Mood {
	return slices.Clone(c.moods)
}

// Suggest resolves a tag case-insensitively. Unknown or empty tags fall back
// to DefaultTag and ok is false.
func (c *Catalog) Suggest(tag string) (Mood, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))

	for _, m := range c.moods {
		if m.Tag == tag {
			return m, true
		}
	}

	for _, m := range c.moods {
		if m.Tag == DefaultTag {
			return m, false
		}
	}

	return Mood{Tag: DefaultTag, Emoji: "😊"}, false
}
