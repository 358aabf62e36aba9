package highlight

import (
	"github.com/dshills/jinxpad/internal/renderer/core"
)

// Theme maps highlight categories to paint styles.
type Theme struct {
	// Name is the display name of the theme.
	Name string

	// Styles holds the style for each category, indexed by Category.
	Styles [categoryCount]core.Style

	// LineNumbers is the style used for the gutter.
	LineNumbers core.Style

	// Selection is the background of selected text.
	Selection core.Color
}

// Colors is the set of configurable theme colors.
type Colors struct {
	Default     core.Color
	Keyword     core.Color
	Value       core.Color
	Comment     core.Color
	LineNumbers core.Color
	Selection   core.Color
}

// DefaultColors returns the stock Jinx editor palette.
func DefaultColors() Colors {
	return Colors{
		Default:     core.ColorDefault,
		Keyword:     core.ColorFromRGB(0x00, 0x70, 0xC0),
		Value:       core.ColorFromRGB(0xC0, 0x00, 0x00),
		Comment:     core.ColorFromRGB(0x00, 0xB0, 0x50),
		LineNumbers: core.ColorFromRGB(0xA9, 0xA9, 0xA9),
		Selection:   core.ColorFromRGB(0x26, 0x4F, 0x78),
	}
}

// NewTheme builds a theme from a color set.
func NewTheme(name string, c Colors) *Theme {
	t := &Theme{Name: name}
	t.Styles[Default] = core.NewStyle(c.Default)
	t.Styles[Keyword] = core.NewStyle(c.Keyword)
	t.Styles[Value] = core.NewStyle(c.Value)
	t.Styles[Comment] = core.NewStyle(c.Comment)
	t.LineNumbers = core.NewStyle(c.LineNumbers)
	t.Selection = c.Selection
	return t
}

// DefaultTheme returns the theme built from DefaultColors.
func DefaultTheme() *Theme {
	return NewTheme("Jinx", DefaultColors())
}

// StyleFor returns the style for a category.
func (t *Theme) StyleFor(cat Category) core.Style {
	if cat < categoryCount {
		return t.Styles[cat]
	}
	return t.Styles[Default]
}

// StyleSpans converts category spans into style spans for painting.
func (t *Theme) StyleSpans(spans []Span) []core.StyleSpan {
	if len(spans) == 0 {
		return nil
	}
	out := make([]core.StyleSpan, len(spans))
	for i, s := range spans {
		out[i] = core.StyleSpan{
			Start:  s.Start,
			Length: s.Length,
			Style:  t.StyleFor(s.Category),
		}
	}
	return out
}
