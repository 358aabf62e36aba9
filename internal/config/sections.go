package config

import (
	"github.com/dshills/jinxpad/internal/renderer/core"
	"github.com/dshills/jinxpad/internal/renderer/highlight"
)

// EditorConfig holds editing and display settings.
type EditorConfig struct {
	// SpacesPerTab is the number of spaces Tab inserts.
	SpacesPerTab int

	// LineNumbers shows the line-number gutter.
	LineNumbers bool

	// StatusLine shows the status line below the text.
	StatusLine bool

	// RenderMargin is the number of lines painted above and below the
	// visible ones.
	RenderMargin int
}

// ColorsConfig holds the category colors as configured: "#RGB",
// "#RRGGBB" or "default".
type ColorsConfig struct {
	Default     string
	Keyword     string
	Value       string
	Comment     string
	LineNumbers string
	Selection   string
}

// Parse converts the configured colors for the highlighter.
func (c ColorsConfig) Parse() (highlight.Colors, error) {
	var out highlight.Colors
	fields := []struct {
		path string
		text string
		dst  *core.Color
	}{
		{"colors.default", c.Default, &out.Default},
		{"colors.keyword", c.Keyword, &out.Keyword},
		{"colors.value", c.Value, &out.Value},
		{"colors.comment", c.Comment, &out.Comment},
		{"colors.lineNumbers", c.LineNumbers, &out.LineNumbers},
		{"colors.selection", c.Selection, &out.Selection},
	}
	for _, f := range fields {
		color, err := core.ParseColor(f.text)
		if err != nil {
			return highlight.Colors{}, &ValidationError{Path: f.path, Message: "not a color", Value: f.text}
		}
		*f.dst = color
	}
	return out, nil
}

// FontConfig describes the editor font. Only Size affects layout; the
// other fields are kept for hosts that can select a face.
type FontConfig struct {
	Family  string
	Size    float64
	Weight  string
	Stretch string
}

// LineHeight returns the height of one line: the font size times 1.3.
func (f FontConfig) LineHeight() float64 {
	return f.Size * 1.3
}

// CellWidth returns the advance of one monospace character.
func (f FontConfig) CellWidth() float64 {
	return f.Size * 0.6
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error.
	Level string
}
