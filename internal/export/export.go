// Package export writes classified Jinx source as HTML or ANSI-colored
// text through chroma formatters.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/formatters/html"

	"github.com/dshills/jinxpad/internal/renderer/core"
	"github.com/dshills/jinxpad/internal/renderer/highlight"
)

// ErrUnknownFormat is returned for an export format name that is not
// supported.
var ErrUnknownFormat = errors.New("unknown export format")

// Format selects the output encoding.
type Format uint8

const (
	FormatHTML Format = iota
	FormatANSI
)

// String returns the format name accepted by ParseFormat.
func (f Format) String() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatANSI:
		return "ansi"
	default:
		return "unknown"
	}
}

// ParseFormat parses "html" or "ansi".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html":
		return FormatHTML, nil
	case "ansi", "terminal":
		return FormatANSI, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Options configures an Exporter.
type Options struct {
	// Colors are the category colors. The zero value selects
	// highlight.DefaultColors.
	Colors *highlight.Colors

	// LineNumbers adds line numbers to HTML output.
	LineNumbers bool

	// Standalone wraps HTML output in a complete document.
	Standalone bool
}

// Exporter classifies documents and formats them.
type Exporter struct {
	classifier *highlight.Classifier
	style      *chroma.Style
	opts       Options
}

// New creates an exporter with opts.
func New(opts Options) (*Exporter, error) {
	colors := highlight.DefaultColors()
	if opts.Colors != nil {
		colors = *opts.Colors
	}

	style, err := newStyle(colors)
	if err != nil {
		return nil, fmt.Errorf("building export style: %w", err)
	}

	return &Exporter{
		classifier: highlight.NewClassifier(),
		style:      style,
		opts:       opts,
	}, nil
}

// Style returns the chroma style built from the configured colors.
func (e *Exporter) Style() *chroma.Style {
	return e.style
}

// Write classifies text and writes it to w in format f.
func (e *Exporter) Write(w io.Writer, f Format, text string) error {
	var formatter chroma.Formatter
	switch f {
	case FormatHTML:
		formatter = html.New(
			html.WithClasses(false),
			html.WithLineNumbers(e.opts.LineNumbers),
			html.Standalone(e.opts.Standalone),
		)
	case FormatANSI:
		formatter = formatters.TTY16m
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFormat, f)
	}

	it := chroma.Literator(e.Tokens(text)...)
	if err := formatter.Format(w, e.style, it); err != nil {
		return fmt.Errorf("formatting %s: %w", f, err)
	}
	return nil
}

// Tokens classifies text and returns it as chroma tokens covering every
// rune. Unclassified runs become chroma.Text.
func (e *Exporter) Tokens(text string) []chroma.Token {
	runes := []rune(text)
	spans := e.classifier.Classify(text)

	tokens := make([]chroma.Token, 0, 2*len(spans)+1)
	pos := 0
	for _, s := range spans {
		if s.Start > pos {
			tokens = append(tokens, chroma.Token{Type: chroma.Text, Value: string(runes[pos:s.Start])})
		}
		tokens = append(tokens, chroma.Token{Type: tokenType(s.Category), Value: string(runes[s.Start:s.End()])})
		pos = s.End()
	}
	if pos < len(runes) {
		tokens = append(tokens, chroma.Token{Type: chroma.Text, Value: string(runes[pos:])})
	}
	return tokens
}

// tokenType maps a highlight category onto the chroma token type whose
// style it is painted with.
func tokenType(cat highlight.Category) chroma.TokenType {
	switch cat {
	case highlight.Keyword:
		return chroma.Keyword
	case highlight.Value:
		return chroma.Literal
	case highlight.Comment:
		return chroma.Comment
	default:
		return chroma.Text
	}
}

// newStyle builds a chroma style from the category colors. Default
// colors are left to the formatter.
func newStyle(c highlight.Colors) (*chroma.Style, error) {
	entries := chroma.StyleEntries{}
	set := func(tt chroma.TokenType, color core.Color) {
		if !color.IsDefault() {
			entries[tt] = color.String()
		}
	}

	set(chroma.Text, c.Default)
	set(chroma.Keyword, c.Keyword)
	set(chroma.Literal, c.Value)
	set(chroma.Comment, c.Comment)
	set(chroma.LineNumbers, c.LineNumbers)

	return chroma.NewStyle("jinx", entries)
}
