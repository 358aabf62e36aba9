// Package gutter computes the line-number gutter: its pixel width and the
// list of numbers painted beside the visible lines.
package gutter

import (
	"fmt"

	"github.com/dshills/jinxpad/internal/renderer/viewport"
)

const (
	// MinDigits is the minimum number of digits the width is measured for.
	MinDigits = 4

	// Padding is added to the measured number width.
	Padding = 5
)

// Measurer measures the rendered width of text in pixels.
type Measurer interface {
	MeasureTextWidth(text string) float64
}

// Geometry is the derived size of the gutter panel.
type Geometry struct {
	WidthPx float64
}

// Gutter tracks gutter visibility and caches the measured width so the
// surface is only asked to measure when the line count text changes.
type Gutter struct {
	visible bool

	// Last measured text and its geometry
	measured string
	geometry Geometry
	measures int
}

// New creates a visible gutter.
func New() *Gutter {
	return &Gutter{visible: true}
}

// Visible reports whether line numbers are shown.
func (g *Gutter) Visible() bool {
	return g.visible
}

// SetVisible shows or hides line numbers.
func (g *Gutter) SetVisible(visible bool) {
	g.visible = visible
}

// Reset drops the cached measurement. Call it when the font changes.
func (g *Gutter) Reset() {
	g.measured = ""
	g.geometry = Geometry{}
}

// Measures returns how many times the gutter asked the surface to measure.
func (g *Gutter) Measures() int {
	return g.measures
}

// Update returns the gutter geometry for a document of lineCount lines.
// A hidden gutter has zero width.
func (g *Gutter) Update(m Measurer, lineCount int) Geometry {
	if !g.visible || m == nil {
		return Geometry{}
	}

	text := WidthText(lineCount)
	if text != g.measured {
		g.geometry = Geometry{WidthPx: m.MeasureTextWidth(text) + Padding}
		g.measured = text
		g.measures++
	}
	return g.geometry
}

// WidthText returns the text whose width sizes the gutter: the line count
// zero-padded to MinDigits.
func WidthText(lineCount int) string {
	return fmt.Sprintf("%0*d", MinDigits, max(1, lineCount))
}

// Lines returns the line range shown in the gutter for a view: the visible
// lines that exist in the document.
func Lines(view viewport.Range, lineCount int) viewport.Range {
	return viewport.Range{First: max(view.First, 1), Last: min(lineCount, view.Last)}
}
