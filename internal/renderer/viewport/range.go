// Package viewport computes which document lines are visible and which
// lines should be rendered for a given scroll position.
package viewport

import (
	"fmt"
	"math"
)

// RenderMargin is the default number of extra lines rendered above and
// below the visible lines, so fast scrolling does not reveal unhighlighted
// text before the next render pass completes.
const RenderMargin = 50

// Range is a range of 1-indexed document lines.
//
// For a visible range both ends are inclusive. For a render range Last is
// the line at which rendering stops: lines First through Last-1 are
// rendered, and Last == lineCount+1 means "through the end of the document".
type Range struct {
	First int
	Last  int
}

// Len returns the number of lines from First through Last inclusive.
func (r Range) Len() int {
	if r.Last < r.First {
		return 0
	}
	return r.Last - r.First + 1
}

// Contains returns true if line lies within First and Last inclusive.
func (r Range) Contains(line int) bool {
	return line >= r.First && line <= r.Last
}

// String returns the range as "[first,last]".
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d]", r.First, r.Last)
}

// Metrics are the inputs to a viewport computation.
type Metrics struct {
	// ScrollOffset is the vertical scroll position in pixels.
	ScrollOffset float64

	// LineHeight is the uniform height of one line in pixels.
	LineHeight float64

	// ViewportHeight is the height of the scrollable client area in pixels.
	ViewportHeight float64

	// LineCount is the number of lines in the document.
	LineCount int

	// Margin is the render margin in lines. Negative values are treated as 0.
	Margin int
}

// Result holds the visible and render ranges for one computation.
type Result struct {
	View   Range
	Render Range
}

// Compute returns the visible line range and the padded render range.
//
// The first visible line is floor(scroll/lineHeight) and the last is that
// plus ceil(viewportHeight/lineHeight), both presented 1-indexed. The view
// is clamped to [1, lineCount]; the render range pads it by Margin lines on
// each side and is clamped to [1, lineCount+1]. Compute never fails: bad
// inputs clamp, and a document with no lines collapses both ranges to [1,1].
func Compute(m Metrics) Result {
	if m.LineCount <= 0 {
		return Result{View: Range{First: 1, Last: 1}, Render: Range{First: 1, Last: 1}}
	}
	margin := max(m.Margin, 0)

	first0, visible := 0, 0
	if m.LineHeight > 0 {
		first0 = lineIndex(m.ScrollOffset/m.LineHeight, math.Floor, m.LineCount)
		visible = lineIndex(m.ViewportHeight/m.LineHeight, math.Ceil, m.LineCount+1)
	}

	view := Range{First: first0 + 1, Last: first0 + visible + 1}
	view.First = clamp(view.First, 1, m.LineCount)
	view.Last = clamp(view.Last, view.First, m.LineCount)

	render := Range{
		First: max(1, view.First-margin),
		Last:  min(m.LineCount+1, view.Last+margin+1),
	}

	return Result{View: view, Render: render}
}

// lineIndex rounds v and clamps it to [0, limit].
func lineIndex(v float64, round func(float64) float64, limit int) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	v = round(v)
	if v >= float64(limit) {
		return limit
	}
	return int(v)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
