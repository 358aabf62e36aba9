package viewport

import "math"

// Scroller tracks the scroll position of a line-based document in pixels.
// It is the scroll state a host feeds into the renderer.
type Scroller struct {
	// Scroll offsets in pixels
	offsetX float64
	offsetY float64

	// Client area size in pixels
	width  float64
	height float64

	// Line geometry
	lineHeight float64
	lineCount  int

	// Scroll margin in lines (keep the caret this far from the edges)
	margin int
}

// NewScroller creates a scroller for the given client size and line height.
// Sizes are clamped to be non-negative.
func NewScroller(width, height, lineHeight float64) *Scroller {
	s := &Scroller{margin: 2, lineCount: 1}
	s.Resize(width, height)
	s.SetLineHeight(lineHeight)
	return s
}

// ScrollOffset returns the horizontal and vertical scroll offsets.
func (s *Scroller) ScrollOffset() (x, y float64) {
	return s.offsetX, s.offsetY
}

// ViewportSize returns the client area size.
func (s *Scroller) ViewportSize() (width, height float64) {
	return s.width, s.height
}

// Resize updates the client area size and re-clamps the offsets.
func (s *Scroller) Resize(width, height float64) {
	s.width = math.Max(width, 0)
	s.height = math.Max(height, 0)
	s.clamp()
}

// SetLineHeight updates the line height, keeping the same top line.
func (s *Scroller) SetLineHeight(lineHeight float64) {
	top := s.TopLine()
	s.lineHeight = math.Max(lineHeight, 0)
	s.offsetY = float64(top-1) * s.lineHeight
	s.clamp()
}

// SetLineCount updates the document line count and re-clamps the offsets.
func (s *Scroller) SetLineCount(count int) {
	s.lineCount = max(count, 1)
	s.clamp()
}

// SetMargin sets the number of lines kept between a revealed line and the
// viewport edge.
func (s *Scroller) SetMargin(lines int) {
	s.margin = max(lines, 0)
}

// TopLine returns the 1-indexed first visible line.
func (s *Scroller) TopLine() int {
	if s.lineHeight <= 0 {
		return 1
	}
	return int(s.offsetY/s.lineHeight) + 1
}

// VisibleLines returns the number of whole lines that fit the client area.
func (s *Scroller) VisibleLines() int {
	if s.lineHeight <= 0 {
		return 1
	}
	return max(int(s.height/s.lineHeight), 1)
}

// ScrollTo scrolls so that line (1-indexed) is at the top.
func (s *Scroller) ScrollTo(line int) {
	s.offsetY = float64(line-1) * s.lineHeight
	s.clamp()
}

// ScrollBy scrolls by a delta number of lines.
func (s *Scroller) ScrollBy(deltaLines int) {
	s.offsetY += float64(deltaLines) * s.lineHeight
	s.clamp()
}

// ScrollHorizontalTo sets the horizontal offset in pixels.
func (s *Scroller) ScrollHorizontalTo(x float64) {
	s.offsetX = math.Max(x, 0)
}

// Reveal scrolls minimally so that line (1-indexed) is visible with the
// configured margin. Returns true if the offset changed.
func (s *Scroller) Reveal(line int) bool {
	top := s.TopLine()
	visible := s.VisibleLines()
	margin := min(s.margin, (visible-1)/2)

	target := top
	if line < top+margin {
		target = line - margin
	} else if line > top+visible-1-margin {
		target = line - visible + 1 + margin
	}
	if target == top {
		return false
	}

	before := s.offsetY
	s.ScrollTo(target)
	return s.offsetY != before
}

// RevealColumn scrolls horizontally so that the pixel span [x, x+w) is
// inside the client area. Returns true if the offset changed.
func (s *Scroller) RevealColumn(x, w float64) bool {
	before := s.offsetX
	if x < s.offsetX {
		s.offsetX = x
	} else if x+w > s.offsetX+s.width {
		s.offsetX = x + w - s.width
	}
	s.offsetX = math.Max(s.offsetX, 0)
	return s.offsetX != before
}

// clamp keeps the vertical offset within the scrollable content. The last
// line may scroll up to the top of the viewport.
func (s *Scroller) clamp() {
	maxY := float64(s.lineCount-1) * s.lineHeight
	s.offsetY = math.Min(math.Max(s.offsetY, 0), math.Max(maxY, 0))
	s.offsetX = math.Max(s.offsetX, 0)
}
