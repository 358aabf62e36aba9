package viewport

import (
	"testing"
)

func TestNewScroller(t *testing.T) {
	s := NewScroller(800, 400, 20)

	x, y := s.ScrollOffset()
	if x != 0 || y != 0 {
		t.Errorf("expected offset (0, 0), got (%v, %v)", x, y)
	}
	w, h := s.ViewportSize()
	if w != 800 || h != 400 {
		t.Errorf("expected size (800, 400), got (%v, %v)", w, h)
	}
	if s.TopLine() != 1 {
		t.Errorf("expected top line 1, got %d", s.TopLine())
	}
	if s.VisibleLines() != 20 {
		t.Errorf("expected 20 visible lines, got %d", s.VisibleLines())
	}
}

func TestScrollerNegativeSize(t *testing.T) {
	s := NewScroller(-5, -5, 20)
	w, h := s.ViewportSize()
	if w != 0 || h != 0 {
		t.Errorf("expected size clamped to (0, 0), got (%v, %v)", w, h)
	}
	if s.VisibleLines() != 1 {
		t.Errorf("expected at least 1 visible line, got %d", s.VisibleLines())
	}
}

func TestScrollerScrollTo(t *testing.T) {
	s := NewScroller(800, 400, 20)
	s.SetLineCount(200)

	s.ScrollTo(51)
	if _, y := s.ScrollOffset(); y != 1000 {
		t.Errorf("expected offset 1000, got %v", y)
	}
	if s.TopLine() != 51 {
		t.Errorf("expected top line 51, got %d", s.TopLine())
	}

	// Clamped to the last line
	s.ScrollTo(500)
	if s.TopLine() != 200 {
		t.Errorf("expected top line clamped to 200, got %d", s.TopLine())
	}

	// Clamped to the first line
	s.ScrollTo(-3)
	if s.TopLine() != 1 {
		t.Errorf("expected top line clamped to 1, got %d", s.TopLine())
	}
}

func TestScrollerScrollBy(t *testing.T) {
	s := NewScroller(800, 400, 20)
	s.SetLineCount(100)

	s.ScrollBy(10)
	if s.TopLine() != 11 {
		t.Errorf("expected top line 11, got %d", s.TopLine())
	}
	s.ScrollBy(-20)
	if s.TopLine() != 1 {
		t.Errorf("expected top line 1, got %d", s.TopLine())
	}
}

func TestScrollerSetLineCountClamps(t *testing.T) {
	s := NewScroller(800, 400, 20)
	s.SetLineCount(100)
	s.ScrollTo(90)

	s.SetLineCount(10)
	if s.TopLine() != 10 {
		t.Errorf("expected top line 10 after shrinking, got %d", s.TopLine())
	}
}

func TestScrollerSetLineHeightKeepsTopLine(t *testing.T) {
	s := NewScroller(800, 400, 20)
	s.SetLineCount(100)
	s.ScrollTo(30)

	s.SetLineHeight(10)
	if s.TopLine() != 30 {
		t.Errorf("expected top line 30, got %d", s.TopLine())
	}
	if _, y := s.ScrollOffset(); y != 290 {
		t.Errorf("expected offset 290, got %v", y)
	}
}

func TestScrollerReveal(t *testing.T) {
	s := NewScroller(800, 200, 20) // 10 visible lines
	s.SetLineCount(100)
	s.SetMargin(2)

	// Already visible
	if s.Reveal(5) {
		t.Error("line 5 should already be visible")
	}

	// Below the viewport
	if !s.Reveal(20) {
		t.Error("revealing line 20 should scroll")
	}
	if s.TopLine() != 13 {
		t.Errorf("expected top line 13, got %d", s.TopLine())
	}

	// Above the viewport
	if !s.Reveal(5) {
		t.Error("revealing line 5 should scroll")
	}
	if s.TopLine() != 3 {
		t.Errorf("expected top line 3, got %d", s.TopLine())
	}

	// Near the top of the document the margin cannot be honored
	s.Reveal(1)
	if s.TopLine() != 1 {
		t.Errorf("expected top line 1, got %d", s.TopLine())
	}
}

func TestScrollerRevealColumn(t *testing.T) {
	s := NewScroller(100, 200, 20)

	if s.RevealColumn(10, 10) {
		t.Error("visible column should not scroll")
	}
	if !s.RevealColumn(150, 10) {
		t.Error("column past the right edge should scroll")
	}
	if x, _ := s.ScrollOffset(); x != 60 {
		t.Errorf("expected horizontal offset 60, got %v", x)
	}
	if !s.RevealColumn(20, 10) {
		t.Error("column left of the viewport should scroll")
	}
	if x, _ := s.ScrollOffset(); x != 20 {
		t.Errorf("expected horizontal offset 20, got %v", x)
	}

	s.ScrollHorizontalTo(-10)
	if x, _ := s.ScrollOffset(); x != 0 {
		t.Errorf("expected horizontal offset clamped to 0, got %v", x)
	}
}
