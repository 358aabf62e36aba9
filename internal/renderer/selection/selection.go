// Package selection highlights a text selection over styled spans.
//
// A selection is held in document coordinates: 0-indexed lines and rune
// columns within a line. Before painting, the renderer maps it onto rune
// offsets within the slice being painted and merges it into the slice's
// style spans.
package selection

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/jinxpad/internal/renderer/core"
)

// Position is a location in the document.
type Position struct {
	Line   int
	Column int
}

// Before reports whether p comes before other.
func (p Position) Before(other Position) bool {
	return p.Line < other.Line || (p.Line == other.Line && p.Column < other.Column)
}

// Range is a selection from the anchor Start to the caret End. End may
// come before Start.
type Range struct {
	Start Position
	End   Position
}

// IsEmpty returns true if the range selects nothing.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Normalize returns a range where Start is always before End.
func (r Range) Normalize() Range {
	if r.End.Before(r.Start) {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}

// Contains returns true if the given position is within the selection.
// The end position is excluded.
func (r Range) Contains(line, col int) bool {
	if r.IsEmpty() {
		return false
	}
	n := r.Normalize()
	p := Position{Line: line, Column: col}
	return !p.Before(n.Start) && p.Before(n.End)
}

// Offsets maps r onto rune offsets within text, a run of whole lines whose
// first line is firstLine. Columns past the end of a line clamp to it.
// ok is false when the selection is empty or misses text entirely.
func Offsets(text string, firstLine int, r Range) (start, end int, ok bool) {
	if r.IsEmpty() {
		return 0, 0, false
	}
	n := r.Normalize()

	start, end = -1, -1
	if n.Start.Line < firstLine {
		start = 0
	}

	offset := 0
	line := firstLine
	for _, s := range strings.Split(text, "\n") {
		length := utf8.RuneCountInString(s)
		if line == n.Start.Line {
			start = offset + min(max(n.Start.Column, 0), length)
		}
		if line == n.End.Line {
			end = offset + min(max(n.End.Column, 0), length)
		}
		offset += length + 1
		line++
	}
	if end < 0 && n.End.Line >= line {
		end = offset - 1
	}

	if start < 0 || end <= start {
		return 0, 0, false
	}
	return start, end, true
}

// Overlay returns spans with the rune range [start, end) given the
// background bg. Selected text outside any span takes base. spans must be
// sorted and non-overlapping; so is the result.
func Overlay(spans []core.StyleSpan, base core.Style, start, end int, bg core.Color) []core.StyleSpan {
	if start >= end {
		return spans
	}

	out := make([]core.StyleSpan, 0, len(spans)+3)
	pos := start // first selected offset not yet emitted

	gap := func(upTo int) {
		upTo = min(upTo, end)
		if pos < upTo {
			out = append(out, core.StyleSpan{Start: pos, Length: upTo - pos, Style: base.WithBackground(bg)})
			pos = upTo
		}
	}

	for _, s := range spans {
		if s.End() <= start || s.Start >= end {
			if s.Start >= end {
				gap(end)
			}
			out = append(out, s)
			continue
		}

		if s.Start < start {
			out = append(out, core.StyleSpan{Start: s.Start, Length: start - s.Start, Style: s.Style})
		}
		gap(s.Start)

		from, to := max(s.Start, start), min(s.End(), end)
		out = append(out, core.StyleSpan{Start: from, Length: to - from, Style: s.Style.WithBackground(bg)})
		pos = to

		if s.End() > end {
			out = append(out, core.StyleSpan{Start: end, Length: s.End() - end, Style: s.Style})
		}
	}
	gap(end)

	return out
}
