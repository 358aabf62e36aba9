// Package linecache extracts the slice of a document that covers a render
// range, so only that slice needs to be classified and painted.
//
// Scan is the reference implementation: one pass over the document counting
// '\n' terminators. Index caches line-start offsets per document version
// and must produce exactly the same slices.
package linecache

import (
	"strings"

	"github.com/dshills/jinxpad/internal/renderer/viewport"
)

// Slice is the part of a document spanning a render range.
type Slice struct {
	// Text is the substring of the document from the start of line
	// Range.First up to the start of line Range.Last.
	Text string

	// VerticalOffset is the distance in pixels from the top of the
	// document to the top of the slice: (Range.First-1) * lineHeight.
	VerticalOffset float64

	// StartOffset is the byte offset of Text within the document.
	StartOffset int

	// Range is the render range the slice was cut for.
	Range viewport.Range
}

// LineCount returns the number of lines in a document: one more than the
// number of '\n' terminators.
func LineCount(doc string) int {
	return strings.Count(doc, "\n") + 1
}

// Scan cuts the slice of doc covering r with a single pass over the text.
//
// Line 1 starts at offset 0 and line k+1 starts right after the k-th '\n'.
// A line past the end of the document starts at len(doc), so a Last beyond
// the final line clamps to the end and a document without terminators is
// returned whole.
func Scan(doc string, r viewport.Range, lineHeight float64) Slice {
	begin, end := len(doc), len(doc)
	if r.First <= 1 {
		begin = 0
	}
	if r.Last <= 1 {
		end = 0
	}

	line := 1
	for i := 0; i < len(doc); {
		j := strings.IndexByte(doc[i:], '\n')
		if j < 0 {
			break
		}
		i += j + 1
		line++
		if line == r.First {
			begin = i
		}
		if line == r.Last {
			end = i
		}
		if line >= r.First && line >= r.Last {
			break
		}
	}

	return newSlice(doc, r, begin, end, lineHeight)
}

func newSlice(doc string, r viewport.Range, begin, end int, lineHeight float64) Slice {
	if end < begin {
		end = begin
	}
	return Slice{
		Text:           doc[begin:end],
		VerticalOffset: float64(max(r.First, 1)-1) * lineHeight,
		StartOffset:    begin,
		Range:          r,
	}
}
