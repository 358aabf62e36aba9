package linecache

import (
	"github.com/dshills/jinxpad/internal/renderer/viewport"
)

// Stats reports how often an Index rebuilt its offsets.
type Stats struct {
	Rebuilds uint64
	Reuses   uint64
}

// Index caches the byte offset of every line start for one version of a
// document. Scrolling reuses the cached offsets; only a new document
// version triggers a rescan.
type Index struct {
	valid   bool
	version uint64
	doc     string

	// starts[k] is the byte offset where line k+1 begins.
	starts []int

	stats Stats
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Update makes the index describe doc at the given version. The offsets
// are rebuilt only when the version differs from the cached one.
// Returns true if a rebuild happened.
func (x *Index) Update(version uint64, doc string) bool {
	if x.valid && x.version == version {
		x.stats.Reuses++
		return false
	}

	x.doc = doc
	x.version = version
	x.starts = x.starts[:0]
	x.starts = append(x.starts, 0)
	for i := 0; i < len(doc); i++ {
		if doc[i] == '\n' {
			x.starts = append(x.starts, i+1)
		}
	}
	x.valid = true
	x.stats.Rebuilds++
	return true
}

// Invalidate forces the next Update to rebuild.
func (x *Index) Invalidate() {
	x.valid = false
}

// Stats returns rebuild counters.
func (x *Index) Stats() Stats {
	return x.stats
}

// LineCount returns the number of lines in the indexed document.
func (x *Index) LineCount() int {
	if !x.valid {
		return 0
	}
	return len(x.starts)
}

// LineStart returns the byte offset where line (1-indexed) begins.
// Lines before the first clamp to 0, lines past the last to len(doc).
func (x *Index) LineStart(line int) int {
	if line <= 1 || !x.valid {
		return 0
	}
	if line > len(x.starts) {
		return len(x.doc)
	}
	return x.starts[line-1]
}

// Slice cuts the slice of the indexed document covering r. The result is
// identical to Scan over the same document.
func (x *Index) Slice(r viewport.Range, lineHeight float64) Slice {
	return newSlice(x.doc, r, x.LineStart(r.First), x.LineStart(r.Last), lineHeight)
}
