// Package highlight classifies Jinx source text into highlight spans.
//
// Classification is a fixed sequence of pattern passes over a text window.
// Each pass paints a category onto the characters it matches, and later
// passes overwrite earlier ones, so a string literal recolors the keyword
// inside it and a comment recolors everything it covers.
package highlight

// Category is the semantic category assigned to a run of text.
type Category uint8

// Highlight categories.
const (
	Default Category = iota
	Keyword
	Value
	Comment

	categoryCount
)

var categoryNames = [categoryCount]string{
	Default: "default",
	Keyword: "keyword",
	Value:   "value",
	Comment: "comment",
}

// String returns the string representation of a category.
func (c Category) String() string {
	if c < categoryCount {
		return categoryNames[c]
	}
	return "unknown"
}

// Span is a contiguous run of runes tagged with a category.
//
// Start and Length are rune offsets relative to the start of the text
// window that was classified, not the full document.
type Span struct {
	Start    int
	Length   int
	Category Category
}

// End returns the exclusive end offset of the span.
func (s Span) End() int {
	return s.Start + s.Length
}

// Contains returns true if the rune offset is within the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End()
}

// resolve run-length encodes a per-rune category map into sorted,
// non-overlapping spans. Default runs are not emitted.
func resolve(cats []Category) []Span {
	var spans []Span
	for i := 0; i < len(cats); {
		cat := cats[i]
		j := i + 1
		for j < len(cats) && cats[j] == cat {
			j++
		}
		if cat != Default {
			spans = append(spans, Span{Start: i, Length: j - i, Category: cat})
		}
		i = j
	}
	return spans
}
