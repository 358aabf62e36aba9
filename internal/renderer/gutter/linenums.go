package gutter

import (
	"strconv"
	"strings"

	"github.com/dshills/jinxpad/internal/renderer/viewport"
)

// Numbers returns the line numbers of Lines(view, lineCount) joined by
// '\n'. An empty range yields an empty string.
func Numbers(view viewport.Range, lineCount int) string {
	r := Lines(view, lineCount)
	if r.Len() == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(r.Len() * (countDigits(r.Last) + 1))
	for line := r.First; line <= r.Last; line++ {
		if line > r.First {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(line))
	}
	return b.String()
}

// countDigits returns the number of decimal digits of n.
func countDigits(n int) int {
	if n <= 0 {
		return 1
	}
	digits := 0
	for n > 0 {
		digits++
		n /= 10
	}
	return digits
}
