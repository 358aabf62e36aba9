package backend

import "github.com/rivo/uniseg"

// DisplayColumn returns the cell column at which rune column col of line
// is painted: graphemes take their display width and tabs advance to the
// next multiple of tabWidth, as PaintText lays them out.
func DisplayColumn(line string, col, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = 4
	}

	x, runes := 0, 0
	g := uniseg.NewGraphemes(line)
	for runes < col && g.Next() {
		r := g.Runes()
		x += cellWidth(r, x, tabWidth, g.Width())
		runes += len(r)
	}
	return x
}

// RuneColumn is the inverse of DisplayColumn: it returns the rune column
// of the grapheme covering cell column x, or the line length when x is
// past the end.
func RuneColumn(line string, x, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = 4
	}

	cell, runes := 0, 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		r := g.Runes()
		w := cellWidth(r, cell, tabWidth, g.Width())
		if x < cell+w {
			return runes
		}
		cell += w
		runes += len(r)
	}
	return runes
}

func cellWidth(r []rune, x, tabWidth, width int) int {
	if r[0] == '\t' {
		return tabWidth - x%tabWidth
	}
	return width
}
