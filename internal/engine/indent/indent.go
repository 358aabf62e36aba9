// Package indent applies tab and shift-tab to a text buffer.
//
// Tab never inserts a '\t': it inserts SpacesPerTab spaces at the caret,
// or replaces the selection with them. Shift-tab removes up to
// SpacesPerTab spaces directly before the caret.
package indent

import "strings"

// DefaultSpacesPerTab is the number of spaces a tab inserts.
const DefaultSpacesPerTab = 4

// Buffer is the text the editor changes. Offsets are rune offsets.
type Buffer interface {
	Len() int
	RuneAt(offset int) (rune, bool)
	Delete(start, end int) error
	Replace(start, end int, text string) (int, error)
}

// Selection is a caret position plus an optional selected length.
type Selection struct {
	Start  int
	Length int
}

// Caret returns an empty selection at offset.
func Caret(offset int) Selection {
	return Selection{Start: offset}
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return s.Length == 0
}

// End returns the offset just past the selection.
func (s Selection) End() int {
	return s.Start + s.Length
}

// normalize makes the length non-negative and clamps the selection to a
// buffer of n runes.
func (s Selection) normalize(n int) Selection {
	if s.Length < 0 {
		s.Start += s.Length
		s.Length = -s.Length
	}
	s.Start = min(max(s.Start, 0), n)
	s.Length = min(s.Length, n-s.Start)
	return s
}

// Key is an indentation key.
type Key int

const (
	KeyTab Key = iota
	KeyBacktab
)

// Editor handles tab and shift-tab.
type Editor struct {
	spacesPerTab int
}

// NewEditor creates an editor with DefaultSpacesPerTab.
func NewEditor() *Editor {
	return &Editor{spacesPerTab: DefaultSpacesPerTab}
}

// NewEditorWithConfig creates an editor inserting spacesPerTab spaces.
// Values below 1 select DefaultSpacesPerTab.
func NewEditorWithConfig(spacesPerTab int) *Editor {
	e := NewEditor()
	e.SetSpacesPerTab(spacesPerTab)
	return e
}

// SpacesPerTab returns the number of spaces a tab inserts.
func (e *Editor) SpacesPerTab() int {
	return e.spacesPerTab
}

// SetSpacesPerTab changes the number of spaces a tab inserts.
// Values below 1 select DefaultSpacesPerTab.
func (e *Editor) SetSpacesPerTab(n int) {
	if n < 1 {
		n = DefaultSpacesPerTab
	}
	e.spacesPerTab = n
}

// HandleKey applies key to buf. Both keys are always consumed, even when
// they change nothing.
func (e *Editor) HandleKey(key Key, buf Buffer, sel Selection) (Selection, bool, error) {
	switch key {
	case KeyTab:
		next, err := e.Tab(buf, sel)
		return next, true, err
	case KeyBacktab:
		next, err := e.ShiftTab(buf, sel)
		return next, true, err
	default:
		return sel, false, nil
	}
}

// Tab inserts SpacesPerTab spaces at the caret, or replaces the selection
// with them. The caret ends SpacesPerTab runes after the original start.
func (e *Editor) Tab(buf Buffer, sel Selection) (Selection, error) {
	sel = sel.normalize(buf.Len())
	spaces := strings.Repeat(" ", e.spacesPerTab)

	if _, err := buf.Replace(sel.Start, sel.End(), spaces); err != nil {
		return sel, err
	}
	return Caret(sel.Start + e.spacesPerTab), nil
}

// ShiftTab removes up to SpacesPerTab spaces immediately before the caret
// and moves the caret back by the number removed. With a selection it
// does nothing.
func (e *Editor) ShiftTab(buf Buffer, sel Selection) (Selection, error) {
	sel = sel.normalize(buf.Len())
	if !sel.Empty() {
		return sel, nil
	}

	caret := sel.Start
	count := 0
	for count < e.spacesPerTab {
		r, ok := buf.RuneAt(caret - count - 1)
		if !ok || r != ' ' {
			break
		}
		count++
	}
	if count == 0 {
		return sel, nil
	}

	if err := buf.Delete(caret-count, caret); err != nil {
		return sel, err
	}
	return Caret(caret - count), nil
}
