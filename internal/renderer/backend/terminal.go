package backend

import (
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/jinxpad/internal/renderer/core"
)

// CellMetrics maps pixels to terminal cells.
type CellMetrics struct {
	// LineHeight is the height of one row in pixels.
	LineHeight float64

	// CellWidth is the width of one column in pixels.
	CellWidth float64

	// TabWidth is the number of columns a tab advances to.
	TabWidth int
}

// Terminal implements Surface using tcell for terminal output.
// The gutter occupies the leftmost columns; the text layer fills the rest.
type Terminal struct {
	screen  tcell.Screen
	metrics CellMetrics

	gutterCols int
	statusRows int
	mu         sync.Mutex
}

// NewTerminal creates a terminal surface on the controlling terminal.
func NewTerminal(metrics CellMetrics) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen, metrics), nil
}

// NewTerminalWithScreen creates a terminal surface on an existing screen.
// Tests pass a tcell simulation screen.
func NewTerminalWithScreen(screen tcell.Screen, metrics CellMetrics) *Terminal {
	t := &Terminal{screen: screen}
	t.SetMetrics(metrics)
	return t
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}

	// Mouse wheel scrolls the view
	t.screen.EnableMouse()

	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// SetMetrics replaces the pixel-to-cell mapping. Non-positive sizes fall
// back to one pixel per cell.
func (t *Terminal) SetMetrics(m CellMetrics) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if m.LineHeight <= 0 {
		m.LineHeight = 1
	}
	if m.CellWidth <= 0 {
		m.CellWidth = 1
	}
	if m.TabWidth <= 0 {
		m.TabWidth = 4
	}
	t.metrics = m
}

// Metrics returns the pixel-to-cell mapping.
func (t *Terminal) Metrics() CellMetrics {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.metrics
}

// Size returns the terminal dimensions in cells.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// GutterColumns returns the number of columns taken by the gutter.
func (t *Terminal) GutterColumns() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.gutterCols
}

// ViewportSize returns the text area size in pixels.
func (t *Terminal) ViewportSize() (width, height float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cols, rows := t.screen.Size()
	cols = max(cols-t.gutterCols, 0)
	return float64(cols) * t.metrics.CellWidth, float64(t.textRows(rows)) * t.metrics.LineHeight
}

// SetStatusRows reserves rows at the bottom of the screen for a status
// line. The text area and gutter end above them.
func (t *Terminal) SetStatusRows(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.statusRows = max(n, 0)
}

// PaintStatusLine fills the last row with style and writes left from the
// first column and right against the last one. Left is cut short rather
// than overlap right.
func (t *Terminal) PaintStatusLine(left, right string, style core.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cols, rows := t.screen.Size()
	if t.statusRows == 0 || rows == 0 {
		return
	}
	row := rows - 1
	st := convertStyle(style)
	for x := 0; x < cols; x++ {
		t.screen.SetContent(x, row, ' ', nil, st)
	}

	rightStart := max(cols-uniseg.StringWidth(right)-1, 0)
	t.putString(0, rightStart-1, row, left, st)
	t.putString(rightStart, cols, row, right, st)
}

func (t *Terminal) MeasureTextWidth(text string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return float64(uniseg.StringWidth(text)) * t.metrics.CellWidth
}

func (t *Terminal) SetGutterWidth(px float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if px <= 0 {
		t.gutterCols = 0
		return
	}
	t.gutterCols = int(math.Ceil(px / t.metrics.CellWidth))
}

func (t *Terminal) PaintText(text string, spans []core.StyleSpan, base core.Style, origin core.Point) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cols, rows := t.screen.Size()
	rows = t.textRows(rows)
	baseStyle := convertStyle(base)
	t.fill(t.gutterCols, cols, rows, baseStyle)

	left := t.toColumn(origin.X) + t.gutterCols
	row := t.toRow(origin.Y)

	offset := 0 // rune offset of the current line
	span := 0   // first span that may still apply
	for _, line := range strings.Split(text, "\n") {
		if row >= rows {
			break
		}
		if row < 0 {
			offset += utf8.RuneCountInString(line) + 1
			row++
			continue
		}

		x := left
		g := uniseg.NewGraphemes(line)
		for g.Next() {
			runes := g.Runes()
			for span < len(spans) && spans[span].End() <= offset {
				span++
			}
			style := baseStyle
			if span < len(spans) && spans[span].Start <= offset {
				style = convertStyle(spans[span].Style)
			}

			width := g.Width()
			if runes[0] == '\t' {
				width = t.metrics.TabWidth - (x-left)%t.metrics.TabWidth
				for i := 0; i < width; i++ {
					t.setTextCell(x+i, row, ' ', nil, style, cols)
				}
			} else {
				t.setTextCell(x, row, runes[0], runes[1:], style, cols)
			}

			x += width
			offset += len(runes)
		}

		offset++ // '\n'
		row++
	}
}

func (t *Terminal) PaintGutter(text string, style core.Style, origin core.Point) {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, rows := t.screen.Size()
	rows = t.textRows(rows)
	gutterStyle := convertStyle(style)
	t.fill(0, t.gutterCols, rows, gutterStyle)
	if t.gutterCols == 0 || text == "" {
		return
	}

	// The gutter is a fixed block of columns: horizontal scrolling moves
	// only the text, so origin.X does not shift the numbers. They end left
	// of the last gutter column, which separates them from the text.
	right := t.gutterCols - 1
	row := t.toRow(origin.Y)
	for _, num := range strings.Split(text, "\n") {
		if row >= rows {
			break
		}
		if row >= 0 {
			x := right - len(num)
			for _, r := range num {
				if x >= 0 && x < t.gutterCols-1 {
					t.screen.SetContent(x, row, r, nil, gutterStyle)
				}
				x++
			}
		}
		row++
	}
}

func (t *Terminal) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

// ShowCursorAt shows the cursor at a pixel position in the text area.
// A position outside the text area hides it.
func (t *Terminal) ShowCursorAt(p core.Point) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cols, rows := t.screen.Size()
	rows = t.textRows(rows)
	x := t.toColumn(p.X) + t.gutterCols
	y := t.toRow(p.Y)
	if x < t.gutterCols || x >= cols || y < 0 || y >= rows {
		t.screen.HideCursor()
		return
	}
	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

// CellAt returns the rune and style painted at a cell.
func (t *Terminal) CellAt(x, y int) (rune, core.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	mainc, _, style, _ := t.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	fg, bg, attrs := style.Decompose()
	s := core.Style{
		Foreground: convertTcellColor(fg),
		Background: convertTcellColor(bg),
	}
	if attrs&tcell.AttrBold != 0 {
		s.Attributes |= core.AttrBold
	}
	if attrs&tcell.AttrDim != 0 {
		s.Attributes |= core.AttrDim
	}
	if attrs&tcell.AttrItalic != 0 {
		s.Attributes |= core.AttrItalic
	}
	if attrs&tcell.AttrUnderline != 0 {
		s.Attributes |= core.AttrUnderline
	}
	return mainc, s
}

// Sync redraws the whole screen, recovering from external corruption.
func (t *Terminal) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Sync()
}

func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	if ev == nil {
		// The screen was finalized
		return Event{Type: EventClosed}
	}
	return convertEvent(ev)
}

// PostInterrupt wakes PollEvent with an EventInterrupt carrying data.
func (t *Terminal) PostInterrupt(data any) error {
	return t.screen.PostEvent(tcell.NewEventInterrupt(data))
}

// textRows returns the rows above the status line.
func (t *Terminal) textRows(rows int) int {
	return max(rows-t.statusRows, 0)
}

// putString writes s from column from, stopping before column to.
func (t *Terminal) putString(from, to, row int, s string, style tcell.Style) {
	x := from
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		runes := g.Runes()
		if x+g.Width() > to {
			return
		}
		t.screen.SetContent(x, row, runes[0], runes[1:], style)
		x += g.Width()
	}
}

// toRow converts a vertical pixel position to a row.
// Floor(v+0.5) keeps rounding consistent for negative positions.
func (t *Terminal) toRow(y float64) int {
	return int(math.Floor(y/t.metrics.LineHeight + 0.5))
}

// toColumn converts a horizontal pixel position to a column.
func (t *Terminal) toColumn(x float64) int {
	return int(math.Floor(x/t.metrics.CellWidth + 0.5))
}

// setTextCell sets a cell of the text area, clipping the gutter columns.
func (t *Terminal) setTextCell(x, y int, mainc rune, combc []rune, style tcell.Style, cols int) {
	if x < t.gutterCols || x >= cols {
		return
	}
	t.screen.SetContent(x, y, mainc, combc, style)
}

func (t *Terminal) fill(from, to, rows int, style tcell.Style) {
	for y := 0; y < rows; y++ {
		for x := from; x < to; x++ {
			t.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// convertStyle converts our Style to tcell.Style.
func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault

	if !s.Foreground.IsDefault() {
		style = style.Foreground(convertColor(s.Foreground))
	}
	if !s.Background.IsDefault() {
		style = style.Background(convertColor(s.Background))
	}

	if s.Attributes.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(core.AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}

	return style
}

func convertColor(c core.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// convertTcellColor converts tcell.Color to our Color.
func convertTcellColor(tc tcell.Color) core.Color {
	if tc == tcell.ColorDefault {
		return core.ColorDefault
	}
	r, g, b := tc.RGB()
	return core.ColorFromRGB(uint8(r), uint8(g), uint8(b))
}

// convertEvent converts tcell events to our Event type.
func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Event{
			Type: EventKey,
			Key:  convertKey(e.Key()),
			Rune: e.Rune(),
			Mod:  convertMod(e.Modifiers()),
		}

	case *tcell.EventMouse:
		x, y := e.Position()
		return Event{
			Type:        EventMouse,
			MouseX:      x,
			MouseY:      y,
			MouseButton: convertMouseButton(e.Buttons()),
			Mod:         convertMod(e.Modifiers()),
		}

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{
			Type:   EventResize,
			Width:  w,
			Height: h,
		}

	case *tcell.EventInterrupt:
		return Event{
			Type: EventInterrupt,
			Data: e.Data(),
		}

	default:
		return Event{Type: EventNone}
	}
}

// convertKey converts tcell key to our Key type.
func convertKey(k tcell.Key) Key {
	switch k {
	case tcell.KeyRune:
		return KeyRune
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyTab:
		return KeyTab
	case tcell.KeyBacktab:
		return KeyBacktab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace
	case tcell.KeyDelete:
		return KeyDelete
	case tcell.KeyHome:
		return KeyHome
	case tcell.KeyEnd:
		return KeyEnd
	case tcell.KeyPgUp:
		return KeyPageUp
	case tcell.KeyPgDn:
		return KeyPageDown
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyDown:
		return KeyDown
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	case tcell.KeyCtrlQ:
		return KeyCtrlQ
	case tcell.KeyCtrlS:
		return KeyCtrlS
	default:
		return KeyNone
	}
}

// convertMod converts tcell modifier mask to our ModMask.
func convertMod(m tcell.ModMask) ModMask {
	var result ModMask
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= ModMeta
	}
	return result
}

// convertMouseButton converts tcell button mask to our MouseButton.
func convertMouseButton(b tcell.ButtonMask) MouseButton {
	switch {
	case b&tcell.Button1 != 0:
		return MouseLeft
	case b&tcell.Button2 != 0:
		return MouseMiddle
	case b&tcell.Button3 != 0:
		return MouseRight
	case b&tcell.WheelUp != 0:
		return MouseWheelUp
	case b&tcell.WheelDown != 0:
		return MouseWheelDown
	case b&tcell.WheelLeft != 0:
		return MouseWheelLeft
	case b&tcell.WheelRight != 0:
		return MouseWheelRight
	default:
		return MouseNone
	}
}
