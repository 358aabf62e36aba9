// Package backend provides the paint surfaces the renderer draws on.
//
// A Surface works in pixels: the renderer computes origins from scroll
// offsets and line heights and never knows how a surface maps pixels to
// its own output. Terminal maps them to character cells through tcell;
// Recorder keeps the calls in memory.
package backend

import "github.com/dshills/jinxpad/internal/renderer/core"

// Surface is the host rendering surface.
type Surface interface {
	// PaintText paints the text layer. Spans are rune offsets into text;
	// runes outside every span use base. The origin is the top-left corner
	// of the first line of text in pixels, relative to the client area.
	PaintText(text string, spans []core.StyleSpan, base core.Style, origin core.Point)

	// PaintGutter paints the line-number list, one number per line,
	// right-aligned at origin.X. origin.Y is the top of the first number.
	PaintGutter(text string, style core.Style, origin core.Point)

	// MeasureTextWidth returns the rendered width of text in pixels.
	MeasureTextWidth(text string) float64

	// SetGutterWidth sets the width of the gutter panel in pixels.
	// Zero hides the panel.
	SetGutterWidth(px float64)

	// Flush presents everything painted since the last flush.
	Flush()
}

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventInterrupt
	EventClosed
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse event fields
	MouseX, MouseY int
	MouseButton    MouseButton

	// Resize event fields
	Width, Height int

	// Interrupt payload posted with PostInterrupt
	Data any
}

// Key represents a keyboard key.
type Key int

// Key constants for special keys.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlQ
	KeyCtrlS
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton represents mouse button state.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
	MouseWheelLeft
	MouseWheelRight
)
