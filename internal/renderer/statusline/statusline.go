// Package statusline provides the status line shown below the text area.
package statusline

import (
	"strconv"

	"github.com/dshills/jinxpad/internal/renderer/core"
)

// Painter paints a status line. backend.Terminal implements it.
type Painter interface {
	PaintStatusLine(left, right string, style core.Style)
}

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// Styles holds the status line styles.
type Styles struct {
	Bar     core.Style
	Info    core.Style
	Warning core.Style
	Error   core.Style
}

// DefaultStyles returns light text on a dark gray bar.
func DefaultStyles() Styles {
	bar := core.NewStyle(core.ColorFromRGB(0xEE, 0xEE, 0xEE)).WithBackground(core.ColorFromRGB(0x3A, 0x3A, 0x3A))
	return Styles{
		Bar:     bar,
		Info:    bar.WithAttributes(core.AttrBold),
		Warning: bar.WithForeground(core.ColorFromRGB(0xFF, 0xD7, 0x00)),
		Error:   bar.WithForeground(core.ColorFromRGB(0xFF, 0x5F, 0x5F)).WithAttributes(core.AttrBold),
	}
}

// StatusLine holds what the status line displays: the file, its modified
// state, the caret position and an optional message.
type StatusLine struct {
	// Display state
	filename   string // Current filename (empty for scratch)
	modified   bool   // Buffer has unsaved changes
	line       int    // Caret line (1-indexed)
	col        int    // Caret column (1-indexed)
	totalLines int    // Total lines in buffer

	// Message display
	message     string
	messageType MessageType

	styles Styles
}

// New creates a new status line.
func New() *StatusLine {
	return &StatusLine{
		line:   1,
		col:    1,
		styles: DefaultStyles(),
	}
}

// SetStyles replaces the styles.
func (s *StatusLine) SetStyles(styles Styles) {
	s.styles = styles
}

// SetFilename updates the displayed filename.
func (s *StatusLine) SetFilename(filename string) {
	s.filename = filename
}

// SetModified updates the modified indicator.
func (s *StatusLine) SetModified(modified bool) {
	s.modified = modified
}

// SetPosition updates the caret position (1-indexed).
func (s *StatusLine) SetPosition(line, col int) {
	s.line = max(line, 1)
	s.col = max(col, 1)
}

// SetTotalLines updates the total line count.
func (s *StatusLine) SetTotalLines(total int) {
	s.totalLines = max(total, 0)
}

// SetMessage displays a status message in place of the filename.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Message returns the current message and its type.
func (s *StatusLine) Message() (string, MessageType) {
	return s.message, s.messageType
}

// Content returns the left and right text and the style to paint them in.
func (s *StatusLine) Content() (left, right string, style core.Style) {
	right = s.formatPosition()

	if s.message != "" {
		switch s.messageType {
		case MessageError:
			return " " + s.message, right, s.styles.Error
		case MessageWarning:
			return " " + s.message, right, s.styles.Warning
		default:
			return " " + s.message, right, s.styles.Info
		}
	}

	// Filename (or [No Name])
	filename := s.filename
	if filename == "" {
		filename = "[No Name]"
	}
	if s.modified {
		filename += " [+]"
	}
	return " " + filename, right, s.styles.Bar
}

// Render paints the status line.
func (s *StatusLine) Render(p Painter) {
	left, right, style := s.Content()
	p.PaintStatusLine(left, right, style)
}

// formatPosition formats the position info for the right side.
func (s *StatusLine) formatPosition() string {
	// Format: "Ln 123, Col 45 | 50%"
	result := "Ln " + strconv.Itoa(s.line) + ", Col " + strconv.Itoa(s.col)

	switch {
	case s.totalLines <= 1:
		result += " | All"
	case s.line == 1:
		result += " | Top"
	case s.line >= s.totalLines:
		result += " | Bot"
	default:
		result += " | " + strconv.Itoa(s.line*100/s.totalLines) + "%"
	}

	return result
}
