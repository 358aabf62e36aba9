package backend

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/jinxpad/internal/renderer/core"
)

// CallKind identifies a recorded surface call.
type CallKind int

const (
	CallPaintText CallKind = iota
	CallPaintGutter
	CallSetGutterWidth
	CallFlush
)

// String returns the surface method name of the call.
func (k CallKind) String() string {
	switch k {
	case CallPaintText:
		return "PaintText"
	case CallPaintGutter:
		return "PaintGutter"
	case CallSetGutterWidth:
		return "SetGutterWidth"
	case CallFlush:
		return "Flush"
	default:
		return "unknown"
	}
}

// Call is one recorded surface call. Fields not used by the call's kind
// are zero.
type Call struct {
	Kind   CallKind
	Text   string
	Spans  []core.StyleSpan
	Style  core.Style
	Origin core.Point
	Width  float64
}

// Recorder is an in-memory Surface. It measures every grapheme column as
// CharWidth pixels and records each paint call in order.
type Recorder struct {
	CharWidth float64

	Calls       []Call
	GutterWidth float64
	Measured    []string
}

// NewRecorder creates a recorder with a fixed column width.
func NewRecorder(charWidth float64) *Recorder {
	return &Recorder{CharWidth: charWidth}
}

func (r *Recorder) PaintText(text string, spans []core.StyleSpan, base core.Style, origin core.Point) {
	r.Calls = append(r.Calls, Call{
		Kind:   CallPaintText,
		Text:   text,
		Spans:  append([]core.StyleSpan(nil), spans...),
		Style:  base,
		Origin: origin,
	})
}

func (r *Recorder) PaintGutter(text string, style core.Style, origin core.Point) {
	r.Calls = append(r.Calls, Call{
		Kind:   CallPaintGutter,
		Text:   text,
		Style:  style,
		Origin: origin,
	})
}

func (r *Recorder) MeasureTextWidth(text string) float64 {
	r.Measured = append(r.Measured, text)
	return float64(uniseg.StringWidth(text)) * r.CharWidth
}

func (r *Recorder) SetGutterWidth(px float64) {
	r.GutterWidth = px
	r.Calls = append(r.Calls, Call{Kind: CallSetGutterWidth, Width: px})
}

func (r *Recorder) Flush() {
	r.Calls = append(r.Calls, Call{Kind: CallFlush})
}

// Last returns the most recent call of the given kind.
func (r *Recorder) Last(kind CallKind) (Call, bool) {
	for i := len(r.Calls) - 1; i >= 0; i-- {
		if r.Calls[i].Kind == kind {
			return r.Calls[i], true
		}
	}
	return Call{}, false
}

// Count returns the number of recorded calls of the given kind.
func (r *Recorder) Count(kind CallKind) int {
	n := 0
	for _, c := range r.Calls {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// Reset forgets all recorded calls.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Measured = nil
}
