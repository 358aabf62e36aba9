package renderer

import (
	"io"
	"log/slog"

	"github.com/dshills/jinxpad/internal/renderer/backend"
	"github.com/dshills/jinxpad/internal/renderer/core"
	"github.com/dshills/jinxpad/internal/renderer/gutter"
	"github.com/dshills/jinxpad/internal/renderer/highlight"
	"github.com/dshills/jinxpad/internal/renderer/linecache"
	"github.com/dshills/jinxpad/internal/renderer/selection"
	"github.com/dshills/jinxpad/internal/renderer/viewport"
)

// Document provides read access to the text being rendered.
// This interface abstracts the engine for rendering.
type Document interface {
	// Text returns the full document text.
	Text() string

	// LineCount returns the number of lines (1 + number of '\n').
	LineCount() int

	// Version increases on every edit.
	Version() uint64

	// Subscribe registers fn to run after every edit and returns a
	// function that removes it.
	Subscribe(fn func()) (unsubscribe func())
}

// ScrollProvider supplies the host's scroll state in pixels.
type ScrollProvider interface {
	ScrollOffset() (x, y float64)
	ViewportSize() (width, height float64)
}

// Options configures the renderer.
type Options struct {
	// ShowLineNumbers shows the line-number gutter.
	ShowLineNumbers bool

	// LineHeight is the height of one line in pixels.
	LineHeight float64

	// RenderMargin is the number of lines painted above and below the
	// visible ones.
	RenderMargin int
}

// DefaultOptions returns the options for a 12pt font.
func DefaultOptions() Options {
	return Options{
		ShowLineNumbers: true,
		LineHeight:      12 * 1.3,
		RenderMargin:    viewport.RenderMargin,
	}
}

// Frame describes one invalidation pass.
type Frame struct {
	// Number counts painted frames, starting at 1.
	Number uint64

	View   viewport.Range
	Render viewport.Range
	Slice  linecache.Slice
	Spans  []highlight.Span

	Gutter       gutter.Geometry
	GutterText   string
	TextOrigin   core.Point
	GutterOrigin core.Point
}

// Renderer coordinates the viewport calculation, slicing, classification
// and painting of a document. It is not safe for concurrent use; the host
// calls it from a single event loop.
type Renderer struct {
	opts Options

	surface backend.Surface
	scroll  ScrollProvider

	doc         Document
	unsubscribe func()

	index      *linecache.Index
	classifier *highlight.Classifier
	theme      *highlight.Theme
	gutter     *gutter.Gutter
	selection  selection.Range

	frame  Frame
	logger *slog.Logger
}

// New creates a renderer painting on surface. A nil surface is allowed;
// nothing is painted until one is attached.
func New(surface backend.Surface, opts Options) *Renderer {
	r := &Renderer{
		opts:       opts,
		surface:    surface,
		index:      linecache.NewIndex(),
		classifier: highlight.NewClassifier(),
		theme:      highlight.DefaultTheme(),
		gutter:     gutter.New(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	r.gutter.SetVisible(opts.ShowLineNumbers)
	return r
}

// SetLogger sets the logger invalidation passes are reported to.
func (r *Renderer) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r.logger = logger
}

// Attach sets the surface to paint on and repaints.
func (r *Renderer) Attach(surface backend.Surface) {
	r.surface = surface
	r.gutter.Reset()
	r.Invalidate()
}

// Detach removes the surface. Invalidations are skipped until a new one is
// attached.
func (r *Renderer) Detach() {
	r.surface = nil
}

// Attached reports whether a surface is attached.
func (r *Renderer) Attached() bool {
	return r.surface != nil
}

// SetDocument sets the document to render, subscribing to its edits.
func (r *Renderer) SetDocument(doc Document) {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}

	r.doc = doc
	r.index.Invalidate()
	if doc != nil {
		r.unsubscribe = doc.Subscribe(r.Invalidate)
	}
	r.Invalidate()
}

// SetScrollProvider sets the source of scroll offsets and viewport size.
func (r *Renderer) SetScrollProvider(sp ScrollProvider) {
	r.scroll = sp
	r.Invalidate()
}

// Options returns the current options.
func (r *Renderer) Options() Options {
	return r.opts
}

// SetOptions updates the options and repaints.
func (r *Renderer) SetOptions(opts Options) {
	if opts.LineHeight != r.opts.LineHeight {
		// A new line height means a new font; widths must be remeasured.
		r.gutter.Reset()
	}
	r.opts = opts
	r.gutter.SetVisible(opts.ShowLineNumbers)
	r.Invalidate()
}

// Theme returns the current theme.
func (r *Renderer) Theme() *highlight.Theme {
	return r.theme
}

// SetTheme sets the category colors and repaints.
func (r *Renderer) SetTheme(theme *highlight.Theme) {
	if theme == nil {
		theme = highlight.DefaultTheme()
	}
	r.theme = theme
	r.Invalidate()
}

// Frame returns the last painted frame.
func (r *Renderer) Frame() Frame {
	return r.frame
}

// SetSelection sets the selection highlighted by the next Invalidate.
func (r *Renderer) SetSelection(sel selection.Range) {
	r.selection = sel
}

// FrameCount returns the number of frames painted.
func (r *Renderer) FrameCount() uint64 {
	return r.frame.Number
}

// Invalidate repaints the visible window of the document. It does nothing
// until a surface, a document and a scroll provider are set.
func (r *Renderer) Invalidate() {
	if r.surface == nil || r.doc == nil || r.scroll == nil {
		return
	}

	scrollX, scrollY := r.scroll.ScrollOffset()
	_, viewHeight := r.scroll.ViewportSize()
	lineHeight := r.opts.LineHeight
	lineCount := r.doc.LineCount()

	ranges := viewport.Compute(viewport.Metrics{
		ScrollOffset:   scrollY,
		LineHeight:     lineHeight,
		ViewportHeight: viewHeight,
		LineCount:      lineCount,
		Margin:         r.opts.RenderMargin,
	})

	r.index.Update(r.doc.Version(), r.doc.Text())
	slice := r.index.Slice(ranges.Render, lineHeight)
	spans := r.classifier.Classify(slice.Text)

	// The gutter width is applied first so the surface lays the text out
	// beside the new gutter.
	geometry := r.gutter.Update(r.surface, lineCount)
	r.surface.SetGutterWidth(geometry.WidthPx)

	base := r.theme.StyleFor(highlight.Default)
	styled := r.theme.StyleSpans(spans)
	if start, end, ok := selection.Offsets(slice.Text, ranges.Render.First-1, r.selection); ok {
		styled = selection.Overlay(styled, base, start, end, r.theme.Selection)
	}

	textOrigin := core.Pt(-scrollX, -scrollY+slice.VerticalOffset)
	r.surface.PaintText(slice.Text, styled, base, textOrigin)

	var gutterText string
	var gutterOrigin core.Point
	if r.gutter.Visible() {
		gutterText = gutter.Numbers(ranges.View, lineCount)
		gutterOrigin = core.Pt(-scrollX+geometry.WidthPx, -scrollY+float64(ranges.View.First-1)*lineHeight)
		r.surface.PaintGutter(gutterText, r.theme.LineNumbers, gutterOrigin)
	}

	r.surface.Flush()

	r.frame = Frame{
		Number:       r.frame.Number + 1,
		View:         ranges.View,
		Render:       ranges.Render,
		Slice:        slice,
		Spans:        spans,
		Gutter:       geometry,
		GutterText:   gutterText,
		TextOrigin:   textOrigin,
		GutterOrigin: gutterOrigin,
	}

	r.logger.Debug("frame painted",
		"frame", r.frame.Number,
		"view", ranges.View.String(),
		"render", ranges.Render.String(),
		"slice_bytes", len(slice.Text),
		"spans", len(spans),
		"gutter_px", geometry.WidthPx,
		"index_rebuilds", r.index.Stats().Rebuilds,
		"index_reuses", r.index.Stats().Reuses,
	)
}
