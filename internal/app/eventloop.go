package app

import (
	"context"
	"errors"

	"github.com/dshills/jinxpad/internal/config"
	"github.com/dshills/jinxpad/internal/engine/buffer"
	"github.com/dshills/jinxpad/internal/renderer/backend"
	"github.com/dshills/jinxpad/internal/renderer/core"
	"github.com/dshills/jinxpad/internal/renderer/selection"
	"github.com/dshills/jinxpad/internal/renderer/statusline"
)

// readEvents forwards screen events to the event loop until the screen
// closes or the application shuts down.
func (app *Application) readEvents() {
	for {
		ev := app.screen.PollEvent()
		select {
		case app.events <- ev:
		case <-app.done:
			return
		}
		if ev.Type == backend.EventClosed {
			return
		}
	}
}

// eventLoop is the main application loop. Each wakeup handles every queued
// event before painting once.
func (app *Application) eventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-app.done:
			return nil
		case ev := <-app.events:
			if err := app.handleBatch(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}
			app.render()
		}
	}
}

// handleBatch handles first and any events already queued behind it.
func (app *Application) handleBatch(first backend.Event) error {
	if err := app.handleEvent(first); err != nil {
		return err
	}
	for {
		select {
		case ev := <-app.events:
			if err := app.handleEvent(ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// handleEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		return app.handleKey(ev)
	case backend.EventMouse:
		app.handleMouse(ev)
	case backend.EventResize:
		app.syncViewport()
	case backend.EventInterrupt:
		app.handleInterrupt(ev.Data)
	case backend.EventClosed:
		return ErrQuit
	}
	return nil
}

// handleInterrupt processes events posted from other goroutines.
func (app *Application) handleInterrupt(data any) {
	switch d := data.(type) {
	case reloadConfig:
		app.reload(d.path)
	}
}

// reload reads the config file again. A config that fails to load or
// validate is logged and the current one kept.
func (app *Application) reload(path string) {
	cfg, err := config.Load(path)
	if err != nil {
		app.logger.Warn("config reload failed", "path", path, "error", err)
		app.status.SetMessage("config not reloaded: "+err.Error(), statusline.MessageWarning)
		return
	}
	app.applyConfig(cfg)
	app.syncViewport()
	app.logger.Info("config reloaded", "path", path)
	app.status.SetMessage("config reloaded", statusline.MessageInfo)
}

// render repaints once: edits reach the renderer through the batched
// document, other changes through an explicit invalidation.
func (app *Application) render() {
	app.scroller.SetLineCount(app.doc.Buffer.LineCount())
	app.renderer.SetSelection(app.selectionRange())
	if !app.view.Flush() {
		app.renderer.Invalidate()
	}

	// The gutter may have grown; keep the scroller in step with the text
	// area and place the cursor beside the new gutter.
	app.syncViewport()
	app.paintStatus()
	app.showCaret()
	app.screen.Flush()
}

// paintStatus updates and paints the status line.
func (app *Application) paintStatus() {
	if !app.Config().Editor.StatusLine {
		return
	}

	p := app.doc.Buffer.OffsetToPoint(app.caret)
	app.status.SetModified(app.doc.IsModified())
	app.status.SetPosition(p.Line+1, p.Column+1)
	app.status.SetTotalLines(app.doc.Buffer.LineCount())
	app.status.Render(app.screen)
}

// syncViewport sizes the scroller to the screen's text area.
func (app *Application) syncViewport() {
	app.scroller.Resize(app.screen.ViewportSize())
}

// showCaret moves the terminal cursor to the caret.
func (app *Application) showCaret() {
	x, y := app.caretPosition()
	scrollX, scrollY := app.scroller.ScrollOffset()
	app.screen.ShowCursorAt(core.Pt(x-scrollX, y-scrollY))
}

// caretPosition returns the caret's pixel position in document space.
func (app *Application) caretPosition() (x, y float64) {
	m := app.screen.Metrics()
	p := app.doc.Buffer.OffsetToPoint(app.caret)
	col := backend.DisplayColumn(app.lineText(p.Line), p.Column, m.TabWidth)
	return float64(col) * m.CellWidth, float64(p.Line) * m.LineHeight
}

// revealCaret scrolls the caret into view.
func (app *Application) revealCaret() {
	m := app.screen.Metrics()
	app.scroller.SetLineCount(app.doc.Buffer.LineCount())

	p := app.doc.Buffer.OffsetToPoint(app.caret)
	app.scroller.Reveal(p.Line + 1)

	x, _ := app.caretPosition()
	app.scroller.RevealColumn(x, m.CellWidth)
}

// selectionRange returns the selection in line and column terms.
func (app *Application) selectionRange() selection.Range {
	anchor := app.doc.Buffer.OffsetToPoint(app.anchor)
	caret := app.doc.Buffer.OffsetToPoint(app.caret)
	return selection.Range{
		Start: selection.Position{Line: anchor.Line, Column: anchor.Column},
		End:   selection.Position{Line: caret.Line, Column: caret.Column},
	}
}

// lineText returns a line (0-indexed) without its terminator.
func (app *Application) lineText(line int) string {
	buf := app.doc.Buffer
	start := buf.PointToOffset(buffer.Point{Line: line})
	text, _ := buf.Slice(start, start+buf.LineLen(line))
	return text
}
