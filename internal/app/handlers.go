package app

import (
	"math"

	"github.com/dshills/jinxpad/internal/engine/buffer"
	"github.com/dshills/jinxpad/internal/engine/indent"
	"github.com/dshills/jinxpad/internal/renderer/backend"
	"github.com/dshills/jinxpad/internal/renderer/statusline"
)

// wheelLines is the number of lines one wheel notch scrolls.
const wheelLines = 3

// handleKey processes keyboard input. Returns ErrQuit on Ctrl-Q.
func (app *Application) handleKey(ev backend.Event) error {
	extend := ev.Mod.Has(backend.ModShift)
	app.status.ClearMessage()

	switch ev.Key {
	case backend.KeyUp, backend.KeyDown, backend.KeyPageUp, backend.KeyPageDown:
	default:
		app.goalColumn = -1
	}

	switch ev.Key {
	case backend.KeyCtrlQ:
		return ErrQuit
	case backend.KeyCtrlS:
		app.save()
		return nil

	case backend.KeyTab:
		app.indentKey(indent.KeyTab)
	case backend.KeyBacktab:
		app.indentKey(indent.KeyBacktab)

	case backend.KeyRune:
		if ev.Mod.Has(backend.ModCtrl) || ev.Mod.Has(backend.ModAlt) {
			return nil
		}
		app.insert(string(ev.Rune))
	case backend.KeyEnter:
		app.insert("\n")
	case backend.KeyBackspace:
		app.deleteBackward()
	case backend.KeyDelete:
		app.deleteForward()

	case backend.KeyLeft:
		app.setCaret(app.caret-1, extend)
	case backend.KeyRight:
		app.setCaret(app.caret+1, extend)
	case backend.KeyUp:
		app.moveLines(-1, extend)
	case backend.KeyDown:
		app.moveLines(1, extend)
	case backend.KeyHome:
		p := app.doc.Buffer.OffsetToPoint(app.caret)
		app.setCaret(app.doc.Buffer.PointToOffset(buffer.Point{Line: p.Line}), extend)
	case backend.KeyEnd:
		p := app.doc.Buffer.OffsetToPoint(app.caret)
		app.setCaret(app.doc.Buffer.PointToOffset(buffer.Point{Line: p.Line, Column: math.MaxInt}), extend)
	case backend.KeyPageUp:
		app.page(-1, extend)
	case backend.KeyPageDown:
		app.page(1, extend)

	default:
		return nil
	}

	app.revealCaret()
	return nil
}

// handleMouse scrolls on the wheel and places the caret on a left click.
func (app *Application) handleMouse(ev backend.Event) {
	m := app.screen.Metrics()
	scrollX, _ := app.scroller.ScrollOffset()

	switch ev.MouseButton {
	case backend.MouseWheelUp:
		app.scroller.ScrollBy(-wheelLines)
	case backend.MouseWheelDown:
		app.scroller.ScrollBy(wheelLines)
	case backend.MouseWheelLeft:
		app.scroller.ScrollHorizontalTo(scrollX - wheelLines*m.CellWidth)
	case backend.MouseWheelRight:
		app.scroller.ScrollHorizontalTo(scrollX + wheelLines*m.CellWidth)
	case backend.MouseLeft:
		// Clicks on the status line do nothing
		if _, h := app.scroller.ViewportSize(); float64(ev.MouseY)*m.LineHeight >= h {
			return
		}
		app.goalColumn = -1
		app.setCaret(app.offsetAt(ev.MouseX, ev.MouseY), ev.Mod.Has(backend.ModShift))
	}
}

// offsetAt maps a screen cell to a document offset, rounding the way the
// terminal places painted rows and columns.
func (app *Application) offsetAt(cellX, cellY int) int {
	m := app.screen.Metrics()
	scrollX, scrollY := app.scroller.ScrollOffset()

	line := cellY + int(math.Floor(scrollY/m.LineHeight+0.5))
	line = min(max(line, 0), app.doc.Buffer.LineCount()-1)

	x := max(cellX-app.screen.GutterColumns(), 0) + int(math.Floor(scrollX/m.CellWidth+0.5))
	col := backend.RuneColumn(app.lineText(line), x, m.TabWidth)

	return app.doc.Buffer.PointToOffset(buffer.Point{Line: line, Column: col})
}

// indentKey applies tab or shift-tab to the selection.
func (app *Application) indentKey(key indent.Key) {
	sel, _, err := app.indent.HandleKey(key, app.doc.Buffer, app.Selection())
	if err != nil {
		app.logger.Error("indent failed", "error", err)
		return
	}
	app.anchor = sel.Start
	app.setCaret(sel.End(), true)
}

// insert replaces the selection with text.
func (app *Application) insert(text string) {
	start, end := app.selectionBounds()
	pos, err := app.doc.Buffer.Replace(start, end, text)
	if err != nil {
		app.logger.Error("insert failed", "error", err)
		return
	}
	app.setCaret(pos, false)
}

// deleteBackward deletes the selection or the rune before the caret.
func (app *Application) deleteBackward() {
	start, end := app.selectionBounds()
	if start == end {
		if start == 0 {
			return
		}
		start--
	}
	app.deleteRange(start, end)
}

// deleteForward deletes the selection or the rune after the caret.
func (app *Application) deleteForward() {
	start, end := app.selectionBounds()
	if start == end {
		if end >= app.doc.Buffer.Len() {
			return
		}
		end++
	}
	app.deleteRange(start, end)
}

func (app *Application) deleteRange(start, end int) {
	if err := app.doc.Buffer.Delete(start, end); err != nil {
		app.logger.Error("delete failed", "error", err)
		return
	}
	app.setCaret(start, false)
}

// moveLines moves the caret delta lines, keeping its display column.
func (app *Application) moveLines(delta int, extend bool) {
	buf := app.doc.Buffer
	tabWidth := app.screen.Metrics().TabWidth
	p := buf.OffsetToPoint(app.caret)

	if app.goalColumn < 0 {
		app.goalColumn = backend.DisplayColumn(app.lineText(p.Line), p.Column, tabWidth)
	}

	line := min(max(p.Line+delta, 0), buf.LineCount()-1)
	col := backend.RuneColumn(app.lineText(line), app.goalColumn, tabWidth)
	app.setCaret(buf.PointToOffset(buffer.Point{Line: line, Column: col}), extend)
}

// page scrolls a screenful and moves the caret with it.
func (app *Application) page(dir int, extend bool) {
	n := app.scroller.VisibleLines()
	app.scroller.ScrollBy(dir * n)
	app.moveLines(dir*n, extend)
}

// setCaret clamps and sets the caret. Unless extend is set the selection
// collapses onto it.
func (app *Application) setCaret(offset int, extend bool) {
	app.caret = min(max(offset, 0), app.doc.Buffer.Len())
	if !extend {
		app.anchor = app.caret
	}
}

// selectionBounds returns the selection as ordered offsets.
func (app *Application) selectionBounds() (start, end int) {
	return min(app.anchor, app.caret), max(app.anchor, app.caret)
}

// save writes the document. Failures are logged; the editor keeps running.
func (app *Application) save() {
	if err := app.doc.Save(); err != nil {
		app.logger.Error("save failed", "error", err)
		app.status.SetMessage(err.Error(), statusline.MessageError)
		return
	}
	app.status.SetMessage("saved "+app.doc.Path, statusline.MessageInfo)
	app.logger.Info("document saved",
		"path", app.doc.Path,
		"line_ending", app.doc.Buffer.LineEnding().String(),
	)
}
