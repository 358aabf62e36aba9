package app

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/jinxpad/internal/config"
	"github.com/dshills/jinxpad/internal/renderer/backend"
	"github.com/dshills/jinxpad/internal/renderer/statusline"
)

// testConfig uses a 10pt font: 13px lines and 6px cells.
func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Font.Size = 10
	return cfg
}

func writeTestFile(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.jinx")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

// newTestApp starts an application on an 80x25 simulation screen.
func newTestApp(t *testing.T, text string) (*Application, *backend.Terminal) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	term := backend.NewTerminalWithScreen(screen, backend.CellMetrics{})

	app, err := New(term, Options{Path: writeTestFile(t, text), Config: testConfig()})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := app.start(); err != nil {
		t.Fatalf("start() failed: %v", err)
	}
	t.Cleanup(app.shutdown)
	return app, term
}

func key(k backend.Key) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: k}
}

func shiftKey(k backend.Key) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: k, Mod: backend.ModShift}
}

func runeKey(r rune) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r}
}

func typeText(t *testing.T, app *Application, s string) {
	t.Helper()
	for _, r := range s {
		if err := app.handleEvent(runeKey(r)); err != nil {
			t.Fatalf("handleEvent(%q) failed: %v", r, err)
		}
	}
}

func press(t *testing.T, app *Application, events ...backend.Event) {
	t.Helper()
	for _, ev := range events {
		if err := app.handleEvent(ev); err != nil {
			t.Fatalf("handleEvent(%+v) failed: %v", ev, err)
		}
	}
}

func rowText(term *backend.Terminal, y, from, to int) string {
	var out []rune
	for x := from; x < to; x++ {
		r, _ := term.CellAt(x, y)
		out = append(out, r)
	}
	return string(out)
}

func TestNewScratchApplication(t *testing.T) {
	term := backend.NewTerminalWithScreen(tcell.NewSimulationScreen("UTF-8"), backend.CellMetrics{})
	app, err := New(term, Options{})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if !app.Document().IsScratch() {
		t.Error("expected a scratch document")
	}
	if app.IsRunning() {
		t.Error("expected IsRunning() to be false before Run()")
	}
	if app.Config() == nil {
		t.Error("expected the default config")
	}
	if app.Renderer().FrameCount() != 0 {
		t.Error("nothing should be painted before the screen starts")
	}
}

func TestNewMissingFile(t *testing.T) {
	term := backend.NewTerminalWithScreen(tcell.NewSimulationScreen("UTF-8"), backend.CellMetrics{})
	path := filepath.Join(t.TempDir(), "new.jinx")

	app, err := New(term, Options{Path: path})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if app.Document().Path != path || app.Document().Buffer.Len() != 0 {
		t.Errorf("expected an empty document for %s", path)
	}
}

func TestStartPaintsFirstFrame(t *testing.T) {
	app, term := newTestApp(t, "set x to 1\nloop")

	if app.Renderer().FrameCount() == 0 {
		t.Fatal("expected a frame after start")
	}

	gutter := term.GutterColumns()
	if gutter == 0 {
		t.Fatal("expected a line number gutter")
	}
	if got := rowText(term, 0, gutter, gutter+10); got != "set x to 1" {
		t.Errorf("expected first row %q, got %q", "set x to 1", got)
	}
	if got := rowText(term, 1, gutter, gutter+4); got != "loop" {
		t.Errorf("expected second row %q, got %q", "loop", got)
	}
}

func TestTypingEditsDocument(t *testing.T) {
	app, _ := newTestApp(t, "")

	typeText(t, app, "set x")
	press(t, app, key(backend.KeyEnter))
	typeText(t, app, "end")

	if got := app.Document().Buffer.Text(); got != "set x\nend" {
		t.Errorf("expected %q, got %q", "set x\nend", got)
	}
	if app.Caret() != 9 {
		t.Errorf("expected caret 9, got %d", app.Caret())
	}
	if !app.Document().IsModified() {
		t.Error("expected the document to be modified")
	}
}

func TestCtrlAltRunesIgnored(t *testing.T) {
	app, _ := newTestApp(t, "")

	press(t, app,
		backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'x', Mod: backend.ModCtrl},
		backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'y', Mod: backend.ModAlt},
	)
	if app.Document().Buffer.Len() != 0 {
		t.Errorf("modified runes should not insert, got %q", app.Document().Buffer.Text())
	}
}

func TestBackspaceAndDelete(t *testing.T) {
	app, _ := newTestApp(t, "abc")

	press(t, app, key(backend.KeyBackspace))
	if app.Document().Buffer.Text() != "abc" {
		t.Error("backspace at the start should do nothing")
	}

	press(t, app, key(backend.KeyDelete))
	if got := app.Document().Buffer.Text(); got != "bc" {
		t.Errorf("expected %q, got %q", "bc", got)
	}

	press(t, app, key(backend.KeyEnd), key(backend.KeyDelete))
	if got := app.Document().Buffer.Text(); got != "bc" {
		t.Errorf("delete at the end should do nothing, got %q", got)
	}

	press(t, app, key(backend.KeyBackspace))
	if got := app.Document().Buffer.Text(); got != "b" || app.Caret() != 1 {
		t.Errorf("expected %q with caret 1, got %q with caret %d", "b", got, app.Caret())
	}
}

func TestShiftSelectsAndTypingReplaces(t *testing.T) {
	app, _ := newTestApp(t, "set x to 1")

	press(t, app, shiftKey(backend.KeyRight), shiftKey(backend.KeyRight), shiftKey(backend.KeyRight))
	sel := app.Selection()
	if sel.Start != 0 || sel.Length != 3 {
		t.Fatalf("expected selection {0 3}, got %+v", sel)
	}

	typeText(t, app, "put")
	if got := app.Document().Buffer.Text(); got != "put x to 1" {
		t.Errorf("expected %q, got %q", "put x to 1", got)
	}
	if sel := app.Selection(); sel.Length != 0 || sel.Start != 3 {
		t.Errorf("expected caret at 3, got %+v", sel)
	}

	press(t, app, shiftKey(backend.KeyEnd), key(backend.KeyBackspace))
	if got := app.Document().Buffer.Text(); got != "put" {
		t.Errorf("expected %q, got %q", "put", got)
	}
}

func TestSelectionIsHighlighted(t *testing.T) {
	app, term := newTestApp(t, "set x to 1")

	press(t, app, shiftKey(backend.KeyRight), shiftKey(backend.KeyRight))
	app.render()

	bg := app.Renderer().Theme().Selection
	gutter := term.GutterColumns()
	for x, want := range []bool{true, true, false} {
		_, style := term.CellAt(gutter+x, 0)
		if got := style.Background.Equals(bg); got != want {
			t.Errorf("column %d: expected highlighted=%v, got %v", x, want, got)
		}
	}

	press(t, app, key(backend.KeyRight))
	app.render()
	if _, style := term.CellAt(gutter, 0); style.Background.Equals(bg) {
		t.Error("collapsing the selection should clear the highlight")
	}
}

func TestGutterStaysWhenScrolledRight(t *testing.T) {
	app, term := newTestApp(t, strings.Repeat("x", 200))

	press(t, app, key(backend.KeyEnd))
	app.render()

	if x, _ := app.Scroller().ScrollOffset(); x <= 0 {
		t.Fatalf("expected a horizontal scroll, got %v", x)
	}
	if got := strings.TrimSpace(rowText(term, 0, 0, term.GutterColumns())); got != "1" {
		t.Errorf("expected line number 1 in the gutter, got %q", got)
	}
}

func TestTabKeys(t *testing.T) {
	app, _ := newTestApp(t, "x")

	press(t, app, key(backend.KeyTab))
	if got := app.Document().Buffer.Text(); got != "    x" {
		t.Errorf("expected %q, got %q", "    x", got)
	}
	if app.Caret() != 4 {
		t.Errorf("expected caret 4, got %d", app.Caret())
	}

	press(t, app, key(backend.KeyBacktab))
	if got := app.Document().Buffer.Text(); got != "x" || app.Caret() != 0 {
		t.Errorf("expected %q with caret 0, got %q with caret %d", "x", got, app.Caret())
	}
}

func TestTabReplacesSelection(t *testing.T) {
	app, _ := newTestApp(t, "abc")

	press(t, app, shiftKey(backend.KeyRight), shiftKey(backend.KeyRight), key(backend.KeyTab))
	if got := app.Document().Buffer.Text(); got != "    c" {
		t.Errorf("expected %q, got %q", "    c", got)
	}
	if sel := app.Selection(); sel.Start != 4 || sel.Length != 0 {
		t.Errorf("expected caret at 4, got %+v", sel)
	}
}

func TestVerticalMovementKeepsGoalColumn(t *testing.T) {
	app, _ := newTestApp(t, "abcdef\nab\nabcdef")

	press(t, app, key(backend.KeyEnd))
	if app.Caret() != 6 {
		t.Fatalf("expected caret 6, got %d", app.Caret())
	}

	press(t, app, key(backend.KeyDown))
	if app.Caret() != 9 {
		t.Errorf("expected caret clamped to 9, got %d", app.Caret())
	}

	press(t, app, key(backend.KeyDown))
	if app.Caret() != 16 {
		t.Errorf("expected caret back at column 6 (16), got %d", app.Caret())
	}

	press(t, app, key(backend.KeyLeft), key(backend.KeyUp))
	if app.Caret() != 9 {
		t.Errorf("expected caret 9 after a new goal, got %d", app.Caret())
	}

	press(t, app, key(backend.KeyHome))
	if app.Caret() != 7 {
		t.Errorf("expected caret 7 at line start, got %d", app.Caret())
	}
}

func TestVerticalMovementAcrossTabs(t *testing.T) {
	app, _ := newTestApp(t, "\tx\nabcdef")

	// Caret after the tab sits in display column 4
	press(t, app, key(backend.KeyRight), key(backend.KeyDown))
	if app.Caret() != 7 {
		t.Errorf("expected caret at column 4 of line 2 (7), got %d", app.Caret())
	}
}

func TestSaveWritesFile(t *testing.T) {
	app, _ := newTestApp(t, "a\r\nb")

	typeText(t, app, "z")
	press(t, app, key(backend.KeyCtrlS))

	data, err := os.ReadFile(app.Document().Path)
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}
	if string(data) != "za\r\nb" {
		t.Errorf("expected %q, got %q", "za\r\nb", data)
	}
	if app.Document().IsModified() {
		t.Error("document should be clean after save")
	}
}

func TestSaveScratchLogsError(t *testing.T) {
	var logs bytes.Buffer
	term := backend.NewTerminalWithScreen(tcell.NewSimulationScreen("UTF-8"), backend.CellMetrics{})
	app, err := New(term, Options{
		Config: testConfig(),
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := app.handleEvent(key(backend.KeyCtrlS)); err != nil {
		t.Errorf("save failures should not stop the editor, got %v", err)
	}
	if !strings.Contains(logs.String(), "save failed") {
		t.Errorf("expected a logged save failure, got %q", logs.String())
	}
}

func TestQuitKey(t *testing.T) {
	app, _ := newTestApp(t, "")

	if err := app.handleEvent(key(backend.KeyCtrlQ)); err != ErrQuit {
		t.Errorf("expected ErrQuit, got %v", err)
	}
	if err := app.handleEvent(backend.Event{Type: backend.EventClosed}); err != ErrQuit {
		t.Errorf("expected ErrQuit on a closed screen, got %v", err)
	}
}

func numberedLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	return strings.Join(lines, "\n")
}

func TestMouseWheelScrolls(t *testing.T) {
	app, term := newTestApp(t, numberedLines(200))
	lineHeight := app.Config().Font.LineHeight()

	press(t, app, backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseWheelDown})
	app.render()

	if _, y := app.Scroller().ScrollOffset(); y != 3*lineHeight {
		t.Errorf("expected scroll offset %v, got %v", 3*lineHeight, y)
	}
	gutter := term.GutterColumns()
	if got := rowText(term, 0, gutter, gutter+6); got != "line 4" {
		t.Errorf("expected first row %q, got %q", "line 4", got)
	}

	press(t, app, backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseWheelUp})
	press(t, app, backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseWheelUp})
	if _, y := app.Scroller().ScrollOffset(); y != 0 {
		t.Errorf("expected scroll offset clamped to 0, got %v", y)
	}
}

func TestMouseClickPlacesCaret(t *testing.T) {
	app, term := newTestApp(t, "set x\nloop forever")

	gutter := term.GutterColumns()
	press(t, app, backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseLeft, MouseX: gutter + 2, MouseY: 1})
	if app.Caret() != 8 {
		t.Errorf("expected caret 8, got %d", app.Caret())
	}

	// Clicks past the end of a line land at its end
	press(t, app, backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseLeft, MouseX: gutter + 40, MouseY: 0})
	if app.Caret() != 5 {
		t.Errorf("expected caret 5, got %d", app.Caret())
	}

	// Clicks below the last line land on it
	press(t, app, backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseLeft, MouseX: gutter, MouseY: 20})
	if app.Caret() != 6 {
		t.Errorf("expected caret 6, got %d", app.Caret())
	}
}

func TestCaretMovesRevealLine(t *testing.T) {
	app, _ := newTestApp(t, numberedLines(200))

	press(t, app, key(backend.KeyPageDown), key(backend.KeyPageDown))
	top := app.Scroller().TopLine()
	if top <= 1 {
		t.Fatalf("expected the view to scroll, top line %d", top)
	}

	line := app.Document().Buffer.OffsetToPoint(app.Caret()).Line + 1
	visible := app.Scroller().VisibleLines()
	if line < top || line >= top+visible {
		t.Errorf("caret line %d outside view [%d, %d)", line, top, top+visible)
	}

	press(t, app, key(backend.KeyPageUp), key(backend.KeyPageUp))
	if app.Caret() != 0 || app.Scroller().TopLine() != 1 {
		t.Errorf("expected caret 0 at the top, got caret %d top %d", app.Caret(), app.Scroller().TopLine())
	}
}

func TestBatchPaintsOnce(t *testing.T) {
	app, _ := newTestApp(t, "")
	before := app.Renderer().FrameCount()

	for _, r := range "loop" {
		app.events <- runeKey(r)
	}
	first := <-app.events
	if err := app.handleBatch(first); err != nil {
		t.Fatalf("handleBatch failed: %v", err)
	}
	if app.Renderer().FrameCount() != before {
		t.Error("edits should not paint before the batch is flushed")
	}

	app.render()
	if got := app.Renderer().FrameCount(); got != before+1 {
		t.Errorf("expected one frame for the batch, got %d", got-before)
	}
	if got := app.Renderer().Frame().Slice.Text; got != "loop" {
		t.Errorf("expected painted text %q, got %q", "loop", got)
	}
}

func TestConfigReload(t *testing.T) {
	app, term := newTestApp(t, "x")
	dir := t.TempDir()

	good := filepath.Join(dir, "config.toml")
	os.WriteFile(good, []byte("[editor]\nspacesPerTab = 2\nlineNumbers = false\n"), 0o644)
	press(t, app, backend.Event{Type: backend.EventInterrupt, Data: reloadConfig{path: good}})
	app.render()

	if app.Config().Editor.SpacesPerTab != 2 {
		t.Errorf("expected 2 spaces per tab, got %d", app.Config().Editor.SpacesPerTab)
	}
	if term.GutterColumns() != 0 {
		t.Errorf("expected the gutter hidden, got %d columns", term.GutterColumns())
	}
	if term.Metrics().TabWidth != 2 {
		t.Errorf("expected tab width 2, got %d", term.Metrics().TabWidth)
	}

	press(t, app, key(backend.KeyTab))
	if got := app.Document().Buffer.Text(); got != "  x" {
		t.Errorf("expected %q, got %q", "  x", got)
	}

	bad := filepath.Join(dir, "bad.toml")
	os.WriteFile(bad, []byte("[editor]\nspacesPerTab = 0\n"), 0o644)
	press(t, app, backend.Event{Type: backend.EventInterrupt, Data: reloadConfig{path: bad}})
	if app.Config().Editor.SpacesPerTab != 2 {
		t.Errorf("invalid config should be ignored, got %d", app.Config().Editor.SpacesPerTab)
	}
}

func TestResizeUpdatesScroller(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	term := backend.NewTerminalWithScreen(screen, backend.CellMetrics{})
	app, err := New(term, Options{Config: testConfig()})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := app.start(); err != nil {
		t.Fatalf("start() failed: %v", err)
	}
	t.Cleanup(app.shutdown)

	screen.SetSize(40, 10)
	press(t, app, backend.Event{Type: backend.EventResize, Width: 40, Height: 10})

	// One row is the status line
	_, h := app.Scroller().ViewportSize()
	if h != 9*app.Config().Font.LineHeight() {
		t.Errorf("expected viewport height %v, got %v", 9*app.Config().Font.LineHeight(), h)
	}
}

func TestRunStopsOnShutdown(t *testing.T) {
	term := backend.NewTerminalWithScreen(tcell.NewSimulationScreen("UTF-8"), backend.CellMetrics{})
	app, err := New(term, Options{Config: testConfig()})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	app.Shutdown()
	if err := app.Run(context.Background()); err != nil {
		t.Errorf("expected clean exit, got %v", err)
	}
	if app.IsRunning() {
		t.Error("expected IsRunning() to be false after Run()")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	term := backend.NewTerminalWithScreen(tcell.NewSimulationScreen("UTF-8"), backend.CellMetrics{})
	app, err := New(term, Options{Config: testConfig()})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := app.Run(ctx); err != nil {
		t.Errorf("expected clean exit, got %v", err)
	}
}

func TestStatusLine(t *testing.T) {
	app, term := newTestApp(t, "set x\nloop")
	name := filepath.Base(app.Document().Path)

	if got := rowText(term, 24, 0, 1+len(name)); got != " "+name {
		t.Errorf("expected the file name on the status row, got %q", got)
	}

	press(t, app, key(backend.KeyDown), key(backend.KeyEnd))
	typeText(t, app, "s")
	app.render()

	_, right, _ := app.status.Content()
	if right != "Ln 2, Col 6 | Bot" {
		t.Errorf("expected position %q, got %q", "Ln 2, Col 6 | Bot", right)
	}
	if got := rowText(term, 24, 0, 5+len(name)); got != " "+name+" [+]" {
		t.Errorf("expected the modified marker, got %q", got)
	}

	press(t, app, key(backend.KeyCtrlS))
	app.render()
	if msg, typ := app.status.Message(); !strings.HasPrefix(msg, "saved ") || typ != statusline.MessageInfo {
		t.Errorf("expected a saved message, got %q (%d)", msg, typ)
	}

	// The next key clears the message
	press(t, app, key(backend.KeyLeft))
	if msg, _ := app.status.Message(); msg != "" {
		t.Errorf("expected the message cleared, got %q", msg)
	}
}

func TestStatusLineClickIgnored(t *testing.T) {
	app, term := newTestApp(t, numberedLines(100))

	press(t, app, backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseLeft, MouseX: term.GutterColumns() + 1, MouseY: 24})
	if app.Caret() != 0 {
		t.Errorf("click on the status line moved the caret to %d", app.Caret())
	}
}

func TestStatusLineHidden(t *testing.T) {
	app, term := newTestApp(t, "x")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	os.WriteFile(path, []byte("[editor]\nstatusLine = false\n[font]\nsize = 10\n"), 0o644)
	press(t, app, backend.Event{Type: backend.EventInterrupt, Data: reloadConfig{path: path}})
	app.render()

	if _, h := app.Scroller().ViewportSize(); h != 25*app.Config().Font.LineHeight() {
		t.Errorf("expected the text to use every row, got height %v", h)
	}
	if got := rowText(term, 24, 0, 3); strings.TrimSpace(got) != "" {
		t.Errorf("expected the status row cleared, got %q", got)
	}
}
