// Package app provides the main application structure and coordination
// for the jinxpad editor. It wires the document, renderer, scroller and
// indent editor to a terminal screen and runs the event loop.
package app

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dshills/jinxpad/internal/config"
	"github.com/dshills/jinxpad/internal/config/watcher"
	"github.com/dshills/jinxpad/internal/engine/indent"
	"github.com/dshills/jinxpad/internal/renderer"
	"github.com/dshills/jinxpad/internal/renderer/backend"
	"github.com/dshills/jinxpad/internal/renderer/core"
	"github.com/dshills/jinxpad/internal/renderer/highlight"
	"github.com/dshills/jinxpad/internal/renderer/statusline"
	"github.com/dshills/jinxpad/internal/renderer/viewport"
)

// Screen is the terminal the application paints on and reads input from.
// backend.Terminal implements it.
type Screen interface {
	backend.Surface

	Init() error
	Shutdown()

	SetMetrics(m backend.CellMetrics)
	Metrics() backend.CellMetrics
	ViewportSize() (width, height float64)
	GutterColumns() int
	ShowCursorAt(p core.Point)

	SetStatusRows(n int)
	statusline.Painter

	PollEvent() backend.Event
	PostInterrupt(data any) error
}

var _ Screen = (*backend.Terminal)(nil)

// Options configures the application.
type Options struct {
	// Path is the file to edit. Empty opens a scratch buffer.
	Path string

	// Config is the initial configuration. Nil selects the defaults.
	Config *config.Config

	// ConfigPath is watched for changes and reloaded. Empty disables
	// live reload.
	ConfigPath string

	// Logger receives application logs. Nil discards them.
	Logger *slog.Logger
}

// Application is the central coordinator for the editor components.
type Application struct {
	mu sync.Mutex

	screen Screen
	config *config.Config
	logger *slog.Logger

	doc      *Document
	view     *batchedDocument
	renderer *renderer.Renderer
	scroller *viewport.Scroller
	indent   *indent.Editor
	status   *statusline.StatusLine
	watcher  *watcher.Watcher

	// Selection as anchor and caret rune offsets
	anchor int
	caret  int

	// goalColumn is the display column vertical moves aim for, -1 when
	// the next vertical move starts from the caret.
	goalColumn int

	events chan backend.Event

	running  atomic.Bool
	done     chan struct{}
	stopOnce sync.Once

	opts Options
}

// New creates an application editing opts.Path on screen.
func New(screen Screen, opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Defaults()
	}

	doc := NewScratchDocument()
	if opts.Path != "" {
		var err error
		if doc, err = OpenDocument(opts.Path); err != nil {
			return nil, err
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = DiscardLogger()
	}

	app := &Application{
		screen:     screen,
		logger:     logger,
		doc:        doc,
		view:       newBatchedDocument(doc.Buffer),
		scroller:   viewport.NewScroller(0, 0, cfg.Font.LineHeight()),
		indent:     indent.NewEditorWithConfig(cfg.Editor.SpacesPerTab),
		status:     statusline.New(),
		goalColumn: -1,
		events:     make(chan backend.Event, 64),
		done:       make(chan struct{}),
		opts:       opts,
	}

	app.status.SetFilename(doc.Name)

	app.renderer = renderer.New(nil, renderer.DefaultOptions())
	app.renderer.SetLogger(WithComponent(logger, "renderer"))
	app.renderer.SetScrollProvider(app.scroller)
	app.renderer.SetDocument(app.view)
	app.applyConfig(cfg)

	logger.Info("document opened",
		"name", doc.Name,
		"lines", doc.Buffer.LineCount(),
		"line_ending", doc.Buffer.LineEnding().String(),
	)

	return app, nil
}

// Run initializes the screen and runs the event loop until the user quits,
// ctx is canceled or Shutdown is called.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.start(); err != nil {
		return err
	}
	defer app.shutdown()

	go app.readEvents()

	return app.eventLoop(ctx)
}

// start initializes the screen and paints the first frame.
func (app *Application) start() error {
	if err := app.screen.Init(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}

	app.startWatcher()

	app.screen.SetMetrics(app.cellMetrics())
	app.syncViewport()
	app.renderer.Attach(app.screen)
	app.render()
	return nil
}

// Shutdown stops a running event loop.
func (app *Application) Shutdown() {
	app.stopOnce.Do(func() { close(app.done) })
}

// shutdown releases the screen and the watcher.
func (app *Application) shutdown() {
	app.Shutdown()

	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			app.logger.Warn("closing config watcher", "error", err)
		}
		app.watcher = nil
	}

	app.renderer.Detach()
	app.view.Close()
	app.screen.Shutdown()

	if app.doc.IsModified() {
		app.logger.Warn("exiting with unsaved changes", "name", app.doc.Name)
	}
}

// startWatcher watches the config file for live reload.
func (app *Application) startWatcher() {
	if app.opts.ConfigPath == "" {
		return
	}

	log := WithComponent(app.logger, "watcher")
	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		log.Warn("config watcher error", "error", err)
	}))
	if err != nil {
		log.Warn("config watcher unavailable", "error", err)
		return
	}

	if err := w.Watch(app.opts.ConfigPath); err != nil {
		log.Warn("cannot watch config", "path", app.opts.ConfigPath, "error", err)
		w.Close()
		return
	}

	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			return
		}
		if err := app.screen.PostInterrupt(reloadConfig{path: ev.Path}); err != nil {
			log.Warn("dropping config change", "error", err)
		}
	})

	w.Start()
	app.watcher = w
}

// reloadConfig is posted by the watcher when the config file changes.
type reloadConfig struct {
	path string
}

// applyConfig pushes cfg into every component.
func (app *Application) applyConfig(cfg *config.Config) {
	app.mu.Lock()
	app.config = cfg
	app.mu.Unlock()

	theme := highlight.DefaultTheme()
	if colors, err := cfg.Colors.Parse(); err != nil {
		app.logger.Warn("invalid colors, using defaults", "error", err)
	} else {
		theme = highlight.NewTheme("Jinx", colors)
	}

	statusRows := 0
	if cfg.Editor.StatusLine {
		statusRows = 1
	}

	app.indent.SetSpacesPerTab(cfg.Editor.SpacesPerTab)
	app.scroller.SetLineHeight(cfg.Font.LineHeight())
	app.screen.SetMetrics(app.cellMetrics())
	app.screen.SetStatusRows(statusRows)

	app.renderer.SetTheme(theme)
	app.renderer.SetOptions(renderer.Options{
		ShowLineNumbers: cfg.Editor.LineNumbers,
		LineHeight:      cfg.Font.LineHeight(),
		RenderMargin:    cfg.Editor.RenderMargin,
	})
}

// cellMetrics maps the configured font onto terminal cells.
func (app *Application) cellMetrics() backend.CellMetrics {
	cfg := app.Config()
	return backend.CellMetrics{
		LineHeight: cfg.Font.LineHeight(),
		CellWidth:  cfg.Font.CellWidth(),
		TabWidth:   cfg.Editor.SpacesPerTab,
	}
}

// IsRunning returns true if the event loop is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.config
}

// Document returns the document being edited.
func (app *Application) Document() *Document {
	return app.doc
}

// Renderer returns the renderer.
func (app *Application) Renderer() *renderer.Renderer {
	return app.renderer
}

// Scroller returns the scroll state.
func (app *Application) Scroller() *viewport.Scroller {
	return app.scroller
}

// Caret returns the caret rune offset.
func (app *Application) Caret() int {
	return app.caret
}

// Selection returns the selection, starting at the anchor. Its length is
// negative when the caret is before the anchor.
func (app *Application) Selection() indent.Selection {
	return indent.Selection{Start: app.anchor, Length: app.caret - app.anchor}
}
