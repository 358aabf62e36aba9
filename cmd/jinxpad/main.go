// Package main is the entry point for the jinxpad editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/dshills/jinxpad/internal/app"
	"github.com/dshills/jinxpad/internal/config"
	"github.com/dshills/jinxpad/internal/export"
	"github.com/dshills/jinxpad/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// flags holds the parsed command line.
type flags struct {
	configPath string
	logLevel   string
	logFile    string
	logJSON    bool
	exportAs   string
	noWatch    bool
	file       string
}

func main() {
	os.Exit(run())
}

func run() int {
	f := parseFlags()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}

	// Piped output gets the highlighted text instead of the editor
	if f.exportAs == "" && f.file != "" && !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		f.exportAs = export.FormatANSI.String()
	}
	if f.exportAs != "" {
		return runExport(f, cfg)
	}

	level := cfg.Logging.Level
	if f.logLevel != "" {
		level = f.logLevel
	}
	logger, closeLog, err := openLogger(f, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open log file: %v\n", err)
		return 1
	}
	defer closeLog()

	term, err := backend.NewTerminal(backend.CellMetrics{
		LineHeight: cfg.Font.LineHeight(),
		CellWidth:  cfg.Font.CellWidth(),
		TabWidth:   cfg.Editor.SpacesPerTab,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	opts := app.Options{
		Path:       f.file,
		Config:     cfg,
		ConfigPath: f.configPath,
		Logger:     logger,
	}
	if f.noWatch {
		opts.ConfigPath = ""
	}

	application, err := app.New(term, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		logger.Error("editor stopped", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

// runExport writes the highlighted file to stdout.
func runExport(f flags, cfg *config.Config) int {
	format, err := export.ParseFormat(f.exportAs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if f.file == "" {
		fmt.Fprintf(os.Stderr, "Error: -export needs a file\n")
		return 1
	}
	doc, err := app.OpenDocument(f.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	colors, err := cfg.Colors.Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	exporter, err := export.New(export.Options{
		Colors:      &colors,
		LineNumbers: cfg.Editor.LineNumbers,
		Standalone:  true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if err := exporter.Write(os.Stdout, format, doc.Buffer.Text()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// openLogger creates the logger. Without a log file logs are discarded:
// the terminal belongs to the editor.
func openLogger(f flags, level string) (*slog.Logger, func(), error) {
	if f.logFile == "" {
		return app.DiscardLogger(), func() {}, nil
	}

	file, err := app.OpenLogFile(f.logFile)
	if err != nil {
		return nil, nil, err
	}

	logger := app.NewLogger(app.LoggerConfig{
		Level:  app.ParseLogLevel(level),
		Output: file,
		JSON:   f.logJSON,
	})
	logger.Info("jinxpad starting", "version", version, "commit", commit)
	return logger, func() { file.Close() }, nil
}

func parseFlags() flags {
	var f flags
	var showVersion bool
	var showHelp bool

	flag.StringVar(&f.configPath, "config", config.DefaultPath(), "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&f.configPath, "c", config.DefaultPath(), "Path to configuration file (shorthand)")
	flag.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config")
	flag.StringVar(&f.logFile, "log-file", "", "Write logs to this file")
	flag.BoolVar(&f.logJSON, "log-json", false, "Write logs as JSON")
	flag.StringVar(&f.exportAs, "export", "", "Print the highlighted file as html or ansi and exit")
	flag.BoolVar(&f.noWatch, "no-watch", false, "Do not reload the config file when it changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "jinxpad - editor for Jinx scripts\n\n")
		fmt.Fprintf(os.Stderr, "Usage: jinxpad [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  Tab / Shift-Tab             Indent / unindent\n")
		fmt.Fprintf(os.Stderr, "  Ctrl-S                      Save\n")
		fmt.Fprintf(os.Stderr, "  Ctrl-Q                      Quit\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  jinxpad                     Open an empty buffer\n")
		fmt.Fprintf(os.Stderr, "  jinxpad game.jinx           Open a file\n")
		fmt.Fprintf(os.Stderr, "  jinxpad -export html x.jinx Print x.jinx as HTML\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("jinxpad %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	// Validate log level
	switch f.logLevel {
	case "", "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", f.logLevel)
		os.Exit(1)
	}

	switch flag.NArg() {
	case 0:
	case 1:
		f.file = flag.Arg(0)
	default:
		fmt.Fprintf(os.Stderr, "Error: jinxpad edits one file at a time\n")
		os.Exit(1)
	}

	return f
}
