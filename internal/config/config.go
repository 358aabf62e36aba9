package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/jinxpad/internal/config/loader"
)

// Config is a snapshot of the merged configuration.
type Config struct {
	Editor  EditorConfig
	Colors  ColorsConfig
	Font    FontConfig
	Logging LoggingConfig

	// Path is the config file the snapshot was loaded from, if any.
	Path string
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	c, err := FromMap(defaultConfig())
	if err != nil {
		// The defaults are constants; failing here is a programming error.
		panic(err)
	}
	return c
}

// DefaultPath returns the config file read when none is given.
func DefaultPath() string {
	return filepath.Join(defaultUserConfigDir(), "config.toml")
}

// defaultUserConfigDir returns the default user configuration directory.
func defaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "jinxpad")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "jinxpad")
}

// Load reads the defaults, the file at path and the environment, merges
// them in that order and validates the result. A missing file is not an
// error; an empty path skips the file layer.
func Load(path string) (*Config, error) {
	var file loader.Loader
	if path != "" {
		file = loader.ForPath(path)
	}
	c, err := LoadFrom(file, loader.NewEnvLoader(loader.EnvPrefix))
	if err != nil {
		return nil, err
	}
	c.Path = path
	return c, nil
}

// LoadFrom merges the defaults with each source in order, later sources
// overriding earlier ones. Nil sources are skipped.
func LoadFrom(sources ...loader.Loader) (*Config, error) {
	merged := defaultConfig()
	for _, src := range sources {
		if src == nil {
			continue
		}
		layer, err := src.Load()
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		merged = loader.DeepMerge(merged, layer)
	}

	c, err := FromMap(merged)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromMap decodes a merged settings map. Missing settings keep their
// zero value; settings of the wrong type are reported as TypeErrors.
func FromMap(m map[string]any) (*Config, error) {
	d := decoder{m: m}
	c := &Config{}

	d.int("editor.spacesPerTab", &c.Editor.SpacesPerTab)
	d.bool("editor.lineNumbers", &c.Editor.LineNumbers)
	d.bool("editor.statusLine", &c.Editor.StatusLine)
	d.int("editor.renderMargin", &c.Editor.RenderMargin)

	d.string("colors.default", &c.Colors.Default)
	d.string("colors.keyword", &c.Colors.Keyword)
	d.string("colors.value", &c.Colors.Value)
	d.string("colors.comment", &c.Colors.Comment)
	d.string("colors.lineNumbers", &c.Colors.LineNumbers)
	d.string("colors.selection", &c.Colors.Selection)

	d.string("font.family", &c.Font.Family)
	d.float("font.size", &c.Font.Size)
	d.string("font.weight", &c.Font.Weight)
	d.string("font.stretch", &c.Font.Stretch)

	d.string("logging.level", &c.Logging.Level)

	if err := errors.Join(d.errs...); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every setting and reports all problems found. Each
// returned error matches ErrInvalidValue.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(path, msg string, v any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
	}

	if c.Editor.SpacesPerTab < 1 || c.Editor.SpacesPerTab > 16 {
		invalid("editor.spacesPerTab", "must be between 1 and 16", c.Editor.SpacesPerTab)
	}
	if c.Editor.RenderMargin < 0 {
		invalid("editor.renderMargin", "must not be negative", c.Editor.RenderMargin)
	}
	if c.Font.Size <= 0 || c.Font.Size > 200 {
		invalid("font.size", "must be between 0 and 200", c.Font.Size)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		invalid("logging.level", "must be debug, info, warn or error", c.Logging.Level)
	}
	if _, err := c.Colors.Parse(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"editor": map[string]any{
			"spacesPerTab": 4,
			"lineNumbers":  true,
			"statusLine":   true,
			"renderMargin": 50,
		},
		"colors": map[string]any{
			"default":     "default",
			"keyword":     "#0070C0",
			"value":       "#C00000",
			"comment":     "#00B050",
			"lineNumbers": "#A9A9A9",
			"selection":   "#264F78",
		},
		"font": map[string]any{
			"family":  "Consolas",
			"size":    12.0,
			"weight":  "normal",
			"stretch": "normal",
		},
		"logging": map[string]any{
			"level": "info",
		},
	}
}

// decoder reads typed values out of a nested settings map, collecting
// type errors.
type decoder struct {
	m    map[string]any
	errs []error
}

func (d *decoder) get(path string) (any, bool) {
	current := any(d.m)
	for _, part := range strings.Split(path, ".") {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = cm[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

func (d *decoder) mismatch(path, expected string, v any) {
	d.errs = append(d.errs, &TypeError{Path: path, Expected: expected, Actual: typeName(v)})
}

func (d *decoder) string(path string, dst *string) {
	v, ok := d.get(path)
	if !ok {
		return
	}
	s, ok := v.(string)
	if !ok {
		d.mismatch(path, "string", v)
		return
	}
	*dst = s
}

func (d *decoder) int(path string, dst *int) {
	v, ok := d.get(path)
	if !ok {
		return
	}
	switch val := v.(type) {
	case int:
		*dst = val
	case int64:
		*dst = int(val)
	case float64:
		if val != float64(int(val)) {
			d.mismatch(path, "int", v)
			return
		}
		*dst = int(val)
	default:
		d.mismatch(path, "int", v)
	}
}

func (d *decoder) float(path string, dst *float64) {
	v, ok := d.get(path)
	if !ok {
		return
	}
	switch val := v.(type) {
	case float64:
		*dst = val
	case int:
		*dst = float64(val)
	case int64:
		*dst = float64(val)
	default:
		d.mismatch(path, "float64", v)
	}
}

func (d *decoder) bool(path string, dst *bool) {
	v, ok := d.get(path)
	if !ok {
		return
	}
	b, ok := v.(bool)
	if !ok {
		d.mismatch(path, "bool", v)
		return
	}
	*dst = b
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []any:
		return "array"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
