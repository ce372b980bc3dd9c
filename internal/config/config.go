package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/caret/internal/config/loader"
	"github.com/dshills/caret/internal/dom"
	"github.com/dshills/caret/internal/geometry"
	"github.com/dshills/caret/internal/logging"
)

// Config holds the resolved settings.
type Config struct {
	Logging   LoggingConfig
	Document  DocumentConfig
	Selection SelectionConfig
	Scroll    ScrollConfig
	Layout    LayoutConfig

	// Source is the config file that was read, empty when none was found.
	Source string
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level string
}

// DocumentConfig selects the editing root.
type DocumentConfig struct {
	// Root is the XPath query for the editing root.
	Root string
}

// SelectionConfig contains selection controller settings.
type SelectionConfig struct {
	// DeferTicks is how many scheduler turns deferred reactions wait.
	DeferTicks int
}

// ScrollConfig contains scroll-into-view settings.
type ScrollConfig struct {
	Mode               string
	Block              string
	Inline             string
	SkipOverflowHidden bool
}

// LayoutConfig contains layout metrics.
type LayoutConfig struct {
	CharWidth      float64
	LineHeight     float64
	ViewportWidth  float64
	ViewportHeight float64
}

// Option configures Load.
type Option func(*options)

type options struct {
	fs        loader.FileSystem
	envPrefix string
}

// WithFS reads the config file through fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithEnvPrefix changes the environment variable prefix. An empty prefix
// disables the environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging:   LoggingConfig{Level: "info"},
		Document:  DocumentConfig{Root: dom.DefaultRootQuery},
		Selection: SelectionConfig{DeferTicks: 1},
		Scroll: ScrollConfig{
			Mode:   "if-needed",
			Block:  "nearest",
			Inline: "nearest",
		},
		Layout: LayoutConfig{
			CharWidth:      8,
			LineHeight:     20,
			ViewportWidth:  1024,
			ViewportHeight: 768,
		},
	}
}

// Load resolves defaults, the file at path and the environment, then
// validates the result. An empty path skips the file layer.
func Load(path string, opts ...Option) (*Config, error) {
	o := options{fs: loader.DefaultFS(), envPrefix: loader.DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	merged := Default().Map()
	source := ""

	if path != "" {
		l, err := loader.ForPath(o.fs, path)
		if err != nil {
			return nil, err
		}
		file, err := l.Load()
		if err != nil {
			return nil, err
		}
		if file != nil {
			source = path
		}
		merged = loader.DeepMerge(merged, file)
	}

	if o.envPrefix != "" {
		env, err := loader.NewEnvLoader(o.envPrefix).Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, env)
	}

	cfg, err := FromMap(merged)
	if err != nil {
		return nil, err
	}
	cfg.Source = source

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Map returns the configuration as a nested map keyed like the config file.
func (c *Config) Map() map[string]any {
	return map[string]any{
		"logging": map[string]any{
			"level": c.Logging.Level,
		},
		"document": map[string]any{
			"root": c.Document.Root,
		},
		"selection": map[string]any{
			"deferTicks": c.Selection.DeferTicks,
		},
		"scroll": map[string]any{
			"mode":               c.Scroll.Mode,
			"block":              c.Scroll.Block,
			"inline":             c.Scroll.Inline,
			"skipOverflowHidden": c.Scroll.SkipOverflowHidden,
		},
		"layout": map[string]any{
			"charWidth":      c.Layout.CharWidth,
			"lineHeight":     c.Layout.LineHeight,
			"viewportWidth":  c.Layout.ViewportWidth,
			"viewportHeight": c.Layout.ViewportHeight,
		},
	}
}

// FromMap decodes a nested settings map. Missing settings keep their
// defaults and unknown keys are ignored. Every type error is reported.
func FromMap(m map[string]any) (*Config, error) {
	c := Default()
	d := decoder{m: m}

	d.readString("logging.level", &c.Logging.Level)
	d.readString("document.root", &c.Document.Root)
	d.readInt("selection.deferTicks", &c.Selection.DeferTicks)
	d.readString("scroll.mode", &c.Scroll.Mode)
	d.readString("scroll.block", &c.Scroll.Block)
	d.readString("scroll.inline", &c.Scroll.Inline)
	d.readBool("scroll.skipOverflowHidden", &c.Scroll.SkipOverflowHidden)
	d.readFloat("layout.charWidth", &c.Layout.CharWidth)
	d.readFloat("layout.lineHeight", &c.Layout.LineHeight)
	d.readFloat("layout.viewportWidth", &c.Layout.ViewportWidth)
	d.readFloat("layout.viewportHeight", &c.Layout.ViewportHeight)

	if err := errors.Join(d.errs...); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every setting and joins all failures.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(path, msg string, v any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
	}

	if !logging.ValidLevel(c.Logging.Level) {
		invalid("logging.level", "must be debug, info, warn or error", c.Logging.Level)
	}
	if strings.TrimSpace(c.Document.Root) == "" {
		invalid("document.root", "must not be empty", c.Document.Root)
	}
	if c.Selection.DeferTicks < 1 {
		invalid("selection.deferTicks", "must be at least 1", c.Selection.DeferTicks)
	}
	if _, ok := geometry.ParseMode(c.Scroll.Mode); !ok {
		invalid("scroll.mode", "must be always or if-needed", c.Scroll.Mode)
	}
	if _, ok := geometry.ParseAlignment(c.Scroll.Block); !ok {
		invalid("scroll.block", "must be start, center, end, nearest or auto", c.Scroll.Block)
	}
	if _, ok := geometry.ParseAlignment(c.Scroll.Inline); !ok {
		invalid("scroll.inline", "must be start, center, end, nearest or auto", c.Scroll.Inline)
	}
	if c.Layout.CharWidth <= 0 {
		invalid("layout.charWidth", "must be positive", c.Layout.CharWidth)
	}
	if c.Layout.LineHeight <= 0 {
		invalid("layout.lineHeight", "must be positive", c.Layout.LineHeight)
	}
	if c.Layout.ViewportWidth < 0 || c.Layout.ViewportHeight < 0 {
		invalid("layout.viewport", "must not be negative",
			fmt.Sprintf("%vx%v", c.Layout.ViewportWidth, c.Layout.ViewportHeight))
	}

	return errors.Join(errs...)
}

// decoder reads typed values out of a nested map, collecting type errors.
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

func (d *decoder) fail(path, expected string, v any) {
	d.errs = append(d.errs, &TypeError{Path: path, Expected: expected, Actual: typeName(v)})
}

func (d *decoder) readString(path string, dst *string) {
	v, ok := d.get(path)
	if !ok {
		return
	}
	s, ok := v.(string)
	if !ok {
		d.fail(path, "string", v)
		return
	}
	*dst = s
}

func (d *decoder) readInt(path string, dst *int) {
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
			d.fail(path, "int", v)
			return
		}
		*dst = int(val)
	default:
		d.fail(path, "int", v)
	}
}

func (d *decoder) readFloat(path string, dst *float64) {
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
		d.fail(path, "float64", v)
	}
}

func (d *decoder) readBool(path string, dst *bool) {
	v, ok := d.get(path)
	if !ok {
		return
	}
	b, ok := v.(bool)
	if !ok {
		d.fail(path, "bool", v)
		return
	}
	*dst = b
}
