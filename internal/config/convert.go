package config

import (
	"io"

	"golang.org/x/net/html"

	"github.com/dshills/caret/internal/dom"
	"github.com/dshills/caret/internal/geometry"
	"github.com/dshills/caret/internal/logging"
	"github.com/dshills/caret/internal/selection"
)

// Logger builds the root logger writing to w.
func (c *Config) Logger(w io.Writer) *logging.Logger {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(c.Logging.Level)
	if w != nil {
		cfg.Output = w
	}
	return logging.New(cfg)
}

// DocumentOptions returns the dom options for these settings.
func (c *Config) DocumentOptions(l *logging.Logger) []dom.Option {
	return []dom.Option{
		dom.WithRootQuery(c.Document.Root),
		dom.WithCharWidth(c.Layout.CharWidth),
		dom.WithLineHeight(c.Layout.LineHeight),
		dom.WithViewport(geometry.Viewport{
			Width:  c.Layout.ViewportWidth,
			Height: c.Layout.ViewportHeight,
		}),
		dom.WithLogger(l),
	}
}

// ScrollOptions returns the scroll-into-view options. Invalid keywords
// fall back to their parse defaults; Validate reports them.
func (c *Config) ScrollOptions() geometry.Options[*html.Node] {
	mode, _ := geometry.ParseMode(c.Scroll.Mode)
	block, _ := geometry.ParseAlignment(c.Scroll.Block)
	inline, _ := geometry.ParseAlignment(c.Scroll.Inline)
	return geometry.Options[*html.Node]{
		Mode:               mode,
		Block:              block,
		Inline:             inline,
		SkipOverflowHidden: c.Scroll.SkipOverflowHidden,
	}
}

// SelectionOptions returns the selection controller options.
func (c *Config) SelectionOptions(l *logging.Logger) []selection.Option {
	return []selection.Option{
		selection.WithLogger(l),
		selection.WithDeferTicks(c.Selection.DeferTicks),
		selection.WithScrollOptions(c.ScrollOptions()),
	}
}
