package selection

import (
	"golang.org/x/net/html"

	"github.com/dshills/caret/internal/geometry"
	"github.com/dshills/caret/internal/logging"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l.WithComponent("selection")
		}
	}
}

// WithDeferTicks sets how many scheduler turns the reactions to native
// selection changes and composition end wait. Values below 1 mean 1.
func WithDeferTicks(n int) Option {
	return func(c *Controller) {
		c.deferTicks = max(1, n)
	}
}

// WithScrollOptions sets the options ScrollIntoView computes with.
func WithScrollOptions(opts geometry.Options[*html.Node]) Option {
	return func(c *Controller) {
		c.scroll = opts
	}
}

func defaultScrollOptions() geometry.Options[*html.Node] {
	return geometry.Options[*html.Node]{
		Mode:   geometry.ModeIfNeeded,
		Block:  geometry.AlignNearest,
		Inline: geometry.AlignNearest,
	}
}
