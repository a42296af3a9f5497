package bvh

import (
	"github.com/benbjohnson/clock"

	"go.viam.com/bvh/logging"
)

// An Option configures the construction of a tree.
type Option func(*options)

type options struct {
	config    Config
	heuristic SplitHeuristic
	logger    logging.Logger
	clock     clock.Clock

	// customHeuristic is set when the heuristic was given rather than derived from config.
	customHeuristic bool
}

// WithConfig builds the tree with the given config. The config's Kind is ignored by the
// constructors of the individual trees.
func WithConfig(conf Config) Option {
	return func(o *options) {
		o.config = conf
	}
}

// WithHeuristic overrides the split heuristic named by the config.
func WithHeuristic(heuristic SplitHeuristic) Option {
	return func(o *options) {
		o.heuristic = heuristic
		o.customHeuristic = heuristic != nil
	}
}

// WithLogger sets the logger receiving build statistics.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock sets the clock used to time builds.
func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		o.clock = clk
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	o.config = o.config.withDefaults()
	if o.heuristic == nil {
		o.heuristic = o.config.NewHeuristic()
	}
	if o.logger == nil {
		o.logger = logging.NewBlankLogger("bvh")
	}
	if o.clock == nil {
		o.clock = clock.New()
	}
	return o
}

// clampMaxObjectsPerLeaf lowers the configured leaf size to limit, deriving a new heuristic
// from the config unless one was given.
func (o *options) clampMaxObjectsPerLeaf(limit int) {
	if o.config.MaxObjectsPerLeaf <= limit {
		return
	}
	o.config.MaxObjectsPerLeaf = limit
	if !o.customHeuristic {
		o.heuristic = o.config.NewHeuristic()
	}
}
