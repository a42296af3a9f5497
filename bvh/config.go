package bvh

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// Kind names a tree layout.
type Kind string

// The tree layouts.
const (
	KindBinary Kind = "binary"
	KindPlane  Kind = "plane"
	KindWide   Kind = "wide"
)

// HeuristicType names a split heuristic.
type HeuristicType string

// The split heuristics.
const (
	HeuristicDefault HeuristicType = "default"
	HeuristicSAH     HeuristicType = "sah"
)

const (
	// DefaultMaxObjectsPerLeaf is the leaf size used when none is configured.
	DefaultMaxObjectsPerLeaf = 2
	// DefaultMaxDepth is the depth budget used when none is configured.
	DefaultMaxDepth = 64
	// MaxDepthLimit bounds the depth budget, and so the size of the traversal stacks.
	MaxDepthLimit = 128
	// MaxWideObjectsPerLeaf is the most objects a single wide tree leaf can reference.
	MaxWideObjectsPerLeaf = 1 << wideCountBits
)

// Config describes how a tree is built. Zero fields take their defaults.
type Config struct {
	Kind              Kind          `json:"kind,omitempty"`
	Heuristic         HeuristicType `json:"heuristic,omitempty"`
	MaxObjectsPerLeaf int           `json:"max_objects_per_leaf,omitempty"`
	MaxDepth          int           `json:"max_depth,omitempty"`
	CostNode          float64       `json:"cost_node,omitempty"`
	CostObject        float64       `json:"cost_object,omitempty"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

// DecodeConfig decodes a config from an attribute map such as one read from a JSON file.
func DecodeConfig(attributes map[string]interface{}) (Config, error) {
	var conf Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      &conf,
		ErrorUnused: true,
	})
	if err != nil {
		return Config{}, errors.Wrap(err, "error creating decoder")
	}
	if err := decoder.Decode(attributes); err != nil {
		return Config{}, errors.Wrap(err, "error decoding tree config")
	}
	return conf, nil
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	var errs error
	switch conf.Kind {
	case "", KindBinary, KindPlane, KindWide:
	default:
		errs = multierr.Append(errs, utils.NewConfigValidationError(path, newUnknownKindError(conf.Kind)))
	}
	switch conf.Heuristic {
	case "", HeuristicDefault, HeuristicSAH:
	default:
		errs = multierr.Append(errs, utils.NewConfigValidationError(path, newUnknownHeuristicError(conf.Heuristic)))
	}
	if conf.MaxObjectsPerLeaf < 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path, newBadMaxObjectsPerLeafError(conf.MaxObjectsPerLeaf)))
	}
	if conf.Kind == KindWide && conf.MaxObjectsPerLeaf > MaxWideObjectsPerLeaf {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("max_objects_per_leaf cannot be higher than %d for wide trees", MaxWideObjectsPerLeaf)))
	}
	if conf.MaxDepth < 0 || conf.MaxDepth > MaxDepthLimit {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("max_depth must be between 0 and %d", MaxDepthLimit)))
	}
	if conf.CostNode < 0 || conf.CostObject < 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path, errors.New("costs cannot be negative")))
	}
	return errs
}

// NewHeuristic returns the split heuristic named by the config. It panics if
// MaxObjectsPerLeaf is negative; call Validate first on user supplied configs.
func (conf Config) NewHeuristic() SplitHeuristic {
	conf = conf.withDefaults()
	if conf.Heuristic == HeuristicDefault {
		return NewDefaultSplitHeuristic(conf.MaxObjectsPerLeaf)
	}
	return NewSAHSplitHeuristic(conf.MaxObjectsPerLeaf, conf.CostNode, conf.CostObject)
}

func (conf Config) withDefaults() Config {
	if conf.Kind == "" {
		conf.Kind = KindBinary
	}
	if conf.Heuristic == "" {
		conf.Heuristic = HeuristicSAH
	}
	if conf.MaxObjectsPerLeaf == 0 {
		conf.MaxObjectsPerLeaf = DefaultMaxObjectsPerLeaf
	}
	if conf.MaxDepth <= 0 {
		conf.MaxDepth = DefaultMaxDepth
	}
	if conf.MaxDepth > MaxDepthLimit {
		conf.MaxDepth = MaxDepthLimit
	}
	if conf.CostNode == 0 {
		conf.CostNode = DefaultCostNode
	}
	if conf.CostObject == 0 {
		conf.CostObject = DefaultCostObject
	}
	return conf
}
