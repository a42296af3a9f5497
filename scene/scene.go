// Package scene reads and writes the JSON scene files the bvh tool builds trees from.
package scene

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/yosuke-furukawa/json5/encoding/json5"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/bvh/bvh"
	"go.viam.com/bvh/mesh"
	"go.viam.com/bvh/spatialmath"
	"go.viam.com/bvh/utils"
)

// ShapeType names the kind of a configured shape.
type ShapeType string

// The supported shape types.
const (
	BoxType      ShapeType = "box"
	SphereType   ShapeType = "sphere"
	TriangleType ShapeType = "triangle"
	PointType    ShapeType = "point"
	CapsuleType  ShapeType = "capsule"
	MeshType     ShapeType = "mesh"
)

// Config is the top level of a scene file.
type Config struct {
	Dimension int                    `json:"dimension"`
	Tree      map[string]interface{} `json:"tree,omitempty"`
	Shapes    []*ShapeConfig         `json:"shapes"`
}

// ShapeConfig describes one shape of a scene. The attributes depend on the type.
type ShapeConfig struct {
	Type       ShapeType              `json:"type"`
	Label      string                 `json:"label,omitempty"`
	Attributes map[string]interface{} `json:"attributes"`
}

type boxAttributes struct {
	Center r3.Vector `json:"center"`
	Dims   r3.Vector `json:"dims"`
}

type sphereAttributes struct {
	Center r3.Vector `json:"center"`
	Radius float64   `json:"radius"`
}

type triangleAttributes struct {
	Points []r3.Vector `json:"points"`
}

type pointAttributes struct {
	Position r3.Vector `json:"position"`
}

type capsuleAttributes struct {
	A      r3.Vector `json:"a"`
	B      r3.Vector `json:"b"`
	Radius float64   `json:"radius"`
}

type meshAttributes struct {
	Triangles [][]r3.Vector `json:"triangles"`
}

// Load reads and validates the scene file at path.
func Load(path string) (*Config, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read scene file %q", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid scene file %q", path)
	}
	return cfg, nil
}

// Parse decodes and validates a scene. Scenes are JSON5, so hand written files may carry
// comments and trailing commas.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := json5.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "error decoding scene")
	}
	if err := cfg.Validate("scene"); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Write stores the scene as indented JSON at path.
func (cfg *Config) Write(path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "error encoding scene")
	}
	//nolint:gosec
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "cannot write scene file %q", path)
}

// Validate ensures all parts of the scene are valid. Every problem found is reported.
func (cfg *Config) Validate(path string) error {
	var errs error
	switch cfg.Dimension {
	case 2, 3:
	case 0:
		errs = multierr.Append(errs, goutils.NewConfigValidationFieldRequiredError(path, "dimension"))
	default:
		errs = multierr.Append(errs, goutils.NewConfigValidationError(path, utils.NewUnsupportedDimensionError(cfg.Dimension)))
	}
	if cfg.Tree != nil {
		treeCfg, err := bvh.DecodeConfig(cfg.Tree)
		if err != nil {
			errs = multierr.Append(errs, goutils.NewConfigValidationError(path+".tree", err))
		} else {
			errs = multierr.Append(errs, treeCfg.Validate(path+".tree"))
		}
	}
	for i, shape := range cfg.Shapes {
		shapePath := fmt.Sprintf("%s.shapes.%d", path, i)
		if shape == nil {
			errs = multierr.Append(errs, goutils.NewConfigValidationError(shapePath, errors.New("shape cannot be null")))
			continue
		}
		errs = multierr.Append(errs, shape.Validate(shapePath))
	}
	return errs
}

// TreeConfig returns the tree configuration of the scene, the defaults when none is set.
func (cfg *Config) TreeConfig() (bvh.Config, error) {
	if cfg.Tree == nil {
		return bvh.Config{}, nil
	}
	return bvh.DecodeConfig(cfg.Tree)
}

// ParseShapes converts every shape config into its shape.
func (cfg *Config) ParseShapes() ([]spatialmath.Shape, error) {
	shapes := make([]spatialmath.Shape, 0, len(cfg.Shapes))
	for i, shapeCfg := range cfg.Shapes {
		shape, err := shapeCfg.ParseConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "shape %d", i)
		}
		shapes = append(shapes, shape)
	}
	return shapes, nil
}

// Traits returns the object traits for the shapes of the scene.
func (cfg *Config) Traits() bvh.ShapeTraits[spatialmath.Shape] {
	return bvh.NewShapeTraits[spatialmath.Shape](cfg.Dimension)
}

// CountByType returns how many shapes of each type the scene holds.
func (cfg *Config) CountByType() map[ShapeType]int {
	return lo.CountValuesBy(cfg.Shapes, func(shape *ShapeConfig) ShapeType {
		return shape.Type
	})
}

// Validate ensures the shape config can be converted into a shape.
func (config *ShapeConfig) Validate(path string) error {
	if config.Type == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "type")
	}
	if _, err := config.ParseConfig(); err != nil {
		return goutils.NewConfigValidationError(path, err)
	}
	return nil
}

// ParseConfig converts a ShapeConfig into the shape it describes.
func (config *ShapeConfig) ParseConfig() (spatialmath.Shape, error) {
	switch config.Type {
	case BoxType:
		var attrs boxAttributes
		if err := decodeAttributes(config.Attributes, &attrs); err != nil {
			return nil, err
		}
		return spatialmath.NewBox(attrs.Center, attrs.Dims, config.Label)
	case SphereType:
		var attrs sphereAttributes
		if err := decodeAttributes(config.Attributes, &attrs); err != nil {
			return nil, err
		}
		return spatialmath.NewSphere(attrs.Center, attrs.Radius, config.Label)
	case TriangleType:
		var attrs triangleAttributes
		if err := decodeAttributes(config.Attributes, &attrs); err != nil {
			return nil, err
		}
		if len(attrs.Points) != 3 {
			return nil, errors.Errorf("a triangle needs 3 points, got %d", len(attrs.Points))
		}
		return spatialmath.NewTriangle(attrs.Points[0], attrs.Points[1], attrs.Points[2], config.Label), nil
	case PointType:
		var attrs pointAttributes
		if err := decodeAttributes(config.Attributes, &attrs); err != nil {
			return nil, err
		}
		return spatialmath.NewPoint(attrs.Position, config.Label), nil
	case CapsuleType:
		var attrs capsuleAttributes
		if err := decodeAttributes(config.Attributes, &attrs); err != nil {
			return nil, err
		}
		return spatialmath.NewCapsuleFromSegment(attrs.A, attrs.B, attrs.Radius, config.Label)
	case MeshType:
		var attrs meshAttributes
		if err := decodeAttributes(config.Attributes, &attrs); err != nil {
			return nil, err
		}
		if len(attrs.Triangles) == 0 {
			return nil, errors.New("a mesh needs at least one triangle")
		}
		triangles := make([]*spatialmath.Triangle, 0, len(attrs.Triangles))
		for i, pts := range attrs.Triangles {
			if len(pts) != 3 {
				return nil, errors.Errorf("mesh triangle %d needs 3 points, got %d", i, len(pts))
			}
			triangles = append(triangles, spatialmath.NewTriangle(pts[0], pts[1], pts[2], ""))
		}
		return mesh.NewMesh(triangles, config.Label), nil
	default:
		return nil, errors.Errorf("shape type %q is not supported", config.Type)
	}
}

// NewShapeConfig returns the config describing the given shape.
func NewShapeConfig(shape spatialmath.Shape) (*ShapeConfig, error) {
	config := &ShapeConfig{Label: shape.Label()}
	switch s := shape.(type) {
	case *spatialmath.Box:
		box := s.AABB()
		config.Type = BoxType
		config.Attributes = map[string]interface{}{
			"center": vectorAttribute(box.Center()),
			"dims":   vectorAttribute(box.Extent()),
		}
	case *spatialmath.Sphere:
		config.Type = SphereType
		config.Attributes = map[string]interface{}{
			"center": vectorAttribute(s.Center()),
			"radius": s.Radius(),
		}
	case *spatialmath.Triangle:
		config.Type = TriangleType
		config.Attributes = map[string]interface{}{
			"points": lo.Map(s.Points(), func(pt r3.Vector, _ int) interface{} {
				return vectorAttribute(pt)
			}),
		}
	case *spatialmath.Point:
		config.Type = PointType
		config.Attributes = map[string]interface{}{
			"position": vectorAttribute(s.Position()),
		}
	case *spatialmath.Capsule:
		a, b := s.Segment()
		config.Type = CapsuleType
		config.Attributes = map[string]interface{}{
			"a":      vectorAttribute(a),
			"b":      vectorAttribute(b),
			"radius": s.Radius(),
		}
	case *mesh.Mesh:
		config.Type = MeshType
		config.Attributes = map[string]interface{}{
			"triangles": lo.Map(s.Triangles(), func(tri *spatialmath.Triangle, _ int) interface{} {
				return lo.Map(tri.Points(), func(pt r3.Vector, _ int) interface{} {
					return vectorAttribute(pt)
				})
			}),
		}
	default:
		return nil, utils.NewUnexpectedTypeError(&spatialmath.Box{}, shape)
	}
	return config, nil
}

// Random returns a scene of n shapes with centers in [-extent, extent] on every used axis.
// Shape sizes are at most a tenth of the extent.
func Random(rng *rand.Rand, n, dimension int, extent float64) (*Config, error) {
	if dimension != 2 && dimension != 3 {
		return nil, utils.NewUnsupportedDimensionError(dimension)
	}
	size := extent / 10
	randomPoint := func() r3.Vector {
		pt := r3.Vector{
			X: utils.SampleRandomFloatRange(-extent, extent, rng),
			Y: utils.SampleRandomFloatRange(-extent, extent, rng),
		}
		if dimension == 3 {
			pt.Z = utils.SampleRandomFloatRange(-extent, extent, rng)
		}
		return pt
	}
	randomOffset := func(center r3.Vector) r3.Vector {
		offset := r3.Vector{
			X: utils.SampleRandomFloatRange(-size, size, rng),
			Y: utils.SampleRandomFloatRange(-size, size, rng),
		}
		if dimension == 3 {
			offset.Z = utils.SampleRandomFloatRange(-size, size, rng)
		}
		return center.Add(offset)
	}

	var errs error
	shapes := lo.Times(n, func(i int) *ShapeConfig {
		center := randomPoint()
		label := fmt.Sprintf("shape_%d", i)
		var (
			shape spatialmath.Shape
			err   error
		)
		switch rng.Intn(5) {
		case 0:
			dims := randomOffset(r3.Vector{}).Mul(2)
			dims = r3.Vector{X: math.Abs(dims.X), Y: math.Abs(dims.Y), Z: math.Abs(dims.Z)}
			shape, err = spatialmath.NewBox(center, dims, label)
		case 1:
			shape, err = spatialmath.NewSphere(center, utils.SampleRandomFloatRange(0, size, rng), label)
		case 2:
			shape = spatialmath.NewTriangle(randomOffset(center), randomOffset(center), randomOffset(center), label)
		case 3:
			radius := utils.SampleRandomFloatRange(0, size/4, rng)
			shape, err = spatialmath.NewCapsuleFromSegment(randomOffset(center), randomOffset(center), radius, label)
		default:
			shape = spatialmath.NewPoint(center, label)
		}
		if err != nil {
			errs = multierr.Append(errs, err)
			return nil
		}
		config, err := NewShapeConfig(shape)
		errs = multierr.Append(errs, err)
		return config
	})
	if errs != nil {
		return nil, errs
	}
	return &Config{Dimension: dimension, Shapes: shapes}, nil
}

func decodeAttributes(attributes map[string]interface{}, result interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           result,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Wrap(err, "error creating decoder")
	}
	return errors.Wrap(decoder.Decode(attributes), "error decoding shape attributes")
}

func vectorAttribute(v r3.Vector) map[string]interface{} {
	return map[string]interface{}{"x": v.X, "y": v.Y, "z": v.Z}
}
