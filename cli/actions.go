package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"go.viam.com/bvh/bvh"
	"go.viam.com/bvh/logging"
	"go.viam.com/bvh/scene"
	"go.viam.com/bvh/spatialmath"
	"go.viam.com/bvh/utils"
)

// benchExtent is the half width of the random scenes used by the bench command.
const benchExtent = 100

func newLogger(c *cli.Context) logging.Logger {
	level := logging.INFO
	if c.Bool(flagDebug) {
		level = logging.DEBUG
	}
	return logging.NewWriterLogger("bvh", c.App.ErrWriter, level)
}

// treeConfig returns the scene's tree config with any tree flags applied on top.
func treeConfig(c *cli.Context, base bvh.Config) (bvh.Config, error) {
	conf := base
	if c.IsSet(flagKind) {
		conf.Kind = bvh.Kind(c.String(flagKind))
	}
	if c.IsSet(flagHeuristic) {
		conf.Heuristic = bvh.HeuristicType(c.String(flagHeuristic))
	}
	if c.IsSet(flagLeafSize) {
		conf.MaxObjectsPerLeaf = c.Int(flagLeafSize)
	}
	if c.IsSet(flagMaxDepth) {
		conf.MaxDepth = c.Int(flagMaxDepth)
	}
	if err := conf.Validate("flags"); err != nil {
		return bvh.Config{}, err
	}
	return conf, nil
}

type loadedScene struct {
	cfg    *scene.Config
	shapes []spatialmath.Shape
	index  bvh.Index[spatialmath.Shape]
}

func loadScene(c *cli.Context, logger logging.Logger) (*loadedScene, error) {
	cfg, err := scene.Load(c.Path(flagScene))
	if err != nil {
		return nil, err
	}
	shapes, err := cfg.ParseShapes()
	if err != nil {
		return nil, err
	}
	base, err := cfg.TreeConfig()
	if err != nil {
		return nil, err
	}
	conf, err := treeConfig(c, base)
	if err != nil {
		return nil, err
	}
	index, err := bvh.NewIndex(conf.Kind, shapes, cfg.Traits(), bvh.WithConfig(conf), bvh.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	logger.Debugw("loaded scene", "path", c.Path(flagScene), "shapes", len(shapes), "dimension", cfg.Dimension)
	return &loadedScene{cfg: cfg, shapes: shapes, index: index}, nil
}

// parseVector parses "x,y" or "x,y,z".
func parseVector(raw string) (r3.Vector, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 && len(parts) != 3 {
		return r3.Vector{}, errors.Errorf("cannot parse %q as a vector, expected x,y or x,y,z", raw)
	}
	var coords [3]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return r3.Vector{}, errors.Wrapf(err, "cannot parse %q as a vector", raw)
		}
		coords[i] = f
	}
	return r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}

func shapeLabel(shape spatialmath.Shape) string {
	if label := shape.Label(); label != "" {
		return label
	}
	return shape.String()
}

// StatsAction prints the statistics of a tree built from a scene.
func StatsAction(c *cli.Context) error {
	logger := newLogger(c)
	loaded, err := loadScene(c, logger)
	if err != nil {
		return err
	}
	s := loaded.index.Stats()

	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.AppendHeader(table.Row{"Statistic", "Value"})
	t.AppendRows([]table.Row{
		{"kind", s.Kind},
		{"objects", s.Objects},
		{"nodes", s.Nodes},
		{"leaves", s.Leaves},
		{"max depth", s.MaxDepth},
		{"mean leaf depth", fmt.Sprintf("%.2f", s.MeanLeafDepth)},
		{"mean leaf size", fmt.Sprintf("%.2f", s.MeanLeafSize)},
		{"leaf size std dev", fmt.Sprintf("%.2f", s.StdDevLeafSize)},
		{"max leaf size", s.MaxLeafSize},
		{"sah cost", fmt.Sprintf("%.2f", s.SAHCost)},
		{"build time", s.BuildDuration},
	})
	t.AppendSeparator()
	counts := loaded.cfg.CountByType()
	for _, shapeType := range []scene.ShapeType{
		scene.BoxType, scene.SphereType, scene.CapsuleType, scene.TriangleType, scene.MeshType, scene.PointType,
	} {
		if n := counts[shapeType]; n > 0 {
			t.AppendRow(table.Row{"shapes: " + string(shapeType), n})
		}
	}
	t.Render()
	return nil
}

// RaycastAction prints the first shape hit by a ray.
func RaycastAction(c *cli.Context) error {
	origin, err := parseVector(c.String(flagOrigin))
	if err != nil {
		return err
	}
	direction, err := parseVector(c.String(flagDirection))
	if err != nil {
		return err
	}
	if direction.Norm2() == 0 {
		return utils.NewZeroVectorError("ray direction")
	}
	logger := newLogger(c)
	loaded, err := loadScene(c, logger)
	if err != nil {
		return err
	}

	hit, dist, ok := loaded.index.Intersect(spatialmath.NewRay(origin, direction), c.Float64(flagTMin))
	if !ok {
		printf(c.App.Writer, "no hit")
		return nil
	}
	printf(c.App.Writer, "hit %s at distance %.4f", shapeLabel(hit), dist)
	return nil
}

// NearestAction prints the shapes nearest to a point. Without a radius or count only the
// single nearest shape is printed.
func NearestAction(c *cli.Context) error {
	pt, err := parseVector(c.String(flagPoint))
	if err != nil {
		return err
	}
	logger := newLogger(c)
	loaded, err := loadScene(c, logger)
	if err != nil {
		return err
	}

	var found []bvh.Neighbour[spatialmath.Shape]
	if c.IsSet(flagRadius) || c.IsSet(flagCount) {
		radius := math.Inf(1)
		if c.IsSet(flagRadius) {
			radius = c.Float64(flagRadius)
		}
		found = bvh.RangeSearchSlice(loaded.index, pt, radius, c.Int(flagCount))
	} else if nearest, ok := loaded.index.NearestNeighbour(pt); ok {
		found = append(found, nearest)
	}

	if len(found) == 0 {
		printf(c.App.Writer, "no shapes found")
		return nil
	}
	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.AppendHeader(table.Row{"#", "Shape", "Distance"})
	for i, n := range found {
		t.AppendRow(table.Row{i + 1, shapeLabel(n.Object), fmt.Sprintf("%.4f", math.Sqrt(n.SquaredDistance))})
	}
	t.Render()
	return nil
}

type benchResult struct {
	stats    bvh.Stats
	castTime time.Duration
	hits     int
}

// BenchAction builds every tree layout, or only the one given by --kind, over a random scene
// and times casting random rays against each from all cores.
func BenchAction(c *cli.Context) error {
	logger := newLogger(c)
	//nolint:gosec
	rng := rand.New(rand.NewSource(c.Int64(flagSeed)))
	cfg, err := scene.Random(rng, c.Int(flagCount), c.Int(flagDimension), benchExtent)
	if err != nil {
		return err
	}
	shapes, err := cfg.ParseShapes()
	if err != nil {
		return err
	}
	conf, err := treeConfig(c, bvh.Config{})
	if err != nil {
		return err
	}
	kinds := []bvh.Kind{bvh.KindBinary, bvh.KindPlane, bvh.KindWide}
	if c.IsSet(flagKind) {
		kinds = []bvh.Kind{conf.Kind}
	}

	rays := make([]spatialmath.Ray, c.Int(flagRays))
	for i := range rays {
		origin := r3.Vector{
			X: utils.SampleRandomFloatRange(-2*benchExtent, 2*benchExtent, rng),
			Y: utils.SampleRandomFloatRange(-2*benchExtent, 2*benchExtent, rng),
		}
		target := r3.Vector{
			X: utils.SampleRandomFloatRange(-benchExtent, benchExtent, rng),
			Y: utils.SampleRandomFloatRange(-benchExtent, benchExtent, rng),
		}
		if cfg.Dimension == 3 {
			origin.Z = utils.SampleRandomFloatRange(-2*benchExtent, 2*benchExtent, rng)
			target.Z = utils.SampleRandomFloatRange(-benchExtent, benchExtent, rng)
		}
		rays[i] = spatialmath.NewRay(origin, target.Sub(origin))
	}

	// Each build is single threaded, so the layouts are built side by side.
	indexes := make([]bvh.Index[spatialmath.Shape], len(kinds))
	builders := make([]utils.SimpleFunc, len(kinds))
	for i, kind := range kinds {
		i, kind := i, kind
		builders[i] = func(_ context.Context) error {
			index, err := bvh.NewIndex(kind, shapes, cfg.Traits(), bvh.WithConfig(conf), bvh.WithLogger(logger))
			indexes[i] = index
			return err
		}
	}
	elapsed, err := utils.RunInParallel(c.Context, builders)
	if err != nil {
		return errors.Wrap(err, "error building trees")
	}
	logger.Debugw("built trees", "kinds", len(kinds), "shapes", len(shapes), "elapsed", elapsed)

	results := make([]benchResult, 0, len(kinds))
	for _, index := range indexes {
		start := time.Now()
		hits, err := bvh.IntersectAll(c.Context, index, rays, 0)
		if err != nil {
			return err
		}
		results = append(results, benchResult{
			stats:    index.Stats(),
			castTime: time.Since(start),
			hits:     lo.CountBy(hits, func(h bvh.Hit[spatialmath.Shape]) bool { return h.OK }),
		})
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.AppendHeader(table.Row{"Kind", "Nodes", "Max Depth", "Build", "Cast", "Hits"})
	for _, r := range results {
		t.AppendRow(table.Row{r.stats.Kind, r.stats.Nodes, r.stats.MaxDepth, r.stats.BuildDuration, r.castTime, r.hits})
	}
	t.Render()
	return nil
}

// GenerateAction writes a random scene file.
func GenerateAction(c *cli.Context) error {
	//nolint:gosec
	rng := rand.New(rand.NewSource(c.Int64(flagSeed)))
	cfg, err := scene.Random(rng, c.Int(flagCount), c.Int(flagDimension), c.Float64(flagExtent))
	if err != nil {
		return err
	}
	if err := cfg.Write(c.Path(flagOut)); err != nil {
		return err
	}
	printf(c.App.Writer, "wrote %d shapes to %s", len(cfg.Shapes), c.Path(flagOut))
	return nil
}

func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}
