// Package cli contains the bvh command line tool.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	flagDebug     = "debug"
	flagScene     = "scene"
	flagKind      = "kind"
	flagHeuristic = "heuristic"
	flagLeafSize  = "leaf-size"
	flagMaxDepth  = "max-depth"
	flagOrigin    = "origin"
	flagDirection = "dir"
	flagTMin      = "t-min"
	flagPoint     = "point"
	flagRadius    = "radius"
	flagCount     = "count"
	flagRays      = "rays"
	flagDimension = "dimension"
	flagExtent    = "extent"
	flagSeed      = "seed"
	flagOut       = "out"
)

var treeFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  flagKind,
		Usage: "tree layout to build: binary, plane or wide (overrides the scene)",
	},
	&cli.StringFlag{
		Name:  flagHeuristic,
		Usage: "split heuristic: default or sah (overrides the scene)",
	},
	&cli.IntFlag{
		Name:  flagLeafSize,
		Usage: "maximum number of objects per leaf (overrides the scene)",
	},
	&cli.IntFlag{
		Name:  flagMaxDepth,
		Usage: "maximum tree depth (overrides the scene)",
	},
}

var sceneFlag = &cli.PathFlag{
	Name:     flagScene,
	Aliases:  []string{"s"},
	Usage:    "load shapes from scene `FILE`",
	Required: true,
}

var app = &cli.App{
	Name:            "bvh",
	Usage:           "build and query bounding volume hierarchies",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    flagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
	},
	Commands: []*cli.Command{
		{
			Name:   "stats",
			Usage:  "build a tree from a scene and print its statistics",
			Flags:  append([]cli.Flag{sceneFlag}, treeFlags...),
			Action: StatsAction,
		},
		{
			Name:      "raycast",
			Usage:     "print the first shape of a scene hit by a ray",
			UsageText: "bvh raycast --scene FILE --origin x,y,z --dir x,y,z",
			Flags: append([]cli.Flag{
				sceneFlag,
				&cli.StringFlag{
					Name:     flagOrigin,
					Usage:    "ray origin as x,y[,z]",
					Required: true,
				},
				&cli.StringFlag{
					Name:     flagDirection,
					Usage:    "ray direction as x,y[,z]",
					Required: true,
				},
				&cli.Float64Flag{
					Name:  flagTMin,
					Usage: "ignore hits closer than this distance",
				},
			}, treeFlags...),
			Action: RaycastAction,
		},
		{
			Name:  "nearest",
			Usage: "print the shapes of a scene nearest to a point",
			Flags: append([]cli.Flag{
				sceneFlag,
				&cli.StringFlag{
					Name:     flagPoint,
					Usage:    "query point as x,y[,z]",
					Required: true,
				},
				&cli.Float64Flag{
					Name:  flagRadius,
					Usage: "only report shapes within this distance",
				},
				&cli.IntFlag{
					Name:  flagCount,
					Usage: "report at most this many shapes",
				},
			}, treeFlags...),
			Action: NearestAction,
		},
		{
			Name:  "bench",
			Usage: "build every tree layout over a random scene and time parallel ray casts",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:  flagCount,
					Usage: "number of random shapes",
					Value: 10000,
				},
				&cli.IntFlag{
					Name:  flagRays,
					Usage: "number of random rays",
					Value: 10000,
				},
				&cli.IntFlag{
					Name:  flagDimension,
					Usage: "scene dimension, 2 or 3",
					Value: 3,
				},
				&cli.Int64Flag{
					Name:  flagSeed,
					Usage: "random seed",
					Value: 1,
				},
			}, treeFlags...),
			Action: BenchAction,
		},
		{
			Name:  "plot",
			Usage: "draw the node boxes of a two-dimensional tree",
			Flags: append([]cli.Flag{
				sceneFlag,
				&cli.PathFlag{
					Name:     flagOut,
					Aliases:  []string{"o"},
					Usage:    "write the image to `FILE` (png, svg or pdf)",
					Required: true,
				},
			}, treeFlags...),
			Action: PlotAction,
		},
		{
			Name:  "generate",
			Usage: "write a random scene",
			Flags: []cli.Flag{
				&cli.PathFlag{
					Name:     flagOut,
					Aliases:  []string{"o"},
					Usage:    "write the scene to `FILE`",
					Required: true,
				},
				&cli.IntFlag{
					Name:  flagCount,
					Usage: "number of random shapes",
					Value: 100,
				},
				&cli.IntFlag{
					Name:  flagDimension,
					Usage: "scene dimension, 2 or 3",
					Value: 3,
				},
				&cli.Float64Flag{
					Name:  flagExtent,
					Usage: "shape centers lie within [-extent, extent]",
					Value: 100,
				},
				&cli.Int64Flag{
					Name:  flagSeed,
					Usage: "random seed",
					Value: 1,
				},
			},
			Action: GenerateAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
