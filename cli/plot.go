package cli

import (
	"image/color"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"go.viam.com/bvh/bvh"
	"go.viam.com/bvh/spatialmath"
)

const plotSize = 8 * vg.Inch

// PlotAction draws every node box of a tree built from a two-dimensional scene. Inner nodes
// are colored by depth and leaves are drawn in black.
func PlotAction(c *cli.Context) error {
	logger := newLogger(c)
	loaded, err := loadScene(c, logger)
	if err != nil {
		return err
	}
	if loaded.cfg.Dimension != 2 {
		return errors.Errorf("can only plot two-dimensional scenes, scene has dimension %d", loaded.cfg.Dimension)
	}
	p, err := plotIndex(loaded.index)
	if err != nil {
		return err
	}
	if err := p.Save(plotSize, plotSize, c.Path(flagOut)); err != nil {
		return errors.Wrapf(err, "cannot save plot to %q", c.Path(flagOut))
	}
	printf(c.App.Writer, "wrote %d nodes to %s", loaded.index.Stats().Nodes, c.Path(flagOut))
	return nil
}

func plotIndex(index bvh.Index[spatialmath.Shape]) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = string(index.Kind()) + " tree"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	var err error
	index.VisitNodes(func(info bvh.NodeInfo) bool {
		var line *plotter.Line
		line, err = plotter.NewLine(boxOutline(info.AABB))
		if err != nil {
			return false
		}
		if info.Leaf {
			line.LineStyle.Color = color.Black
			line.LineStyle.Width = vg.Points(0.5)
		} else {
			line.LineStyle.Color = plotutil.Color(info.Depth)
			line.LineStyle.Width = vg.Points(1)
		}
		p.Add(line)
		return true
	})
	if err != nil {
		return nil, errors.Wrap(err, "cannot draw node")
	}
	return p, nil
}

// boxOutline returns the closed outline of the box in the XY plane.
func boxOutline(box spatialmath.AABB) plotter.XYs {
	return plotter.XYs{
		{X: box.Min.X, Y: box.Min.Y},
		{X: box.Max.X, Y: box.Min.Y},
		{X: box.Max.X, Y: box.Max.Y},
		{X: box.Min.X, Y: box.Max.Y},
		{X: box.Min.X, Y: box.Min.Y},
	}
}
