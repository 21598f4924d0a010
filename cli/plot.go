package cli

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/stewart-rig/stewart/platform"
)

// savePlot writes the top view of pts with the base joints of g for reference.
func savePlot(file, title string, g *platform.Geometry, pts []r3.Vector) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (mm)"
	p.Y.Label.Text = "y (mm)"
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, 0, len(pts))
	for _, pt := range pts {
		xys = append(xys, plotter.XY{X: pt.X, Y: pt.Y})
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("path", line)

	joints := make(plotter.XYs, 0, platform.NumLegs)
	for _, leg := range g.Legs {
		joints = append(joints, plotter.XY{X: leg.BaseJoint.X, Y: leg.BaseJoint.Y})
	}
	base, err := plotter.NewScatter(joints)
	if err != nil {
		return err
	}
	p.Add(base)
	p.Legend.Add("base joints", base)

	return p.Save(6*vg.Inch, 6*vg.Inch, file)
}
