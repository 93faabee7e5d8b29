package emit

import (
	"image/color"
	"math"
	"os"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"

	"github.com/hclifford823/icecore-resampler-2018version/internal/table"
)

var (
	rawGray   = color.Gray{Y: 0xa0}
	firebrick = color.RGBA{R: 0xb2, G: 0x22, B: 0x22, A: 0xff}
)

// writePlotPDF renders one page per dependent column of t, each overlaying
// the raw series (when available) beneath the resampled one. With logY set,
// the Y axis is log-scaled and non-positive points are left out; a page with
// nothing left to draw is skipped. Returns false when no page was drawn, in
// which case no file is created.
func writePlotPDF(path string, t *table.Table, raw *table.Table, logY bool) (bool, error) {
	c := vgpdf.New(8*vg.Inch, 5*vg.Inch)
	axis := &t.Columns[0]
	pages := 0
	for i := 1; i < len(t.Columns); i++ {
		dep := &t.Columns[i]
		res := seriesLine(axis.Values, dep.Values, logY)
		if res == nil {
			continue
		}
		p := plot.New()
		p.Title.Text = dep.Label()
		p.X.Label.Text = axis.Label()
		p.Y.Label.Text = dep.Label()
		if logY {
			p.Y.Scale = plot.LogScale{}
			p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
		}
		if raw != nil {
			if rl := rawLine(raw, axis.Name, dep.Name, logY); rl != nil {
				rl.Color = rawGray
				p.Add(rl)
				p.Legend.Add(dep.Name+": Raw", rl)
			}
		}
		res.Color = firebrick
		p.Add(res)
		p.Legend.Add(dep.Name+": Resampled", res)
		p.Legend.Top = true

		if pages > 0 {
			c.NextPage()
		}
		p.Draw(draw.New(c))
		pages++
	}
	if pages == 0 {
		return false, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return false, &WriteFailureError{Path: path, Err: err}
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return false, &WriteFailureError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return false, &WriteFailureError{Path: path, Err: err}
	}
	return true, nil
}

func rawLine(raw *table.Table, axisName, depName string, logY bool) *plotter.Line {
	ax, ok := raw.Column(axisName)
	if !ok {
		return nil
	}
	dep, ok := raw.Column(depName)
	if !ok {
		return nil
	}
	return seriesLine(ax.Values, dep.Values, logY)
}

// seriesLine builds a line from paired samples, dropping missing points and,
// for log plots, non-positive ones. Points are drawn in axis order.
func seriesLine(xs, ys []float64, logY bool) *plotter.Line {
	var pts plotter.XYs
	for i := range xs {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		if logY && y <= 0 {
			continue
		}
		pts = append(pts, plotter.XY{X: x, Y: y})
	}
	if len(pts) == 0 {
		return nil
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
	l, err := plotter.NewLine(pts)
	if err != nil {
		return nil
	}
	return l
}
