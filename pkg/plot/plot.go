package plot

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/edp1096/lrc-sweep/pkg/circuit"
	"github.com/edp1096/lrc-sweep/pkg/export"
)

var (
	width  = 6 * vg.Inch
	height = 4 * vg.Inch
)

// axis pulls one named column out of every record.
func axis(t circuit.Topology, records []circuit.Record, name string) ([]float64, string, error) {
	col, err := export.Column(t, name)
	if err != nil {
		return nil, "", err
	}
	vals := make([]float64, len(records))
	for i, rec := range records {
		vals[i] = export.AxisValues(t, rec)[col]
	}
	return vals, export.AxisTitles(t)[col], nil
}

// Scatter plots yCol against xCol. The image format follows the file
// extension (.png, .svg, .pdf, ...).
func Scatter(t circuit.Topology, records []circuit.Record, xCol, yCol, path string) error {
	if len(records) == 0 {
		return fmt.Errorf("nothing to plot")
	}
	xs, xTitle, err := axis(t, records, xCol)
	if err != nil {
		return err
	}
	ys, yTitle, err := axis(t, records, yCol)
	if err != nil {
		return err
	}

	pts := make(plotter.XYs, len(records))
	for i := range pts {
		pts[i].X, pts[i].Y = xs[i], ys[i]
	}

	p := plot.New()
	p.Title.Text = t.Title()
	p.X.Label.Text = xTitle
	p.Y.Label.Text = yTitle

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("building scatter: %w", err)
	}
	s.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(s, plotter.NewGrid())

	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// grid adapts a dense sweep to plotter.GridXYZ. Rows follow y, columns x.
type grid struct {
	z      *mat.Dense
	xs, ys []float64
}

func (g grid) Dims() (c, r int) {
	r, c = g.z.Dims()
	return c, r
}

func (g grid) Z(c, r int) float64 { return g.z.At(r, c) }
func (g grid) X(c int) float64    { return g.xs[c] }
func (g grid) Y(r int) float64    { return g.ys[r] }

func distinct(vals []float64) ([]float64, map[float64]int) {
	seen := make(map[float64]bool)
	var out []float64
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	idx := make(map[float64]int, len(out))
	for i, v := range out {
		idx[v] = i
	}
	return out, idx
}

func newGrid(xs, ys, zs []float64) (grid, error) {
	ux, xi := distinct(xs)
	uy, yi := distinct(ys)
	if len(ux) < 2 || len(uy) < 2 {
		return grid{}, fmt.Errorf("heat map needs at least two distinct values per axis")
	}
	if len(ux)*len(uy) != len(zs) {
		return grid{}, fmt.Errorf("%d records do not form a %dx%d grid", len(zs), len(ux), len(uy))
	}

	z := mat.NewDense(len(uy), len(ux), nil)
	for i := range zs {
		z.Set(yi[ys[i]], xi[xs[i]], zs[i])
	}
	return grid{z: z, xs: ux, ys: uy}, nil
}

// Heatmap renders zCol over the xCol/yCol plane of a dense sweep.
func Heatmap(t circuit.Topology, records []circuit.Record, xCol, yCol, zCol, path string) error {
	xs, xTitle, err := axis(t, records, xCol)
	if err != nil {
		return err
	}
	ys, yTitle, err := axis(t, records, yCol)
	if err != nil {
		return err
	}
	zs, zTitle, err := axis(t, records, zCol)
	if err != nil {
		return err
	}
	g, err := newGrid(xs, ys, zs)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: %s", t.Title(), zTitle)
	p.X.Label.Text = xTitle
	p.Y.Label.Text = yTitle
	p.Add(plotter.NewHeatMap(g, palette.Heat(12, 1)))

	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
