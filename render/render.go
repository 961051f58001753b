// Package render draws cells as filled rectangles with gonum/plot.
package render

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"github.com/sarchlab/pcells/layers"
	"github.com/sarchlab/pcells/layout"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// paint is the fill of one layer. Layers are drawn in palette order.
type paint struct {
	layer layout.Layer
	fill  color.NRGBA
}

var palette = []paint{
	{layers.DNWell, color.NRGBA{R: 120, G: 120, B: 200, A: 30}},
	{layers.NWell, color.NRGBA{R: 160, G: 160, B: 255, A: 40}},
	{layers.HVI, color.NRGBA{R: 255, G: 200, B: 0, A: 20}},
	{layers.NSDM, color.NRGBA{R: 0, G: 150, B: 255, A: 25}},
	{layers.PSDM, color.NRGBA{R: 255, G: 100, B: 100, A: 25}},
	{layers.Diff, color.NRGBA{R: 0, G: 180, B: 0, A: 140}},
	{layers.Tap, color.NRGBA{R: 0, G: 120, B: 60, A: 140}},
	{layers.Poly, color.NRGBA{R: 220, G: 40, B: 40, A: 160}},
	{layers.NPC, color.NRGBA{R: 200, G: 200, B: 200, A: 60}},
	{layers.Licon, color.NRGBA{R: 40, G: 40, B: 40, A: 220}},
	{layers.LI, color.NRGBA{R: 180, G: 80, B: 200, A: 110}},
	{layers.Mcon, color.NRGBA{R: 80, G: 0, B: 120, A: 220}},
	{layers.Met1, color.NRGBA{R: 60, G: 110, B: 220, A: 110}},
	{layers.Via1, color.NRGBA{R: 20, G: 40, B: 120, A: 220}},
	{layers.Met2, color.NRGBA{R: 230, G: 140, B: 40, A: 110}},
	{layers.Via2, color.NRGBA{R: 120, G: 70, B: 20, A: 220}},
	{layers.Met3, color.NRGBA{R: 100, G: 200, B: 200, A: 110}},
	{layers.Via3, color.NRGBA{R: 30, G: 100, B: 100, A: 220}},
	{layers.Met4, color.NRGBA{R: 200, G: 200, B: 60, A: 110}},
	{layers.Via4, color.NRGBA{R: 100, G: 100, B: 20, A: 220}},
	{layers.Met5, color.NRGBA{R: 200, G: 100, B: 150, A: 110}},
}

var otherFill = color.NRGBA{R: 128, G: 128, B: 128, A: 40}

// Options control a drawing.
type Options struct {
	Title string

	// Layers restricts the drawing to some layers. All layers are drawn
	// when empty.
	Layers []layout.Layer

	// Labels draws the net labels of the cell.
	Labels bool
}

func (o Options) wants(l layout.Layer) bool {
	if len(o.Layers) == 0 {
		return true
	}

	for _, x := range o.Layers {
		if x == l {
			return true
		}
	}

	return false
}

// drawOrder returns the layers used by the cell in palette order followed by
// the layers the palette does not know.
func drawOrder(used []layout.Layer) []paint {
	isUsed := make(map[layout.Layer]bool, len(used))
	for _, l := range used {
		isUsed[l] = true
	}

	var order []paint
	known := make(map[layout.Layer]bool)

	for _, p := range palette {
		known[p.layer] = true
		if isUsed[p.layer] {
			order = append(order, p)
		}
	}

	for _, l := range used {
		if !known[l] {
			order = append(order, paint{layer: l, fill: otherFill})
		}
	}

	return order
}

func rectangle(b layout.Box) plotter.XYs {
	return plotter.XYs{
		{X: b.X0, Y: b.Y0},
		{X: b.X1, Y: b.Y0},
		{X: b.X1, Y: b.Y1},
		{X: b.X0, Y: b.Y1},
	}
}

// Plot builds a plot of the flattened cell in micrometers.
func Plot(c *layout.Cell, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = c.Name()
	}

	p.X.Label.Text = "x (um)"
	p.Y.Label.Text = "y (um)"

	shapes := c.Flatten()
	byLayer := make(map[layout.Layer][]layout.Box)

	for _, s := range shapes {
		byLayer[s.Layer] = append(byLayer[s.Layer], s.Box)
	}

	for _, pt := range drawOrder(c.Layers()) {
		if !opts.wants(pt.layer) || pt.layer == layers.PRBndry {
			continue
		}

		for _, b := range byLayer[pt.layer] {
			poly, err := plotter.NewPolygon(rectangle(b))
			if err != nil {
				return nil, fmt.Errorf("layer %s: %w", layers.Name(pt.layer), err)
			}

			poly.Color = pt.fill
			poly.LineStyle.Width = vg.Points(0.3)
			poly.LineStyle.Color = color.NRGBA{R: pt.fill.R, G: pt.fill.G, B: pt.fill.B, A: 255}

			p.Add(poly)
		}
	}

	if opts.Labels {
		if err := addLabels(p, c.FlattenLabels()); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func addLabels(p *plot.Plot, labels []layout.Label) error {
	if len(labels) == 0 {
		return nil
	}

	xyl := plotter.XYLabels{
		XYs:    make(plotter.XYs, len(labels)),
		Labels: make([]string, len(labels)),
	}

	for i, l := range labels {
		xyl.XYs[i] = plotter.XY{X: l.Pos.X, Y: l.Pos.Y}
		xyl.Labels[i] = l.Text
	}

	lp, err := plotter.NewLabels(xyl)
	if err != nil {
		return fmt.Errorf("labels: %w", err)
	}

	p.Add(lp)

	return nil
}

// size returns a canvas of the given width whose height follows the aspect
// ratio of the cell.
func size(c *layout.Cell, width vg.Length) (vg.Length, vg.Length) {
	bbox, ok := c.BBox()
	if !ok || bbox.Width() <= 0 {
		return width, width
	}

	ratio := bbox.Height() / bbox.Width()
	ratio = min(max(ratio, 0.2), 5)

	return width, vg.Length(float64(width) * ratio)
}

// Save draws a cell to a file. The format follows the extension: png, svg,
// pdf, and the others gonum/plot supports.
func Save(c *layout.Cell, path string, width vg.Length) error {
	p, err := Plot(c, Options{Labels: true})
	if err != nil {
		return err
	}

	w, h := size(c, width)

	return p.Save(w, h, path)
}

// Write draws a cell in a format named like a file extension.
func Write(out io.Writer, c *layout.Cell, format string, width vg.Length) error {
	p, err := Plot(c, Options{Labels: true})
	if err != nil {
		return err
	}

	w, h := size(c, width)

	wt, err := p.WriterTo(w, h, strings.TrimPrefix(format, "."))
	if err != nil {
		return err
	}

	_, err = wt.WriteTo(out)

	return err
}

// FormatOf returns the format implied by a file name.
func FormatOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
