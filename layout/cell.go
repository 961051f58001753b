package layout

import "fmt"

// A Shape is a rectangle drawn on one layer.
type Shape struct {
	Layer Layer
	Box   Box
}

// A Label is a piece of text attached to a point on a layer. Labels name nets.
type Label struct {
	Layer Layer
	Text  string
	Pos   Point
}

// An Instance places a cell at an origin. A single placement has one column
// and one row; arrays repeat the cell Cols times with ColPitch along x and
// Rows times with RowPitch along y.
type Instance struct {
	Cell     *Cell
	Origin   Point
	Cols     int
	Rows     int
	ColPitch float64
	RowPitch float64
}

// IsArray tells if the instance places more than one copy.
func (i Instance) IsArray() bool {
	return i.Cols > 1 || i.Rows > 1
}

// Offsets returns the translation of every copy placed by the instance.
func (i Instance) Offsets() []Point {
	offsets := make([]Point, 0, i.Cols*i.Rows)

	for r := 0; r < i.Rows; r++ {
		for c := 0; c < i.Cols; c++ {
			offsets = append(offsets, Point{
				X: i.Origin.X + float64(c)*i.ColPitch,
				Y: i.Origin.Y + float64(r)*i.RowPitch,
			})
		}
	}

	return offsets
}

// A Cell is an ordered collection of shapes, labels, and placements of other
// cells.
type Cell struct {
	name      string
	shapes    []Shape
	labels    []Label
	instances []Instance
}

// NewCell creates an empty cell.
func NewCell(name string) *Cell {
	if name == "" {
		panic("cell name must not be empty")
	}

	return &Cell{name: name}
}

// Name returns the name of the cell.
func (c *Cell) Name() string {
	return c.name
}

// AddRect draws a rectangle on a layer. Rectangles without area are dropped.
func (c *Cell) AddRect(l Layer, b Box) {
	b = MakeBox(b.X0, b.Y0, b.X1, b.Y1)
	if b.Empty() {
		return
	}

	c.shapes = append(c.shapes, Shape{Layer: l, Box: b})
}

// AddRects draws several rectangles on the same layer.
func (c *Cell) AddRects(l Layer, boxes ...Box) {
	for _, b := range boxes {
		c.AddRect(l, b)
	}
}

// AddLabel attaches a text label at a point.
func (c *Cell) AddLabel(l Layer, text string, pos Point) {
	c.labels = append(c.labels, Label{Layer: l, Text: text, Pos: pos})
}

// AddInstance places another cell with its origin at the given point.
func (c *Cell) AddInstance(sub *Cell, origin Point) {
	c.AddArray(sub, origin, 1, 1, 0, 0)
}

// AddArray places a cols x rows array of another cell.
func (c *Cell) AddArray(
	sub *Cell,
	origin Point,
	cols, rows int,
	colPitch, rowPitch float64,
) {
	if sub == nil {
		panic("cannot place a nil cell")
	}

	if sub == c {
		panic(fmt.Sprintf("cell %s cannot place itself", c.name))
	}

	if cols < 1 || rows < 1 {
		panic("array dimensions must be positive")
	}

	c.instances = append(c.instances, Instance{
		Cell:     sub,
		Origin:   origin,
		Cols:     cols,
		Rows:     rows,
		ColPitch: colPitch,
		RowPitch: rowPitch,
	})
}

// Shapes returns the shapes drawn directly in the cell.
func (c *Cell) Shapes() []Shape {
	return c.shapes
}

// Labels returns the labels attached directly to the cell.
func (c *Cell) Labels() []Label {
	return c.labels
}

// Instances returns the placements of other cells.
func (c *Cell) Instances() []Instance {
	return c.instances
}

// SubCells returns every cell placed under this one, directly or not, in
// depth-first post order without duplicates.
func (c *Cell) SubCells() []*Cell {
	seen := make(map[*Cell]bool)
	var out []*Cell

	var walk func(cell *Cell)
	walk = func(cell *Cell) {
		for _, inst := range cell.instances {
			if seen[inst.Cell] {
				continue
			}

			seen[inst.Cell] = true
			walk(inst.Cell)
			out = append(out, inst.Cell)
		}
	}
	walk(c)

	return out
}

// Flatten returns all the shapes under the cell with instances expanded, in
// the coordinates of the cell.
func (c *Cell) Flatten() []Shape {
	var out []Shape
	c.flatten(Point{}, func(s Shape) { out = append(out, s) }, nil)

	return out
}

// FlattenLabels returns all the labels under the cell with instances expanded.
func (c *Cell) FlattenLabels() []Label {
	var out []Label
	c.flatten(Point{}, nil, func(l Label) { out = append(out, l) })

	return out
}

func (c *Cell) flatten(off Point, shapeFn func(Shape), labelFn func(Label)) {
	if shapeFn != nil {
		for _, s := range c.shapes {
			shapeFn(Shape{Layer: s.Layer, Box: s.Box.Translate(off)})
		}
	}

	if labelFn != nil {
		for _, l := range c.labels {
			labelFn(Label{Layer: l.Layer, Text: l.Text, Pos: l.Pos.Add(off)})
		}
	}

	for _, inst := range c.instances {
		for _, o := range inst.Offsets() {
			inst.Cell.flatten(off.Add(o), shapeFn, labelFn)
		}
	}
}

// ShapesOn returns the flattened boxes drawn on a layer.
func (c *Cell) ShapesOn(l Layer) []Box {
	var boxes []Box

	for _, s := range c.Flatten() {
		if s.Layer == l {
			boxes = append(boxes, s.Box)
		}
	}

	return boxes
}

// LabelsOn returns the flattened labels attached to a layer.
func (c *Cell) LabelsOn(l Layer) []Label {
	var labels []Label

	for _, lb := range c.FlattenLabels() {
		if lb.Layer == l {
			labels = append(labels, lb)
		}
	}

	return labels
}

// BBox returns the bounding box of all shapes under the cell. The second
// return value is false if the cell has no shapes at all.
func (c *Cell) BBox() (Box, bool) {
	var (
		bbox  Box
		found bool
	)

	c.flatten(Point{}, func(s Shape) {
		if !found {
			bbox = s.Box
			found = true

			return
		}

		bbox = bbox.Union(s.Box)
	}, nil)

	return bbox, found
}

// LayerBBox returns the bounding box of the flattened shapes on one layer.
func (c *Cell) LayerBBox(l Layer) (Box, bool) {
	boxes := c.ShapesOn(l)
	if len(boxes) == 0 {
		return Box{}, false
	}

	bbox := boxes[0]
	for _, b := range boxes[1:] {
		bbox = bbox.Union(b)
	}

	return bbox, true
}

// Layers returns the distinct layers used under the cell in first-use order.
func (c *Cell) Layers() []Layer {
	seen := make(map[Layer]bool)
	var out []Layer

	for _, s := range c.Flatten() {
		if !seen[s.Layer] {
			seen[s.Layer] = true
			out = append(out, s.Layer)
		}
	}

	return out
}
