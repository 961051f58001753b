package layout

import (
	"fmt"
	"sort"
)

// A Library owns a set of uniquely named cells.
type Library struct {
	Name string

	// DBUPerMicron is the number of database units per micrometer used when
	// the library is written to a stream file.
	DBUPerMicron float64

	cells     []*Cell
	nameIndex map[string]*Cell
}

// NewLibrary creates an empty library with a 1 nm database unit.
func NewLibrary(name string) *Library {
	return &Library{
		Name:         name,
		DBUPerMicron: 1000,
		nameIndex:    make(map[string]*Cell),
	}
}

// Add registers a cell and every cell it places. Cells whose name is already
// taken by a different cell are renamed with a numeric suffix. Adding the same
// cell twice is a no-op.
func (lib *Library) Add(c *Cell) *Cell {
	for _, sub := range c.SubCells() {
		lib.addOne(sub)
	}

	lib.addOne(c)

	return c
}

func (lib *Library) addOne(c *Cell) {
	if existing, ok := lib.nameIndex[c.name]; ok && existing == c {
		return
	}

	c.name = lib.uniqueName(c.name)
	lib.nameIndex[c.name] = c
	lib.cells = append(lib.cells, c)
}

func (lib *Library) uniqueName(name string) string {
	if _, taken := lib.nameIndex[name]; !taken {
		return name
	}

	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", name, i)
		if _, taken := lib.nameIndex[candidate]; !taken {
			return candidate
		}
	}
}

// Cell finds a cell by name.
func (lib *Library) Cell(name string) (*Cell, bool) {
	c, ok := lib.nameIndex[name]
	return c, ok
}

// Cells returns all cells in the order they were added. Every cell comes after
// the cells it places.
func (lib *Library) Cells() []*Cell {
	return lib.cells
}

// TopCells returns the cells that no other cell in the library places,
// sorted by name.
func (lib *Library) TopCells() []*Cell {
	placed := make(map[*Cell]bool)

	for _, c := range lib.cells {
		for _, inst := range c.instances {
			placed[inst.Cell] = true
		}
	}

	var tops []*Cell

	for _, c := range lib.cells {
		if !placed[c] {
			tops = append(tops, c)
		}
	}

	sort.Slice(tops, func(i, j int) bool { return tops[i].name < tops[j].name })

	return tops
}
