package layout

import "fmt"

// A Layer identifies a mask layer by its (number, purpose) pair, which is the
// (layer, datatype) pair written into stream files.
type Layer struct {
	Number  int
	Purpose int
}

// String returns the layer in the "number/purpose" notation.
func (l Layer) String() string {
	return fmt.Sprintf("%d/%d", l.Number, l.Purpose)
}
