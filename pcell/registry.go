package pcell

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sarchlab/pcells/layout"
)

// A Definition is one kind of parametric cell.
type Definition interface {
	// Name is the kind, used as the model identifier.
	Name() string

	// Params lists the parameters in display order.
	Params() []ParamDecl

	// Coerce clamps a resolved record to legal values and fills read-only
	// outputs. It must not modify its argument.
	Coerce(v Values) Values

	// Produce builds the layout of a coerced record.
	Produce(v Values) *layout.Cell
}

// UnknownKindError is returned when no definition is registered for a kind.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown cell kind %q", e.Kind)
}

var (
	registryMu  sync.RWMutex
	definitions = map[string]Definition{}
)

// Register adds a definition. Registering a kind twice panics.
func Register(def Definition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, dup := definitions[def.Name()]; dup {
		panic(fmt.Sprintf("cell kind %s registered twice", def.Name()))
	}

	definitions[def.Name()] = def
}

// Lookup finds the definition of a kind.
func Lookup(kind string) (Definition, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := definitions[kind]
	if !ok {
		return nil, &UnknownKindError{Kind: kind}
	}

	return def, nil
}

// Names lists all registered kinds in order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(definitions))
	for n := range definitions {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// Prepare resolves a partial record against a definition and coerces it.
func Prepare(def Definition, v Values) (Values, error) {
	resolved, err := Resolve(def.Params(), v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", def.Name(), err)
	}

	return def.Coerce(resolved), nil
}
