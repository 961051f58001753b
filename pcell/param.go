// Package pcell describes parametric cells as plain data: a list of
// parameter declarations, a pure coercion function, and a producer of
// layout. Definitions register themselves in a process-wide registry.
package pcell

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Type is the value type of a parameter.
type Type int

// Parameter types.
const (
	Float Type = iota
	Int
	Bool
	String
	Enum
)

var typeNames = []string{"float", "int", "bool", "string", "enum"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}

	return typeNames[t]
}

// MarshalText writes the type by name.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParamDecl declares one parameter of a cell.
type ParamDecl struct {
	Name        string   `json:"name"`
	Type        Type     `json:"type"`
	Default     any      `json:"default"`
	Unit        string   `json:"unit,omitempty"`
	Choices     []string `json:"choices,omitempty"`
	ReadOnly    bool     `json:"read_only,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Normalize converts a raw value to the Go type of the declaration: float64,
// int, bool, or string.
func (d ParamDecl) Normalize(v any) (any, error) {
	switch d.Type {
	case Float:
		return toFiniteFloat(v)
	case Int:
		f, err := toFiniteFloat(v)
		if err != nil {
			return nil, err
		}

		return int(math.Round(f)), nil
	case Bool:
		return toBool(v)
	case Enum:
		s := fmt.Sprint(v)
		for _, c := range d.Choices {
			if c == s {
				return s, nil
			}
		}

		return nil, fmt.Errorf("%q is not one of %s", s, strings.Join(d.Choices, ", "))
	default:
		return fmt.Sprint(v), nil
	}
}

// Parse reads a value from its textual form.
func (d ParamDecl) Parse(s string) (any, error) {
	v, err := d.Normalize(s)
	if err != nil {
		return nil, fmt.Errorf("parameter %s: %w", d.Name, err)
	}

	return v, nil
}

func toFiniteFloat(v any) (float64, error) {
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%v is not a finite number", v)
	}

	return f, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	case bool:
		if x {
			return 1, nil
		}

		return 0, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	default:
		return 0, fmt.Errorf("cannot use %T as a number", v)
	}
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(x))
	default:
		f, err := toFloat(v)
		if err != nil {
			return false, err
		}

		return f != 0, nil
	}
}
