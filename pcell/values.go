package pcell

import (
	"encoding/json"
	"fmt"
)

// Values is a parameter record keyed by parameter name.
type Values map[string]any

// Clone returns a shallow copy.
func (v Values) Clone() Values {
	c := make(Values, len(v))
	for k, x := range v {
		c[k] = x
	}

	return c
}

// Float returns a parameter as a number. Missing or malformed values read
// as zero.
func (v Values) Float(name string) float64 {
	f, err := toFloat(v[name])
	if err != nil {
		return 0
	}

	return f
}

// Int returns a parameter as an integer.
func (v Values) Int(name string) int {
	d := ParamDecl{Type: Int}

	i, err := d.Normalize(v[name])
	if err != nil {
		return 0
	}

	return i.(int)
}

// Bool returns a parameter as a flag.
func (v Values) Bool(name string) bool {
	b, err := toBool(v[name])
	if err != nil {
		return false
	}

	return b
}

// Text returns a parameter as text.
func (v Values) Text(name string) string {
	x, ok := v[name]
	if !ok || x == nil {
		return ""
	}

	return fmt.Sprint(x)
}

// Canonical encodes the record as JSON with sorted keys, so equal records
// give equal strings.
func (v Values) Canonical() string {
	b, err := json.Marshal(map[string]any(v))
	if err != nil {
		panic(err)
	}

	return string(b)
}

// Defaults returns the declared default of every parameter.
func Defaults(decls []ParamDecl) Values {
	v := make(Values, len(decls))
	for _, d := range decls {
		v[d.Name] = d.Default
	}

	return v
}

// Resolve fills the parameters missing from v with their defaults and
// converts every value to the declared type. Unknown names and malformed
// values are errors. Read-only parameters supplied by the caller are
// ignored.
func Resolve(decls []ParamDecl, v Values) (Values, error) {
	out := Defaults(decls)
	known := make(map[string]ParamDecl, len(decls))

	for _, d := range decls {
		known[d.Name] = d
	}

	for name, x := range v {
		d, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("unknown parameter %q", name)
		}

		if d.ReadOnly {
			continue
		}

		n, err := d.Normalize(x)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}

		out[name] = n
	}

	return out, nil
}
