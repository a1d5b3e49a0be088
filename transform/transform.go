// Package transform executes the named transformations that an
// in-binding (or a POST body) can request: "default", "REGEX=...",
// "MAP=...", "JS=...".
package transform

import (
	"context"
	"strings"
)

// A Transformer derives an output string (usually an item state) from
// an input string (usually an HTTP response body).
type Transformer interface {
	Transform(ctx context.Context, param, input string) (string, error)
}

// Registry maps transformation names to their implementations.
type Registry map[string]Transformer

// NewRegistry returns a registry with the standard transformations.
func NewRegistry() Registry {
	return Registry{
		"REGEX": &Regex{},
		"MAP":   &MapFile{},
		"JS":    NewJS(),
	}
}

// UnknownTransformation occurs when a binding names a transformation
// that isn't registered.
type UnknownTransformation struct {
	Name string
}

func (e *UnknownTransformation) Error() string {
	return `unknown transformation "` + e.Name + `"`
}

// Apply runs the transformation given in its stored form: "default"
// (or empty) for the identity, otherwise "name=param".
func (r Registry) Apply(ctx context.Context, spec, input string) (string, error) {
	if spec == "" || spec == "default" {
		return input, nil
	}

	var (
		name  = spec
		param string
	)
	if i := strings.IndexByte(spec, '='); 0 <= i {
		name, param = spec[:i], spec[i+1:]
	}

	t, have := r[name]
	if !have {
		return "", &UnknownTransformation{Name: name}
	}

	return t.Transform(ctx, param, input)
}
