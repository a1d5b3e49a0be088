package binding

import (
	"regexp"
	"strings"
)

// transformPattern matches a transformation call: a function name and
// a single textual parameter.
var transformPattern = regexp.MustCompile(`^(.*)\((.*)\)$`)

// DefaultTransformation is the literal body token that selects the
// identity transformation.
const DefaultTransformation = "default"

// classifyBody decides whether a POST body is really a
// transformation in disguise.
//
// Three mutually exclusive outcomes: the literal "default" becomes
// the default transformation; a name(param) call becomes the
// transformation "name=param"; anything else stays a literal body.
// The body and the transformation never coexist.
func classifyBody(body string) (transformation, remaining string) {
	if body == DefaultTransformation {
		return DefaultTransformation, ""
	}
	if m := transformPattern.FindStringSubmatch(body); m != nil {
		return m[1] + "=" + m[2], ""
	}
	return "", body
}

// inTransformPattern matches an in-binding's transformation call.
// Unlike transformPattern, the name is matched tightly, so a regular
// expression parameter with nested parens keeps its full text.
var inTransformPattern = regexp.MustCompile(`^([A-Z0-9]+)\((.*)\)$`)

// classifyTransformation normalizes an in-binding's transformation
// to "name=param" (or "default").  Text that isn't a transformation
// call is kept verbatim.
func classifyTransformation(t string) string {
	if t == DefaultTransformation {
		return t
	}
	if m := inTransformPattern.FindStringSubmatch(t); m != nil {
		return m[1] + "=" + m[2]
	}
	return t
}

// SplitTransformation separates a stored transformation
// ("name=param" or "default") into its name and parameter.
func SplitTransformation(t string) (name, param string) {
	if i := strings.IndexByte(t, '='); 0 <= i {
		return t[:i], t[i+1:]
	}
	return t, ""
}
