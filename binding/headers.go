package binding

import (
	"strings"
)

// Header is one key/value pair from a {key=value&key=value} fragment.
type Header struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Headers preserves encounter order, including duplicate keys.
type Headers []Header

// Get returns the first value for the given key ("" if none).
func (hs Headers) Get(key string) string {
	for _, h := range hs {
		if h.Key == key {
			return h.Value
		}
	}
	return ""
}

// Values returns all values for the given key in encounter order.
func (hs Headers) Values(key string) []string {
	var vs []string
	for _, h := range hs {
		if h.Key == key {
			vs = append(vs, h.Value)
		}
	}
	return vs
}

// parseHeaders parses an optional {key=value&key=value} fragment.
//
// At most one leading '{' and one trailing '}' are stripped.  Keys
// and values are used verbatim: no unescaping, no trimming.  A part
// without '=' is dropped silently; this sub-grammar is deliberately
// forgiving, so there are no error cases.
func parseHeaders(fragment string) Headers {
	if fragment == "" {
		return nil
	}

	fragment = strings.TrimPrefix(fragment, "{")
	fragment = strings.TrimSuffix(fragment, "}")

	var hs Headers
	for _, part := range strings.Split(fragment, "&") {
		i := strings.IndexByte(part, '=')
		if i < 0 {
			continue
		}
		hs = append(hs, Header{
			Key:   part[:i],
			Value: part[i+1:],
		})
	}

	return hs
}
