package binding

import (
	"github.com/Comcast/httpbind/item"
)

// Element is one resolved binding rule.
type Element struct {
	// Method is the HTTP method for an out-binding (POST, GET).
	Method string `json:"method,omitempty" yaml:"method,omitempty"`

	// URL is the request target with any header fragment removed.
	URL string `json:"url" yaml:"url"`

	// Headers are the {key=value&...} pairs in encounter order.
	// Duplicates are kept.
	Headers Headers `json:"headers,omitempty" yaml:"headers,omitempty"`

	// RefreshMillis is the poll interval of an in-binding.  0 for
	// out-bindings.
	RefreshMillis int `json:"refreshMillis,omitempty" yaml:"refreshMillis,omitempty"`

	// Transformation is "default" or "name=param".  Exclusive
	// with Body: a POST body that looks like a transformation call
	// is moved here and the body is cleared.
	Transformation string `json:"transformation,omitempty" yaml:"transformation,omitempty"`

	// Body is a literal POST body.
	Body string `json:"body,omitempty" yaml:"body,omitempty"`
}

// Rule is one (key, element) pair in parse order.
type Rule struct {
	Key     CommandKey `json:"key" yaml:"key"`
	Element *Element   `json:"element" yaml:"element"`
}

// Config is the binding descriptor for one item: the ordered rules
// parsed from its configuration string plus the item's accepted
// state types, captured at construction for later state parsing.
//
// The rules are kept as an association list and replayed on lookup,
// which makes the last-wins rule for colliding keys explicit rather
// than an accident of map insertion.
type Config struct {
	rules      []Rule
	stateTypes []item.Type
}

func newConfig(it *item.Item) *Config {
	return &Config{
		stateTypes: it.StateTypes(),
	}
}

func (c *Config) put(k CommandKey, e *Element) {
	c.rules = append(c.rules, Rule{Key: k, Element: e})
}

// find replays the rules; a later rule for the same key overwrites an
// earlier one.
func (c *Config) find(k CommandKey) *Element {
	var found *Element
	for _, r := range c.rules {
		if r.Key == k {
			found = r.Element
		}
	}
	return found
}

// Resolve finds the element for a command key.
//
// An exact entry wins.  Otherwise any key except Changed falls back
// to the wildcard entry: a wildcard rule applies to any ordinary
// command but never substitutes for an explicit CHANGED rule.
func (c *Config) Resolve(k CommandKey) *Element {
	if e := c.find(k); e != nil {
		return e
	}
	if k.Kind != Changed {
		return c.find(WildcardKey)
	}
	return nil
}

// Poll returns the element of the item's in-binding, if any.
func (c *Config) Poll() *Element {
	return c.find(PollKey)
}

// Rules returns the parsed rules in parse order.
func (c *Config) Rules() []Rule {
	return c.rules
}

// StateTypes returns the accepted state types captured when the
// descriptor was built.
func (c *Config) StateTypes() []item.Type {
	return c.stateTypes
}
