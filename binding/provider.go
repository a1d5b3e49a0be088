package binding

import (
	"sort"
	"sync"

	"github.com/Comcast/httpbind/item"
)

// Provider is the process-wide store of binding descriptors, keyed by
// item name.
//
// Registration replaces an item's descriptor in full, so a concurrent
// reader sees either the old descriptor or the new one, never a
// partially populated one.  Descriptors are independent; there is no
// cross-item locking.
type Provider struct {
	sync.RWMutex

	configs map[string]*Config
}

func NewProvider() *Provider {
	return &Provider{
		configs: make(map[string]*Config, 32),
	}
}

// Process parses an item's binding configuration string and registers
// the resulting descriptor.
//
// On a GrammarError or CommandParseError nothing is registered: any
// previous descriptor for the item remains in place.
func (p *Provider) Process(it *item.Item, config string) error {
	c, err := Parse(it, config)
	if err != nil {
		return err
	}

	p.Lock()
	p.configs[it.Name] = c
	p.Unlock()

	return nil
}

// Rem forgets an item's descriptor.
func (p *Provider) Rem(itemName string) {
	p.Lock()
	delete(p.configs, itemName)
	p.Unlock()
}

// Config returns the item's descriptor (nil if none).
func (p *Provider) Config(itemName string) *Config {
	p.RLock()
	c := p.configs[itemName]
	p.RUnlock()
	return c
}

// Resolve finds the element for an item and command key, with the
// wildcard fallback of Config.Resolve.  Returns nil when the item has
// no descriptor or no applicable rule.
func (p *Provider) Resolve(itemName string, k CommandKey) *Element {
	if c := p.Config(itemName); c != nil {
		return c.Resolve(k)
	}
	return nil
}

// Method returns the HTTP method configured for the item and command
// ("" if none).
func (p *Provider) Method(itemName string, k CommandKey) string {
	if e := p.Resolve(itemName, k); e != nil {
		return e.Method
	}
	return ""
}

// URL returns the URL configured for the item and command.
func (p *Provider) URL(itemName string, k CommandKey) string {
	if e := p.Resolve(itemName, k); e != nil {
		return e.URL
	}
	return ""
}

// Headers returns the headers configured for the item and command.
func (p *Provider) Headers(itemName string, k CommandKey) Headers {
	if e := p.Resolve(itemName, k); e != nil {
		return e.Headers
	}
	return nil
}

// Body returns the literal POST body configured for the item and
// command.
func (p *Provider) Body(itemName string, k CommandKey) string {
	if e := p.Resolve(itemName, k); e != nil {
		return e.Body
	}
	return ""
}

// Transformation returns the transformation configured for the item
// and command.
func (p *Provider) Transformation(itemName string, k CommandKey) string {
	if e := p.Resolve(itemName, k); e != nil {
		return e.Transformation
	}
	return ""
}

func (p *Provider) poll(itemName string) *Element {
	if c := p.Config(itemName); c != nil {
		return c.Poll()
	}
	return nil
}

// PollURL returns the URL of the item's in-binding.
func (p *Provider) PollURL(itemName string) string {
	if e := p.poll(itemName); e != nil {
		return e.URL
	}
	return ""
}

// PollHeaders returns the headers of the item's in-binding.
func (p *Provider) PollHeaders(itemName string) Headers {
	if e := p.poll(itemName); e != nil {
		return e.Headers
	}
	return nil
}

// PollTransformation returns the transformation of the item's
// in-binding.
func (p *Provider) PollTransformation(itemName string) string {
	if e := p.poll(itemName); e != nil {
		return e.Transformation
	}
	return ""
}

// RefreshMillis returns the poll interval of the item's in-binding (0
// if the item has none).
func (p *Provider) RefreshMillis(itemName string) int {
	if e := p.poll(itemName); e != nil {
		return e.RefreshMillis
	}
	return 0
}

// PollItemNames lists the items that have an in-binding, sorted for
// determinism.
func (p *Provider) PollItemNames() []string {
	p.RLock()
	names := make([]string, 0, len(p.configs))
	for name, c := range p.configs {
		if c.Poll() != nil {
			names = append(names, name)
		}
	}
	p.RUnlock()

	sort.Strings(names)

	return names
}

// State parses raw inbound text against the state types captured in
// the item's descriptor.  Returns nil when the item has no descriptor
// or no type accepts the text.
func (p *Provider) State(itemName, value string) item.State {
	c := p.Config(itemName)
	if c == nil {
		return nil
	}
	s, ok := item.ParseState(c.StateTypes(), value)
	if !ok {
		return nil
	}
	return s
}
