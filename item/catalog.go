package item

import (
	"fmt"
	"io/ioutil"

	"github.com/jsccast/yaml"
)

// Catalog is a set of items, usually read from a YAML file:
//
//   items:
//     - name: lamp
//       kind: Switch
//       http: ">[ON:POST:http://x.org/l?s=on] >[OFF:POST:http://x.org/l?s=off]"
//     - name: weather
//       kind: String
//       http: "<[http://x.org/w:60000:REGEX(.*)]"
type Catalog struct {
	Items []*Item `json:"items" yaml:"items"`

	byName map[string]*Item
}

// ParseCatalog unmarshals a YAML items file and checks every item.
func ParseCatalog(bs []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(bs, &c); err != nil {
		return nil, err
	}

	c.byName = make(map[string]*Item, len(c.Items))
	for _, it := range c.Items {
		if err := it.Check(); err != nil {
			return nil, err
		}
		if _, have := c.byName[it.Name]; have {
			return nil, fmt.Errorf("duplicate item '%s'", it.Name)
		}
		c.byName[it.Name] = it
	}

	return &c, nil
}

// LoadCatalog reads and parses a YAML items file.
func LoadCatalog(filename string) (*Catalog, error) {
	bs, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(bs)
}

// Item finds an item by name (nil if unknown).
func (c *Catalog) Item(name string) *Item {
	return c.byName[name]
}
