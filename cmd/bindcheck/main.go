// Package main is a little tool that parses HTTP binding
// configuration strings and prints what they mean.
//
//	bindcheck -kind Number '<[http://w.org/data:60000:REGEX(.*?,(\d+))]'
//
// A malformed configuration gets the grammar error on stderr and a
// non-zero exit.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Comcast/httpbind/binding"
	"github.com/Comcast/httpbind/item"
	"github.com/Comcast/httpbind/tools"

	"gopkg.in/yaml.v2"
)

func main() {
	var (
		kindName = flag.String("kind", "Switch", "Item kind for command parsing")
		itemName = flag.String("name", "item", "Item name to use")
		format   = flag.String("o", "yaml", `Output format: "yaml" or "html"`)
	)

	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "bindcheck: need at least one binding configuration string\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	items := &item.Catalog{}

	code := 0
	for i, config := range flag.Args() {
		name := *itemName
		if 1 < flag.NArg() {
			name = fmt.Sprintf("%s%d", *itemName, i)
		}

		it := &item.Item{
			Name:    name,
			Kind:    *kindName,
			Binding: config,
		}
		if err := it.Check(); err != nil {
			fmt.Fprintf(os.Stderr, "bindcheck: %s\n", err)
			os.Exit(1)
		}

		c, err := binding.Parse(it, config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bindcheck: %s\n", err)
			code = 1
			continue
		}

		switch *format {
		case "yaml":
			if err := printYAML(it, c); err != nil {
				fmt.Fprintf(os.Stderr, "bindcheck: %s\n", err)
				code = 1
			}
		case "html":
			items.Items = append(items.Items, it)
		default:
			fmt.Fprintf(os.Stderr, "bindcheck: unknown output format '%s'\n", *format)
			os.Exit(1)
		}
	}

	if *format == "html" && 0 < len(items.Items) {
		if err := tools.RenderCatalogPage(items, os.Stdout, "bindcheck", nil); err != nil {
			fmt.Fprintf(os.Stderr, "bindcheck: %s\n", err)
			code = 1
		}
	}

	os.Exit(code)
}

type rule struct {
	Key     string           `yaml:"key"`
	Element *binding.Element `yaml:"element"`
}

type descriptor struct {
	Item    string `yaml:"item"`
	Binding string `yaml:"binding"`
	Rules   []rule `yaml:"rules"`
}

func printYAML(it *item.Item, c *binding.Config) error {
	d := descriptor{
		Item:    it.Name,
		Binding: it.Binding,
	}
	for _, r := range c.Rules() {
		d.Rules = append(d.Rules, rule{
			Key:     r.Key.String(),
			Element: r.Element,
		})
	}

	bs, err := yaml.Marshal(&d)
	if err != nil {
		return err
	}
	fmt.Printf("%s---\n", bs)

	return nil
}
