// Package tools renders item catalogs and their binding descriptors
// as HTML, mostly for documentation and debugging.
package tools

import (
	"fmt"
	"html"
	"io"

	"github.com/Comcast/httpbind/binding"
	"github.com/Comcast/httpbind/item"

	md "github.com/russross/blackfriday/v2"
	"gopkg.in/yaml.v2"
)

// RenderItemHTML writes one item and its parsed binding descriptor.
func RenderItemHTML(it *item.Item, c *binding.Config, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	f(`<tr class="item"><td><span id="%s" class="itemName">%s</span><div class="itemKind">%s</div></td><td>`,
		it.Name, it.Name, it.Kind)

	if it.Doc != "" {
		f(`<div class="itemDoc doc">%s</div>`, md.Run([]byte(it.Doc)))
	}
	if it.Binding != "" {
		f(`<div class="code"><pre>%s</pre></div>`, html.EscapeString(it.Binding))
	}

	if c != nil {
		f(`<div class="rules"><table>`)
		for _, r := range c.Rules() {
			f(`<tr><td><code>%s</code></td><td>`, html.EscapeString(r.Key.String()))
			f(`<table>`)
			if r.Element.Method != "" {
				f(`<tr><td>method</td><td><code>%s</code></td></tr>`, r.Element.Method)
			}
			f(`<tr><td>url</td><td><code>%s</code></td></tr>`, html.EscapeString(r.Element.URL))
			for _, h := range r.Element.Headers {
				f(`<tr><td>header</td><td><code>%s: %s</code></td></tr>`,
					html.EscapeString(h.Key), html.EscapeString(h.Value))
			}
			if r.Element.RefreshMillis != 0 {
				f(`<tr><td>refresh</td><td>%d ms</td></tr>`, r.Element.RefreshMillis)
			}
			if r.Element.Transformation != "" {
				f(`<tr><td>transformation</td><td><code>%s</code></td></tr>`,
					html.EscapeString(r.Element.Transformation))
			}
			if r.Element.Body != "" {
				f(`<tr><td>body</td><td><code>%s</code></td></tr>`, html.EscapeString(r.Element.Body))
			}
			f(`</table>`)
			f(`</td></tr>`)
		}
		f(`</table></div>`)

		// The raw rules again, as YAML, for copy-paste debugging.
		type rule struct {
			Key     string           `yaml:"key"`
			Element *binding.Element `yaml:"element"`
		}
		rules := make([]rule, 0, len(c.Rules()))
		for _, r := range c.Rules() {
			rules = append(rules, rule{Key: r.Key.String(), Element: r.Element})
		}
		if bs, err := yaml.Marshal(rules); err == nil {
			f(`<div class="yaml"><pre>%s</pre></div>`, html.EscapeString(string(bs)))
		}
	}

	f(`</td></tr>`)

	return nil
}

// RenderCatalogPage writes a complete HTML page for a catalog.
//
// Items with malformed bindings are still listed, with the error in
// place of a descriptor.
func RenderCatalogPage(items *item.Catalog, out io.Writer, title string, cssFiles []string) error {

	if cssFiles == nil {
		cssFiles = []string{"/static/catalog-html.css"}
	}
	if title == "" {
		title = "items"
	}

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
`, html.EscapeString(title))

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
    <div class="items"><table>
`, html.EscapeString(title))

	for _, it := range items.Items {
		var c *binding.Config
		if it.Binding != "" {
			var err error
			if c, err = binding.Parse(it, it.Binding); err != nil {
				fmt.Fprintf(out, `<tr class="item"><td>%s</td><td><div class="error">%s</div></td></tr>%s`,
					it.Name, html.EscapeString(err.Error()), "\n")
				continue
			}
		}
		if err := RenderItemHTML(it, c, out); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, `
    </table></div>
  </body>
</html>
`)

	return nil
}

// ReadAndRenderCatalogPage reads a YAML catalog file and renders it.
func ReadAndRenderCatalogPage(filename string, cssFiles []string, out io.Writer) error {
	items, err := item.LoadCatalog(filename)
	if err != nil {
		return err
	}

	return RenderCatalogPage(items, out, filename, cssFiles)
}
