package tools

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Comcast/httpbind/item"
)

func TestRenderCatalogPage(t *testing.T) {
	items, err := item.ParseCatalog([]byte(`
items:
  - name: lamp
    kind: Switch
    doc: The *living room* lamp.
    http: '>[ON:GET:http://x.org/on] >[OFF:GET:http://x.org/off{AuthKey=key}]'
  - name: broken
    kind: Switch
    http: 'garbage'
  - name: plain
    kind: String
`))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := RenderCatalogPage(items, &buf, "test items", nil); err != nil {
		t.Fatal(err)
	}
	html := buf.String()

	for _, want := range []string{
		"<title>test items</title>",
		`id="lamp"`,
		// The doc goes through markdown.
		"<em>living room</em>",
		"http://x.org/on",
		"AuthKey: key",
		// The malformed binding is reported, not fatal.
		`class="error"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("missing '%s' in:\n%s", want, html)
		}
	}
}
