package item

import (
	"testing"
)

var catalogYAML = `
items:
  - name: lamp
    kind: Switch
    http: ">[ON:POST:http://x.org/l?s=on] >[OFF:POST:http://x.org/l?s=off]"
  - name: weather
    kind: String
    doc: Daily weather report.
    http: "<[http://x.org/w:60000:REGEX(.*)]"
    poll: "0 */5 * * * * *"
`

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(catalogYAML))
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Items) != 2 {
		t.Fatalf("got %d items", len(c.Items))
	}

	lamp := c.Item("lamp")
	if lamp == nil {
		t.Fatal("no lamp")
	}
	if lamp.Kind != "Switch" {
		t.Fatalf("got kind '%s'", lamp.Kind)
	}
	if lamp.Binding == "" {
		t.Fatal("no binding")
	}

	weather := c.Item("weather")
	if weather == nil {
		t.Fatal("no weather")
	}
	if weather.PollCron == "" {
		t.Fatal("no poll cron")
	}

	if c.Item("nope") != nil {
		t.Fatal("phantom item")
	}
}

func TestParseCatalogBadKind(t *testing.T) {
	bad := `
items:
  - name: x
    kind: Blender
`
	if _, err := ParseCatalog([]byte(bad)); err == nil {
		t.Fatal("expected an error")
	}
}

func TestParseCatalogDuplicate(t *testing.T) {
	bad := `
items:
  - name: x
    kind: Switch
  - name: x
    kind: Switch
`
	if _, err := ParseCatalog([]byte(bad)); err == nil {
		t.Fatal("expected an error")
	}
}
