package binding

import (
	"testing"
)

func TestClassifyBody(t *testing.T) {
	cases := []struct {
		body           string
		transformation string
		remaining      string
	}{
		{"default", "default", ""},
		{"REGEX(.*)", "REGEX=.*", ""},
		{"MAP(en.map)", "MAP=en.map", ""},
		{"set lamp on", "", "set lamp on"},
		{"", "", ""},
		{"not(quite", "", "not(quite"},
	}

	for _, c := range cases {
		transformation, remaining := classifyBody(c.body)
		if transformation != c.transformation || remaining != c.remaining {
			t.Fatalf("'%s': got ('%s', '%s'), wanted ('%s', '%s')",
				c.body, transformation, remaining, c.transformation, c.remaining)
		}
	}
}

func TestClassifyTransformation(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"default", "default"},
		{"REGEX(.*)", "REGEX=.*"},
		{"REGEX(.*?<title>(.*?)</title>(.*))", "REGEX=.*?<title>(.*?)</title>(.*)"},
		{"XSLT(weather.xsl)", "XSLT=weather.xsl"},
		{"something else", "something else"},
	}

	for _, c := range cases {
		if got := classifyTransformation(c.in); got != c.want {
			t.Fatalf("'%s': got '%s', wanted '%s'", c.in, got, c.want)
		}
	}
}

func TestSplitTransformation(t *testing.T) {
	name, param := SplitTransformation("REGEX=.*")
	if name != "REGEX" || param != ".*" {
		t.Fatalf("got ('%s', '%s')", name, param)
	}

	name, param = SplitTransformation("default")
	if name != "default" || param != "" {
		t.Fatalf("got ('%s', '%s')", name, param)
	}

	// Only the first '=' separates.
	name, param = SplitTransformation("MAP=a=b.map")
	if name != "MAP" || param != "a=b.map" {
		t.Fatalf("got ('%s', '%s')", name, param)
	}
}
