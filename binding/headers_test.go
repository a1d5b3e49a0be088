package binding

import (
	"testing"
)

func TestParseHeaders(t *testing.T) {
	hs := parseHeaders("{a=1&b=2}")
	want := Headers{
		{Key: "a", Value: "1"},
		{Key: "b", Value: "2"},
	}
	if len(hs) != len(want) {
		t.Fatalf("got %#v", hs)
	}
	for i, h := range want {
		if hs[i] != h {
			t.Fatalf("got %#v", hs)
		}
	}
}

func TestParseHeadersForgiving(t *testing.T) {
	if hs := parseHeaders("{garbage}"); hs != nil {
		t.Fatalf("got %#v", hs)
	}
	if hs := parseHeaders(""); hs != nil {
		t.Fatalf("got %#v", hs)
	}

	// A part without '=' is dropped; the rest survives.
	hs := parseHeaders("{a=1&junk&b=2}")
	if len(hs) != 2 || hs[0].Key != "a" || hs[1].Key != "b" {
		t.Fatalf("got %#v", hs)
	}
}

func TestParseHeadersDuplicates(t *testing.T) {
	hs := parseHeaders("{Accept=text/plain&Accept=text/html}")
	if len(hs) != 2 {
		t.Fatalf("got %#v", hs)
	}
	vs := hs.Values("Accept")
	if len(vs) != 2 || vs[0] != "text/plain" || vs[1] != "text/html" {
		t.Fatalf("got %#v", vs)
	}
	if hs.Get("Accept") != "text/plain" {
		t.Fatalf("got '%s'", hs.Get("Accept"))
	}
}

func TestParseHeadersVerbatim(t *testing.T) {
	// No trimming, no unescaping.
	hs := parseHeaders("{ a = 1 }")
	if len(hs) != 1 || hs[0].Key != " a " || hs[0].Value != " 1 " {
		t.Fatalf("got %#v", hs)
	}
}
