package binding

import (
	"testing"

	"github.com/Comcast/httpbind/item"
)

func TestProviderBasic(t *testing.T) {
	p := NewProvider()
	lamp := switchItem("lamp")

	if err := p.Process(lamp,
		">[ON:POST:http://x.org/l?s=on] >[OFF:POST:http://x.org/l?s=off]"); err != nil {
		t.Fatal(err)
	}

	if got := p.Method("lamp", LiteralKey("ON")); got != "POST" {
		t.Fatalf("got '%s'", got)
	}
	if got := p.URL("lamp", LiteralKey("OFF")); got != "http://x.org/l?s=off" {
		t.Fatalf("got '%s'", got)
	}
	if got := p.URL("other", LiteralKey("ON")); got != "" {
		t.Fatalf("got '%s'", got)
	}

	p.Rem("lamp")
	if c := p.Config("lamp"); c != nil {
		t.Fatal("descriptor survived Rem")
	}
}

func TestProviderReprocessReplaces(t *testing.T) {
	p := NewProvider()
	lamp := switchItem("lamp")

	if err := p.Process(lamp, ">[ON:GET:http://a.org/on] >[OFF:GET:http://a.org/off]"); err != nil {
		t.Fatal(err)
	}
	if err := p.Process(lamp, ">[ON:GET:http://b.org/on]"); err != nil {
		t.Fatal(err)
	}

	if got := p.URL("lamp", LiteralKey("ON")); got != "http://b.org/on" {
		t.Fatalf("got '%s'", got)
	}
	// The replacement is total: OFF from the old descriptor is gone.
	if e := p.Resolve("lamp", LiteralKey("OFF")); e != nil {
		t.Fatalf("got %#v", e)
	}
}

func TestProviderBadConfigKeepsOld(t *testing.T) {
	p := NewProvider()
	lamp := switchItem("lamp")

	if err := p.Process(lamp, ">[ON:GET:http://a.org/on]"); err != nil {
		t.Fatal(err)
	}
	if err := p.Process(lamp, "garbage"); err == nil {
		t.Fatal("expected an error")
	}

	if got := p.URL("lamp", LiteralKey("ON")); got != "http://a.org/on" {
		t.Fatalf("got '%s'", got)
	}
}

func TestProviderPollAccessors(t *testing.T) {
	p := NewProvider()

	weather := stringItem("weather")
	if err := p.Process(weather,
		"<[http://x.org/weather{X-Token=abc}:60000:REGEX(.*)]"); err != nil {
		t.Fatal(err)
	}
	lamp := switchItem("lamp")
	if err := p.Process(lamp, ">[ON:GET:http://x.org/on]"); err != nil {
		t.Fatal(err)
	}
	aurora := stringItem("aurora")
	if err := p.Process(aurora, "<[http://x.org/aurora:5000:default]"); err != nil {
		t.Fatal(err)
	}

	if got := p.PollURL("weather"); got != "http://x.org/weather" {
		t.Fatalf("got '%s'", got)
	}
	if got := p.PollHeaders("weather").Get("X-Token"); got != "abc" {
		t.Fatalf("got '%s'", got)
	}
	if got := p.PollTransformation("weather"); got != "REGEX=.*" {
		t.Fatalf("got '%s'", got)
	}
	if got := p.RefreshMillis("weather"); got != 60000 {
		t.Fatalf("got %d", got)
	}
	if got := p.RefreshMillis("lamp"); got != 0 {
		t.Fatalf("got %d", got)
	}

	names := p.PollItemNames()
	if len(names) != 2 || names[0] != "aurora" || names[1] != "weather" {
		t.Fatalf("got %#v", names)
	}
}

func TestProviderState(t *testing.T) {
	p := NewProvider()

	if err := p.Process(&item.Item{Name: "temp", Kind: "Number"},
		"<[http://x.org/temp:60000:REGEX(.*)]"); err != nil {
		t.Fatal(err)
	}

	s := p.State("temp", "21.50")
	if s == nil {
		t.Fatal("no state")
	}
	if s.String() != "21.5" {
		t.Fatalf("got '%s'", s.String())
	}

	if s := p.State("temp", "warm"); s != nil {
		t.Fatalf("got %#v", s)
	}
	if s := p.State("unknown", "21.5"); s != nil {
		t.Fatalf("got %#v", s)
	}
}
