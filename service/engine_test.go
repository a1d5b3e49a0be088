package service

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Comcast/httpbind/item"
)

func testCatalog(t *testing.T, yaml string) *item.Catalog {
	t.Helper()
	items, err := item.ParseCatalog([]byte(yaml))
	if err != nil {
		t.Fatal(err)
	}
	return items
}

func TestEngineHandleCommand(t *testing.T) {
	hits := make(chan string, 16)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits <- req.URL.String()
	}))
	defer ts.Close()

	items := testCatalog(t, fmt.Sprintf(`
items:
  - name: lamp
    kind: Switch
    http: '>[ON:GET:%s/lights?status=on] >[OFF:GET:%s/lights?status=off]'
`, ts.URL, ts.URL))

	ctx := context.Background()
	e, err := NewEngine(ctx, nil, items, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	out := make(chan StateUpdate, 1)
	e.handleCommand(ctx, CommandEvent{Item: "lamp", Command: "ON"}, out)

	select {
	case got := <-hits:
		if got != "/lights?status=on" {
			t.Fatalf("got '%s'", got)
		}
	case <-time.NewTimer(2 * time.Second).C:
		t.Fatal("no request arrived")
	}

	// Unknown items and commands are ignored, not fatal.
	e.handleCommand(ctx, CommandEvent{Item: "ghost", Command: "ON"}, out)
	e.handleCommand(ctx, CommandEvent{Item: "lamp", Command: "DIM"}, out)

	select {
	case got := <-hits:
		t.Fatalf("unexpected request '%s'", got)
	case <-time.NewTimer(100 * time.Millisecond).C:
	}
}

func TestEngineWildcardSubstitution(t *testing.T) {
	type hit struct {
		url  string
		auth string
	}
	hits := make(chan hit, 16)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits <- hit{url: req.URL.String(), auth: req.Header.Get("AuthKey")}
	}))
	defer ts.Close()

	items := testCatalog(t, fmt.Sprintf(`
items:
  - name: lamp
    kind: Switch
    http: '>[*:POST:%s/lights?status=%%2$s{AuthKey=somekey}]'
`, ts.URL))

	ctx := context.Background()
	e, err := NewEngine(ctx, nil, items, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	out := make(chan StateUpdate, 1)
	e.handleCommand(ctx, CommandEvent{Item: "lamp", Command: "OFF"}, out)

	select {
	case got := <-hits:
		if got.url != "/lights?status=OFF" {
			t.Fatalf("got '%s'", got.url)
		}
		if got.auth != "somekey" {
			t.Fatalf("got auth '%s'", got.auth)
		}
	case <-time.NewTimer(2 * time.Second).C:
		t.Fatal("no request arrived")
	}
}

func TestEnginePoll(t *testing.T) {
	var (
		body    = `<t>21.5</t>`
		changed = make(chan string, 16)
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/data", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(body))
	})
	mux.HandleFunc("/changed", func(w http.ResponseWriter, req *http.Request) {
		changed <- req.URL.Query().Get("v")
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	items := testCatalog(t, fmt.Sprintf(`
items:
  - name: temp
    kind: Number
    http: '<[%s/data:60000:REGEX(<t>(.*)</t>)] >[CHANGED:GET:%s/changed?v=%%2$s]'
`, ts.URL, ts.URL))

	ctx := context.Background()
	e, err := NewEngine(ctx, nil, items, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	out := make(chan StateUpdate, 16)

	e.pollOnce(ctx, "temp", out)

	select {
	case u := <-out:
		if u.Item != "temp" || u.Value != "21.5" || u.Previous != "" {
			t.Fatalf("got %#v", u)
		}
	case <-time.NewTimer(2 * time.Second).C:
		t.Fatal("no state update")
	}

	select {
	case v := <-changed:
		if v != "21.5" {
			t.Fatalf("got '%s'", v)
		}
	case <-time.NewTimer(2 * time.Second).C:
		t.Fatal("CHANGED binding never fired")
	}

	// An unchanged poll is quiet.
	e.pollOnce(ctx, "temp", out)
	select {
	case u := <-out:
		t.Fatalf("unexpected update %#v", u)
	case <-time.NewTimer(200 * time.Millisecond).C:
	}

	// A new value updates again, with the previous value attached.
	body = `<t>22</t>`
	e.pollOnce(ctx, "temp", out)
	select {
	case u := <-out:
		if u.Value != "22" || u.Previous != "21.5" {
			t.Fatalf("got %#v", u)
		}
	case <-time.NewTimer(2 * time.Second).C:
		t.Fatal("no state update")
	}
}

func TestEngineLoopStdio(t *testing.T) {
	hits := make(chan string, 16)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits <- req.URL.String()
	}))
	defer ts.Close()

	items := testCatalog(t, fmt.Sprintf(`
items:
  - name: lamp
    kind: Switch
    http: '>[ON:GET:%s/on]'
`, ts.URL))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	io := &Stdio{
		In:       strings.NewReader(`{"item":"lamp","command":"ON"}` + "\n"),
		Out:      ioutil.Discard,
		InputEOF: make(chan bool),
	}

	e, err := NewEngine(ctx, nil, items, nil, io)
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		done <- e.Loop(ctx)
	}()

	select {
	case got := <-hits:
		if got != "/on" {
			t.Fatalf("got '%s'", got)
		}
	case <-time.NewTimer(2 * time.Second).C:
		t.Fatal("no request arrived")
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.NewTimer(2 * time.Second).C:
		t.Fatal("loop didn't stop on input EOF")
	}
}

func TestEngineBadCatalog(t *testing.T) {
	items := testCatalog(t, `
items:
  - name: lamp
    kind: Switch
    http: 'garbage'
`)

	if _, err := NewEngine(context.Background(), nil, items, nil, nil); err == nil {
		t.Fatal("expected an error")
	}
}
