package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestStdioIO(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var buf bytes.Buffer
	s := &Stdio{
		In: strings.NewReader(`# a comment
{"item":"lamp","command":"ON"}
`),
		Out:      &buf,
		InputEOF: make(chan bool),
	}

	in, out, done, err := s.IO(ctx)
	if err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-in:
		if ev.Item != "lamp" || ev.Command != "ON" {
			t.Fatalf("got %#v", ev)
		}
	case <-time.NewTimer(2 * time.Second).C:
		t.Fatal("no command event")
	}

	out <- StateUpdate{Item: "lamp", Value: "ON"}

	select {
	case <-done:
	case <-time.NewTimer(2 * time.Second).C:
		t.Fatal("done never closed")
	}

	// Give the writer a moment.
	time.Sleep(100 * time.Millisecond)
	cancel()
	s.Stop(context.Background())

	if !strings.Contains(buf.String(), `"item":"lamp"`) {
		t.Fatalf("got output '%s'", buf.String())
	}
}

func TestStdioQuit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := &Stdio{
		In:       strings.NewReader("quit\n"),
		Out:      &bytes.Buffer{},
		InputEOF: make(chan bool),
	}

	_, _, done, err := s.IO(ctx)
	if err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-time.NewTimer(2 * time.Second).C:
		t.Fatal("done never closed")
	}
}
