package item

import (
	"errors"
	"testing"
)

func TestCheck(t *testing.T) {
	if err := (&Item{Name: "lamp", Kind: "Switch"}).Check(); err != nil {
		t.Fatal(err)
	}

	if err := (&Item{Kind: "Switch"}).Check(); err == nil {
		t.Fatal("expected an error for a nameless item")
	}

	err := (&Item{Name: "x", Kind: "Blender"}).Check()
	if !errors.Is(err, UnknownKind) {
		t.Fatalf("expected UnknownKind; got %v", err)
	}
}

func TestKindTypes(t *testing.T) {
	lamp := &Item{Name: "lamp", Kind: "Switch"}

	if _, ok := lamp.Command("ON"); !ok {
		t.Fatal("ON should parse")
	}
	if _, ok := lamp.Command("42"); ok {
		t.Fatal("42 shouldn't parse for a Switch")
	}

	contact := &Item{Name: "door", Kind: "Contact"}
	if _, ok := contact.Command("OPEN"); ok {
		t.Fatal("a Contact takes no commands")
	}
	if s, ok := contact.State("OPEN"); !ok || s.String() != "OPEN" {
		t.Fatal("OPEN should parse as a state")
	}
}

func TestDimmerOrdering(t *testing.T) {
	dimmer := &Item{Name: "d", Kind: "Dimmer"}

	// Commands try OnOff first.
	if c, ok := dimmer.Command("ON"); !ok || c.String() != "ON" {
		t.Fatal("ON should parse")
	}
	if c, ok := dimmer.Command("50"); !ok || c.String() != "50" {
		t.Fatal("50 should parse")
	}
	if _, ok := dimmer.Command("150"); ok {
		t.Fatal("150 is out of the percent range")
	}
}

func TestStringAcceptsAnything(t *testing.T) {
	s := &Item{Name: "s", Kind: "String"}
	if c, ok := s.Command("whatever text"); !ok || c.String() != "whatever text" {
		t.Fatal("a String item should accept anything")
	}
}

func TestDecimalCanonical(t *testing.T) {
	n := &Item{Name: "n", Kind: "Number"}
	c, ok := n.Command("007.250")
	if !ok {
		t.Fatal("007.250 should parse")
	}
	if c.String() != "7.25" {
		t.Fatalf("got '%s'", c.String())
	}
}

func TestKinds(t *testing.T) {
	ks := Kinds()
	if len(ks) != 6 {
		t.Fatalf("got %#v", ks)
	}
}
