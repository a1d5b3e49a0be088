// Package item provides the typed items that binding configurations
// attach to: named entities with fixed sets of accepted command and
// state types.
package item

import (
	"errors"
	"fmt"
)

// Item is a named automation entity.
type Item struct {
	Name string `json:"name" yaml:"name"`

	// Kind selects the accepted command and state types.  See
	// Kinds.
	Kind string `json:"kind" yaml:"kind"`

	// Doc is optional markdown describing the item.
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`

	// Binding is the item's HTTP binding configuration string.
	Binding string `json:"http,omitempty" yaml:"http,omitempty"`

	// PollCron optionally overrides the in-binding's refresh
	// interval with a cron schedule.
	PollCron string `json:"poll,omitempty" yaml:"poll,omitempty"`
}

type kind struct {
	commands []Type
	states   []Type
}

// Kinds are the supported item kinds.  The order of each type list
// matters: parsing is first-match-wins, so broad types (Str) come
// last.
var kinds = map[string]kind{
	"Switch": {
		commands: []Type{OnOffType},
		states:   []Type{OnOffType},
	},
	"Contact": {
		states: []Type{OpenClosedType},
	},
	"Dimmer": {
		commands: []Type{OnOffType, PercentType},
		states:   []Type{PercentType, OnOffType},
	},
	"Rollershutter": {
		commands: []Type{UpDownType, StopMoveType, PercentType},
		states:   []Type{PercentType, UpDownType},
	},
	"Number": {
		commands: []Type{DecimalType},
		states:   []Type{DecimalType},
	},
	"String": {
		commands: []Type{StrType},
		states:   []Type{StrType},
	},
}

// Kinds lists the supported item kinds.
func Kinds() []string {
	ks := make([]string, 0, len(kinds))
	for k := range kinds {
		ks = append(ks, k)
	}
	return ks
}

var UnknownKind = errors.New("unknown item kind")

// Check verifies that the item is usable: a name and a known kind.
func (i *Item) Check() error {
	if i.Name == "" {
		return errors.New("item without a name")
	}
	if _, have := kinds[i.Kind]; !have {
		return fmt.Errorf("item %s: %w '%s'", i.Name, UnknownKind, i.Kind)
	}
	return nil
}

// CommandTypes returns the item's accepted command types (nil for a
// kind that takes no commands).
func (i *Item) CommandTypes() []Type {
	return kinds[i.Kind].commands
}

// StateTypes returns the item's accepted state types.
func (i *Item) StateTypes() []Type {
	return kinds[i.Kind].states
}

// Command parses text against the item's accepted command types.
func (i *Item) Command(s string) (Command, bool) {
	return ParseCommand(i.CommandTypes(), s)
}

// State parses text against the item's accepted state types.
func (i *Item) State(s string) (State, bool) {
	return ParseState(i.StateTypes(), s)
}
