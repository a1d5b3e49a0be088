package item

import (
	"strconv"
)

// Command is a typed action value that an item accepts (say ON or
// 42).
type Command interface {
	String() string
}

// State is a typed value representing an item's current status.
type State interface {
	String() string
}

// A Type parses text into typed commands and states.
//
// Some types are command-only (StopMove) or state-only (OpenClosed);
// the corresponding parse method just reports no match.
type Type interface {
	Name() string
	ParseCommand(s string) (Command, bool)
	ParseState(s string) (State, bool)
}

// ParseCommand tries the given types in order and returns the first
// match.
func ParseCommand(types []Type, s string) (Command, bool) {
	for _, t := range types {
		if c, ok := t.ParseCommand(s); ok {
			return c, true
		}
	}
	return nil, false
}

// ParseState tries the given types in order and returns the first
// match.
func ParseState(types []Type, s string) (State, bool) {
	for _, t := range types {
		if v, ok := t.ParseState(s); ok {
			return v, true
		}
	}
	return nil, false
}

// OnOff is the ON/OFF value of switch-like items.
type OnOff string

const (
	On  OnOff = "ON"
	Off OnOff = "OFF"
)

func (v OnOff) String() string { return string(v) }

type onOffType struct{}

// OnOffType parses ON and OFF, as both command and state.
var OnOffType Type = onOffType{}

func (onOffType) Name() string { return "OnOff" }

func (onOffType) ParseCommand(s string) (Command, bool) {
	switch OnOff(s) {
	case On, Off:
		return OnOff(s), true
	}
	return nil, false
}

func (onOffType) ParseState(s string) (State, bool) {
	switch OnOff(s) {
	case On, Off:
		return OnOff(s), true
	}
	return nil, false
}

// OpenClosed is the OPEN/CLOSED state of contact items.  It's a state
// only: a contact can't be commanded.
type OpenClosed string

const (
	Open   OpenClosed = "OPEN"
	Closed OpenClosed = "CLOSED"
)

func (v OpenClosed) String() string { return string(v) }

type openClosedType struct{}

var OpenClosedType Type = openClosedType{}

func (openClosedType) Name() string { return "OpenClosed" }

func (openClosedType) ParseCommand(s string) (Command, bool) { return nil, false }

func (openClosedType) ParseState(s string) (State, bool) {
	switch OpenClosed(s) {
	case Open, Closed:
		return OpenClosed(s), true
	}
	return nil, false
}

// UpDown is the UP/DOWN value of rollershutter-like items.
type UpDown string

const (
	Up   UpDown = "UP"
	Down UpDown = "DOWN"
)

func (v UpDown) String() string { return string(v) }

type upDownType struct{}

var UpDownType Type = upDownType{}

func (upDownType) Name() string { return "UpDown" }

func (upDownType) ParseCommand(s string) (Command, bool) {
	switch UpDown(s) {
	case Up, Down:
		return UpDown(s), true
	}
	return nil, false
}

func (upDownType) ParseState(s string) (State, bool) {
	switch UpDown(s) {
	case Up, Down:
		return UpDown(s), true
	}
	return nil, false
}

// StopMove is a command only: STOP or MOVE has no state reading.
type StopMove string

const (
	Stop StopMove = "STOP"
	Move StopMove = "MOVE"
)

func (v StopMove) String() string { return string(v) }

type stopMoveType struct{}

var StopMoveType Type = stopMoveType{}

func (stopMoveType) Name() string { return "StopMove" }

func (stopMoveType) ParseCommand(s string) (Command, bool) {
	switch StopMove(s) {
	case Stop, Move:
		return StopMove(s), true
	}
	return nil, false
}

func (stopMoveType) ParseState(s string) (State, bool) { return nil, false }

// Decimal is a numeric value.
type Decimal float64

func (v Decimal) String() string {
	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}

type decimalType struct{}

var DecimalType Type = decimalType{}

func (decimalType) Name() string { return "Decimal" }

func (decimalType) ParseCommand(s string) (Command, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return Decimal(f), true
}

func (decimalType) ParseState(s string) (State, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return Decimal(f), true
}

// Percent is a numeric value restricted to 0..100.
type Percent float64

func (v Percent) String() string {
	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}

type percentType struct{}

var PercentType Type = percentType{}

func (percentType) Name() string { return "Percent" }

func parsePercent(s string) (Percent, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || 100 < f {
		return 0, false
	}
	return Percent(f), true
}

func (percentType) ParseCommand(s string) (Command, bool) {
	v, ok := parsePercent(s)
	if !ok {
		return nil, false
	}
	return v, true
}

func (percentType) ParseState(s string) (State, bool) {
	v, ok := parsePercent(s)
	if !ok {
		return nil, false
	}
	return v, true
}

// Str is free text.  It accepts anything, so it should be last in an
// item's type list.
type Str string

func (v Str) String() string { return string(v) }

type strType struct{}

var StrType Type = strType{}

func (strType) Name() string { return "String" }

func (strType) ParseCommand(s string) (Command, bool) { return Str(s), true }

func (strType) ParseState(s string) (State, bool) { return Str(s), true }
