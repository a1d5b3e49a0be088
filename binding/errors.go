package binding

// These errors are configuration errors, not internal errors.  A
// caller typically reports them at load time and registers nothing
// for the offending item.

// GrammarError occurs when a binding configuration string (or one of
// its segments) doesn't match the required shape.
type GrammarError struct {
	// Config is the offending text.
	Config string

	// Want describes the shape that Config should have had.
	Want string
}

func (e *GrammarError) Error() string {
	return `binding config "` + e.Config + `" doesn't match ` + e.Want
}

// CommandParseError occurs when a command token in an out-binding
// can't be resolved against the item's accepted command types.
type CommandParseError struct {
	Item  string
	Token string
}

func (e *CommandParseError) Error() string {
	return `couldn't create a command from "` + e.Token + `" for item "` + e.Item + `"`
}
