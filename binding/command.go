package binding

import (
	"github.com/Comcast/httpbind/item"
)

// CommandKind discriminates the keys that a binding Config maps to
// Elements.
//
// Previous versions of this grammar used magic string commands
// ("CHANGED", "*", "IN") as map keys, which could collide with real
// command literals.  An explicit kind removes that hazard.
type CommandKind int

const (
	// Literal is an ordinary item command (say ON or 42).
	Literal CommandKind = iota

	// Changed marks an out-binding that should fire when the
	// item's state changes.  A Changed lookup never falls back to
	// the wildcard.
	Changed

	// Wildcard matches any command that has no exact entry.
	Wildcard

	// Poll is the implicit key for an item's single in-binding.
	Poll
)

// CommandKey is a key in a binding Config.
type CommandKey struct {
	Kind CommandKind

	// Text is the canonical command text.  Only meaningful for
	// Literal keys.
	Text string
}

var (
	ChangedKey  = CommandKey{Kind: Changed}
	WildcardKey = CommandKey{Kind: Wildcard}
	PollKey     = CommandKey{Kind: Poll}
)

// LiteralKey makes the key for an ordinary command's text.
func LiteralKey(text string) CommandKey {
	return CommandKey{Kind: Literal, Text: text}
}

func (k CommandKey) String() string {
	switch k.Kind {
	case Changed:
		return "CHANGED"
	case Wildcard:
		return "*"
	case Poll:
		return "IN"
	default:
		return k.Text
	}
}

// Tokens with special meaning in an out-binding's command position.
const (
	changedToken  = "CHANGED"
	wildcardToken = "*"
)

// ResolveCommand maps a command token from an out-binding to a key,
// taking the special tokens "CHANGED" and "*" into account and
// otherwise delegating to the item's accepted command types.
func ResolveCommand(it *item.Item, token string) (CommandKey, error) {
	switch token {
	case changedToken:
		return ChangedKey, nil
	case wildcardToken:
		return WildcardKey, nil
	}

	cmd, ok := item.ParseCommand(it.CommandTypes(), token)
	if !ok {
		return CommandKey{}, &CommandParseError{
			Item:  it.Name,
			Token: token,
		}
	}

	return LiteralKey(cmd.String()), nil
}
