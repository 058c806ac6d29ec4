// Package command turns raw transcript text into assistant commands and
// pumps them through a buffered channel toward the coordinator.
package command

import "strings"

// Action identifies what the user asked for.
type Action string

const (
	ActionFind    Action = "find"
	ActionWhat    Action = "what"
	ActionRead    Action = "read"
	ActionDetails Action = "details"
	ActionStop    Action = "stop"
	ActionQuit    Action = "quit"
)

// Command is one parsed user request. Argument is empty except for find.
type Command struct {
	Action   Action
	Argument string
}

// Exact trigger phrases per action. Matching is case-insensitive after
// trimming; anything not listed here and not a "find ..." prefix is ignored.
var phrases = map[string]Action{
	"what is this":                    ActionWhat,
	"what does this say":              ActionWhat,
	"what is it":                      ActionWhat,
	"read":                            ActionRead,
	"read this":                       ActionRead,
	"tell me more":                    ActionDetails,
	"tell me more about this":         ActionDetails,
	"tell me more about this product": ActionDetails,
	"more details":                    ActionDetails,
	"more information":                ActionDetails,
	"stop":                            ActionStop,
	"cancel":                          ActionStop,
	"quit":                            ActionQuit,
	"exit":                            ActionQuit,
}

// Parse maps raw text to a Command. The second result is false when the
// text matches nothing; unrecognized input is not an error.
func Parse(raw string) (Command, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return Command{}, false
	}

	if rest, ok := strings.CutPrefix(text, "find "); ok {
		query := strings.TrimSpace(rest)
		if query == "" {
			return Command{}, false
		}
		return Command{Action: ActionFind, Argument: query}, true
	}

	if action, ok := phrases[text]; ok {
		return Command{Action: action}, true
	}
	return Command{}, false
}
