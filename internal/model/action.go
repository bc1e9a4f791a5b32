package model

import "fmt"

// Action is a named state change applied to one message through the action
// endpoint.
type Action string

const (
	// ActionStar toggles the starred flag.
	ActionStar    Action = "star"
	ActionArchive Action = "archive"
	ActionTrash   Action = "trash"
	ActionRestore Action = "restore"
	ActionSpam    Action = "spam"

	// ActionTag adds the tags carried in the action value. It is sent to the
	// tags endpoint rather than the generic action endpoint.
	ActionTag Action = "tag"
)

// actionAliases maps alternate names onto canonical actions.
var actionAliases = map[string]Action{
	"report_spam": ActionSpam,
	"tags":        ActionTag,
}

// ParseAction resolves an action name, accepting aliases.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionStar, ActionArchive, ActionTrash, ActionRestore, ActionSpam, ActionTag:
		return a, nil
	}
	if a, ok := actionAliases[s]; ok {
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}
