package listview

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Action is a bulk operation offered by a screen.
type Action string

const (
	ActionAssignSponsors Action = "assign-sponsors"
	ActionUpdateDueDate  Action = "update-due-date"
	ActionSendReminders  Action = "send-reminders"
	ActionDelete         Action = "delete"
	ActionActivate       Action = "activate"
	ActionSuspend        Action = "suspend"
	ActionExport         Action = "export"
)

var (
	// ErrEmptySelection is returned when a bulk action is dispatched with nothing selected.
	ErrEmptySelection = errors.New("no records selected")
	// ErrUnsupportedAction is returned when a screen does not offer the action.
	ErrUnsupportedAction = errors.New("action not supported by this screen")
)

// AllActions returns every known action.
func AllActions() []Action {
	return []Action{
		ActionAssignSponsors,
		ActionUpdateDueDate,
		ActionSendReminders,
		ActionDelete,
		ActionActivate,
		ActionSuspend,
		ActionExport,
	}
}

// ParseAction parses an action name, case-insensitive. Underscores are
// accepted in place of dashes.
func ParseAction(s string) (Action, error) {
	name := Action(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	for _, a := range AllActions() {
		if a == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("invalid action: %q", s)
}

// String returns the action name.
func (a Action) String() string {
	return string(a)
}

// Effect performs the side effect of a bulk action on the selected ids.
type Effect[K comparable] func(ctx context.Context, action Action, ids []K) error
