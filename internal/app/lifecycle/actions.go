package lifecycle

import (
	"strings"

	"github.com/preston-bernstein/league-service/internal/domain/players"
)

// Action is an admin decision on an application.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionReview  Action = "review"
	ActionTesting Action = "testing"
)

var actionAliases = map[string]Action{
	"approve":         ActionApprove,
	"accept":          ActionApprove,
	"reject":          ActionReject,
	"decline":         ActionReject,
	"review":          ActionReview,
	"move-to-review":  ActionReview,
	"under_review":    ActionReview,
	"testing":         ActionTesting,
	"test":            ActionTesting,
	"move-to-testing": ActionTesting,
	"under_testing":   ActionTesting,
}

// ParseAction maps an action name (or one of its aliases) to an Action.
func ParseAction(raw string) (Action, bool) {
	a, ok := actionAliases[strings.ToLower(strings.TrimSpace(raw))]
	return a, ok
}

// Target is the standing an action moves an application into.
func (a Action) Target() players.Standing {
	switch a {
	case ActionApprove:
		return players.StandingApproved
	case ActionReject:
		return players.StandingRejected
	case ActionReview:
		return players.StandingUnderReview
	case ActionTesting:
		return players.StandingUnderTesting
	}
	return ""
}

var transitions = map[players.Standing][]Action{
	players.StandingApplicant:    {ActionReview, ActionTesting, ActionApprove, ActionReject},
	players.StandingUnderReview:  {ActionTesting, ActionApprove, ActionReject},
	players.StandingUnderTesting: {ActionApprove, ActionReject},
}

// Allowed lists the actions available from a standing. Final standings allow none.
func Allowed(from players.Standing) []Action {
	return append([]Action(nil), transitions[from]...)
}

// CanApply reports whether a is a legal move out of from.
func CanApply(from players.Standing, a Action) bool {
	for _, allowed := range transitions[from] {
		if allowed == a {
			return true
		}
	}
	return false
}
