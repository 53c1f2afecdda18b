package markers

import (
	"github.com/preston-bernstein/league-service/internal/config"
	"github.com/preston-bernstein/league-service/internal/domain/players"
)

// Planner computes complete target marker sets for lifecycle changes.
type Planner struct {
	cfg config.MarkerConfig
}

// NewPlanner builds a planner over the configured marker names.
func NewPlanner(cfg config.MarkerConfig) Planner {
	return Planner{cfg: cfg}
}

// Applicant returns the pending-application marker for role.
func (p Planner) Applicant(role players.Role) string {
	switch role {
	case players.RoleDriver:
		return p.cfg.DriverApplicant
	case players.RoleSteward:
		return p.cfg.StewardApplicant
	case players.RoleCommentator:
		return p.cfg.CommentatorApplicant
	}
	return ""
}

// Final returns the marker granted on approval for role.
func (p Planner) Final(role players.Role) string {
	switch role {
	case players.RoleDriver:
		return p.cfg.Driver
	case players.RoleSteward:
		return p.cfg.Steward
	case players.RoleCommentator:
		return p.cfg.Commentator
	}
	return ""
}

// Banned returns the disciplinary ban marker.
func (p Planner) Banned() string {
	return p.cfg.Banned
}

// Submission restarts the lifecycle for role: markers of other roles and of
// earlier review stages are dropped and the role's applicant marker granted.
func (p Planner) Submission(current []string, role players.Role) []string {
	remove := p.otherRoles(role)
	remove[p.cfg.UnderReview] = struct{}{}
	remove[p.cfg.UnderTesting] = struct{}{}
	return without(current, remove, p.Applicant(role))
}

// Transition returns (current minus removed) plus granted for a move into
// target. The newcomer marker is always removed. Final states clear every
// applicant and intermediate marker, and approval also clears the final
// markers of other roles; intermediate states clear the markers of earlier
// stages only.
func (p Planner) Transition(current []string, role players.Role, target players.Standing) []string {
	remove := map[string]struct{}{p.cfg.Newcomer: {}}
	var grant string

	switch target {
	case players.StandingApproved, players.StandingRejected:
		for _, r := range players.Roles {
			remove[p.Applicant(r)] = struct{}{}
		}
		remove[p.cfg.UnderReview] = struct{}{}
		remove[p.cfg.UnderTesting] = struct{}{}
		if target == players.StandingApproved {
			for m := range p.otherRoles(role) {
				remove[m] = struct{}{}
			}
			grant = p.Final(role)
		}
	case players.StandingUnderTesting:
		remove[p.Applicant(role)] = struct{}{}
		remove[p.cfg.UnderReview] = struct{}{}
		grant = p.cfg.UnderTesting
	case players.StandingUnderReview:
		remove[p.Applicant(role)] = struct{}{}
		grant = p.cfg.UnderReview
	}
	return without(current, remove, grant)
}

// otherRoles collects the applicant and final markers of every role but role.
func (p Planner) otherRoles(role players.Role) map[string]struct{} {
	out := map[string]struct{}{}
	for _, r := range players.Roles {
		if r == role {
			continue
		}
		out[p.Applicant(r)] = struct{}{}
		out[p.Final(r)] = struct{}{}
	}
	return out
}

func without(current []string, remove map[string]struct{}, grant string) []string {
	out := make([]string, 0, len(current)+1)
	for _, m := range current {
		if _, drop := remove[m]; !drop {
			out = append(out, m)
		}
	}
	if grant != "" {
		out = append(out, grant)
	}
	return Normalize(out)
}

// With returns current plus marker.
func With(current []string, marker string) []string {
	return Normalize(append(append([]string{}, current...), marker))
}
