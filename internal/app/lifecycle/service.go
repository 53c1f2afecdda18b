package lifecycle

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/preston-bernstein/league-service/internal/app"
	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/domain/players"
	"github.com/preston-bernstein/league-service/internal/logging"
	"github.com/preston-bernstein/league-service/internal/markers"
	"github.com/preston-bernstein/league-service/internal/notify"
)

// FollowUpReopen is the follow-up action carried by intermediate decision posts.
const FollowUpReopen = "reopen"

// Service runs application intake and admin decisions.
type Service struct {
	app.Deps
	gateway   markers.Gateway
	planner   markers.Planner
	sink      notify.Sink
	retention time.Duration
}

// NewService constructs a lifecycle service. retention is how long final
// decision posts stay visible.
func NewService(deps app.Deps, gateway markers.Gateway, planner markers.Planner, sink notify.Sink, retention time.Duration) *Service {
	return &Service{Deps: deps, gateway: gateway, planner: planner, sink: sink, retention: retention}
}

// SubmitRequest is an application form submission.
type SubmitRequest struct {
	PlayerID    string            `json:"playerId"`
	DisplayName string            `json:"displayName"`
	Role        string            `json:"role"`
	Answers     map[string]string `json:"answers"`
}

// SubmitResult reports the stored application.
type SubmitResult struct {
	Failure  domain.Failure   `json:"failure,omitempty"`
	Missing  []string         `json:"missing,omitempty"`
	PlayerID string           `json:"playerId"`
	Role     players.Role     `json:"role,omitempty"`
	Standing players.Standing `json:"standing,omitempty"`
	Updated  bool             `json:"updated"`
	Markers  []string         `json:"markers,omitempty"`
}

// Submit stores an application. A repeated submission overwrites the earlier
// answers and restarts the lifecycle while keeping race and penalty history.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (SubmitResult, error) {
	start := time.Now()
	res := SubmitResult{PlayerID: req.PlayerID}

	role, ok := players.ParseRole(req.Role)
	if !ok || strings.TrimSpace(req.PlayerID) == "" {
		res.Failure = domain.InvalidInput
		s.Observe(ctx, "submitApplication", start, res.Failure, nil, logging.FieldPlayerID, req.PlayerID)
		return res, nil
	}
	res.Role = role

	answers := normalizeAnswers(req.Answers)
	if missing := players.MissingAnswers(role, answers); len(missing) > 0 {
		res.Failure = domain.MissingAnswers
		res.Missing = missing
		s.Observe(ctx, "submitApplication", start, res.Failure, nil, logging.FieldPlayerID, req.PlayerID)
		return res, nil
	}

	err := s.Records.Update(ctx, func(doc *domain.Document) bool {
		now := s.Clock()
		if p, exists := doc.Player(req.PlayerID); exists {
			p.DisplayName = req.DisplayName
			p.Role = role
			p.Standing = players.StandingApplicant
			p.Answers = answers
			p.LastActivity = now
			res.Updated = true
		} else {
			doc.Players[req.PlayerID] = players.New(req.PlayerID, req.DisplayName, role, answers, now)
		}
		res.Standing = players.StandingApplicant
		return true
	})
	if err == nil {
		res.Markers = s.applyMarkers(ctx, req.PlayerID, func(current []string) []string {
			return s.planner.Submission(current, role)
		})
		s.announceSubmission(ctx, req, role, answers, res.Updated)
	}
	s.Observe(ctx, "submitApplication", start, "", err, logging.FieldPlayerID, req.PlayerID)
	return res, err
}

// TransitionRequest is an admin decision.
type TransitionRequest struct {
	PlayerID string `json:"playerId"`
	Action   string `json:"action"`
	Actor    string `json:"actor"`
	Reason   string `json:"reason,omitempty"`
}

// TransitionResult reports the lifecycle move.
type TransitionResult struct {
	Failure  domain.Failure   `json:"failure,omitempty"`
	PlayerID string           `json:"playerId"`
	Role     players.Role     `json:"role,omitempty"`
	From     players.Standing `json:"from,omitempty"`
	To       players.Standing `json:"to,omitempty"`
	Markers  []string         `json:"markers,omitempty"`
}

// Transition applies an admin action to an application.
func (s *Service) Transition(ctx context.Context, req TransitionRequest) (TransitionResult, error) {
	start := time.Now()
	res := TransitionResult{PlayerID: req.PlayerID}

	action, ok := ParseAction(req.Action)
	if !ok {
		res.Failure = domain.InvalidInput
		s.Observe(ctx, "transition", start, res.Failure, nil, logging.FieldPlayerID, req.PlayerID)
		return res, nil
	}

	var displayName string
	err := s.Records.Update(ctx, func(doc *domain.Document) bool {
		p, exists := doc.Player(req.PlayerID)
		if !exists {
			res.Failure = domain.ApplicantDataMissing
			return false
		}
		res.Role, res.From = p.Role, p.Standing
		if !CanApply(p.Standing, action) {
			res.Failure = domain.InvalidTransition
			return false
		}
		p.Standing = action.Target()
		res.To = p.Standing
		displayName = p.DisplayName
		return true
	})
	if err == nil && res.Failure.OK() {
		res.Markers = s.applyMarkers(ctx, req.PlayerID, func(current []string) []string {
			return s.planner.Transition(current, res.Role, res.To)
		})
		s.announceTransition(ctx, req, displayName, res)
	}
	s.Observe(ctx, "transition", start, res.Failure, err,
		logging.FieldPlayerID, req.PlayerID, "action", string(action))
	return res, err
}

// Application is the admin decision view of one applicant.
type Application struct {
	Failure     domain.Failure    `json:"failure,omitempty"`
	PlayerID    string            `json:"playerId"`
	DisplayName string            `json:"displayName,omitempty"`
	Role        players.Role      `json:"role,omitempty"`
	Standing    players.Standing  `json:"standing,omitempty"`
	Answers     map[string]string `json:"answers,omitempty"`
	Actions     []Action          `json:"actions,omitempty"`
}

// Reopen rebuilds the decision view behind a follow-up control. It fails with
// ApplicantDataMissing when the player record is gone.
func (s *Service) Reopen(ctx context.Context, playerID string) (Application, error) {
	start := time.Now()
	view := Application{PlayerID: playerID}
	err := s.Records.View(ctx, func(doc *domain.Document) {
		p, exists := doc.Player(playerID)
		if !exists {
			view.Failure = domain.ApplicantDataMissing
			return
		}
		view.DisplayName = p.DisplayName
		view.Role = p.Role
		view.Standing = p.Standing
		view.Answers = p.Clone().Answers
		view.Actions = Allowed(p.Standing)
	})
	s.Observe(ctx, "reopenApplication", start, view.Failure, err, logging.FieldPlayerID, playerID)
	return view, err
}

func (s *Service) applyMarkers(ctx context.Context, playerID string, plan func(current []string) []string) []string {
	if s.gateway == nil {
		return nil
	}
	target, err := s.gateway.Modify(ctx, playerID, plan)
	if err != nil {
		logging.Error(logging.FromContext(ctx, s.Logger), "marker update failed", err, logging.FieldPlayerID, playerID)
		return nil
	}
	return target
}

func (s *Service) announceSubmission(ctx context.Context, req SubmitRequest, role players.Role, answers map[string]string, updated bool) {
	if s.sink == nil {
		return
	}
	title := fmt.Sprintf("New %s application", role)
	if updated {
		title = fmt.Sprintf("Updated %s application", role)
	}
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]notify.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, notify.Field{Name: k, Value: answers[k]})
	}
	s.sink.Post(ctx, notify.Post{
		Channel: notify.ChannelAdmin,
		Title:   title,
		Body:    fmt.Sprintf("%s (%s) applied as %s.", label(req.DisplayName, req.PlayerID), req.PlayerID, role),
		Fields:  fields,
		FollowUp: &notify.FollowUp{
			Label:    "Review application",
			Action:   FollowUpReopen,
			PlayerID: req.PlayerID,
			Role:     string(role),
		},
	})
	s.sink.DirectMessage(ctx, req.PlayerID, fmt.Sprintf(
		"Thanks for applying as %s. The league admins will review your application.", role))
}

func (s *Service) announceTransition(ctx context.Context, req TransitionRequest, displayName string, res TransitionResult) {
	if s.sink == nil {
		return
	}
	s.sink.DirectMessage(ctx, req.PlayerID, decisionMessage(res.Role, res.To, req.Reason))

	fields := []notify.Field{
		{Name: "Player", Value: fmt.Sprintf("%s (%s)", label(displayName, req.PlayerID), req.PlayerID)},
		{Name: "Decision by", Value: label(req.Actor, "unknown")},
	}
	if reason := strings.TrimSpace(req.Reason); reason != "" {
		fields = append(fields, notify.Field{Name: "Reason", Value: reason})
	}
	post := notify.Post{
		Channel: notify.ChannelDecisions,
		Title:   fmt.Sprintf("%s application: %s", titleCase(string(res.Role)), standingLabel(res.To)),
		Body:    fmt.Sprintf("Moved from %s to %s.", standingLabel(res.From), standingLabel(res.To)),
		Fields:  fields,
	}
	if res.To.Final() {
		post.ExpiresAfter = s.retention
	} else {
		post.FollowUp = &notify.FollowUp{
			Label:    "Mark finished",
			Action:   FollowUpReopen,
			PlayerID: req.PlayerID,
			Role:     string(res.Role),
		}
	}
	s.sink.Post(ctx, post)
}

func decisionMessage(role players.Role, to players.Standing, reason string) string {
	var msg string
	switch to {
	case players.StandingApproved:
		msg = fmt.Sprintf("Your %s application was approved. Welcome to the league!", role)
	case players.StandingRejected:
		msg = fmt.Sprintf("Your %s application was not accepted this time.", role)
	case players.StandingUnderReview:
		msg = fmt.Sprintf("Your %s application is now under review.", role)
	case players.StandingUnderTesting:
		msg = fmt.Sprintf("Your %s application moved to the testing stage. An admin will contact you to arrange it.", role)
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		msg += " Comment: " + reason
	}
	return msg
}

func standingLabel(s players.Standing) string {
	return strings.ReplaceAll(string(s), "_", " ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func label(name, fallback string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return fallback
}

func normalizeAnswers(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		key := players.AnswerKey(k)
		v = strings.TrimSpace(v)
		if key == "" || v == "" {
			continue
		}
		out[key] = v
	}
	return out
}
