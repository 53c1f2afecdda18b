package adjudication

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/league-service/internal/app"
	"github.com/preston-bernstein/league-service/internal/app/penalties"
	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/domain/incidents"
	"github.com/preston-bernstein/league-service/internal/logging"
	"github.com/preston-bernstein/league-service/internal/notify"
)

// FollowUpDecide is the follow-up action on a fresh incident post.
const FollowUpDecide = "decide"

// Service records incident reports and steward verdicts.
type Service struct {
	app.Deps
	penalties *penalties.Service
	sink      notify.Sink
	newRef    func() string
}

// NewService constructs an adjudication service. Penalties from verdicts go
// through ledger so the ban policy applies.
func NewService(deps app.Deps, ledger *penalties.Service, sink notify.Sink) *Service {
	return &Service{Deps: deps, penalties: ledger, sink: sink, newRef: uuid.NewString}
}

// ReportRequest is a steward-review request.
type ReportRequest struct {
	ReporterID  string `json:"reporterId"`
	Drivers     string `json:"drivers"`
	Session     string `json:"session"`
	Description string `json:"description"`
	Evidence    string `json:"evidence,omitempty"`
}

// IncidentResult wraps an incident with a failure reason.
type IncidentResult struct {
	Failure  domain.Failure     `json:"failure,omitempty"`
	Incident incidents.Incident `json:"incident"`
}

// Report stores a new incident and posts it to the incidents channel.
func (s *Service) Report(ctx context.Context, req ReportRequest) (IncidentResult, error) {
	start := time.Now()
	var res IncidentResult
	if strings.TrimSpace(req.Description) == "" || strings.TrimSpace(req.ReporterID) == "" {
		res.Failure = domain.InvalidInput
		s.Observe(ctx, "reportIncident", start, res.Failure, nil)
		return res, nil
	}
	incident := incidents.Incident{
		Ref:         s.newRef(),
		ReporterID:  req.ReporterID,
		Drivers:     strings.TrimSpace(req.Drivers),
		Session:     strings.TrimSpace(req.Session),
		Description: strings.TrimSpace(req.Description),
		Evidence:    strings.TrimSpace(req.Evidence),
	}
	err := s.Records.Update(ctx, func(doc *domain.Document) bool {
		incident.ReportedAt = s.Clock()
		doc.Incidents[incident.Ref] = incident
		return true
	})
	if err == nil {
		res.Incident = incident
		s.announceReport(ctx, incident)
	}
	s.Observe(ctx, "reportIncident", start, "", err, logging.FieldIncident, incident.Ref)
	return res, err
}

// DecideRequest is a steward verdict. PenalizedID and Points are optional.
type DecideRequest struct {
	Ref         string `json:"ref"`
	Actor       string `json:"actor"`
	Verdict     string `json:"verdict"`
	Reasoning   string `json:"reasoning"`
	PenalizedID string `json:"penalizedId,omitempty"`
	Points      int    `json:"points,omitempty"`
}

// DecideResult reports the verdict and any penalty it carried.
type DecideResult struct {
	Failure  domain.Failure       `json:"failure,omitempty"`
	Incident incidents.Incident   `json:"incident"`
	Penalty  *penalties.AddResult `json:"penalty,omitempty"`
}

// Decide records a verdict. The penalty is appended in the same store unit as
// the verdict; a verdict for an unknown driver is declined as a whole.
func (s *Service) Decide(ctx context.Context, req DecideRequest) (DecideResult, error) {
	start := time.Now()
	var res DecideResult
	if strings.TrimSpace(req.Verdict) == "" || (req.Points != 0 && req.PenalizedID == "") {
		res.Failure = domain.InvalidInput
		s.Observe(ctx, "decideIncident", start, res.Failure, nil, logging.FieldIncident, req.Ref)
		return res, nil
	}

	var displayName string
	err := s.Records.Update(ctx, func(doc *domain.Document) bool {
		incident, ok := doc.Incidents[req.Ref]
		if !ok {
			res.Failure = domain.IncidentNotFound
			return false
		}
		if incident.Decided() {
			res.Failure = domain.InvalidTransition
			res.Incident = incident
			return false
		}
		now := s.Clock()
		if req.PenalizedID != "" && req.Points != 0 {
			added := s.penalties.Apply(doc, penalties.AddRequest{
				PlayerID:    req.PenalizedID,
				Points:      req.Points,
				Reason:      strings.TrimSpace(req.Verdict + ": " + req.Reasoning),
				IncidentRef: req.Ref,
			}, now)
			if !added.Failure.OK() {
				res.Failure = added.Failure
				return false
			}
			res.Penalty = &added
			if p, ok := doc.Player(req.PenalizedID); ok {
				displayName = p.DisplayName
			}
		}
		incident.Decision = &incidents.Decision{
			Actor:       req.Actor,
			Verdict:     strings.TrimSpace(req.Verdict),
			Reasoning:   strings.TrimSpace(req.Reasoning),
			PenalizedID: req.PenalizedID,
			Points:      req.Points,
			DecidedAt:   now,
		}
		doc.Incidents[req.Ref] = incident
		res.Incident = incident
		return true
	})
	if err == nil && res.Failure.OK() {
		if res.Penalty != nil {
			res.Penalty.Banned = s.penalties.Enforce(ctx, displayName, req.Points, *res.Penalty)
		}
		s.announceDecision(ctx, res)
	}
	s.Observe(ctx, "decideIncident", start, res.Failure, err,
		logging.FieldIncident, req.Ref, logging.FieldPlayerID, req.PenalizedID)
	return res, err
}

// Get returns one incident.
func (s *Service) Get(ctx context.Context, ref string) (IncidentResult, error) {
	var res IncidentResult
	err := s.Records.View(ctx, func(doc *domain.Document) {
		incident, ok := doc.Incidents[ref]
		if !ok {
			res.Failure = domain.IncidentNotFound
			return
		}
		res.Incident = incident
	})
	return res, err
}

// List returns incidents oldest first; openOnly drops decided ones.
func (s *Service) List(ctx context.Context, openOnly bool) ([]incidents.Incident, error) {
	out := []incidents.Incident{}
	err := s.Records.View(ctx, func(doc *domain.Document) {
		for _, incident := range doc.Incidents {
			if openOnly && incident.Decided() {
				continue
			}
			out = append(out, incident)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReportedAt.Equal(out[j].ReportedAt) {
			return out[i].ReportedAt.Before(out[j].ReportedAt)
		}
		return out[i].Ref < out[j].Ref
	})
	return out, err
}

func (s *Service) announceReport(ctx context.Context, incident incidents.Incident) {
	if s.sink == nil {
		return
	}
	fields := []notify.Field{
		{Name: "Reported by", Value: incident.ReporterID},
		{Name: "Drivers", Value: incident.Drivers},
		{Name: "Session", Value: incident.Session},
	}
	if incident.Evidence != "" {
		fields = append(fields, notify.Field{Name: "Evidence", Value: incident.Evidence})
	}
	s.sink.Post(ctx, notify.Post{
		Channel:  notify.ChannelIncidents,
		Title:    "Incident " + shortRef(incident.Ref),
		Body:     incident.Description,
		Fields:   fields,
		FollowUp: &notify.FollowUp{Label: "Decide", Action: FollowUpDecide, PlayerID: incident.ReporterID},
	})
}

func (s *Service) announceDecision(ctx context.Context, res DecideResult) {
	if s.sink == nil {
		return
	}
	d := res.Incident.Decision
	fields := []notify.Field{
		{Name: "Verdict", Value: d.Verdict},
		{Name: "Decided by", Value: d.Actor},
	}
	if res.Penalty != nil {
		fields = append(fields,
			notify.Field{Name: "Penalized", Value: d.PenalizedID},
			notify.Field{Name: "Penalty points", Value: fmt.Sprintf("%d (total %d)", d.Points, res.Penalty.TotalPoints)},
		)
	}
	s.sink.Post(ctx, notify.Post{
		Channel: notify.ChannelDecisions,
		Title:   "Stewards' decision " + shortRef(res.Incident.Ref),
		Body:    d.Reasoning,
		Fields:  fields,
	})
	if res.Penalty != nil {
		s.sink.DirectMessage(ctx, d.PenalizedID, fmt.Sprintf(
			"The stewards reviewed incident %s: %s. You received %d penalty points and now have %d.",
			shortRef(res.Incident.Ref), d.Verdict, d.Points, res.Penalty.TotalPoints))
	}
}

func shortRef(ref string) string {
	if len(ref) > 8 {
		return ref[:8]
	}
	return ref
}
