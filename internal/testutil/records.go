package testutil

import (
	"context"
	"testing"

	"github.com/preston-bernstein/league-service/internal/config"
	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/domain/players"
)

// Updater is the mutating half of the record store.
type Updater interface {
	Update(ctx context.Context, fn func(doc *domain.Document) bool) error
}

// Seed stores the given players, replacing any with the same id.
func Seed(t testing.TB, r Updater, list ...*players.Player) {
	t.Helper()
	err := r.Update(context.Background(), func(doc *domain.Document) bool {
		for _, p := range list {
			doc.Players[p.ID] = p
		}
		return true
	})
	if err != nil {
		t.Fatalf("seed players: %v", err)
	}
}

// MarkerNames returns the default marker names used by the league.
func MarkerNames() config.MarkerConfig {
	return config.MarkerConfig{
		Driver:               "driver",
		Steward:              "steward",
		Commentator:          "commentator",
		DriverApplicant:      "driver-applicant",
		StewardApplicant:     "steward-applicant",
		CommentatorApplicant: "commentator-applicant",
		UnderReview:          "under-review",
		UnderTesting:         "under-testing",
		Newcomer:             "newcomer",
		Banned:               "banned-driver",
	}
}
