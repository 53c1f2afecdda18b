package halloffame

import (
	"context"
	"testing"

	"github.com/preston-bernstein/league-service/internal/app"
	"github.com/preston-bernstein/league-service/internal/store"
	"github.com/preston-bernstein/league-service/internal/testutil"
)

func TestRecomputePersists(t *testing.T) {
	records := store.NewRecords(store.NewMemoryStore(), nil)
	winner := testutil.DriverWithResults("b", 1, 1, 2)
	winner.Poles = 2
	testutil.Seed(t, records, winner, testutil.DriverWithResults("a", 2, 1), testutil.ApprovedDriver("c", "C"))
	svc := NewService(app.Deps{Records: records, Now: testutil.NowAt(testutil.FixedTime)})
	ctx := context.Background()

	before, err := svc.Stored(ctx)
	if err != nil || before.MostWins != nil {
		t.Fatalf("expected empty stored records, got %+v %v", before, err)
	}

	got, err := svc.Recompute(ctx)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if got.MostWins == nil || got.MostWins.PlayerID != "b" || got.MostWins.Value != 2 {
		t.Fatalf("unexpected most wins %+v", got.MostWins)
	}
	if got.MostPodiums == nil || got.MostPodiums.PlayerID != "b" || got.MostPodiums.Value != 3 {
		t.Fatalf("unexpected most podiums %+v", got.MostPodiums)
	}
	if got.MostPoles == nil || got.MostPoles.Value != 2 || got.MostFastestLaps != nil {
		t.Fatalf("unexpected poles/fastest laps %+v %+v", got.MostPoles, got.MostFastestLaps)
	}
	if !got.UpdatedAt.Equal(testutil.FixedTime) {
		t.Fatalf("expected clock timestamp, got %v", got.UpdatedAt)
	}

	stored, err := svc.Stored(ctx)
	if err != nil || stored.HighestPoints == nil || stored.HighestPoints.PlayerID != "b" || stored.HighestPoints.Value != 68 {
		t.Fatalf("expected persisted records, got %+v %v", stored.HighestPoints, err)
	}
}
