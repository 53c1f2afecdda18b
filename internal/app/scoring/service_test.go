package scoring

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/preston-bernstein/league-service/internal/app"
	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/domain/players"
	"github.com/preston-bernstein/league-service/internal/metrics"
	"github.com/preston-bernstein/league-service/internal/store"
	"github.com/preston-bernstein/league-service/internal/testutil"
)

var standardRules = Rules{
	PointsTable:      []int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1},
	FastestLapBonus:  1,
	FastestLapMaxPos: 10,
}

func newService(t *testing.T, list ...*players.Player) (*Service, *store.Records, *metrics.Recorder) {
	t.Helper()
	records := store.NewRecords(store.NewMemoryStore(), nil)
	testutil.Seed(t, records, list...)
	rec := metrics.NewRecorder()
	deps := app.Deps{Records: records, Metrics: rec, Now: testutil.NowAt(testutil.FixedTime)}
	return NewService(deps, standardRules), records, rec
}

func elevenDrivers() ([]*players.Player, []string) {
	var list []*players.Player
	var ids []string
	for i := 0; i < 11; i++ {
		id := fmt.Sprintf("d%02d", i+1)
		list = append(list, testutil.ApprovedDriver(id, "Driver "+id))
		ids = append(ids, id)
	}
	return list, ids
}

func playerByID(t *testing.T, records *store.Records, id string) *players.Player {
	t.Helper()
	var out *players.Player
	if err := records.View(context.Background(), func(doc *domain.Document) {
		p, ok := doc.Player(id)
		if ok {
			out = p.Clone()
		}
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	return out
}

func TestRulesPoints(t *testing.T) {
	tests := []struct {
		position int
		fastest  bool
		want     int
		bonus    bool
	}{
		{1, false, 25, false},
		{1, true, 26, true},
		{10, true, 2, true},
		{11, true, 0, false},
		{0, true, 0, false},
	}
	for _, tt := range tests {
		got, bonus := standardRules.Points(tt.position, tt.fastest)
		if got != tt.want || bonus != tt.bonus {
			t.Errorf("Points(%d, %v) = %d/%v, want %d/%v", tt.position, tt.fastest, got, bonus, tt.want, tt.bonus)
		}
	}
}

func TestScoreRaceAwardsTable(t *testing.T) {
	for _, tc := range []struct {
		name        string
		fastest     int
		tenthPoints int
		lastPoints  int
	}{
		{name: "fastest lap in band", fastest: 9, tenthPoints: 2, lastPoints: 0},
		{name: "fastest lap outside band", fastest: 10, tenthPoints: 1, lastPoints: 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			list, ids := elevenDrivers()
			svc, _, rec := newService(t, list...)

			report, err := svc.ScoreRace(context.Background(), ScoreRequest{
				Race: "GP1", Finishers: ids, FastestLap: ids[tc.fastest],
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(report.Entries) != 11 || report.Duplicate {
				t.Fatalf("unexpected report %+v", report)
			}
			want := []int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1, 0}
			want[9], want[10] = tc.tenthPoints, tc.lastPoints
			for i, e := range report.Entries {
				if e.Position != i+1 || e.Points != want[i] {
					t.Fatalf("entry %d = %+v, want %d points", i, e, want[i])
				}
			}
			fastest := report.Entries[tc.fastest]
			if !fastest.FastestLap {
				t.Fatalf("expected fastest lap recorded on %+v", fastest)
			}
			if fastest.FastestLapBonus != (tc.fastest < 10) {
				t.Fatalf("bonus flag = %v for position %d", fastest.FastestLapBonus, fastest.Position)
			}
			if snap := rec.Snapshot("scoreRace"); snap.Calls != 1 {
				t.Fatalf("expected one recorded call, got %+v", snap)
			}
		})
	}
}

func TestScoreRaceSkipsOnlyUnknownAndRepeatedIDs(t *testing.T) {
	steward := testutil.ApprovedDriver("s", "Steward")
	steward.Role = players.RoleSteward
	svc, records, _ := newService(t,
		testutil.ApprovedDriver("a", "A"),
		testutil.Applicant("app", "Applicant"),
		steward,
		testutil.ApprovedDriver("idle", "Idle"),
	)

	report, err := svc.ScoreRace(context.Background(), ScoreRequest{
		Race: "GP1", Finishers: []string{"ghost", "a", "app", "s", "a"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var scored []string
	for _, e := range report.Entries {
		scored = append(scored, e.PlayerID)
	}
	if want := []string{"a", "app", "s"}; !reflect.DeepEqual(scored, want) {
		t.Fatalf("scored = %v, want %v", scored, want)
	}
	if report.Entries[0].Position != 2 || report.Entries[0].Points != 18 {
		t.Fatalf("expected positions to follow the input order, got %+v", report.Entries[0])
	}
	if want := []string{"ghost", "a"}; !reflect.DeepEqual(report.Skipped, want) {
		t.Fatalf("skipped = %v, want %v", report.Skipped, want)
	}
	if p := playerByID(t, records, "app"); p.TotalPoints != 15 || len(p.RaceHistory) != 1 || p.MissedRaces != 0 {
		t.Fatalf("expected applicant scored as a driver, got %+v", p)
	}
	if p := playerByID(t, records, "s"); p.TotalPoints != 12 || p.MissedRaces != 0 {
		t.Fatalf("expected steward scored, got %+v", p)
	}
	if p := playerByID(t, records, "idle"); p.MissedRaces != 1 {
		t.Fatalf("expected absent driver to miss the race, got %d", p.MissedRaces)
	}
}

func TestScoreRaceTwiceDoublesPoints(t *testing.T) {
	svc, records, _ := newService(t, testutil.ApprovedDriver("a", "A"))
	ctx := context.Background()
	req := ScoreRequest{Race: "GP1", Finishers: []string{"a"}}

	first, err := svc.ScoreRace(ctx, req)
	if err != nil || first.Duplicate {
		t.Fatalf("first scoring: %+v %v", first, err)
	}
	second, err := svc.ScoreRace(ctx, req)
	if err != nil {
		t.Fatalf("second scoring: %v", err)
	}
	if !second.Duplicate || second.Entries[0].TotalPoints != 50 {
		t.Fatalf("expected duplicate flagged and points doubled, got %+v", second)
	}
	p := playerByID(t, records, "a")
	if len(p.RaceHistory) != 2 || p.TotalPoints != 50 {
		t.Fatalf("expected two results totalling 50, got %+v", p)
	}
}

func TestScoreRaceMissedRaceSweep(t *testing.T) {
	absent := testutil.ApprovedDriver("absent", "Absent")
	absent.MissedRaces = 2
	present := testutil.ApprovedDriver("present", "Present")
	present.MissedRaces = 4
	steward := testutil.ApprovedDriver("steward", "Steward")
	steward.Role = players.RoleSteward

	svc, records, _ := newService(t, absent, present, steward)
	if _, err := svc.ScoreRace(context.Background(), ScoreRequest{Race: "GP2", Finishers: []string{"present"}}); err != nil {
		t.Fatalf("score: %v", err)
	}

	if got := playerByID(t, records, "present").MissedRaces; got != 0 {
		t.Fatalf("present driver missed = %d, want 0", got)
	}
	if got := playerByID(t, records, "absent").MissedRaces; got != 3 {
		t.Fatalf("absent driver missed = %d, want 3", got)
	}
	if got := playerByID(t, records, "steward").MissedRaces; got != 0 {
		t.Fatalf("non-drivers are not swept, got %d", got)
	}

	races, err := svc.Races(context.Background())
	if err != nil || len(races) != 1 || !reflect.DeepEqual(races[0].Participants, []string{"present"}) {
		t.Fatalf("unexpected race log %+v %v", races, err)
	}
}

func TestScoreRaceRejectsEmptyInput(t *testing.T) {
	svc, _, _ := newService(t)
	for _, req := range []ScoreRequest{{Race: " ", Finishers: []string{"a"}}, {Race: "GP1"}} {
		report, err := svc.ScoreRace(context.Background(), req)
		if err != nil || report.Failure != domain.InvalidInput {
			t.Fatalf("expected InvalidInput for %+v, got %q %v", req, report.Failure, err)
		}
	}
}

func TestStandingsOrderAndTieBreak(t *testing.T) {
	pending := testutil.Applicant("z", "Pending")
	svc, _, _ := newService(t,
		testutil.DriverWithResults("c", 2),
		testutil.DriverWithResults("b", 1),
		testutil.DriverWithResults("a", 2),
		testutil.DriverWithResults("d"),
		pending,
	)

	first, err := svc.Standings(context.Background())
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	var ids []string
	for _, e := range first {
		ids = append(ids, e.PlayerID)
	}
	if want := []string{"b", "a", "c", "d", "z"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("order = %v, want %v", ids, want)
	}
	if first[0].Position != 1 || first[0].TotalPoints != 25 || first[0].RacesCompleted != 1 {
		t.Fatalf("unexpected leader %+v", first[0])
	}

	for i := 0; i < 5; i++ {
		again, _ := svc.Standings(context.Background())
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("standings not stable across calls")
		}
	}
}

func TestQualifying(t *testing.T) {
	svc, _, _ := newService(t, testutil.ApprovedDriver("a", "A"))
	ctx := context.Background()

	res, err := svc.Qualifying(ctx, QualifyingRequest{PlayerID: "a", Race: "GP1", Position: 1})
	if err != nil || !res.IsPole || res.TotalPoles != 1 {
		t.Fatalf("unexpected pole result %+v %v", res, err)
	}
	res, _ = svc.Qualifying(ctx, QualifyingRequest{PlayerID: "a", Race: "GP2", Position: 3})
	if res.IsPole || res.TotalPoles != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res, _ = svc.Qualifying(ctx, QualifyingRequest{PlayerID: "a", Position: 0}); res.Failure != domain.InvalidInput {
		t.Fatalf("expected InvalidInput, got %q", res.Failure)
	}
	if res, _ = svc.Qualifying(ctx, QualifyingRequest{PlayerID: "ghost", Position: 1}); res.Failure != domain.PlayerNotFound {
		t.Fatalf("expected PlayerNotFound, got %q", res.Failure)
	}

	history, err := svc.QualifyingHistory(ctx, "a")
	if err != nil || len(history.Sessions) != 2 || history.Poles != 1 {
		t.Fatalf("unexpected qualifying history %+v %v", history, err)
	}
}

func TestDriverStats(t *testing.T) {
	steward := testutil.ApprovedDriver("s", "Steward")
	steward.Role = players.RoleSteward
	svc, _, _ := newService(t, testutil.DriverWithResults("a", 3, 1, 5), testutil.ApprovedDriver("rookie", "Rookie"), steward)
	ctx := context.Background()

	res, err := svc.DriverStats(ctx, "a")
	if err != nil || !res.Failure.OK() {
		t.Fatalf("stats: %+v %v", res, err)
	}
	if res.Stats.Races != 3 || res.Stats.Wins != 1 || res.Stats.Podiums != 2 || res.Stats.BestFinish != 1 || res.Stats.AveragePosition != 3 {
		t.Fatalf("unexpected stats %+v", res.Stats)
	}

	res, _ = svc.DriverStats(ctx, "rookie")
	if res.Stats.HasFinish || res.Stats.AveragePosition != 0 || res.Stats.BestFinish != 0 {
		t.Fatalf("expected empty-history defaults, got %+v", res.Stats)
	}
	if res, _ = svc.DriverStats(ctx, "s"); res.Failure != domain.NotADriver {
		t.Fatalf("expected NotADriver, got %q", res.Failure)
	}
	if res, _ = svc.DriverStats(ctx, "ghost"); res.Failure != domain.PlayerNotFound {
		t.Fatalf("expected PlayerNotFound, got %q", res.Failure)
	}

	history, _ := svc.RaceHistory(ctx, "a")
	if len(history.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(history.Results))
	}
	if history, _ = svc.RaceHistory(ctx, "ghost"); history.Failure != domain.PlayerNotFound {
		t.Fatalf("expected PlayerNotFound, got %q", history.Failure)
	}
}
