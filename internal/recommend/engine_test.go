// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package recommend

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/conventus/internal/models"
	"github.com/tomtom215/conventus/internal/schedule"
)

func testEngine(t *testing.T, cfg *Config) *Engine {
	t.Helper()

	e, err := NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

// ts parses a naive timestamp the way the dataset loader does.
func ts(t *testing.T, s string) time.Time {
	t.Helper()

	parsed, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return parsed
}

func activity(t *testing.T, id, name, start, end string, price, distance *float64) models.Activity {
	t.Helper()

	return models.Activity{
		ID:   id,
		Name: name,
		Slot: schedule.Interval{
			Start: ts(t, start),
			End:   ts(t, end),
		},
		RawStart:   start,
		RawEnd:     end,
		PriceEUR:   price,
		DistanceKM: distance,
	}
}

func fptr(v float64) *float64 { return &v }

func TestNewEngine(t *testing.T) {
	t.Parallel()

	t.Run("nil config uses defaults", func(t *testing.T) {
		t.Parallel()

		e, err := NewEngine(nil, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine(nil) error = %v", err)
		}
		if got := e.GetConfig().Limits.MaxTopN; got != DefaultConfig().Limits.MaxTopN {
			t.Errorf("MaxTopN = %d, want default %d", got, DefaultConfig().Limits.MaxTopN)
		}
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.Workers = -1
		if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
			t.Error("NewEngine() with negative workers should fail")
		}
	})
}

func TestComputeNilDataset(t *testing.T) {
	t.Parallel()

	e := testEngine(t, nil)
	if _, err := e.Compute(context.Background(), nil); err != ErrNilDataset {
		t.Errorf("Compute(nil) error = %v, want ErrNilDataset", err)
	}
}

func TestComputeCanonicalScenario(t *testing.T) {
	t.Parallel()

	// Two members free all week, one Friday evening activity of two and
	// a half hours, 2 km away, 20 EUR. Every component lands on a round
	// number: slot 3.5+1.6+2.5+1.0, activity 4.8+4.0.
	ds := &models.Dataset{
		Users: []models.User{
			{ID: "alice"},
			{ID: "bob"},
		},
		Groups: []models.Group{
			{ID: "crew", Members: []string{"alice", "bob"}},
		},
		Activities: []models.Activity{
			activity(t, "act-1", "Bowling", "2026-03-06T19:00:00", "2026-03-06T21:30:00", fptr(20), fptr(2)),
		},
	}

	e := testEngine(t, nil)
	result, err := e.Compute(context.Background(), ds)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	recs := result.Recommendations["crew"]
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}

	rec := recs[0]
	if rec.SlotScore != 8.6 {
		t.Errorf("SlotScore = %v, want 8.6", rec.SlotScore)
	}
	if rec.ActivityScore != 8.8 {
		t.Errorf("ActivityScore = %v, want 8.8", rec.ActivityScore)
	}
	if rec.TotalScore != 17.4 {
		t.Errorf("TotalScore = %v, want 17.4", rec.TotalScore)
	}
	if rec.SlotStart != "2026-03-06T19:00:00" || rec.SlotEnd != "2026-03-06T21:30:00" {
		t.Errorf("slot passthrough = %q..%q, want original text", rec.SlotStart, rec.SlotEnd)
	}
	if rec.GroupID != "crew" || rec.ActivityID != "act-1" || rec.ActivityName != "Bowling" {
		t.Errorf("identity fields = %q/%q/%q", rec.GroupID, rec.ActivityID, rec.ActivityName)
	}
	if rec.Location != nil {
		t.Errorf("Location = %v, want nil passthrough", *rec.Location)
	}

	if result.PairsEvaluated != 1 || result.GateRejections != 0 || result.RecommendationCount != 1 {
		t.Errorf("counters = %d/%d/%d, want 1/0/1",
			result.PairsEvaluated, result.GateRejections, result.RecommendationCount)
	}
}

func TestComputeExactTwoHourSlot(t *testing.T) {
	t.Parallel()

	// Exactly two hours must stay in the lower duration band (score 3,
	// not 5): slot 3.5+1.6+2.5+0.6 = 8.2, total 17.0.
	ds := &models.Dataset{
		Users: []models.User{{ID: "alice"}, {ID: "bob"}},
		Groups: []models.Group{
			{ID: "crew", Members: []string{"alice", "bob"}},
		},
		Activities: []models.Activity{
			activity(t, "act-1", "Bowling", "2026-03-06T19:00:00", "2026-03-06T21:00:00", fptr(20), fptr(2)),
		},
	}

	e := testEngine(t, nil)
	result, err := e.Compute(context.Background(), ds)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	rec := result.Recommendations["crew"][0]
	if rec.SlotScore != 8.2 {
		t.Errorf("SlotScore = %v, want 8.2", rec.SlotScore)
	}
	if rec.TotalScore != 17.0 {
		t.Errorf("TotalScore = %v, want 17.0", rec.TotalScore)
	}
}

func TestAvailabilityGate(t *testing.T) {
	t.Parallel()

	slotStart := "2026-03-06T19:00:00"
	slotEnd := "2026-03-06T21:00:00"

	tests := []struct {
		name     string
		busyBob  []schedule.Interval
		wantRecs int
	}{
		{
			name:     "all members free",
			busyBob:  nil,
			wantRecs: 1,
		},
		{
			name: "one member busy blocks the pair",
			busyBob: []schedule.Interval{
				{Start: ts(t, "2026-03-06T20:00:00"), End: ts(t, "2026-03-06T20:30:00")},
			},
			wantRecs: 0,
		},
		{
			name: "busy block exactly covering the slot blocks the pair",
			busyBob: []schedule.Interval{
				{Start: ts(t, slotStart), End: ts(t, slotEnd)},
			},
			wantRecs: 0,
		},
		{
			name: "busy block touching the slot start does not block",
			busyBob: []schedule.Interval{
				{Start: ts(t, "2026-03-06T17:00:00"), End: ts(t, slotStart)},
			},
			wantRecs: 1,
		},
		{
			name: "busy block touching the slot end does not block",
			busyBob: []schedule.Interval{
				{Start: ts(t, slotEnd), End: ts(t, "2026-03-06T23:00:00")},
			},
			wantRecs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ds := &models.Dataset{
				Users: []models.User{
					{ID: "alice"},
					{ID: "bob", Busy: tt.busyBob},
				},
				Groups: []models.Group{
					{ID: "crew", Members: []string{"alice", "bob"}},
				},
				Activities: []models.Activity{
					activity(t, "act-1", "Bowling", slotStart, slotEnd, nil, nil),
				},
			}

			e := testEngine(t, nil)
			result, err := e.Compute(context.Background(), ds)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}

			if got := len(result.Recommendations["crew"]); got != tt.wantRecs {
				t.Errorf("got %d recommendations, want %d", got, tt.wantRecs)
			}
		})
	}
}

func TestUnknownMembersDropped(t *testing.T) {
	t.Parallel()

	// ghost resolves to nobody: the group behaves as a one-member group
	// and alice alone decides availability.
	ds := &models.Dataset{
		Users: []models.User{{ID: "alice"}},
		Groups: []models.Group{
			{ID: "crew", Members: []string{"alice", "ghost"}},
		},
		Activities: []models.Activity{
			activity(t, "act-1", "Bowling", "2026-03-06T19:00:00", "2026-03-06T21:00:00", nil, nil),
		},
	}

	e := testEngine(t, nil)
	result, err := e.Compute(context.Background(), ds)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if got := len(result.Recommendations["crew"]); got != 1 {
		t.Fatalf("got %d recommendations, want 1", got)
	}
}

func TestZeroMemberGroupPassesGate(t *testing.T) {
	t.Parallel()

	// A group whose members all fail to resolve still passes the
	// all-free gate (zero of zero) and is scored without group fit:
	// 3.5 + 1.6 + 0 + 0.6 = 5.7 on a Friday evening two-hour slot.
	ds := &models.Dataset{
		Users: []models.User{{ID: "alice"}},
		Groups: []models.Group{
			{ID: "ghosts", Members: []string{"nobody", "missing"}},
		},
		Activities: []models.Activity{
			activity(t, "act-1", "Bowling", "2026-03-06T19:00:00", "2026-03-06T21:00:00", fptr(20), fptr(2)),
		},
	}

	e := testEngine(t, nil)
	result, err := e.Compute(context.Background(), ds)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	recs := result.Recommendations["ghosts"]
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	if recs[0].SlotScore != 5.7 {
		t.Errorf("SlotScore = %v, want 5.7 (no group-fit contribution)", recs[0].SlotScore)
	}
}

func TestRankingStableDescending(t *testing.T) {
	t.Parallel()

	// Same Friday slot, so identical slot scores; activity attributes
	// differentiate. twin-a and twin-b share every score and must keep
	// input order.
	ds := &models.Dataset{
		Users: []models.User{{ID: "alice"}},
		Groups: []models.Group{
			{ID: "crew", Members: []string{"alice"}},
		},
		Activities: []models.Activity{
			activity(t, "far", "Far Museum", "2026-03-06T19:00:00", "2026-03-06T21:00:00", fptr(20), fptr(25)),
			activity(t, "twin-a", "First Twin", "2026-03-06T19:00:00", "2026-03-06T21:00:00", fptr(20), fptr(2)),
			activity(t, "twin-b", "Second Twin", "2026-03-06T19:00:00", "2026-03-06T21:00:00", fptr(20), fptr(2)),
			activity(t, "near", "Corner Cafe", "2026-03-06T19:00:00", "2026-03-06T21:00:00", fptr(5), fptr(1)),
		},
	}

	e := testEngine(t, nil)
	result, err := e.Compute(context.Background(), ds)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	recs := result.Recommendations["crew"]
	if len(recs) != 4 {
		t.Fatalf("got %d recommendations, want 4", len(recs))
	}

	wantOrder := []string{"near", "twin-a", "twin-b", "far"}
	for i, want := range wantOrder {
		if recs[i].ActivityID != want {
			t.Errorf("rank %d = %s, want %s", i, recs[i].ActivityID, want)
		}
	}

	for i := 1; i < len(recs); i++ {
		if recs[i].TotalScore > recs[i-1].TotalScore {
			t.Errorf("totals not descending at rank %d: %v > %v",
				i, recs[i].TotalScore, recs[i-1].TotalScore)
		}
	}
}

func TestComputeDeterministicAcrossWorkerCounts(t *testing.T) {
	t.Parallel()

	users := make([]models.User, 0, 20)
	for _, id := range []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7", "u8", "u9", "u10"} {
		users = append(users, models.User{ID: id})
	}

	groups := []models.Group{
		{ID: "g1", Members: []string{"u1", "u2"}},
		{ID: "g2", Members: []string{"u3", "u4", "u5"}},
		{ID: "g3", Members: []string{"u6"}},
		{ID: "g4", Members: []string{"u7", "u8", "u9", "u10"}},
		{ID: "g5", Members: []string{"u1", "u10"}},
	}

	activities := []models.Activity{
		activity(t, "a1", "Padel", "2026-03-02T18:00:00", "2026-03-02T20:00:00", fptr(15), fptr(3)),
		activity(t, "a2", "Cinema", "2026-03-05T20:00:00", "2026-03-05T22:30:00", fptr(12), fptr(7)),
		activity(t, "a3", "Hike", "2026-03-07T09:00:00", "2026-03-07T14:00:00", nil, fptr(12)),
		activity(t, "a4", "Dinner", "2026-03-06T19:30:00", "2026-03-06T22:00:00", fptr(45), fptr(1)),
		activity(t, "a5", "Brunch", "2026-03-08T11:00:00", "2026-03-08T13:00:00", fptr(25), nil),
	}

	compute := func(workers int) *RunResult {
		cfg := DefaultConfig()
		cfg.Workers = workers
		cfg.Cache.Enabled = false

		e := testEngine(t, cfg)
		result, err := e.Compute(context.Background(), &models.Dataset{
			Users: users, Groups: groups, Activities: activities,
		})
		if err != nil {
			t.Fatalf("Compute(workers=%d) error = %v", workers, err)
		}
		return result
	}

	sequential := compute(1)
	parallel := compute(8)

	if !reflect.DeepEqual(sequential.Recommendations, parallel.Recommendations) {
		t.Error("parallel evaluation changed the recommendations")
	}
	if !reflect.DeepEqual(sequential.GroupOrder, parallel.GroupOrder) {
		t.Errorf("GroupOrder differs: %v vs %v", sequential.GroupOrder, parallel.GroupOrder)
	}
}

func TestComputeCacheByRevision(t *testing.T) {
	t.Parallel()

	ds := &models.Dataset{
		Revision: 7,
		Users:    []models.User{{ID: "alice"}},
		Groups:   []models.Group{{ID: "crew", Members: []string{"alice"}}},
		Activities: []models.Activity{
			activity(t, "act-1", "Bowling", "2026-03-06T19:00:00", "2026-03-06T21:00:00", nil, nil),
		},
	}

	e := testEngine(t, nil)

	first, err := e.Compute(context.Background(), ds)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if first.CacheHit {
		t.Error("first run should not be a cache hit")
	}

	second, err := e.Compute(context.Background(), ds)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if !second.CacheHit {
		t.Error("second run should be a cache hit")
	}
	if second.RunID != first.RunID {
		t.Error("cached run should keep the original run id")
	}

	stats := e.GetStats()
	if stats.CacheHits != 1 || stats.CacheMisses != 1 {
		t.Errorf("stats = %d hits / %d misses, want 1/1", stats.CacheHits, stats.CacheMisses)
	}

	e.InvalidateRevision(ds.Revision)
	third, err := e.Compute(context.Background(), ds)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if third.CacheHit {
		t.Error("run after invalidation should not be a cache hit")
	}

	// Dropping an unrelated revision leaves this one's entry alone.
	e.InvalidateRevision(ds.Revision + 1)
	fourth, err := e.Compute(context.Background(), ds)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if !fourth.CacheHit {
		t.Error("invalidating another revision evicted this one")
	}
}

func TestComputeAdHocDatasetBypassesCache(t *testing.T) {
	t.Parallel()

	ds := &models.Dataset{
		Users:  []models.User{{ID: "alice"}},
		Groups: []models.Group{{ID: "crew", Members: []string{"alice"}}},
		Activities: []models.Activity{
			activity(t, "act-1", "Bowling", "2026-03-06T19:00:00", "2026-03-06T21:00:00", nil, nil),
		},
	}

	e := testEngine(t, nil)
	for i := 0; i < 2; i++ {
		result, err := e.Compute(context.Background(), ds)
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		if result.CacheHit {
			t.Error("revision zero must never hit the cache")
		}
	}
}

func TestComputeContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ds := &models.Dataset{
		Groups: []models.Group{{ID: "crew"}},
	}

	e := testEngine(t, nil)
	if _, err := e.Compute(ctx, ds); err == nil {
		t.Error("Compute() with cancelled context should fail")
	}
}

func TestComputeEmptyCollections(t *testing.T) {
	t.Parallel()

	t.Run("no groups", func(t *testing.T) {
		t.Parallel()

		e := testEngine(t, nil)
		result, err := e.Compute(context.Background(), &models.Dataset{
			Users: []models.User{{ID: "alice"}},
			Activities: []models.Activity{
				activity(t, "act-1", "Bowling", "2026-03-06T19:00:00", "2026-03-06T21:00:00", nil, nil),
			},
		})
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		if len(result.Recommendations) != 0 {
			t.Errorf("got %d group entries, want 0", len(result.Recommendations))
		}
	})

	t.Run("no activities", func(t *testing.T) {
		t.Parallel()

		e := testEngine(t, nil)
		result, err := e.Compute(context.Background(), &models.Dataset{
			Users:  []models.User{{ID: "alice"}},
			Groups: []models.Group{{ID: "crew", Members: []string{"alice"}}},
		})
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		recs, ok := result.Recommendations["crew"]
		if !ok {
			t.Fatal("group with no candidates should still appear in the result")
		}
		if len(recs) != 0 {
			t.Errorf("got %d recommendations, want 0", len(recs))
		}
	})
}

func TestTopN(t *testing.T) {
	t.Parallel()

	ds := &models.Dataset{
		Users:  []models.User{{ID: "alice"}},
		Groups: []models.Group{{ID: "crew", Members: []string{"alice"}}},
		Activities: []models.Activity{
			activity(t, "a1", "One", "2026-03-06T19:00:00", "2026-03-06T21:00:00", fptr(5), fptr(1)),
			activity(t, "a2", "Two", "2026-03-06T19:00:00", "2026-03-06T21:00:00", fptr(20), fptr(2)),
			activity(t, "a3", "Three", "2026-03-06T19:00:00", "2026-03-06T21:00:00", fptr(60), fptr(25)),
		},
	}

	e := testEngine(t, nil)
	result, err := e.Compute(context.Background(), ds)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	trimmed := TopN(result, 2)
	if got := len(trimmed.Recommendations["crew"]); got != 2 {
		t.Errorf("trimmed list has %d entries, want 2", got)
	}
	if trimmed.RecommendationCount != 2 {
		t.Errorf("RecommendationCount = %d, want 2", trimmed.RecommendationCount)
	}
	if got := len(result.Recommendations["crew"]); got != 3 {
		t.Errorf("TopN mutated its input: %d entries, want 3", got)
	}

	if same := TopN(result, 0); same != result {
		t.Error("TopN(0) should return the input unchanged")
	}
}

func TestClampTopN(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Limits.DefaultTopN = 3
	cfg.Limits.MaxTopN = 10

	e := testEngine(t, cfg)

	tests := []struct {
		in   int
		want int
	}{
		{0, 3},
		{-5, 3},
		{5, 5},
		{10, 10},
		{99, 10},
	}

	for _, tt := range tests {
		if got := e.ClampTopN(tt.in); got != tt.want {
			t.Errorf("ClampTopN(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
