// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/conventus/internal/models"
	"github.com/tomtom215/conventus/internal/schedule"
	"github.com/tomtom215/conventus/internal/scoring"
)

// Note: this package depends only on models, schedule and scoring.
// Dataset loading, persistence and delivery integrate through their
// own packages, never the other way around.

// ErrNilDataset is returned when Compute receives no dataset.
var ErrNilDataset = errors.New("nil dataset")

// Engine evaluates datasets into per-group recommendation rankings.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	// Result cache keyed by dataset revision.
	cache   map[uint64]cacheEntry
	cacheMu sync.RWMutex

	// Lifetime counters
	runCount    atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	errorCount  atomic.Int64
}

// cacheEntry holds a cached run result.
type cacheEntry struct {
	result    *RunResult
	expiresAt time.Time
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		cache:  make(map[uint64]cacheEntry),
	}, nil
}

// Compute evaluates one dataset and returns the ranked recommendation
// lists for every group in it.
//
// The result is deterministic: worker count never changes the output,
// only the wall time. Cached results are returned for stored dataset
// revisions still inside their TTL; ad-hoc datasets (revision zero)
// always compute fresh.
func (e *Engine) Compute(ctx context.Context, ds *models.Dataset) (*RunResult, error) {
	if ds == nil {
		return nil, ErrNilDataset
	}

	start := time.Now()
	e.runCount.Add(1)

	logger := e.logger.With().
		Uint64("revision", ds.Revision).
		Int("groups", len(ds.Groups)).
		Int("activities", len(ds.Activities)).
		Logger()

	if result := e.tryGetCachedResult(ds, start, logger); result != nil {
		return result, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.ComputeTimeout)
	defer cancel()

	evals, err := e.evaluateGroups(ctx, ds)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("evaluate groups: %w", err)
	}

	result := e.buildResult(ds, evals, start)
	e.cacheResult(ds, result)

	logger.Debug().
		Str("run_id", result.RunID).
		Int("recommendations", result.RecommendationCount).
		Int("gate_rejections", result.GateRejections).
		Int64("elapsed_ms", result.ElapsedMS).
		Msg("run complete")

	return result, nil
}

// tryGetCachedResult attempts to serve the run from cache.
func (e *Engine) tryGetCachedResult(ds *models.Dataset, start time.Time, logger zerolog.Logger) *RunResult {
	if !e.config.Cache.Enabled || ds.Revision == 0 {
		return nil
	}

	result := e.checkCache(ds.Revision)
	if result == nil {
		e.cacheMisses.Add(1)
		return nil
	}

	e.cacheHits.Add(1)
	result.CacheHit = true
	result.ElapsedMS = time.Since(start).Milliseconds()
	logger.Debug().Msg("cache hit")
	return result
}

// evaluateGroups runs the per-group evaluation on a bounded worker
// pool and returns the evaluations in dataset group order.
func (e *Engine) evaluateGroups(ctx context.Context, ds *models.Dataset) ([]groupEval, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	users := indexUsers(ds.Users)
	evals := make([]groupEval, len(ds.Groups))

	workers := e.workerCount(len(ds.Groups))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				evals[idx] = evaluateGroup(ds.Groups[idx], users, ds.Activities)
			}
		}()
	}

	var err error
feed:
	for i := range ds.Groups {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return evals, nil
}

// workerCount resolves the configured worker count against the number
// of groups. At least one worker, never more than one per group.
func (e *Engine) workerCount(groups int) int {
	workers := e.config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if groups > 0 && workers > groups {
		workers = groups
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// evaluateGroup scores every activity for one group.
//
// Unknown member ids are dropped without error; the group is simply
// considered smaller. An activity is skipped unless every resolved
// member is free for its whole slot. A group with zero resolved
// members trivially passes the gate (zero of zero are free) and is
// scored with a zero group-fit contribution.
func evaluateGroup(group models.Group, users map[string]models.User, activities []models.Activity) groupEval {
	members := resolveMembers(group, users)

	eval := groupEval{
		groupID: group.ID,
		recs:    make([]models.Recommendation, 0, len(activities)),
	}

	for _, act := range activities {
		eval.pairs++

		free := countFree(members, act.Slot)
		if free != len(members) {
			eval.gateRejections++
			continue
		}

		slotScore := scoring.SlotScore(act.Slot.Start, act.Slot.End, len(members), free)
		activityScore := scoring.ActivityScore(act.DistanceKM, act.PriceEUR)
		total := slotScore + activityScore

		eval.recs = append(eval.recs, models.Recommendation{
			GroupID:       group.ID,
			ActivityID:    act.ID,
			ActivityName:  act.Name,
			SlotStart:     act.RawStart,
			SlotEnd:       act.RawEnd,
			SlotScore:     round3(slotScore),
			ActivityScore: round3(activityScore),
			TotalScore:    round3(total),
			Location:      act.Location,
			PriceEUR:      act.PriceEUR,
			DistanceKM:    act.DistanceKM,
		})
	}

	// Stable sort keeps input activity order for equal totals. Ties
	// compare on the rounded total, the value clients see.
	sort.SliceStable(eval.recs, func(i, j int) bool {
		return eval.recs[i].TotalScore > eval.recs[j].TotalScore
	})

	return eval
}

// resolveMembers maps member ids to user records, dropping unknown ids.
func resolveMembers(group models.Group, users map[string]models.User) []models.User {
	members := make([]models.User, 0, len(group.Members))
	for _, id := range group.Members {
		if u, ok := users[id]; ok {
			members = append(members, u)
		}
	}
	return members
}

// countFree counts members free for the whole slot.
func countFree(members []models.User, slot schedule.Interval) int {
	free := 0
	for i := range members {
		if schedule.IsFree(members[i].Busy, slot) {
			free++
		}
	}
	return free
}

// indexUsers builds the id lookup table. Later duplicates win, which
// mirrors how the input document format resolves repeated ids.
func indexUsers(users []models.User) map[string]models.User {
	idx := make(map[string]models.User, len(users))
	for _, u := range users {
		idx[u.ID] = u
	}
	return idx
}

// buildResult assembles the final run result from the evaluations.
func (e *Engine) buildResult(ds *models.Dataset, evals []groupEval, start time.Time) *RunResult {
	result := &RunResult{
		RunID:           uuid.NewString(),
		DatasetRevision: ds.Revision,
		StartedAt:       start.UTC(),
		Groups:          len(ds.Groups),
		Activities:      len(ds.Activities),
		Recommendations: make(map[string][]models.Recommendation, len(evals)),
		GroupOrder:      make([]string, 0, len(evals)),
	}

	for _, ev := range evals {
		result.Recommendations[ev.groupID] = ev.recs
		result.GroupOrder = append(result.GroupOrder, ev.groupID)
		result.PairsEvaluated += ev.pairs
		result.GateRejections += ev.gateRejections
		result.RecommendationCount += len(ev.recs)
	}

	result.ElapsedMS = time.Since(start).Milliseconds()
	return result
}

// TopN returns a copy of the result with every group's list trimmed to
// its first n entries. Non-positive n returns the result unchanged.
// The input is never mutated.
func TopN(result *RunResult, n int) *RunResult {
	if result == nil || n <= 0 {
		return result
	}

	trimmed := *result
	trimmed.Recommendations = make(map[string][]models.Recommendation, len(result.Recommendations))
	trimmed.RecommendationCount = 0
	for gid, recs := range result.Recommendations {
		if len(recs) > n {
			recs = recs[:n]
		}
		trimmed.Recommendations[gid] = recs
		trimmed.RecommendationCount += len(recs)
	}
	return &trimmed
}

// ClampTopN resolves a requested listing length against the configured
// default and maximum.
func (e *Engine) ClampTopN(n int) int {
	if n <= 0 {
		n = e.config.Limits.DefaultTopN
	}
	if n > e.config.Limits.MaxTopN {
		n = e.config.Limits.MaxTopN
	}
	return n
}

// GetStats returns a snapshot of the engine's lifetime counters.
func (e *Engine) GetStats() Stats {
	return Stats{
		Runs:        e.runCount.Load(),
		CacheHits:   e.cacheHits.Load(),
		CacheMisses: e.cacheMisses.Load(),
		Errors:      e.errorCount.Load(),
	}
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// InvalidateRevision drops the cached result for one dataset revision.
// Called when that revision is deleted so the cache does not outlive
// the document it was computed from. Other revisions keep their
// entries; the cache key is the revision, so nothing else can go
// stale.
func (e *Engine) InvalidateRevision(revision uint64) {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	if _, ok := e.cache[revision]; ok {
		delete(e.cache, revision)
		e.logger.Debug().Uint64("revision", revision).Msg("cached result dropped")
	}
}

// checkCache returns a valid cached result or nil.
// Returns a copy to avoid concurrent modification of shared state.
func (e *Engine) checkCache(revision uint64) *RunResult {
	e.cacheMu.RLock()
	defer e.cacheMu.RUnlock()

	entry, ok := e.cache[revision]
	if !ok {
		return nil
	}

	if time.Now().After(entry.expiresAt) {
		return nil
	}

	return copyCachedResult(entry.result)
}

// copyCachedResult clones the mutable top level of a cached result.
// The recommendation slices themselves are shared and treated as
// read-only by every consumer.
func copyCachedResult(result *RunResult) *RunResult {
	clone := *result
	clone.Recommendations = make(map[string][]models.Recommendation, len(result.Recommendations))
	for gid, recs := range result.Recommendations {
		clone.Recommendations[gid] = recs
	}
	clone.GroupOrder = append([]string(nil), result.GroupOrder...)
	return &clone
}

// cacheResult stores the result if caching applies to this dataset.
func (e *Engine) cacheResult(ds *models.Dataset, result *RunResult) {
	if !e.config.Cache.Enabled || ds.Revision == 0 {
		return
	}

	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	if len(e.cache) >= e.config.Cache.MaxEntries {
		e.evictExpiredLocked()
	}
	if len(e.cache) >= e.config.Cache.MaxEntries {
		return
	}

	e.cache[ds.Revision] = cacheEntry{
		result:    result,
		expiresAt: time.Now().Add(e.config.Cache.TTL),
	}
}

// evictExpiredLocked removes expired cache entries.
// Must be called with cacheMu held.
func (e *Engine) evictExpiredLocked() {
	now := time.Now()
	for revision, entry := range e.cache {
		if now.After(entry.expiresAt) {
			delete(e.cache, revision)
		}
	}
}

// round3 rounds to three decimal places for presentation.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
