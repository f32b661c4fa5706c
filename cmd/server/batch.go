// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/tomtom215/conventus/internal/dataset"
	"github.com/tomtom215/conventus/internal/recommend"
)

// runBatch computes recommendations for a dataset document once and
// prints per-group reports to w. It is a thin presenter over the
// engine: the same scoring path the HTTP API uses, without the server.
//
// Output format, per group in dataset order:
//
//	=== GROUP g1 ===
//	a1 | Bowling night | 2026-01-02T19:00:00–2026-01-02T21:30:00 | total=17.4
func runBatch(w io.Writer, path string, topN int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read dataset document: %w", err)
	}

	ds, err := dataset.Parse(data)
	if err != nil {
		return fmt.Errorf("parse dataset document: %w", err)
	}

	// Batch mode keeps stdout clean for the report.
	engine, err := recommend.NewEngine(recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		return err
	}

	result, err := engine.Compute(context.Background(), ds)
	if err != nil {
		return err
	}

	if topN <= 0 {
		topN = 3
	}
	result = recommend.TopN(result, topN)

	for _, gid := range result.GroupOrder {
		fmt.Fprintf(w, "\n=== GROUP %s ===\n", gid)
		for _, r := range result.Recommendations[gid] {
			fmt.Fprintf(w, "%s | %s | %s–%s | total=%s\n",
				r.ActivityID, r.ActivityName, r.SlotStart, r.SlotEnd, formatScore(r.TotalScore))
		}
	}
	return nil
}

// formatScore prints a score without trailing zeros, matching the
// 3-decimal rounding already applied by the engine.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
