// Conventus - Group Activity Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/conventus

package scoring

// ActivityScore computes the attractiveness of an activity from its
// distance and price, after coalescing absent values to the documented
// defaults.
func ActivityScore(distanceKM, priceEUR *float64) float64 {
	dist := Coalesce(distanceKM, DefaultDistanceKM)
	price := Coalesce(priceEUR, DefaultPriceEUR)
	return ProximityScore(dist)*proximityWeight + CostScore(price)*costWeight
}

// ProximityScore buckets a distance in kilometers.
func ProximityScore(km float64) float64 {
	switch {
	case km < 1.5:
		return 10
	case km < 3.5:
		return 8
	case km < 6.0:
		return 6
	case km < 10.0:
		return 3
	default:
		return 1
	}
}

// CostScore buckets a price. Exactly 50 scores 6 while anything above
// drops to 2; the cliff is intentional and rewards round pricing at
// the boundary. Everything under 25 scores the full 10.
func CostScore(price float64) float64 {
	switch {
	case price > 50:
		return 2
	case price >= 50:
		return 6
	case price >= 25:
		return 8
	default:
		return 10
	}
}

// Coalesce returns *v unless v is nil or zero, in which case it
// returns fallback.
//
// Zero counts as absent: the upstream data format cannot distinguish a
// true zero price or distance from a missing field, so a legitimate
// zero is scored as the default. Callers wanting passthrough semantics
// must keep the original pointer.
func Coalesce(v *float64, fallback float64) float64 {
	if v == nil || *v == 0 {
		return fallback
	}
	return *v
}
