package stats

import (
	"fmt"
	"sort"

	"github.com/verte-zerg/lareport/internal/model"
)

// Rounding selects how shares are turned into whole percentages.
type Rounding string

const (
	// RoundIndependent rounds each share on its own, half away from zero.
	// Totals may drift from 100 by up to len(shares)-1.
	RoundIndependent Rounding = "independent"
	// RoundLargestRemainder floors every share and hands the leftover points
	// to the largest remainders, so totals are exactly 100.
	RoundLargestRemainder Rounding = "largest-remainder"
)

// ParseRounding validates a rounding name. Empty means RoundIndependent.
func ParseRounding(name string) (Rounding, error) {
	switch Rounding(name) {
	case "", RoundIndependent:
		return RoundIndependent, nil
	case RoundLargestRemainder:
		return RoundLargestRemainder, nil
	default:
		return "", fmt.Errorf("unknown rounding %q (want %q or %q)", name, RoundIndependent, RoundLargestRemainder)
	}
}

// Normalize converts bucket totals into whole-number percentages of their sum.
// Output order matches input order. A zero total yields no shares.
func Normalize(buckets []model.Bucket, rounding Rounding) []model.Share {
	total := SumTotal(buckets)
	if total <= 0 || len(buckets) == 0 {
		return nil
	}
	if rounding == RoundLargestRemainder {
		return normalizeLargestRemainder(buckets, total)
	}
	shares := make([]model.Share, len(buckets))
	for i, b := range buckets {
		shares[i] = model.Share{Key: b.Key, Percent: roundPercent(b.Total, total)}
	}
	return shares
}

// roundPercent computes round(100*count/total) half away from zero in integers.
func roundPercent(count, total int) int {
	if count < 0 {
		return -roundPercent(-count, total)
	}
	return (200*count + total) / (2 * total)
}

func normalizeLargestRemainder(buckets []model.Bucket, total int) []model.Share {
	shares := make([]model.Share, len(buckets))
	remainders := make([]int, len(buckets))
	assigned := 0
	for i, b := range buckets {
		shares[i] = model.Share{Key: b.Key, Percent: 100 * b.Total / total}
		remainders[i] = 100 * b.Total % total
		assigned += shares[i].Percent
	}
	order := make([]int, len(buckets))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})
	for i := 0; assigned < 100 && i < len(order); i++ {
		shares[order[i]].Percent++
		assigned++
	}
	return shares
}
