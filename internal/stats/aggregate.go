// Package stats aggregates usage counts into rankings, shares and chart descriptors.
package stats

import "github.com/verte-zerg/lareport/internal/model"

// Aggregate groups records by category and sums their counts.
// Buckets come back in the order each category was first seen.
func Aggregate(records []model.UsageRecord) []model.Bucket {
	if len(records) == 0 {
		return nil
	}
	index := make(map[string]int, len(records))
	buckets := make([]model.Bucket, 0)
	for _, rec := range records {
		i, ok := index[rec.Category]
		if !ok {
			i = len(buckets)
			index[rec.Category] = i
			buckets = append(buckets, model.Bucket{Key: rec.Category})
		}
		buckets[i].Total += rec.Count
	}
	return buckets
}

// BucketsFromTriples collects the triples of one group as buckets, keeping their order.
func BucketsFromTriples(triples []model.Triple, group string) []model.Bucket {
	var out []model.Bucket
	for _, t := range triples {
		if t.Group != group {
			continue
		}
		out = append(out, model.Bucket{Key: t.Key, Total: t.Value})
	}
	return out
}

// MaxTotal returns the largest bucket total, never less than floor.
func MaxTotal(buckets []model.Bucket, floor int) int {
	maxVal := floor
	for _, b := range buckets {
		if b.Total > maxVal {
			maxVal = b.Total
		}
	}
	return maxVal
}

// SumTotal returns the sum of all bucket totals.
func SumTotal(buckets []model.Bucket) int {
	sum := 0
	for _, b := range buckets {
		sum += b.Total
	}
	return sum
}
