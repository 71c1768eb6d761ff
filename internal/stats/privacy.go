package stats

import "github.com/verte-zerg/lareport/internal/model"

// DefaultThreshold is the minimum disclosed count.
const DefaultThreshold = 1

// FilterBuckets drops buckets whose total is below threshold.
// Relative order is preserved and an empty result is valid.
func FilterBuckets(buckets []model.Bucket, threshold int) []model.Bucket {
	out := make([]model.Bucket, 0, len(buckets))
	for _, b := range buckets {
		if b.Total < threshold {
			continue
		}
		out = append(out, b)
	}
	return out
}

// FilterRecords drops records whose count is below threshold.
func FilterRecords(records []model.UsageRecord, threshold int) []model.UsageRecord {
	out := make([]model.UsageRecord, 0, len(records))
	for _, rec := range records {
		if rec.Count < threshold {
			continue
		}
		out = append(out, rec)
	}
	return out
}
