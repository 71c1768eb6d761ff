package stats

import (
	"testing"

	"github.com/verte-zerg/lareport/internal/model"
)

func TestFilterBucketsThreshold(t *testing.T) {
	buckets := []model.Bucket{
		{Key: "a", Total: 0},
		{Key: "b", Total: 5},
		{Key: "c", Total: 2},
		{Key: "d", Total: 3},
	}
	got := FilterBuckets(buckets, 3)
	if len(got) != 2 || got[0].Key != "b" || got[1].Key != "d" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
	for _, b := range got {
		if b.Total < 3 {
			t.Fatalf("bucket below threshold survived: %+v", b)
		}
	}
}

func TestFilterBucketsIdempotent(t *testing.T) {
	buckets := []model.Bucket{
		{Key: "a", Total: 0},
		{Key: "b", Total: 1},
		{Key: "c", Total: 4},
	}
	once := FilterBuckets(buckets, DefaultThreshold)
	twice := FilterBuckets(once, DefaultThreshold)
	if len(once) != len(twice) {
		t.Fatalf("expected %d buckets, got %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("bucket %d changed: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestFilterBucketsAllFiltered(t *testing.T) {
	got := FilterBuckets([]model.Bucket{{Key: "a", Total: 0}}, DefaultThreshold)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}

func TestFilterRecords(t *testing.T) {
	records := []model.UsageRecord{
		{Category: "quiz", Label: "Q", Count: 0},
		{Category: "page", Label: "P", Count: 2},
	}
	got := FilterRecords(records, DefaultThreshold)
	if len(got) != 1 || got[0].Label != "P" {
		t.Fatalf("unexpected records: %+v", got)
	}
}
