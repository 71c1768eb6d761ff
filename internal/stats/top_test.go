package stats

import (
	"testing"

	"github.com/verte-zerg/lareport/internal/model"
)

func TestRankSortsDescendingAndStable(t *testing.T) {
	buckets := []model.Bucket{
		{Key: "first", Total: 5},
		{Key: "big", Total: 9},
		{Key: "second", Total: 5},
		{Key: "small", Total: 1},
		{Key: "third", Total: 5},
	}
	ranking := Rank(buckets, 0)
	if ranking.More {
		t.Fatalf("expected no more flag without a limit")
	}
	wantKeys := []string{"big", "first", "second", "third", "small"}
	if len(ranking.Entries) != len(wantKeys) {
		t.Fatalf("expected %d entries, got %d", len(wantKeys), len(ranking.Entries))
	}
	for i, key := range wantKeys {
		e := ranking.Entries[i]
		if e.Key != key {
			t.Fatalf("rank %d: expected %q, got %q", i, key, e.Key)
		}
		if e.Rank != i {
			t.Fatalf("expected rank %d for %q, got %d", i, e.Key, e.Rank)
		}
		if i > 0 && ranking.Entries[i-1].Total < e.Total {
			t.Fatalf("ranking not non-increasing at %d", i)
		}
	}
}

func TestRankTopNTruncates(t *testing.T) {
	buckets := []model.Bucket{
		{Key: "a", Total: 1},
		{Key: "b", Total: 2},
		{Key: "c", Total: 3},
	}
	ranking := Rank(buckets, 2)
	if len(ranking.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ranking.Entries))
	}
	if !ranking.More {
		t.Fatalf("expected more flag when entries were cut")
	}
	if ranking.Entries[0].Key != "c" || ranking.Entries[1].Key != "b" {
		t.Fatalf("unexpected order: %+v", ranking.Entries)
	}
}

func TestRankTopNNotReached(t *testing.T) {
	buckets := []model.Bucket{{Key: "a", Total: 1}, {Key: "b", Total: 2}}
	for _, topN := range []int{2, 3} {
		ranking := Rank(buckets, topN)
		if len(ranking.Entries) != 2 {
			t.Fatalf("top %d: expected 2 entries, got %d", topN, len(ranking.Entries))
		}
		if ranking.More {
			t.Fatalf("top %d: expected no more flag", topN)
		}
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	buckets := []model.Bucket{{Key: "a", Total: 1}, {Key: "b", Total: 2}}
	Rank(buckets, 1)
	if buckets[0].Key != "a" || buckets[1].Key != "b" {
		t.Fatalf("input reordered: %+v", buckets)
	}
}

func TestRankRecords(t *testing.T) {
	records := []model.UsageRecord{
		{Label: "low", Count: 1},
		{Label: "high", Count: 10},
		{Label: "mid", Count: 4},
	}
	top, more := RankRecords(records, 2)
	if !more {
		t.Fatalf("expected more flag")
	}
	if len(top) != 2 || top[0].Label != "high" || top[1].Label != "mid" {
		t.Fatalf("unexpected records: %+v", top)
	}
}

func TestRankedBuckets(t *testing.T) {
	ranking := Rank([]model.Bucket{{Key: "a", Total: 1}, {Key: "b", Total: 2}}, 0)
	buckets := RankedBuckets(ranking)
	if len(buckets) != 2 || buckets[0].Key != "b" {
		t.Fatalf("unexpected buckets: %+v", buckets)
	}
}
