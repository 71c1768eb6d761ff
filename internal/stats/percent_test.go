package stats

import (
	"testing"

	"github.com/verte-zerg/lareport/internal/model"
)

func percents(shares []model.Share) []int {
	out := make([]int, len(shares))
	for i, s := range shares {
		out[i] = s.Percent
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNormalizeExactShares(t *testing.T) {
	buckets := []model.Bucket{
		{Key: "quiz", Total: 40},
		{Key: "resource", Total: 35},
		{Key: "page", Total: 20},
		{Key: "url", Total: 5},
	}
	got := percents(Normalize(buckets, RoundIndependent))
	if !equalInts(got, []int{40, 35, 20, 5}) {
		t.Fatalf("unexpected percentages: %v", got)
	}
}

func TestNormalizeRoundsHalfAwayFromZero(t *testing.T) {
	got := percents(Normalize([]model.Bucket{{Key: "a", Total: 2}, {Key: "b", Total: 1}}, RoundIndependent))
	if !equalInts(got, []int{67, 33}) {
		t.Fatalf("unexpected percentages: %v", got)
	}
	got = percents(Normalize([]model.Bucket{{Key: "a", Total: 1}, {Key: "b", Total: 7}}, RoundIndependent))
	if !equalInts(got, []int{13, 88}) {
		t.Fatalf("expected 12.5 and 87.5 to round up, got %v", got)
	}
}

func TestNormalizeDriftWithinTolerance(t *testing.T) {
	cases := [][]int{
		{1, 1, 1},
		{1, 1, 1, 1, 1, 1, 1, 1},
		{3, 3, 3, 1},
		{999, 1, 1},
		{5, 5, 5, 5, 5, 5, 1},
	}
	for _, counts := range cases {
		buckets := make([]model.Bucket, len(counts))
		for i, c := range counts {
			buckets[i] = model.Bucket{Key: string(rune('a' + i)), Total: c}
		}
		shares := Normalize(buckets, RoundIndependent)
		sum := 0
		for _, s := range shares {
			sum += s.Percent
		}
		k := len(shares)
		if sum < 100-(k-1) || sum > 100+(k-1) {
			t.Fatalf("counts %v: sum %d outside tolerance for %d series", counts, sum, k)
		}
	}
}

func TestNormalizeLargestRemainderSumsTo100(t *testing.T) {
	buckets := []model.Bucket{{Key: "a", Total: 1}, {Key: "b", Total: 1}, {Key: "c", Total: 1}}
	got := percents(Normalize(buckets, RoundLargestRemainder))
	if !equalInts(got, []int{34, 33, 33}) {
		t.Fatalf("unexpected percentages: %v", got)
	}
	buckets = []model.Bucket{{Key: "a", Total: 1}, {Key: "b", Total: 7}}
	got = percents(Normalize(buckets, RoundLargestRemainder))
	if got[0]+got[1] != 100 {
		t.Fatalf("expected exact 100, got %v", got)
	}
}

func TestNormalizeZeroTotal(t *testing.T) {
	if shares := Normalize([]model.Bucket{{Key: "a", Total: 0}}, RoundIndependent); len(shares) != 0 {
		t.Fatalf("expected no shares, got %v", shares)
	}
	if shares := Normalize(nil, RoundLargestRemainder); len(shares) != 0 {
		t.Fatalf("expected no shares, got %v", shares)
	}
}

func TestNormalizeKeepsOrder(t *testing.T) {
	shares := Normalize([]model.Bucket{{Key: "small", Total: 1}, {Key: "big", Total: 9}}, RoundIndependent)
	if shares[0].Key != "small" || shares[1].Key != "big" {
		t.Fatalf("order changed: %+v", shares)
	}
}

func TestParseRounding(t *testing.T) {
	if r, err := ParseRounding(""); err != nil || r != RoundIndependent {
		t.Fatalf("expected default independent, got %q, %v", r, err)
	}
	if r, err := ParseRounding("largest-remainder"); err != nil || r != RoundLargestRemainder {
		t.Fatalf("expected largest-remainder, got %q, %v", r, err)
	}
	if _, err := ParseRounding("banker"); err == nil {
		t.Fatalf("expected error for unknown rounding")
	}
}
