// Package model defines shared data structures.
package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRecord is returned when a usage record fails boundary validation.
	ErrInvalidRecord = errors.New("invalid usage record")
	// ErrNoRecord is returned by query collaborators when a required row is absent.
	ErrNoRecord = errors.New("record not found")
)

// Metadata keys attached to usage records by the query layer.
const (
	MetaID      = "id"
	MetaSection = "section"
	MetaVisible = "visible"
)

// RoleStudent is the learner role reports count by default.
const RoleStudent = "student"

// UsageRecord is one raw count row returned by the query layer.
// Metadata is only used for table display and never for aggregation.
type UsageRecord struct {
	Category string
	Label    string
	Count    int
	Metadata map[string]string
}

// NewUsageRecord validates and builds a usage record.
func NewUsageRecord(category, label string, count int, metadata map[string]string) (UsageRecord, error) {
	if count < 0 {
		return UsageRecord{}, fmt.Errorf("%w: negative count %d for %q", ErrInvalidRecord, count, label)
	}
	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}
	return UsageRecord{
		Category: category,
		Label:    label,
		Count:    count,
		Metadata: meta,
	}, nil
}

// Meta returns a metadata value or an empty string.
func (r UsageRecord) Meta(key string) string {
	if r.Metadata == nil {
		return ""
	}
	return r.Metadata[key]
}

// Triple is one already-grouped count: a key inside a named group.
type Triple struct {
	Group string
	Key   string
	Value int
}

// Bucket is the aggregated total for one category key.
type Bucket struct {
	Key   string
	Total int
}

// RankedEntry is a bucket annotated with its 0-based rank.
type RankedEntry struct {
	Bucket
	Rank int
}

// Ranking is the result of a descending sort with optional truncation.
type Ranking struct {
	Entries []RankedEntry
	More    bool
}

// Share is a normalized whole-number percentage for one key.
type Share struct {
	Key     string
	Percent int
}
