package render

import (
	"strings"
	"testing"
)

func TestLayoutTableAlignsColumns(t *testing.T) {
	headers := []string{"Type", "Hits", "Share"}
	rows := [][]string{
		{"quiz", "1,200", "40%"},
		{"resource", "35", "5%"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := layoutTable(headers, rows, rightAlign, 0)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Type       Hits  Share" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "quiz      1,200    40%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "resource     35     5%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestLayoutTableWideRunes(t *testing.T) {
	lines := layoutTable([]string{"Name", "N"}, [][]string{{"日本", "1"}, {"ab", "2"}}, map[int]bool{1: true}, 0)
	if lines[1] != "日本  1" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "ab    2" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}

func TestLayoutTableFitsWidth(t *testing.T) {
	headers := []string{"Activity", "Section", "Hits"}
	rows := [][]string{
		{"Introduction to programming", "Week 1", "1,200"},
		{"Quiz", "Orientation and setup", "35"},
	}
	lines := layoutTable(headers, rows, map[int]bool{2: true}, 30)
	for _, line := range lines {
		if w := displayWidth(line); w > 30 {
			t.Fatalf("line %q is %d cells wide", line, w)
		}
	}
	if !strings.HasSuffix(lines[1], "1,200") || !strings.HasSuffix(lines[2], "   35") {
		t.Fatalf("numbers must not be cut: %q", lines)
	}
	if !strings.HasPrefix(lines[1], "Introduct…  ") {
		t.Fatalf("expected the long name to be shortened, got %q", lines[1])
	}
}

func TestLayoutTableKeepsMinimumWidth(t *testing.T) {
	lines := layoutTable(nil, [][]string{{"abcdefgh", "12345"}}, map[int]bool{1: true}, 5)
	if lines[0] != "abc…  12345" {
		t.Fatalf("text columns should stop at %d cells, got %q", minColumnWidth, lines[0])
	}
}

func TestLayoutTableTruncatesStyledCells(t *testing.T) {
	styled := "\x1b[9mStrikethrough text\x1b[0m"
	lines := layoutTable(nil, [][]string{{styled, "7"}}, map[int]bool{1: true}, 12)
	if w := displayWidth(lines[0]); w != 12 {
		t.Fatalf("expected 12 cells, got %d in %q", w, lines[0])
	}
	if !strings.Contains(lines[0], "\x1b[9m") || !strings.Contains(lines[0], "…") {
		t.Fatalf("expected escapes kept and an ellipsis, got %q", lines[0])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Introduction to Go", 8); got != "Introdu…" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncate("short", 8); got != "short" {
		t.Fatalf("short text should be kept, got %q", got)
	}
	if got := truncate("x", 0); got != "" {
		t.Fatalf("zero width should yield empty, got %q", got)
	}
}
