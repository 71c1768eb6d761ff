package viewer

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/lareport/internal/model"
	"github.com/verte-zerg/lareport/internal/report"
)

type call struct {
	name, page, course, mod string
}

type fakeRunner struct {
	calls []call
}

func (f *fakeRunner) Names() []string { return []string{"activities", "browser_os"} }

func (f *fakeRunner) Run(_ context.Context, name, page string, params report.Params) ([]model.Block, error) {
	f.calls = append(f.calls, call{name: name, page: page, course: params[report.ParamCourse], mod: params[report.ParamMod]})
	if name == "browser_os" {
		if page != "" {
			return nil, report.ErrUnknownPage
		}
		return nil, errors.New("missing subject data")
	}
	table := model.Table{
		Headers: []string{"Activity", "Hits"},
		Rows:    [][]model.Cell{{model.TextCell("Quiz " + page), model.FancyNumberCell(3, 3, "green")}},
	}
	if page == "" {
		table.ShowMore = &model.Ref{Report: "activities", Page: report.PageAll, Params: map[string]string{"course": params[report.ParamCourse]}}
	}
	return []model.Block{model.TableBlock(table)}, nil
}

func (f *fakeRunner) last() call {
	return f.calls[len(f.calls)-1]
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sized(t *testing.T, runner *fakeRunner) *Model {
	t.Helper()
	m := NewModel(runner, 7, "")
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

func TestNewModelLoadsEveryTab(t *testing.T) {
	runner := &fakeRunner{}
	m := sized(t, runner)
	if len(runner.calls) != 2 || runner.calls[0].course != "7" {
		t.Fatalf("expected one load per report for course 7, got %+v", runner.calls)
	}
	out := m.View()
	if !containsAll(out, []string{"activities", "browser_os", "Course: 7", "Quiz", "Show more"}) {
		t.Fatalf("view missing expected segments: %s", out)
	}
}

func TestTabErrorShownInBody(t *testing.T) {
	m := sized(t, &fakeRunner{})
	m.Update(key("l"))
	if m.activeTab != 1 {
		t.Fatalf("expected second tab, got %d", m.activeTab)
	}
	if !strings.Contains(m.View(), "missing subject data") {
		t.Fatalf("expected error in body: %s", m.View())
	}
	m.Update(key("l"))
	if m.activeTab != 0 {
		t.Fatalf("tabs should wrap around, got %d", m.activeTab)
	}
}

func TestFollowShowMoreAndBack(t *testing.T) {
	runner := &fakeRunner{}
	m := sized(t, runner)
	m.Update(key("m"))
	if got := runner.last(); got.name != "activities" || got.page != report.PageAll {
		t.Fatalf("expected all page to load, got %+v", got)
	}
	if !strings.Contains(m.View(), "page=all") {
		t.Fatalf("summary should show the all page: %s", m.View())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := runner.last(); got.page != "" {
		t.Fatalf("esc should return to the overview, got %+v", got)
	}
}

func TestAllPageIgnoredWhenUnsupported(t *testing.T) {
	runner := &fakeRunner{}
	m := sized(t, runner)
	m.Update(key("l"))
	m.Update(key("a"))
	if m.views[1].page != "" || m.views[1].err == "" {
		t.Fatalf("unsupported page should keep the previous view, got %+v", m.views[1])
	}
}

func TestCourseInput(t *testing.T) {
	runner := &fakeRunner{}
	m := sized(t, runner)
	m.Update(key("/"))
	if !m.inputMode {
		t.Fatalf("expected input mode")
	}
	m.input.SetValue("abc")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.inputMode || m.inputError == "" {
		t.Fatalf("invalid course should keep the input open with an error")
	}
	m.input.SetValue("12")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.inputMode || m.course != "12" {
		t.Fatalf("expected course 12 applied, got %q (input %v)", m.course, m.inputMode)
	}
	if got := runner.last(); got.course != "12" {
		t.Fatalf("expected reload for course 12, got %+v", got)
	}
}
