// Package viewer provides the Bubble Tea report browser.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/lareport/internal/model"
	"github.com/verte-zerg/lareport/internal/render"
	"github.com/verte-zerg/lareport/internal/report"
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#66b5ab"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Runner produces the blocks of a report page.
type Runner interface {
	Names() []string
	Run(ctx context.Context, name, page string, params report.Params) ([]model.Block, error)
}

// view is what one tab currently shows.
type view struct {
	page   string
	mod    string
	blocks []model.Block
	err    string
}

// Model implements the Bubble Tea report browser.
type Model struct {
	runner   Runner
	course   string
	showMore string

	tabs      []string
	activeTab int
	views     []view
	viewports []viewport.Model

	width  int
	height int

	inputMode  bool
	input      textinput.Model
	inputError string
}

// NewModel constructs a browser over every report the runner knows.
func NewModel(runner Runner, courseID int64, showMore string) *Model {
	m := &Model{
		runner:   runner,
		course:   strconv.FormatInt(courseID, 10),
		showMore: showMore,
		tabs:     runner.Names(),
	}
	m.views = make([]view, len(m.tabs))
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.input = textinput.New()
	m.input.Prompt = "Course: "
	m.input.CharLimit = 18
	m.input.Cursor.SetMode(cursor.CursorBlink)
	m.reloadAll()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.inputMode {
			return m.updateInput(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			m.inputMode = true
			m.inputError = ""
			m.input.SetValue(m.course)
			m.input.CursorEnd()
			return m, m.input.Focus()
		case "m":
			m.followShowMore()
			return m, nil
		case "a":
			if len(m.views) == 0 {
				return m, nil
			}
			m.open(m.activeTab, report.PageAll, m.views[m.activeTab].mod)
			return m, nil
		case "esc", "backspace":
			m.open(m.activeTab, "", "")
			return m, nil
		case "g", "home":
			m.viewports[m.activeTab].GotoTop()
			return m, nil
		case "G", "end":
			m.viewports[m.activeTab].GotoBottom()
			return m, nil
		default:
			if len(m.viewports) == 0 {
				return m, nil
			}
			var cmd tea.Cmd
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = false
		m.inputError = ""
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		if _, err := (report.Params{report.ParamCourse: value}).Course(); err != nil {
			m.inputError = err.Error()
			return m, nil
		}
		m.course = value
		m.inputMode = false
		m.inputError = ""
		m.input.Blur()
		m.reloadAll()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.inputMode && m.inputError != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.input.Width = maxInt(10, m.width-lipgloss.Width(m.input.Prompt)-2)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
}

func (m *Model) reloadAll() {
	for i := range m.tabs {
		// Failures are shown inside the tab.
		_ = m.load(i, m.views[i].page, m.views[i].mod)
	}
	m.renderContents()
}

// open switches a tab to a page and reloads it.
func (m *Model) open(tab int, page, mod string) {
	if tab < 0 || tab >= len(m.tabs) {
		return
	}
	// Reports without the requested page keep what they show.
	if err := m.load(tab, page, mod); errors.Is(err, report.ErrUnknownPage) {
		return
	}
	m.renderContents()
	m.viewports[tab].GotoTop()
}

func (m *Model) load(tab int, page, mod string) error {
	params := report.Params{report.ParamCourse: m.course}
	if mod != "" {
		params[report.ParamMod] = mod
	}
	blocks, err := m.runner.Run(context.Background(), m.tabs[tab], page, params)
	if errors.Is(err, report.ErrUnknownPage) {
		return err
	}
	v := view{page: page, mod: mod, blocks: blocks}
	if err != nil {
		v.err = err.Error()
	}
	m.views[tab] = v
	return err
}

// followShowMore opens the first show-more target on the active tab.
func (m *Model) followShowMore() {
	if len(m.views) == 0 {
		return
	}
	ref := firstShowMore(m.views[m.activeTab].blocks)
	if ref == nil {
		return
	}
	tab := m.activeTab
	for i, name := range m.tabs {
		if name == ref.Report {
			tab = i
			break
		}
	}
	m.activeTab = tab
	m.open(tab, ref.Page, ref.Params[report.ParamMod])
}

func firstShowMore(blocks []model.Block) *model.Ref {
	for _, b := range blocks {
		switch {
		case b.Kind == model.BlockTable && b.Table != nil && b.Table.ShowMore != nil:
			return b.Table.ShowMore
		case b.Kind == model.BlockSplit:
			if ref := firstShowMore(b.Left); ref != nil {
				return ref
			}
			if ref := firstShowMore(b.Right); ref != nil {
				return ref
			}
		}
	}
	return nil
}

func (m *Model) renderContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	for i, v := range m.views {
		if v.err != "" {
			m.viewports[i].SetContent(errorStyle.Render(v.err))
			continue
		}
		if len(v.blocks) == 0 {
			m.viewports[i].SetContent("Nothing to show.")
			continue
		}
		lines := render.TextLines(io.Discard, v.blocks, render.TextOptions{
			Width:      width,
			ForceColor: true,
			ShowMore:   m.showMore,
		})
		m.viewports[i].SetContent(strings.Join(lines, "\n"))
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	return tabs + "\n" + padLines(m.renderSummary(), m.width)
}

func (m *Model) renderSummary() string {
	if m.inputMode {
		return m.input.View()
	}
	page := "overview"
	mod := "any"
	if len(m.views) > 0 {
		if p := m.views[m.activeTab].page; p != "" {
			page = p
		}
		if v := m.views[m.activeTab].mod; v != "" {
			mod = v
		}
	}
	summary := fmt.Sprintf("Course: %s  page=%s  mod=%s", m.course, page, mod)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderBody() string {
	if len(m.viewports) == 0 {
		return "No reports registered."
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderFooter() string {
	if m.inputMode {
		help := headerStyle.Render("enter: apply  esc: cancel")
		if m.inputError != "" {
			return help + "\n" + errorStyle.Render(m.inputError)
		}
		return help
	}
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Show more: m  All: a  Back: esc  Course: /  Quit: q"
	return headerStyle.Render(truncateLine(help, m.width))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth >= width {
		return line
	}
	return line + strings.Repeat(" ", width-lineWidth)
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
