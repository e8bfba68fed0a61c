// Package tui is a terminal browser over the drill-down navigator.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TobiSchelling/trendboard/internal/navigator"
	"github.com/TobiSchelling/trendboard/internal/news"
	"github.com/TobiSchelling/trendboard/internal/treemap"
)

// Widest topic bar in cells.
const barWidth = 30

// Model is the root bubbletea model for the browser.
type Model struct {
	ctx context.Context
	nav *navigator.Navigator

	cursor  int
	loading bool
	err     string

	width  int
	height int
}

// New creates a Model over nav.
func New(ctx context.Context, nav *navigator.Navigator) Model {
	return Model{ctx: ctx, nav: nav, loading: true}
}

// Init loads the latest report.
func (m Model) Init() tea.Cmd {
	return m.selectCmd("", "")
}

func (m Model) selectCmd(date, category string) tea.Cmd {
	return func() tea.Msg {
		return NavigatedMsg{Op: "select", Err: m.nav.Select(m.ctx, date, category)}
	}
}

func (m Model) selectCategoryCmd(category string) tea.Cmd {
	return func() tea.Msg {
		return NavigatedMsg{Op: "category", Err: m.nav.SelectCategory(m.ctx, category)}
	}
}

func (m Model) selectTopicCmd(name string) tea.Cmd {
	return func() tea.Msg {
		return NavigatedMsg{Op: "topic", Err: m.nav.SelectTopic(m.ctx, name)}
	}
}

func (m Model) selectArticleCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return NavigatedMsg{Op: "article", Err: m.nav.SelectArticle(m.ctx, id)}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case NavigatedMsg:
		if errors.Is(msg.Err, navigator.ErrSuperseded) {
			m.loading = m.nav.View().Pending
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.err = failurePrefix(msg.Op) + msg.Err.Error()
			return m, nil
		}
		m.err = ""
		m.cursor = 0
		return m, nil
	}

	return m, nil
}

func failurePrefix(op string) string {
	switch op {
	case "topic":
		return "Failed to load articles: "
	case "article":
		return "Failed to load article: "
	default:
		return "Failed to load report: "
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.nav.View()

	switch msg.String() {
	case KeyQuit, KeyQuitUpper, KeyCtrlC:
		return m, tea.Quit

	case KeyUp, KeyK:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case KeyDown, KeyJ:
		if n := m.listLen(v); m.cursor < n-1 {
			m.cursor++
		}
		return m, nil

	case KeyEnter:
		switch v.Level {
		case navigator.LevelTopics:
			cells := m.cells(v)
			if m.cursor < len(cells) {
				m.loading = true
				return m, m.selectTopicCmd(cells[m.cursor].Topic.Name)
			}
		case navigator.LevelArticles:
			if m.cursor < len(v.Articles) {
				m.loading = true
				return m, m.selectArticleCmd(v.Articles[m.cursor].ID)
			}
		}
		return m, nil

	case KeyEsc, KeyBackspace:
		if m.nav.Back() {
			m.cursor = 0
		}
		m.loading = m.nav.View().Pending
		return m, nil

	case KeyTab, KeyShiftTab:
		if len(v.Categories) < 2 {
			return m, nil
		}
		step := 1
		if msg.String() == KeyShiftTab {
			step = -1
		}
		m.loading = true
		return m, m.selectCategoryCmd(cycle(v.Categories, v.Category, step))

	case KeyOlder, KeyNewer:
		date := stepDate(v.Dates, v.Date, msg.String() == KeyOlder)
		if date == "" {
			return m, nil
		}
		m.loading = true
		return m, m.selectCmd(date, v.Category)
	}

	return m, nil
}

func cycle(items []string, current string, step int) string {
	for i, it := range items {
		if it == current {
			return items[(i+step+len(items))%len(items)]
		}
	}
	return items[0]
}

// stepDate moves through the newest-first date list.
func stepDate(dates []string, current string, older bool) string {
	for i, d := range dates {
		if d != current {
			continue
		}
		if older && i+1 < len(dates) {
			return dates[i+1]
		}
		if !older && i > 0 {
			return dates[i-1]
		}
		return ""
	}
	return ""
}

// cells returns the drawable topics of the current report in treemap order.
func (m Model) cells(v navigator.View) []treemap.Cell {
	if v.Report == nil {
		return nil
	}
	return treemap.Layout(v.Report.Topics, treemap.DefaultOptions()).Cells
}

func (m Model) listLen(v navigator.View) int {
	switch v.Level {
	case navigator.LevelTopics:
		return len(m.cells(v))
	case navigator.LevelArticles:
		return len(v.Articles)
	default:
		return 0
	}
}

// View renders the UI.
func (m Model) View() string {
	v := m.nav.View()
	var sections []string

	header := TitleStyle.Render("trendboard")
	if v.Date != "" {
		header += "  " + news.FormatDateDisplay(v.Date)
	}
	if m.loading {
		header += DimStyle.Render("  loading...")
	}
	sections = append(sections, header)

	if len(v.Categories) > 0 {
		var tabs []string
		for _, c := range v.Categories {
			if c == v.Category {
				tabs = append(tabs, TabActiveStyle.Render(c))
			} else {
				tabs = append(tabs, TabStyle.Render(c))
			}
		}
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	}

	if m.err != "" {
		sections = append(sections, ErrorStyle.Render(m.err))
	}

	switch {
	case !v.Loaded:
	case v.Empty():
		sections = append(sections, DimStyle.Render("No reports found for this date."))
	default:
		var crumbs []string
		for _, c := range v.Crumbs {
			crumbs = append(crumbs, c.Label)
		}
		sections = append(sections, CrumbStyle.Render(strings.Join(crumbs, " / ")))
		sections = append(sections, m.body(v))
	}

	sections = append(sections, m.footer())
	return strings.Join(sections, "\n\n")
}

func (m Model) body(v navigator.View) string {
	switch v.Level {
	case navigator.LevelArticles:
		return m.articleList(v)
	case navigator.LevelDetail:
		return m.detail(v)
	default:
		return m.topicList(v)
	}
}

func (m Model) topicList(v navigator.View) string {
	cells := m.cells(v)
	if len(cells) == 0 {
		return DimStyle.Render("No trending topics for this report.")
	}
	maxCount := cells[0].Topic.Count

	var lines []string
	if v.Report.Summary != "" {
		lines = append(lines, v.Report.Summary, "")
	}
	for i, c := range cells {
		t := c.Topic
		n := t.Count * barWidth / maxCount
		if n < 1 {
			n = 1
		}
		bar := sentimentStyle(t.AverageSentiment).Render(strings.Repeat("█", n))
		line := fmt.Sprintf("%-24s %4d %s %+.2f", truncate(t.Name, 24), t.Count, bar, t.AverageSentiment)
		lines = append(lines, m.mark(i, line))
	}
	return strings.Join(lines, "\n")
}

func (m Model) articleList(v navigator.View) string {
	if len(v.Articles) == 0 {
		return DimStyle.Render("No related articles found.")
	}
	var lines []string
	for i, a := range v.Articles {
		line := a.Title
		if a.Source != nil && *a.Source != "" {
			line += DimStyle.Render("  " + *a.Source)
		}
		lines = append(lines, m.mark(i, line))
	}
	return strings.Join(lines, "\n")
}

func (m Model) detail(v navigator.View) string {
	d := v.Detail
	if d == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(SelectedStyle.Render(d.Article.Title))
	b.WriteString("\n")
	b.WriteString(DimStyle.Render(d.Article.URL))
	b.WriteString("\n\n")
	b.WriteString(sentimentStyle(d.Analysis.Score).Render(fmt.Sprintf("%s (%+.2f)", d.Analysis.Label, d.Analysis.Score)))
	b.WriteString("\n\n")
	b.WriteString(d.Analysis.Summary)
	if len(d.Entities) > 0 {
		names := make([]string, len(d.Entities))
		for i, e := range d.Entities {
			names[i] = e.Name
		}
		b.WriteString("\n\n")
		b.WriteString(DimStyle.Render("Entities: " + strings.Join(names, ", ")))
	}
	style := PanelStyle
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}
	return style.Render(b.String())
}

func (m Model) mark(i int, line string) string {
	if i == m.cursor {
		return SelectedStyle.Render("> ") + line
	}
	return "  " + line
}

func (m Model) footer() string {
	keys := []struct{ key, desc string }{
		{"↑↓", "move"},
		{"enter", "open"},
		{"esc", "back"},
		{"tab", "category"},
		{"[ ]", "date"},
		{"q", "quit"},
	}
	var parts []string
	for _, k := range keys {
		parts = append(parts, FooterKeyStyle.Render(k.key)+" "+FooterDescStyle.Render(k.desc))
	}
	return strings.Join(parts, "  ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
