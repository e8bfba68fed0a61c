package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/TobiSchelling/trendboard/internal/navigator"
	"github.com/TobiSchelling/trendboard/internal/news"
)

type stubStore struct {
	reports map[string][]news.DailyReport
	err     error

	// gate, when set, blocks ReportsForDate after signalling entered.
	gate    chan struct{}
	entered chan struct{}
}

func (s *stubStore) ListReportDates(context.Context, int) ([]string, error) {
	return []string{"2026-03-02", "2026-03-01"}, nil
}

func (s *stubStore) LatestReportDate(context.Context) (string, error) {
	return "2026-03-02", s.err
}

func (s *stubStore) ReportsForDate(_ context.Context, date string) ([]news.DailyReport, error) {
	if s.gate != nil {
		s.entered <- struct{}{}
		<-s.gate
	}
	return s.reports[date], s.err
}

func (s *stubStore) ArticlesForTopic(_ context.Context, q news.TopicQuery) ([]news.Article, error) {
	return []news.Article{{ID: "7", Title: q.Topic + " story"}}, nil
}

func (s *stubStore) ArticleDetail(_ context.Context, id string) (*news.ArticleDetail, error) {
	return &news.ArticleDetail{
		Article:  news.Article{ID: id, Title: "Detail title"},
		Analysis: news.ArticleAnalysis{Summary: "Detail summary.", Label: "Negative", Score: -0.4},
	}, nil
}

func (s *stubStore) SearchSummaries(context.Context, string, int) ([]news.SearchResult, error) {
	return nil, nil
}

func newStub() *stubStore {
	return &stubStore{reports: map[string][]news.DailyReport{
		"2026-03-02": {
			{Date: "2026-03-02", Category: "AI", Topics: []news.TrendingTopic{
				{Name: "Small", Count: 1},
				{Name: "Big", Count: 9, AverageSentiment: 0.5},
			}},
			{Date: "2026-03-02", Category: "Energy"},
		},
		"2026-03-01": {{Date: "2026-03-01", Category: "AI"}},
	}}
}

func newLoadedModel(t *testing.T, store *stubStore) Model {
	t.Helper()
	nav := navigator.New(store, navigator.Options{})
	m := New(context.Background(), nav)
	m.width = 80
	m.height = 24
	return update(t, m, m.Init()())
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

// press sends a key and runs the resulting command, if any.
func press(t *testing.T, m Model, key tea.KeyMsg) Model {
	t.Helper()
	updated, cmd := m.Update(key)
	m = updated.(Model)
	if cmd != nil {
		m = update(t, m, cmd())
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestNewModel(t *testing.T) {
	m := New(context.Background(), navigator.New(newStub(), navigator.Options{}))
	if !m.loading {
		t.Error("new model should be loading")
	}
	if m.Init() == nil {
		t.Error("init should return a command")
	}
}

func TestInitialLoad(t *testing.T) {
	m := newLoadedModel(t, newStub())
	if m.loading {
		t.Error("should not be loading after navigation")
	}
	if n := len(m.nav.View().Dates); n != 2 {
		t.Errorf("dates = %d, want 2", n)
	}
	view := m.View()
	if !strings.Contains(view, "Mar 02, 2026") {
		t.Errorf("view missing date:\n%s", view)
	}
	if strings.Index(view, "Big") > strings.Index(view, "Small") {
		t.Error("topics should be listed by count, largest first")
	}
}

func TestDrillDownAndBack(t *testing.T) {
	m := newLoadedModel(t, newStub())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Errorf("cursor should stop at the last topic, got %d", m.cursor)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	v := m.nav.View()
	if v.Level != navigator.LevelArticles || v.Topic.Name != "Big" {
		t.Fatalf("expected articles of Big, got level %v", v.Level)
	}
	if !strings.Contains(m.View(), "Big story") {
		t.Error("view should list the articles")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.nav.View().Level != navigator.LevelDetail {
		t.Fatal("expected detail level")
	}
	if !strings.Contains(m.View(), "Detail summary.") {
		t.Error("view should show the summary")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.nav.View().Level != navigator.LevelTopics {
		t.Error("expected topic level after two backs")
	}
}

func TestCategoryAndDateKeys(t *testing.T) {
	m := newLoadedModel(t, newStub())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.nav.View().Category; got != "Energy" {
		t.Errorf("category = %q, want Energy", got)
	}
	if !strings.Contains(m.View(), "No trending topics for this report.") {
		t.Error("expected no-topics message")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := m.nav.View().Category; got != "AI" {
		t.Errorf("category = %q, want AI", got)
	}

	m = press(t, m, runes("]"))
	if got := m.nav.View().Date; got != "2026-03-02" {
		t.Errorf("newest date should not move, got %q", got)
	}
	m = press(t, m, runes("["))
	if got := m.nav.View().Date; got != "2026-03-01" {
		t.Errorf("date = %q, want 2026-03-01", got)
	}
}

func TestNavigationErrorIsShown(t *testing.T) {
	store := newStub()
	m := newLoadedModel(t, store)

	store.err = errors.New("timeout")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if !strings.Contains(m.err, "Failed to load report: ") || !strings.Contains(m.err, "timeout") {
		t.Errorf("err = %q", m.err)
	}
	if !strings.Contains(m.View(), "timeout") {
		t.Error("error should render inline")
	}
}

func TestSupersededIsIgnored(t *testing.T) {
	m := newLoadedModel(t, newStub())
	m.loading = true
	m = update(t, m, NavigatedMsg{Op: "select", Err: navigator.ErrSuperseded})
	if m.err != "" {
		t.Errorf("superseded result should not set an error, got %q", m.err)
	}
	if m.loading {
		t.Error("nothing is in flight, loading should clear")
	}
}

func TestEscDuringTabSwitchKeepsTheSwitch(t *testing.T) {
	store := newStub()
	m := newLoadedModel(t, store)

	store.gate = make(chan struct{})
	store.entered = make(chan struct{})
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("tab should start a fetch")
	}
	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- cmd() }()
	<-store.entered

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.loading {
		t.Error("the tab switch is still loading")
	}
	close(store.gate)
	m = update(t, m, <-msgs)

	if m.loading {
		t.Error("loading should clear once the switch lands")
	}
	if m.err != "" {
		t.Errorf("unexpected error %q", m.err)
	}
	if got := m.nav.View().Category; got != "Energy" {
		t.Errorf("category = %q, want Energy", got)
	}
}

func TestQuit(t *testing.T) {
	m := newLoadedModel(t, newStub())
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestCycle(t *testing.T) {
	items := []string{"a", "b", "c"}
	if got := cycle(items, "c", 1); got != "a" {
		t.Errorf("cycle forward = %q", got)
	}
	if got := cycle(items, "a", -1); got != "c" {
		t.Errorf("cycle back = %q", got)
	}
	if got := cycle(items, "zzz", 1); got != "a" {
		t.Errorf("cycle unknown = %q", got)
	}
}
