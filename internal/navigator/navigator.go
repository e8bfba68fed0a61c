// Package navigator holds the report selection and drill-down state shared by the
// web dashboard and the terminal browser.
//
// A Navigator keeps the selected date and category, the reports of that date and a
// stack of frames: topics, then the articles of one topic, then the detail of one
// article. Every operation that fetches takes a ticket first. When the fetch returns
// and a later operation has taken a newer ticket, the result is dropped and the
// operation returns ErrSuperseded. Back abandons a pending drill-down but never a
// pending date or category selection.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/TobiSchelling/trendboard/internal/news"
)

// Level is the depth of the drill-down stack.
type Level int

const (
	LevelTopics Level = iota
	LevelArticles
	LevelDetail
)

func (l Level) String() string {
	switch l {
	case LevelTopics:
		return "topics"
	case LevelArticles:
		return "articles"
	case LevelDetail:
		return "detail"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

var (
	ErrUnknownTopic      = errors.New("topic is not part of the current report")
	ErrUnknownArticle    = errors.New("article is not in the current list")
	ErrInvalidTransition = errors.New("operation not allowed at this level")
	ErrSuperseded        = errors.New("superseded by a newer selection")
)

// DefaultArticleLimit caps the related-articles list.
const DefaultArticleLimit = 50

// DefaultDateWindow is the number of recent report dates kept for pickers.
const DefaultDateWindow = 30

// Options tunes a Navigator.
type Options struct {
	ArticleLimit int
	DateWindow   int
}

type frame struct {
	level    Level
	topic    news.TrendingTopic
	articles []news.Article
	detail   *news.ArticleDetail
}

// Navigator is safe for concurrent use. The mutex is never held across a fetch.
type Navigator struct {
	store news.Store
	opts  Options

	mu       sync.Mutex
	ticket   uint64
	pending  bool // the fetch of the current ticket has not returned
	drilling bool // the current ticket belongs to SelectTopic or SelectArticle
	loaded   bool
	date     string
	dates    []string
	category string
	reports  []news.DailyReport
	stack    []frame
}

// New creates a navigator. Nothing is fetched until Select.
func New(store news.Store, opts Options) *Navigator {
	if opts.ArticleLimit <= 0 {
		opts.ArticleLimit = DefaultArticleLimit
	}
	if opts.DateWindow <= 0 {
		opts.DateWindow = DefaultDateWindow
	}
	return &Navigator{
		store: store,
		opts:  opts,
		stack: []frame{{level: LevelTopics}},
	}
}

// take issues a new ticket for a fetch, invalidating every fetch in flight.
// Caller holds mu.
func (n *Navigator) take(drilling bool) uint64 {
	n.ticket++
	n.pending = true
	n.drilling = drilling
	return n.ticket
}

// settle reports whether ticket is still current and, if so, marks its fetch
// as returned. Caller holds mu.
func (n *Navigator) settle(ticket uint64) bool {
	if ticket != n.ticket {
		return false
	}
	n.pending = false
	return true
}

// Select loads the reports of date and picks category. An empty date selects the most
// recent report date. A missing report set is an empty state, not an error.
func (n *Navigator) Select(ctx context.Context, date, category string) error {
	if date != "" {
		if err := news.ValidateDate(date); err != nil {
			return err
		}
	}

	n.mu.Lock()
	ticket := n.take(false)
	n.mu.Unlock()

	reports, date, err := n.fetchReports(ctx, date)
	var dates []string
	if err == nil && date != "" {
		dates = n.fetchDates(ctx)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.settle(ticket) {
		logrus.Debugf("dropping reports for %q: superseded", date)
		return ErrSuperseded
	}
	if err != nil {
		return err
	}

	n.loaded = true
	n.date = date
	if dates != nil || date == "" {
		n.dates = dates
	}
	n.reports = reports
	n.category = pickCategory(reports, category)
	n.stack = []frame{{level: LevelTopics}}
	return nil
}

func (n *Navigator) fetchReports(ctx context.Context, date string) ([]news.DailyReport, string, error) {
	if date == "" {
		latest, err := n.store.LatestReportDate(ctx)
		if errors.Is(err, news.ErrNotFound) {
			return nil, "", nil
		}
		if err != nil {
			return nil, "", fmt.Errorf("resolving latest report date: %w", err)
		}
		date = latest
	}
	reports, err := n.store.ReportsForDate(ctx, date)
	if err != nil {
		return nil, date, fmt.Errorf("loading reports for %s: %w", date, err)
	}
	return reports, date, nil
}

// fetchDates loads the recent report dates. A failure keeps the previous list.
func (n *Navigator) fetchDates(ctx context.Context) []string {
	dates, err := n.store.ListReportDates(ctx, n.opts.DateWindow)
	if err != nil {
		logrus.Warnf("listing report dates: %v", err)
		return nil
	}
	return dates
}

func pickCategory(reports []news.DailyReport, want string) string {
	for _, r := range reports {
		if r.Category == want {
			return want
		}
	}
	if len(reports) > 0 {
		return reports[0].Category
	}
	return ""
}

// SelectCategory switches the category tab by re-issuing the read for the current date.
func (n *Navigator) SelectCategory(ctx context.Context, category string) error {
	n.mu.Lock()
	date := n.date
	n.mu.Unlock()
	return n.Select(ctx, date, category)
}

// SelectTopic drills into the articles of a topic of the current report.
func (n *Navigator) SelectTopic(ctx context.Context, name string) error {
	n.mu.Lock()
	if n.top().level != LevelTopics {
		n.mu.Unlock()
		return ErrInvalidTransition
	}
	report := n.currentReport()
	if report == nil {
		n.mu.Unlock()
		return ErrUnknownTopic
	}
	topic, ok := report.Topic(name)
	if !ok {
		n.mu.Unlock()
		return ErrUnknownTopic
	}
	q := news.TopicQuery{
		Topic:    topic.Name,
		Category: report.Category,
		Date:     report.Date,
		Limit:    n.opts.ArticleLimit,
	}
	ticket := n.take(true)
	n.mu.Unlock()

	articles, err := n.store.ArticlesForTopic(ctx, q)

	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.settle(ticket) {
		return ErrSuperseded
	}
	if err != nil {
		return fmt.Errorf("loading articles for %s: %w", name, err)
	}
	n.stack = append(n.stack, frame{level: LevelArticles, topic: topic, articles: articles})
	return nil
}

// SelectArticle drills into the analysis of an article from the current list.
func (n *Navigator) SelectArticle(ctx context.Context, id string) error {
	n.mu.Lock()
	top := n.top()
	if top.level != LevelArticles {
		n.mu.Unlock()
		return ErrInvalidTransition
	}
	listed := false
	for _, a := range top.articles {
		if a.ID == id {
			listed = true
			break
		}
	}
	if !listed {
		n.mu.Unlock()
		return ErrUnknownArticle
	}
	topic := top.topic
	ticket := n.take(true)
	n.mu.Unlock()

	detail, err := n.store.ArticleDetail(ctx, id)

	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.settle(ticket) {
		return ErrSuperseded
	}
	if err != nil {
		return fmt.Errorf("loading article %s: %w", id, err)
	}
	n.stack = append(n.stack, frame{level: LevelDetail, topic: topic, detail: detail})
	return nil
}

// Back pops one frame. It never fetches and reports whether a frame was popped.
// A drill-down still in flight is abandoned; a pending Select is left to land.
func (n *Navigator) Back() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pending && n.drilling {
		n.ticket++
		n.pending = false
	}
	if len(n.stack) <= 1 {
		return false
	}
	n.stack = n.stack[:len(n.stack)-1]
	return true
}

// top returns the innermost frame. Caller holds mu.
func (n *Navigator) top() *frame {
	return &n.stack[len(n.stack)-1]
}

// currentReport returns the report of the selected category. Caller holds mu.
func (n *Navigator) currentReport() *news.DailyReport {
	for i := range n.reports {
		if n.reports[i].Category == n.category {
			return &n.reports[i]
		}
	}
	return nil
}
