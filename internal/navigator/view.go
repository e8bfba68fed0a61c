package navigator

import (
	"github.com/TobiSchelling/trendboard/internal/news"
)

// Crumb is one breadcrumb entry.
type Crumb struct {
	Level Level
	Label string
}

// View is a snapshot of the navigator. It shares no memory with the navigator.
//
// Loaded is false until the first successful Select. Pending is true while a fetch
// whose result will still be applied is in flight. Dates are the recent report
// dates, newest first, as of the last Select.
type View struct {
	Loaded     bool
	Pending    bool
	Date       string
	Dates      []string
	Category   string
	Categories []string
	Report     *news.DailyReport
	Level      Level
	Topic      *news.TrendingTopic
	Articles   []news.Article
	Detail     *news.ArticleDetail
	Crumbs     []Crumb
}

// Empty reports whether the selected date has no reports at all.
func (v View) Empty() bool { return v.Loaded && len(v.Categories) == 0 }

// View returns a snapshot of the current state.
func (n *Navigator) View() View {
	n.mu.Lock()
	defer n.mu.Unlock()

	v := View{
		Loaded:   n.loaded,
		Pending:  n.pending,
		Date:     n.date,
		Dates:    append([]string(nil), n.dates...),
		Category: n.category,
	}
	for _, r := range n.reports {
		v.Categories = append(v.Categories, r.Category)
	}
	if r := n.currentReport(); r != nil {
		rep := *r
		rep.Topics = append([]news.TrendingTopic(nil), r.Topics...)
		v.Report = &rep
	}

	top := n.top()
	v.Level = top.level
	if top.level != LevelTopics {
		t := top.topic
		v.Topic = &t
	}
	// The articles list stays visible under the detail panel.
	for i := len(n.stack) - 1; i >= 0; i-- {
		if n.stack[i].level == LevelArticles {
			v.Articles = append([]news.Article(nil), n.stack[i].articles...)
			break
		}
	}
	if top.detail != nil {
		d := *top.detail
		d.Entities = append([]news.Entity(nil), top.detail.Entities...)
		v.Detail = &d
	}

	v.Crumbs = n.crumbs()
	return v
}

// crumbs builds the breadcrumb trail. Caller holds mu.
func (n *Navigator) crumbs() []Crumb {
	first := n.category
	if first == "" {
		first = "Topics"
	}
	out := []Crumb{{Level: LevelTopics, Label: first}}
	for _, f := range n.stack[1:] {
		switch f.level {
		case LevelArticles:
			out = append(out, Crumb{Level: LevelArticles, Label: f.topic.Name})
		case LevelDetail:
			label := "Article"
			if f.detail != nil && f.detail.Article.Title != "" {
				label = f.detail.Article.Title
			}
			out = append(out, Crumb{Level: LevelDetail, Label: label})
		}
	}
	return out
}
