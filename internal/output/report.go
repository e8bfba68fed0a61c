package output

import (
	"fmt"
	"strconv"

	"github.com/TobiSchelling/trendboard/internal/news"
	"github.com/TobiSchelling/trendboard/internal/treemap"
)

// Report prints one category report with its topics, largest first.
func (p *Printer) Report(rep news.DailyReport) error {
	p.Header(fmt.Sprintf("%s · %s", rep.Category, news.FormatDateDisplay(rep.Date)))
	p.Print("Overall sentiment: %s", p.Sentiment(rep.OverallSentiment))
	if rep.Summary != "" {
		p.Print("")
		p.Print("%s", rep.Summary)
	}
	p.Print("")

	cells := treemap.Layout(rep.Topics, treemap.DefaultOptions()).Cells
	if len(cells) == 0 {
		p.Print("No trending topics for this report.")
		return nil
	}
	table := NewTable(p.out, []string{"Topic", "Mentions", "Sentiment"})
	for _, c := range cells {
		table.AddRow(c.Topic.Name, strconv.Itoa(c.Topic.Count), p.Sentiment(c.Topic.AverageSentiment))
	}
	return table.Render()
}

// SearchResults prints a result table.
func (p *Printer) SearchResults(results []news.SearchResult) error {
	if len(results) == 0 {
		p.Print("No results found.")
		return nil
	}
	table := NewTable(p.out, []string{"Published", "Sentiment", "Title", "Source"})
	for _, r := range results {
		published := ""
		if r.Article.PublishedAt != nil {
			published = r.Article.PublishedAt.Format(news.DateLayout)
		}
		source := ""
		if r.Article.Source != nil {
			source = *r.Article.Source
		}
		table.AddRow(published, p.Label(r.Analysis.Label), truncate(r.Article.Title, 70), source)
	}
	return table.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
