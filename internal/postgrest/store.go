package postgrest

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/TobiSchelling/trendboard/internal/news"
)

const (
	defaultDateLimit    = 30
	defaultArticleLimit = 50
	defaultSearchLimit  = 20

	// Rows scanned per requested date; the endpoint has no DISTINCT.
	dateScanFactor = 8
)

const articleColumns = "article_id,title,url,source_name,publication_date"

// ListReportDates returns distinct report dates, newest first.
func (c *Client) ListReportDates(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = defaultDateLimit
	}
	params := url.Values{
		"select": {"report_date"},
		"order":  {"report_date.desc"},
		"limit":  {strconv.Itoa(limit * dateScanFactor)},
	}
	var rows []struct {
		ReportDate string `json:"report_date"`
	}
	if err := c.get(ctx, "daily_reports", params, &rows); err != nil {
		return nil, err
	}

	dates := make([]string, 0, limit)
	seen := make(map[string]bool)
	for _, r := range rows {
		if seen[r.ReportDate] {
			continue
		}
		seen[r.ReportDate] = true
		dates = append(dates, r.ReportDate)
		if len(dates) == limit {
			break
		}
	}
	return dates, nil
}

// LatestReportDate returns the most recent report date.
func (c *Client) LatestReportDate(ctx context.Context) (string, error) {
	params := url.Values{
		"select": {"report_date"},
		"order":  {"report_date.desc"},
		"limit":  {"1"},
	}
	var rows []struct {
		ReportDate string `json:"report_date"`
	}
	if err := c.get(ctx, "daily_reports", params, &rows); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", news.ErrNotFound
	}
	return rows[0].ReportDate, nil
}

// ReportsForDate returns every category report of date, ordered by category.
func (c *Client) ReportsForDate(ctx context.Context, date string) ([]news.DailyReport, error) {
	if err := news.ValidateDate(date); err != nil {
		return nil, err
	}
	params := url.Values{
		"select":      {"report_date,category,report_summary,overall_sentiment_score,trending_topics"},
		"report_date": {"eq." + date},
		"order":       {"category.asc"},
	}
	var rows []reportRow
	if err := c.get(ctx, "daily_reports", params, &rows); err != nil {
		return nil, err
	}

	reports := make([]news.DailyReport, 0, len(rows))
	for _, r := range rows {
		rep, err := r.toReport()
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

// ArticlesForTopic returns the articles of the report's category that mention
// the topic entity and were published before the end of the report date.
func (c *Client) ArticlesForTopic(ctx context.Context, q news.TopicQuery) ([]news.Article, error) {
	if err := news.ValidateDate(q.Date); err != nil {
		return nil, err
	}
	end, err := news.NextDay(q.Date)
	if err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultArticleLimit
	}

	params := url.Values{
		"select": {articleColumns +
			",tracked_topics!inner(category)" +
			",article_entity_map!inner(l1_analysis_entities!inner(entity_name))"},
		"article_entity_map.l1_analysis_entities.entity_name": {"eq." + q.Topic},
		"or":    {fmt.Sprintf("(publication_date.is.null,publication_date.lt.%s)", end)},
		"order": {"publication_date.desc.nullslast,article_id.desc"},
		"limit": {strconv.Itoa(limit)},
	}
	if q.Category != "" {
		params.Set("tracked_topics.category", "eq."+q.Category)
	}

	var rows []articleRow
	if err := c.get(ctx, "raw_articles", params, &rows); err != nil {
		return nil, err
	}
	articles := make([]news.Article, len(rows))
	for i, r := range rows {
		articles[i] = r.toArticle()
	}
	return articles, nil
}

// ArticleDetail returns an article with its analysis and entities.
func (c *Client) ArticleDetail(ctx context.Context, id string) (*news.ArticleDetail, error) {
	if id == "" {
		return nil, news.ErrNotFound
	}
	params := url.Values{
		"select":     {"article_id,ai_summary,sentiment_label,sentiment_score,analyzed_at,raw_articles!inner(" + articleColumns + ")"},
		"article_id": {"eq." + id},
		"limit":      {"1"},
	}
	var rows []analysisRow
	if err := c.get(ctx, "l1_analysis_sentiment", params, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 || rows[0].Article == nil {
		return nil, news.ErrNotFound
	}

	detail := &news.ArticleDetail{
		Article:  rows[0].Article.toArticle(),
		Analysis: rows[0].toAnalysis(),
	}

	var entityRows []entityMapRow
	entityParams := url.Values{
		"select":     {"l1_analysis_entities(entity_name,entity_type)"},
		"article_id": {"eq." + id},
	}
	if err := c.get(ctx, "article_entity_map", entityParams, &entityRows); err != nil {
		return nil, err
	}
	for _, r := range entityRows {
		if r.Entity == nil {
			continue
		}
		e := news.Entity{Name: r.Entity.Name}
		if r.Entity.Type != nil {
			e.Type = *r.Entity.Type
		}
		detail.Entities = append(detail.Entities, e)
	}
	sort.Slice(detail.Entities, func(i, j int) bool {
		return detail.Entities[i].Name < detail.Entities[j].Name
	})
	return detail, nil
}

// SearchSummaries runs a full-text search over the AI summaries.
func (c *Client) SearchSummaries(ctx context.Context, term string, limit int) ([]news.SearchResult, error) {
	term, err := news.NormalizeSearchTerm(term)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	params := url.Values{
		"select":     {"article_id,ai_summary,sentiment_label,sentiment_score,analyzed_at,raw_articles!inner(" + articleColumns + ")"},
		"ai_summary": {"plfts." + term},
		"order":      {"analyzed_at.desc.nullslast"},
		"limit":      {strconv.Itoa(limit)},
	}
	var rows []analysisRow
	if err := c.get(ctx, "l1_analysis_sentiment", params, &rows); err != nil {
		return nil, err
	}

	results := make([]news.SearchResult, 0, len(rows))
	for _, r := range rows {
		if r.Article == nil {
			continue
		}
		results = append(results, news.SearchResult{
			Article:  r.Article.toArticle(),
			Analysis: r.toAnalysis(),
		})
	}
	return results, nil
}
