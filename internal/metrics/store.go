package metrics

import (
	"context"
	"time"

	"github.com/TobiSchelling/trendboard/internal/news"
)

type instrumentedStore struct {
	next news.Store
}

// InstrumentStore wraps store so every read is counted and timed.
func InstrumentStore(store news.Store) news.Store {
	return &instrumentedStore{next: store}
}

func (s *instrumentedStore) ListReportDates(ctx context.Context, limit int) ([]string, error) {
	start := time.Now()
	dates, err := s.next.ListReportDates(ctx, limit)
	RecordStore("list_report_dates", err, time.Since(start))
	return dates, err
}

func (s *instrumentedStore) LatestReportDate(ctx context.Context) (string, error) {
	start := time.Now()
	date, err := s.next.LatestReportDate(ctx)
	RecordStore("latest_report_date", err, time.Since(start))
	return date, err
}

func (s *instrumentedStore) ReportsForDate(ctx context.Context, date string) ([]news.DailyReport, error) {
	start := time.Now()
	reports, err := s.next.ReportsForDate(ctx, date)
	RecordStore("reports_for_date", err, time.Since(start))
	return reports, err
}

func (s *instrumentedStore) ArticlesForTopic(ctx context.Context, q news.TopicQuery) ([]news.Article, error) {
	start := time.Now()
	articles, err := s.next.ArticlesForTopic(ctx, q)
	RecordStore("articles_for_topic", err, time.Since(start))
	return articles, err
}

func (s *instrumentedStore) ArticleDetail(ctx context.Context, id string) (*news.ArticleDetail, error) {
	start := time.Now()
	detail, err := s.next.ArticleDetail(ctx, id)
	RecordStore("article_detail", err, time.Since(start))
	return detail, err
}

func (s *instrumentedStore) SearchSummaries(ctx context.Context, term string, limit int) ([]news.SearchResult, error) {
	start := time.Now()
	results, err := s.next.SearchSummaries(ctx, term, limit)
	RecordStore("search_summaries", err, time.Since(start))
	return results, err
}
