// Package news defines the read-only projections of the upstream analytics tables
// and the Store interface every backend implements.
package news

import (
	"context"
	"errors"
	"strings"
	"time"
)

// DateLayout is the format of report dates.
const DateLayout = "2006-01-02"

// MinSearchLength is the shortest accepted search term, in characters.
const MinSearchLength = 2

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidDate   = errors.New("invalid date")
	ErrQueryTooShort = errors.New("search term must be at least 2 characters")
)

// TrendingTopic is one element of a report's trending_topics column.
type TrendingTopic struct {
	Name             string  `json:"topic"`
	Count            int     `json:"count"`
	AverageSentiment float64 `json:"average_sentiment"`
}

// DailyReport is the L2 report for one (date, category) pair.
type DailyReport struct {
	Date             string
	Category         string
	Summary          string
	OverallSentiment float64
	Topics           []TrendingTopic
}

// Topic returns the trending topic with the given name.
func (r *DailyReport) Topic(name string) (TrendingTopic, bool) {
	for _, t := range r.Topics {
		if t.Name == name {
			return t, true
		}
	}
	return TrendingTopic{}, false
}

// Article is a collected article as stored upstream.
type Article struct {
	ID          string
	Title       string
	URL         string
	Source      *string
	PublishedAt *time.Time
}

// ArticleAnalysis is the L1 analysis of one article.
type ArticleAnalysis struct {
	ArticleID  string
	Summary    string
	Label      string // "Positive", "Negative" or "Neutral"
	Score      float64
	AnalyzedAt *time.Time
}

// Entity is an entity the L1 analysis extracted from an article.
type Entity struct {
	Name string
	Type string
}

// ArticleDetail is everything the article panel shows.
type ArticleDetail struct {
	Article  Article
	Analysis ArticleAnalysis
	Entities []Entity
}

// SearchResult is one hit of a summary search.
type SearchResult struct {
	Article  Article
	Analysis ArticleAnalysis
}

// TopicQuery selects the articles related to a trending topic.
type TopicQuery struct {
	Topic    string
	Category string
	Date     string // report date; articles published after it are excluded
	Limit    int
}

// Store is a read-only view of the analytics tables.
type Store interface {
	ListReportDates(ctx context.Context, limit int) ([]string, error)
	LatestReportDate(ctx context.Context) (string, error)
	ReportsForDate(ctx context.Context, date string) ([]DailyReport, error)
	ArticlesForTopic(ctx context.Context, q TopicQuery) ([]Article, error)
	ArticleDetail(ctx context.Context, articleID string) (*ArticleDetail, error)
	SearchSummaries(ctx context.Context, term string, limit int) ([]SearchResult, error)
}

// ValidateDate checks that date is a YYYY-MM-DD calendar date.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// NextDay returns the day after date, for exclusive upper bounds.
func NextDay(date string) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", ErrInvalidDate
	}
	return d.AddDate(0, 0, 1).Format(DateLayout), nil
}

// NormalizeSearchTerm trims term and rejects terms that are too short.
func NormalizeSearchTerm(term string) (string, error) {
	term = strings.TrimSpace(term)
	if len([]rune(term)) < MinSearchLength {
		return "", ErrQueryTooShort
	}
	return term, nil
}

// SentimentClass maps a sentiment label to a lower-case CSS class.
func SentimentClass(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "positive":
		return "positive"
	case "negative":
		return "negative"
	default:
		return "neutral"
	}
}
