package postgrest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/TobiSchelling/trendboard/internal/news"
)

// rowID accepts both numeric and string primary keys.
type rowID string

func (id *rowID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = rowID(s)
		return nil
	}
	*id = rowID(b)
	return nil
}

type reportRow struct {
	ReportDate     string          `json:"report_date"`
	Category       string          `json:"category"`
	Summary        string          `json:"report_summary"`
	OverallScore   *float64        `json:"overall_sentiment_score"`
	TrendingTopics json.RawMessage `json:"trending_topics"`
}

func (r reportRow) toReport() (news.DailyReport, error) {
	rep := news.DailyReport{
		Date:     r.ReportDate,
		Category: r.Category,
		Summary:  r.Summary,
	}
	if r.OverallScore != nil {
		rep.OverallSentiment = *r.OverallScore
	}
	topics, err := news.DecodeTopics(r.TrendingTopics)
	if err != nil {
		return rep, fmt.Errorf("report %s/%s: %w", r.ReportDate, r.Category, err)
	}
	rep.Topics = topics
	return rep, nil
}

type articleRow struct {
	ID              rowID   `json:"article_id"`
	Title           string  `json:"title"`
	URL             string  `json:"url"`
	SourceName      *string `json:"source_name"`
	PublicationDate *string `json:"publication_date"`
}

func (r articleRow) toArticle() news.Article {
	a := news.Article{
		ID:     string(r.ID),
		Title:  r.Title,
		URL:    r.URL,
		Source: r.SourceName,
	}
	if r.PublicationDate != nil {
		a.PublishedAt = news.ParseTimestamp(*r.PublicationDate)
	}
	return a
}

type analysisRow struct {
	ArticleID  rowID       `json:"article_id"`
	Summary    string      `json:"ai_summary"`
	Label      string      `json:"sentiment_label"`
	Score      float64     `json:"sentiment_score"`
	AnalyzedAt *string     `json:"analyzed_at"`
	Article    *articleRow `json:"raw_articles"`
}

func (r analysisRow) toAnalysis() news.ArticleAnalysis {
	a := news.ArticleAnalysis{
		ArticleID: string(r.ArticleID),
		Summary:   r.Summary,
		Label:     r.Label,
		Score:     r.Score,
	}
	if r.AnalyzedAt != nil {
		a.AnalyzedAt = news.ParseTimestamp(*r.AnalyzedAt)
	}
	return a
}

type entityMapRow struct {
	Entity *struct {
		Name string  `json:"entity_name"`
		Type *string `json:"entity_type"`
	} `json:"l1_analysis_entities"`
}
