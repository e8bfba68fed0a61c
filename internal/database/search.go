package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/TobiSchelling/trendboard/internal/news"
)

const defaultSearchLimit = 20

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchSummaries runs a free-text search over ai_summary. Postgres uses its full
// text search; the SQLite mirror falls back to a case-insensitive substring match.
func (db *DB) SearchSummaries(ctx context.Context, term string, limit int) ([]news.SearchResult, error) {
	term, err := news.NormalizeSearchTerm(term)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	query := `SELECT CAST(a.article_id AS TEXT), a.title, a.url, a.source_name, CAST(a.publication_date AS TEXT),
		s.ai_summary, s.sentiment_label, s.sentiment_score, CAST(s.analyzed_at AS TEXT)
		FROM l1_analysis_sentiment s JOIN raw_articles a ON a.article_id = s.article_id`
	arg := term
	if db.driver == DriverPostgres {
		query += " WHERE to_tsvector('simple', s.ai_summary) @@ plainto_tsquery('simple', ?)"
	} else {
		query += ` WHERE s.ai_summary LIKE ? ESCAPE '\'`
		arg = "%" + likeEscaper.Replace(term) + "%"
	}
	query += " ORDER BY s.analyzed_at DESC NULLS LAST, a.article_id DESC LIMIT ?"

	rows, err := db.conn.QueryContext(ctx, db.rebind(query), arg, limit)
	if err != nil {
		return nil, fmt.Errorf("searching summaries: %w", err)
	}
	defer rows.Close()

	var results []news.SearchResult
	for rows.Next() {
		var r news.SearchResult
		var published, analyzed *string
		if err := rows.Scan(&r.Article.ID, &r.Article.Title, &r.Article.URL, &r.Article.Source, &published,
			&r.Analysis.Summary, &r.Analysis.Label, &r.Analysis.Score, &analyzed); err != nil {
			return nil, fmt.Errorf("searching summaries: %w", err)
		}
		r.Analysis.ArticleID = r.Article.ID
		if published != nil {
			r.Article.PublishedAt = news.ParseTimestamp(*published)
		}
		if analyzed != nil {
			r.Analysis.AnalyzedAt = news.ParseTimestamp(*analyzed)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
