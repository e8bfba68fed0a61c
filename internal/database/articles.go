package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/TobiSchelling/trendboard/internal/news"
)

const defaultArticleLimit = 50

// ArticlesForTopic returns the articles whose analysis extracted the topic entity,
// newest first.
func (db *DB) ArticlesForTopic(ctx context.Context, q news.TopicQuery) ([]news.Article, error) {
	query := `SELECT CAST(a.article_id AS TEXT), a.title, a.url, a.source_name, CAST(a.publication_date AS TEXT)
		FROM raw_articles a
		JOIN article_entity_map m ON m.article_id = a.article_id
		JOIN l1_analysis_entities e ON e.entity_id = m.entity_id
		LEFT JOIN tracked_topics t ON t.topic_id = a.topic_id
		WHERE e.entity_name = ?`
	args := []any{q.Topic}
	if q.Category != "" {
		query += " AND t.category = ?"
		args = append(args, q.Category)
	}
	if q.Date != "" {
		end, err := news.NextDay(q.Date)
		if err != nil {
			return nil, err
		}
		query += " AND (a.publication_date IS NULL OR a.publication_date < ?)"
		args = append(args, end)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultArticleLimit
	}
	query += " ORDER BY a.publication_date DESC NULLS LAST, a.article_id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("articles for topic %q: %w", q.Topic, err)
	}
	defer rows.Close()

	var articles []news.Article
	for rows.Next() {
		var a news.Article
		var published *string
		if err := rows.Scan(&a.ID, &a.Title, &a.URL, &a.Source, &published); err != nil {
			return nil, fmt.Errorf("articles for topic %q: %w", q.Topic, err)
		}
		if published != nil {
			a.PublishedAt = news.ParseTimestamp(*published)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// ArticleDetail returns an article with its L1 analysis and extracted entities.
func (db *DB) ArticleDetail(ctx context.Context, articleID string) (*news.ArticleDetail, error) {
	articleID = strings.TrimSpace(articleID)
	row := db.conn.QueryRowContext(ctx, db.rebind(
		`SELECT CAST(a.article_id AS TEXT), a.title, a.url, a.source_name, CAST(a.publication_date AS TEXT),
		s.ai_summary, s.sentiment_label, s.sentiment_score, CAST(s.analyzed_at AS TEXT)
		FROM raw_articles a JOIN l1_analysis_sentiment s ON s.article_id = a.article_id
		WHERE CAST(a.article_id AS TEXT) = ?`), articleID,
	)

	var d news.ArticleDetail
	var published, analyzed *string
	if err := row.Scan(&d.Article.ID, &d.Article.Title, &d.Article.URL, &d.Article.Source, &published,
		&d.Analysis.Summary, &d.Analysis.Label, &d.Analysis.Score, &analyzed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, news.ErrNotFound
		}
		return nil, fmt.Errorf("article %s: %w", articleID, err)
	}
	d.Analysis.ArticleID = d.Article.ID
	if published != nil {
		d.Article.PublishedAt = news.ParseTimestamp(*published)
	}
	if analyzed != nil {
		d.Analysis.AnalyzedAt = news.ParseTimestamp(*analyzed)
	}

	entities, err := db.entitiesForArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	d.Entities = entities
	return &d, nil
}

func (db *DB) entitiesForArticle(ctx context.Context, articleID string) ([]news.Entity, error) {
	rows, err := db.conn.QueryContext(ctx, db.rebind(
		`SELECT e.entity_name, COALESCE(e.entity_type, '')
		FROM article_entity_map m JOIN l1_analysis_entities e ON e.entity_id = m.entity_id
		WHERE CAST(m.article_id AS TEXT) = ? ORDER BY e.entity_name`), articleID,
	)
	if err != nil {
		return nil, fmt.Errorf("entities for article %s: %w", articleID, err)
	}
	defer rows.Close()

	var entities []news.Entity
	for rows.Next() {
		var e news.Entity
		if err := rows.Scan(&e.Name, &e.Type); err != nil {
			return nil, fmt.Errorf("entities for article %s: %w", articleID, err)
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}
