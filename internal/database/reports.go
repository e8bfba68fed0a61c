package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/TobiSchelling/trendboard/internal/news"
)

// ListReportDates returns distinct report dates, newest first.
func (db *DB) ListReportDates(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := db.conn.QueryContext(ctx, db.rebind(
		`SELECT DISTINCT CAST(report_date AS TEXT) AS d FROM daily_reports
		ORDER BY d DESC LIMIT ?`), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing report dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("listing report dates: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// LatestReportDate returns the newest report date, news.ErrNotFound if there are
// no reports.
func (db *DB) LatestReportDate(ctx context.Context) (string, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT CAST(report_date AS TEXT) AS d FROM daily_reports ORDER BY d DESC LIMIT 1",
	)
	var d string
	if err := row.Scan(&d); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", news.ErrNotFound
		}
		return "", fmt.Errorf("latest report date: %w", err)
	}
	return d, nil
}

// ReportsForDate returns every category report for a date, ordered by category.
func (db *DB) ReportsForDate(ctx context.Context, date string) ([]news.DailyReport, error) {
	if err := news.ValidateDate(date); err != nil {
		return nil, err
	}
	rows, err := db.conn.QueryContext(ctx, db.rebind(
		`SELECT CAST(report_date AS TEXT), category, report_summary,
		COALESCE(overall_sentiment_score, 0), CAST(trending_topics AS TEXT)
		FROM daily_reports WHERE report_date = ? ORDER BY category`), date,
	)
	if err != nil {
		return nil, fmt.Errorf("reports for %s: %w", date, err)
	}
	defer rows.Close()

	var reports []news.DailyReport
	for rows.Next() {
		var r news.DailyReport
		var topics sql.NullString
		if err := rows.Scan(&r.Date, &r.Category, &r.Summary, &r.OverallSentiment, &topics); err != nil {
			return nil, fmt.Errorf("reports for %s: %w", date, err)
		}
		if r.Topics, err = news.DecodeTopics([]byte(topics.String)); err != nil {
			return nil, fmt.Errorf("report %s/%s: %w", date, r.Category, err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// Stats contains aggregate counts of the analytics tables.
type Stats struct {
	Reports  int
	Dates    int
	Articles int
	Analyses int
	Entities int
}

// GetStats returns aggregate database statistics.
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	s := &Stats{}

	queries := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM daily_reports", &s.Reports},
		{"SELECT COUNT(DISTINCT report_date) FROM daily_reports", &s.Dates},
		{"SELECT COUNT(*) FROM raw_articles", &s.Articles},
		{"SELECT COUNT(*) FROM l1_analysis_sentiment", &s.Analyses},
		{"SELECT COUNT(*) FROM l1_analysis_entities", &s.Entities},
	}

	for _, q := range queries {
		if err := db.conn.QueryRowContext(ctx, q.sql).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	return s, nil
}
