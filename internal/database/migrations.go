package database

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of mirror schema migrations. The tables copy the
// upstream names and columns so the same queries run against both backends.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "upstream mirror schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS tracked_topics (
    topic_id INTEGER PRIMARY KEY AUTOINCREMENT,
    category TEXT NOT NULL,
    keyword TEXT UNIQUE NOT NULL,
    is_active INTEGER DEFAULT 1
);

CREATE TABLE IF NOT EXISTS raw_articles (
    article_id INTEGER PRIMARY KEY AUTOINCREMENT,
    topic_id INTEGER REFERENCES tracked_topics(topic_id),
    url TEXT UNIQUE NOT NULL,
    title TEXT NOT NULL,
    snippet TEXT,
    source_name TEXT,
    publication_date TEXT,
    created_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS l1_analysis_sentiment (
    analysis_id INTEGER PRIMARY KEY AUTOINCREMENT,
    article_id INTEGER UNIQUE NOT NULL REFERENCES raw_articles(article_id),
    ai_summary TEXT NOT NULL,
    sentiment_label TEXT NOT NULL,
    sentiment_score REAL NOT NULL DEFAULT 0,
    analyzed_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS l1_analysis_entities (
    entity_id INTEGER PRIMARY KEY AUTOINCREMENT,
    entity_name TEXT UNIQUE NOT NULL,
    entity_type TEXT
);

CREATE TABLE IF NOT EXISTS article_entity_map (
    article_id INTEGER NOT NULL REFERENCES raw_articles(article_id),
    entity_id INTEGER NOT NULL REFERENCES l1_analysis_entities(entity_id),
    PRIMARY KEY (article_id, entity_id)
);

CREATE TABLE IF NOT EXISTS daily_reports (
    report_id INTEGER PRIMARY KEY AUTOINCREMENT,
    report_date TEXT NOT NULL,
    category TEXT NOT NULL,
    report_summary TEXT NOT NULL,
    overall_sentiment_score REAL,
    trending_topics TEXT,
    UNIQUE (report_date, category)
);

CREATE INDEX IF NOT EXISTS idx_raw_articles_topic ON raw_articles(topic_id);
CREATE INDEX IF NOT EXISTS idx_raw_articles_published ON raw_articles(publication_date);
CREATE INDEX IF NOT EXISTS idx_entity_map_entity ON article_entity_map(entity_id);
CREATE INDEX IF NOT EXISTS idx_daily_reports_date ON daily_reports(report_date);
`)
			return err
		},
	},
}

// latestVersion returns the highest migration version number.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
