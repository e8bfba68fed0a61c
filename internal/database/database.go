// Package database implements news.Store over database/sql. It reads the upstream
// Postgres tables directly through the pgx stdlib driver, or a local SQLite mirror of
// the same schema.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/TobiSchelling/trendboard/internal/news"
)

var _ news.Store = (*DB)(nil)

// Driver names as registered with database/sql.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// DB wraps a read-only connection to the analytics tables.
type DB struct {
	conn   *sql.DB
	driver string
	path   string
}

// Open creates or opens a SQLite mirror at the given path and brings its schema up
// to date.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	conn, err := sql.Open(DriverSQLite, dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &DB{conn: conn, driver: DriverSQLite, path: dbPath}, nil
}

// OpenPostgres connects to the upstream Postgres database. The schema is owned
// upstream, so no migrations run.
func OpenPostgres(ctx context.Context, dsn string) (*DB, error) {
	conn, err := sql.Open(DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(2)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &DB{conn: conn, driver: DriverPostgres}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path, empty for Postgres.
func (db *DB) Path() string {
	return db.path
}

// Driver returns the database/sql driver name in use.
func (db *DB) Driver() string {
	return db.driver
}

// rebind rewrites ? placeholders into $n for Postgres.
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
