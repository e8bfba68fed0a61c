package database

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// schemaVersion reads PRAGMA user_version.
func schemaVersion(conn *sql.DB) (int, error) {
	var v int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// migrate applies every mirror migration above the recorded user_version.
// Mirrors copied from an upstream dump start at version 0 with some tables
// already present; migration DDL is idempotent, so the missing tables are
// created and the existing ones are left alone.
func migrate(conn *sql.DB) error {
	current, err := schemaVersion(conn)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := apply(conn, m); err != nil {
			return err
		}
	}
	return nil
}

func apply(conn *sql.DB, m Migration) error {
	logrus.Infof("applying mirror migration %d: %s", m.Version, m.Description)

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", m.Version, err)
	}
	if err := m.Up(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", m.Version, err)
	}

	// modernc/sqlite does not accept user_version inside the transaction.
	if _, err := conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		return fmt.Errorf("recording version %d: %w", m.Version, err)
	}
	return nil
}
