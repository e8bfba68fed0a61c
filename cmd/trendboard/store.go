package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/TobiSchelling/trendboard/internal/config"
	"github.com/TobiSchelling/trendboard/internal/database"
	"github.com/TobiSchelling/trendboard/internal/metrics"
	"github.com/TobiSchelling/trendboard/internal/news"
	"github.com/TobiSchelling/trendboard/internal/postgrest"
)

// store is the configured backend, instrumented. db is set for the SQL backends.
type store struct {
	news.Store
	db *database.DB
}

func (s *store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func openStore(ctx context.Context) (*store, error) {
	sc := cfg.Store
	switch sc.Backend {
	case config.BackendREST:
		client, err := postgrest.New(sc.URL, sc.AnonKey, postgrest.Options{
			Timeout:   sc.Timeout,
			RateLimit: sc.RateLimit,
			Burst:     sc.Burst,
		})
		if err != nil {
			return nil, err
		}
		logrus.Debugf("using rest backend at %s", sc.URL)
		return &store{Store: metrics.InstrumentStore(client)}, nil

	case config.BackendPostgres:
		db, err := database.OpenPostgres(ctx, sc.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		logrus.Debug("using postgres backend")
		return &store{Store: metrics.InstrumentStore(db), db: db}, nil

	case config.BackendSQLite:
		db, err := database.Open(cfg.GetDBPath())
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		logrus.Debugf("using sqlite mirror at %s", db.Path())
		return &store{Store: metrics.InstrumentStore(db), db: db}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", sc.Backend)
}
