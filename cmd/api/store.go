package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/rdflg/internal/config"
	domain "github.com/bryanwahyu/rdflg/internal/domain/tos"
	mysqlp "github.com/bryanwahyu/rdflg/internal/infra/db/mysql"
	"github.com/bryanwahyu/rdflg/internal/infra/db/postgres"
	"github.com/bryanwahyu/rdflg/internal/middleware"
)

const storePingTimeout = 5 * time.Second

// setupHistory never fails startup. An unreachable store is kept (the pool
// reconnects on later reads, which degrade per request until then); an
// unusable DSN falls back to EmptyHistory. The returned checker, if any,
// reports the store on /health.
func setupHistory(ctx context.Context, cfg *config.Config, log *logrus.Logger) (domain.HistoryStore, middleware.HealthChecker, func()) {
	noop := func() {}
	if !cfg.StoreEnabled() {
		log.Warn("no history store configured; enterprise comparisons use an empty community aggregate")
		return domain.EmptyHistory{}, nil, noop
	}

	entry := log.WithField("driver", cfg.Store.Driver)
	db, repo, err := openHistory(cfg)
	if err != nil {
		err = fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		entry.WithError(err).Warn("history store disabled; enterprise comparisons use an empty community aggregate")
		return domain.EmptyHistory{}, middleware.CheckerFunc(func(context.Context) error { return err }), noop
	}

	check := &middleware.DatabaseHealthChecker{DB: db}
	pingCtx, cancel := context.WithTimeout(ctx, storePingTimeout)
	defer cancel()
	if err := check.Check(pingCtx); err != nil {
		entry.WithError(fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)).
			Warn("history store unreachable at startup; serving with degraded community data")
	}
	return repo, check, func() { _ = db.Close() }
}

func openHistory(cfg *config.Config) (*sql.DB, domain.HistoryStore, error) {
	switch cfg.Store.Driver {
	case "mysql":
		dsn := cfg.Store.DSN
		if dsn == "" {
			dsn = mysqlp.DSN(cfg.Store.Host, cfg.Store.Port, cfg.Store.User, cfg.Store.Password, cfg.Store.Name)
		}
		db, err := mysqlp.Open(dsn)
		if err != nil {
			return nil, nil, err
		}
		return db, mysqlp.NewAnalysisRepository(db), nil
	default:
		db, err := postgres.Open(cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		return db, postgres.NewAnalysisRepository(db), nil
	}
}
