package main

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/rdflg/internal/config"
	domain "github.com/bryanwahyu/rdflg/internal/domain/tos"
	mysqlp "github.com/bryanwahyu/rdflg/internal/infra/db/mysql"
	"github.com/bryanwahyu/rdflg/internal/infra/db/postgres"
)

func TestSetupHistory_NotConfigured(t *testing.T) {
	logger, hook := test.NewNullLogger()
	history, check, closeStore := setupHistory(context.Background(), &config.Config{}, logger)
	defer closeStore()

	assert.Equal(t, domain.EmptyHistory{}, history)
	assert.Nil(t, check)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestSetupHistory_UnreachableStoreStillServes(t *testing.T) {
	var cfg config.Config
	cfg.Store.Driver = "postgres"
	// nothing listens on port 1
	cfg.Store.DSN = "host=127.0.0.1 port=1 user=reader dbname=rdflg sslmode=disable connect_timeout=1"

	logger, hook := test.NewNullLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	history, check, closeStore := setupHistory(ctx, &cfg, logger)
	defer closeStore()

	assert.IsType(t, &postgres.AnalysisRepository{}, history)
	require.NotNil(t, check)
	assert.Error(t, check.Check(ctx), "health reports the store as down")

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.ErrorIs(t, hook.LastEntry().Data[logrus.ErrorKey].(error), domain.ErrStoreUnavailable)

	// per-request reads degrade instead of failing the process
	_, err := history.RecentAnalyses(ctx, 10)
	assert.Error(t, err)
}

func TestSetupHistory_BadDSNFallsBackToEmpty(t *testing.T) {
	var cfg config.Config
	cfg.Store.Driver = "mysql"
	cfg.Store.DSN = "not a dsn"

	logger, hook := test.NewNullLogger()
	history, check, closeStore := setupHistory(context.Background(), &cfg, logger)
	defer closeStore()

	assert.Equal(t, domain.EmptyHistory{}, history)
	require.NotNil(t, check)
	assert.ErrorIs(t, check.Check(context.Background()), domain.ErrStoreUnavailable)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestOpenHistory_PicksDriver(t *testing.T) {
	var cfg config.Config
	cfg.Store.Driver = "mysql"
	cfg.Store.Host, cfg.Store.Port, cfg.Store.User, cfg.Store.Name = "db", 3306, "reader", "rdflg"

	db, repo, err := openHistory(&cfg)
	require.NoError(t, err)
	defer db.Close()
	assert.IsType(t, &mysqlp.AnalysisRepository{}, repo)
}
