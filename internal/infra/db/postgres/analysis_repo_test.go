package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisRepository_RecentAnalyses(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "service", "risk_score", "red_flags", "cautions", "positives", "created_at"}).
		AddRow("a1", "TestCo", 70, `{"Forced arbitration","Data resale"}`, `{}`, `{"Clear opt-out"}`, created)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tos_analyses")).WithArgs(25).WillReturnRows(rows)

	got, err := NewAnalysisRepository(db).RecentAnalyses(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "TestCo", got[0].Service)
	assert.Equal(t, 70, got[0].RiskScore)
	assert.Equal(t, []string{"Forced arbitration", "Data resale"}, got[0].RedFlags)
	assert.Empty(t, got[0].Cautions)
	assert.Equal(t, []string{"Clear opt-out"}, got[0].Positives)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisRepository_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM tos_analyses")).WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "service", "risk_score", "red_flags", "cautions", "positives", "created_at"}))

	got, err := NewAnalysisRepository(db).RecentAnalyses(context.Background(), -1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAnalysisRepository_NullColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "service", "risk_score", "red_flags", "cautions", "positives", "created_at"}).
		AddRow("a1", "TestCo", 70, `{"Forced arbitration"}`, `{}`, `{}`, created).
		AddRow("a2", nil, nil, nil, nil, `{"Clear opt-out"}`, nil)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tos_analyses")).WithArgs(50).WillReturnRows(rows)

	got, err := NewAnalysisRepository(db).RecentAnalyses(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 70, got[0].RiskScore)
	assert.Equal(t, 0, got[1].RiskScore)
	assert.True(t, got[1].CreatedAt.IsZero())
	assert.Nil(t, got[1].RedFlags)
	assert.Equal(t, []string{"Clear opt-out"}, got[1].Positives)
}
