package mysql

import (
	"context"
	"database/sql"

	domain "github.com/bryanwahyu/rdflg/internal/domain/tos"
)

// AnalysisRepository reads stored analyses from tos_analyses, where the
// list columns are JSON.
type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// RecentAnalyses returns up to limit analyses, newest first
func (r *AnalysisRepository) RecentAnalyses(ctx context.Context, limit int) ([]domain.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id, service, risk_score, red_flags, cautions, positives, created_at
FROM tos_analyses
ORDER BY created_at DESC, id DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AnalysisRecord
	for rows.Next() {
		var a domain.AnalysisRecord
		var service sql.NullString
		var score sql.NullInt64
		var created sql.NullTime
		var redFlags, cautions, positives []byte
		if err := rows.Scan(&a.ID, &service, &score, &redFlags, &cautions, &positives, &created); err != nil {
			return nil, err
		}
		a.Service = service.String
		a.RiskScore = int(score.Int64)
		a.CreatedAt = created.Time
		if a.RedFlags, err = stringList("red_flags", redFlags); err != nil {
			return nil, err
		}
		if a.Cautions, err = stringList("cautions", cautions); err != nil {
			return nil, err
		}
		if a.Positives, err = stringList("positives", positives); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
