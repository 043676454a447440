package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	domain "github.com/bryanwahyu/rdflg/internal/domain/tos"
)

// AnalysisRepository reads stored analyses from tos_analyses, where the
// list columns are TEXT[].
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
LIMIT $1;`
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
		if err := rows.Scan(&a.ID, &service, &score,
			pq.Array(&a.RedFlags), pq.Array(&a.Cautions), pq.Array(&a.Positives),
			&created,
		); err != nil {
			return nil, err
		}
		// nullable columns read as zero values
		a.Service = service.String
		a.RiskScore = int(score.Int64)
		a.CreatedAt = created.Time
		out = append(out, a)
	}
	return out, rows.Err()
}
