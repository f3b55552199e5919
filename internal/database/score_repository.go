package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/esg-analyzer/internal/domain"
)

// ErrScoreNotFound is returned when a subject has no stored scores.
var ErrScoreNotFound = errors.New("score not found")

// ScoreRepository handles database operations for ESG score history.
type ScoreRepository struct {
	db *sqlx.DB
}

// NewScoreRepository creates a new score repository.
func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// scoreRow mirrors one row of the esg_scores table.
type scoreRow struct {
	ID         int       `db:"id"`
	Subject    string    `db:"subject"`
	EScore     float64   `db:"e_score"`
	SScore     float64   `db:"s_score"`
	GScore     float64   `db:"g_score"`
	Overall    float64   `db:"overall_score"`
	Confidence float64   `db:"confidence"`
	DataPoints int       `db:"data_points"`
	RecordedAt time.Time `db:"recorded_at"`
}

// SaveScore appends a score set to the subject's history.
func (r *ScoreRepository) SaveScore(ctx context.Context, subject string, scores domain.ESGScoreSet) error {
	query := `
		INSERT INTO esg_scores (subject, e_score, s_score, g_score, overall_score, confidence, data_points, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		subject,
		scores.Environmental,
		scores.Social,
		scores.Governance,
		scores.Overall,
		scores.Confidence,
		scores.DataPoints,
	)
	if err != nil {
		return fmt.Errorf("failed to save score: %w", err)
	}

	return nil
}

// LatestScore returns the most recently recorded score set for the subject.
func (r *ScoreRepository) LatestScore(ctx context.Context, subject string) (*domain.ESGScoreSet, error) {
	var row scoreRow
	query := `
		SELECT id, subject, e_score, s_score, g_score, overall_score, confidence, data_points, recorded_at
		FROM esg_scores
		WHERE subject = $1
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &row, query, subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrScoreNotFound, subject)
		}
		return nil, fmt.Errorf("failed to get latest score: %w", err)
	}

	return &domain.ESGScoreSet{
		Environmental: row.EScore,
		Social:        row.SScore,
		Governance:    row.GScore,
		Overall:       row.Overall,
		Confidence:    row.Confidence,
		DataPoints:    row.DataPoints,
	}, nil
}

// ScoreHistory returns up to limit score sets for the subject, newest first.
func (r *ScoreRepository) ScoreHistory(ctx context.Context, subject string, limit int) ([]domain.ESGScoreSet, error) {
	if limit <= 0 {
		limit = 30
	}

	var rows []scoreRow
	query := `
		SELECT id, subject, e_score, s_score, g_score, overall_score, confidence, data_points, recorded_at
		FROM esg_scores
		WHERE subject = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`

	if err := r.db.SelectContext(ctx, &rows, query, subject, limit); err != nil {
		return nil, fmt.Errorf("failed to get score history: %w", err)
	}

	out := make([]domain.ESGScoreSet, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ESGScoreSet{
			Environmental: row.EScore,
			Social:        row.SScore,
			Governance:    row.GScore,
			Overall:       row.Overall,
			Confidence:    row.Confidence,
			DataPoints:    row.DataPoints,
		})
	}
	return out, nil
}
