package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/esg-analyzer/internal/domain"
)

// AlertRepository handles database operations for risk alerts.
type AlertRepository struct {
	db *sqlx.DB
}

// NewAlertRepository creates a new alert repository.
func NewAlertRepository(db *sqlx.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// SaveAlert persists one risk event for the subject.
func (r *AlertRepository) SaveAlert(ctx context.Context, subject string, event domain.RiskEvent) error {
	query := `
		INSERT INTO risk_alerts (subject, excerpt, category, severity, sentiment_score, confidence, detected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		subject,
		event.Excerpt,
		event.Category,
		event.Severity,
		event.SentimentScore,
		event.Confidence,
		event.DetectedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save alert: %w", err)
	}

	return nil
}

// RecentAlerts returns up to limit alerts for the subject, newest first.
func (r *AlertRepository) RecentAlerts(ctx context.Context, subject string, limit int) ([]domain.RiskEvent, error) {
	if limit <= 0 {
		limit = 20
	}

	var alerts []domain.RiskEvent
	query := `
		SELECT excerpt, category, severity, sentiment_score, confidence, detected_at
		FROM risk_alerts
		WHERE subject = $1
		ORDER BY detected_at DESC
		LIMIT $2
	`

	if err := r.db.SelectContext(ctx, &alerts, query, subject, limit); err != nil {
		return nil, fmt.Errorf("failed to get alerts: %w", err)
	}

	return alerts, nil
}
