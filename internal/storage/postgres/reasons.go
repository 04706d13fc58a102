package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/wird/internal/models"
)

func (s *Store) ListReasons(ctx context.Context) ([]models.CustomReason, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT text, created_at
		FROM custom_reasons
		WHERE user_id = $1
		ORDER BY created_at, reason_key`, s.userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reasons := []models.CustomReason{}
	for rows.Next() {
		var r models.CustomReason
		if err := rows.Scan(&r.Text, &r.CreatedAt); err != nil {
			return nil, err
		}
		reasons = append(reasons, r)
	}
	return reasons, rows.Err()
}

func (s *Store) UpsertReason(ctx context.Context, reason models.CustomReason) ([]models.CustomReason, error) {
	key := models.ReasonKey(reason.Text)
	if key == "" {
		return nil, fmt.Errorf("reason text cannot be empty")
	}
	createdAt := reason.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO custom_reasons (user_id, reason_key, text, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, reason_key) DO NOTHING`,
		s.userID, key, strings.TrimSpace(reason.Text), createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save reason %q: %w", reason.Text, err)
	}
	return s.ListReasons(ctx)
}

func (s *Store) DeleteReason(ctx context.Context, text string) ([]models.CustomReason, error) {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM custom_reasons WHERE user_id = $1 AND reason_key = $2",
		s.userID, models.ReasonKey(text))
	if err != nil {
		return nil, fmt.Errorf("failed to delete reason %q: %w", text, err)
	}
	return s.ListReasons(ctx)
}
