package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/wird/internal/models"
)

func (s *Store) ListReasons(ctx context.Context) ([]models.CustomReason, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT text, created_at FROM custom_reasons ORDER BY created_at, reason_key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reasons := []models.CustomReason{}
	for rows.Next() {
		var r models.CustomReason
		var createdAt string
		if err := rows.Scan(&r.Text, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for reason %q: %w", r.Text, err)
		}
		reasons = append(reasons, r)
	}
	return reasons, rows.Err()
}

// UpsertReason stores the reason unless one with the same key already exists;
// the first spelling wins.
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
		INSERT INTO custom_reasons (reason_key, text, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(reason_key) DO NOTHING`,
		key, strings.TrimSpace(reason.Text), formatTime(createdAt))
	if err != nil {
		return nil, fmt.Errorf("failed to save reason %q: %w", reason.Text, err)
	}
	return s.ListReasons(ctx)
}

func (s *Store) DeleteReason(ctx context.Context, text string) ([]models.CustomReason, error) {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM custom_reasons WHERE reason_key = ?", models.ReasonKey(text)); err != nil {
		return nil, fmt.Errorf("failed to delete reason %q: %w", text, err)
	}
	return s.ListReasons(ctx)
}
