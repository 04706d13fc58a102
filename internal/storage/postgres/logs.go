package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/wird/internal/models"
)

func (s *Store) ListLogs(ctx context.Context) ([]models.HabitLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, habit_id, date, value, status, reason, timestamp
		FROM habit_logs
		WHERE user_id = $1
		ORDER BY date, habit_id`, s.userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.HabitLog{}
	for rows.Next() {
		var l models.HabitLog
		if err := rows.Scan(&l.ID, &l.HabitID, &l.Date, &l.Value, &l.Status, &l.Reason, &l.Timestamp); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *Store) UpsertLog(ctx context.Context, log models.HabitLog) ([]models.HabitLog, error) {
	id := log.ID
	if id == "" {
		id = models.LogID(log.HabitID, log.Date)
	}
	ts := log.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habit_logs (user_id, id, habit_id, date, value, status, reason, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, habit_id, date) DO UPDATE SET
			id = EXCLUDED.id,
			value = EXCLUDED.value,
			status = EXCLUDED.status,
			reason = EXCLUDED.reason,
			timestamp = EXCLUDED.timestamp`,
		s.userID, id, log.HabitID, log.Date, log.Value, log.Status, log.Reason, ts)
	if err != nil {
		return nil, fmt.Errorf("failed to save log %s: %w", log.Key(), err)
	}

	return s.ListLogs(ctx)
}

func (s *Store) DeleteLog(ctx context.Context, habitID, date string) ([]models.HabitLog, error) {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM habit_logs WHERE user_id = $1 AND habit_id = $2 AND date = $3",
		s.userID, habitID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to delete log %s|%s: %w", habitID, date, err)
	}
	return s.ListLogs(ctx)
}
