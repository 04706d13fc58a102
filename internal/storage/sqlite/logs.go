package sqlite

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
		ORDER BY date, habit_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.HabitLog{}
	for rows.Next() {
		var l models.HabitLog
		var ts string
		if err := rows.Scan(&l.ID, &l.HabitID, &l.Date, &l.Value, &l.Status, &l.Reason, &ts); err != nil {
			return nil, err
		}
		l.Timestamp, err = parseTime(ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp for log %s: %w", l.Key(), err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// UpsertLog writes the log for its (habit, date) pair, replacing any
// existing one.
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
		INSERT INTO habit_logs (id, habit_id, date, value, status, reason, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, date) DO UPDATE SET
			id = excluded.id,
			value = excluded.value,
			status = excluded.status,
			reason = excluded.reason,
			timestamp = excluded.timestamp`,
		id, log.HabitID, log.Date, log.Value, log.Status, log.Reason, formatTime(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to save log %s: %w", log.Key(), err)
	}

	return s.ListLogs(ctx)
}

func (s *Store) DeleteLog(ctx context.Context, habitID, date string) ([]models.HabitLog, error) {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM habit_logs WHERE habit_id = ? AND date = ?", habitID, date); err != nil {
		return nil, fmt.Errorf("failed to delete log %s|%s: %w", habitID, date, err)
	}
	return s.ListLogs(ctx)
}
