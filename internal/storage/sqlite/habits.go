package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/models"
)

const habitColumns = `id, name, name_ar, type, daily_target, is_active, sort_order, start_date,
	affects_score, require_reason, recurrence_kind, weekdays, lunar_start_day, lunar_end_day, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var weekdays, createdAt string

	err := row.Scan(&h.ID, &h.Name, &h.NameAr, &h.Type, &h.DailyTarget, &h.IsActive, &h.Order, &h.StartDate,
		&h.AffectsScore, &h.RequireReason, &h.Recurrence.Kind, &weekdays,
		&h.Recurrence.LunarStartDay, &h.Recurrence.LunarEndDay, &createdAt)
	if err != nil {
		return models.Habit{}, err
	}

	if err := json.Unmarshal([]byte(weekdays), &h.Recurrence.Weekdays); err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse weekdays for habit %s: %w", h.ID, err)
	}
	if len(h.Recurrence.Weekdays) == 0 {
		h.Recurrence.Weekdays = nil
	}

	h.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	return h, nil
}

func (s *Store) ListHabits(ctx context.Context) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+habitColumns+" FROM habits ORDER BY sort_order, created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpsertHabit(ctx context.Context, habit models.Habit) ([]models.Habit, error) {
	weekdays := habit.Recurrence.Weekdays
	if weekdays == nil {
		weekdays = []time.Weekday{}
	}
	encoded, err := json.Marshal(weekdays)
	if err != nil {
		return nil, fmt.Errorf("failed to encode weekdays: %w", err)
	}

	kind := habit.Recurrence.Kind
	if kind == "" {
		kind = constants.RecurrenceNone
	}
	createdAt := habit.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			name_ar = excluded.name_ar,
			type = excluded.type,
			daily_target = excluded.daily_target,
			is_active = excluded.is_active,
			sort_order = excluded.sort_order,
			start_date = excluded.start_date,
			affects_score = excluded.affects_score,
			require_reason = excluded.require_reason,
			recurrence_kind = excluded.recurrence_kind,
			weekdays = excluded.weekdays,
			lunar_start_day = excluded.lunar_start_day,
			lunar_end_day = excluded.lunar_end_day`,
		habit.ID, habit.Name, habit.NameAr, habit.Type, habit.DailyTarget, habit.IsActive, habit.Order, habit.StartDate,
		habit.AffectsScore, habit.RequireReason, kind, string(encoded),
		habit.Recurrence.LunarStartDay, habit.Recurrence.LunarEndDay, formatTime(createdAt))
	if err != nil {
		return nil, fmt.Errorf("failed to save habit %s: %w", habit.ID, err)
	}

	return s.ListHabits(ctx)
}

func (s *Store) DeleteHabit(ctx context.Context, id string) ([]models.Habit, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM habit_logs WHERE habit_id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to delete logs for habit %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM habits WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to delete habit %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.ListHabits(ctx)
}
