package postgres

import (
	"context"
	"fmt"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/models"
)

const habitColumns = `id, name, name_ar, type, daily_target, is_active, sort_order, start_date,
	affects_score, require_reason, recurrence_kind, weekdays, lunar_start_day, lunar_end_day, created_at`

func toWeekdays(values []int64) []time.Weekday {
	if len(values) == 0 {
		return nil
	}
	days := make([]time.Weekday, len(values))
	for i, v := range values {
		days[i] = time.Weekday(v)
	}
	return days
}

func fromWeekdays(days []time.Weekday) []int64 {
	values := make([]int64, len(days))
	for i, d := range days {
		values[i] = int64(d)
	}
	return values
}

func (s *Store) ListHabits(ctx context.Context) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+habitColumns+`
		FROM habits
		WHERE user_id = $1
		ORDER BY sort_order, created_at, id`, s.userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		var h models.Habit
		var weekdays []int64
		err := rows.Scan(&h.ID, &h.Name, &h.NameAr, &h.Type, &h.DailyTarget, &h.IsActive, &h.Order, &h.StartDate,
			&h.AffectsScore, &h.RequireReason, &h.Recurrence.Kind, pq.Array(&weekdays),
			&h.Recurrence.LunarStartDay, &h.Recurrence.LunarEndDay, &h.CreatedAt)
		if err != nil {
			return nil, err
		}
		h.Recurrence.Weekdays = toWeekdays(weekdays)
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpsertHabit(ctx context.Context, habit models.Habit) ([]models.Habit, error) {
	kind := habit.Recurrence.Kind
	if kind == "" {
		kind = constants.RecurrenceNone
	}
	createdAt := habit.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (user_id, `+habitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (user_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			name_ar = EXCLUDED.name_ar,
			type = EXCLUDED.type,
			daily_target = EXCLUDED.daily_target,
			is_active = EXCLUDED.is_active,
			sort_order = EXCLUDED.sort_order,
			start_date = EXCLUDED.start_date,
			affects_score = EXCLUDED.affects_score,
			require_reason = EXCLUDED.require_reason,
			recurrence_kind = EXCLUDED.recurrence_kind,
			weekdays = EXCLUDED.weekdays,
			lunar_start_day = EXCLUDED.lunar_start_day,
			lunar_end_day = EXCLUDED.lunar_end_day`,
		s.userID, habit.ID, habit.Name, habit.NameAr, habit.Type, habit.DailyTarget, habit.IsActive, habit.Order,
		habit.StartDate, habit.AffectsScore, habit.RequireReason, kind, pq.Array(fromWeekdays(habit.Recurrence.Weekdays)),
		habit.Recurrence.LunarStartDay, habit.Recurrence.LunarEndDay, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save habit %s: %w", habit.ID, err)
	}

	return s.ListHabits(ctx)
}

// DeleteHabit removes the habit and its logs in a single transaction.
func (s *Store) DeleteHabit(ctx context.Context, id string) ([]models.Habit, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM habit_logs WHERE user_id = $1 AND habit_id = $2", s.userID, id); err != nil {
		return nil, fmt.Errorf("failed to delete logs for habit %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM habits WHERE user_id = $1 AND id = $2", s.userID, id); err != nil {
		return nil, fmt.Errorf("failed to delete habit %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.ListHabits(ctx)
}
