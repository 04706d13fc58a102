package coordinator

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/models"
	"github.com/julianstephens/wird/internal/notifier"
	"github.com/julianstephens/wird/internal/utils"
)

// SaveLog records a day's result for a habit, replacing any existing log for
// the same (habit, date).
func (c *Coordinator) SaveLog(ctx context.Context, l models.HabitLog) error {
	const op = "save log"
	if err := c.authorize(op); err != nil {
		return err
	}

	c.mu.Lock()
	habit, err := c.validateLog(l)
	if err != nil {
		c.mu.Unlock()
		return c.reject(op, err)
	}

	l.ID = models.LogID(l.HabitID, l.Date)
	l.Reason = strings.TrimSpace(l.Reason)
	if l.Timestamp.IsZero() {
		l.Timestamp = c.now().UTC()
	}

	key := l.Key()
	m := &mutation{key: logKey(key), kind: kindLog, logKey: key}
	m.log = capture(c.logs, matchLog(key))
	if m.log.present {
		c.logs[m.log.index] = l
	} else {
		c.logs = append(c.logs, l)
	}
	c.track(m)
	s := c.queue.acquire(m.key)
	c.mu.Unlock()
	c.changed()

	c.dispatch(ctx, []*slot{s}, "Logged "+habit.Name, "Could not save "+habit.Name,
		func(ctx context.Context) error {
			_, err := c.store.UpsertLog(ctx, l)
			return err
		},
		func(err error) bool { return c.complete(m, err) },
	)
	return nil
}

// validateLog checks l against the habit it references. Callers hold c.mu.
func (c *Coordinator) validateLog(l models.HabitLog) (models.Habit, error) {
	if l.HabitID == "" {
		return models.Habit{}, fmt.Errorf("%w: habit id is required", ErrInvalidLog)
	}
	if !utils.ValidateDateFormat(l.Date) {
		return models.Habit{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidLog, l.Date)
	}
	if !models.ValidStatus(l.Status) {
		return models.Habit{}, fmt.Errorf("%w: unknown status %q", ErrInvalidLog, l.Status)
	}

	i := slices.IndexFunc(c.habits, matchHabit(l.HabitID))
	if i < 0 {
		return models.Habit{}, fmt.Errorf("%w: %s", ErrUnknownHabit, l.HabitID)
	}
	habit := c.habits[i]

	switch habit.Type {
	case constants.HabitPrayer:
		if l.Value < constants.PrayerMissed || l.Value > constants.PrayerTakbirah {
			return habit, fmt.Errorf("%w: prayer level must be %d-%d", ErrInvalidLog, constants.PrayerMissed, constants.PrayerTakbirah)
		}
	default:
		if l.Value < 0 {
			return habit, fmt.Errorf("%w: value cannot be negative", ErrInvalidLog)
		}
	}
	return habit, nil
}

// DeleteLog removes the log for (habitID, date).
func (c *Coordinator) DeleteLog(ctx context.Context, habitID, date string) error {
	const op = "delete log"
	if err := c.authorize(op); err != nil {
		return err
	}

	key := models.LogKey{HabitID: habitID, Date: date}

	c.mu.Lock()
	m := &mutation{key: logKey(key), kind: kindLog, logKey: key}
	m.log = capture(c.logs, matchLog(key))
	if !m.log.present {
		c.mu.Unlock()
		return c.reject(op, fmt.Errorf("%w: no log for %s on %s", ErrInvalidLog, habitID, date))
	}
	c.logs = slices.Delete(c.logs, m.log.index, m.log.index+1)
	c.track(m)
	s := c.queue.acquire(m.key)
	c.mu.Unlock()
	c.changed()

	c.dispatch(ctx, []*slot{s}, "Removed log for "+date, "Could not remove log for "+date,
		func(ctx context.Context) error {
			_, err := c.store.DeleteLog(ctx, habitID, date)
			return err
		},
		func(err error) bool { return c.complete(m, err) },
	)
	return nil
}

// SaveHabit creates or updates a habit. New habits get an id, a creation
// time and, when Order is zero, a place at the end of the list.
func (c *Coordinator) SaveHabit(ctx context.Context, h models.Habit) error {
	const op = "save habit"
	if err := c.authorize(op); err != nil {
		return err
	}

	h = cloneHabit(h)
	h.Name = strings.TrimSpace(h.Name)
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.Recurrence.Kind == "" {
		h.Recurrence.Kind = constants.RecurrenceNone
	}
	if err := h.Validate(); err != nil {
		return c.reject(op, fmt.Errorf("%w: %v", ErrInvalidHabit, err))
	}

	c.mu.Lock()
	m := &mutation{key: habitKey(h.ID), kind: kindHabit, habitID: h.ID}
	m.habit = capture(c.habits, matchHabit(h.ID))
	if m.habit.present {
		if h.CreatedAt.IsZero() {
			h.CreatedAt = m.habit.value.CreatedAt
		}
		c.habits[m.habit.index] = h
	} else {
		if h.CreatedAt.IsZero() {
			h.CreatedAt = c.now().UTC()
		}
		if h.Order == 0 {
			h.Order = c.nextOrder()
		}
		c.habits = append(c.habits, h)
	}
	models.SortHabits(c.habits)
	c.track(m)
	s := c.queue.acquire(m.key)
	c.mu.Unlock()
	c.changed()

	c.dispatch(ctx, []*slot{s}, "Saved "+h.Name, "Could not save "+h.Name,
		func(ctx context.Context) error {
			_, err := c.store.UpsertHabit(ctx, h)
			return err
		},
		func(err error) bool { return c.complete(m, err) },
	)
	return nil
}

// nextOrder is one past the largest Order in use. Callers hold c.mu.
func (c *Coordinator) nextOrder() int {
	next := 0
	for _, h := range c.habits {
		if h.Order >= next {
			next = h.Order + 1
		}
	}
	return next
}

// DeleteHabit removes a habit together with its logs. The backend removes
// both in one call.
func (c *Coordinator) DeleteHabit(ctx context.Context, id string) error {
	const op = "delete habit"
	if err := c.authorize(op); err != nil {
		return err
	}

	c.mu.Lock()
	m := &mutation{key: habitKey(id), kind: kindHabit, habitID: id}
	m.habit = capture(c.habits, matchHabit(id))
	if !m.habit.present {
		c.mu.Unlock()
		return c.reject(op, fmt.Errorf("%w: %s", ErrUnknownHabit, id))
	}
	name := m.habit.value.Name
	c.habits = slices.Delete(c.habits, m.habit.index, m.habit.index+1)

	kept := c.logs[:0:0]
	for i, l := range c.logs {
		if l.HabitID == id {
			m.cascade = append(m.cascade, entry[models.HabitLog]{present: true, index: i, value: l})
			continue
		}
		kept = append(kept, l)
	}
	c.logs = kept
	c.track(m)
	s := c.queue.acquire(m.key)
	c.mu.Unlock()
	c.changed()

	c.dispatch(ctx, []*slot{s}, "Deleted "+name, "Could not delete "+name,
		func(ctx context.Context) error {
			_, err := c.store.DeleteHabit(ctx, id)
			return err
		},
		func(err error) bool { return c.complete(m, err) },
	)
	return nil
}

// ReorderHabits moves the listed habits to the front in the given order.
// Unlisted habits follow in their current order. Only Order is written, on
// top of each habit's stored record. A failed write reloads the habit list
// from the backend rather than rolling back.
func (c *Coordinator) ReorderHabits(ctx context.Context, ids []string) error {
	const op = "reorder habits"
	if err := c.authorize(op); err != nil {
		return err
	}

	c.mu.Lock()
	position := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := position[id]; dup {
			c.mu.Unlock()
			return c.reject(op, fmt.Errorf("%w: %s listed twice", ErrInvalidHabit, id))
		}
		if slices.IndexFunc(c.habits, matchHabit(id)) < 0 {
			c.mu.Unlock()
			return c.reject(op, fmt.Errorf("%w: %s", ErrUnknownHabit, id))
		}
		position[id] = i
	}

	next := len(ids)
	var muts []*mutation
	for i := range c.habits {
		id := c.habits[i].ID
		order, ok := position[id]
		if !ok {
			order = next
			next++
		}
		if c.habits[i].Order == order {
			continue
		}
		m := &mutation{key: habitKey(id), kind: kindHabit, habitID: id, orderOnly: true, order: order}
		m.habit = entry[models.Habit]{present: true, index: i, value: cloneHabit(c.habits[i])}
		c.habits[i].Order = order
		muts = append(muts, m)
	}
	models.SortHabits(c.habits)

	slots := make([]*slot, len(muts))
	for i, m := range muts {
		c.track(m)
		slots[i] = c.queue.acquire(m.key)
	}
	c.mu.Unlock()
	c.changed()

	c.dispatch(ctx, slots, "Reordered habits", "Could not reorder habits",
		func(ctx context.Context) error {
			stored, err := c.store.ListHabits(ctx)
			if err != nil {
				return err
			}
			for _, m := range muts {
				i := slices.IndexFunc(stored, matchHabit(m.habitID))
				if i < 0 {
					// never persisted, or deleted since
					continue
				}
				h := stored[i]
				h.Order = m.order
				if _, err := c.store.UpsertHabit(ctx, h); err != nil {
					return err
				}
			}
			return nil
		},
		func(err error) bool { return c.completeReorder(ctx, muts, err) },
	)
	return nil
}

// completeReorder resolves a reorder's mutations. On failure the habit list
// is reloaded from the backend, keeping habits that still have writes
// pending; those writes take the reloaded record as their pre-state. If the
// reload fails too, each key is rolled back as usual.
func (c *Coordinator) completeReorder(ctx context.Context, muts []*mutation, err error) bool {
	if err == nil {
		for _, m := range muts {
			c.complete(m, nil)
		}
		return false
	}

	stored, ferr := c.fetchHabits(ctx)
	if ferr != nil {
		c.log.Error("failed to reload habits", "err", ferr)
		reverted := false
		for _, m := range muts {
			if c.complete(m, err) {
				reverted = true
			}
		}
		return reverted
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range muts {
		if newer := c.untrack(m); newer != nil {
			newer.habit = capture(stored, matchHabit(m.habitID))
		}
	}
	c.habits = c.withPending(stored)
	for _, m := range muts {
		c.restoreCascade(m)
	}
	return true
}

func (c *Coordinator) fetchHabits(ctx context.Context) ([]models.Habit, error) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	habits, err := c.store.ListHabits(rctx)
	if err != nil {
		return nil, err
	}
	models.SortHabits(habits)
	return habits, nil
}

// withPending returns stored with every habit that has a write in flight
// replaced by its in-memory value. Callers hold c.mu.
func (c *Coordinator) withPending(stored []models.Habit) []models.Habit {
	pending := make(map[string]bool)
	for _, chain := range c.inflight {
		if len(chain) > 0 && chain[0].kind == kindHabit {
			pending[chain[0].habitID] = true
		}
	}

	merged := slices.DeleteFunc(stored, func(h models.Habit) bool { return pending[h.ID] })
	for _, h := range c.habits {
		if pending[h.ID] {
			merged = append(merged, h)
		}
	}
	models.SortHabits(merged)
	return merged
}

// AddReason remembers a custom reason for autocomplete. Reasons that differ
// only in case or surrounding space are the same reason.
func (c *Coordinator) AddReason(ctx context.Context, text string) error {
	const op = "save reason"
	if err := c.authorize(op); err != nil {
		return err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return c.reject(op, fmt.Errorf("%w: reason cannot be empty", ErrInvalidReason))
	}
	rk := models.ReasonKey(text)

	c.mu.Lock()
	m := &mutation{key: reasonKeyOf(rk), kind: kindReason, reasonKey: rk}
	m.reason = capture(c.reasons, matchReason(rk))
	if m.reason.present {
		c.mu.Unlock()
		c.notify(notifier.Success("Reason already saved"))
		return nil
	}
	reason := models.CustomReason{Text: text, CreatedAt: c.now().UTC()}
	c.reasons = append(c.reasons, reason)
	c.track(m)
	s := c.queue.acquire(m.key)
	c.mu.Unlock()
	c.changed()

	c.dispatch(ctx, []*slot{s}, "Saved reason", "Could not save reason",
		func(ctx context.Context) error {
			_, err := c.store.UpsertReason(ctx, reason)
			return err
		},
		func(err error) bool { return c.complete(m, err) },
	)
	return nil
}

// dispatch runs write in the background once every earlier write on the
// same keys has resolved, then reports the outcome with one notification.
func (c *Coordinator) dispatch(
	ctx context.Context,
	slots []*slot,
	success, failure string,
	write func(context.Context) error,
	resolve func(error) bool,
) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for _, s := range slots {
			s.wait()
		}

		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		err := write(wctx)
		cancel()

		reverted := resolve(err)
		if err != nil {
			c.log.Error("write failed", "op", failure, "err", err)
			c.notify(notifier.Failure(failure))
		} else {
			c.log.Debug("write succeeded", "op", success)
			c.notify(notifier.Success(success))
		}
		for _, s := range slots {
			s.release()
		}
		if reverted {
			c.changed()
		}
	}()
}
