package coordinator

import (
	"slices"

	"github.com/julianstephens/wird/internal/models"
)

type recordKind int

const (
	kindLog recordKind = iota
	kindHabit
	kindReason
)

// entry is a record's state captured before a mutation: whether it existed
// and where.
type entry[T any] struct {
	present bool
	index   int
	value   T
}

func capture[T any](items []T, match func(T) bool) entry[T] {
	for i, item := range items {
		if match(item) {
			return entry[T]{present: true, index: i, value: item}
		}
	}
	return entry[T]{index: len(items)}
}

// restore puts e back: removed when it was absent, otherwise returned to its
// old position.
func restore[T any](items []T, e entry[T], match func(T) bool) []T {
	if i := slices.IndexFunc(items, match); i >= 0 {
		items = slices.Delete(items, i, i+1)
	}
	if !e.present {
		return items
	}
	return slices.Insert(items, min(e.index, len(items)), e.value)
}

// mutation is one optimistic change waiting on its backend write
type mutation struct {
	key  string
	kind recordKind

	logKey    models.LogKey
	habitID   string
	reasonKey string

	log    entry[models.HabitLog]
	habit  entry[models.Habit]
	reason entry[models.CustomReason]

	// logs removed alongside a deleted habit, in ascending index order
	cascade []entry[models.HabitLog]

	// set by reorders, which change nothing but Order
	orderOnly bool
	order     int
}

func logKey(k models.LogKey) string { return "log:" + k.String() }
func habitKey(id string) string     { return "habit:" + id }
func reasonKeyOf(key string) string { return "reason:" + key }
func matchLog(k models.LogKey) func(models.HabitLog) bool {
	return func(l models.HabitLog) bool { return l.HabitID == k.HabitID && l.Date == k.Date }
}
func matchHabit(id string) func(models.Habit) bool {
	return func(h models.Habit) bool { return h.ID == id }
}
func matchReason(key string) func(models.CustomReason) bool {
	return func(r models.CustomReason) bool { return models.ReasonKey(r.Text) == key }
}

// inherit takes over an older failed mutation's pre-state. The older value
// never persisted.
func (m *mutation) inherit(older *mutation) {
	m.log = older.log
	m.habit = older.habit
	m.reason = older.reason
	m.cascade = append(older.cascade, m.cascade...)
}

// track registers m as the newest in-flight mutation on its key.
// Callers hold c.mu.
func (c *Coordinator) track(m *mutation) {
	c.inflight[m.key] = append(c.inflight[m.key], m)
}

// untrack removes m from its key's chain and returns the mutation queued
// right after it, if any. Callers hold c.mu.
func (c *Coordinator) untrack(m *mutation) *mutation {
	chain := c.inflight[m.key]
	pos := slices.Index(chain, m)
	if pos < 0 {
		return nil
	}
	chain = slices.Delete(chain, pos, pos+1)
	if len(chain) == 0 {
		delete(c.inflight, m.key)
		return nil
	}
	c.inflight[m.key] = chain
	if pos < len(chain) {
		return chain[pos]
	}
	return nil
}

// complete resolves m. On failure the key goes back to m's pre-state, unless
// a newer mutation on the key is still pending, which then inherits it.
// It reports whether the in-memory view changed.
func (c *Coordinator) complete(m *mutation, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	tracked := slices.Contains(c.inflight[m.key], m)
	newer := c.untrack(m)
	if !tracked || err == nil {
		return false
	}

	if newer != nil {
		c.restoreCascade(m)
		if m.kind == kindHabit && c.onlyReorders(m.key, newer) {
			c.restoreUnderReorder(m)
		}
		newer.inherit(m)
		return true
	}
	c.rollback(m)
	c.restoreCascade(m)
	return true
}

// onlyReorders reports whether from and everything queued after it on key
// are reorders. Callers hold c.mu.
func (c *Coordinator) onlyReorders(key string, from *mutation) bool {
	chain := c.inflight[key]
	pos := slices.Index(chain, from)
	if pos < 0 {
		return false
	}
	for _, m := range chain[pos:] {
		if !m.orderOnly {
			return false
		}
	}
	return true
}

// restoreUnderReorder undoes a failed habit write that pending reorders have
// since moved: the record returns to m's pre-state but keeps its new Order.
// Callers hold c.mu.
func (c *Coordinator) restoreUnderReorder(m *mutation) {
	i := slices.IndexFunc(c.habits, matchHabit(m.habitID))
	switch {
	case !m.habit.present && i >= 0:
		c.habits = slices.Delete(c.habits, i, i+1)
		return
	case !m.habit.present:
		return
	}

	h := cloneHabit(m.habit.value)
	if i >= 0 {
		h.Order = c.habits[i].Order
		c.habits[i] = h
	} else {
		c.habits = append(c.habits, h)
	}
	models.SortHabits(c.habits)
}

// rollback restores m's key to its captured pre-state. Callers hold c.mu.
func (c *Coordinator) rollback(m *mutation) {
	switch m.kind {
	case kindLog:
		c.logs = restore(c.logs, m.log, matchLog(m.logKey))
	case kindHabit:
		c.habits = restore(c.habits, m.habit, matchHabit(m.habitID))
		models.SortHabits(c.habits)
	case kindReason:
		c.reasons = restore(c.reasons, m.reason, matchReason(m.reasonKey))
	}
}

// restoreCascade brings back the logs a failed habit delete removed, as long
// as the habit is visible again and the log has not been re-created since.
func (c *Coordinator) restoreCascade(m *mutation) {
	if len(m.cascade) == 0 || slices.IndexFunc(c.habits, matchHabit(m.habitID)) < 0 {
		return
	}
	for _, e := range m.cascade {
		if slices.IndexFunc(c.logs, matchLog(e.value.Key())) >= 0 {
			continue
		}
		c.logs = slices.Insert(c.logs, min(e.index, len(c.logs)), e.value)
	}
	m.cascade = nil
}
