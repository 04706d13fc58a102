// Package coordinator applies mutations to the in-memory view immediately and
// persists them in the background, rolling back any write that fails.
package coordinator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/logger"
	"github.com/julianstephens/wird/internal/models"
	"github.com/julianstephens/wird/internal/notifier"
	"github.com/julianstephens/wird/internal/storage"
)

var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrInvalidLog       = errors.New("invalid log")
	ErrInvalidHabit     = errors.New("invalid habit")
	ErrUnknownHabit     = errors.New("unknown habit")
	ErrInvalidReason    = errors.New("invalid reason")
)

// Store is the persistence a coordinator writes through to
type Store interface {
	storage.HabitStore
	storage.LogStore
	storage.ReasonStore
}

// State is a point-in-time copy of the in-memory collections
type State struct {
	Habits  []models.Habit
	Logs    []models.HabitLog
	Reasons []models.CustomReason
}

type Option func(*Coordinator)

// WithWriteTimeout bounds every backend write
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithOnChange registers a hook that runs after every in-memory change,
// including rollbacks. It is called without the coordinator lock held.
func WithOnChange(fn func()) Option {
	return func(c *Coordinator) { c.onChange = fn }
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// Coordinator owns the in-memory view for one session
type Coordinator struct {
	identity *models.Identity
	store    Store
	sink     notifier.Sink
	timeout  time.Duration
	now      func() time.Time
	onChange func()
	log      *log.Logger

	mu       sync.Mutex
	habits   []models.Habit
	logs     []models.HabitLog
	reasons  []models.CustomReason
	inflight map[string][]*mutation

	queue *keyQueue
	wg    sync.WaitGroup
}

// New builds a coordinator for identity. A nil identity is allowed; every
// mutation then fails with ErrNotAuthenticated.
func New(identity *models.Identity, store Store, sink notifier.Sink, opts ...Option) *Coordinator {
	if sink == nil {
		sink = notifier.LogSink{}
	}
	c := &Coordinator{
		identity: identity,
		store:    store,
		sink:     sink,
		timeout:  constants.DefaultWriteTimeout,
		now:      time.Now,
		inflight: make(map[string][]*mutation),
		queue:    newKeyQueue(),
	}
	for _, opt := range opts {
		opt(c)
	}

	userID := ""
	if identity != nil {
		userID = identity.ID
	}
	c.log = logger.With("component", "coordinator", "user", userID)
	return c
}

func (c *Coordinator) Identity() *models.Identity {
	return c.identity
}

// Load replaces the in-memory collections with the backend's.
func (c *Coordinator) Load(ctx context.Context) error {
	if c.identity == nil {
		return ErrNotAuthenticated
	}

	habits, err := c.store.ListHabits(ctx)
	if err != nil {
		return err
	}
	logs, err := c.store.ListLogs(ctx)
	if err != nil {
		return err
	}
	reasons, err := c.store.ListReasons(ctx)
	if err != nil {
		return err
	}
	models.SortHabits(habits)

	c.mu.Lock()
	c.habits = habits
	c.logs = logs
	c.reasons = reasons
	c.mu.Unlock()

	c.log.Debug("loaded state", "habits", len(habits), "logs", len(logs), "reasons", len(reasons))
	c.changed()
	return nil
}

// Snapshot returns a deep copy of the current view. Slices are never nil.
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := State{
		Habits:  make([]models.Habit, len(c.habits)),
		Logs:    make([]models.HabitLog, len(c.logs)),
		Reasons: make([]models.CustomReason, len(c.reasons)),
	}
	for i, h := range c.habits {
		state.Habits[i] = cloneHabit(h)
	}
	copy(state.Logs, c.logs)
	copy(state.Reasons, c.reasons)
	return state
}

// Flush blocks until every write issued so far has resolved.
func (c *Coordinator) Flush() {
	c.wg.Wait()
}

// Close waits for in-flight writes. The store stays open; the session owns it.
func (c *Coordinator) Close() error {
	c.Flush()
	if n := c.queue.pending(); n > 0 {
		c.log.Warn("closing with queued writes", "keys", n)
	}
	return nil
}

func (c *Coordinator) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

func (c *Coordinator) notify(n models.Notification) {
	c.sink.Notify(n)
}

// authorize reports a missing identity as the call's single notification.
func (c *Coordinator) authorize(op string) error {
	if c.identity != nil {
		return nil
	}
	c.log.Warn("mutation without identity", "op", op)
	c.notify(notifier.Failure("Sign in to " + op))
	return ErrNotAuthenticated
}

// reject reports invalid input as the call's single notification.
func (c *Coordinator) reject(op string, err error) error {
	c.log.Debug("rejected mutation", "op", op, "err", err)
	c.notify(notifier.Failure("Could not " + op + ": " + err.Error()))
	return err
}

func cloneHabit(h models.Habit) models.Habit {
	if h.Recurrence.Weekdays != nil {
		h.Recurrence.Weekdays = append([]time.Weekday(nil), h.Recurrence.Weekdays...)
	}
	return h
}
