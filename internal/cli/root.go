package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/wird/internal/backup"
	"github.com/julianstephens/wird/internal/config"
	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/coordinator"
	"github.com/julianstephens/wird/internal/logger"
	"github.com/julianstephens/wird/internal/models"
	"github.com/julianstephens/wird/internal/notifier"
	"github.com/julianstephens/wird/internal/session"
	"github.com/julianstephens/wird/internal/storage"
	"github.com/julianstephens/wird/internal/storage/sqlite"
	"github.com/julianstephens/wird/internal/streak"
	"github.com/julianstephens/wird/internal/utils"
)

type Context struct {
	Config   *config.Config
	Identity *models.Identity
	Store    storage.Provider
	Engine   streak.Engine
	// Sink receives every mutation outcome in addition to the command's own
	// failure tracking.
	Sink notifier.Sink
	// Toaster shows the same outcomes inside the TUI. It should also be
	// part of Sink.
	Toaster *notifier.Toaster

	session  *session.Session
	failures failureSink
}

// NewContext builds the command context for cfg. The store is created but
// not opened.
func NewContext(cfg *config.Config, identity *models.Identity, store storage.Provider, sink notifier.Sink) *Context {
	return &Context{
		Config:   cfg,
		Identity: identity,
		Store:    store,
		Engine:   streak.New(utils.Resolver{HijriOffset: cfg.Calendar.HijriOffset}),
		Sink:     sink,
	}
}

// Session loads the store and returns the signed-in user's session, starting
// it on first use.
func (c *Context) Session(ctx context.Context) (*session.Session, error) {
	if c.session != nil {
		return c.session, nil
	}
	if c.Store == nil {
		return nil, errors.New("storage is not configured")
	}

	var sink notifier.Sink = &c.failures
	if c.Sink != nil {
		sink = notifier.Multi{c.Sink, &c.failures}
	}
	s, err := session.Attach(ctx, c.Config, c.Identity, c.Store, sink)
	if err != nil {
		return nil, err
	}
	c.session = s
	return s, nil
}

// Coordinator is a shortcut for the session's coordinator. Failures left
// over from a previous command are dropped.
func (c *Context) Coordinator(ctx context.Context) (*coordinator.Coordinator, error) {
	s, err := c.Session(ctx)
	if err != nil {
		return nil, err
	}
	s.Coordinator.Flush()
	_ = c.failures.take()
	return s.Coordinator, nil
}

// Commit waits for queued writes and reports any that were rolled back.
func (c *Context) Commit() error {
	if c.session == nil {
		return nil
	}
	c.session.Coordinator.Flush()
	return c.failures.take()
}

// Close flushes and releases the session, if one was started.
func (c *Context) Close() error {
	if c.session == nil {
		if c.Store == nil {
			return nil
		}
		return c.Store.Close()
	}
	err := c.session.Close()
	c.session = nil
	return err
}

// Today is the current calendar date in the configured timezone.
func (c *Context) Today() (string, error) {
	return utils.GetTodayInTimezone(c.Config.Calendar.Timezone)
}

// ResolveDate accepts YYYY-MM-DD, "today", "yesterday" or an empty string.
func (c *Context) ResolveDate(s string) (string, error) {
	today, err := c.Today()
	if err != nil {
		return "", err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return utils.AddDays(today, -1), nil
	}
	if !utils.ValidateDateFormat(s) {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return s, nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// failureSink remembers rolled-back writes until Commit reports them
type failureSink struct {
	mu   sync.Mutex
	errs []string
}

func (f *failureSink) Notify(n models.Notification) {
	if !n.IsError() {
		return
	}
	f.mu.Lock()
	f.errs = append(f.errs, n.Message)
	f.mu.Unlock()
}

func (f *failureSink) take() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.errs) == 0 {
		return nil
	}
	err := errors.New(strings.Join(f.errs, "; "))
	f.errs = nil
	return err
}

// FindHabit looks a habit up by id, then by case-insensitive name.
func FindHabit(habits []models.Habit, ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	for _, h := range habits {
		if h.ID == ref {
			return h, nil
		}
	}
	for _, h := range habits {
		if strings.EqualFold(h.Name, ref) {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit %q not found", ref)
}

// ParseWeekdays parses a comma-separated list of weekdays
func ParseWeekdays(s string) ([]time.Weekday, error) {
	parts := strings.Split(s, ",")
	var weekdays []time.Weekday

	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := dayMap[part]; ok {
			weekdays = append(weekdays, wd)
		} else {
			// Try parsing as number (0=Sunday, 6=Saturday)
			num, err := strconv.Atoi(part)
			if err == nil && num >= 0 && num <= 6 {
				weekdays = append(weekdays, time.Weekday(num))
			} else {
				return nil, fmt.Errorf("invalid weekday: %s", part)
			}
		}
	}

	return weekdays, nil
}

// ParseLunarWindow parses "13-15" into a lunar day window. "white" is the
// usual 13th to 15th.
func ParseLunarWindow(s string) (models.Recurrence, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "white" || s == "white-days" {
		return models.LunarRecurrence(constants.WhiteDaysStart, constants.WhiteDaysEnd), nil
	}
	from, to, found := strings.Cut(s, "-")
	if !found {
		to = from
	}
	start, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return models.Recurrence{}, fmt.Errorf("invalid lunar window %q", s)
	}
	end, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return models.Recurrence{}, fmt.Errorf("invalid lunar window %q", s)
	}
	r := models.LunarRecurrence(start, end)
	if err := r.Validate(); err != nil {
		return models.Recurrence{}, err
	}
	return r, nil
}
