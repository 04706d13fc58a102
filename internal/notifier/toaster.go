package notifier

import (
	"sync"
	"time"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/models"
)

type toast struct {
	n       models.Notification
	expires time.Time
}

// Toaster holds notifications in memory until their time-to-live elapses.
// The TUI polls Active on every tick.
type Toaster struct {
	mu     sync.Mutex
	ttl    time.Duration
	toasts []toast
	now    func() time.Time
}

// NewToaster returns a Toaster. A non-positive ttl uses the default of two seconds.
func NewToaster(ttl time.Duration) *Toaster {
	if ttl <= 0 {
		ttl = constants.NotificationDuration
	}
	return &Toaster{ttl: ttl, now: time.Now}
}

func (t *Toaster) Notify(n models.Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.toasts = append(t.toasts, toast{n: n, expires: t.now().Add(t.ttl)})
}

// Active drops expired toasts and returns the rest, oldest first.
func (t *Toaster) Active() []models.Notification {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	kept := t.toasts[:0]
	for _, ts := range t.toasts {
		if now.Before(ts.expires) {
			kept = append(kept, ts)
		}
	}
	t.toasts = kept

	out := make([]models.Notification, len(kept))
	for i, ts := range kept {
		out[i] = ts.n
	}
	return out
}

// Dismiss removes a toast before it expires.
func (t *Toaster) Dismiss(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, ts := range t.toasts {
		if ts.n.ID == id {
			t.toasts = append(t.toasts[:i], t.toasts[i+1:]...)
			return
		}
	}
}
