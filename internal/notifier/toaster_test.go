package notifier

import (
	"testing"
	"time"

	"github.com/julianstephens/wird/internal/constants"
)

func TestToaster_AutoDismiss(t *testing.T) {
	now := time.Date(2024, 3, 10, 21, 0, 0, 0, time.UTC)
	toaster := NewToaster(0)
	toaster.now = func() time.Time { return now }

	first := Success("Saved Fajr")
	toaster.Notify(first)
	now = now.Add(time.Second)
	second := Failure("Could not save Dhuhr")
	toaster.Notify(second)

	active := toaster.Active()
	if len(active) != 2 || active[0].ID != first.ID || active[1].ID != second.ID {
		t.Fatalf("Active() = %+v, want both toasts in order", active)
	}

	// the first toast expires at its two-second mark
	now = now.Add(constants.NotificationDuration - time.Second)
	active = toaster.Active()
	if len(active) != 1 || active[0].ID != second.ID {
		t.Fatalf("Active() after 2s = %+v, want only the second", active)
	}

	now = now.Add(time.Second)
	if active := toaster.Active(); len(active) != 0 {
		t.Errorf("Active() after 3s = %+v, want none", active)
	}
}

func TestToaster_Dismiss(t *testing.T) {
	toaster := NewToaster(time.Minute)
	a, b := Success("a"), Success("b")
	toaster.Notify(a)
	toaster.Notify(b)

	toaster.Dismiss(a.ID)
	toaster.Dismiss("unknown")

	active := toaster.Active()
	if len(active) != 1 || active[0].ID != b.ID {
		t.Errorf("Active() = %+v, want only b", active)
	}
}
