package models

import (
	"time"

	"github.com/julianstephens/wird/internal/constants"
)

// Identity is the signed-in user. A nil *Identity means no session.
type Identity struct {
	ID        string `json:"id"`
	LocalOnly bool   `json:"local_only"`
}

// Notification is a transient message about a mutation outcome
type Notification struct {
	ID        string                     `json:"id"`
	Message   string                     `json:"message"`
	Kind      constants.NotificationKind `json:"kind"`
	CreatedAt time.Time                  `json:"created_at"`
}

func (n Notification) IsError() bool {
	return n.Kind == constants.NotifyError
}
