package models

import (
	"strings"
	"time"
)

// CustomReason is a free-text reason a user typed, offered back for autocomplete
type CustomReason struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ReasonKey is the dedup key for a reason: trimmed and case-folded
func ReasonKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
