package storage

import (
	"context"
	"fmt"
)

// CopyStats counts the records written by Copy
type CopyStats struct {
	Habits  int
	Logs    int
	Reasons int
}

// Copy writes every habit, log and reason held by src into dst. Records that
// already exist in dst are overwritten by key.
func Copy(ctx context.Context, src, dst Provider) (CopyStats, error) {
	var stats CopyStats

	habits, err := src.ListHabits(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to list source habits: %w", err)
	}
	for _, h := range habits {
		if _, err := dst.UpsertHabit(ctx, h); err != nil {
			return stats, fmt.Errorf("failed to copy habit %s: %w", h.ID, err)
		}
		stats.Habits++
	}

	logs, err := src.ListLogs(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to list source logs: %w", err)
	}
	for _, l := range logs {
		if _, err := dst.UpsertLog(ctx, l); err != nil {
			return stats, fmt.Errorf("failed to copy log %s: %w", l.Key(), err)
		}
		stats.Logs++
	}

	reasons, err := src.ListReasons(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to list source reasons: %w", err)
	}
	for _, r := range reasons {
		if _, err := dst.UpsertReason(ctx, r); err != nil {
			return stats, fmt.Errorf("failed to copy reason %q: %w", r.Text, err)
		}
		stats.Reasons++
	}

	return stats, nil
}
