package domain

import "context"

// ProfileRepository defines the interface for visitor profile reads.
type ProfileRepository interface {
	// GetByUserID retrieves a visitor profile with quotes, recent
	// activity, and lead-capture flags. A missing record returns a
	// not-found error, which callers treat as "anonymous", not a failure.
	GetByUserID(ctx context.Context, userID string) (*Profile, error)

	// TouchLastSeen records that the visitor was active. Best effort.
	TouchLastSeen(ctx context.Context, userID string) error
}

// ChatEventRepository defines the interface for turn analytics persistence.
type ChatEventRepository interface {
	// Record inserts a chat event. Failures are logged by callers and
	// never fail the turn.
	Record(ctx context.Context, event *ChatEvent) error

	// CountByIntent returns event counts grouped by intent, for the
	// admin analytics view.
	CountByIntent(ctx context.Context) (map[Intent]int, error)
}
