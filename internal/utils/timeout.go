package utils

import (
	"context"
	"time"
)

// DefaultDBTimeout bounds one cart operation's statement sequence. Every
// operation is a handful of short queries (existence check, upsert, total
// recompute, re-fetch), so a single shared budget covers the whole run.
const DefaultDBTimeout = 5 * time.Second

// WithDBTimeout derives the context the repository uses for each cart
// operation against the database.
func WithDBTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultDBTimeout)
}
