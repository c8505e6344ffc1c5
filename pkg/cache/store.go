// Package cache holds the short-lived per-tab lead list cache. Caching here
// is explicit: the pipeline service decides when to read, write, and
// invalidate, and a miss is never an error.
package cache

import (
	"context"

	"github.com/admitdesk/backoffice/pkg/lead"
)

// Store caches lead lists keyed by status tab. Implementations apply their
// own TTL; expired entries read as misses.
type Store interface {
	// Get returns the cached list for a tab and whether it was present.
	Get(ctx context.Context, tab lead.Status) ([]lead.Lead, bool)
	// Set stores the list for a tab, replacing any previous entry.
	Set(ctx context.Context, tab lead.Status, leads []lead.Lead) error
	// Invalidate drops a single tab's entry.
	Invalidate(ctx context.Context, tab lead.Status) error
	// InvalidateAll drops every tab.
	InvalidateAll(ctx context.Context) error
}
