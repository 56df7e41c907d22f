package ports

import (
	"context"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
)

// CatalogClient fetches live events from the external seismic catalog.
// Failures are reported as domain upstream errors.
type CatalogClient interface {
	Fetch(ctx context.Context, q domain.CatalogQuery) ([]domain.Earthquake, error)
}

// SourceIDCache remembers source ids already persisted. It is a hint only;
// the store's unique constraint stays authoritative.
type SourceIDCache interface {
	Seen(ctx context.Context, sourceID string) (bool, error)
	Mark(ctx context.Context, sourceID string) error
}
