package ports

import (
	"context"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
)

// EarthquakeRepository persists saved catalog events.
type EarthquakeRepository interface {
	ExistsBySourceID(ctx context.Context, sourceID string) (bool, error)
	// Create inserts a new row and assigns ID and CreatedAt. A source id that
	// is already stored yields domain.ErrEarthquakeExists, whatever the pre-check said.
	Create(ctx context.Context, eq *domain.Earthquake) (*domain.Earthquake, error)
	// History returns at most domain.MaxHistoryRows matches, newest event first.
	History(ctx context.Context, filter domain.HistoryFilter) ([]*domain.Earthquake, error)
}
