package ports

import (
	"context"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
)

// EarthquakeService orchestrates live fetch, dedup-on-save and history queries.
type EarthquakeService interface {
	Live(ctx context.Context, q domain.LiveQuery) ([]domain.Earthquake, error)
	Save(ctx context.Context, eq domain.Earthquake) (*domain.Earthquake, error)
	History(ctx context.Context, filter domain.HistoryFilter) ([]*domain.Earthquake, error)
}
