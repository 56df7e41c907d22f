package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/seismo-watch/seismic-api/internal/api/metrics"
	"github.com/seismo-watch/seismic-api/internal/core/domain"
	"github.com/seismo-watch/seismic-api/internal/core/ports"
)

type earthquakeService struct {
	catalog ports.CatalogClient
	repo    ports.EarthquakeRepository
	seen    ports.SourceIDCache // optional
	now     func() time.Time
	log     zerolog.Logger
}

// EarthquakeOption customises NewEarthquakeService.
type EarthquakeOption func(*earthquakeService)

// WithClock overrides the clock used for default date windows.
func WithClock(now func() time.Time) EarthquakeOption {
	return func(s *earthquakeService) { s.now = now }
}

// WithSourceIDCache enables the fast-path duplicate check.
func WithSourceIDCache(cache ports.SourceIDCache) EarthquakeOption {
	return func(s *earthquakeService) { s.seen = cache }
}

// NewEarthquakeService returns an EarthquakeService implementation.
func NewEarthquakeService(
	catalog ports.CatalogClient,
	repo ports.EarthquakeRepository,
	log zerolog.Logger,
	opts ...EarthquakeOption,
) ports.EarthquakeService {
	s := &earthquakeService{
		catalog: catalog,
		repo:    repo,
		now:     time.Now,
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Live resolves defaults and proxies the query to the catalog. Nothing is persisted.
func (s *earthquakeService) Live(ctx context.Context, in domain.LiveQuery) ([]domain.Earthquake, error) {
	q := in.Resolve(s.now())
	if q.StartDate.After(q.EndDate) {
		return nil, domain.Validation("startDate must not be after endDate")
	}

	started := time.Now()
	records, err := s.catalog.Fetch(ctx, q)
	metrics.CatalogFetchDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.CatalogFetchesTotal.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Msg("catalog fetch failed")
		return nil, err
	}
	metrics.CatalogFetchesTotal.WithLabelValues("ok").Inc()

	s.log.Debug().
		Float64("min_magnitude", q.MinMagnitude).
		Str("start", q.StartDate.Format(domain.DateLayout)).
		Str("end", q.EndDate.Format(domain.DateLayout)).
		Int("count", len(records)).
		Msg("catalog fetched")

	return records, nil
}

// Save persists one catalog record unless its source id is already stored.
func (s *earthquakeService) Save(ctx context.Context, eq domain.Earthquake) (*domain.Earthquake, error) {
	eq.SourceID = strings.TrimSpace(eq.SourceID)
	if eq.SourceID == "" {
		return nil, domain.Validation("id is required")
	}
	if eq.EventTime.IsZero() {
		return nil, domain.Validation("event_time is required")
	}
	eq.EventTime = eq.EventTime.UTC()
	if strings.TrimSpace(eq.Place) == "" {
		eq.Place = domain.UnknownPlace
	}

	// 1. Cache hint. A failing cache never blocks a save.
	if s.seen != nil {
		hit, err := s.seen.Seen(ctx, eq.SourceID)
		if err != nil {
			s.log.Warn().Err(err).Str("source_id", eq.SourceID).Msg("source id cache check failed, falling back to store")
		} else if hit {
			metrics.EarthquakeDedupTotal.WithLabelValues("cache_hit").Inc()
			return nil, domain.ErrEarthquakeExists
		}
	}

	// 2. Point lookup for an early conflict.
	exists, err := s.repo.ExistsBySourceID(ctx, eq.SourceID)
	if err != nil {
		return nil, fmt.Errorf("save earthquake: lookup: %w", err)
	}
	if exists {
		metrics.EarthquakeDedupTotal.WithLabelValues("store_hit").Inc()
		s.mark(ctx, eq.SourceID)
		return nil, domain.ErrEarthquakeExists
	}

	// 3. Insert; the unique constraint settles concurrent saves.
	saved, err := s.repo.Create(ctx, &eq)
	if err != nil {
		if errors.Is(err, domain.ErrEarthquakeExists) {
			metrics.EarthquakeDedupTotal.WithLabelValues("constraint").Inc()
			s.mark(ctx, eq.SourceID)
			return nil, err
		}
		return nil, fmt.Errorf("save earthquake: insert: %w", err)
	}

	metrics.EarthquakeDedupTotal.WithLabelValues("miss").Inc()
	metrics.EarthquakesSavedTotal.Inc()
	s.mark(ctx, eq.SourceID)

	s.log.Info().
		Str("source_id", saved.SourceID).
		Float64("magnitude", saved.Magnitude).
		Msg("earthquake saved")

	return saved, nil
}

// History returns persisted earthquakes matching every supplied filter.
func (s *earthquakeService) History(ctx context.Context, filter domain.HistoryFilter) ([]*domain.Earthquake, error) {
	rows, err := s.repo.History(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("earthquake history: %w", err)
	}
	return rows, nil
}

func (s *earthquakeService) mark(ctx context.Context, sourceID string) {
	if s.seen == nil {
		return
	}
	if err := s.seen.Mark(ctx, sourceID); err != nil {
		s.log.Warn().Err(err).Str("source_id", sourceID).Msg("failed to mark source id")
	}
}
