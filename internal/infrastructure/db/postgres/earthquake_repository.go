package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
)

const earthquakeColumns = `id::text, source_id, place, magnitude, depth, latitude, longitude, event_time, created_at`

type EarthquakeRepository struct {
	pool *pgxpool.Pool
}

func NewEarthquakeRepository(pool *pgxpool.Pool) *EarthquakeRepository {
	return &EarthquakeRepository{pool: pool}
}

func scanEarthquake(row pgx.Row) (*domain.Earthquake, error) {
	var eq domain.Earthquake
	err := row.Scan(&eq.ID, &eq.SourceID, &eq.Place, &eq.Magnitude, &eq.Depth,
		&eq.Latitude, &eq.Longitude, &eq.EventTime, &eq.CreatedAt)
	if err != nil {
		return nil, err
	}
	eq.EventTime = eq.EventTime.UTC()
	eq.CreatedAt = eq.CreatedAt.UTC()
	return &eq, nil
}

func (r *EarthquakeRepository) ExistsBySourceID(ctx context.Context, sourceID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM earthquakes WHERE source_id = $1)`, sourceID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("earthquake exists: %w", err)
	}
	return exists, nil
}

// Create inserts inside a transaction. The unique index on source_id decides
// concurrent saves of the same event.
func (r *EarthquakeRepository) Create(ctx context.Context, eq *domain.Earthquake) (*domain.Earthquake, error) {
	var saved *domain.Earthquake
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO earthquakes (source_id, place, magnitude, depth, latitude, longitude, event_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+earthquakeColumns,
			eq.SourceID, eq.Place, eq.Magnitude, eq.Depth, eq.Latitude, eq.Longitude, eq.EventTime.UTC(),
		)
		var err error
		saved, err = scanEarthquake(row)
		return err
	})
	if err != nil {
		if isUniqueViolation(err, constraintEarthquakesSource) {
			return nil, domain.ErrEarthquakeExists
		}
		return nil, fmt.Errorf("insert earthquake: %w", err)
	}
	return saved, nil
}

func (r *EarthquakeRepository) History(ctx context.Context, filter domain.HistoryFilter) ([]*domain.Earthquake, error) {
	query, args := buildHistoryQuery(filter)

	var out []*domain.Earthquake
	err := withConn(ctx, r.pool, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("earthquake history: %w", err)
		}
		out, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Earthquake, error) {
			return scanEarthquake(row)
		})
		if err != nil {
			return fmt.Errorf("scan earthquakes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// buildHistoryQuery emits one positional predicate per present filter,
// ANDed together, newest first and capped at domain.MaxHistoryRows.
func buildHistoryQuery(f domain.HistoryFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(expr string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}

	if f.MinMagnitude != nil {
		add("magnitude >= $%d", *f.MinMagnitude)
	}
	from, until := f.EventTimeBounds()
	if from != nil {
		add("event_time >= $%d", *from)
	}
	if until != nil {
		add("event_time < $%d", *until)
	}
	if f.Box.MinLatitude != nil {
		add("latitude >= $%d", *f.Box.MinLatitude)
	}
	if f.Box.MaxLatitude != nil {
		add("latitude <= $%d", *f.Box.MaxLatitude)
	}
	if f.Box.MinLongitude != nil {
		add("longitude >= $%d", *f.Box.MinLongitude)
	}
	if f.Box.MaxLongitude != nil {
		add("longitude <= $%d", *f.Box.MaxLongitude)
	}

	var b strings.Builder
	b.WriteString("SELECT " + earthquakeColumns + " FROM earthquakes")
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	args = append(args, domain.MaxHistoryRows)
	fmt.Fprintf(&b, " ORDER BY event_time DESC LIMIT $%d", len(args))
	return b.String(), args
}
