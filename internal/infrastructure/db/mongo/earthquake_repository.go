package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
)

type EarthquakeRepository struct {
	col *mongo.Collection
}

func NewEarthquakeRepository(db *mongo.Database) *EarthquakeRepository {
	return &EarthquakeRepository{col: db.Collection(collectionEarthquakes)}
}

type mongoEarthquake struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	SourceID  string             `bson:"source_id"`
	Place     string             `bson:"place"`
	Magnitude float64            `bson:"magnitude"`
	Depth     float64            `bson:"depth"`
	Latitude  float64            `bson:"latitude"`
	Longitude float64            `bson:"longitude"`
	EventTime time.Time          `bson:"event_time"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (m mongoEarthquake) toDomain() *domain.Earthquake {
	return &domain.Earthquake{
		ID:        m.ID.Hex(),
		SourceID:  m.SourceID,
		Place:     m.Place,
		Magnitude: m.Magnitude,
		Depth:     m.Depth,
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
		EventTime: m.EventTime.UTC(),
		CreatedAt: m.CreatedAt.UTC(),
	}
}

func (r *EarthquakeRepository) ExistsBySourceID(ctx context.Context, sourceID string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"source_id": sourceID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("earthquake exists: %w", err)
	}
	return n > 0, nil
}

// Create relies on the unique source_id index from EnsureIndexes.
func (r *EarthquakeRepository) Create(ctx context.Context, eq *domain.Earthquake) (*domain.Earthquake, error) {
	doc := mongoEarthquake{
		SourceID:  eq.SourceID,
		Place:     eq.Place,
		Magnitude: eq.Magnitude,
		Depth:     eq.Depth,
		Latitude:  eq.Latitude,
		Longitude: eq.Longitude,
		EventTime: eq.EventTime.UTC(),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEarthquakeExists
		}
		return nil, fmt.Errorf("insert earthquake: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *EarthquakeRepository) History(ctx context.Context, filter domain.HistoryFilter) ([]*domain.Earthquake, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "event_time", Value: -1}}).
		SetLimit(domain.MaxHistoryRows)

	cur, err := r.col.Find(ctx, buildHistoryFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("earthquake history: %w", err)
	}
	var docs []mongoEarthquake
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode earthquakes: %w", err)
	}
	out := make([]*domain.Earthquake, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func buildHistoryFilter(f domain.HistoryFilter) bson.M {
	filter := bson.M{}
	rangeOn := func(field, op string, v any) {
		cond, _ := filter[field].(bson.M)
		if cond == nil {
			cond = bson.M{}
			filter[field] = cond
		}
		cond[op] = v
	}

	if f.MinMagnitude != nil {
		rangeOn("magnitude", "$gte", *f.MinMagnitude)
	}
	from, until := f.EventTimeBounds()
	if from != nil {
		rangeOn("event_time", "$gte", *from)
	}
	if until != nil {
		rangeOn("event_time", "$lt", *until)
	}
	if f.Box.MinLatitude != nil {
		rangeOn("latitude", "$gte", *f.Box.MinLatitude)
	}
	if f.Box.MaxLatitude != nil {
		rangeOn("latitude", "$lte", *f.Box.MaxLatitude)
	}
	if f.Box.MinLongitude != nil {
		rangeOn("longitude", "$gte", *f.Box.MinLongitude)
	}
	if f.Box.MaxLongitude != nil {
		rangeOn("longitude", "$lte", *f.Box.MaxLongitude)
	}
	return filter
}
