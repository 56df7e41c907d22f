package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
)

type NewsRepository struct {
	news  *mongo.Collection
	users *mongo.Collection
}

func NewNewsRepository(db *mongo.Database) *NewsRepository {
	return &NewsRepository{
		news:  db.Collection(collectionNews),
		users: db.Collection(collectionUsers),
	}
}

type mongoNews struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Title      string             `bson:"title"`
	Content    string             `bson:"content"`
	DatePosted time.Time          `bson:"date_posted"`
	AuthorID   primitive.ObjectID `bson:"author_id"`
}

func (m mongoNews) toDomain(authorName *string) *domain.News {
	return &domain.News{
		ID:         m.ID.Hex(),
		Title:      m.Title,
		Content:    m.Content,
		DatePosted: m.DatePosted.UTC(),
		AuthorID:   m.AuthorID.Hex(),
		AuthorName: authorName,
	}
}

func (r *NewsRepository) Create(ctx context.Context, n *domain.News) (*domain.News, error) {
	authorID, ok := objectID(n.AuthorID)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	doc := mongoNews{
		Title:      n.Title,
		Content:    n.Content,
		DatePosted: time.Now().UTC().Truncate(time.Millisecond),
		AuthorID:   authorID,
	}
	res, err := r.news.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert news: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return r.withAuthors(ctx, doc)
}

func (r *NewsRepository) FindByID(ctx context.Context, id string) (*domain.News, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrNewsNotFound
	}
	var doc mongoNews
	if err := r.news.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNewsNotFound
		}
		return nil, fmt.Errorf("find news: %w", err)
	}
	return r.withAuthors(ctx, doc)
}

func (r *NewsRepository) List(ctx context.Context) ([]*domain.News, error) {
	cur, err := r.news.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date_posted", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	var docs []mongoNews
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode news: %w", err)
	}

	names, err := r.authorNames(ctx, docs)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.News, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain(names[d.AuthorID]))
	}
	return out, nil
}

func (r *NewsRepository) Update(ctx context.Context, n *domain.News) (*domain.News, error) {
	oid, ok := objectID(n.ID)
	if !ok {
		return nil, domain.ErrNewsNotFound
	}
	var doc mongoNews
	err := r.news.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"title": n.Title, "content": n.Content}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNewsNotFound
		}
		return nil, fmt.Errorf("update news: %w", err)
	}
	return r.withAuthors(ctx, doc)
}

func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrNewsNotFound
	}
	res, err := r.news.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNewsNotFound
	}
	return nil
}

func (r *NewsRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	oid, ok := objectID(authorID)
	if !ok {
		return 0, nil
	}
	n, err := r.news.CountDocuments(ctx, bson.M{"author_id": oid})
	if err != nil {
		return 0, fmt.Errorf("count news: %w", err)
	}
	return n, nil
}

func (r *NewsRepository) withAuthors(ctx context.Context, doc mongoNews) (*domain.News, error) {
	names, err := r.authorNames(ctx, []mongoNews{doc})
	if err != nil {
		return nil, err
	}
	return doc.toDomain(names[doc.AuthorID]), nil
}

// authorNames resolves bylines in a single $in query. Missing authors are
// absent from the map.
func (r *NewsRepository) authorNames(ctx context.Context, docs []mongoNews) (map[primitive.ObjectID]*string, error) {
	names := make(map[primitive.ObjectID]*string, len(docs))
	if len(docs) == 0 {
		return names, nil
	}
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		if _, seen := names[d.AuthorID]; !seen {
			names[d.AuthorID] = nil
			ids = append(ids, d.AuthorID)
		}
	}

	cur, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"first_name": 1, "last_name": 1}))
	if err != nil {
		return nil, fmt.Errorf("resolve authors: %w", err)
	}
	var authors []mongoUser
	if err := cur.All(ctx, &authors); err != nil {
		return nil, fmt.Errorf("decode authors: %w", err)
	}
	for _, a := range authors {
		if name := strings.TrimSpace(a.FirstName + " " + a.LastName); name != "" {
			names[a.ID] = &name
		}
	}
	return names, nil
}
