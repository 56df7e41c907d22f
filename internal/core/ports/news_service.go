package ports

import (
	"context"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
)

// CreateNewsInput carries a new article. AuthorID comes from the token, never the body.
type CreateNewsInput struct {
	AuthorID string
	Title    string
	Content  string
}

// UpdateNewsInput carries a partial article update; blank fields are ignored.
type UpdateNewsInput struct {
	Title   string
	Content string
}

type NewsService interface {
	List(ctx context.Context) ([]*domain.News, error)
	Get(ctx context.Context, id string) (*domain.News, error)
	Create(ctx context.Context, in CreateNewsInput) (*domain.News, error)
	Update(ctx context.Context, id string, in UpdateNewsInput) (*domain.News, error)
	Delete(ctx context.Context, id string) error
}
