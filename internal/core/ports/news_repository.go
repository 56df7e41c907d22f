package ports

import (
	"context"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
)

// NewsRepository persists articles. Reads resolve AuthorName.
type NewsRepository interface {
	Create(ctx context.Context, n *domain.News) (*domain.News, error)
	FindByID(ctx context.Context, id string) (*domain.News, error)
	// List returns every article, newest first.
	List(ctx context.Context) ([]*domain.News, error)
	Update(ctx context.Context, n *domain.News) (*domain.News, error)
	Delete(ctx context.Context, id string) error
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
}
