package ports

import (
	"context"
	"time"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
)

// UserRepository persists accounts. Lookups return domain.ErrUserNotFound
// when nothing matches; Create returns domain.ErrEmailTaken on a duplicate email.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Update writes the mutable profile fields, password hash included.
	Update(ctx context.Context, user *domain.User) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	// Delete returns domain.ErrUserHasNews when articles still reference the user.
	Delete(ctx context.Context, id string) error
}
