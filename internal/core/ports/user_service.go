package ports

import (
	"context"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
)

// UserService covers the admin-only account operations.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	// Delete removes targetID on behalf of requesterID. Admin accounts and
	// the requester's own account are never deleted.
	Delete(ctx context.Context, requesterID, targetID string) error
}
