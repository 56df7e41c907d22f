package ports

import (
	"context"
	"time"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Phone       *string
	DateOfBirth *time.Time
	Photo       *PhotoUpload // optional
}

// UpdateProfileInput carries a partial profile update. Empty values are left untouched.
type UpdateProfileInput struct {
	UserID          string
	FirstName       string
	LastName        string
	Phone           *string
	DateOfBirth     *time.Time
	CurrentPassword string
	NewPassword     string
	Photo           *PhotoUpload
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, in UpdateProfileInput) (*domain.User, error)
}
