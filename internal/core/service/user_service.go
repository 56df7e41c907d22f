package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
	"github.com/seismo-watch/seismic-api/internal/core/ports"
)

type userService struct {
	users  ports.UserRepository
	news   ports.NewsRepository
	photos ports.PhotoStore
	log    zerolog.Logger
}

// NewUserService returns the admin user-management service. photos may be nil.
func NewUserService(users ports.UserRepository, news ports.NewsRepository, photos ports.PhotoStore, log zerolog.Logger) ports.UserService {
	return &userService{users: users, news: news, photos: photos, log: log}
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Delete enforces, in order: the target exists, is not an admin, is not the
// requester, and has no authored news.
func (s *userService) Delete(ctx context.Context, requesterID, targetID string) error {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.IsAdmin() {
		return domain.ErrCannotDeleteAdmin
	}
	if target.ID == requesterID {
		return domain.ErrCannotDeleteSelf
	}

	authored, err := s.news.CountByAuthor(ctx, target.ID)
	if err != nil {
		return fmt.Errorf("delete user: count news: %w", err)
	}
	if authored > 0 {
		return domain.ErrUserHasNews
	}

	if err := s.users.Delete(ctx, target.ID); err != nil {
		if errors.Is(err, domain.ErrUserHasNews) || errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("delete user: %w", err)
	}

	if target.PhotoPath != nil && s.photos != nil {
		if err := s.photos.Remove(*target.PhotoPath); err != nil {
			s.log.Warn().Err(err).Str("user_id", target.ID).Msg("failed to remove photo of deleted user")
		}
	}

	s.log.Info().Str("user_id", target.ID).Str("by", requesterID).Msg("user deleted")
	return nil
}
