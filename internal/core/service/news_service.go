package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
	"github.com/seismo-watch/seismic-api/internal/core/ports"
)

type NewsService struct {
	news   ports.NewsRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewNewsService(news ports.NewsRepository, users ports.UserRepository, logger zerolog.Logger) *NewsService {
	return &NewsService{news: news, users: users, logger: logger}
}

func (s *NewsService) List(ctx context.Context) ([]*domain.News, error) {
	items, err := s.news.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return items, nil
}

func (s *NewsService) Get(ctx context.Context, id string) (*domain.News, error) {
	return s.news.FindByID(ctx, id)
}

// Create posts an article. The author must still exist when the write happens.
func (s *NewsService) Create(ctx context.Context, in ports.CreateNewsInput) (*domain.News, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, domain.Validation("title and content are required")
	}

	if _, err := s.users.FindByID(ctx, in.AuthorID); err != nil {
		return nil, err
	}

	created, err := s.news.Create(ctx, &domain.News{
		Title:    title,
		Content:  content,
		AuthorID: in.AuthorID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Msg("failed to create news")
		return nil, fmt.Errorf("create news: %w", err)
	}

	s.logger.Info().Str("news_id", created.ID).Str("author_id", in.AuthorID).Msg("news created")
	return created, nil
}

// Update applies only the non-blank fields of in.
func (s *NewsService) Update(ctx context.Context, id string, in ports.UpdateNewsInput) (*domain.News, error) {
	item, err := s.news.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(in.Title); v != "" {
		item.Title = v
	}
	if v := strings.TrimSpace(in.Content); v != "" {
		item.Content = v
	}

	updated, err := s.news.Update(ctx, item)
	if err != nil {
		if errors.Is(err, domain.ErrNewsNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update news: %w", err)
	}
	return updated, nil
}

func (s *NewsService) Delete(ctx context.Context, id string) error {
	if err := s.news.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNewsNotFound) {
			return err
		}
		return fmt.Errorf("delete news: %w", err)
	}
	s.logger.Info().Str("news_id", id).Msg("news deleted")
	return nil
}
