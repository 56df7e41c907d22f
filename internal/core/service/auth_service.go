package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/seismo-watch/seismic-api/internal/api/metrics"
	"github.com/seismo-watch/seismic-api/internal/core/domain"
	"github.com/seismo-watch/seismic-api/internal/core/ports"
)

// emails checks address syntax for callers that bypass the HTTP validator.
var emails = validator.New()

// AuthService implements registration, login and self-service profile updates.
type AuthService struct {
	repo      ports.UserRepository
	photos    ports.PhotoStore
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, photos ports.PhotoStore, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{
		repo:      repo,
		photos:    photos,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
		log:       log,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.Email = domain.NormalizeEmail(in.Email)
	for _, f := range []struct{ name, value string }{
		{"first_name", in.FirstName},
		{"last_name", in.LastName},
		{"email", in.Email},
		{"password", in.Password},
	} {
		if strings.TrimSpace(f.value) == "" {
			return nil, domain.Validation("%s is required", f.name)
		}
	}
	if err := emails.Var(in.Email, "email"); err != nil {
		return nil, domain.Validation("email must be a valid email")
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	photoPath, err := s.savePhoto(ctx, in.Photo)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		DateOfBirth:  in.DateOfBirth,
		PhotoPath:    photoPath,
		Role:         domain.RoleVisitor,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		s.discardPhoto(photoPath)
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.UsersRegisteredTotal.Inc()
	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.Validation("email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return "", nil, fmt.Errorf("login: stamp last login: %w", err)
	}
	user.LastLogin = &now

	token, err := s.generateToken(user, now)
	if err != nil {
		return "", nil, fmt.Errorf("login: sign token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return token, user, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, in ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(in.FirstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(in.LastName); v != "" {
		user.LastName = v
	}
	if in.Phone != nil {
		user.Phone = in.Phone
	}
	if in.DateOfBirth != nil {
		user.DateOfBirth = in.DateOfBirth
	}

	if in.NewPassword != "" {
		if in.CurrentPassword == "" {
			return nil, domain.Validation("current password is required")
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)) != nil {
			return nil, domain.Validation("current password is incorrect")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("update profile: hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	newPhoto, err := s.savePhoto(ctx, in.Photo)
	if err != nil {
		return nil, err
	}
	oldPhoto := user.PhotoPath
	if newPhoto != nil {
		user.PhotoPath = newPhoto
	}

	if err := s.repo.Update(ctx, user); err != nil {
		s.discardPhoto(newPhoto)
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if newPhoto != nil {
		s.discardPhoto(oldPhoto)
	}

	return user, nil
}

func (s *AuthService) generateToken(user *domain.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"role":  string(user.Role),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) savePhoto(ctx context.Context, photo *ports.PhotoUpload) (*string, error) {
	if photo == nil {
		return nil, nil
	}
	if s.photos == nil {
		return nil, domain.Validation("photo uploads are disabled")
	}
	path, err := s.photos.Save(ctx, *photo)
	if err != nil {
		return nil, err
	}
	return &path, nil
}

// discardPhoto removes a stored photo on a best-effort basis.
func (s *AuthService) discardPhoto(path *string) {
	if path == nil || s.photos == nil {
		return
	}
	if err := s.photos.Remove(*path); err != nil {
		s.log.Warn().Err(err).Str("photo", *path).Msg("failed to remove photo")
	}
}
