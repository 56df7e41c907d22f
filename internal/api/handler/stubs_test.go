package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
	"github.com/seismo-watch/seismic-api/internal/core/ports"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	profileFn  func(ctx context.Context, userID string) (*domain.User, error)
	updateFn   func(ctx context.Context, in ports.UpdateProfileInput) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.profileFn(ctx, userID)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, in ports.UpdateProfileInput) (*domain.User, error) {
	return s.updateFn(ctx, in)
}

type stubEarthquakeService struct {
	live      []domain.Earthquake
	liveErr   error
	lastLive  domain.LiveQuery
	saveFn    func(ctx context.Context, eq domain.Earthquake) (*domain.Earthquake, error)
	history   []*domain.Earthquake
	lastHist  domain.HistoryFilter
	histCalls int
}

func (s *stubEarthquakeService) Live(_ context.Context, q domain.LiveQuery) ([]domain.Earthquake, error) {
	s.lastLive = q
	return s.live, s.liveErr
}

func (s *stubEarthquakeService) Save(ctx context.Context, eq domain.Earthquake) (*domain.Earthquake, error) {
	return s.saveFn(ctx, eq)
}

func (s *stubEarthquakeService) History(_ context.Context, f domain.HistoryFilter) ([]*domain.Earthquake, error) {
	s.histCalls++
	s.lastHist = f
	return s.history, nil
}

type stubNewsService struct {
	items      []*domain.News
	created    *ports.CreateNewsInput
	deleteErr  error
	getErr     error
	updatedID  string
	lastUpdate ports.UpdateNewsInput
}

func (s *stubNewsService) List(context.Context) ([]*domain.News, error) { return s.items, nil }

func (s *stubNewsService) Get(_ context.Context, id string) (*domain.News, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &domain.News{ID: id, Title: "t"}, nil
}

func (s *stubNewsService) Create(_ context.Context, in ports.CreateNewsInput) (*domain.News, error) {
	s.created = &in
	return &domain.News{ID: "n1", Title: in.Title, Content: in.Content, AuthorID: in.AuthorID}, nil
}

func (s *stubNewsService) Update(_ context.Context, id string, in ports.UpdateNewsInput) (*domain.News, error) {
	s.updatedID = id
	s.lastUpdate = in
	return &domain.News{ID: id, Title: in.Title}, nil
}

func (s *stubNewsService) Delete(context.Context, string) error { return s.deleteErr }

type stubUserService struct {
	users     []*domain.User
	deleteErr error
	requester string
	target    string
}

func (s *stubUserService) List(context.Context) ([]*domain.User, error) { return s.users, nil }

func (s *stubUserService) Delete(_ context.Context, requesterID, targetID string) error {
	s.requester, s.target = requesterID, targetID
	return s.deleteErr
}

func readAll(r io.Reader) string {
	b, _ := io.ReadAll(r)
	return string(b)
}
