package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
	"github.com/seismo-watch/seismic-api/internal/core/ports"
	"github.com/seismo-watch/seismic-api/internal/infrastructure/http/handlers"
)

const testSecret = "router-secret"

type fakeAuth struct{ ports.AuthService }

type fakeEarthquakes struct {
	liveCalls int
}

func (f *fakeEarthquakes) Live(context.Context, domain.LiveQuery) ([]domain.Earthquake, error) {
	f.liveCalls++
	return []domain.Earthquake{}, nil
}

func (f *fakeEarthquakes) Save(_ context.Context, eq domain.Earthquake) (*domain.Earthquake, error) {
	return nil, domain.ErrEarthquakeExists
}

func (f *fakeEarthquakes) History(context.Context, domain.HistoryFilter) ([]*domain.Earthquake, error) {
	return nil, nil
}

type fakeNews struct{ ports.NewsService }

func (fakeNews) List(context.Context) ([]*domain.News, error) {
	return []*domain.News{{ID: "n1", Title: "Advisory", AuthorID: "a1"}}, nil
}

type fakeUsers struct {
	deleted []string
}

func (f *fakeUsers) List(context.Context) ([]*domain.User, error) { return nil, nil }

func (f *fakeUsers) Delete(_ context.Context, _, targetID string) error {
	f.deleted = append(f.deleted, targetID)
	return nil
}

type routerFixture struct {
	quakes *fakeEarthquakes
	users  *fakeUsers
	do     func(method, target, token, body string) *httptest.ResponseRecorder
}

func newRouterFixture(t *testing.T, tweaks ...func(*Options)) routerFixture {
	t.Helper()
	quakes := &fakeEarthquakes{}
	users := &fakeUsers{}
	reg := prometheus.NewRegistry()

	opts := Options{
		JWTSecret:   testSecret,
		CORSOrigins: []string{"http://localhost:5173"},
		MaxBodySize: "1M",
	}
	for _, tweak := range tweaks {
		tweak(&opts)
	}

	e := NewRouter(Deps{
		Options:           opts,
		Log:               zerolog.Nop(),
		AuthService:       fakeAuth{},
		EarthquakeService: quakes,
		NewsService:       fakeNews{},
		UserService:       users,
		Health:            handlers.NewHealthHandler("test", nil),
		Registerer:        reg,
		Gatherer:          reg,
	})

	do := func(method, target, token, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}
	return routerFixture{quakes: quakes, users: users, do: do}
}

func tokenFor(t *testing.T, id string, role domain.Role) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  id,
		"role": string(role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return body.Message
}

func TestRouter_PublicEndpoints(t *testing.T) {
	f := newRouterFixture(t)

	for _, target := range []string{"/", "/health", "/health/ready", "/api/news", "/api/news/", "/metrics"} {
		if rec := f.do(http.MethodGet, target, "", ""); rec.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", target, rec.Code)
		}
	}
}

func TestRouter_FractionalRateLimitAdmitsFirstRequest(t *testing.T) {
	f := newRouterFixture(t, func(o *Options) { o.RateLimitRPS = 0.5 })

	if rec := f.do(http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/health", "", ""); rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 on immediate retry, got %d", rec.Code)
	}
}

func TestRouter_ServesUploadsFromPhotoRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "photos"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "photos", "a.png"), []byte("img"), 0o644); err != nil {
		t.Fatal(err)
	}
	f := newRouterFixture(t, func(o *Options) { o.UploadFolder = root })

	rec := f.do(http.MethodGet, "/uploads/photos/a.png", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "img" {
		t.Fatalf("expected stored photo, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouter_EarthquakesRequireToken(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/api/earthquakes/live", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if msg := messageOf(t, rec); msg != "authorization token is required" {
		t.Errorf("unexpected message %q", msg)
	}
	if f.quakes.liveCalls != 0 {
		t.Errorf("service must not be called")
	}

	rec = f.do(http.MethodGet, "/api/earthquakes/live", tokenFor(t, "v1", domain.RoleVisitor), "")
	if rec.Code != http.StatusOK || f.quakes.liveCalls != 1 {
		t.Fatalf("expected visitor access, got %d", rec.Code)
	}
}

func TestRouter_MalformedQueryIsBadRequest(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/api/earthquakes/history?minMagnitude=big", tokenFor(t, "v1", domain.RoleVisitor), "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRouter_DuplicateSaveIsConflict(t *testing.T) {
	f := newRouterFixture(t)

	body := `{"id":"us1","magnitude":5,"latitude":1,"longitude":2,"event_time":"2024-01-01T00:00:00Z"}`
	rec := f.do(http.MethodPost, "/api/earthquakes/save", tokenFor(t, "v1", domain.RoleVisitor), body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if msg := messageOf(t, rec); msg != "earthquake already exists" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestRouter_AdminRoutes(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodDelete, "/api/users/v2", tokenFor(t, "v1", domain.RoleVisitor), "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for visitor, got %d", rec.Code)
	}
	if msg := messageOf(t, rec); msg != "admin access required" {
		t.Errorf("unexpected message %q", msg)
	}

	rec = f.do(http.MethodPost, "/api/news", tokenFor(t, "v1", domain.RoleVisitor), `{"title":"t","content":"c"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 creating news as visitor, got %d", rec.Code)
	}

	rec = f.do(http.MethodDelete, "/api/users/v2", tokenFor(t, "a1", domain.RoleAdmin), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
	if len(f.users.deleted) != 1 || f.users.deleted[0] != "v2" {
		t.Errorf("unexpected deletions %v", f.users.deleted)
	}
}

func TestRouter_UnknownRouteUsesEnvelope(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/api/nope", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if msg := messageOf(t, rec); msg == "" {
		t.Errorf("expected message in envelope")
	}
}
