package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
	"github.com/seismo-watch/seismic-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID      map[string]*domain.User
	createErr error
	updateErr error
	deleted   []string
	touched   map[string]time.Time
	seq       int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User), touched: make(map[string]time.Time)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	r.byID[u.ID] = cloneUser(u)
	return u
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	created := cloneUser(u)
	created.ID = fmt.Sprintf("user-%d", r.seq)
	created.CreatedAt = time.Now().UTC()
	r.byID[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.byID[u.ID] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLogin = &at
	r.touched[id] = at
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// ---------------------------------------------------------------------------
// News
// ---------------------------------------------------------------------------

type stubNewsRepo struct {
	byID      map[string]*domain.News
	order     []string
	countErr  error
	createErr error
	seq       int
}

func newStubNewsRepo() *stubNewsRepo {
	return &stubNewsRepo{byID: make(map[string]*domain.News)}
}

func cloneNews(n *domain.News) *domain.News {
	clone := *n
	return &clone
}

func (r *stubNewsRepo) Create(_ context.Context, n *domain.News) (*domain.News, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	created := cloneNews(n)
	created.ID = fmt.Sprintf("news-%d", r.seq)
	created.DatePosted = time.Now().UTC()
	r.byID[created.ID] = cloneNews(created)
	r.order = append(r.order, created.ID)
	return created, nil
}

func (r *stubNewsRepo) FindByID(_ context.Context, id string) (*domain.News, error) {
	n, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNewsNotFound
	}
	return cloneNews(n), nil
}

func (r *stubNewsRepo) List(_ context.Context) ([]*domain.News, error) {
	out := make([]*domain.News, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		if n, ok := r.byID[r.order[i]]; ok {
			out = append(out, cloneNews(n))
		}
	}
	return out, nil
}

func (r *stubNewsRepo) Update(_ context.Context, n *domain.News) (*domain.News, error) {
	if _, ok := r.byID[n.ID]; !ok {
		return nil, domain.ErrNewsNotFound
	}
	r.byID[n.ID] = cloneNews(n)
	return cloneNews(n), nil
}

func (r *stubNewsRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNewsNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubNewsRepo) CountByAuthor(_ context.Context, authorID string) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	var n int64
	for _, item := range r.byID {
		if item.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Earthquakes
// ---------------------------------------------------------------------------

// stubEarthquakeRepo enforces source id uniqueness in Create the way the
// database constraint does, so the pre-check can be bypassed to simulate races.
type stubEarthquakeRepo struct {
	mu          sync.Mutex
	bySource    map[string]*domain.Earthquake
	skipExists  bool
	existsErr   error
	createErr   error
	existsCalls int
	creates     int
	lastFilter  *domain.HistoryFilter
	historyRows []*domain.Earthquake
}

func newStubEarthquakeRepo() *stubEarthquakeRepo {
	return &stubEarthquakeRepo{bySource: make(map[string]*domain.Earthquake)}
}

func (r *stubEarthquakeRepo) ExistsBySourceID(_ context.Context, sourceID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.existsCalls++
	if r.existsErr != nil {
		return false, r.existsErr
	}
	if r.skipExists {
		return false, nil
	}
	_, ok := r.bySource[sourceID]
	return ok, nil
}

func (r *stubEarthquakeRepo) Create(_ context.Context, eq *domain.Earthquake) (*domain.Earthquake, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, ok := r.bySource[eq.SourceID]; ok {
		return nil, domain.ErrEarthquakeExists
	}
	r.creates++
	saved := *eq
	saved.ID = fmt.Sprintf("eq-%d", r.creates)
	saved.CreatedAt = time.Now().UTC()
	r.bySource[eq.SourceID] = &saved
	out := saved
	return &out, nil
}

func (r *stubEarthquakeRepo) History(_ context.Context, f domain.HistoryFilter) ([]*domain.Earthquake, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = &f
	return r.historyRows, nil
}

type stubCatalog struct {
	records []domain.Earthquake
	err     error
	calls   int
	last    domain.CatalogQuery
}

func (c *stubCatalog) Fetch(_ context.Context, q domain.CatalogQuery) ([]domain.Earthquake, error) {
	c.calls++
	c.last = q
	if c.err != nil {
		return nil, c.err
	}
	return c.records, nil
}

type stubSourceIDCache struct {
	mu      sync.Mutex
	seen    map[string]bool
	seenErr error
	markErr error
	marked  []string
}

func newStubSourceIDCache() *stubSourceIDCache {
	return &stubSourceIDCache{seen: make(map[string]bool)}
}

func (c *stubSourceIDCache) Seen(_ context.Context, sourceID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seenErr != nil {
		return false, c.seenErr
	}
	return c.seen[sourceID], nil
}

func (c *stubSourceIDCache) Mark(_ context.Context, sourceID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.markErr != nil {
		return c.markErr
	}
	c.seen[sourceID] = true
	c.marked = append(c.marked, sourceID)
	return nil
}

// ---------------------------------------------------------------------------
// Photos
// ---------------------------------------------------------------------------

type stubPhotoStore struct {
	saveErr error
	saved   []string
	removed []string
	seq     int
}

func (p *stubPhotoStore) Save(_ context.Context, photo ports.PhotoUpload) (string, error) {
	if p.saveErr != nil {
		return "", p.saveErr
	}
	if _, err := io.ReadAll(photo.Content); err != nil {
		return "", err
	}
	p.seq++
	path := fmt.Sprintf("photos/%d-%s", p.seq, photo.Filename)
	p.saved = append(p.saved, path)
	return path, nil
}

func (p *stubPhotoStore) Remove(relPath string) error {
	p.removed = append(p.removed, relPath)
	return nil
}
