package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
)

// Every read joins the author so the byline is resolved in one round trip.
const newsSelect = `
	SELECT n.id::text, n.title, n.content, n.date_posted, n.author_id::text,
	       NULLIF(TRIM(u.first_name || ' ' || u.last_name), '')
	FROM %s n
	LEFT JOIN users u ON u.id = n.author_id`

type NewsRepository struct {
	pool *pgxpool.Pool
}

func NewNewsRepository(pool *pgxpool.Pool) *NewsRepository {
	return &NewsRepository{pool: pool}
}

func scanNews(row pgx.Row) (*domain.News, error) {
	var n domain.News
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &n.DatePosted, &n.AuthorID, &n.AuthorName); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NewsRepository) Create(ctx context.Context, n *domain.News) (*domain.News, error) {
	authorID, ok := parseID(n.AuthorID)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	row := r.pool.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO news (title, content, author_id)
			VALUES ($1, $2, $3)
			RETURNING *
		)`+fmt.Sprintf(newsSelect, "inserted"),
		n.Title, n.Content, authorID,
	)
	created, err := scanNews(row)
	if err != nil {
		if isForeignKeyViolation(err, constraintNewsAuthor) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("insert news: %w", err)
	}
	return created, nil
}

func (r *NewsRepository) FindByID(ctx context.Context, id string) (*domain.News, error) {
	nid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrNewsNotFound
	}
	n, err := scanNews(r.pool.QueryRow(ctx, fmt.Sprintf(newsSelect, "news")+` WHERE n.id = $1`, nid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNewsNotFound
		}
		return nil, fmt.Errorf("find news: %w", err)
	}
	return n, nil
}

func (r *NewsRepository) List(ctx context.Context) ([]*domain.News, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(newsSelect, "news")+` ORDER BY n.date_posted DESC`)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.News, error) {
		return scanNews(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan news: %w", err)
	}
	return items, nil
}

func (r *NewsRepository) Update(ctx context.Context, n *domain.News) (*domain.News, error) {
	nid, ok := parseID(n.ID)
	if !ok {
		return nil, domain.ErrNewsNotFound
	}
	row := r.pool.QueryRow(ctx, `
		WITH updated AS (
			UPDATE news SET title = $2, content = $3
			WHERE id = $1
			RETURNING *
		)`+fmt.Sprintf(newsSelect, "updated"),
		nid, n.Title, n.Content,
	)
	updated, err := scanNews(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNewsNotFound
		}
		return nil, fmt.Errorf("update news: %w", err)
	}
	return updated, nil
}

func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	nid, ok := parseID(id)
	if !ok {
		return domain.ErrNewsNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM news WHERE id = $1`, nid)
	if err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNewsNotFound
	}
	return nil
}

func (r *NewsRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	aid, ok := parseID(authorID)
	if !ok {
		return 0, nil
	}
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM news WHERE author_id = $1`, aid).Scan(&n); err != nil {
		return 0, fmt.Errorf("count news: %w", err)
	}
	return n, nil
}
