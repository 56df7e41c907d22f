package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seismo-watch/seismic-api/internal/core/domain"
)

const userColumns = `id::text, first_name, last_name, email, phone, password_hash,
	date_of_birth, photo_path, role, last_login, created_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.PasswordHash,
		&u.DateOfBirth, &u.PhotoPath, &role, &u.LastLogin, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, phone, password_hash, date_of_birth, photo_path, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+userColumns,
		user.FirstName, user.LastName, user.Email, user.Phone, user.PasswordHash,
		user.DateOfBirth, user.PhotoPath, string(user.Role),
	)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err, constraintUsersEmail) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	uid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, uid)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.User, error) {
		return scanUser(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	uid, ok := parseID(user.ID)
	if !ok {
		return domain.ErrUserNotFound
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, phone = $4, password_hash = $5,
		    date_of_birth = $6, photo_path = $7
		WHERE id = $1`,
		uid, user.FirstName, user.LastName, user.Phone, user.PasswordHash,
		user.DateOfBirth, user.PhotoPath,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	uid, ok := parseID(id)
	if !ok {
		return domain.ErrUserNotFound
	}
	tag, err := r.pool.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, uid, at.UTC())
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete removes a user in a transaction. Authored news blocks the delete
// through the foreign key.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	uid, ok := parseID(id)
	if !ok {
		return domain.ErrUserNotFound
	}
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var authored int64
		if err := tx.QueryRow(ctx, `SELECT count(*) FROM news WHERE author_id = $1`, uid).Scan(&authored); err != nil {
			return fmt.Errorf("count news: %w", err)
		}
		if authored > 0 {
			return domain.ErrUserHasNews
		}
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, uid)
		if err != nil {
			if isForeignKeyViolation(err, constraintNewsAuthor) {
				return domain.ErrUserHasNews
			}
			return fmt.Errorf("delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}
