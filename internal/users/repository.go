package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"lanchonete/internal/domain"
)

type RepositoryInterface interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository { return &Repository{pool: pool} }

func (r *Repository) Create(ctx context.Context, u domain.User) (domain.User, error) {
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (email, hashed_password, is_active, is_owner)
VALUES ($1, $2, $3, $4)
RETURNING id
`, u.Email, u.HashedPassword, u.IsActive, u.IsOwner).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.User{}, domain.ErrEmailTaken
		}
		return domain.User{}, &domain.StorageError{Op: "create user", Err: err}
	}
	return u, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
SELECT id, email, hashed_password, is_active, is_owner FROM users WHERE email = $1
`, email))
}

func (r *Repository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `
SELECT id, email, hashed_password, is_active, is_owner FROM users WHERE id = $1
`, id))
}

func (r *Repository) scanOne(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.IsActive, &u.IsOwner)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, &domain.StorageError{Op: "get user", Err: err}
	}
	return u, nil
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, email, hashed_password, is_active, is_owner FROM users ORDER BY id LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, &domain.StorageError{Op: "list users", Err: err}
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.IsActive, &u.IsOwner); err != nil {
			return nil, &domain.StorageError{Op: "scan user", Err: err}
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list users", Err: err}
	}
	return out, nil
}
