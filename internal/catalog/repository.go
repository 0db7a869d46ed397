package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lanchonete/internal/domain"
)

type RepositoryInterface interface {
	CreateEstablishment(ctx context.Context, e domain.Establishment) (domain.Establishment, error)
	GetEstablishment(ctx context.Context, id int64) (domain.Establishment, error)
	GetEstablishmentByOwner(ctx context.Context, ownerID int64) (domain.Establishment, error)
	ListEstablishments(ctx context.Context, limit, offset int) ([]domain.Establishment, error)
	UpdateEstablishment(ctx context.Context, e domain.Establishment) (domain.Establishment, error)
	DeleteEstablishment(ctx context.Context, id int64) error

	CreateCategory(ctx context.Context, name string) (domain.Category, error)
	GetCategory(ctx context.Context, id int64) (domain.Category, error)
	ListCategories(ctx context.Context, limit, offset int) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, name string) (domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository { return &Repository{pool: pool} }

// --- establishments ---

func (r *Repository) CreateEstablishment(ctx context.Context, e domain.Establishment) (domain.Establishment, error) {
	err := r.pool.QueryRow(ctx, `
INSERT INTO establishments (name, address, phone, description, owner_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`, e.Name, e.Address, e.Phone, nullIfEmpty(e.Description), e.OwnerID).Scan(&e.ID)
	if err != nil {
		return domain.Establishment{}, &domain.StorageError{Op: "create establishment", Err: err}
	}
	return e, nil
}

func (r *Repository) GetEstablishment(ctx context.Context, id int64) (domain.Establishment, error) {
	return scanEstablishment(r.pool.QueryRow(ctx, `
SELECT id, name, address, phone, COALESCE(description, ''), owner_id
FROM establishments WHERE id = $1
`, id))
}

func (r *Repository) GetEstablishmentByOwner(ctx context.Context, ownerID int64) (domain.Establishment, error) {
	return scanEstablishment(r.pool.QueryRow(ctx, `
SELECT id, name, address, phone, COALESCE(description, ''), owner_id
FROM establishments WHERE owner_id = $1
`, ownerID))
}

func (r *Repository) ListEstablishments(ctx context.Context, limit, offset int) ([]domain.Establishment, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, name, address, phone, COALESCE(description, ''), owner_id
FROM establishments ORDER BY id LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, &domain.StorageError{Op: "list establishments", Err: err}
	}
	defer rows.Close()

	var out []domain.Establishment
	for rows.Next() {
		var e domain.Establishment
		if err := rows.Scan(&e.ID, &e.Name, &e.Address, &e.Phone, &e.Description, &e.OwnerID); err != nil {
			return nil, &domain.StorageError{Op: "scan establishment", Err: err}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateEstablishment(ctx context.Context, e domain.Establishment) (domain.Establishment, error) {
	tag, err := r.pool.Exec(ctx, `
UPDATE establishments SET name = $2, address = $3, phone = $4, description = $5 WHERE id = $1
`, e.ID, e.Name, e.Address, e.Phone, nullIfEmpty(e.Description))
	if err != nil {
		return domain.Establishment{}, &domain.StorageError{Op: "update establishment", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return domain.Establishment{}, domain.ErrNotFound
	}
	return e, nil
}

func (r *Repository) DeleteEstablishment(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM establishments WHERE id = $1`, id)
	if err != nil {
		return &domain.StorageError{Op: "delete establishment", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanEstablishment(row pgx.Row) (domain.Establishment, error) {
	var e domain.Establishment
	err := row.Scan(&e.ID, &e.Name, &e.Address, &e.Phone, &e.Description, &e.OwnerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Establishment{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Establishment{}, &domain.StorageError{Op: "get establishment", Err: err}
	}
	return e, nil
}

// --- categories ---

func (r *Repository) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	var c domain.Category
	c.Name = name
	err := r.pool.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&c.ID)
	if err != nil {
		return domain.Category{}, &domain.StorageError{Op: "create category", Err: err}
	}
	return c, nil
}

func (r *Repository) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	var c domain.Category
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Category{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Category{}, &domain.StorageError{Op: "get category", Err: err}
	}
	return c, nil
}

func (r *Repository) ListCategories(ctx context.Context, limit, offset int) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, &domain.StorageError{Op: "list categories", Err: err}
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, &domain.StorageError{Op: "scan category", Err: err}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateCategory(ctx context.Context, id int64, name string) (domain.Category, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE categories SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return domain.Category{}, &domain.StorageError{Op: "update category", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return domain.Category{}, domain.ErrNotFound
	}
	return domain.Category{ID: id, Name: name}, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return &domain.StorageError{Op: "delete category", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --- products ---

const productColumns = `id, name, COALESCE(description, ''), price, COALESCE(image_url, ''), is_available, establishment_id, category_id`

func (r *Repository) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	err := r.pool.QueryRow(ctx, `
INSERT INTO products (name, description, price, image_url, is_available, establishment_id, category_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`, p.Name, nullIfEmpty(p.Description), p.Price, nullIfEmpty(p.ImageURL), p.IsAvailable, p.EstablishmentID, p.CategoryID).Scan(&p.ID)
	if err != nil {
		return domain.Product{}, &domain.StorageError{Op: "create product", Err: err}
	}
	return p, nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (r *Repository) ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, &domain.StorageError{Op: "list products", Err: err}
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.IsAvailable, &p.EstablishmentID, &p.CategoryID); err != nil {
			return nil, &domain.StorageError{Op: "scan product", Err: err}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	tag, err := r.pool.Exec(ctx, `
UPDATE products
SET name = $2, description = $3, price = $4, image_url = $5, is_available = $6, establishment_id = $7, category_id = $8
WHERE id = $1
`, p.ID, p.Name, nullIfEmpty(p.Description), p.Price, nullIfEmpty(p.ImageURL), p.IsAvailable, p.EstablishmentID, p.CategoryID)
	if err != nil {
		return domain.Product{}, &domain.StorageError{Op: "update product", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return &domain.StorageError{Op: "delete product", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.IsAvailable, &p.EstablishmentID, &p.CategoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, &domain.StorageError{Op: "get product", Err: err}
	}
	return p, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
