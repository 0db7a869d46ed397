package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lanchonete/internal/domain"
)

// CreateParams is a validated order draft; items are priced inside the
// creation transaction.
type CreateParams struct {
	CustomerID      int64
	EstablishmentID int64
	DeliveryAddress string
	IsPickup        bool
	PaymentMethod   domain.PaymentMethod
	Items           []domain.OrderItemRequest
}

type RepositoryInterface interface {
	Create(ctx context.Context, params CreateParams) (domain.Order, error)
	Get(ctx context.Context, id int64) (domain.Order, error)
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.Order, error)
	ListByEstablishment(ctx context.Context, establishmentID int64, limit, offset int) ([]domain.Order, error)
	Update(ctx context.Context, id int64, patch domain.OrderPatch) (domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository { return &Repository{pool: pool} }

// Create builds the order aggregate in one transaction: the catalog rows for
// all referenced products are read, priced, and the header plus every line
// item are written before commit. Any pricing failure rolls everything back,
// so a rejected order leaves no rows behind.
func (r *Repository) Create(ctx context.Context, params CreateParams) (domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Order{}, &domain.StorageError{Op: "begin create order", Err: err}
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM establishments WHERE id = $1)`, params.EstablishmentID).Scan(&exists)
	if err != nil {
		return domain.Order{}, &domain.StorageError{Op: "check establishment", Err: err}
	}
	if !exists {
		return domain.Order{}, fmt.Errorf("establishment %d: %w", params.EstablishmentID, domain.ErrNotFound)
	}

	products, err := fetchProducts(ctx, tx, params.Items)
	if err != nil {
		return domain.Order{}, err
	}
	items, total, err := PriceOrder(params.EstablishmentID, params.Items, products)
	if err != nil {
		return domain.Order{}, err
	}

	var (
		orderID   int64
		orderDate time.Time
	)
	err = tx.QueryRow(ctx, `
INSERT INTO orders (customer_id, establishment_id, order_date, total_amount, status, delivery_address, is_pickup, payment_method)
VALUES ($1, $2, NOW(), $3, $4, $5, $6, $7)
RETURNING id, order_date
`, params.CustomerID, params.EstablishmentID, total, domain.StatusPending,
		nullIfEmpty(params.DeliveryAddress), params.IsPickup, params.PaymentMethod,
	).Scan(&orderID, &orderDate)
	if err != nil {
		return domain.Order{}, &domain.StorageError{Op: "insert order", Err: err}
	}

	for i := range items {
		items[i].OrderID = orderID
		err = tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, quantity, price_at_time_of_order)
VALUES ($1, $2, $3, $4)
RETURNING id
`, orderID, items[i].ProductID, items[i].Quantity, items[i].PriceAtTimeOfOrder).Scan(&items[i].ID)
		if err != nil {
			return domain.Order{}, &domain.StorageError{Op: "insert order item", Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, &domain.StorageError{Op: "commit create order", Err: err}
	}
	return r.Get(ctx, orderID)
}

// fetchProducts reads the catalog rows for every referenced product within
// the creation transaction, so pricing observes the latest committed prices.
func fetchProducts(ctx context.Context, tx pgx.Tx, items []domain.OrderItemRequest) (map[int64]domain.Product, error) {
	ids := make([]int64, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}

	rows, err := tx.Query(ctx, `
SELECT id, name, price, is_available, establishment_id FROM products WHERE id = ANY($1)
`, ids)
	if err != nil {
		return nil, &domain.StorageError{Op: "fetch products", Err: err}
	}
	defer rows.Close()

	products := make(map[int64]domain.Product, len(ids))
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.IsAvailable, &p.EstablishmentID); err != nil {
			return nil, &domain.StorageError{Op: "scan product", Err: err}
		}
		products[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "fetch products", Err: err}
	}
	return products, nil
}

const orderColumns = `
o.id, o.customer_id, u.email, o.establishment_id, e.name, o.order_date,
o.total_amount, o.status, COALESCE(o.delivery_address, ''), o.is_pickup, o.payment_method
FROM orders o
JOIN users u ON u.id = o.customer_id
JOIN establishments e ON e.id = o.establishment_id`

// Get returns the fully hydrated aggregate: header, customer and
// establishment identity, and every item with its product name.
func (r *Repository) Get(ctx context.Context, id int64) (domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` WHERE o.id = $1`, id).Scan(
		&o.ID, &o.CustomerID, &o.CustomerEmail, &o.EstablishmentID, &o.EstablishmentName,
		&o.OrderDate, &o.TotalAmount, &o.Status, &o.DeliveryAddress, &o.IsPickup, &o.PaymentMethod,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, &domain.StorageError{Op: "get order", Err: err}
	}

	itemsByOrder, err := r.itemsFor(ctx, []int64{o.ID})
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = itemsByOrder[o.ID]
	if o.Items == nil {
		o.Items = []domain.OrderItem{}
	}
	return o, nil
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.Order, error) {
	return r.list(ctx, `o.customer_id`, customerID, limit, offset)
}

func (r *Repository) ListByEstablishment(ctx context.Context, establishmentID int64, limit, offset int) ([]domain.Order, error) {
	return r.list(ctx, `o.establishment_id`, establishmentID, limit, offset)
}

// list hydrates a page of orders with two queries total: one for the headers
// and one bulk fetch for all their items.
func (r *Repository) list(ctx context.Context, scopeColumn string, scopeID int64, limit, offset int) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` WHERE `+scopeColumn+` = $1 ORDER BY o.id LIMIT $2 OFFSET $3`,
		scopeID, limit, offset)
	if err != nil {
		return nil, &domain.StorageError{Op: "list orders", Err: err}
	}
	defer rows.Close()

	var (
		out []domain.Order
		ids []int64
	)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID, &o.CustomerID, &o.CustomerEmail, &o.EstablishmentID, &o.EstablishmentName,
			&o.OrderDate, &o.TotalAmount, &o.Status, &o.DeliveryAddress, &o.IsPickup, &o.PaymentMethod,
		); err != nil {
			return nil, &domain.StorageError{Op: "scan order", Err: err}
		}
		o.Items = []domain.OrderItem{}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list orders", Err: err}
	}
	if len(out) == 0 {
		return []domain.Order{}, nil
	}

	itemsByOrder, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if items := itemsByOrder[out[i].ID]; items != nil {
			out[i].Items = items
		}
	}
	return out, nil
}

func (r *Repository) itemsFor(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
SELECT i.id, i.order_id, i.product_id, p.name, i.quantity, i.price_at_time_of_order
FROM order_items i
JOIN products p ON p.id = i.product_id
WHERE i.order_id = ANY($1)
ORDER BY i.id
`, orderIDs)
	if err != nil {
		return nil, &domain.StorageError{Op: "fetch order items", Err: err}
	}
	defer rows.Close()

	out := make(map[int64][]domain.OrderItem)
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.PriceAtTimeOfOrder); err != nil {
			return nil, &domain.StorageError{Op: "scan order item", Err: err}
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

// Update applies the patch under a row lock: current values are read FOR
// UPDATE, merged field by field, and written back. TotalAmount and the items
// are never touched here.
func (r *Repository) Update(ctx context.Context, id int64, patch domain.OrderPatch) (domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Order{}, &domain.StorageError{Op: "begin update order", Err: err}
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var o domain.Order
	err = tx.QueryRow(ctx, `
SELECT id, status, COALESCE(delivery_address, ''), is_pickup, payment_method
FROM orders WHERE id = $1
FOR UPDATE
`, id).Scan(&o.ID, &o.Status, &o.DeliveryAddress, &o.IsPickup, &o.PaymentMethod)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, &domain.StorageError{Op: "lock order", Err: err}
	}

	patch.Apply(&o)

	_, err = tx.Exec(ctx, `
UPDATE orders SET status = $2, delivery_address = $3, is_pickup = $4, payment_method = $5 WHERE id = $1
`, id, o.Status, nullIfEmpty(o.DeliveryAddress), o.IsPickup, o.PaymentMethod)
	if err != nil {
		return domain.Order{}, &domain.StorageError{Op: "update order", Err: err}
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, &domain.StorageError{Op: "commit update order", Err: err}
	}
	return r.Get(ctx, id)
}

// Delete removes the items and then the header in one transaction, so no
// item ever references a missing order.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return &domain.StorageError{Op: "begin delete order", Err: err}
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return &domain.StorageError{Op: "delete order items", Err: err}
	}
	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return &domain.StorageError{Op: "delete order", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return &domain.StorageError{Op: "commit delete order", Err: err}
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
