package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is the DDL applied by the migrate command. Statements are idempotent
// so re-running migrate is safe.
//
// order_items.order_id cascades: items are owned by their order and may never
// outlive it. order_items.product_id does NOT cascade: an item keeps its
// frozen price even if pricing data around the product changes.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id              BIGSERIAL PRIMARY KEY,
    email           TEXT        NOT NULL UNIQUE,
    hashed_password TEXT        NOT NULL,
    is_active       BOOLEAN     NOT NULL DEFAULT TRUE,
    is_owner        BOOLEAN     NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS establishments (
    id          BIGSERIAL PRIMARY KEY,
    name        TEXT NOT NULL,
    address     TEXT NOT NULL,
    phone       TEXT NOT NULL,
    description TEXT,
    owner_id    BIGINT NOT NULL UNIQUE REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS categories (
    id   BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS products (
    id               BIGSERIAL PRIMARY KEY,
    name             TEXT          NOT NULL,
    description      TEXT,
    price            NUMERIC(10,2) NOT NULL CHECK (price >= 0),
    image_url        TEXT,
    is_available     BOOLEAN       NOT NULL DEFAULT TRUE,
    establishment_id BIGINT        NOT NULL REFERENCES establishments(id),
    category_id      BIGINT        REFERENCES categories(id)
);

CREATE INDEX IF NOT EXISTS idx_products_establishment ON products(establishment_id);

CREATE TABLE IF NOT EXISTS orders (
    id               BIGSERIAL PRIMARY KEY,
    customer_id      BIGINT        NOT NULL REFERENCES users(id),
    establishment_id BIGINT        NOT NULL REFERENCES establishments(id),
    order_date       TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
    total_amount     NUMERIC(10,2) NOT NULL,
    status           TEXT          NOT NULL DEFAULT 'pending',
    delivery_address TEXT,
    is_pickup        BOOLEAN       NOT NULL DEFAULT FALSE,
    payment_method   TEXT          NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id);
CREATE INDEX IF NOT EXISTS idx_orders_establishment ON orders(establishment_id);

CREATE TABLE IF NOT EXISTS order_items (
    id                     BIGSERIAL PRIMARY KEY,
    order_id               BIGINT        NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    product_id             BIGINT        NOT NULL REFERENCES products(id),
    quantity               INTEGER       NOT NULL CHECK (quantity > 0),
    price_at_time_of_order NUMERIC(10,2) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);
`

// Migrate applies the schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
