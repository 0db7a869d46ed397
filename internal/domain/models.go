package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	HashedPassword string `json:"-"`
	IsActive       bool   `json:"is_active"`
	IsOwner        bool   `json:"is_owner"`
}

type Establishment struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Description string `json:"description,omitempty"`
	OwnerID     int64  `json:"owner_id"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	ImageURL        string          `json:"image_url,omitempty"`
	IsAvailable     bool            `json:"is_available"`
	EstablishmentID int64           `json:"establishment_id"`
	CategoryID      *int64          `json:"category_id,omitempty"`
}

type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusPreparing      OrderStatus = "preparing"
	StatusReadyForPickup OrderStatus = "ready_for_pickup"
	StatusOnDelivery     OrderStatus = "on_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReadyForPickup,
		StatusOnDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentCash       PaymentMethod = "cash"
	PaymentPix        PaymentMethod = "pix"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentCash, PaymentPix:
		return true
	}
	return false
}

// OrderItem is owned by exactly one Order. PriceAtTimeOfOrder is a snapshot of
// the product's unit price taken inside the order-creation transaction and is
// never updated afterwards, even when the product's price changes.
type OrderItem struct {
	ID                 int64           `json:"id"`
	OrderID            int64           `json:"order_id"`
	ProductID          int64           `json:"product_id"`
	ProductName        string          `json:"product_name,omitempty"`
	Quantity           int             `json:"quantity"`
	PriceAtTimeOfOrder decimal.Decimal `json:"price_at_time_of_order"`
}

// LineTotal returns quantity × frozen unit price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtTimeOfOrder.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the aggregate root over its items. TotalAmount is computed once at
// creation from the frozen item prices and is never recomputed from the
// current catalog.
type Order struct {
	ID                int64           `json:"id"`
	CustomerID        int64           `json:"customer_id"`
	CustomerEmail     string          `json:"customer_email,omitempty"`
	EstablishmentID   int64           `json:"establishment_id"`
	EstablishmentName string          `json:"establishment_name,omitempty"`
	OrderDate         time.Time       `json:"order_date"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Status            OrderStatus     `json:"status"`
	DeliveryAddress   string          `json:"delivery_address,omitempty"`
	IsPickup          bool            `json:"is_pickup"`
	PaymentMethod     PaymentMethod   `json:"payment_method"`
	Items             []OrderItem     `json:"items"`
}

// OrderItemRequest is what the caller submits; it never reaches storage as-is.
// The quantity is validated and the price resolved by the pricing step.
type OrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}
