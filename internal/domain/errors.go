package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("invalid request")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrEmptyOrder         = errors.New("order must contain at least one item")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrHasEstablishment   = errors.New("owner already has an establishment")
	ErrDeliveryAddress    = errors.New("delivery address is required for non-pickup orders")
)

// ProductNotFoundError rejects the whole order when any referenced product
// does not exist.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// ProductMismatchError rejects orders that mix products from an establishment
// other than the one the order declares.
type ProductMismatchError struct {
	ProductID       int64
	EstablishmentID int64
}

func (e *ProductMismatchError) Error() string {
	return fmt.Sprintf("product %d does not belong to establishment %d", e.ProductID, e.EstablishmentID)
}

type InvalidQuantityError struct {
	ProductID int64
	Quantity  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for product %d", e.Quantity, e.ProductID)
}

type InvalidStatusError struct {
	Status OrderStatus
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status %q", e.Status)
}

type InvalidPaymentMethodError struct {
	Method PaymentMethod
}

func (e *InvalidPaymentMethodError) Error() string {
	return fmt.Sprintf("invalid payment method %q", e.Method)
}

// StorageError wraps a failed transaction or query. The core never retries;
// callers may.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }
