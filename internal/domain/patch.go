package domain

import "github.com/shopspring/decimal"

// Patch types carry partial updates as named optional fields. A nil field
// leaves the current value untouched. This replaces dynamic attribute
// setting: every mutable field is merged explicitly.

type OrderPatch struct {
	Status          *OrderStatus   `json:"status,omitempty"`
	DeliveryAddress *string        `json:"delivery_address,omitempty"`
	IsPickup        *bool          `json:"is_pickup,omitempty"`
	PaymentMethod   *PaymentMethod `json:"payment_method,omitempty"`
}

// Validate rejects values outside the closed enumerations before any write.
func (p OrderPatch) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return &InvalidStatusError{Status: *p.Status}
	}
	if p.PaymentMethod != nil && !p.PaymentMethod.Valid() {
		return &InvalidPaymentMethodError{Method: *p.PaymentMethod}
	}
	return nil
}

// Apply merges the patch into the order, field by field.
func (p OrderPatch) Apply(o *Order) {
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.DeliveryAddress != nil {
		o.DeliveryAddress = *p.DeliveryAddress
	}
	if p.IsPickup != nil {
		o.IsPickup = *p.IsPickup
	}
	if p.PaymentMethod != nil {
		o.PaymentMethod = *p.PaymentMethod
	}
}

type ProductPatch struct {
	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	ImageURL        *string          `json:"image_url,omitempty"`
	IsAvailable     *bool            `json:"is_available,omitempty"`
	EstablishmentID *int64           `json:"establishment_id,omitempty"`
	CategoryID      *int64           `json:"category_id,omitempty"`
}

func (p ProductPatch) Apply(pr *Product) {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Description != nil {
		pr.Description = *p.Description
	}
	if p.Price != nil {
		pr.Price = *p.Price
	}
	if p.ImageURL != nil {
		pr.ImageURL = *p.ImageURL
	}
	if p.IsAvailable != nil {
		pr.IsAvailable = *p.IsAvailable
	}
	if p.EstablishmentID != nil {
		pr.EstablishmentID = *p.EstablishmentID
	}
	if p.CategoryID != nil {
		pr.CategoryID = p.CategoryID
	}
}
