package orders

import (
	"github.com/shopspring/decimal"

	"lanchonete/internal/domain"
)

// PriceOrder turns requested (product, quantity) pairs into frozen line items
// and an order total. products is the catalog state read inside the
// order-creation transaction; each unit price is captured exactly once here
// and never re-read.
//
// The whole order is rejected on the first failing item: an unknown product,
// a product from another establishment, or a non-positive quantity. No
// partial pricing is ever returned.
func PriceOrder(establishmentID int64, requests []domain.OrderItemRequest, products map[int64]domain.Product) ([]domain.OrderItem, decimal.Decimal, error) {
	if len(requests) == 0 {
		return nil, decimal.Zero, domain.ErrEmptyOrder
	}

	items := make([]domain.OrderItem, 0, len(requests))
	total := decimal.Zero
	for _, req := range requests {
		// Each item is resolved before its quantity is judged, so an unknown
		// product always reports not-found regardless of the quantity sent.
		p, ok := products[req.ProductID]
		if !ok {
			return nil, decimal.Zero, &domain.ProductNotFoundError{ProductID: req.ProductID}
		}
		if p.EstablishmentID != establishmentID {
			return nil, decimal.Zero, &domain.ProductMismatchError{ProductID: req.ProductID, EstablishmentID: establishmentID}
		}
		if req.Quantity <= 0 {
			return nil, decimal.Zero, &domain.InvalidQuantityError{ProductID: req.ProductID, Quantity: req.Quantity}
		}

		item := domain.OrderItem{
			ProductID:          p.ID,
			ProductName:        p.Name,
			Quantity:           req.Quantity,
			PriceAtTimeOfOrder: p.Price,
		}
		total = total.Add(item.LineTotal())
		items = append(items, item)
	}
	return items, total, nil
}
