package orders

import (
	"context"
	"errors"
	"fmt"

	"lanchonete/internal/auth"
	"lanchonete/internal/domain"
)

type CreateOrderRequest struct {
	EstablishmentID int64                     `json:"establishment_id"`
	DeliveryAddress string                    `json:"delivery_address"`
	IsPickup        bool                      `json:"is_pickup"`
	PaymentMethod   domain.PaymentMethod      `json:"payment_method"`
	Items           []domain.OrderItemRequest `json:"items"`
}

// EstablishmentDirectory resolves an owner to their establishment for scope
// checks. Implemented by the catalog repository.
type EstablishmentDirectory interface {
	GetEstablishmentByOwner(ctx context.Context, ownerID int64) (domain.Establishment, error)
}

// Publisher emits order lifecycle events after commit. Best effort: failures
// are logged by the implementation, never surfaced to the caller.
type Publisher interface {
	OrderCreated(ctx context.Context, o domain.Order)
	OrderStatusChanged(ctx context.Context, o domain.Order, previous domain.OrderStatus)
	OrderDeleted(ctx context.Context, o domain.Order)
}

type ServiceInterface interface {
	Create(ctx context.Context, caller auth.Identity, req CreateOrderRequest) (domain.Order, error)
	Get(ctx context.Context, caller auth.Identity, id int64) (domain.Order, error)
	List(ctx context.Context, caller auth.Identity, limit, offset int) ([]domain.Order, error)
	Update(ctx context.Context, caller auth.Identity, id int64, patch domain.OrderPatch) (domain.Order, error)
	Delete(ctx context.Context, caller auth.Identity, id int64) error
}

type Service struct {
	repo           RepositoryInterface
	establishments EstablishmentDirectory
	events         Publisher
}

func NewService(repo RepositoryInterface, establishments EstablishmentDirectory, events Publisher) *Service {
	return &Service{repo: repo, establishments: establishments, events: events}
}

// Create validates the draft, prices and persists it atomically, and returns
// the hydrated aggregate. Every validation failure happens before any write.
func (s *Service) Create(ctx context.Context, caller auth.Identity, req CreateOrderRequest) (domain.Order, error) {
	if len(req.Items) == 0 {
		return domain.Order{}, domain.ErrEmptyOrder
	}
	if !req.PaymentMethod.Valid() {
		return domain.Order{}, &domain.InvalidPaymentMethodError{Method: req.PaymentMethod}
	}
	if !req.IsPickup && req.DeliveryAddress == "" {
		return domain.Order{}, domain.ErrDeliveryAddress
	}

	o, err := s.repo.Create(ctx, CreateParams{
		CustomerID:      caller.UserID,
		EstablishmentID: req.EstablishmentID,
		DeliveryAddress: req.DeliveryAddress,
		IsPickup:        req.IsPickup,
		PaymentMethod:   req.PaymentMethod,
		Items:           req.Items,
	})
	if err != nil {
		return domain.Order{}, err
	}

	if s.events != nil {
		s.events.OrderCreated(ctx, o)
	}
	return o, nil
}

func (s *Service) Get(ctx context.Context, caller auth.Identity, id int64) (domain.Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.canView(ctx, caller, o); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

// List is always scoped: customers see their own orders, owners their
// establishment's. An owner without an establishment sees nothing.
func (s *Service) List(ctx context.Context, caller auth.Identity, limit, offset int) ([]domain.Order, error) {
	if caller.IsOwner {
		est, err := s.establishments.GetEstablishmentByOwner(ctx, caller.UserID)
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.Order{}, nil
		}
		if err != nil {
			return nil, err
		}
		return s.repo.ListByEstablishment(ctx, est.ID, limit, offset)
	}
	return s.repo.ListByCustomer(ctx, caller.UserID, limit, offset)
}

// Update is owner-only: the caller must own the order's establishment. The
// merged result must still satisfy the delivery-address rule, so a patch
// cannot turn an address-less pickup order into a delivery order.
func (s *Service) Update(ctx context.Context, caller auth.Identity, id int64, patch domain.OrderPatch) (domain.Order, error) {
	if err := patch.Validate(); err != nil {
		return domain.Order{}, err
	}
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if !caller.IsOwner {
		return domain.Order{}, fmt.Errorf("only the establishment owner may update an order: %w", domain.ErrForbidden)
	}
	if err := s.ownsEstablishment(ctx, caller, o.EstablishmentID); err != nil {
		return domain.Order{}, err
	}

	merged := o
	patch.Apply(&merged)
	if !merged.IsPickup && merged.DeliveryAddress == "" {
		return domain.Order{}, domain.ErrDeliveryAddress
	}

	previous := o.Status
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.Order{}, err
	}
	if s.events != nil && updated.Status != previous {
		s.events.OrderStatusChanged(ctx, updated, previous)
	}
	return updated, nil
}

// Delete is allowed for the customer who placed the order and for the owner
// of its establishment.
func (s *Service) Delete(ctx context.Context, caller auth.Identity, id int64) error {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	allowed := o.CustomerID == caller.UserID
	if !allowed && caller.IsOwner {
		allowed = s.ownsEstablishment(ctx, caller, o.EstablishmentID) == nil
	}
	if !allowed {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.events != nil {
		s.events.OrderDeleted(ctx, o)
	}
	return nil
}

// canView reports whether the caller is inside the order's scope: owners see
// their establishment's orders, customers their own. The distinction between
// 403 and 404 is deliberate and mirrors the rest of the API.
func (s *Service) canView(ctx context.Context, caller auth.Identity, o domain.Order) error {
	if caller.IsOwner {
		return s.ownsEstablishment(ctx, caller, o.EstablishmentID)
	}
	if o.CustomerID != caller.UserID {
		return domain.ErrForbidden
	}
	return nil
}

func (s *Service) ownsEstablishment(ctx context.Context, caller auth.Identity, establishmentID int64) error {
	est, err := s.establishments.GetEstablishmentByOwner(ctx, caller.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrForbidden
	}
	if err != nil {
		return err
	}
	if est.ID != establishmentID {
		return domain.ErrForbidden
	}
	return nil
}
