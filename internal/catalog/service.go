package catalog

import (
	"context"
	"errors"
	"fmt"

	"lanchonete/internal/auth"
	"lanchonete/internal/domain"
)

type ServiceInterface interface {
	CreateEstablishment(ctx context.Context, caller auth.Identity, e domain.Establishment) (domain.Establishment, error)
	GetEstablishment(ctx context.Context, id int64) (domain.Establishment, error)
	ListEstablishments(ctx context.Context, caller auth.Identity, limit, offset int) ([]domain.Establishment, error)
	UpdateEstablishment(ctx context.Context, caller auth.Identity, id int64, e domain.Establishment) (domain.Establishment, error)
	DeleteEstablishment(ctx context.Context, caller auth.Identity, id int64) error

	CreateCategory(ctx context.Context, name string) (domain.Category, error)
	GetCategory(ctx context.Context, id int64) (domain.Category, error)
	ListCategories(ctx context.Context, limit, offset int) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, caller auth.Identity, id int64, name string) (domain.Category, error)
	DeleteCategory(ctx context.Context, caller auth.Identity, id int64) error

	CreateProduct(ctx context.Context, caller auth.Identity, p domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, caller auth.Identity, id int64, patch domain.ProductPatch) (domain.Product, error)
	DeleteProduct(ctx context.Context, caller auth.Identity, id int64) error
}

type Service struct {
	repo RepositoryInterface
}

func NewService(repo RepositoryInterface) *Service { return &Service{repo: repo} }

// --- establishments ---

func (s *Service) CreateEstablishment(ctx context.Context, caller auth.Identity, e domain.Establishment) (domain.Establishment, error) {
	if !caller.IsOwner {
		return domain.Establishment{}, fmt.Errorf("only owners may create establishments: %w", domain.ErrForbidden)
	}
	if e.Name == "" || e.Address == "" || e.Phone == "" {
		return domain.Establishment{}, fmt.Errorf("name, address and phone are required: %w", domain.ErrValidation)
	}
	_, err := s.repo.GetEstablishmentByOwner(ctx, caller.UserID)
	switch {
	case err == nil:
		return domain.Establishment{}, domain.ErrHasEstablishment
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Establishment{}, err
	}
	e.OwnerID = caller.UserID
	return s.repo.CreateEstablishment(ctx, e)
}

func (s *Service) GetEstablishment(ctx context.Context, id int64) (domain.Establishment, error) {
	return s.repo.GetEstablishment(ctx, id)
}

// ListEstablishments shows an owner only their own establishment; customers
// see the whole marketplace.
func (s *Service) ListEstablishments(ctx context.Context, caller auth.Identity, limit, offset int) ([]domain.Establishment, error) {
	if caller.IsOwner {
		own, err := s.repo.GetEstablishmentByOwner(ctx, caller.UserID)
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.Establishment{}, nil
		}
		if err != nil {
			return nil, err
		}
		return []domain.Establishment{own}, nil
	}
	return s.repo.ListEstablishments(ctx, limit, offset)
}

func (s *Service) UpdateEstablishment(ctx context.Context, caller auth.Identity, id int64, e domain.Establishment) (domain.Establishment, error) {
	current, err := s.repo.GetEstablishment(ctx, id)
	if err != nil {
		return domain.Establishment{}, err
	}
	if current.OwnerID != caller.UserID {
		return domain.Establishment{}, domain.ErrForbidden
	}
	e.ID = id
	e.OwnerID = current.OwnerID
	return s.repo.UpdateEstablishment(ctx, e)
}

func (s *Service) DeleteEstablishment(ctx context.Context, caller auth.Identity, id int64) error {
	current, err := s.repo.GetEstablishment(ctx, id)
	if err != nil {
		return err
	}
	if current.OwnerID != caller.UserID {
		return domain.ErrForbidden
	}
	return s.repo.DeleteEstablishment(ctx, id)
}

// --- categories ---

func (s *Service) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	if name == "" {
		return domain.Category{}, fmt.Errorf("category name is required: %w", domain.ErrValidation)
	}
	return s.repo.CreateCategory(ctx, name)
}

func (s *Service) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	return s.repo.GetCategory(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context, limit, offset int) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx, limit, offset)
}

func (s *Service) UpdateCategory(ctx context.Context, caller auth.Identity, id int64, name string) (domain.Category, error) {
	if !caller.IsOwner {
		return domain.Category{}, fmt.Errorf("only owners may update categories: %w", domain.ErrForbidden)
	}
	return s.repo.UpdateCategory(ctx, id, name)
}

func (s *Service) DeleteCategory(ctx context.Context, caller auth.Identity, id int64) error {
	if !caller.IsOwner {
		return fmt.Errorf("only owners may delete categories: %w", domain.ErrForbidden)
	}
	return s.repo.DeleteCategory(ctx, id)
}

// --- products ---

func (s *Service) CreateProduct(ctx context.Context, caller auth.Identity, p domain.Product) (domain.Product, error) {
	if !caller.IsOwner {
		return domain.Product{}, fmt.Errorf("only owners may create products: %w", domain.ErrForbidden)
	}
	if p.Name == "" || p.Price.IsNegative() {
		return domain.Product{}, fmt.Errorf("product needs a name and a non-negative price: %w", domain.ErrValidation)
	}
	own, err := s.ownEstablishment(ctx, caller)
	if err != nil {
		return domain.Product{}, err
	}
	if own.ID != p.EstablishmentID {
		return domain.Product{}, fmt.Errorf("products may only be added to your own establishment: %w", domain.ErrForbidden)
	}
	return s.repo.CreateProduct(ctx, p)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, limit, offset)
}

func (s *Service) UpdateProduct(ctx context.Context, caller auth.Identity, id int64, patch domain.ProductPatch) (domain.Product, error) {
	current, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	own, err := s.ownEstablishment(ctx, caller)
	if err != nil {
		return domain.Product{}, err
	}
	if own.ID != current.EstablishmentID {
		return domain.Product{}, fmt.Errorf("product belongs to another establishment: %w", domain.ErrForbidden)
	}
	if patch.EstablishmentID != nil && *patch.EstablishmentID != own.ID {
		return domain.Product{}, fmt.Errorf("products may not be moved to another owner's establishment: %w", domain.ErrForbidden)
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return domain.Product{}, fmt.Errorf("price may not be negative: %w", domain.ErrValidation)
	}
	patch.Apply(&current)
	return s.repo.UpdateProduct(ctx, current)
}

func (s *Service) DeleteProduct(ctx context.Context, caller auth.Identity, id int64) error {
	current, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	own, err := s.ownEstablishment(ctx, caller)
	if err != nil {
		return err
	}
	if own.ID != current.EstablishmentID {
		return fmt.Errorf("product belongs to another establishment: %w", domain.ErrForbidden)
	}
	return s.repo.DeleteProduct(ctx, id)
}

func (s *Service) ownEstablishment(ctx context.Context, caller auth.Identity) (domain.Establishment, error) {
	own, err := s.repo.GetEstablishmentByOwner(ctx, caller.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Establishment{}, fmt.Errorf("caller has no establishment: %w", domain.ErrForbidden)
	}
	return own, err
}
