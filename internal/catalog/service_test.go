package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lanchonete/internal/auth"
	"lanchonete/internal/domain"
)

type fakeCatalogRepo struct {
	establishments map[int64]domain.Establishment
	categories     map[int64]domain.Category
	products       map[int64]domain.Product
	nextID         int64
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		establishments: map[int64]domain.Establishment{},
		categories:     map[int64]domain.Category{},
		products:       map[int64]domain.Product{},
		nextID:         1,
	}
}

func (f *fakeCatalogRepo) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeCatalogRepo) CreateEstablishment(_ context.Context, e domain.Establishment) (domain.Establishment, error) {
	e.ID = f.id()
	f.establishments[e.ID] = e
	return e, nil
}

func (f *fakeCatalogRepo) GetEstablishment(_ context.Context, id int64) (domain.Establishment, error) {
	e, ok := f.establishments[id]
	if !ok {
		return domain.Establishment{}, fmt.Errorf("establishment %d: %w", id, domain.ErrNotFound)
	}
	return e, nil
}

func (f *fakeCatalogRepo) GetEstablishmentByOwner(_ context.Context, ownerID int64) (domain.Establishment, error) {
	for _, e := range f.establishments {
		if e.OwnerID == ownerID {
			return e, nil
		}
	}
	return domain.Establishment{}, fmt.Errorf("owner %d: %w", ownerID, domain.ErrNotFound)
}

func (f *fakeCatalogRepo) ListEstablishments(_ context.Context, _, _ int) ([]domain.Establishment, error) {
	out := []domain.Establishment{}
	for _, e := range f.establishments {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeCatalogRepo) UpdateEstablishment(_ context.Context, e domain.Establishment) (domain.Establishment, error) {
	if _, ok := f.establishments[e.ID]; !ok {
		return domain.Establishment{}, fmt.Errorf("establishment %d: %w", e.ID, domain.ErrNotFound)
	}
	f.establishments[e.ID] = e
	return e, nil
}

func (f *fakeCatalogRepo) DeleteEstablishment(_ context.Context, id int64) error {
	if _, ok := f.establishments[id]; !ok {
		return fmt.Errorf("establishment %d: %w", id, domain.ErrNotFound)
	}
	delete(f.establishments, id)
	return nil
}

func (f *fakeCatalogRepo) CreateCategory(_ context.Context, name string) (domain.Category, error) {
	c := domain.Category{ID: f.id(), Name: name}
	f.categories[c.ID] = c
	return c, nil
}

func (f *fakeCatalogRepo) GetCategory(_ context.Context, id int64) (domain.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return domain.Category{}, fmt.Errorf("category %d: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

func (f *fakeCatalogRepo) ListCategories(_ context.Context, _, _ int) ([]domain.Category, error) {
	out := []domain.Category{}
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCatalogRepo) UpdateCategory(_ context.Context, id int64, name string) (domain.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return domain.Category{}, fmt.Errorf("category %d: %w", id, domain.ErrNotFound)
	}
	c.Name = name
	f.categories[id] = c
	return c, nil
}

func (f *fakeCatalogRepo) DeleteCategory(_ context.Context, id int64) error {
	if _, ok := f.categories[id]; !ok {
		return fmt.Errorf("category %d: %w", id, domain.ErrNotFound)
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeCatalogRepo) CreateProduct(_ context.Context, p domain.Product) (domain.Product, error) {
	p.ID = f.id()
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeCatalogRepo) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (f *fakeCatalogRepo) ListProducts(_ context.Context, _, _ int) ([]domain.Product, error) {
	out := []domain.Product{}
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCatalogRepo) UpdateProduct(_ context.Context, p domain.Product) (domain.Product, error) {
	if _, ok := f.products[p.ID]; !ok {
		return domain.Product{}, fmt.Errorf("product %d: %w", p.ID, domain.ErrNotFound)
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeCatalogRepo) DeleteProduct(_ context.Context, id int64) error {
	if _, ok := f.products[id]; !ok {
		return fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	delete(f.products, id)
	return nil
}

var (
	owner1   = auth.Identity{UserID: 1, Email: "o1@example.com", IsOwner: true}
	owner2   = auth.Identity{UserID: 2, Email: "o2@example.com", IsOwner: true}
	customer = auth.Identity{UserID: 3, Email: "c@example.com"}
)

func validEstablishment() domain.Establishment {
	return domain.Establishment{Name: "Lanchonete do Zé", Address: "Rua A, 1", Phone: "11 99999-0000"}
}

func TestCreateEstablishment(t *testing.T) {
	svc := NewService(newFakeCatalogRepo())

	e, err := svc.CreateEstablishment(context.Background(), owner1, validEstablishment())
	require.NoError(t, err)
	assert.Equal(t, owner1.UserID, e.OwnerID)
}

func TestCreateEstablishment_CustomerForbidden(t *testing.T) {
	svc := NewService(newFakeCatalogRepo())

	_, err := svc.CreateEstablishment(context.Background(), customer, validEstablishment())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateEstablishment_OnePerOwner(t *testing.T) {
	svc := NewService(newFakeCatalogRepo())

	_, err := svc.CreateEstablishment(context.Background(), owner1, validEstablishment())
	require.NoError(t, err)
	_, err = svc.CreateEstablishment(context.Background(), owner1, validEstablishment())
	assert.ErrorIs(t, err, domain.ErrHasEstablishment)
}

func TestUpdateEstablishment_OwnerOnly(t *testing.T) {
	svc := NewService(newFakeCatalogRepo())
	e, err := svc.CreateEstablishment(context.Background(), owner1, validEstablishment())
	require.NoError(t, err)

	upd := e
	upd.Name = "Novo Nome"
	got, err := svc.UpdateEstablishment(context.Background(), owner1, e.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, "Novo Nome", got.Name)

	_, err = svc.UpdateEstablishment(context.Background(), owner2, e.ID, upd)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListEstablishments_OwnerSeesOwnOnly(t *testing.T) {
	svc := NewService(newFakeCatalogRepo())
	mine, err := svc.CreateEstablishment(context.Background(), owner1, validEstablishment())
	require.NoError(t, err)
	_, err = svc.CreateEstablishment(context.Background(), owner2, validEstablishment())
	require.NoError(t, err)

	got, err := svc.ListEstablishments(context.Background(), owner1, 100, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)

	all, err := svc.ListEstablishments(context.Background(), customer, 100, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateProduct(t *testing.T) {
	svc := NewService(newFakeCatalogRepo())
	e, err := svc.CreateEstablishment(context.Background(), owner1, validEstablishment())
	require.NoError(t, err)

	p, err := svc.CreateProduct(context.Background(), owner1, domain.Product{
		Name:            "X-Salada",
		Price:           decimal.RequireFromString("12.50"),
		EstablishmentID: e.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
}

func TestCreateProduct_Forbidden(t *testing.T) {
	svc := NewService(newFakeCatalogRepo())
	e, err := svc.CreateEstablishment(context.Background(), owner1, validEstablishment())
	require.NoError(t, err)
	_, err = svc.CreateEstablishment(context.Background(), owner2, validEstablishment())
	require.NoError(t, err)

	p := domain.Product{Name: "X-Salada", Price: decimal.RequireFromString("12.50"), EstablishmentID: e.ID}

	// Not an owner at all.
	_, err = svc.CreateProduct(context.Background(), customer, p)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Owner targeting someone else's establishment.
	_, err = svc.CreateProduct(context.Background(), owner2, p)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateProduct(t *testing.T) {
	svc := NewService(newFakeCatalogRepo())
	e, err := svc.CreateEstablishment(context.Background(), owner1, validEstablishment())
	require.NoError(t, err)
	p, err := svc.CreateProduct(context.Background(), owner1, domain.Product{
		Name: "X-Bacon", Price: decimal.RequireFromString("15.00"), EstablishmentID: e.ID,
	})
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("16.00")
	got, err := svc.UpdateProduct(context.Background(), owner1, p.ID, domain.ProductPatch{Price: &newPrice})
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(newPrice))
	assert.Equal(t, "X-Bacon", got.Name)
}

func TestUpdateProduct_CannotMoveEstablishment(t *testing.T) {
	svc := NewService(newFakeCatalogRepo())
	e1, err := svc.CreateEstablishment(context.Background(), owner1, validEstablishment())
	require.NoError(t, err)
	e2, err := svc.CreateEstablishment(context.Background(), owner2, validEstablishment())
	require.NoError(t, err)
	p, err := svc.CreateProduct(context.Background(), owner1, domain.Product{
		Name: "Açaí", Price: decimal.RequireFromString("9.00"), EstablishmentID: e1.ID,
	})
	require.NoError(t, err)

	_, err = svc.UpdateProduct(context.Background(), owner1, p.ID, domain.ProductPatch{EstablishmentID: &e2.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateProduct_OtherOwnerForbidden(t *testing.T) {
	svc := NewService(newFakeCatalogRepo())
	e1, err := svc.CreateEstablishment(context.Background(), owner1, validEstablishment())
	require.NoError(t, err)
	_, err = svc.CreateEstablishment(context.Background(), owner2, validEstablishment())
	require.NoError(t, err)
	p, err := svc.CreateProduct(context.Background(), owner1, domain.Product{
		Name: "Pastel", Price: decimal.RequireFromString("7.00"), EstablishmentID: e1.ID,
	})
	require.NoError(t, err)

	name := "Pastel de Queijo"
	_, err = svc.UpdateProduct(context.Background(), owner2, p.ID, domain.ProductPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = svc.DeleteProduct(context.Background(), owner2, p.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateProduct_NegativePrice(t *testing.T) {
	svc := NewService(newFakeCatalogRepo())
	e, err := svc.CreateEstablishment(context.Background(), owner1, validEstablishment())
	require.NoError(t, err)
	p, err := svc.CreateProduct(context.Background(), owner1, domain.Product{
		Name: "Suco", Price: decimal.RequireFromString("6.00"), EstablishmentID: e.ID,
	})
	require.NoError(t, err)

	neg := decimal.RequireFromString("-1.00")
	_, err = svc.UpdateProduct(context.Background(), owner1, p.ID, domain.ProductPatch{Price: &neg})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCategories(t *testing.T) {
	svc := NewService(newFakeCatalogRepo())

	c, err := svc.CreateCategory(context.Background(), "Bebidas")
	require.NoError(t, err)

	_, err = svc.CreateCategory(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateCategory(context.Background(), customer, c.ID, "Sobremesas")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := svc.UpdateCategory(context.Background(), owner1, c.ID, "Sobremesas")
	require.NoError(t, err)
	assert.Equal(t, "Sobremesas", got.Name)

	err = svc.DeleteCategory(context.Background(), customer, c.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	require.NoError(t, svc.DeleteCategory(context.Background(), owner1, c.ID))
}
