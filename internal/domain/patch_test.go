package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderPatchApply(t *testing.T) {
	base := Order{
		Status:          StatusPending,
		DeliveryAddress: "Rua A, 1",
		IsPickup:        false,
		PaymentMethod:   PaymentCash,
	}

	status := StatusPreparing
	pickup := true

	o := base
	OrderPatch{Status: &status, IsPickup: &pickup}.Apply(&o)

	assert.Equal(t, StatusPreparing, o.Status)
	assert.True(t, o.IsPickup)
	// Fields without a patch value keep what they had.
	assert.Equal(t, "Rua A, 1", o.DeliveryAddress)
	assert.Equal(t, PaymentCash, o.PaymentMethod)
}

func TestOrderPatchApply_Empty(t *testing.T) {
	base := Order{Status: StatusDelivered, DeliveryAddress: "Rua B, 2", PaymentMethod: PaymentPix}
	o := base
	OrderPatch{}.Apply(&o)
	assert.Equal(t, base, o)
}

func TestOrderPatchValidate(t *testing.T) {
	good := StatusCancelled
	require.NoError(t, OrderPatch{Status: &good}.Validate())

	bad := OrderStatus("vanished")
	var invalidStatus *InvalidStatusError
	assert.ErrorAs(t, OrderPatch{Status: &bad}.Validate(), &invalidStatus)

	badPay := PaymentMethod("barter")
	var invalidPay *InvalidPaymentMethodError
	assert.ErrorAs(t, OrderPatch{PaymentMethod: &badPay}.Validate(), &invalidPay)
}

func TestProductPatchApply(t *testing.T) {
	catID := int64(7)
	p := Product{
		Name:            "Misto quente",
		Price:           decimal.RequireFromString("8.50"),
		IsAvailable:     true,
		EstablishmentID: 1,
	}

	newPrice := decimal.RequireFromString("9.00")
	unavailable := false
	ProductPatch{Price: &newPrice, IsAvailable: &unavailable, CategoryID: &catID}.Apply(&p)

	assert.True(t, p.Price.Equal(newPrice))
	assert.False(t, p.IsAvailable)
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, int64(7), *p.CategoryID)
	assert.Equal(t, "Misto quente", p.Name)
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusPreparing, StatusReadyForPickup, StatusOnDelivery, StatusDelivered, StatusCancelled} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, OrderStatus("PENDING").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestOrderItemLineTotal(t *testing.T) {
	item := OrderItem{Quantity: 3, PriceAtTimeOfOrder: decimal.RequireFromString("4.25")}
	assert.True(t, item.LineTotal().Equal(decimal.RequireFromString("12.75")))
}
