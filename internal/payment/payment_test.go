package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ec-storefront/internal/domain/order"
)

func TestLinesFor_OneLinePerItemPlusDeliveryFee(t *testing.T) {
	items := []order.LineItem{
		{ProductID: "P1", Name: "Plain Tee", Size: "M", Quantity: 2, Price: 25},
		{ProductID: "P2", Name: "Hoodie", Size: "L", Quantity: 1, Price: 120},
	}

	lines := LinesFor(items, 40)

	require.Len(t, lines, 3)
	assert.Equal(t, CheckoutLine{Name: "Plain Tee", UnitAmount: 25, Quantity: 2}, lines[0])
	assert.Equal(t, CheckoutLine{Name: "Hoodie", UnitAmount: 120, Quantity: 1}, lines[1])
	assert.Equal(t, CheckoutLine{Name: "Delivery Charges", UnitAmount: 40, Quantity: 1}, lines[2])
}

func TestLinesFor_UsesCapturedPrices(t *testing.T) {
	// The order carries frozen prices; LinesFor never consults the catalog
	items := []order.LineItem{
		{ProductID: "P1", Name: "Plain Tee", Size: "M", Quantity: 1, Price: 25},
	}

	lines := LinesFor(items, 40)

	require.Len(t, lines, 2)
	assert.Equal(t, 25, lines[0].UnitAmount)
}

func TestLinesFor_EmptyItemsStillChargesDelivery(t *testing.T) {
	lines := LinesFor(nil, 40)

	require.Len(t, lines, 1)
	assert.Equal(t, "Delivery Charges", lines[0].Name)
	assert.Equal(t, 40, lines[0].UnitAmount)
}
