package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// Add Tests
// ============================================

func TestAdd_NewProduct(t *testing.T) {
	items, err := Add(Items{}, "prod-1", "M")

	require.NoError(t, err)
	assert.Equal(t, Items{"prod-1": {"M": 1}}, items)
}

func TestAdd_ExistingPairIncrements(t *testing.T) {
	items := Items{"prod-1": {"M": 2}}

	items, err := Add(items, "prod-1", "M")

	require.NoError(t, err)
	assert.Equal(t, 3, items["prod-1"]["M"])
}

func TestAdd_NewSizeOnExistingProduct(t *testing.T) {
	items := Items{"prod-1": {"M": 2}}

	items, err := Add(items, "prod-1", "L")

	require.NoError(t, err)
	assert.Equal(t, Items{"prod-1": {"M": 2, "L": 1}}, items)
}

func TestAdd_RepeatedCallsAccumulate(t *testing.T) {
	items := Items{}
	var err error
	for i := 0; i < 5; i++ {
		items, err = Add(items, "prod-1", "M")
		require.NoError(t, err)
	}

	assert.Equal(t, 5, items["prod-1"]["M"])
}

func TestAdd_EmptySize(t *testing.T) {
	items, err := Add(Items{}, "prod-1", "")

	assert.ErrorIs(t, err, ErrSizeRequired)
	assert.Nil(t, items)
}

func TestAdd_EmptyProduct(t *testing.T) {
	items, err := Add(Items{}, "", "M")

	assert.ErrorIs(t, err, ErrInvalidProduct)
	assert.Nil(t, items)
}

func TestAdd_DoesNotMutateInput(t *testing.T) {
	original := Items{"prod-1": {"M": 1}}

	_, err := Add(original, "prod-1", "M")

	require.NoError(t, err)
	assert.Equal(t, 1, original["prod-1"]["M"])
}

// ============================================
// SetQuantity Tests
// ============================================

func TestSetQuantity_Overwrite(t *testing.T) {
	items := Items{"prod-1": {"M": 1}}

	items, err := SetQuantity(items, "prod-1", "M", 7)

	require.NoError(t, err)
	assert.Equal(t, 7, items["prod-1"]["M"])
}

func TestSetQuantity_NewPair(t *testing.T) {
	items, err := SetQuantity(Items{}, "prod-1", "S", 3)

	require.NoError(t, err)
	assert.Equal(t, Items{"prod-1": {"S": 3}}, items)
}

func TestSetQuantity_ZeroRemovesAllSizes(t *testing.T) {
	// Setting quantity 0 for one size drops the whole product entry
	items := Items{"prod-1": {"M": 2, "L": 4}, "prod-2": {"S": 1}}

	items, err := SetQuantity(items, "prod-1", "M", 0)

	require.NoError(t, err)
	assert.NotContains(t, items, "prod-1")
	assert.Equal(t, Items{"prod-2": {"S": 1}}, items)
}

func TestSetQuantity_ZeroOnAbsentProduct(t *testing.T) {
	items, err := SetQuantity(Items{"prod-2": {"S": 1}}, "prod-1", "M", 0)

	require.NoError(t, err)
	assert.Equal(t, Items{"prod-2": {"S": 1}}, items)
}

func TestSetQuantity_NegativeQuantity(t *testing.T) {
	items, err := SetQuantity(Items{}, "prod-1", "M", -1)

	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Nil(t, items)
}

func TestSetQuantity_EmptySize(t *testing.T) {
	items, err := SetQuantity(Items{}, "prod-1", "", 2)

	assert.ErrorIs(t, err, ErrSizeRequired)
	assert.Nil(t, items)
}

// ============================================
// TotalQuantity Tests
// ============================================

func TestTotalQuantity(t *testing.T) {
	tests := []struct {
		name     string
		items    Items
		expected int
	}{
		{"empty cart", Items{}, 0},
		{"single pair", Items{"p1": {"M": 2}}, 2},
		{"multiple products and sizes", Items{"p1": {"M": 2, "L": 1}, "p2": {"S": 4}}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TotalQuantity(tt.items))
		})
	}
}
