package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress() Address {
	return Address{
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     "asha@example.com",
		Street:    "12 MG Road",
		City:      "Bengaluru",
		State:     "Karnataka",
		Zipcode:   "560001",
		Country:   "India",
		Phone:     "+91-9876543210",
	}
}

// ============================================
// Address Validation Tests
// ============================================

func TestAddress_Validate_Complete(t *testing.T) {
	require.NoError(t, validAddress().Validate())
}

func TestAddress_Validate_MissingField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Address)
	}{
		{"first_name", func(a *Address) { a.FirstName = "" }},
		{"last_name", func(a *Address) { a.LastName = "" }},
		{"email", func(a *Address) { a.Email = "" }},
		{"street", func(a *Address) { a.Street = "" }},
		{"city", func(a *Address) { a.City = "" }},
		{"state", func(a *Address) { a.State = "" }},
		{"zipcode", func(a *Address) { a.Zipcode = "" }},
		{"country", func(a *Address) { a.Country = "" }},
		{"phone", func(a *Address) { a.Phone = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := validAddress()
			tt.mutate(&addr)

			err := addr.Validate()

			assert.ErrorIs(t, err, ErrInvalidAddress)
			assert.Contains(t, err.Error(), tt.name)
		})
	}
}

// ============================================
// AmountOf Tests
// ============================================

func TestAmountOf(t *testing.T) {
	items := []LineItem{
		{ProductID: "p1", Size: "M", Quantity: 2, Price: 25},
		{ProductID: "p2", Size: "L", Quantity: 1, Price: 100},
	}

	assert.Equal(t, 190, AmountOf(items, 40))
}

func TestAmountOf_EmptyItemsIsJustFee(t *testing.T) {
	assert.Equal(t, 40, AmountOf(nil, 40))
}
