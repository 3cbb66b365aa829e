package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================
// Status View Tests
// ============================================

func TestAdminStatuses(t *testing.T) {
	statuses := AdminStatuses()

	assert.Equal(t, []Status{
		StatusPlaced,
		StatusPacking,
		StatusShipped,
		StatusOutForDelivery,
		StatusDelivered,
	}, statuses)
}

func TestCustomerFlow_SkipsOutForDelivery(t *testing.T) {
	flow := CustomerFlow()

	assert.Equal(t, []Status{
		StatusPlaced,
		StatusPacking,
		StatusShipped,
		StatusDelivered,
	}, flow)
	assert.NotContains(t, flow, StatusOutForDelivery)
}

func TestStatusViews_ReturnCopies(t *testing.T) {
	AdminStatuses()[0] = "mutated"
	CustomerFlow()[0] = "mutated"

	assert.Equal(t, StatusPlaced, AdminStatuses()[0])
	assert.Equal(t, StatusPlaced, CustomerFlow()[0])
}

// ============================================
// Valid Tests
// ============================================

func TestStatus_Valid(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusPlaced, true},
		{StatusPacking, true},
		{StatusShipped, true},
		{StatusOutForDelivery, true},
		{StatusDelivered, true},
		{Status("Teleported"), false},
		{Status(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.Valid())
		})
	}
}

// ============================================
// Next Tests
// ============================================

func TestNext_WalksCustomerFlow(t *testing.T) {
	assert.Equal(t, StatusPacking, Next(StatusPlaced))
	assert.Equal(t, StatusShipped, Next(StatusPacking))
	assert.Equal(t, StatusDelivered, Next(StatusShipped))
}

func TestNext_TerminalIsNoOp(t *testing.T) {
	assert.Equal(t, StatusDelivered, Next(StatusDelivered))
}

func TestNext_OutOfFlowIsNoOp(t *testing.T) {
	// Out for Delivery is admin-only; the customer flow leaves it alone
	assert.Equal(t, StatusOutForDelivery, Next(StatusOutForDelivery))
	assert.Equal(t, Status("Unknown"), Next(Status("Unknown")))
}
