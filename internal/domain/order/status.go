package order

// Status is the delivery stage of an order, independent of payment
// settlement. One canonical enumeration backs two views: the admin surface
// may write any value (including moving backward to correct mistakes), the
// customer-facing track flow walks a narrower forward-only sequence.
type Status string

const (
	StatusPlaced         Status = "Order Placed"
	StatusPacking        Status = "Packing"
	StatusShipped        Status = "Shipped"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusDelivered      Status = "Delivered"
)

// adminStatuses lists every value the admin surface may assign.
var adminStatuses = []Status{
	StatusPlaced,
	StatusPacking,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
}

// customerFlow is the sequence the customer track action advances through.
// It skips Out for Delivery.
var customerFlow = []Status{
	StatusPlaced,
	StatusPacking,
	StatusShipped,
	StatusDelivered,
}

// AdminStatuses returns the full set of assignable statuses.
func AdminStatuses() []Status {
	out := make([]Status, len(adminStatuses))
	copy(out, adminStatuses)
	return out
}

// CustomerFlow returns the customer-facing track sequence.
func CustomerFlow() []Status {
	out := make([]Status, len(customerFlow))
	copy(out, customerFlow)
	return out
}

// Valid reports whether s is an assignable status.
func (s Status) Valid() bool {
	for _, st := range adminStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Next returns the status following s in the customer flow. Delivered is
// terminal, and a status outside the flow (Out for Delivery) maps to
// itself.
func Next(s Status) Status {
	for i, st := range customerFlow {
		if st == s {
			if i == len(customerFlow)-1 {
				return s
			}
			return customerFlow[i+1]
		}
	}
	return s
}
