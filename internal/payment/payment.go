package payment

import (
	"context"
	"errors"

	"github.com/example/ec-storefront/internal/domain/order"
)

// ErrSessionCreate reports that the processor refused to open a checkout
// session. The order stays unpaid; only an explicit failed verification
// removes it.
var ErrSessionCreate = errors.New("failed to create checkout session")

// CheckoutLine is one price line sent to the payment processor.
type CheckoutLine struct {
	Name       string
	UnitAmount int
	Quantity   int
}

// SessionBroker opens a hosted checkout session with an external payment
// processor and returns the redirect URL. The success and cancel URLs carry
// the order ID and a success flag back from the processor; there is no
// server-held session secret, so verification trusts the redirect. Kept
// behind this interface so a signed-webhook mechanism can replace it
// without touching order or cart logic.
type SessionBroker interface {
	CreateSession(ctx context.Context, lines []CheckoutLine, successURL, cancelURL string) (string, error)
}

// LinesFor builds one checkout line per order item at its captured unit
// price, plus exactly one flat delivery-fee line. Live catalog prices are
// never re-read here.
func LinesFor(items []order.LineItem, deliveryFee int) []CheckoutLine {
	lines := make([]CheckoutLine, 0, len(items)+1)
	for _, item := range items {
		lines = append(lines, CheckoutLine{
			Name:       item.Name,
			UnitAmount: item.Price,
			Quantity:   item.Quantity,
		})
	}
	lines = append(lines, CheckoutLine{
		Name:       "Delivery Charges",
		UnitAmount: deliveryFee,
		Quantity:   1,
	})
	return lines
}
