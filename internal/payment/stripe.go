package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// StripeBroker creates Stripe hosted checkout sessions.
type StripeBroker struct {
	currency string
}

// NewStripeBroker configures the Stripe client. Currency is an ISO code
// such as "inr"; unit amounts are converted to the minor unit on the way
// out.
func NewStripeBroker(secretKey, currency string) *StripeBroker {
	stripe.Key = secretKey
	return &StripeBroker{currency: currency}
}

func (b *StripeBroker) CreateSession(ctx context.Context, lines []CheckoutLine, successURL, cancelURL string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
	}
	params.Context = ctx

	for _, line := range lines {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(b.currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
				},
				UnitAmount: stripe.Int64(int64(line.UnitAmount) * 100),
			},
			Quantity: stripe.Int64(int64(line.Quantity)),
		})
	}

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSessionCreate, err)
	}
	return sess.URL, nil
}
