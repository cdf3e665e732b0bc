// Package payment completes the charge for a placed order through the
// payment provider's SDK, using the opaque client secret the backend
// returns alongside the order.
package payment

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// ErrPaymentIncomplete is returned when the provider reports the intent in
// a state that still needs customer action.
var ErrPaymentIncomplete = errors.New("payment not completed")

// Confirmer finalizes a payment previously set up by the backend.
type Confirmer interface {
	Confirm(ctx context.Context, clientSecret string) error
}

// Stripe confirms payment intents against Stripe.
type Stripe struct {
	api *client.API
}

// NewStripe creates a Confirmer using the given publishable key.
func NewStripe(key string) *Stripe {
	api := &client.API{}
	api.Init(key, nil)
	return &Stripe{api: api}
}

// Confirm finalizes the payment intent identified by clientSecret.
func (s *Stripe) Confirm(ctx context.Context, clientSecret string) error {
	id, err := intentID(clientSecret)
	if err != nil {
		return err
	}

	params := &stripe.PaymentIntentConfirmParams{
		Params: stripe.Params{Context: ctx},
	}
	params.AddExtra("client_secret", clientSecret)
	pi, err := s.api.PaymentIntents.Confirm(id, params)
	if err != nil {
		return errors.Wrap(err, "confirm payment intent")
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded,
		stripe.PaymentIntentStatusProcessing,
		stripe.PaymentIntentStatusRequiresCapture:
		return nil
	default:
		return errors.Wrapf(ErrPaymentIncomplete, "intent status %s", pi.Status)
	}
}

// intentID extracts the payment intent id from a client secret of the form
// "pi_xxx_secret_yyy".
func intentID(clientSecret string) (string, error) {
	id, _, ok := strings.Cut(clientSecret, "_secret_")
	if !ok || id == "" {
		return "", errors.New("malformed client secret")
	}
	return id, nil
}
