package payments

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("doctors_portal.payments.stripe")

var ErrInvalidAmount = errors.New("payments: amount must be positive")

// Gateway creates payment intents. Amounts are in minor currency units.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error)
}

// StripeGateway talks to the Stripe PaymentIntents API.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, nil)}
}

// NewStripeGatewayWithBackends points the client at custom backends (tests,
// stripe-mock).
func NewStripeGatewayWithBackends(secretKey string, backends *stripe.Backends) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, backends)}
}

/*
* Create a card payment intent for the amount
* Return only the client secret, the browser confirms the charge
 */
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	ctx, span := tracer.Start(ctx, "stripe.create_payment_intent")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("payment.amount_minor", amount),
		attribute.String("payment.currency", currency),
	)

	if amount <= 0 {
		return "", ErrInvalidAmount
	}
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("payments: stripe create payment intent: %w", err)
	}
	return pi.ClientSecret, nil
}

// ToMinorUnits scales a price in major units (dollars) to cents.
func ToMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
