package services

import (
	"context"
	"fmt"

	"DoctorsPortal/payments"
)

type PaymentService struct {
	gateway  payments.Gateway
	currency string
}

func NewPaymentService(gateway payments.Gateway, currency string) *PaymentService {
	return &PaymentService{gateway: gateway, currency: currency}
}

/*
* Scale the price to minor units and ask the gateway for a client secret
 */
func (s *PaymentService) CreateIntent(ctx context.Context, price float64) (string, error) {
	amount := payments.ToMinorUnits(price)
	if amount <= 0 {
		return "", fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	return s.gateway.CreatePaymentIntent(ctx, amount, s.currency)
}
