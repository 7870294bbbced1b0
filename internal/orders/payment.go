package orders

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/threadcart-backend/pkg/enums"
)

// PaymentResult reports whether the charge settled at checkout time.
type PaymentResult struct {
	Captured bool
}

// PaymentGateway abstracts the charge step so checkout stays testable.
// There is no real processor behind it; the simulated gateway below is the
// only implementation.
type PaymentGateway interface {
	Charge(ctx context.Context, method enums.PaymentMethod, amount decimal.Decimal) (PaymentResult, error)
}

// SimulatedGateway captures card charges immediately and leaves
// cash-on-delivery orders unpaid until an admin marks them.
type SimulatedGateway struct{}

func (SimulatedGateway) Charge(ctx context.Context, method enums.PaymentMethod, amount decimal.Decimal) (PaymentResult, error) {
	switch method {
	case enums.PaymentMethodCard:
		return PaymentResult{Captured: true}, nil
	default:
		return PaymentResult{Captured: false}, nil
	}
}
