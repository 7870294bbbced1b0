package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/threadcart-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/threadcart-backend/pkg/errors"
)

// Service assembles the aggregation inputs and invokes Compute.
type Service interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

type orderSource interface {
	ListAllWithUsers(ctx context.Context) ([]models.Order, error)
}

type userCounter interface {
	Count(ctx context.Context) (int64, error)
}

type productSource interface {
	ListAll(ctx context.Context) ([]models.Product, error)
}

// ServiceParams bundles the data sources feeding the aggregation.
type ServiceParams struct {
	Orders   orderSource
	Users    userCounter
	Products productSource
	Now      func() time.Time
}

type service struct {
	orders   orderSource
	users    userCounter
	products productSource
	now      func() time.Time
}

// NewService constructs a dashboard service with the provided sources.
func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("order source is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user counter is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product source is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		orders:   params.Orders,
		users:    params.Users,
		products: params.Products,
		now:      now,
	}, nil
}

func (s *service) Snapshot(ctx context.Context) (*Snapshot, error) {
	orders, err := s.orders.ListAllWithUsers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load orders")
	}
	customerCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users")
	}
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
	}

	snapshot := Compute(Inputs{
		Orders:        orders,
		CustomerCount: customerCount,
		Products:      products,
		Now:           s.now(),
	})
	return &snapshot, nil
}
