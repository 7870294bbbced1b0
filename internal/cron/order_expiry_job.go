package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/threadcart-backend/pkg/logger"
)

const (
	defaultOrderExpiryDays = 10
	staleCartDays          = 30
)

type unpaidOrderPurger interface {
	DeleteUnpaidOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type staleCartPurger interface {
	DeleteStaleBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// OrderExpiryJobParams configure the stale-checkout cleanup job.
type OrderExpiryJobParams struct {
	Logger     *logger.Logger
	Orders     unpaidOrderPurger
	Carts      staleCartPurger
	ExpiryDays int
	Now        func() time.Time
}

type orderExpiryJob struct {
	logg       *logger.Logger
	orders     unpaidOrderPurger
	carts      staleCartPurger
	expiryDays int
	now        func() time.Time
}

// NewOrderExpiryJob builds the cron job that deletes stale unpaid orders and
// abandoned carts.
func NewOrderExpiryJob(params OrderExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders purger required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("carts purger required")
	}
	expiryDays := params.ExpiryDays
	if expiryDays <= 0 {
		expiryDays = defaultOrderExpiryDays
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &orderExpiryJob{
		logg:       params.Logger,
		orders:     params.Orders,
		carts:      params.Carts,
		expiryDays: expiryDays,
		now:        now,
	}, nil
}

func (j *orderExpiryJob) Name() string { return "order-expiry" }

func (j *orderExpiryJob) Run(ctx context.Context) error {
	var errs []error
	if err := j.expireUnpaidOrders(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := j.purgeStaleCarts(ctx); err != nil {
		errs = append(errs, err)
	}
	return multierr.Combine(errs...)
}

func (j *orderExpiryJob) expireUnpaidOrders(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.expiryDays) * 24 * time.Hour)
	count, err := j.orders.DeleteUnpaidOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete stale unpaid orders: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": count, "cutoff": cutoff})
	j.logg.Info(logCtx, "unpaid order expiry complete")
	return nil
}

func (j *orderExpiryJob) purgeStaleCarts(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-staleCartDays * 24 * time.Hour)
	count, err := j.carts.DeleteStaleBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("delete abandoned carts: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": count, "cutoff": cutoff})
	j.logg.Info(logCtx, "abandoned cart cleanup complete")
	return nil
}
