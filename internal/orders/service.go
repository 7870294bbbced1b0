package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/threadcart-backend/internal/cart"
	"github.com/angelmondragon/threadcart-backend/internal/catalog"
	"github.com/angelmondragon/threadcart-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/threadcart-backend/pkg/errors"
	"github.com/angelmondragon/threadcart-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines checkout and order lifecycle operations.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*OrderDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderPage, error)
	Detail(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) error

	ListAll(ctx context.Context, input ListOrdersInput) (*OrderPage, error)
	AdminDetail(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	MarkPaid(ctx context.Context, orderID uuid.UUID) error
	MarkDelivered(ctx context.Context, orderID uuid.UUID) error
	Delete(ctx context.Context, orderID uuid.UUID) error
}

type service struct {
	tx      txRunner
	orders  *Repository
	gateway PaymentGateway
	now     func() time.Time
}

// ServiceParams bundles the dependencies required to build an orders service.
type ServiceParams struct {
	TxRunner  txRunner
	OrderRepo *Repository
	Gateway   PaymentGateway
	Now       func() time.Time
}

// NewService constructs an orders service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.OrderRepo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		tx:      params.TxRunner,
		orders:  params.OrderRepo,
		gateway: params.Gateway,
		now:     now,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !req.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if req.ShippingAddress.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}

	var placed *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := cart.NewRepository(tx)
		productRepo := catalog.NewRepository(tx)
		orderRepo := s.orders.WithTx(tx)

		items, err := cartRepo.ListByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		total := decimal.Zero
		lineItems := make([]models.OrderLineItem, 0, len(items))
		for i := range items {
			item := &items[i]
			if item.Product == nil || !item.Product.IsActive {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart contains an unavailable product")
			}

			ok, err := productRepo.DecrementStock(ctx, item.ProductID, item.Qty)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reserve stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("not enough stock for %s", item.Product.Name))
			}

			lineTotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Qty)))
			productID := item.ProductID
			lineItems = append(lineItems, models.OrderLineItem{
				ProductID:  &productID,
				Name:       item.Product.Name,
				Size:       item.Size,
				Qty:        item.Qty,
				UnitPrice:  item.Product.Price,
				TotalPrice: lineTotal,
			})
			total = total.Add(lineTotal)
		}

		result, err := s.gateway.Charge(ctx, req.PaymentMethod, total)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "charge payment")
		}

		order := &models.Order{
			UserID:          &userID,
			TotalPrice:      total,
			PaymentMethod:   req.PaymentMethod,
			ShippingAddress: &req.ShippingAddress,
			Items:           lineItems,
		}
		if result.Captured {
			now := s.now()
			order.IsPaid = true
			order.PaidAt = &now
		}

		placed, err = orderRepo.Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		if err := cartRepo.Clear(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(placed), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderPage, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, nextCursor, err := s.orders.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return buildOrderPage(rows, nextCursor), nil
}

func (s *service) Detail(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return FromModel(order), nil
}

func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID) error {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}
	if order.UserID == nil || *order.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if order.IsPaid {
		return pkgerrors.New(pkgerrors.CodeConflict, "paid orders cannot be cancelled")
	}
	return s.deleteRestoringStock(ctx, order)
}

func (s *service) ListAll(ctx context.Context, input ListOrdersInput) (*OrderPage, error) {
	rows, nextCursor, err := s.orders.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return buildOrderPage(rows, nextCursor), nil
}

func (s *service) AdminDetail(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func (s *service) MarkPaid(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}
	if order.IsPaid {
		return nil
	}
	if err := s.orders.MarkPaid(ctx, orderID, s.now()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark order paid")
	}
	return nil
}

func (s *service) MarkDelivered(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}
	if order.IsDelivered {
		return nil
	}
	if err := s.orders.MarkDelivered(ctx, orderID, s.now()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark order delivered")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}
	// A paid order is a completed sale; removing its record must not refill
	// the shelves. Unpaid orders still hold reserved stock.
	if order.IsPaid {
		if err := s.orders.Delete(ctx, orderID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete order")
		}
		return nil
	}
	return s.deleteRestoringStock(ctx, order)
}

// deleteRestoringStock removes an unpaid order and returns each line item's
// reserved quantity to product stock in one transaction.
func (s *service) deleteRestoringStock(ctx context.Context, order *models.Order) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		productRepo := catalog.NewRepository(tx)
		orderRepo := s.orders.WithTx(tx)

		for i := range order.Items {
			item := &order.Items[i]
			if item.ProductID == nil {
				continue
			}
			if err := productRepo.IncrementStock(ctx, *item.ProductID, item.Qty); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore stock")
			}
		}

		if err := orderRepo.Delete(ctx, order.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete order")
		}
		return nil
	})
}

func (s *service) load(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func buildOrderPage(rows []models.Order, nextCursor *string) *OrderPage {
	page := &OrderPage{
		Orders:     make([]OrderDTO, 0, len(rows)),
		NextCursor: nextCursor,
	}
	for i := range rows {
		page.Orders = append(page.Orders, *FromModel(&rows[i]))
	}
	return page
}
