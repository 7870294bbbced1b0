package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/threadcart-backend/pkg/db/models"
	"github.com/angelmondragon/threadcart-backend/pkg/enums"
	"github.com/angelmondragon/threadcart-backend/pkg/pagination"
	"github.com/angelmondragon/threadcart-backend/pkg/types"
)

// PlaceOrderRequest is the checkout payload. Line items come from the server-side cart.
type PlaceOrderRequest struct {
	PaymentMethod   enums.PaymentMethod `json:"payment_method" validate:"required"`
	ShippingAddress types.Address       `json:"shipping_address" validate:"required"`
}

// OrderLineItemDTO is the snapshot of one line item inside an order.
type OrderLineItemDTO struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  *uuid.UUID      `json:"product_id,omitempty"`
	Name       string          `json:"name"`
	Size       *string         `json:"size,omitempty"`
	Qty        int             `json:"qty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderDTO is the transport shape for a placed order.
type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	UserID          *uuid.UUID          `json:"user_id,omitempty"`
	Items           []OrderLineItemDTO  `json:"items"`
	TotalPrice      decimal.Decimal     `json:"total_price"`
	IsPaid          bool                `json:"is_paid"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	IsDelivered     bool                `json:"is_delivered"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	ShippingAddress *types.Address      `json:"shipping_address,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderPage is a cursor-paginated order listing.
type OrderPage struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor *string    `json:"next_cursor,omitempty"`
}

// ListOrdersInput captures pagination plus the admin-only paid/delivered filters.
type ListOrdersInput struct {
	Pagination    pagination.Params
	PaidOnly      bool
	UnpaidOnly    bool
	DeliveredOnly bool
}

// FromModel converts a persisted order into its transport shape.
func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]OrderLineItemDTO, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, OrderLineItemDTO{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Name:       item.Name,
			Size:       item.Size,
			Qty:        item.Qty,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}
	return &OrderDTO{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           items,
		TotalPrice:      o.TotalPrice,
		IsPaid:          o.IsPaid,
		PaidAt:          o.PaidAt,
		IsDelivered:     o.IsDelivered,
		DeliveredAt:     o.DeliveredAt,
		PaymentMethod:   o.PaymentMethod,
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
