package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/threadcart-backend/internal/catalog"
)

// AddItemRequest is the payload for putting a product into the cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Size      *string   `json:"size,omitempty"`
	Qty       int       `json:"qty" validate:"required,gt=0"`
}

// UpdateItemRequest adjusts quantity or size on an existing cart row.
type UpdateItemRequest struct {
	Size *string `json:"size,omitempty"`
	Qty  *int    `json:"qty,omitempty" validate:"omitempty,gt=0"`
}

// CartItemDTO wraps the product summary included in a cart row.
type CartItemDTO struct {
	ID        uuid.UUID           `json:"id"`
	Product   *catalog.ProductDTO `json:"product"`
	Size      *string             `json:"size,omitempty"`
	Qty       int                 `json:"qty"`
	LineTotal decimal.Decimal     `json:"line_total"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// CartDTO is the full cart view returned to the storefront.
type CartDTO struct {
	Items    []CartItemDTO   `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}
