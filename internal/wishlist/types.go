package wishlist

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/threadcart-backend/internal/catalog"
)

// WishlistItemDTO wraps the product included in a wishlist row.
type WishlistItemDTO struct {
	Product   *catalog.ProductDTO `json:"product"`
	CreatedAt time.Time           `json:"created_at"`
}

// WishlistDTO is the full wishlist view returned to the storefront.
type WishlistDTO struct {
	Items []WishlistItemDTO `json:"items"`
}

// WishlistIDsDTO is a lightweight projection containing only product IDs.
type WishlistIDsDTO struct {
	ProductIDs []uuid.UUID `json:"product_ids"`
}

// AddItemRequest is the payload for liking a product.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}
