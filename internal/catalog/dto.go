package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/threadcart-backend/pkg/db/models"
	"github.com/angelmondragon/threadcart-backend/pkg/pagination"
)

// ProductDTO is the transport shape for catalog listings.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Sizes       []string        `json:"sizes"`
	ImageURLs   []string        `json:"image_urls"`
	Stock       int             `json:"stock"`
	IsActive    bool            `json:"is_active"`
	IsFeatured  bool            `json:"is_featured"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateProductRequest is the admin payload for adding a catalog entry.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description *string         `json:"description,omitempty"`
	Category    string          `json:"category" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Sizes       []string        `json:"sizes,omitempty"`
	ImageURLs   []string        `json:"image_urls,omitempty"`
	Stock       int             `json:"stock" validate:"gte=0"`
	IsActive    *bool           `json:"is_active,omitempty"`
	IsFeatured  *bool           `json:"is_featured,omitempty"`
}

// UpdateProductRequest carries partial updates for an existing product.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Sizes       []string         `json:"sizes,omitempty"`
	ImageURLs   []string         `json:"image_urls,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
	IsFeatured  *bool            `json:"is_featured,omitempty"`
}

// ProductListFilters describe the supported filter knobs for the browse endpoint.
type ProductListFilters struct {
	Category        string `json:"category,omitempty"`
	Query           string `json:"q,omitempty"`
	FeaturedOnly    bool   `json:"featured_only,omitempty"`
	IncludeInactive bool   `json:"include_inactive,omitempty"`
}

// ListProductsInput captures the inputs needed to paginate and filter the catalog.
type ListProductsInput struct {
	Filters    ProductListFilters
	Pagination pagination.Params
}

// ProductPage is a cursor-paginated catalog slice.
type ProductPage struct {
	Products   []ProductDTO `json:"products"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

// FromModel converts a persisted product into its transport shape.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Sizes:       []string(p.Sizes),
		ImageURLs:   []string(p.ImageURLs),
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		IsFeatured:  p.IsFeatured,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToModel builds a new product model from the create payload.
func (r CreateProductRequest) ToModel() *models.Product {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	isFeatured := false
	if r.IsFeatured != nil {
		isFeatured = *r.IsFeatured
	}
	return &models.Product{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		Sizes:       pq.StringArray(r.Sizes),
		ImageURLs:   pq.StringArray(r.ImageURLs),
		Stock:       r.Stock,
		IsActive:    isActive,
		IsFeatured:  isFeatured,
	}
}
