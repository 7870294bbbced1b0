package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/threadcart-backend/internal/catalog"
	"github.com/angelmondragon/threadcart-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/threadcart-backend/pkg/errors"
)

// Service exposes business rules for cart management.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error)
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	FindItem(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error)
	Upsert(ctx context.Context, item *models.CartItem) error
	UpdateItem(ctx context.Context, item *models.CartItem) error
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo    cartRepository
	ProductRepo productFinder
}

type service struct {
	cartRepo    cartRepository
	productRepo productFinder
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
	}, nil
}

func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart items")
	}
	return buildCartDTO(items), nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if req.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if req.Qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be positive")
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	if product.Stock < req.Qty {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "not enough stock")
	}
	if req.Size != nil && !sizeOffered(product, *req.Size) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size is not offered for this product")
	}

	err = s.cartRepo.Upsert(ctx, &models.CartItem{
		UserID:    userID,
		ProductID: req.ProductID,
		Size:      req.Size,
		Qty:       req.Qty,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "upsert cart item")
	}
	return s.GetCart(ctx, userID)
}

func (s *service) UpdateItem(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	item, err := s.cartRepo.FindItem(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
	}

	if req.Qty != nil {
		if *req.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be positive")
		}
		product, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}
		if product.Stock < *req.Qty {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "not enough stock")
		}
		item.Qty = *req.Qty
	}
	if req.Size != nil {
		item.Size = req.Size
	}

	if err := s.cartRepo.UpdateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
	}
	return s.GetCart(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.cartRepo.RemoveItem(ctx, userID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart item")
	}
	return s.GetCart(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}

func buildCartDTO(items []models.CartItem) *CartDTO {
	dto := &CartDTO{
		Items:    make([]CartItemDTO, 0, len(items)),
		Subtotal: decimal.Zero,
	}
	for i := range items {
		item := &items[i]
		lineTotal := decimal.Zero
		if item.Product != nil {
			lineTotal = item.Product.Price.Mul(decimal.NewFromInt(int64(item.Qty)))
		}
		dto.Items = append(dto.Items, CartItemDTO{
			ID:        item.ID,
			Product:   catalog.FromModel(item.Product),
			Size:      item.Size,
			Qty:       item.Qty,
			LineTotal: lineTotal,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		})
		dto.Subtotal = dto.Subtotal.Add(lineTotal)
	}
	return dto
}

func sizeOffered(product *models.Product, size string) bool {
	if len(product.Sizes) == 0 {
		return false
	}
	for _, candidate := range product.Sizes {
		if candidate == size {
			return true
		}
	}
	return false
}
