package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/angelmondragon/threadcart-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/threadcart-backend/pkg/errors"
)

// Service defines the catalog behavior needed by the product controllers.
type Service interface {
	List(ctx context.Context, input ListProductsInput) (*ProductPage, error)
	Detail(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepository interface {
	List(ctx context.Context, input ListProductsInput) ([]models.Product, *string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo productRepository
}

// ServiceParams bundles the dependencies required to build a catalog service.
type ServiceParams struct {
	Repo productRepository
}

// NewService constructs a catalog service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context, input ListProductsInput) (*ProductPage, error) {
	rows, nextCursor, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	page := &ProductPage{
		Products:   make([]ProductDTO, 0, len(rows)),
		NextCursor: nextCursor,
	}
	for i := range rows {
		page.Products = append(page.Products, *FromModel(&rows[i]))
	}
	return page, nil
}

func (s *service) Detail(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return FromModel(product), nil
}

func (s *service) Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(req.Category) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if req.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	product, err := s.repo.Create(ctx, req.ToModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	if err := applyUpdate(product, req); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func applyUpdate(product *models.Product, req UpdateProductRequest) error {
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Category != nil {
		if strings.TrimSpace(*req.Category) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "category cannot be empty")
		}
		product.Category = *req.Category
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *req.Price
	}
	if req.Sizes != nil {
		product.Sizes = pq.StringArray(req.Sizes)
	}
	if req.ImageURLs != nil {
		product.ImageURLs = pq.StringArray(req.ImageURLs)
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		product.Stock = *req.Stock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	return nil
}
