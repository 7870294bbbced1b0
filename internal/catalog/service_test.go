package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/threadcart-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/threadcart-backend/pkg/errors"
)

func TestServiceDetailMapsNotFound(t *testing.T) {
	svc := mustBuildService(t, &stubProductRepo{findErr: gorm.ErrRecordNotFound})

	_, err := svc.Detail(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestServiceCreateValidatesPayload(t *testing.T) {
	svc := mustBuildService(t, &stubProductRepo{})

	cases := []struct {
		name string
		req  CreateProductRequest
	}{
		{"missing name", CreateProductRequest{Category: "Men", Price: decimal.NewFromInt(10)}},
		{"missing category", CreateProductRequest{Name: "Tee", Price: decimal.NewFromInt(10)}},
		{"negative price", CreateProductRequest{Name: "Tee", Category: "Men", Price: decimal.NewFromInt(-1)}},
		{"negative stock", CreateProductRequest{Name: "Tee", Category: "Men", Price: decimal.NewFromInt(10), Stock: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestServiceCreateDefaultsActive(t *testing.T) {
	repo := &stubProductRepo{}
	svc := mustBuildService(t, repo)

	dto, err := svc.Create(context.Background(), CreateProductRequest{
		Name:     "Linen Shirt",
		Category: "Men",
		Price:    decimal.RequireFromString("49.99"),
		Stock:    12,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !dto.IsActive {
		t.Fatalf("expected new products to default to active")
	}
	if dto.IsFeatured {
		t.Fatalf("expected new products to default to not featured")
	}
	if repo.created == nil || !repo.created.Price.Equal(decimal.RequireFromString("49.99")) {
		t.Fatalf("expected price to be persisted exactly")
	}
}

func TestServiceUpdateAppliesPartialFields(t *testing.T) {
	existing := &models.Product{
		ID:       uuid.New(),
		Name:     "Old Name",
		Category: "Men",
		Price:    decimal.NewFromInt(20),
		Stock:    3,
		IsActive: true,
	}
	repo := &stubProductRepo{product: existing}
	svc := mustBuildService(t, repo)

	newName := "New Name"
	newStock := 7
	dto, err := svc.Update(context.Background(), existing.ID, UpdateProductRequest{
		Name:  &newName,
		Stock: &newStock,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Name != "New Name" || dto.Stock != 7 {
		t.Fatalf("expected updated fields, got %+v", dto)
	}
	if dto.Category != "Men" {
		t.Fatalf("expected untouched fields to survive, got category %q", dto.Category)
	}
}

func TestServiceListPassesFiltersThrough(t *testing.T) {
	repo := &stubProductRepo{
		listRows: []models.Product{
			{ID: uuid.New(), Name: "Tee", Category: "Men", Price: decimal.NewFromInt(10), IsActive: true},
		},
	}
	svc := mustBuildService(t, repo)

	page, err := svc.List(context.Background(), ListProductsInput{
		Filters: ProductListFilters{Category: "Men"},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Products) != 1 {
		t.Fatalf("expected one product, got %d", len(page.Products))
	}
	if repo.lastInput.Filters.Category != "Men" {
		t.Fatalf("expected category filter to reach the repo")
	}
}

func mustBuildService(t *testing.T, repo *stubProductRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

type stubProductRepo struct {
	product   *models.Product
	created   *models.Product
	listRows  []models.Product
	lastInput ListProductsInput
	findErr   error
}

func (s *stubProductRepo) List(ctx context.Context, input ListProductsInput) ([]models.Product, *string, error) {
	s.lastInput = input
	return s.listRows, nil, nil
}

func (s *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.product == nil || s.product.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.product, nil
}

func (s *stubProductRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	product.ID = uuid.New()
	s.created = product
	return product, nil
}

func (s *stubProductRepo) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	return product, nil
}

func (s *stubProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}
