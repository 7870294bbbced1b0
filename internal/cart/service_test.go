package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/threadcart-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/threadcart-backend/pkg/errors"
)

func TestServiceAddItemRejectsUnknownProduct(t *testing.T) {
	svc := mustBuildService(t, &fakeCartRepo{}, &fakeProductFinder{})

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{
		ProductID: uuid.New(),
		Qty:       1,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestServiceAddItemEnforcesStock(t *testing.T) {
	product := activeProduct("15.00", 2)
	svc := mustBuildService(t, &fakeCartRepo{}, &fakeProductFinder{product: product})

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{
		ProductID: product.ID,
		Qty:       3,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for stock, got %v", err)
	}
}

func TestServiceAddItemRejectsUnofferedSize(t *testing.T) {
	product := activeProduct("15.00", 10)
	product.Sizes = pq.StringArray{"S", "M"}
	svc := mustBuildService(t, &fakeCartRepo{}, &fakeProductFinder{product: product})

	size := "XL"
	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{
		ProductID: product.ID,
		Size:      &size,
		Qty:       1,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for size, got %v", err)
	}
}

func TestServiceAddItemUpsertsAndReturnsCart(t *testing.T) {
	userID := uuid.New()
	product := activeProduct("15.00", 10)
	repo := &fakeCartRepo{}
	svc := mustBuildService(t, repo, &fakeProductFinder{product: product})

	cart, err := svc.AddItem(context.Background(), userID, AddItemRequest{
		ProductID: product.ID,
		Qty:       2,
	})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected one upserted row, got %d", len(repo.items))
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected one cart item, got %d", len(cart.Items))
	}
	wantSubtotal := decimal.RequireFromString("30.00")
	if !cart.Subtotal.Equal(wantSubtotal) {
		t.Fatalf("expected subtotal %s, got %s", wantSubtotal, cart.Subtotal)
	}
}

func TestServiceUpdateItemChecksExistence(t *testing.T) {
	svc := mustBuildService(t, &fakeCartRepo{}, &fakeProductFinder{})

	qty := 2
	_, err := svc.UpdateItem(context.Background(), uuid.New(), uuid.New(), UpdateItemRequest{Qty: &qty})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestServiceClearDelegatesToRepo(t *testing.T) {
	userID := uuid.New()
	product := activeProduct("15.00", 10)
	repo := &fakeCartRepo{}
	svc := mustBuildService(t, repo, &fakeProductFinder{product: product})

	if _, err := svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: product.ID, Qty: 1}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	if err := svc.Clear(context.Background(), userID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(repo.items) != 0 {
		t.Fatalf("expected empty cart after clear, got %d rows", len(repo.items))
	}
}

func mustBuildService(t *testing.T, repo *fakeCartRepo, finder *fakeProductFinder) Service {
	t.Helper()
	repo.finder = finder
	svc, err := NewService(ServiceParams{CartRepo: repo, ProductRepo: finder})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func activeProduct(price string, stock int) *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Name:     "Cotton Tee",
		Category: "Men",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
}

type fakeProductFinder struct {
	product *models.Product
}

func (f *fakeProductFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if f.product == nil || f.product.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.product, nil
}

type fakeCartRepo struct {
	items  []models.CartItem
	finder *fakeProductFinder
}

func (f *fakeCartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, item := range f.items {
		if item.UserID == userID {
			if f.finder != nil && f.finder.product != nil && f.finder.product.ID == item.ProductID {
				item.Product = f.finder.product
			}
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeCartRepo) FindItem(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	for i := range f.items {
		if f.items[i].UserID == userID && f.items[i].ProductID == productID {
			return &f.items[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCartRepo) Upsert(ctx context.Context, item *models.CartItem) error {
	for i := range f.items {
		if f.items[i].UserID == item.UserID && f.items[i].ProductID == item.ProductID {
			f.items[i].Qty += item.Qty
			f.items[i].Size = item.Size
			return nil
		}
	}
	item.ID = uuid.New()
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeCartRepo) UpdateItem(ctx context.Context, item *models.CartItem) error {
	for i := range f.items {
		if f.items[i].ID == item.ID {
			f.items[i] = *item
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeCartRepo) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	out := f.items[:0]
	for _, item := range f.items {
		if item.UserID != userID || item.ProductID != productID {
			out = append(out, item)
		}
	}
	f.items = out
	return nil
}

func (f *fakeCartRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	out := f.items[:0]
	for _, item := range f.items {
		if item.UserID != userID {
			out = append(out, item)
		}
	}
	f.items = out
	return nil
}
