package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/threadcart-backend/pkg/db/models"
)

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, category string, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     fmt.Sprintf("Test Product %s", uuid.NewString()[:8]),
		Category: category,
		Price:    decimal.RequireFromString(price),
		Stock:    10,
		IsActive: true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestRepositoryListFiltersByCategory(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	repo := NewRepository(tx)
	mustCreateTestProduct(t, tx, "Men", "10.00")
	mustCreateTestProduct(t, tx, "Women", "20.00")

	rows, _, err := repo.List(context.Background(), ListProductsInput{
		Filters: ProductListFilters{Category: "Men"},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, row := range rows {
		if row.Category != "Men" {
			t.Fatalf("expected only Men products, got %q", row.Category)
		}
	}
}

func TestRepositoryDecrementStock(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	repo := NewRepository(tx)
	product := mustCreateTestProduct(t, tx, "Men", "10.00")

	ok, err := repo.DecrementStock(context.Background(), product.ID, 4)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if !ok {
		t.Fatalf("expected decrement to succeed")
	}

	ok, err = repo.DecrementStock(context.Background(), product.ID, 100)
	if err != nil {
		t.Fatalf("decrement over stock: %v", err)
	}
	if ok {
		t.Fatalf("expected decrement beyond stock to fail")
	}

	reloaded, err := repo.FindByID(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Stock != 6 {
		t.Fatalf("expected stock 6, got %d", reloaded.Stock)
	}
}
