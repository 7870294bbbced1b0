package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/threadcart-backend/api/middleware"
	cartsvc "github.com/angelmondragon/threadcart-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/threadcart-backend/pkg/errors"
)

type stubCartService struct {
	cart *cartsvc.CartDTO
	err  error
}

func (s stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s stubCartService) AddItem(ctx context.Context, userID uuid.UUID, req cartsvc.AddItemRequest) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s stubCartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, req cartsvc.UpdateItemRequest) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s stubCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.err
}

func TestCartGetSuccess(t *testing.T) {
	userID := uuid.New()
	handler := CartGet(stubCartService{cart: &cartsvc.CartDTO{Items: []cartsvc.CartItemDTO{}}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.CartDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Items == nil {
		t.Fatal("expected items array in payload")
	}
}

func TestCartGetMissingUserContext(t *testing.T) {
	handler := CartGet(stubCartService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemRejectsInvalidBody(t *testing.T) {
	handler := CartAddItem(stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"qty":0}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartGetServiceErrorMapsStatus(t *testing.T) {
	handler := CartGet(stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "missing")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
