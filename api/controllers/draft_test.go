package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pr-poehali-dev/inventory-management-system-4/internal/draft"
	pkgerrors "github.com/pr-poehali-dev/inventory-management-system-4/pkg/errors"
)

type stubDraftService struct {
	addedProduct  *uuid.UUID
	addedQuantity int
	removed       *uuid.UUID
	addErr        error
}

func (s *stubDraftService) AddItem(ctx context.Context, productID uuid.UUID, quantity int) (*draft.DraftDTO, error) {
	s.addedProduct = &productID
	s.addedQuantity = quantity
	if s.addErr != nil {
		return nil, s.addErr
	}
	return &draft.DraftDTO{Total: decimal.Zero, Items: []draft.LineDTO{}}, nil
}

func (s *stubDraftService) RemoveItem(ctx context.Context, productID uuid.UUID) (*draft.DraftDTO, error) {
	s.removed = &productID
	return &draft.DraftDTO{Total: decimal.Zero, Items: []draft.LineDTO{}, Empty: true}, nil
}

func (s *stubDraftService) Get(ctx context.Context) (*draft.DraftDTO, error) {
	return &draft.DraftDTO{Total: decimal.Zero, Items: []draft.LineDTO{}, Empty: true}, nil
}

func (s *stubDraftService) Clear(ctx context.Context) error {
	return nil
}

func TestAddDraftItem(t *testing.T) {
	logg := testLogger()
	productID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubDraftService{}
		body := `{"product_id":"` + productID.String() + `","quantity":3}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/draft/items", strings.NewReader(body))
		rec := httptest.NewRecorder()

		AddDraftItem(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.addedProduct == nil || *stub.addedProduct != productID || stub.addedQuantity != 3 {
			t.Fatalf("service did not receive the payload")
		}
	})

	t.Run("rejects malformed product id", func(t *testing.T) {
		body := `{"product_id":"not-a-uuid","quantity":3}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/draft/items", strings.NewReader(body))
		rec := httptest.NewRecorder()

		AddDraftItem(&stubDraftService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("maps insufficient stock to 409", func(t *testing.T) {
		stub := &stubDraftService{addErr: pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")}
		body := `{"product_id":"` + productID.String() + `","quantity":99}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/draft/items", strings.NewReader(body))
		rec := httptest.NewRecorder()

		AddDraftItem(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

func TestRemoveDraftItem(t *testing.T) {
	logg := testLogger()
	productID := uuid.New()

	stub := &stubDraftService{}
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/draft/items/"+productID.String(), nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("productId", productID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	rec := httptest.NewRecorder()

	RemoveDraftItem(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.removed == nil || *stub.removed != productID {
		t.Fatalf("expected RemoveItem(%s)", productID)
	}
}
