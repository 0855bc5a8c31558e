package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefrontlabs/martlet-backend/api/middleware"
	cartsvc "github.com/storefrontlabs/martlet-backend/internal/cart"
	"github.com/storefrontlabs/martlet-backend/internal/orders"
	"github.com/storefrontlabs/martlet-backend/pkg/pagination"
)

type stubCartService struct {
	cart    *cartsvc.CartDTO
	err     error
	addGood uuid.UUID
	addQty  int
}

func (s *stubCartService) AddGood(_ context.Context, _ uuid.UUID, goodID uuid.UUID, quantity int) (*cartsvc.CartDTO, error) {
	s.addGood = goodID
	s.addQty = quantity
	return s.cart, s.err
}

func (s *stubCartService) GetCart(context.Context, uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

type stubCheckoutService struct {
	order *orders.OrderDTO
	list  *orders.OrderListDTO
	err   error
	paid  bool
}

func (s *stubCheckoutService) Pay(context.Context, uuid.UUID) (*orders.OrderDTO, error) {
	s.paid = true
	return s.order, s.err
}

func (s *stubCheckoutService) ListOrders(context.Context, uuid.UUID, pagination.Params) (*orders.OrderListDTO, error) {
	return s.list, s.err
}

func authedRequest(method, target string, body []byte, userID uuid.UUID, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := middleware.WithUserID(req.Context(), userID.String())

	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

func TestCartAddGoodSuccess(t *testing.T) {
	userID := uuid.New()
	goodID := uuid.New()
	svc := &stubCartService{cart: &cartsvc.CartDTO{Total: decimal.RequireFromString("20.00")}}
	handler := CartAddGood(svc, nil)

	body := []byte(`{"quantity": 2}`)
	req := authedRequest(http.MethodPost, "/add_good/"+goodID.String(), body, userID, map[string]string{"goodID": goodID.String()})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.addGood != goodID || svc.addQty != 2 {
		t.Fatalf("service called with %s qty %d", svc.addGood, svc.addQty)
	}
}

func TestCartAddGoodRequiresAuth(t *testing.T) {
	goodID := uuid.New()
	handler := CartAddGood(&stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/add_good/"+goodID.String(), bytes.NewReader([]byte(`{"quantity":1}`)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartPayRejectsOtherUser(t *testing.T) {
	userID := uuid.New()
	other := uuid.New()
	svc := &stubCheckoutService{}
	handler := CartPay(svc, nil)

	req := authedRequest(http.MethodPost, "/cart/pay/"+other.String(), nil, userID, map[string]string{"id": other.String()})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
	if svc.paid {
		t.Fatal("checkout service should not be called")
	}
}

func TestCartPaySuccessMessage(t *testing.T) {
	userID := uuid.New()
	svc := &stubCheckoutService{order: &orders.OrderDTO{
		ID:     uuid.New(),
		Amount: decimal.RequireFromString("35.00"),
	}}
	handler := CartPay(svc, nil)

	req := authedRequest(http.MethodPost, "/cart/pay/"+userID.String(), nil, userID, map[string]string{"id": userID.String()})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data    orders.OrderDTO `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Message != "Payment completed" {
		t.Fatalf("unexpected message: %q", envelope.Message)
	}
	if !envelope.Data.Amount.Equal(decimal.RequireFromString("35.00")) {
		t.Fatalf("unexpected amount: %s", envelope.Data.Amount)
	}
}

func TestOrderListForwardsCursor(t *testing.T) {
	userID := uuid.New()
	svc := &stubCheckoutService{list: &orders.OrderListDTO{NextCursor: "more"}}
	handler := OrderList(svc, nil)

	req := authedRequest(http.MethodGet, "/orders?limit=5&cursor=abc", nil, userID, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data orders.OrderListDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.NextCursor != "more" {
		t.Fatalf("unexpected cursor: %q", envelope.Data.NextCursor)
	}
}
