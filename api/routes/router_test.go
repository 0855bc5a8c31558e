package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/storefrontlabs/martlet-backend/internal/auth"
	cartsvc "github.com/storefrontlabs/martlet-backend/internal/cart"
	"github.com/storefrontlabs/martlet-backend/internal/catalog"
	"github.com/storefrontlabs/martlet-backend/internal/orders"
	profilesvc "github.com/storefrontlabs/martlet-backend/internal/profiles"
	pkgauth "github.com/storefrontlabs/martlet-backend/pkg/auth"
	"github.com/storefrontlabs/martlet-backend/pkg/config"
	"github.com/storefrontlabs/martlet-backend/pkg/logger"
	"github.com/storefrontlabs/martlet-backend/pkg/pagination"
	"github.com/storefrontlabs/martlet-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(context.Context, string) (bool, error) { return true, nil }

type stubAuthService struct{}

func (stubAuthService) Register(context.Context, authsvc.RegisterInput) (*authsvc.SessionDTO, error) {
	return &authsvc.SessionDTO{}, nil
}

func (stubAuthService) Login(context.Context, authsvc.LoginInput) (*authsvc.SessionDTO, error) {
	return &authsvc.SessionDTO{}, nil
}

func (stubAuthService) Logout(context.Context, string) error { return nil }

type stubCatalogService struct{}

func (stubCatalogService) Storefront(context.Context) (*catalog.StorefrontDTO, error) {
	return &catalog.StorefrontDTO{}, nil
}

type stubCartService struct{}

func (stubCartService) AddGood(context.Context, uuid.UUID, uuid.UUID, int) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{}, nil
}

func (stubCartService) GetCart(context.Context, uuid.UUID) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{}, nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) Pay(context.Context, uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubCheckoutService) ListOrders(context.Context, uuid.UUID, pagination.Params) (*orders.OrderListDTO, error) {
	return &orders.OrderListDTO{}, nil
}

type stubProfileService struct{}

func (stubProfileService) GetAccount(context.Context, uuid.UUID) (*profilesvc.AccountDTO, error) {
	return &profilesvc.AccountDTO{}, nil
}

func (stubProfileService) UpdateAccount(context.Context, uuid.UUID, profilesvc.UpdateInput) (*profilesvc.AccountDTO, error) {
	return &profilesvc.AccountDTO{}, nil
}

func (stubProfileService) TopUp(context.Context, uuid.UUID, profilesvc.TopUpInput) (*profilesvc.ProfileDTO, error) {
	return &profilesvc.ProfileDTO{}, nil
}

func (stubProfileService) WalletHistory(context.Context, uuid.UUID, int) ([]profilesvc.WalletEntryDTO, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "martlet",
			ExpirationMinutes: 15,
			SessionTTLMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Output: io.Discard})
	return NewRouter(Deps{
		Config:      cfg,
		Logger:      logg,
		Redis:       (*redis.Client)(nil),
		Sessions:    stubSessionChecker{},
		DBPinger:    stubPinger{},
		RedisPinger: stubPinger{},
		Auth:        stubAuthService{},
		Catalog:     stubCatalogService{},
		Cart:        stubCartService{},
		Checkout:    stubCheckoutService{},
		Profiles:    stubProfileService{},
	})
}

func TestStorefrontIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAuthedGroupRejectsMissingToken(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, target := range []string{"/cart", "/orders"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without token got %d", target, resp.Code)
		}
	}
}

func TestAuthedGroupAcceptsValidToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	userID := uuid.New()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID:   userID,
		Username: "tamara",
		JTI:      "router-test-jti",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}
