package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storefrontlabs/martlet-backend/api/controllers"
	"github.com/storefrontlabs/martlet-backend/api/middleware"
	authsvc "github.com/storefrontlabs/martlet-backend/internal/auth"
	"github.com/storefrontlabs/martlet-backend/internal/cart"
	"github.com/storefrontlabs/martlet-backend/internal/catalog"
	checkoutsvc "github.com/storefrontlabs/martlet-backend/internal/checkout"
	"github.com/storefrontlabs/martlet-backend/internal/profiles"
	"github.com/storefrontlabs/martlet-backend/pkg/auth/session"
	"github.com/storefrontlabs/martlet-backend/pkg/config"
	"github.com/storefrontlabs/martlet-backend/pkg/logger"
	"github.com/storefrontlabs/martlet-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	Registry    *prometheus.Registry
	DBPinger    controllers.Pinger
	RedisPinger controllers.Pinger

	Auth     authsvc.Service
	Catalog  catalog.Service
	Cart     cart.Service
	Checkout checkoutsvc.Service
	Profiles profiles.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUserLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUserLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": deps.DBPinger,
			"redis":    deps.RedisPinger,
		}))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	// Landing page is public; shoppers can browse before signing in.
	r.Get("/", controllers.Storefront(deps.Catalog, logg))

	r.With(
		middleware.AuthRateLimit(registerPolicy, deps.Redis, logg),
		middleware.Idempotency(deps.Redis, logg),
	).Post("/register", controllers.Register(deps.Auth, logg))
	r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
		Post("/login", controllers.Login(deps.Auth, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Post("/logout", controllers.Logout(deps.Auth, logg))

		r.Get("/profile/{id}", controllers.ProfileView(deps.Profiles, logg))
		r.Put("/profile/{id}", controllers.ProfileUpdate(deps.Profiles, logg))

		r.Post("/balance", controllers.WalletTopUp(deps.Profiles, logg))
		r.Get("/balance/history", controllers.WalletHistory(deps.Profiles, logg))

		r.Post("/add_good/{goodID}", controllers.CartAddGood(deps.Cart, logg))
		r.Get("/cart", controllers.CartView(deps.Cart, logg))
		r.Post("/cart/pay/{id}", controllers.CartPay(deps.Checkout, logg))

		r.Get("/orders", controllers.OrderList(deps.Checkout, logg))
	})

	return r
}
