package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/threadcart-backend/api/controllers"
	"github.com/angelmondragon/threadcart-backend/api/middleware"
	"github.com/angelmondragon/threadcart-backend/internal/auth"
	"github.com/angelmondragon/threadcart-backend/internal/cart"
	"github.com/angelmondragon/threadcart-backend/internal/catalog"
	"github.com/angelmondragon/threadcart-backend/internal/dashboard"
	internalorders "github.com/angelmondragon/threadcart-backend/internal/orders"
	"github.com/angelmondragon/threadcart-backend/internal/users"
	"github.com/angelmondragon/threadcart-backend/internal/wishlist"
	"github.com/angelmondragon/threadcart-backend/pkg/auth/session"
	"github.com/angelmondragon/threadcart-backend/pkg/config"
	"github.com/angelmondragon/threadcart-backend/pkg/db"
	"github.com/angelmondragon/threadcart-backend/pkg/logger"
	"github.com/angelmondragon/threadcart-backend/pkg/redis"
)

// Deps bundles everything the router needs so main stays a wiring exercise.
type Deps struct {
	Config           *config.Config
	Logger           *logger.Logger
	DB               db.Pinger
	Redis            *redis.Client
	SessionManager   session.AccessSessionChecker
	AuthService      auth.Service
	UsersRepo        *users.Repository
	CatalogService   catalog.Service
	CartService      cart.Service
	WishlistService  wishlist.Service
	OrdersService    internalorders.Service
	DashboardService dashboard.Service
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
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.CatalogService, logg))
		r.Get("/{productId}", controllers.ProductDetail(deps.CatalogService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))

		r.Get("/ping", controllers.PrivatePing())
		r.Get("/me", controllers.CurrentUser(deps.UsersRepo, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.CartService, logg))
			r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateItem(deps.CartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.CartService, logg))
			r.Delete("/", controllers.CartClear(deps.CartService, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(deps.WishlistService, logg))
			r.Get("/ids", controllers.WishlistIDs(deps.WishlistService, logg))
			r.Post("/items", controllers.WishlistAddItem(deps.WishlistService, logg))
			r.Delete("/items/{productId}", controllers.WishlistRemoveItem(deps.WishlistService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderPlace(deps.OrdersService, logg))
			r.Get("/", controllers.OrderList(deps.OrdersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.OrdersService, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(deps.OrdersService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Get("/ping", controllers.AdminPing())
		r.Get("/dashboard", controllers.AdminDashboard(deps.DashboardService, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminListUsers(deps.UsersRepo, logg))
			r.Post("/{userId}/deactivate", controllers.AdminDeactivateUser(deps.UsersRepo, logg))
			r.Delete("/{userId}", controllers.AdminDeleteUser(deps.UsersRepo, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(deps.CatalogService, logg))
			r.Post("/", controllers.AdminCreateProduct(deps.CatalogService, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(deps.CatalogService, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(deps.CatalogService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(deps.OrdersService, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(deps.OrdersService, logg))
			r.Post("/{orderId}/pay", controllers.AdminOrderMarkPaid(deps.OrdersService, logg))
			r.Post("/{orderId}/deliver", controllers.AdminOrderMarkDelivered(deps.OrdersService, logg))
			r.Delete("/{orderId}", controllers.AdminOrderDelete(deps.OrdersService, logg))
		})
	})

	return r
}
