package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/minhngdev/foodcourt-backend/api/controllers"
	webhookcontrollers "github.com/minhngdev/foodcourt-backend/api/controllers/webhooks"
	"github.com/minhngdev/foodcourt-backend/api/middleware"
	"github.com/minhngdev/foodcourt-backend/internal/accounts"
	"github.com/minhngdev/foodcourt-backend/internal/catalog"
	"github.com/minhngdev/foodcourt-backend/internal/follows"
	"github.com/minhngdev/foodcourt-backend/internal/notifications"
	"github.com/minhngdev/foodcourt-backend/internal/orders"
	"github.com/minhngdev/foodcourt-backend/internal/payments"
	"github.com/minhngdev/foodcourt-backend/internal/reporting"
	"github.com/minhngdev/foodcourt-backend/internal/reviews"
	"github.com/minhngdev/foodcourt-backend/internal/stores"
	momowebhook "github.com/minhngdev/foodcourt-backend/internal/webhooks/momo"
	"github.com/minhngdev/foodcourt-backend/pkg/config"
	"github.com/minhngdev/foodcourt-backend/pkg/db"
	"github.com/minhngdev/foodcourt-backend/pkg/enums"
	"github.com/minhngdev/foodcourt-backend/pkg/logger"
	pkgredis "github.com/minhngdev/foodcourt-backend/pkg/redis"
)

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Accounts      accounts.Service
	Stores        stores.Service
	Catalog       catalog.Service
	Orders        orders.Service
	Payments      payments.Service
	Follows       follows.Service
	Reviews       reviews.Service
	Notifications notifications.Service
	Reporting     reporting.Service
	MomoWebhook   *momowebhook.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(svcs.Accounts, logg))
		r.Post("/login", controllers.AuthLogin(svcs.Accounts, logg))
	})

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/momo", webhookcontrollers.MomoIPN(svcs.MomoWebhook, logg))
	})

	// public catalog browsing
	r.Group(func(r chi.Router) {
		r.Get("/api/v1/stores", controllers.StoreList(svcs.Stores, logg))
		r.Get("/api/v1/stores/{storeID}", controllers.StoreGet(svcs.Stores, logg))
		r.Get("/api/v1/stores/{storeID}/menus", controllers.MenuListByStore(svcs.Catalog, logg))
		r.Get("/api/v1/stores/{storeID}/reviews", controllers.ReviewList(svcs.Reviews, logg))
		r.Get("/api/v1/stores/{storeID}/reviews/summary", controllers.ReviewSummary(svcs.Reviews, logg))
		r.Get("/api/v1/foods", controllers.FoodList(svcs.Catalog, logg))
		r.Get("/api/v1/foods/{foodID}", controllers.FoodGet(svcs.Catalog, logg))
		r.Get("/api/v1/menus/{menuID}", controllers.MenuGet(svcs.Catalog, logg))
		r.Get("/api/v1/categories", controllers.CategoryList(svcs.Catalog, logg))
	})

	// authenticated surface
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/me", controllers.AccountProfile(svcs.Accounts, logg))
			r.Get("/me/follows", controllers.FollowedStores(svcs.Follows, logg))

			r.With(middleware.RequireRole(enums.RoleStore, logg)).
				Post("/stores", controllers.StoreOnboard(svcs.Stores, logg))
			r.Put("/stores/{storeID}", controllers.StoreUpdate(svcs.Stores, logg))
			r.Get("/stores/{storeID}/revenue", controllers.StoreRevenue(svcs.Reporting, logg))
			r.Get("/stores/{storeID}/top-products", controllers.StoreTopProducts(svcs.Reporting, logg))

			r.With(middleware.RequireRole(enums.RoleCustomer, logg)).
				Post("/stores/{storeID}/follow", controllers.FollowStore(svcs.Follows, logg))
			r.With(middleware.RequireRole(enums.RoleCustomer, logg)).
				Delete("/stores/{storeID}/follow", controllers.UnfollowStore(svcs.Follows, logg))

			r.With(middleware.RequireStoreContext(logg)).Group(func(r chi.Router) {
				r.Post("/foods", controllers.FoodCreate(svcs.Catalog, logg))
				r.Patch("/foods/{foodID}", controllers.FoodUpdate(svcs.Catalog, logg))
				r.Delete("/foods/{foodID}", controllers.FoodRemove(svcs.Catalog, logg))
				r.Post("/menus", controllers.MenuCreate(svcs.Catalog, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.With(middleware.RequireRole(enums.RoleCustomer, logg)).
					Post("/", controllers.OrderCreate(svcs.Orders, logg))
				r.Get("/", controllers.OrderList(svcs.Orders, logg))
				r.Get("/{orderID}", controllers.OrderGet(svcs.Orders, logg))
				r.Patch("/{orderID}/confirm", controllers.OrderConfirm(svcs.Orders, logg))
				r.Patch("/{orderID}/deliver", controllers.OrderDeliver(svcs.Orders, logg))
				r.Patch("/{orderID}/complete", controllers.OrderComplete(svcs.Orders, logg))
				r.Post("/{orderID}/cancel", controllers.OrderCancel(svcs.Orders, logg))
			})

			r.Post("/payments/momo", controllers.PaymentInitiate(svcs.Payments, logg))

			r.With(middleware.RequireRole(enums.RoleCustomer, logg)).
				Post("/reviews", controllers.ReviewCreate(svcs.Reviews, logg))

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.NotificationList(svcs.Notifications, logg))
				r.Get("/unread-count", controllers.NotificationUnreadCount(svcs.Notifications, logg))
				r.Post("/{notificationID}/read", controllers.NotificationMarkRead(svcs.Notifications, logg))
			})
		})

		r.Route("/api/admin/v1", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.RoleAdmin, logg))
			r.Post("/categories", controllers.CategoryCreate(svcs.Catalog, logg))
			r.Post("/stores/{storeID}/approve", controllers.StoreApprove(svcs.Stores, logg))
			r.Get("/stats", controllers.PlatformStats(svcs.Reporting, logg))
		})
	})

	return r
}
