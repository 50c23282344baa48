package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/procureflow/procureflow-backend/api/controllers"
	"github.com/procureflow/procureflow-backend/api/middleware"
	"github.com/procureflow/procureflow-backend/internal/auth"
	"github.com/procureflow/procureflow-backend/internal/requests"
	"github.com/procureflow/procureflow-backend/internal/users"
	"github.com/procureflow/procureflow-backend/pkg/auth/session"
	"github.com/procureflow/procureflow-backend/pkg/config"
	"github.com/procureflow/procureflow-backend/pkg/db"
	"github.com/procureflow/procureflow-backend/pkg/enums"
	"github.com/procureflow/procureflow-backend/pkg/logger"
	"github.com/procureflow/procureflow-backend/pkg/metrics"
	"github.com/procureflow/procureflow-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           redis.Pinger
	Sessions        session.AccessSessionChecker
	Principals      middleware.PrincipalResolver
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsHandler  http.Handler
	AuthService     auth.Service
	RegisterService auth.RegisterService
	UsersService    users.Service
	RequestsService requests.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	metricsHandler := p.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(p.RegisterService, logg))
			r.Post("/login", controllers.AuthLogin(p.AuthService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, p.Sessions, p.Principals, logg))
				r.Post("/logout", controllers.AuthLogout(p.AuthService, logg))
				r.Get("/me", controllers.AuthMe(p.AuthService, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.Sessions, p.Principals, logg))

			r.Route("/buyers", func(r chi.Router) {
				r.Get("/", controllers.UsersList(p.UsersService, enums.RoleBuyer, logg))
				r.Route("/{userId}", func(r chi.Router) {
					r.Get("/", controllers.UserGet(p.UsersService, enums.RoleBuyer, logg))
					r.Put("/", controllers.UserUpdate(p.UsersService, enums.RoleBuyer, logg))
					r.Patch("/", controllers.UserPatch(p.UsersService, enums.RoleBuyer, logg))
					r.Delete("/", controllers.UserDelete(p.UsersService, enums.RoleBuyer, logg))
				})
			})

			r.Route("/sellers", func(r chi.Router) {
				r.Get("/", controllers.UsersList(p.UsersService, enums.RoleSeller, logg))
				r.Route("/{userId}", func(r chi.Router) {
					r.Get("/", controllers.UserGet(p.UsersService, enums.RoleSeller, logg))
					r.Put("/", controllers.UserUpdate(p.UsersService, enums.RoleSeller, logg))
					r.Patch("/", controllers.UserPatch(p.UsersService, enums.RoleSeller, logg))
					r.Delete("/", controllers.UserDelete(p.UsersService, enums.RoleSeller, logg))
				})
			})

			r.Route("/buyer", func(r chi.Router) {
				r.Route("/purchase-requests", func(r chi.Router) {
					r.Get("/", controllers.BuyerListPurchaseRequests(p.RequestsService, logg))
					r.Post("/", controllers.BuyerCreatePurchaseRequest(p.RequestsService, logg))
				})
				r.Get("/dashboard", controllers.BuyerDashboard(p.RequestsService, logg))
			})

			r.Route("/seller", func(r chi.Router) {
				r.Route("/purchase-requests", func(r chi.Router) {
					r.Get("/", controllers.SellerListPurchaseRequests(p.RequestsService, logg))
					r.Route("/{requestId}", func(r chi.Router) {
						r.Get("/", controllers.SellerGetPurchaseRequest(p.RequestsService, logg))
						r.Put("/", controllers.SellerUpdatePurchaseRequest(p.RequestsService, logg))
						r.Patch("/", controllers.SellerUpdatePurchaseRequest(p.RequestsService, logg))
					})
				})
				r.Get("/dashboard", controllers.SellerDashboard(p.RequestsService, logg))
			})
		})
	})

	return r
}
