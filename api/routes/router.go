package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fenstra/offers-backend/api/controllers"
	"github.com/fenstra/offers-backend/api/middleware"
	"github.com/fenstra/offers-backend/internal/auth"
	"github.com/fenstra/offers-backend/internal/catalog"
	"github.com/fenstra/offers-backend/internal/documents"
	"github.com/fenstra/offers-backend/internal/invoices"
	"github.com/fenstra/offers-backend/internal/offers"
	"github.com/fenstra/offers-backend/internal/users"
	"github.com/fenstra/offers-backend/pkg/config"
	"github.com/fenstra/offers-backend/pkg/enums"
	"github.com/fenstra/offers-backend/pkg/logger"
	"github.com/fenstra/offers-backend/pkg/metrics"
	"github.com/fenstra/offers-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. Redis and the metrics
// handler are optional; a nil redis client disables rate limiting and a
// nil metrics handler removes the /metrics endpoint.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	Stats           *metrics.HTTPMetrics
	DBPinger        controllers.Pinger
	Redis           *redis.Client
	MetricsHandler  http.Handler
	AuthService     auth.Service
	UserService     users.Service
	CatalogService  catalog.Service
	OfferService    offers.Service
	InvoiceService  invoices.Service
	DocumentService documents.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.Stats),
		middleware.CORS(),
	)

	limiter := middleware.NewRateLimiter(deps.Redis, logg)

	var cachePinger controllers.Pinger
	if deps.Redis != nil {
		cachePinger = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.Live())
		r.Get("/ready", controllers.Ready(deps.DBPinger, cachePinger, logg))
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(limiter.LimitByIP("login", cfg.AuthRateLimit.LoginIPLimit, cfg.AuthRateLimit.LoginWindow)).
			Post("/login", controllers.Login(deps.AuthService, limiter, cfg.AuthRateLimit, logg))
		r.With(limiter.LimitByIP("register", cfg.AuthRateLimit.RegisterIPLimit, cfg.AuthRateLimit.RegisterWindow)).
			Post("/register", controllers.Register(deps.AuthService, limiter, cfg.AuthRateLimit, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/auth/me", controllers.Me(logg))

		r.Route("/options", func(r chi.Router) {
			r.Get("/", controllers.ListOptions(deps.CatalogService, logg))
			r.Get("/categories", controllers.ListCategories(deps.CatalogService, logg))
			r.Get("/{id}", controllers.GetOption(deps.CatalogService, logg))
		})

		r.Route("/offers", func(r chi.Router) {
			r.Get("/", controllers.ListOffers(deps.OfferService, logg))
			r.Post("/", controllers.CreateOffer(deps.OfferService, logg))
			r.Get("/{id}", controllers.GetOffer(deps.OfferService, logg))
			r.Put("/{id}", controllers.UpdateOffer(deps.OfferService, logg))
			r.Delete("/{id}", controllers.DeleteOffer(deps.OfferService, logg))
			r.Get("/{id}/pdf", controllers.DownloadOfferPDF(deps.DocumentService, logg))
			r.Get("/{id}/invoices", controllers.ListOfferInvoices(deps.InvoiceService, logg))
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", controllers.ListInvoices(deps.InvoiceService, logg))
			r.Post("/", controllers.IssueInvoice(deps.InvoiceService, logg))
			r.Get("/{id}", controllers.GetInvoice(deps.InvoiceService, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))

			r.Route("/options", func(r chi.Router) {
				r.Post("/", controllers.CreateOption(deps.CatalogService, logg))
				r.Put("/{id}", controllers.UpdateOption(deps.CatalogService, logg))
				r.Delete("/{id}", controllers.DeleteOption(deps.CatalogService, logg))
				r.Post("/import", controllers.ImportOptionsCSV(deps.CatalogService, logg))
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.ListUsers(deps.UserService, logg))
				r.Post("/", controllers.CreateUser(deps.UserService, logg))
				r.Post("/{id}/active", controllers.SetUserActive(deps.UserService, logg))
				r.Post("/{id}/role", controllers.SetUserRole(deps.UserService, logg))
				r.Post("/{id}/reset-password", controllers.ResetUserPassword(deps.UserService, logg))
				r.Delete("/{id}", controllers.DeleteUser(deps.UserService, logg))
			})
		})
	})

	return r
}
