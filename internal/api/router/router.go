package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sopiautomobile/lead-platform/internal/admin"
	httpmiddleware "github.com/sopiautomobile/lead-platform/internal/http/middleware"
	"github.com/sopiautomobile/lead-platform/internal/leads"
	"github.com/sopiautomobile/lead-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	LeadsHandler       *leads.Handler
	AdminAuth          *admin.AuthHandler
	AdminLeads         *admin.LeadsHandler
	Sessions           admin.SessionStore
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Intake rate limiting; disabled when IntakeRateLimit <= 0.
	IntakeRateLimit float64
	IntakeRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		healthz := func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		}
		public.Get("/health", healthz)
		public.Get("/healthz", healthz)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		public.Route("/api/leads", func(r chi.Router) {
			if cfg.IntakeRateLimit > 0 {
				r.With(httpmiddleware.RateLimit(cfg.IntakeRateLimit, cfg.IntakeRateBurst)).
					Post("/", cfg.LeadsHandler.Submit)
			} else {
				r.Post("/", cfg.LeadsHandler.Submit)
			}
			r.Get("/", cfg.LeadsHandler.Health)
		})

		public.Post("/api/admin/auth", cfg.AdminAuth.Login)
		public.Delete("/api/admin/auth", cfg.AdminAuth.Logout)
	})

	// Admin endpoints behind the session gate
	r.Group(func(protected chi.Router) {
		protected.Use(admin.RequireSession(cfg.Sessions))

		protected.Route("/api/admin/leads", func(r chi.Router) {
			r.Get("/", cfg.AdminLeads.List)
			r.Patch("/", cfg.AdminLeads.Update)
			r.Delete("/", cfg.AdminLeads.Delete)
			r.Get("/export", cfg.AdminLeads.Export)
		})
		protected.Post("/api/admin/test/notifications", cfg.AdminLeads.TestNotifications)
	})

	return r
}
