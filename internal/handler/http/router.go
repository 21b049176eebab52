package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Michael-Parekh/proshop/internal/service"
	"github.com/Michael-Parekh/proshop/pkg/health"
	"github.com/Michael-Parekh/proshop/pkg/httputil"
	"github.com/Michael-Parekh/proshop/pkg/middleware"
)

// topProductsCacheSeconds is the browser cache window for the carousel.
const topProductsCacheSeconds = 60

// RouterConfig bundles everything the router needs.
type RouterConfig struct {
	UserService    *service.UserService
	ProductService *service.ProductService
	OrderService   *service.OrderService
	UploadService  *service.UploadService
	TokenValidator middleware.TokenValidator
	HealthHandler  *health.Handler
	Logger         *slog.Logger
	CORS           middleware.CORSConfig
	PayPalClientID string
	UploadDir      string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Tracing("api"))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("api"))

	// Health check and metrics endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authn := middleware.Auth(cfg.TokenValidator)
	admin := middleware.RequireAdmin()

	userHandler := NewUserHandler(cfg.UserService, cfg.Logger)
	productHandler := NewProductHandler(cfg.ProductService, cfg.Logger)
	orderHandler := NewOrderHandler(cfg.OrderService, cfg.Logger)
	uploadHandler := NewUploadHandler(cfg.UploadService, cfg.Logger)
	configHandler := NewConfigHandler(cfg.PayPalClientID)

	r.Route("/api/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/", userHandler.Register)
		r.Post("/login", userHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authn)

			r.Get("/profile", userHandler.GetProfile)
			r.Put("/profile", userHandler.UpdateProfile)

			r.Group(func(r chi.Router) {
				r.Use(admin)

				r.Get("/", userHandler.List)
				r.Get("/{id}", userHandler.Get)
				r.Put("/{id}", userHandler.Update)
				r.Delete("/{id}", userHandler.Delete)
			})
		})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", productHandler.List)
		r.With(middleware.CacheControl(topProductsCacheSeconds)).Get("/top", productHandler.GetTop)
		r.Get("/{id}", productHandler.Get)

		r.With(authn).Post("/{id}/reviews", productHandler.CreateReview)

		r.Group(func(r chi.Router) {
			r.Use(authn, admin)

			r.Post("/", productHandler.Create)
			r.Put("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Delete)
		})
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authn)

		r.Post("/", orderHandler.Create)
		r.Get("/myorders", orderHandler.ListMine)
		r.Get("/{id}", orderHandler.Get)
		r.Put("/{id}/pay", orderHandler.Pay)

		r.Group(func(r chi.Router) {
			r.Use(admin)

			r.Get("/", orderHandler.ListAll)
			r.Put("/{id}/deliver", orderHandler.Deliver)
		})
	})

	// Multipart endpoint, deliberately outside the JSON content-type gate.
	r.With(authn, admin).Post("/api/upload", uploadHandler.Upload)

	r.Get("/api/config/paypal", configHandler.GetPayPalClientID)

	// Uploaded images are served straight off disk.
	if cfg.UploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
		r.Get("/uploads/*", func(w http.ResponseWriter, r *http.Request) {
			fs.ServeHTTP(w, r)
		})
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "NOT_FOUND",
				Message: fmt.Sprintf("Not Found - %s", r.URL.Path),
			},
		})
	})

	return r
}
