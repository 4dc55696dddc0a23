package handler

import (
	"net/http"

	"sudhamrit-be/internal/auth"
	"sudhamrit-be/internal/logger"
	"sudhamrit-be/internal/metrics"
	mw "sudhamrit-be/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	Tokens     *auth.TokenManager
	Limiter    *mw.RateLimiter
	Webhook    http.HandlerFunc
	CORSOrigin string
	ImageDir   string
}

func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(metrics.Middleware)
	r.Use(mw.CORS(cfg.CORSOrigin))
	r.Use(mw.Authenticate(cfg.Tokens))
	if cfg.Limiter != nil {
		r.Use(cfg.Limiter.Middleware)
	}

	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.Handler())
	if cfg.ImageDir != "" {
		r.Handle("/static/images/*", http.StripPrefix("/static/images/", http.FileServer(http.Dir(cfg.ImageDir))))
	}

	// Session
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)

	// Catalog
	r.Get("/products", h.ListProducts)
	r.Get("/products/{id}", h.GetProduct)
	r.Get("/categories", h.ListCategories)

	// Payment gateway callbacks authenticate by signature.
	if cfg.Webhook != nil {
		r.Post("/webhooks/razorpay", cfg.Webhook)
	}

	// The quantity widget expects its own error body, so it checks the session itself.
	r.Post("/cart/update", h.UpdateCart)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireCustomer)

		r.Get("/cart", h.ViewCart)
		r.Post("/cart/items/{productID}", h.AddToCart)
		r.Post("/cart/items/{productID}/remove", h.RemoveFromCart)

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/initiate", h.InitiateCheckout)
			r.Post("/confirm", h.ConfirmCheckout)
			r.Post("/offline", h.ConfirmOffline)
			r.Get("/failed", h.CheckoutFailed)
		})

		r.Get("/orders", h.ListOrders)
		r.Get("/orders/{id}", h.GetOrder)

		r.Get("/locations", h.ListLocations)
		r.Post("/locations", h.SaveLocation)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/register", h.AdminRegister)
		r.Post("/login", h.AdminLogin)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAdmin)

			r.Get("/dashboard", h.Dashboard)

			r.Get("/products", h.AdminListProducts)
			r.Post("/products", h.CreateProduct)
			r.Post("/products/{id}", h.UpdateProduct)
			r.Post("/products/{id}/delete", h.DeleteProduct)
			r.Delete("/products/{id}/delete", h.DeleteProduct)

			r.Get("/orders", h.AdminListOrders)
			r.Post("/orders/{id}/deliver", h.MarkDelivered)
		})
	})

	return r
}
