package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/example/ec-storefront/internal/api/middleware"
	"github.com/example/ec-storefront/internal/auth"
)

type RouterConfig struct {
	Handlers   *Handlers
	JWTService *auth.JWTService
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	authRequired := middleware.AuthMiddleware(cfg.JWTService)
	adminOnly := middleware.RequireRole("admin")

	// Cart
	mux.Handle("/cart", authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Handlers.GetCart(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/cart/items", authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			cfg.Handlers.AddToCart(w, r)
		case http.MethodPut:
			cfg.Handlers.UpdateCart(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Orders
	mux.Handle("/orders", authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Handlers.GetOrders(w, r)
		case http.MethodPost:
			cfg.Handlers.PlaceOrder(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/orders/verify", authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			cfg.Handlers.VerifyPayment(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/orders/", authRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/track") && r.Method == http.MethodPost:
			cfg.Handlers.TrackOrder(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Admin
	mux.Handle("/admin/orders", authRequired(adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Handlers.GetAllOrders(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))))

	mux.Handle("/admin/orders/status", authRequired(adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			cfg.Handlers.UpdateStatus(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))))

	return withLogging(mux)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
