package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"newsfeed/internal/middleware"
	"newsfeed/internal/ratelimit"
	"newsfeed/internal/services/news"
)

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	// Timeout bounds each request; it must exceed the upstream timeout.
	Timeout time.Duration
	// Limiter enables per-IP rate limiting when set.
	Limiter *ratelimit.Limiter
	// TrustProxyHeaders takes the client address from X-Forwarded-For,
	// X-Real-IP or True-Client-IP. Enable only behind a proxy that sets them.
	TrustProxyHeaders bool
}

type Router struct {
	chi.Router
}

func NewRouter(opts RouterOptions) *Router {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	if opts.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Timeout(opts.Timeout))
	r.Use(middleware.CORSHeaders)

	// Preflights pass through so the route handlers answer them with 200.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:     []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:     []string{"X-Request-Id"},
		AllowCredentials:   false,
		OptionsPassthrough: true,
		MaxAge:             300,
	}))

	if opts.Limiter != nil {
		r.Use(middleware.RateLimit(opts.Limiter))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, news.ErrCodeNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", middleware.AllowedMethods)
		writeError(w, http.StatusMethodNotAllowed, news.ErrCodeMethodNotAllowed, "Method not allowed")
	})

	return &Router{r}
}

// RegisterNewsRoutes registers news-related routes
func (r *Router) RegisterNewsRoutes(newsHandler *NewsHandler) {
	newsHandler.RegisterRoutes(r)
}

// RegisterHealthRoutes registers health check routes. ready reports whether
// the proxy can serve; nil means always ready.
func (r *Router) RegisterHealthRoutes(ready func() error) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			if err := ready(); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
					"reason": err.Error(),
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "ready",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
}
