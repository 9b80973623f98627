package router

import (
	"net/http"

	"cycle-kart/internal/handler"
	"cycle-kart/internal/middleware"
	"cycle-kart/internal/session"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	storeHandler *handler.StoreHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	sessions *session.Manager,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /{$}", storeHandler.Index)
	mux.HandleFunc("GET /product/{id}", storeHandler.Product)

	mux.HandleFunc("GET /cart", cartHandler.View)
	mux.HandleFunc("POST /cart/add/{id}", cartHandler.Add)
	mux.HandleFunc("POST /cart/update/{id}", cartHandler.Update)
	mux.HandleFunc("GET /cart/remove/{id}", cartHandler.Remove)

	mux.HandleFunc("GET /checkout", orderHandler.Checkout)
	mux.HandleFunc("POST /order", orderHandler.Place)

	// Apply middleware in order: Recovery -> Session -> Logging -> Metrics
	var handler http.Handler = mux
	handler = middleware.Metrics(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Session(sessions, logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
