package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cycle-kart/internal/catalog"
	"cycle-kart/internal/handler"
	"cycle-kart/internal/repository"
	"cycle-kart/internal/service"
	"cycle-kart/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zerolog.Nop()

	cat, err := catalog.New(catalog.DefaultProducts())
	require.NoError(t, err)
	sessions := repository.NewMemorySessionRepository(time.Hour, logger)

	catalogService := service.NewCatalogService(cat, logger)
	cartService := service.NewCartService(cat, sessions, logger)
	orderService := service.NewOrderService(cat, sessions, nil, logger)
	flashService := service.NewFlashService(sessions, logger)

	manager := session.NewManager("secret", session.Options{CookieName: "cyclekart_session", TTL: time.Hour}, logger)

	return New(
		handler.NewStoreHandler(catalogService, cartService, flashService, logger),
		handler.NewCartHandler(cartService, flashService, logger),
		handler.NewOrderHandler(orderService, flashService, logger),
		manager,
		logger,
	)
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		method         string
		path           string
		expectedStatus int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/product/1", http.StatusOK},
		{http.MethodGet, "/product/99", http.StatusSeeOther},
		{http.MethodGet, "/cart", http.StatusOK},
		{http.MethodPost, "/cart/add/1", http.StatusSeeOther},
		{http.MethodPost, "/cart/update/1", http.StatusSeeOther},
		{http.MethodGet, "/cart/remove/1", http.StatusSeeOther},
		{http.MethodGet, "/checkout", http.StatusSeeOther},
		{http.MethodPost, "/order", http.StatusSeeOther},
		{http.MethodGet, "/cart/add/1", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nowhere", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRouter_IssuesSessionCookie(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "cyclekart_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}
