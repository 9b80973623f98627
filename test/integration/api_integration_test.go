package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"cycle-kart/internal/catalog"
	"cycle-kart/internal/handler"
	"cycle-kart/internal/model"
	"cycle-kart/internal/repository"
	"cycle-kart/internal/router"
	"cycle-kart/internal/service"
	"cycle-kart/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, testDB *TestDB, confirmer service.OrderConfirmer) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()
	ctx := context.Background()

	products, err := repository.NewProductRepository(testDB.Pool, logger).GetAll(ctx)
	require.NoError(t, err)
	cat, err := catalog.New(products)
	require.NoError(t, err)

	sessions := repository.NewPostgresSessionRepository(testDB.Pool, time.Hour, logger)

	catalogService := service.NewCatalogService(cat, logger)
	cartService := service.NewCartService(cat, sessions, logger)
	orderService := service.NewOrderService(cat, sessions, confirmer, logger)
	flashService := service.NewFlashService(sessions, logger)

	manager := session.NewManager("integration-secret", session.Options{
		CookieName: "cyclekart_session",
		TTL:        time.Hour,
	}, logger)

	srv := httptest.NewServer(router.New(
		handler.NewStoreHandler(catalogService, cartService, flashService, logger),
		handler.NewCartHandler(cartService, flashService, logger),
		handler.NewOrderHandler(orderService, flashService, logger),
		manager,
		logger,
	))
	t.Cleanup(srv.Close)
	return srv
}

// newClient returns a client that keeps the session cookie and follows
// redirects, as a browser would.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

func getJSON(t *testing.T, client *http.Client, target string, v any) *http.Response {
	t.Helper()
	resp, err := client.Get(target)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values, v any) *http.Response {
	t.Helper()
	resp, err := client.Post(target, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

func TestStorefront_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	CleanupDB(t, testDB.Pool)
	SeedProducts(t, testDB.Pool)

	srv := setupTestServer(t, testDB, nil)

	t.Run("home lists the catalogue", func(t *testing.T) {
		client := newClient(t)

		var page model.StoreView
		resp := getJSON(t, client, srv.URL+"/", &page)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, page.Products, 6)
		assert.Equal(t, 0, page.CartCount)
	})

	t.Run("cart flow", func(t *testing.T) {
		client := newClient(t)

		// Add 5 -> redirected home with a success notification.
		var home model.StoreView
		resp := postForm(t, client, srv.URL+"/cart/add/3", url.Values{"quantity": {"5"}}, &home)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "/", resp.Request.URL.Path)
		assert.Equal(t, 5, home.CartCount)
		assert.Equal(t, []model.Notification{model.SuccessNotification("Road Racer Elite added to cart!")}, home.Notifications)

		// Notifications are shown once.
		home = model.StoreView{}
		getJSON(t, client, srv.URL+"/", &home)
		assert.Empty(t, home.Notifications)

		// Add 6 more -> back to the product page with the stock error.
		var product model.ProductView
		resp = postForm(t, client, srv.URL+"/cart/add/3", url.Values{"quantity": {"6"}}, &product)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "/product/3", resp.Request.URL.Path)
		assert.Equal(t, 5, product.CartCount)
		assert.Equal(t, []model.Notification{model.ErrorNotification("Sorry, only 10 items available in stock.")}, product.Notifications)

		// Update to 10 -> cart page total 8999.90.
		var cart map[string]any
		resp = postForm(t, client, srv.URL+"/cart/update/3", url.Values{"quantity": {"10"}}, &cart)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "/cart", resp.Request.URL.Path)
		assert.Equal(t, "8999.9", cart["total"])
		assert.EqualValues(t, 10, cart["cartCount"])

		// Remove -> empty cart.
		cart = nil
		resp = getJSON(t, client, srv.URL+"/cart/remove/3", &cart)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 0, cart["cartCount"])
	})

	t.Run("checkout and order", func(t *testing.T) {
		client := newClient(t)

		// Checkout with an empty cart goes home.
		var home model.StoreView
		resp := getJSON(t, client, srv.URL+"/checkout", &home)
		assert.Equal(t, "/", resp.Request.URL.Path)
		assert.Equal(t, []model.Notification{model.ErrorNotification("Your cart is empty!")}, home.Notifications)

		postForm(t, client, srv.URL+"/cart/add/1", url.Values{"quantity": {"2"}}, nil)

		var checkout map[string]any
		resp = getJSON(t, client, srv.URL+"/checkout", &checkout)
		assert.Equal(t, "/checkout", resp.Request.URL.Path)
		assert.Equal(t, "1199.98", checkout["total"])

		home = model.StoreView{}
		resp = postForm(t, client, srv.URL+"/order", url.Values{}, &home)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "/", resp.Request.URL.Path)
		assert.Equal(t, 0, home.CartCount)
		assert.Equal(t, []model.Notification{
			model.SuccessNotification("Order placed successfully! Thank you for your purchase."),
		}, home.Notifications)
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		alice := newClient(t)
		bob := newClient(t)

		postForm(t, alice, srv.URL+"/cart/add/2", url.Values{"quantity": {"1"}}, nil)

		var page model.StoreView
		getJSON(t, bob, srv.URL+"/", &page)
		assert.Equal(t, 0, page.CartCount)
	})

	t.Run("health", func(t *testing.T) {
		resp := getJSON(t, newClient(t), srv.URL+"/health", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestOrderRejection_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	SeedProducts(t, testDB.Pool)

	declined := service.ConfirmerFunc(func(context.Context, model.OrderDraft) error {
		return model.NewOrderRejectedError("payment declined")
	})
	srv := setupTestServer(t, testDB, declined)
	client := newClient(t)

	postForm(t, client, srv.URL+"/cart/add/5", url.Values{"quantity": {"1"}}, nil)

	var checkout map[string]any
	resp := postForm(t, client, srv.URL+"/order", url.Values{}, &checkout)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/checkout", resp.Request.URL.Path)
	assert.EqualValues(t, 1, checkout["cartCount"])

	notifications, ok := checkout["notifications"].([]any)
	require.True(t, ok)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Your order could not be placed: payment declined", notifications[0].(map[string]any)["message"])
}
