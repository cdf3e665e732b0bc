package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-shop/storefront-go/internal/domain/order"
	"github.com/velora-shop/storefront-go/internal/domain/product"
	"github.com/velora-shop/storefront-go/internal/storage"
	"github.com/velora-shop/storefront-go/internal/transport"
)

func newTestAPI(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := storage.NewMemory()
	require.NoError(t, store.Set(storage.KeyAccessToken, "tok"))
	require.NoError(t, store.Set(storage.KeyRefreshToken, "ref"))

	tr, err := transport.New(transport.Config{BaseURL: srv.URL}, storage.NewTokens(store))
	require.NoError(t, err)
	return New(tr)
}

func mustParseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	q, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return q
}

func respond(t *testing.T, w http.ResponseWriter, status int, payload string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write([]byte(payload))
	require.NoError(t, err)
}

func TestListProducts(t *testing.T) {
	var gotQuery string
	c := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		gotQuery = r.URL.RawQuery
		respond(t, w, http.StatusOK, `{
			"success": true,
			"data": [
				{"_id":"p1","name":"Arc Lamp","category":"lighting","price":49.9,"stock":3},
				{"_id":"p2","name":"Oak Chair","category":"furniture","price":120,"stock":10}
			],
			"meta": {"total":12,"page":2,"limit":2,"totalPages":6}
		}`)
	}))

	items, meta, err := c.ListProducts(context.Background(), ProductQuery{
		Page: 2, Limit: 2, Category: product.CategoryLighting, Search: "lamp",
	})
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, product.CategoryLighting, items[0].Category)
	assert.Equal(t, "49.9", items[0].Price.String())
	assert.Equal(t, 3, items[0].Stock)

	require.NotNil(t, meta)
	assert.Equal(t, 12, meta.Total)
	assert.Equal(t, 6, meta.TotalPages)

	q := mustParseQuery(t, gotQuery)
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "lighting", q.Get("category"))
	assert.Equal(t, "lamp", q.Get("search"))
	assert.Empty(t, q.Get("featured"), "zero values stay out of the query")
}

func TestGetProduct_NotFound(t *testing.T) {
	c := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, http.StatusNotFound, `{"success":false,"message":"product not found"}`)
	}))

	_, err := c.GetProduct(context.Background(), "ghost")
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestGetProduct_EscapesID(t *testing.T) {
	var gotPath string
	c := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		respond(t, w, http.StatusOK, `{"success":true,"data":{"_id":"a/b","name":"X"}}`)
	}))

	_, err := c.GetProduct(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/products/a%2Fb", gotPath)
}

func TestLogin(t *testing.T) {
	c := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "login goes out without a bearer token")

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "ada@example.com", creds.Email)

		respond(t, w, http.StatusOK, `{
			"success": true,
			"data": {
				"user": {"_id":"u1","name":"Ada","email":"ada@example.com","role":"customer"},
				"accessToken": "tok-1",
				"refreshToken": "ref-1"
			}
		}`)
	}))

	sess, err := c.Login(context.Background(), Credentials{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.User.ID)
	assert.Equal(t, "tok-1", sess.AccessToken)
	assert.Equal(t, "ref-1", sess.RefreshToken)
}

func TestPlaceOrder(t *testing.T) {
	c := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)

		var req PlaceOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Items, 1)
		assert.Equal(t, "p1", req.Items[0].ProductID)

		respond(t, w, http.StatusCreated, `{
			"success": true,
			"data": {
				"order": {"_id":"o1","orderNumber":"VN-1001","status":"pending","total":99.8},
				"clientSecret": "pi_1_secret_abc"
			}
		}`)
	}))

	placed, err := c.PlaceOrder(context.Background(), PlaceOrderRequest{
		Items:           []OrderItem{{ProductID: "p1", Quantity: 2}},
		ShippingAddress: order.ShippingAddress{City: "Lisbon"},
	})
	require.NoError(t, err)
	assert.Equal(t, "o1", placed.Order.ID)
	assert.Equal(t, order.StatusPending, placed.Order.Status)
	assert.Equal(t, "pi_1_secret_abc", placed.ClientSecret)
}

func TestCancelOrder(t *testing.T) {
	c := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders/o1/cancel", r.URL.Path)
		respond(t, w, http.StatusOK, `{"success":true,"data":{"_id":"o1","status":"cancelled"}}`)
	}))

	o, err := c.CancelOrder(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, o.Status)
}

func TestUpdateOrderStatus(t *testing.T) {
	c := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/orders/o1/status", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "shipped", req["status"])

		respond(t, w, http.StatusOK, `{"success":true,"data":{"_id":"o1","status":"shipped"}}`)
	}))

	o, err := c.UpdateOrderStatus(context.Background(), "o1", order.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, o.Status)
}

func TestDecodePage_FailureEnvelope(t *testing.T) {
	_, _, err := decodePage[[]product.Product]([]byte(`{"success":false,"message":"index rebuild in progress"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index rebuild in progress")
}

func TestDecodeData_EmptyData(t *testing.T) {
	v, err := decodeData[[]product.Product]([]byte(`{"success":true,"message":"ok"}`))
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestSubmitContact_Validation(t *testing.T) {
	c := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid messages must not be sent")
	}))

	err := c.SubmitContact(context.Background(), ContactMessage{Name: "Ada", Email: "a@b.c", Message: "hi"})
	require.Error(t, err, "message below minimum length")

	err = c.SubmitContact(context.Background(), ContactMessage{Email: "a@b.c", Message: "long enough message"})
	require.Error(t, err, "name required")
}
