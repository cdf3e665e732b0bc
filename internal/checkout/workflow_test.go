package checkout

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-shop/storefront-go/internal/api"
	"github.com/velora-shop/storefront-go/internal/cart"
	"github.com/velora-shop/storefront-go/internal/domain/order"
	"github.com/velora-shop/storefront-go/internal/domain/product"
)

type mockOrdersAPI struct {
	placeFn  func(req api.PlaceOrderRequest) (*api.PlacedOrder, error)
	listFn   func(page int) ([]order.Order, *api.Meta, error)
	cancelFn func(id string) (*order.Order, error)
	statusFn func(id string, status order.Status) (*order.Order, error)

	statusCalls int
}

func (m *mockOrdersAPI) PlaceOrder(_ context.Context, req api.PlaceOrderRequest) (*api.PlacedOrder, error) {
	return m.placeFn(req)
}

func (m *mockOrdersAPI) ListOrders(_ context.Context, page int) ([]order.Order, *api.Meta, error) {
	return m.listFn(page)
}

func (m *mockOrdersAPI) CancelOrder(_ context.Context, id string) (*order.Order, error) {
	return m.cancelFn(id)
}

func (m *mockOrdersAPI) UpdateOrderStatus(_ context.Context, id string, status order.Status) (*order.Order, error) {
	m.statusCalls++
	return m.statusFn(id, status)
}

type stubConfirmer struct {
	err     error
	secrets []string
}

func (c *stubConfirmer) Confirm(_ context.Context, clientSecret string) error {
	c.secrets = append(c.secrets, clientSecret)
	return c.err
}

func cartLines() []cart.Entry {
	return []cart.Entry{
		{Product: product.Product{ID: "p1", Price: decimal.RequireFromString("10.00"), Stock: 5}, Quantity: 2},
		{Product: product.Product{ID: "p2", Price: decimal.RequireFromString("5.50"), Stock: 5}, Quantity: 1},
	}
}

func placedOrder(id string, status order.Status) order.Order {
	return order.Order{ID: id, Number: "VN-" + id, Status: status, Total: decimal.RequireFromString("25.50")}
}

func TestPlaceOrder(t *testing.T) {
	var gotReq api.PlaceOrderRequest
	mock := &mockOrdersAPI{placeFn: func(req api.PlaceOrderRequest) (*api.PlacedOrder, error) {
		gotReq = req
		return &api.PlacedOrder{Order: placedOrder("o1", order.StatusPending), ClientSecret: "pi_1_secret_abc"}, nil
	}}
	w := NewWorkflow(mock, &stubConfirmer{})

	o, err := w.PlaceOrder(context.Background(), cartLines(), order.ShippingAddress{City: "Lisbon"})
	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)
	assert.Equal(t, order.StatusPending, o.Status)

	require.Len(t, gotReq.Items, 2)
	assert.Equal(t, api.OrderItem{ProductID: "p1", Quantity: 2}, gotReq.Items[0])
	assert.Equal(t, "Lisbon", gotReq.ShippingAddress.City)

	require.NotNil(t, w.Current())
	assert.Equal(t, "o1", w.Current().ID)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	mock := &mockOrdersAPI{placeFn: func(api.PlaceOrderRequest) (*api.PlacedOrder, error) {
		t.Fatal("empty cart must not reach the API")
		return nil, nil
	}}
	w := NewWorkflow(mock, &stubConfirmer{})

	_, err := w.PlaceOrder(context.Background(), nil, order.ShippingAddress{})
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestConfirmPayment(t *testing.T) {
	mock := &mockOrdersAPI{placeFn: func(api.PlaceOrderRequest) (*api.PlacedOrder, error) {
		return &api.PlacedOrder{Order: placedOrder("o1", order.StatusPending), ClientSecret: "pi_1_secret_abc"}, nil
	}}
	confirmer := &stubConfirmer{}
	w := NewWorkflow(mock, confirmer)

	t.Run("without a placed order", func(t *testing.T) {
		require.ErrorIs(t, w.ConfirmPayment(context.Background()), ErrNoPendingPayment)
	})

	_, err := w.PlaceOrder(context.Background(), cartLines(), order.ShippingAddress{})
	require.NoError(t, err)

	t.Run("settles with the held secret", func(t *testing.T) {
		require.NoError(t, w.ConfirmPayment(context.Background()))
		require.Len(t, confirmer.secrets, 1)
		assert.Equal(t, "pi_1_secret_abc", confirmer.secrets[0])
	})

	t.Run("secret is single-use", func(t *testing.T) {
		require.ErrorIs(t, w.ConfirmPayment(context.Background()), ErrNoPendingPayment)
	})
}

func TestConfirmPayment_FailureKeepsSecret(t *testing.T) {
	mock := &mockOrdersAPI{placeFn: func(api.PlaceOrderRequest) (*api.PlacedOrder, error) {
		return &api.PlacedOrder{Order: placedOrder("o1", order.StatusPending), ClientSecret: "pi_1_secret_abc"}, nil
	}}
	confirmer := &stubConfirmer{err: errors.New("card declined")}
	w := NewWorkflow(mock, confirmer)

	_, err := w.PlaceOrder(context.Background(), cartLines(), order.ShippingAddress{})
	require.NoError(t, err)

	require.Error(t, w.ConfirmPayment(context.Background()))

	// A failed confirmation is retryable with the same secret.
	confirmer.err = nil
	require.NoError(t, w.ConfirmPayment(context.Background()))
	assert.Len(t, confirmer.secrets, 2)
}

func TestFetchOrders(t *testing.T) {
	mock := &mockOrdersAPI{listFn: func(page int) ([]order.Order, *api.Meta, error) {
		return []order.Order{placedOrder("o1", order.StatusPaid)}, &api.Meta{Page: page, Total: 1}, nil
	}}
	w := NewWorkflow(mock, &stubConfirmer{})

	assert.Nil(t, w.Meta(), "no meta before the first fetch")

	got, err := w.FetchOrders(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "o1", got[0].ID)
	assert.Len(t, w.Orders(), 1)

	require.NotNil(t, w.Meta())
	assert.Equal(t, 1, w.Meta().Page)
	assert.Equal(t, 1, w.Meta().Total)
}

func TestCancelOrder_ReplacesInPlace(t *testing.T) {
	mock := &mockOrdersAPI{
		listFn: func(int) ([]order.Order, *api.Meta, error) {
			return []order.Order{
				placedOrder("o1", order.StatusPending),
				placedOrder("o2", order.StatusPaid),
			}, &api.Meta{}, nil
		},
		cancelFn: func(id string) (*order.Order, error) {
			o := placedOrder(id, order.StatusCancelled)
			return &o, nil
		},
	}
	w := NewWorkflow(mock, &stubConfirmer{})
	_, err := w.FetchOrders(context.Background(), 1)
	require.NoError(t, err)

	require.NoError(t, w.CancelOrder(context.Background(), "o1"))

	got := w.Orders()
	require.Len(t, got, 2, "cancel updates in place, no reordering or removal")
	assert.Equal(t, "o1", got[0].ID)
	assert.Equal(t, order.StatusCancelled, got[0].Status)
	assert.Equal(t, order.StatusPaid, got[1].Status, "other orders untouched")
}

func TestChangeStatus(t *testing.T) {
	mock := &mockOrdersAPI{
		listFn: func(int) ([]order.Order, *api.Meta, error) {
			return []order.Order{placedOrder("o1", order.StatusPaid)}, &api.Meta{}, nil
		},
		statusFn: func(id string, status order.Status) (*order.Order, error) {
			o := placedOrder(id, status)
			return &o, nil
		},
	}
	w := NewWorkflow(mock, &stubConfirmer{})
	_, err := w.FetchOrders(context.Background(), 1)
	require.NoError(t, err)

	t.Run("invalid status rejected locally", func(t *testing.T) {
		require.Error(t, w.ChangeStatus(context.Background(), "o1", order.Status("teleported")))
		assert.Zero(t, mock.statusCalls)
	})

	t.Run("valid status applied to list", func(t *testing.T) {
		require.NoError(t, w.ChangeStatus(context.Background(), "o1", order.StatusShipped))
		assert.Equal(t, order.StatusShipped, w.Orders()[0].Status)
	})
}

func TestReplace_UpdatesCurrent(t *testing.T) {
	mock := &mockOrdersAPI{
		placeFn: func(api.PlaceOrderRequest) (*api.PlacedOrder, error) {
			return &api.PlacedOrder{Order: placedOrder("o1", order.StatusPending), ClientSecret: "pi_1_secret_x"}, nil
		},
		cancelFn: func(id string) (*order.Order, error) {
			o := placedOrder(id, order.StatusCancelled)
			return &o, nil
		},
	}
	w := NewWorkflow(mock, &stubConfirmer{})
	_, err := w.PlaceOrder(context.Background(), cartLines(), order.ShippingAddress{})
	require.NoError(t, err)

	require.NoError(t, w.CancelOrder(context.Background(), "o1"))
	require.NotNil(t, w.Current())
	assert.Equal(t, order.StatusCancelled, w.Current().Status)
}
