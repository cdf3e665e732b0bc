// Package checkout orchestrates checkout and order management on top of the
// API client: placing an order, completing its payment, and applying status
// changes to the fetched order list in place.
package checkout

import (
	"context"
	"sync"

	"github.com/go-faster/errors"

	"github.com/velora-shop/storefront-go/internal/api"
	"github.com/velora-shop/storefront-go/internal/cart"
	"github.com/velora-shop/storefront-go/internal/domain/order"
	"github.com/velora-shop/storefront-go/internal/payment"
)

// ErrEmptyCart is returned when checkout is attempted with no items.
var ErrEmptyCart = errors.New("cart is empty")

// ErrNoPendingPayment is returned when ConfirmPayment is called without a
// placed order awaiting payment.
var ErrNoPendingPayment = errors.New("no payment pending")

// OrdersAPI is the slice of the API client the workflow needs.
type OrdersAPI interface {
	PlaceOrder(ctx context.Context, req api.PlaceOrderRequest) (*api.PlacedOrder, error)
	ListOrders(ctx context.Context, page int) ([]order.Order, *api.Meta, error)
	CancelOrder(ctx context.Context, id string) (*order.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status order.Status) (*order.Order, error)
}

// Workflow holds checkout state: the order just placed, its payment-setup
// secret until payment completes, and the fetched order list.
type Workflow struct {
	mu        sync.Mutex
	api       OrdersAPI
	confirmer payment.Confirmer

	current      *order.Order
	clientSecret string
	orders       []order.Order
	meta         *api.Meta
}

// NewWorkflow creates a Workflow over the given API and payment confirmer.
func NewWorkflow(ordersAPI OrdersAPI, confirmer payment.Confirmer) *Workflow {
	return &Workflow{api: ordersAPI, confirmer: confirmer}
}

// Current returns the most recently placed or selected order, if any.
func (w *Workflow) Current() *order.Order {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Orders returns a copy of the fetched order list.
func (w *Workflow) Orders() []order.Order {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]order.Order(nil), w.orders...)
}

// Meta returns the pagination block of the last FetchOrders, or nil before
// the first fetch.
func (w *Workflow) Meta() *api.Meta {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.meta
}

// PlaceOrder submits the cart as an order. On success the created order and
// its client secret are held until ConfirmPayment settles the charge.
func (w *Workflow) PlaceOrder(ctx context.Context, items []cart.Entry, shipping order.ShippingAddress) (*order.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	req := api.PlaceOrderRequest{
		Items:           make([]api.OrderItem, len(items)),
		ShippingAddress: shipping,
	}
	for i, it := range items {
		req.Items[i] = api.OrderItem{ProductID: it.Product.ID, Quantity: it.Quantity}
	}

	placed, err := w.api.PlaceOrder(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "place order")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	o := placed.Order
	w.current = &o
	w.clientSecret = placed.ClientSecret
	return &o, nil
}

// ConfirmPayment settles the pending order's charge through the payment
// provider. The client secret is dropped once the provider accepts it.
func (w *Workflow) ConfirmPayment(ctx context.Context) error {
	w.mu.Lock()
	secret := w.clientSecret
	w.mu.Unlock()

	if secret == "" {
		return ErrNoPendingPayment
	}
	if err := w.confirmer.Confirm(ctx, secret); err != nil {
		return errors.Wrap(err, "confirm payment")
	}

	w.mu.Lock()
	w.clientSecret = ""
	w.mu.Unlock()
	return nil
}

// FetchOrders refreshes the order list.
func (w *Workflow) FetchOrders(ctx context.Context, page int) ([]order.Order, error) {
	orders, meta, err := w.api.ListOrders(ctx, page)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.orders = orders
	w.meta = meta
	return append([]order.Order(nil), orders...), nil
}

// CancelOrder cancels the order and replaces the matching entry in the
// fetched list with the updated record.
func (w *Workflow) CancelOrder(ctx context.Context, id string) error {
	updated, err := w.api.CancelOrder(ctx, id)
	if err != nil {
		return err
	}
	w.replace(*updated)
	return nil
}

// ChangeStatus moves an order to a new lifecycle state (admin only) and
// replaces the matching entry in the fetched list.
func (w *Workflow) ChangeStatus(ctx context.Context, id string, status order.Status) error {
	if !status.Valid() {
		return errors.Errorf("unknown order status %q", status)
	}
	updated, err := w.api.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return err
	}
	w.replace(*updated)
	return nil
}

// replace swaps the list entry with the same id, and the current order when
// it matches. Orders not in the list are ignored: the list is a page, not
// the world.
func (w *Workflow) replace(updated order.Order) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range w.orders {
		if w.orders[i].ID == updated.ID {
			w.orders[i] = updated
			break
		}
	}
	if w.current != nil && w.current.ID == updated.ID {
		w.current = &updated
	}
}
