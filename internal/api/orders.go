package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/velora-shop/storefront-go/internal/domain/order"
)

// OrderItem is one line of an order submission.
type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrderRequest is the checkout payload.
type PlaceOrderRequest struct {
	Items           []OrderItem           `json:"items"`
	ShippingAddress order.ShippingAddress `json:"shippingAddress"`
}

// PlacedOrder pairs the created order record with the opaque payment-setup
// secret the payment provider's SDK needs to complete the charge.
type PlacedOrder struct {
	Order        order.Order `json:"order"`
	ClientSecret string      `json:"clientSecret"`
}

// PlaceOrder submits the cart as an order. The server creates both the
// order record and a payment intent; payment completion happens separately
// through the provider SDK using the returned client secret.
func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlacedOrder, error) {
	body, err := c.tr.Do(ctx, http.MethodPost, "/orders", nil, req)
	if err != nil {
		return nil, err
	}
	placed, err := decodeData[PlacedOrder](body)
	if err != nil {
		return nil, err
	}
	return &placed, nil
}

// ListOrders fetches the caller's orders (all orders for admins).
func (c *Client) ListOrders(ctx context.Context, page int) ([]order.Order, *Meta, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	body, err := c.tr.Do(ctx, http.MethodGet, "/orders", q, nil)
	if err != nil {
		return nil, nil, err
	}
	return decodePage[[]order.Order](body)
}

// GetOrder fetches a single order by id.
func (c *Client) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	body, err := c.tr.Do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, notFoundAs(err, order.ErrNotFound)
	}
	o, err := decodeData[order.Order](body)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CancelOrder cancels an order and returns the updated record.
func (c *Client) CancelOrder(ctx context.Context, id string) (*order.Order, error) {
	body, err := c.tr.Do(ctx, http.MethodPost, "/orders/"+url.PathEscape(id)+"/cancel", nil, nil)
	if err != nil {
		return nil, notFoundAs(err, order.ErrNotFound)
	}
	o, err := decodeData[order.Order](body)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateOrderStatus moves an order to a new lifecycle state (admin only)
// and returns the updated record.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status order.Status) (*order.Order, error) {
	body, err := c.tr.Do(ctx, http.MethodPatch, "/orders/"+url.PathEscape(id)+"/status", nil, map[string]string{
		"status": string(status),
	})
	if err != nil {
		return nil, notFoundAs(err, order.ErrNotFound)
	}
	o, err := decodeData[order.Order](body)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
