package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/velora-shop/storefront-go/internal/domain/product"
)

// ProductQuery selects a catalogue page. Zero values are omitted from the
// request so the server applies its own defaults.
type ProductQuery struct {
	Page     int
	Limit    int
	Category product.Category
	Search   string
	Featured bool
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Category != "" {
		v.Set("category", string(q.Category))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Featured {
		v.Set("featured", "true")
	}
	return v
}

// ListProducts fetches one catalogue page.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]product.Product, *Meta, error) {
	body, err := c.tr.Do(ctx, http.MethodGet, "/products", q.values(), nil)
	if err != nil {
		return nil, nil, err
	}
	return decodePage[[]product.Product](body)
}

// GetProduct fetches a single product by id. Missing products surface as
// product.ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	body, err := c.tr.Do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, notFoundAs(err, product.ErrNotFound)
	}
	p, err := decodeData[product.Product](body)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct adds a catalogue item (admin only).
func (c *Client) CreateProduct(ctx context.Context, p product.Product) (*product.Product, error) {
	body, err := c.tr.Do(ctx, http.MethodPost, "/products", nil, p)
	if err != nil {
		return nil, err
	}
	created, err := decodeData[product.Product](body)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct patches a catalogue item (admin only). Fields holds only
// the attributes to change.
func (c *Client) UpdateProduct(ctx context.Context, id string, fields map[string]any) (*product.Product, error) {
	body, err := c.tr.Do(ctx, http.MethodPatch, "/products/"+url.PathEscape(id), nil, fields)
	if err != nil {
		return nil, notFoundAs(err, product.ErrNotFound)
	}
	updated, err := decodeData[product.Product](body)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes a catalogue item (admin only).
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	_, err := c.tr.Do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
	return notFoundAs(err, product.ErrNotFound)
}
