// Package api is the typed client for the storefront REST backend. It maps
// endpoints to methods, unwraps the {success, message, data, meta} envelope,
// and normalizes not-found responses to sentinel errors. Token handling
// lives a layer below, in the transport.
package api

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/velora-shop/storefront-go/internal/transport"
)

// ErrNotFound is returned when the server answers 404 for a looked-up
// resource. Callers render a not-found state rather than an error page.
var ErrNotFound = errors.New("not found")

// Client is the typed storefront API client.
type Client struct {
	tr *transport.Client
}

// New wraps the given transport.
func New(tr *transport.Client) *Client {
	return &Client{tr: tr}
}

// notFoundAs maps a 404 StatusError to sentinel and passes everything else
// through unchanged.
func notFoundAs(err error, sentinel error) error {
	if transport.IsStatus(err, http.StatusNotFound) {
		return sentinel
	}
	return err
}
