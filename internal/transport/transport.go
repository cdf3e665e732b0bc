// Package transport implements the authenticated HTTP client the rest of
// the storefront talks through: base URL and timeout handling, bearer token
// injection, and transparent recovery from access token expiry via the
// refresh protocol in refresh.go.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/velora-shop/storefront-go/pkg/httpclient"
)

// Default request timeout when the config leaves it zero.
const defaultTimeout = 10 * time.Second

// Responses larger than this are truncated; the API serves paginated lists,
// nothing close to this size.
const maxResponseBytes = 4 << 20

// TokenSource is where the transport reads and writes credentials. It is
// backed by persistent storage, not by the session store: a silent refresh
// must survive even when no session store is watching.
type TokenSource interface {
	AccessToken() string
	RefreshToken() string
	SetPair(access, refresh string) error
	ClearSession()
}

// Config holds transport construction parameters.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.velora.shop/api".
	BaseURL string
	// Timeout bounds every request including the body read.
	Timeout time.Duration
	// UserAgent is sent on every request when non-empty.
	UserAgent string
	// TracerProvider enables OTel spans on outbound requests when set.
	TracerProvider trace.TracerProvider
	// Base replaces the underlying round tripper, for tests.
	Base http.RoundTripper
}

// Client is the storefront HTTP client.
type Client struct {
	base    *url.URL
	http    *http.Client
	tokens  TokenSource
	refresh singleflight.Group
}

// New builds a Client from cfg. The round tripper chain is request-ID
// tagging and request logging over an OTel-instrumented base transport.
func New(cfg Config, tokens TokenSource) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parse base URL")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("base URL %q has no scheme or host", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var otelOpts []otelhttp.Option
	if cfg.TracerProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithTracerProvider(cfg.TracerProvider))
	}

	headers := http.Header{"Accept": []string{"application/json"}}
	if cfg.UserAgent != "" {
		headers.Set("User-Agent", cfg.UserAgent)
	}

	rt := httpclient.Wrap(
		otelhttp.NewTransport(cfg.Base, otelOpts...),
		httpclient.RequestID(),
		httpclient.LogRequests(),
		httpclient.Headers(headers),
	)

	return &Client{
		base:   base,
		http:   &http.Client{Transport: rt, Timeout: timeout},
		tokens: tokens,
	}, nil
}

// attempt tracks where a request stands in the retry protocol. It is carried
// per call: a request is retried after a token refresh at most once, and the
// flag never leaks into shared state.
type attempt int

const (
	attemptFirst attempt = iota
	attemptRetried
)

// call is a single outbound request, reduced to re-sendable form: the body
// is pre-marshaled bytes so a retry reissues the identical payload.
type call struct {
	method  string
	path    string
	query   url.Values
	body    []byte
	public  bool
	attempt attempt
}

// Do issues an authenticated JSON request and returns the raw response body
// of a 2xx response. A 401 triggers the refresh protocol and a single retry.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	cl, err := newCall(method, path, query, body, false)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, cl)
}

// DoPublic issues a request without a bearer token and without the 401
// retry protocol. Auth endpoints use it: a 401 from login is a credential
// rejection, not an expired token.
func (c *Client) DoPublic(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	cl, err := newCall(method, path, query, body, true)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, cl)
}

func newCall(method, path string, query url.Values, body any, public bool) (call, error) {
	cl := call{method: method, path: path, query: query, public: public}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return call{}, errors.Wrap(err, "encode request body")
		}
		cl.body = b
	}
	return cl, nil
}

func (c *Client) do(ctx context.Context, cl call) ([]byte, error) {
	for {
		status, body, err := c.send(ctx, cl)
		if err != nil {
			return nil, err
		}

		if status == http.StatusUnauthorized && !cl.public {
			if cl.attempt == attemptRetried {
				// Second 401 for the same request: the refreshed token
				// was rejected too. Fail, never loop.
				return nil, newStatusError(status, body)
			}
			if err := c.refreshTokens(ctx); err != nil {
				return nil, err
			}
			cl.attempt = attemptRetried
			continue
		}

		if status < 200 || status >= 300 {
			return nil, newStatusError(status, body)
		}
		return body, nil
	}
}

// send performs one HTTP round trip and reads the body. Network-level
// failures come back as *UnreachableError.
func (c *Client) send(ctx context.Context, cl call) (int, []byte, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + cl.path
	if cl.query != nil {
		u.RawQuery = cl.query.Encode()
	}

	var rd io.Reader
	if cl.body != nil {
		rd = bytes.NewReader(cl.body)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), rd)
	if err != nil {
		return 0, nil, errors.Wrap(err, "build request")
	}
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !cl.public {
		if tok := c.tokens.AccessToken(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &UnreachableError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, &UnreachableError{Err: err}
	}
	return resp.StatusCode, body, nil
}

// newStatusError extracts the server's message from an envelope body when
// one is present.
func newStatusError(status int, body []byte) *StatusError {
	var env struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &env)
	return &StatusError{Code: status, Message: env.Message}
}
