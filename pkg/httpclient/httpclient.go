// Package httpclient provides composable http.RoundTripper middleware for
// outbound API requests: request identifiers, structured request logging,
// and static header decoration.
package httpclient

import "net/http"

// Middleware wraps an http.RoundTripper with additional behaviour.
type Middleware func(http.RoundTripper) http.RoundTripper

// roundTripperFunc adapts a function to the http.RoundTripper interface.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Wrap applies middlewares to rt so that the first middleware in the list is
// the outermost: Wrap(rt, a, b) runs a, then b, then rt.
func Wrap(rt http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}
	return rt
}

// Headers returns a middleware that sets static headers on every outgoing
// request unless the request already carries them.
func Headers(h http.Header) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			// Round trippers must not mutate the caller's request.
			r = r.Clone(r.Context())
			for k, vs := range h {
				if r.Header.Get(k) != "" {
					continue
				}
				for _, v := range vs {
					r.Header.Add(k, v)
				}
			}
			return next.RoundTrip(r)
		})
	}
}
