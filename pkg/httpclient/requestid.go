package httpclient

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID returns a middleware that tags every outgoing request with an
// X-Request-ID header so client and server logs can be correlated. A valid
// ID already set by the caller is kept; anything else is replaced with a
// fresh UUID v4. Valid means at most 128 bytes of printable ASCII
// (0x20–0x7E).
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if !isValidRequestID(r.Header.Get("X-Request-ID")) {
				// Round trippers must not mutate the caller's request.
				r = r.Clone(r.Context())
				r.Header.Set("X-Request-ID", uuid.New().String())
			}
			return next.RoundTrip(r)
		})
	}
}

// isValidRequestID checks that id is non-empty, at most 128 bytes, and
// contains only printable ASCII (0x20–0x7E).
func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > 128 {
		return false
	}
	for i := range len(id) {
		if id[i] < 0x20 || id[i] > 0x7E {
			return false
		}
	}
	return true
}
