package transport

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
)

// ErrSessionExpired is returned when the refresh protocol cannot mint a new
// access token: there is no refresh token, or the refresh call itself was
// rejected. By the time a caller sees this error the local session slots
// have already been wiped; the only recovery is signing in again.
var ErrSessionExpired = errors.New("session expired")

// UnreachableError wraps a network-level failure: DNS, connection refused,
// timeout. No server response exists, so no server message exists either;
// callers show a configuration diagnostic instead.
type UnreachableError struct {
	Err error
}

func (e *UnreachableError) Error() string {
	return "cannot reach server: " + e.Err.Error()
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// StatusError is a non-2xx server response, carrying the server's message
// when the body held a parsable envelope.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// IsUnreachable reports whether err stems from a network-level failure
// rather than a server rejection.
func IsUnreachable(err error) bool {
	var ue *UnreachableError
	return errors.As(err, &ue)
}
