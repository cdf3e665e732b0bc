// Package session holds the authenticated-user state: the cached profile,
// the access token, and the operations that change them. The store never
// verifies a cached session over the network: an eager verify call could
// wipe a freshly written session before anything reads it, so verification
// is deferred entirely to the refresh protocol reacting to a future 401.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/velora-shop/storefront-go/internal/api"
	"github.com/velora-shop/storefront-go/internal/domain/user"
	"github.com/velora-shop/storefront-go/internal/storage"
	"github.com/velora-shop/storefront-go/internal/transport"
)

// msgUnreachable is shown instead of a server message when no server
// message exists.
const msgUnreachable = "cannot reach server; check the API base URL configuration"

// minPasswordLen is enforced client-side before registration is sent.
const minPasswordLen = 8

// AuthAPI is the slice of the API client the session store needs.
type AuthAPI interface {
	Login(ctx context.Context, creds api.Credentials) (*api.AuthSession, error)
	Register(ctx context.Context, reg api.Registration) (*api.AuthSession, error)
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

// State is a session snapshot. User and AccessToken are set together or not
// at all; Initialized flips to true after the first hydration attempt and
// never back.
type State struct {
	User        *user.User
	AccessToken string
	Loading     bool
	Err         string
	Initialized bool
}

// SignedIn reports whether a user is authenticated.
func (s State) SignedIn() bool {
	return s.User != nil
}

// Store is the session state store. Construct one per process (or per test)
// and share it by reference.
type Store struct {
	mu      sync.Mutex
	storage storage.Storage
	tokens  *storage.Tokens
	api     AuthAPI
	state   State
}

// New creates a signed-out, uninitialized Store over the given storage.
func New(s storage.Storage, authAPI AuthAPI) *Store {
	return &Store{
		storage: s,
		tokens:  storage.NewTokens(s),
		api:     authAPI,
	}
}

// Current returns a snapshot of the session state.
func (s *Store) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ClearError resets the error field only.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = ""
}

// Initialize hydrates the session from storage exactly once. A complete,
// parsable session slot populates the state; anything else (absence or
// corruption) wipes the slots and leaves the state signed out. No network
// call is made in either case. Repeat calls are no-ops.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Initialized {
		return
	}
	s.state.Initialized = true

	token, okToken := s.storage.Get(storage.KeyAccessToken)
	rawUser, okUser := s.storage.Get(storage.KeyUser)
	if !okToken || !okUser || token == "" {
		s.tokens.ClearSession()
		return
	}

	u, err := decodeUser(rawUser)
	if err != nil {
		// Corrupt slot: silently recover as "no session".
		zctx.From(ctx).Warn("Discarding corrupt session slot", zap.Error(err))
		s.tokens.ClearSession()
		return
	}

	s.state.User = &u
	s.state.AccessToken = token
}

// Login authenticates and persists the session. On failure any stale
// session is wiped from storage and state, so a previously cached user is
// never left dangling behind a rejected login.
func (s *Store) Login(ctx context.Context, creds api.Credentials) error {
	s.setLoading()

	sess, err := s.api.Login(ctx, creds)
	if err != nil {
		s.failAuth(err)
		return err
	}
	return s.commitAuth(sess)
}

// Register creates an account. The cheap checks (password confirmation,
// minimum length) run client-side before any request is sent; everything
// else is the server's call.
func (s *Store) Register(ctx context.Context, reg api.Registration, passwordConfirm string) error {
	if err := validateRegistration(reg, passwordConfirm); err != nil {
		s.mu.Lock()
		s.state.Err = err.Error()
		s.mu.Unlock()
		return err
	}

	s.setLoading()

	sess, err := s.api.Register(ctx, reg)
	if err != nil {
		s.failAuth(err)
		return err
	}
	return s.commitAuth(sess)
}

// Logout tells the server best-effort and cleans up locally regardless:
// a dead server must not trap the user in a signed-in state.
func (s *Store) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		zctx.From(ctx).Debug("Server logout failed, clearing locally", zap.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens.ClearSession()
	s.state.User = nil
	s.state.AccessToken = ""
	s.state.Err = ""
	s.state.Loading = false
}

// ForgotPassword requests a reset mail. State is untouched besides the
// error field.
func (s *Store) ForgotPassword(ctx context.Context, email string) error {
	err := s.api.ForgotPassword(ctx, email)
	s.mu.Lock()
	s.state.Err = userMessage(err)
	s.mu.Unlock()
	return err
}

// ResetPassword completes a mailed password reset.
func (s *Store) ResetPassword(ctx context.Context, token, password, passwordConfirm string) error {
	if err := validatePassword(password, passwordConfirm); err != nil {
		s.mu.Lock()
		s.state.Err = err.Error()
		s.mu.Unlock()
		return err
	}
	err := s.api.ResetPassword(ctx, token, password)
	s.mu.Lock()
	s.state.Err = userMessage(err)
	s.mu.Unlock()
	return err
}

// TokenExpiry reports when the current access token expires, from its
// unverified claims. Display only: the client never validates signatures,
// the server does.
func (s *Store) TokenExpiry() (time.Time, bool) {
	s.mu.Lock()
	raw := s.state.AccessToken
	s.mu.Unlock()
	if raw == "" {
		return time.Time{}, false
	}

	tok, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := tok.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *Store) setLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
	s.state.Err = ""
}

// commitAuth persists and applies a fresh session atomically with respect
// to the store lock: user and token are set together.
func (s *Store) commitAuth(sess *api.AuthSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false

	if err := s.tokens.SetPair(sess.AccessToken, sess.RefreshToken); err != nil {
		s.state.Err = err.Error()
		return err
	}
	if err := s.storage.Set(storage.KeyUser, encodeUser(sess.User)); err != nil {
		s.state.Err = err.Error()
		return err
	}

	u := sess.User
	s.state.User = &u
	s.state.AccessToken = sess.AccessToken
	s.state.Err = ""
	return nil
}

// failAuth wipes any stale session and surfaces a user-facing message.
func (s *Store) failAuth(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens.ClearSession()
	s.state.User = nil
	s.state.AccessToken = ""
	s.state.Loading = false
	s.state.Err = userMessage(err)
}

// userMessage maps an operation error to what the UI shows. Network-level
// failures get the configuration diagnostic since no server message exists.
func userMessage(err error) string {
	if err == nil {
		return ""
	}
	if transport.IsUnreachable(err) {
		return msgUnreachable
	}
	var se *transport.StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return err.Error()
}

func validateRegistration(reg api.Registration, passwordConfirm string) error {
	if reg.Name == "" {
		return errors.New("name is required")
	}
	if reg.Email == "" {
		return errors.New("email is required")
	}
	return validatePassword(reg.Password, passwordConfirm)
}

func validatePassword(password, confirm string) error {
	if len(password) < minPasswordLen {
		return errors.Errorf("password must be at least %d characters", minPasswordLen)
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}
	return nil
}
