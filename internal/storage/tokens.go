package storage

import "github.com/go-faster/errors"

// Tokens is a thin accessor over the session credential slots. It is what
// the HTTP transport reads the bearer token through and writes refreshed
// token pairs through, bypassing the session store on purpose: the store's
// in-memory copy of the access token may lag a silent refresh, which is an
// accepted staleness window.
type Tokens struct {
	s Storage
}

// NewTokens wraps the given Storage.
func NewTokens(s Storage) *Tokens {
	return &Tokens{s: s}
}

// AccessToken returns the stored access token, or "" when signed out.
func (t *Tokens) AccessToken() string {
	v, _ := t.s.Get(KeyAccessToken)
	return v
}

// RefreshToken returns the stored refresh token, or "" when signed out.
func (t *Tokens) RefreshToken() string {
	v, _ := t.s.Get(KeyRefreshToken)
	return v
}

// SetPair persists a new access/refresh token pair. Both are written or
// neither: a half-written pair would strand the next refresh.
func (t *Tokens) SetPair(access, refresh string) error {
	if err := t.s.Set(KeyAccessToken, access); err != nil {
		return errors.Wrap(err, "persist access token")
	}
	if err := t.s.Set(KeyRefreshToken, refresh); err != nil {
		return errors.Wrap(err, "persist refresh token")
	}
	return nil
}

// ClearSession removes every session slot: both tokens and the cached user
// profile. Used on forced sign-out when a refresh fails.
func (t *Tokens) ClearSession() {
	_ = t.s.Remove(KeyAccessToken)
	_ = t.s.Remove(KeyRefreshToken)
	_ = t.s.Remove(KeyUser)
}
