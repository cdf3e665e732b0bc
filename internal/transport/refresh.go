package transport

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// refreshPath is the token refresh endpoint, relative to the API base.
const refreshPath = "/auth/refresh"

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// refreshTokens exchanges the stored refresh token for a new token pair.
//
// Requests that hit a 401 concurrently all land here; the singleflight group
// guarantees at most one refresh call is in flight system-wide. Latecomers
// block until the in-flight refresh settles and share its outcome: on
// success they retry with the token the leader persisted, on failure they
// all get the same error.
//
// A failed refresh is unsalvageable, so the session slots (both tokens and
// the cached user) are wiped before returning; callers surface
// ErrSessionExpired as a forced sign-out.
func (c *Client) refreshTokens(ctx context.Context) error {
	_, err, _ := c.refresh.Do("refresh", func() (any, error) {
		lg := zctx.From(ctx)

		rt := c.tokens.RefreshToken()
		if rt == "" {
			c.tokens.ClearSession()
			return nil, ErrSessionExpired
		}

		body, err := c.DoPublic(ctx, http.MethodPost, refreshPath, nil, refreshRequest{RefreshToken: rt})
		if err != nil {
			lg.Info("Token refresh rejected, clearing session", zap.Error(err))
			c.tokens.ClearSession()
			return nil, errors.Wrap(ErrSessionExpired, err.Error())
		}

		var data refreshData
		if err := decodeRefreshData(body, &data); err != nil {
			c.tokens.ClearSession()
			return nil, errors.Wrap(err, "decode refresh response")
		}

		if err := c.tokens.SetPair(data.AccessToken, data.RefreshToken); err != nil {
			return nil, err
		}
		lg.Debug("Access token refreshed")
		return nil, nil
	})
	return err
}

// decodeRefreshData accepts both documented shapes of the refresh response:
// the standard envelope with the pair under data, and the bare pair.
func decodeRefreshData(body []byte, out *refreshData) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 {
		body = env.Data
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "parse tokens")
	}
	if out.AccessToken == "" || out.RefreshToken == "" {
		return errors.New("refresh response missing tokens")
	}
	return nil
}
