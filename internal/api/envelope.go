package api

import (
	"encoding/json"

	"github.com/go-faster/errors"
)

// Meta is the pagination block attached to list responses.
type Meta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// envelope is the uniform response wrapper every endpoint uses:
// {success, message, data?, meta?}.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    *Meta           `json:"meta"`
}

// decodeData unwraps the envelope and decodes its data field into T.
func decodeData[T any](body []byte) (T, error) {
	v, _, err := decodePage[T](body)
	return v, err
}

// decodePage unwraps the envelope, decodes data into T, and returns the
// pagination meta when the response carried one.
func decodePage[T any](body []byte) (T, *Meta, error) {
	var out T

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return out, nil, errors.Wrap(err, "decode envelope")
	}
	if !env.Success {
		return out, nil, errors.Errorf("server reported failure: %s", env.Message)
	}
	if len(env.Data) == 0 {
		return out, env.Meta, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, nil, errors.Wrap(err, "decode data")
	}
	return out, env.Meta, nil
}
