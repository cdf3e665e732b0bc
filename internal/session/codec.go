package session

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/velora-shop/storefront-go/internal/domain/user"
)

// encodeUser serializes the profile for the user storage slot.
func encodeUser(u user.User) string {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("_id")
	e.Str(u.ID)
	e.FieldStart("name")
	e.Str(u.Name)
	e.FieldStart("email")
	e.Str(u.Email)
	e.FieldStart("role")
	e.Str(string(u.Role))
	e.ObjEnd()
	return e.String()
}

// decodeUser parses the user storage slot. Any malformed input is an error;
// the caller treats a corrupt slot as "no session" and wipes it.
func decodeUser(raw string) (user.User, error) {
	var u user.User
	d := jx.DecodeStr(raw)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "_id":
			v, err := d.Str()
			if err != nil {
				return err
			}
			u.ID = v
		case "name":
			v, err := d.Str()
			if err != nil {
				return err
			}
			u.Name = v
		case "email":
			v, err := d.Str()
			if err != nil {
				return err
			}
			u.Email = v
		case "role":
			v, err := d.Str()
			if err != nil {
				return err
			}
			u.Role = user.Role(v)
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return user.User{}, errors.Wrap(err, "decode user slot")
	}
	if u.ID == "" {
		return user.User{}, errors.New("user slot missing id")
	}
	return u, nil
}
