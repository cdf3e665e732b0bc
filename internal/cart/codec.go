package cart

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/velora-shop/storefront-go/internal/domain/product"
)

// encodeEntries serializes cart entries for the cart storage slot. Prices
// travel as strings to keep decimal exactness.
func encodeEntries(entries []Entry) string {
	var e jx.Encoder
	e.ArrStart()
	for _, en := range entries {
		e.ObjStart()
		e.FieldStart("product")
		encodeProduct(&e, en.Product)
		e.FieldStart("quantity")
		e.Int(en.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.String()
}

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.ObjStart()
	e.FieldStart("_id")
	e.Str(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("slug")
	e.Str(p.Slug)
	e.FieldStart("category")
	e.Str(string(p.Category))
	e.FieldStart("price")
	e.Str(p.Price.String())
	e.FieldStart("oldPrice")
	e.Str(p.OldPrice.String())
	e.FieldStart("discount")
	e.Int(p.Discount)
	e.FieldStart("stock")
	e.Int(p.Stock)
	e.FieldStart("images")
	e.ArrStart()
	for _, img := range p.Images {
		e.Str(img)
	}
	e.ArrEnd()
	e.FieldStart("isActive")
	e.Bool(p.Active)
	e.FieldStart("isFeatured")
	e.Bool(p.Featured)
	e.ObjEnd()
}

// decodeEntries parses the cart storage slot. A corrupt slot is an error;
// the store treats it as an empty cart and rewrites the slot.
func decodeEntries(raw string) ([]Entry, error) {
	var entries []Entry
	d := jx.DecodeStr(raw)
	err := d.Arr(func(d *jx.Decoder) error {
		var en Entry
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "product":
				p, err := decodeProduct(d)
				if err != nil {
					return err
				}
				en.Product = p
			case "quantity":
				v, err := d.Int()
				if err != nil {
					return err
				}
				en.Quantity = v
			default:
				return d.Skip()
			}
			return nil
		}); err != nil {
			return err
		}
		if en.Product.ID == "" || en.Quantity < 1 {
			return errors.New("malformed cart entry")
		}
		entries = append(entries, en)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode cart slot")
	}
	return entries, nil
}

func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "_id":
			v, err := d.Str()
			if err != nil {
				return err
			}
			p.ID = v
		case "name":
			v, err := d.Str()
			if err != nil {
				return err
			}
			p.Name = v
		case "slug":
			v, err := d.Str()
			if err != nil {
				return err
			}
			p.Slug = v
		case "category":
			v, err := d.Str()
			if err != nil {
				return err
			}
			p.Category = product.Category(v)
		case "price":
			v, err := d.Str()
			if err != nil {
				return err
			}
			dec, err := decimal.NewFromString(v)
			if err != nil {
				return errors.Wrap(err, "parse price")
			}
			p.Price = dec
		case "oldPrice":
			v, err := d.Str()
			if err != nil {
				return err
			}
			dec, err := decimal.NewFromString(v)
			if err != nil {
				return errors.Wrap(err, "parse old price")
			}
			p.OldPrice = dec
		case "discount":
			v, err := d.Int()
			if err != nil {
				return err
			}
			p.Discount = v
		case "stock":
			v, err := d.Int()
			if err != nil {
				return err
			}
			p.Stock = v
		case "images":
			return d.Arr(func(d *jx.Decoder) error {
				v, err := d.Str()
				if err != nil {
					return err
				}
				p.Images = append(p.Images, v)
				return nil
			})
		case "isActive":
			v, err := d.Bool()
			if err != nil {
				return err
			}
			p.Active = v
		case "isFeatured":
			v, err := d.Bool()
			if err != nil {
				return err
			}
			p.Featured = v
		default:
			return d.Skip()
		}
		return nil
	})
	return p, err
}
