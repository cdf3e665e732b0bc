package product

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Category is the fixed set of catalogue categories the backend recognises.
type Category string

const (
	CategoryFurniture   Category = "furniture"
	CategoryLighting    Category = "lighting"
	CategoryDecor       Category = "decor"
	CategoryTextiles    Category = "textiles"
	CategoryKitchen     Category = "kitchen"
	CategoryOutdoor     Category = "outdoor"
	CategoryAccessories Category = "accessories"
)

// Product is a read-only catalogue item snapshot as served by the backend.
// The client never mutates products; cart entries hold a copy taken at
// add-time.
type Product struct {
	ID       string          `json:"_id"`
	Name     string          `json:"name"`
	Slug     string          `json:"slug"`
	Category Category        `json:"category"`
	Price    decimal.Decimal `json:"price"`
	OldPrice decimal.Decimal `json:"oldPrice"`
	Discount int             `json:"discount"`
	Stock    int             `json:"stock"`
	Images   []string        `json:"images"`
	Active   bool            `json:"isActive"`
	Featured bool            `json:"isFeatured"`
}

// InStock reports whether at least one unit can still be added to a cart.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// ClampQuantity constrains a requested quantity to [1, Stock]. The range is
// only meaningful for in-stock products; callers check InStock first, since
// a zero-stock snapshot has no valid quantity at all.
func (p Product) ClampQuantity(q int) int {
	if q > p.Stock {
		return p.Stock
	}
	if q < 1 {
		return 1
	}
	return q
}
