package catalog

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Location struct {
	Aisle   string `json:"aisle"`
	Section string `json:"section"`
}

type Inventory struct {
	Store     int `json:"store"`
	Warehouse int `json:"warehouse"`
}

// Total is the only stock signal the catalog reasons about.
func (i Inventory) Total() int {
	return i.Store + i.Warehouse
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	// Discount is a percentage in (0, 100]; nil means no offer.
	Discount     *float64  `json:"discount,omitempty"`
	IsTopSelling bool      `json:"isTopSelling"`
	IsFeatured   bool      `json:"isFeatured"`
	Location     Location  `json:"location"`
	Inventory    Inventory `json:"inventory"`
}

// MarshalJSON writes Price as a JSON number without touching the
// package-wide decimal settings.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{plain(p), json.Number(p.Price.String())})
}

func (p Product) HasOffer() bool {
	return p.Discount != nil && *p.Discount > 0
}

// DiscountOrZero is the discount used for ordering: absent counts as 0.
func (p Product) DiscountOrZero() float64 {
	if p.Discount == nil {
		return 0
	}
	return *p.Discount
}

func (p Product) clone() Product {
	if p.Discount != nil {
		d := *p.Discount
		p.Discount = &d
	}
	return p
}

func cloneAll(products []Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = p.clone()
	}
	return out
}

// NewProduct is a product before the store has assigned it an id.
type NewProduct struct {
	Name         string
	Description  string
	Price        decimal.Decimal
	Category     string
	Image        string
	Discount     *float64
	IsTopSelling bool
	IsFeatured   bool
	Location     Location
	Inventory    Inventory
}

func (n NewProduct) product(id string) Product {
	return Product{
		ID:           id,
		Name:         n.Name,
		Description:  n.Description,
		Price:        n.Price,
		Category:     n.Category,
		Image:        n.Image,
		Discount:     normalizeDiscount(n.Discount),
		IsTopSelling: n.IsTopSelling,
		IsFeatured:   n.IsFeatured,
		Location:     n.Location,
		Inventory:    n.Inventory,
	}
}

// normalizeDiscount copies d, mapping 0 to absence.
func normalizeDiscount(d *float64) *float64 {
	if d == nil || *d == 0 {
		return nil
	}
	v := *d
	return &v
}

// validate checks the invariants every stored product holds.
func (p Product) validate() error {
	if p.Price.IsNegative() {
		return invalid("price", "must not be negative")
	}
	if p.Discount != nil && !validDiscount(*p.Discount) {
		return invalid("discount", "must be greater than 0 and at most 100")
	}
	if p.Inventory.Store < 0 {
		return invalid("storeStock", "must not be negative")
	}
	if p.Inventory.Warehouse < 0 {
		return invalid("warehouseStock", "must not be negative")
	}
	return nil
}

func validDiscount(d float64) bool {
	return d > 0 && d <= 100
}
