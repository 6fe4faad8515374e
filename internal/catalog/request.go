package catalog

import (
	"bytes"
	"encoding/json"
	"maps"
	"math"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

const (
	defaultAisle   = "TBD"
	defaultSection = "General"
)

// fields is a decoded admin form body. Admin clients send numbers and flags
// both as JSON scalars and as strings, so values are coerced per field.
type fields map[string]json.RawMessage

// formFields are the keys admin create and update bodies may carry.
var formFields = []string{
	"name", "description", "price", "category", "image", "discount",
	"isTopSelling", "isFeatured", "aisle", "section", "storeStock", "warehouseStock",
}

// checkKnown rejects keys outside formFields, so a body in some other shape
// (say, nested location/inventory objects) is not accepted as a no-op.
func (f fields) checkKnown() error {
	for _, key := range slices.Sorted(maps.Keys(f)) {
		if !slices.Contains(formFields, key) {
			return &ValidationError{Field: key, Message: "unknown field: " + key}
		}
	}
	return nil
}

func (f fields) has(key string) bool {
	_, ok := f[key]
	return ok
}

func (f fields) isNull(key string) bool {
	return bytes.Equal(bytes.TrimSpace(f[key]), []byte("null"))
}

func (f fields) any(key string) (any, error) {
	var v any
	if err := json.Unmarshal(f[key], &v); err != nil {
		return nil, invalid(key, "malformed value")
	}
	return v, nil
}

// blank mirrors a form field left empty: absent, null, "", 0 or false.
func (f fields) blank(key string) bool {
	if !f.has(key) || f.isNull(key) {
		return true
	}
	v, err := f.any(key)
	if err != nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case float64:
		return t == 0
	case bool:
		return !t
	}
	return false
}

func (f fields) text(key string) (string, error) {
	if f.isNull(key) {
		return "", invalid(key, "must not be null")
	}
	v, err := f.any(key)
	if err != nil {
		return "", err
	}
	switch v.(type) {
	case map[string]any, []any:
		return "", invalid(key, "must be a string")
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", invalid(key, "must be a string")
	}
	return s, nil
}

func (f fields) price(key string) (decimal.Decimal, error) {
	if f.isNull(key) {
		return decimal.Decimal{}, invalid(key, "must not be null")
	}
	var d decimal.Decimal
	if err := json.Unmarshal(f[key], &d); err != nil {
		return decimal.Decimal{}, invalid(key, "must be a number")
	}
	if d.IsNegative() {
		return decimal.Decimal{}, invalid(key, "must not be negative")
	}
	return d, nil
}

func (f fields) number(key string) (float64, error) {
	v, err := f.any(key)
	if err != nil {
		return 0, err
	}
	n, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, invalid(key, "must be a number")
	}
	return n, nil
}

func (f fields) count(key string) (int, error) {
	if f.isNull(key) {
		return 0, invalid(key, "must not be null")
	}
	n, err := f.number(key)
	if err != nil {
		return 0, err
	}
	if n != math.Trunc(n) || n > math.MaxInt32 {
		return 0, invalid(key, "must be a whole number")
	}
	if n < 0 {
		return 0, invalid(key, "must not be negative")
	}
	return int(n), nil
}

func (f fields) flag(key string) (bool, error) {
	if f.blank(key) {
		return false, nil
	}
	v, err := f.any(key)
	if err != nil {
		return false, err
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case float64:
		return t != 0, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, invalid(key, "must be a boolean")
	}
	return b, nil
}

// discount returns nil for the blank values that mean "no offer".
func (f fields) discount(key string) (*float64, error) {
	if f.blank(key) {
		return nil, nil
	}
	d, err := f.number(key)
	if err != nil {
		return nil, err
	}
	if d == 0 {
		return nil, nil
	}
	if !validDiscount(d) {
		return nil, invalid(key, "must be greater than 0 and at most 100")
	}
	return &d, nil
}

// newProductFromFields builds a creation request. name, price, category and
// image are required; the rest fall back to defaults.
func newProductFromFields(f fields) (NewProduct, error) {
	if err := f.checkKnown(); err != nil {
		return NewProduct{}, err
	}
	for _, key := range []string{"name", "price", "category", "image"} {
		if !f.has(key) || f.isNull(key) || (key != "price" && f.blank(key)) {
			return NewProduct{}, missing(key)
		}
	}

	var (
		n   NewProduct
		err error
	)
	if n.Name, err = f.text("name"); err != nil {
		return NewProduct{}, err
	}
	if n.Price, err = f.price("price"); err != nil {
		return NewProduct{}, err
	}
	if n.Category, err = f.text("category"); err != nil {
		return NewProduct{}, err
	}
	if n.Image, err = f.text("image"); err != nil {
		return NewProduct{}, err
	}
	if !f.blank("description") {
		if n.Description, err = f.text("description"); err != nil {
			return NewProduct{}, err
		}
	}
	if n.Discount, err = f.discount("discount"); err != nil {
		return NewProduct{}, err
	}
	if n.IsTopSelling, err = f.flag("isTopSelling"); err != nil {
		return NewProduct{}, err
	}
	if n.IsFeatured, err = f.flag("isFeatured"); err != nil {
		return NewProduct{}, err
	}

	n.Location = Location{Aisle: defaultAisle, Section: defaultSection}
	if !f.blank("aisle") {
		if n.Location.Aisle, err = f.text("aisle"); err != nil {
			return NewProduct{}, err
		}
	}
	if !f.blank("section") {
		if n.Location.Section, err = f.text("section"); err != nil {
			return NewProduct{}, err
		}
	}

	stock := []struct {
		key string
		dst *int
	}{{"storeStock", &n.Inventory.Store}, {"warehouseStock", &n.Inventory.Warehouse}}
	for _, s := range stock {
		if !f.has(s.key) || f.isNull(s.key) {
			continue
		}
		if *s.dst, err = f.count(s.key); err != nil {
			return NewProduct{}, err
		}
	}

	return n, nil
}

// patchFromFields maps the fields present in an update body onto a Patch.
// Flat aisle/section and storeStock/warehouseStock keys fill the nested
// location and inventory sub-patches.
func patchFromFields(f fields) (Patch, error) {
	if err := f.checkKnown(); err != nil {
		return Patch{}, err
	}

	var p Patch

	texts := []struct {
		key string
		dst **string
	}{
		{"name", &p.Name},
		{"description", &p.Description},
		{"category", &p.Category},
		{"image", &p.Image},
	}
	for _, t := range texts {
		if !f.has(t.key) {
			continue
		}
		s, err := f.text(t.key)
		if err != nil {
			return Patch{}, err
		}
		*t.dst = &s
	}

	if f.has("price") {
		d, err := f.price("price")
		if err != nil {
			return Patch{}, err
		}
		p.Price = &d
	}

	if f.has("discount") {
		d, err := f.discount("discount")
		if err != nil {
			return Patch{}, err
		}
		p.Discount = DiscountPatch{Present: true, Value: d}
	}

	flags := []struct {
		key string
		dst **bool
	}{{"isTopSelling", &p.IsTopSelling}, {"isFeatured", &p.IsFeatured}}
	for _, fl := range flags {
		if !f.has(fl.key) {
			continue
		}
		b, err := f.flag(fl.key)
		if err != nil {
			return Patch{}, err
		}
		*fl.dst = &b
	}

	if f.has("aisle") || f.has("section") {
		p.Location = &LocationPatch{}
		for _, l := range []struct {
			key string
			dst **string
		}{{"aisle", &p.Location.Aisle}, {"section", &p.Location.Section}} {
			if !f.has(l.key) {
				continue
			}
			s, err := f.text(l.key)
			if err != nil {
				return Patch{}, err
			}
			*l.dst = &s
		}
	}

	if f.has("storeStock") || f.has("warehouseStock") {
		p.Inventory = &InventoryPatch{}
		for _, c := range []struct {
			key string
			dst **int
		}{{"storeStock", &p.Inventory.Store}, {"warehouseStock", &p.Inventory.Warehouse}} {
			if !f.has(c.key) {
				continue
			}
			n, err := f.count(c.key)
			if err != nil {
				return Patch{}, err
			}
			*c.dst = &n
		}
	}

	return p, nil
}
