package catalog

import "github.com/shopspring/decimal"

// Patch is a partial update. Nil fields are left untouched; Location and
// Inventory merge key by key.
type Patch struct {
	Name         *string
	Description  *string
	Price        *decimal.Decimal
	Category     *string
	Image        *string
	Discount     DiscountPatch
	IsTopSelling *bool
	IsFeatured   *bool
	Location     *LocationPatch
	Inventory    *InventoryPatch
}

// DiscountPatch is untouched unless Present. A present nil or zero Value
// clears the discount.
type DiscountPatch struct {
	Present bool
	Value   *float64
}

func SetDiscount(v float64) DiscountPatch {
	return DiscountPatch{Present: true, Value: &v}
}

func ClearDiscount() DiscountPatch {
	return DiscountPatch{Present: true}
}

type LocationPatch struct {
	Aisle   *string
	Section *string
}

type InventoryPatch struct {
	Store     *int
	Warehouse *int
}

// Validate rejects values that would break a product invariant once merged.
func (p Patch) Validate() error {
	required := []struct {
		field string
		v     *string
	}{{"name", p.Name}, {"category", p.Category}, {"image", p.Image}}
	for _, r := range required {
		if r.v != nil && *r.v == "" {
			return invalid(r.field, "must not be empty")
		}
	}
	if p.Price != nil && p.Price.IsNegative() {
		return invalid("price", "must not be negative")
	}
	if p.Discount.Present && p.Discount.Value != nil && *p.Discount.Value != 0 && !validDiscount(*p.Discount.Value) {
		return invalid("discount", "must be greater than 0 and at most 100")
	}
	if inv := p.Inventory; inv != nil {
		if inv.Store != nil && *inv.Store < 0 {
			return invalid("storeStock", "must not be negative")
		}
		if inv.Warehouse != nil && *inv.Warehouse < 0 {
			return invalid("warehouseStock", "must not be negative")
		}
	}
	return nil
}

// IsEmpty reports whether applying p would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Category == nil && p.Image == nil && !p.Discount.Present &&
		p.IsTopSelling == nil && p.IsFeatured == nil &&
		p.Location == nil && p.Inventory == nil
}

func (p Patch) apply(dst *Product) {
	setIf(&dst.Name, p.Name)
	setIf(&dst.Description, p.Description)
	setIf(&dst.Price, p.Price)
	setIf(&dst.Category, p.Category)
	setIf(&dst.Image, p.Image)
	setIf(&dst.IsTopSelling, p.IsTopSelling)
	setIf(&dst.IsFeatured, p.IsFeatured)

	if p.Discount.Present {
		dst.Discount = normalizeDiscount(p.Discount.Value)
	}

	if loc := p.Location; loc != nil {
		setIf(&dst.Location.Aisle, loc.Aisle)
		setIf(&dst.Location.Section, loc.Section)
	}

	if inv := p.Inventory; inv != nil {
		setIf(&dst.Inventory.Store, inv.Store)
		setIf(&dst.Inventory.Warehouse, inv.Warehouse)
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
