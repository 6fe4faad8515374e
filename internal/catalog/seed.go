package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed seed.json
var defaultSeed []byte

// DefaultSeed is the catalog the service starts with when no other seed
// source is configured.
func DefaultSeed() ([]Product, error) {
	return ParseSeed(defaultSeed)
}

func LoadSeedFile(path string) ([]Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a JSON array of products and checks it can seed a Store.
func ParseSeed(data []byte) ([]Product, error) {
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if err := checkSeed(products); err != nil {
		return nil, err
	}
	return products, nil
}

// checkSeed normalizes zero discounts in place. It rejects missing or
// duplicate ids, products the admin API could not have created, and invariant
// violations.
func checkSeed(products []Product) error {
	seen := make(map[string]struct{}, len(products))
	for i := range products {
		p := &products[i]
		if p.ID == "" {
			return fmt.Errorf("seed product %d: missing id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("seed product %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = struct{}{}

		for _, r := range []struct{ field, v string }{
			{"name", p.Name}, {"category", p.Category}, {"image", p.Image},
		} {
			if r.v == "" {
				return fmt.Errorf("seed product %q: %w", p.ID, missing(r.field))
			}
		}

		p.Discount = normalizeDiscount(p.Discount)
		if err := p.validate(); err != nil {
			return fmt.Errorf("seed product %q: %w", p.ID, err)
		}
	}
	return nil
}
