package catalog

// LowStockThreshold is the exclusive upper bound of "low stock".
const LowStockThreshold = 50

type Stats struct {
	Total      int `json:"total"`
	OutOfStock int `json:"outOfStock"`
	LowStock   int `json:"lowStock"`
	WithOffers int `json:"withOffers"`
}

// ComputeStats recounts everything on each call; nothing is cached.
func ComputeStats(products []Product) Stats {
	st := Stats{Total: len(products)}
	for _, p := range products {
		switch {
		case isOutOfStock(p):
			st.OutOfStock++
		case isLowStock(p):
			st.LowStock++
		}
		if p.HasOffer() {
			st.WithOffers++
		}
	}
	return st
}

func isOutOfStock(p Product) bool {
	return p.Inventory.Total() == 0
}

func isLowStock(p Product) bool {
	t := p.Inventory.Total()
	return t > 0 && t < LowStockThreshold
}
