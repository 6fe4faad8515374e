package catalog

import "github.com/prometheus/client_golang/prometheus"

// Collector exports the admin stats as gauges. Every scrape takes one
// snapshot, so the four values always agree with each other.
type Collector struct {
	store *Store

	total      *prometheus.Desc
	outOfStock *prometheus.Desc
	lowStock   *prometheus.Desc
	withOffers *prometheus.Desc
}

func NewCollector(store *Store) *Collector {
	return &Collector{
		store:      store,
		total:      prometheus.NewDesc("catalog_products", "Products currently in the catalog.", nil, nil),
		outOfStock: prometheus.NewDesc("catalog_out_of_stock", "Products with no store or warehouse stock.", nil, nil),
		lowStock:   prometheus.NewDesc("catalog_low_stock", "Products with total stock below the low stock threshold.", nil, nil),
		withOffers: prometheus.NewDesc("catalog_with_offers", "Products with an active discount.", nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.total
	ch <- c.outOfStock
	ch <- c.lowStock
	ch <- c.withOffers
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	var st Stats
	c.store.View(func(products []Product) { st = ComputeStats(products) })
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(st.Total))
	ch <- prometheus.MustNewConstMetric(c.outOfStock, prometheus.GaugeValue, float64(st.OutOfStock))
	ch <- prometheus.MustNewConstMetric(c.lowStock, prometheus.GaugeValue, float64(st.LowStock))
	ch <- prometheus.MustNewConstMetric(c.withOffers, prometheus.GaugeValue, float64(st.WithOffers))
}
