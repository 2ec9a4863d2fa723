// Package metrics exports cache statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/serroba/lrucache/lru"
)

// StatsSource is anything that can report a statistics snapshot, such as an
// [lru.Cache].
type StatsSource interface {
	Stats() lru.Stats
}

// Collector reads a StatsSource on every scrape. A custom collector is used so
// the exported values are always taken from one consistent snapshot.
type Collector struct {
	src StatsSource

	hitsDesc       *prometheus.Desc
	missesDesc     *prometheus.Desc
	evictionsDesc  *prometheus.Desc
	insertionsDesc *prometheus.Desc
	updatesDesc    *prometheus.Desc
	deletesDesc    *prometheus.Desc
	entriesDesc    *prometheus.Desc
	capacityDesc   *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a collector for src. Every metric carries a constant
// "cache" label set to name, so several caches can share a registry.
func NewCollector(namespace, name string, src StatsSource) *Collector {
	labels := prometheus.Labels{"cache": name}

	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", metric),
			help, nil, labels,
		)
	}

	return &Collector{
		src: src,
		hitsDesc: desc(
			"hits_total", "Number of lookups that found their key.",
		),
		missesDesc: desc(
			"misses_total", "Number of lookups that did not find "+
				"their key.",
		),
		evictionsDesc: desc(
			"evictions_total", "Number of entries evicted to make "+
				"room for new keys.",
		),
		insertionsDesc: desc(
			"insertions_total", "Number of new keys added.",
		),
		updatesDesc: desc(
			"updates_total", "Number of existing keys overwritten.",
		),
		deletesDesc: desc(
			"deletes_total", "Number of keys removed explicitly.",
		),
		entriesDesc: desc(
			"entries", "Number of entries currently cached.",
		),
		capacityDesc: desc(
			"capacity", "Maximum number of entries.",
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hitsDesc
	ch <- c.missesDesc
	ch <- c.evictionsDesc
	ch <- c.insertionsDesc
	ch <- c.updatesDesc
	ch <- c.deletesDesc
	ch <- c.entriesDesc
	ch <- c.capacityDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()

	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(
			d, prometheus.CounterValue, float64(v),
		)
	}

	gauge := func(d *prometheus.Desc, v int) {
		ch <- prometheus.MustNewConstMetric(
			d, prometheus.GaugeValue, float64(v),
		)
	}

	counter(c.hitsDesc, s.Hits)
	counter(c.missesDesc, s.Misses)
	counter(c.evictionsDesc, s.Evictions)
	counter(c.insertionsDesc, s.Insertions)
	counter(c.updatesDesc, s.Updates)
	counter(c.deletesDesc, s.Deletes)
	gauge(c.entriesDesc, s.Len)
	gauge(c.capacityDesc, s.Capacity)
}
