package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/serroba/lrucache/lru"
	"github.com/serroba/lrucache/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Register(t *testing.T) {
	t.Parallel()

	c, err := lru.New[string, int](2)
	require.NoError(t, err)

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(metrics.NewCollector("demo", "a", c)))

	// A second cache with a different label can share the registry.
	require.NoError(t, reg.Register(metrics.NewCollector("demo", "b", c)))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 8)
}

func TestCollector_Collect(t *testing.T) {
	t.Parallel()

	c, err := lru.New[string, int](2)
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")
	c.Get("a")
	c.Get("missing")
	c.Put("c", 3)

	collector := metrics.NewCollector("demo", "sessions", c)

	assert.Equal(t, 8, testutil.CollectAndCount(collector))

	expected := `
# HELP demo_cache_hits_total Number of lookups that found their key.
# TYPE demo_cache_hits_total counter
demo_cache_hits_total{cache="sessions"} 2
# HELP demo_cache_misses_total Number of lookups that did not find their key.
# TYPE demo_cache_misses_total counter
demo_cache_misses_total{cache="sessions"} 1
# HELP demo_cache_evictions_total Number of entries evicted to make room for new keys.
# TYPE demo_cache_evictions_total counter
demo_cache_evictions_total{cache="sessions"} 1
# HELP demo_cache_entries Number of entries currently cached.
# TYPE demo_cache_entries gauge
demo_cache_entries{cache="sessions"} 2
# HELP demo_cache_capacity Maximum number of entries.
# TYPE demo_cache_capacity gauge
demo_cache_capacity{cache="sessions"} 2
`

	err = testutil.CollectAndCompare(
		collector, strings.NewReader(expected),
		"demo_cache_hits_total", "demo_cache_misses_total",
		"demo_cache_evictions_total", "demo_cache_entries",
		"demo_cache_capacity",
	)
	require.NoError(t, err)
}

type fixedStats lru.Stats

func (f fixedStats) Stats() lru.Stats {
	return lru.Stats(f)
}

func TestCollector_AnySource(t *testing.T) {
	t.Parallel()

	collector := metrics.NewCollector("", "fixed", fixedStats{
		Insertions: 4,
		Updates:    3,
		Deletes:    2,
	})

	expected := `
# HELP cache_insertions_total Number of new keys added.
# TYPE cache_insertions_total counter
cache_insertions_total{cache="fixed"} 4
# HELP cache_updates_total Number of existing keys overwritten.
# TYPE cache_updates_total counter
cache_updates_total{cache="fixed"} 3
# HELP cache_deletes_total Number of keys removed explicitly.
# TYPE cache_deletes_total counter
cache_deletes_total{cache="fixed"} 2
`

	err := testutil.CollectAndCompare(
		collector, strings.NewReader(expected),
		"cache_insertions_total", "cache_updates_total",
		"cache_deletes_total",
	)
	require.NoError(t, err)
}
