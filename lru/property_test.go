package lru_test

import (
	"slices"
	"testing"

	"github.com/serroba/lrucache/lru"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// model is a reference LRU: order lists keys from least to most recently used.
type model struct {
	capacity int
	order    []int
	values   map[int]int
}

func (m *model) touch(key int) {
	i := slices.Index(m.order, key)
	m.order = append(slices.Delete(m.order, i, i+1), key)
}

// TestLRUCacheProperties drives a cache with random operations and checks it
// against a reference model after every step.
func TestLRUCacheProperties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 6).Draw(t, "capacity")
		keyGen := rapid.IntRange(0, 9)

		var evicted []int

		c, err := lru.New(capacity, lru.WithEvictCallback(
			func(k, _ int) {
				evicted = append(evicted, k)
			},
		))
		require.NoError(t, err)

		m := &model{
			capacity: capacity,
			order:    []int{},
			values:   make(map[int]int),
		}

		t.Repeat(map[string]func(*rapid.T){
			"put": func(t *rapid.T) {
				key := keyGen.Draw(t, "key")
				value := rapid.Int().Draw(t, "value")

				_, present := m.values[key]
				full := len(m.order) == m.capacity
				evicted = evicted[:0]

				c.Put(key, value)

				switch {
				case present:
					m.touch(key)
					require.Empty(t, evicted)

				case full:
					// Exactly one key goes, and it is the
					// least recently used one.
					oldest := m.order[0]
					require.Equal(t, []int{oldest}, evicted)

					m.order = append(m.order[1:], key)
					delete(m.values, oldest)

				default:
					m.order = append(m.order, key)
					require.Empty(t, evicted)
				}

				m.values[key] = value

				// put(k, v) then get(k) returns v.
				got, ok := c.Get(key)
				require.True(t, ok)
				require.Equal(t, value, got)
				m.touch(key)
			},
			"get": func(t *rapid.T) {
				key := keyGen.Draw(t, "key")

				got, ok := c.Get(key)

				want, present := m.values[key]
				require.Equal(t, present, ok)

				if present {
					require.Equal(t, want, got)
					m.touch(key)
				}
			},
			"peek": func(t *rapid.T) {
				key := keyGen.Draw(t, "key")

				got, ok := c.Peek(key)

				want, present := m.values[key]
				require.Equal(t, present, ok)
				require.Equal(t, want, got)
			},
			"delete": func(t *rapid.T) {
				key := keyGen.Draw(t, "key")

				_, present := m.values[key]
				require.Equal(t, present, c.Delete(key))

				if present {
					i := slices.Index(m.order, key)
					m.order = slices.Delete(m.order, i, i+1)
					delete(m.values, key)
				}
			},
			"": func(t *rapid.T) {
				require.NoError(t, c.Verify())
				require.LessOrEqual(t, c.Len(), capacity)
				require.GreaterOrEqual(t, c.Len(), 0)
				require.Equal(t, m.order, c.Keys())
			},
		})
	})
}

// TestLRUCacheRecencyLaw checks that a touched key becomes the single most
// recently used key regardless of prior state.
func TestLRUCacheRecencyLaw(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 8).Draw(t, "capacity")
		c, err := lru.New[int, int](capacity)
		require.NoError(t, err)

		keys := rapid.SliceOf(rapid.IntRange(0, 15)).Draw(t, "prefill")
		for _, k := range keys {
			c.Put(k, k)
		}

		target := rapid.IntRange(0, 15).Draw(t, "target")
		if rapid.Bool().Draw(t, "via_get") {
			if _, ok := c.Get(target); !ok {
				return
			}
		} else {
			c.Put(target, -target)
		}

		got := c.Keys()
		require.NotEmpty(t, got)
		require.Equal(t, target, got[len(got)-1])
		require.Equal(t, 1, countOf(got, target))
	})
}

func countOf(keys []int, key int) int {
	n := 0
	for _, k := range keys {
		if k == key {
			n++
		}
	}

	return n
}
