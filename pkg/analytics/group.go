package analytics

// orderedGroups is a group-by accumulator that remembers the order in which
// keys were first seen, so output order never depends on map iteration.
type orderedGroups[K comparable, V any] struct {
	keys  []K
	items map[K]*V
}

func newOrderedGroups[K comparable, V any]() *orderedGroups[K, V] {
	return &orderedGroups[K, V]{items: make(map[K]*V)}
}

// get returns the accumulator for key, creating it with init on first use.
func (g *orderedGroups[K, V]) get(key K, init func() V) *V {
	if v, ok := g.items[key]; ok {
		return v
	}
	v := init()
	g.items[key] = &v
	g.keys = append(g.keys, key)
	return &v
}

func (g *orderedGroups[K, V]) lookup(key K) (*V, bool) {
	v, ok := g.items[key]
	return v, ok
}

func (g *orderedGroups[K, V]) len() int {
	return len(g.keys)
}

// values returns the accumulators in first-seen order.
func (g *orderedGroups[K, V]) values() []*V {
	out := make([]*V, 0, len(g.keys))
	for _, k := range g.keys {
		out = append(out, g.items[k])
	}
	return out
}

func (g *orderedGroups[K, V]) orderedKeys() []K {
	return append([]K(nil), g.keys...)
}
