package index

// orderedMap keeps values in first-insertion order.
// Setting an existing key replaces the value in place.
type orderedMap[V any] struct {
	pos    map[string]int
	keys   []string
	values []V
}

func newOrderedMap[V any](capacity int) *orderedMap[V] {
	return &orderedMap[V]{
		pos:    make(map[string]int, capacity),
		keys:   make([]string, 0, capacity),
		values: make([]V, 0, capacity),
	}
}

func (m *orderedMap[V]) set(key string, v V) {
	if i, ok := m.pos[key]; ok {
		m.values[i] = v
		return
	}
	m.pos[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, v)
}

func (m *orderedMap[V]) get(key string) (V, bool) {
	i, ok := m.pos[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.values[i], true
}

func (m *orderedMap[V]) len() int { return len(m.keys) }

// each visits values in insertion order
func (m *orderedMap[V]) each(fn func(V)) {
	for _, v := range m.values {
		fn(v)
	}
}
