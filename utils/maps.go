package utils

// GetOrAddNew returns the value stored under key, first storing a freshly
// allocated V when the key is absent. m must not be nil.
func GetOrAddNew[M ~map[K]*V, K comparable, V any](m M, key K) *V {
	if v, ok := m[key]; ok {
		return v
	}

	v := new(V)
	m[key] = v

	return v
}

// GetOrAdd returns the value stored under key, first storing newValue() when
// the key is absent. m must not be nil.
func GetOrAdd[M ~map[K]V, K comparable, V any](m M, key K, newValue func() V) V {
	if v, ok := m[key]; ok {
		return v
	}

	v := newValue()
	m[key] = v

	return v
}

// Find returns the value stored under key, or the zero value of V when the
// key is absent. A nil map is treated as empty.
func Find[M ~map[K]V, K comparable, V any](m M, key K) V {
	return m[key]
}
