package typeinfo

import "fmt"

// TryGetSequenceElementType resolves the element type of t when it behaves as
// a Sequence, falling back to AsyncSequence.
func TryGetSequenceElementType(t *Type) (*Type, bool) {
	if elem, ok := TryGetElementType(t, t.universe.sequence); ok {
		return elem, true
	}

	return TryGetElementType(t, t.universe.asyncSequence)
}

// GetSequenceElementType is the strict form of TryGetSequenceElementType.
// Use the Try form when absence is expected.
func GetSequenceElementType(t *Type) (*Type, error) {
	elem, ok := TryGetSequenceElementType(t)
	if !ok {
		return nil, fmt.Errorf("%s: %w", t, ErrNoSequenceElementType)
	}

	return elem, nil
}
