package analyze

import (
	"errors"
	"fmt"
	"go/types"

	"typemeta/typeinfo"
)

// Unnamed composite types are instantiations of generic shapes so that
// []T inside a generic declaration follows the substitution of T.
const (
	shapeSlice    = "slice"    // []E, a Sequence[E]
	shapeArray    = "array"    // [N]E, a value type and a Sequence[E]
	shapeMap      = "map"      // map[K]V
	shapeChan     = "chan"     // chan E and <-chan E, an AsyncSequence[E]
	shapeSendChan = "sendchan" // chan<- E
	shapeSeq      = "seq"      // func(yield func(E) bool), a Sequence[E]
	shapeFunc     = "func"     // any other function
)

func (a *Analyzer) shape(name string) (*typeinfo.Type, error) {
	if t, ok := a.shapes[name]; ok {
		return t, nil
	}

	id := typeinfo.TypeID{Name: name}
	t, ok := a.u.Lookup(id)
	if !ok {
		var err error
		t, err = a.shapeBuilder(id).Define()
		if errors.Is(err, typeinfo.ErrDuplicateType) {
			t, ok = a.u.Lookup(id)
		}
		if !ok && err != nil {
			return nil, fmt.Errorf("shape %s: %w", name, err)
		}
	}

	a.shapes[name] = t
	return t, nil
}

func (a *Analyzer) shapeBuilder(id typeinfo.TypeID) *typeinfo.TypeBuilder {
	u := a.u

	var b *typeinfo.TypeBuilder
	switch id.Name {
	case shapeArray:
		b = u.Struct(id).Generic("E")
	case shapeMap:
		return u.Class(id).Generic("K", "V")
	case shapeFunc:
		return u.Class(id)
	default:
		b = u.Class(id).Generic("E")
	}

	switch id.Name {
	case shapeSlice, shapeArray, shapeSeq:
		b.Implements(u.MustInstantiate(u.Sequence(), b.Param("E")))
	case shapeChan:
		b.Implements(u.MustInstantiate(u.AsyncSequence(), b.Param("E")))
	}

	return b
}

// composite instantiates the shape name with the given element types.
func (a *Analyzer) composite(name string, elems ...types.Type) (*typeinfo.Type, error) {
	def, err := a.shape(name)
	if err != nil {
		return nil, err
	}

	args := make([]*typeinfo.Type, len(elems))
	for i, e := range elems {
		if args[i], err = a.convert(e); err != nil {
			return nil, err
		}
	}

	return a.u.Instantiate(def, args...)
}
