package typeinfo

import (
	"errors"
	"fmt"
	"slices"

	"typemeta/internal/common"
)

// Unit is a body of compiled code that defines types, such as a loaded Go
// package.
//
// DefinedTypes returns every type the unit defines. When only some of them
// could be resolved it returns a *PartialLoadError listing the resolved ones.
type Unit interface {
	Name() string
	DefinedTypes() ([]*Type, error)
}

// LoadOutcome tells whether every entry of a unit was resolved.
type LoadOutcome int

const (
	LoadComplete LoadOutcome = iota
	LoadPartial
)

// String returns a human-readable representation of the LoadOutcome.
func (o LoadOutcome) String() string {
	switch o {
	case LoadComplete:
		return "complete"
	case LoadPartial:
		return "partial"
	default:
		return common.UnknownStr
	}
}

// LoadResult holds the types of a unit that could be resolved.
type LoadResult struct {
	Types   []*Type
	Outcome LoadOutcome
	Skipped int // unresolved entries, only for LoadPartial
}

// LoadDefinedTypes returns the defined types of unit. A partial load is not
// an error: the unresolved entries are dropped and the result is marked
// LoadPartial. Any other failure is returned as is.
func LoadDefinedTypes(unit Unit) (LoadResult, error) {
	types, err := unit.DefinedTypes()
	if err == nil {
		return LoadResult{Types: types, Outcome: LoadComplete}, nil
	}

	var partial *PartialLoadError
	if !errors.As(err, &partial) {
		return LoadResult{}, fmt.Errorf("load unit %s: %w", unit.Name(), err)
	}

	resolved := slices.DeleteFunc(slices.Clone(partial.Types), func(t *Type) bool { return t == nil })

	return LoadResult{
		Types:   resolved,
		Outcome: LoadPartial,
		Skipped: len(partial.Types) - len(resolved),
	}, nil
}

// ConstructibleTypes returns the types of unit that are neither abstract nor
// generic definitions. Unresolved entries are skipped silently.
func ConstructibleTypes(unit Unit) ([]*Type, error) {
	loaded, err := LoadDefinedTypes(unit)
	if err != nil {
		return nil, err
	}

	var out []*Type
	for _, t := range loaded.Types {
		if !t.abstract && !t.IsGenericDefinition() {
			out = append(out, t)
		}
	}

	return out, nil
}

type unit struct {
	name  string
	types []*Type
}

// NewUnit returns an in-memory unit defining the given types.
func NewUnit(name string, types ...*Type) Unit {
	return &unit{name: name, types: slices.Clone(types)}
}

func (u *unit) Name() string { return u.name }

func (u *unit) DefinedTypes() ([]*Type, error) {
	return slices.Clone(u.types), nil
}
