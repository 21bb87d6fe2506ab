package analyze

import (
	"errors"
	"fmt"
	"strings"

	"typemeta/internal/common"
	"typemeta/internal/match"
	"typemeta/typeinfo"
)

const (
	suggestMinScore = 0.6
	suggestLimit    = 3
)

var (
	ErrTypeNotFound      = errors.New("type not found")
	ErrAmbiguousTypeName = errors.New("ambiguous type name")
)

// Resolve finds a registered type from a reference like:
//   - "store.Order" (short)
//   - "typemeta/store.Order" (full)
//   - "Order" (name only).
//
// Short and name-only forms must match exactly one type.
func (a *Analyzer) Resolve(ref string) (*typeinfo.Type, error) {
	pkgStr, name := "", ref
	if lastDot := strings.LastIndex(ref, "."); lastDot >= 0 {
		pkgStr, name = ref[:lastDot], ref[lastDot+1:]
		if pkgStr == "" {
			return nil, fmt.Errorf("%q: %w", ref, ErrTypeNotFound)
		}
	}
	if name == "" {
		return nil, fmt.Errorf("%q: %w", ref, ErrTypeNotFound)
	}

	// 1) exact match (for fully qualified import path)
	if pkgStr != "" {
		if t, ok := a.u.Lookup(typeinfo.TypeID{PkgPath: pkgStr, Name: name}); ok {
			return t, nil
		}
	}

	// 2) suffix match (for short forms like "store.Order" vs "typemeta/store.Order")
	var found []*typeinfo.Type
	for _, t := range a.u.Types() {
		id := t.ID()
		if id.Name != name || id.PkgPath == "" {
			continue
		}
		if pkgStr == "" || strings.HasSuffix(id.PkgPath, "/"+pkgStr) {
			found = append(found, t)
		}
	}

	switch len(found) {
	case 0:
		return nil, a.notFound(ref, pkgStr != "")
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%q matches %s and %s: %w", ref, found[0], found[1], ErrAmbiguousTypeName)
	}
}

// notFound reports ref as unknown, suggesting the closest registered names.
func (a *Analyzer) notFound(ref string, qualified bool) error {
	var names []string
	for _, t := range a.u.Types() {
		id := t.ID()
		if id.PkgPath == "" {
			continue
		}
		if qualified {
			names = append(names, common.Qualify(id.PkgPath, id.Name))
		} else {
			names = append(names, id.Name)
		}
	}

	suggestions := match.Suggest(ref, names, suggestMinScore, suggestLimit)
	if len(suggestions) == 0 {
		return fmt.Errorf("%q: %w", ref, ErrTypeNotFound)
	}

	return fmt.Errorf("%q: %w (did you mean %s?)", ref, ErrTypeNotFound, strings.Join(suggestions, ", "))
}
