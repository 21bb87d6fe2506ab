package typeinfo

import (
	"fmt"
	"iter"
	"slices"
)

// AncestorsOf yields the ancestor chain of t, nearest first, excluding t.
// Each range over the result walks the chain again from t.
func AncestorsOf(t *Type) iter.Seq[*Type] {
	return func(yield func(*Type) bool) {
		for b := t.base; b != nil; b = b.base {
			if !yield(b) {
				return
			}
		}
	}
}

// SelfAndAncestorsOf yields t followed by its ancestor chain.
func SelfAndAncestorsOf(t *Type) iter.Seq[*Type] {
	return func(yield func(*Type) bool) {
		for level := t; level != nil; level = level.base {
			if !yield(level) {
				return
			}
		}
	}
}

// DeclaredMembersByName returns, for each level of the hierarchy starting at
// t, the non-static member declared at exactly that level with the given
// name. Levels are visited most-derived first and contribute at most one
// member each. A level declaring several members with the name fails with
// ErrAmbiguousMember.
func DeclaredMembersByName(t *Type, name string) ([]*Member, error) {
	var out []*Member
	for level := range SelfAndAncestorsOf(t) {
		m, err := declaredMember(level, name)
		if err != nil {
			return nil, err
		}
		if m != nil && !m.static {
			out = append(out, m)
		}
	}

	return out, nil
}

func declaredMember(level *Type, name string) (*Member, error) {
	var found *Member
	for _, m := range level.members {
		if m.name != name {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%s.%s: %w", level, name, ErrAmbiguousMember)
		}
		found = m
	}

	return found, nil
}

// PropertiesByName yields the non-static property declared with the given
// name at each level of the hierarchy, most-derived first.
func PropertiesByName(t *Type, name string) iter.Seq[*Member] {
	return func(yield func(*Member) bool) {
		for level := range SelfAndAncestorsOf(t) {
			for _, m := range level.members {
				if m.kind == MemberProperty && !m.static && m.name == name {
					if !yield(m) {
						return
					}
					break
				}
			}
		}
	}
}

// AllInstanceMembers yields the non-static fields and properties of t and
// its ancestors, level by level, most-derived first and in declaration
// order within a level. A member whose name was already declared by a more
// derived level is shadowed and not yielded.
func AllInstanceMembers(t *Type) iter.Seq[*Member] {
	return func(yield func(*Member) bool) {
		shadowed := make(map[string]struct{})
		for level := range SelfAndAncestorsOf(t) {
			var introduced []string
			for _, m := range level.members {
				if m.static {
					continue
				}
				if _, ok := shadowed[m.name]; ok {
					continue
				}
				if !yield(m) {
					return
				}
				introduced = append(introduced, m.name)
			}
			for _, name := range introduced {
				shadowed[name] = struct{}{}
			}
		}
	}
}

// MembersByName yields the visible instance members of t with the given
// name.
func MembersByName(t *Type, name string) iter.Seq[*Member] {
	return func(yield func(*Member) bool) {
		for m := range AllInstanceMembers(t) {
			if m.name == name && !yield(m) {
				return
			}
		}
	}
}

// AnyProperty returns the only property named name anywhere in the hierarchy
// of t, static or not. It returns nil when there is none and
// ErrAmbiguousMember when a base declaration is redeclared by a derived level.
func AnyProperty(t *Type, name string) (*Member, error) {
	var found []*Member
	for level := range SelfAndAncestorsOf(t) {
		for _, m := range level.members {
			if m.kind == MemberProperty && m.name == name {
				found = append(found, m)
			}
		}
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%s.%s: %d properties: %w", t, name, len(found), ErrAmbiguousMember)
	}
}

// DeclaredConstructor returns the non-static constructor declared on t whose
// parameter types are exactly params.
func DeclaredConstructor(t *Type, params ...*Type) (*Constructor, bool) {
	for _, c := range t.ctors {
		if !c.static && slices.Equal(c.params, params) {
			return c, true
		}
	}

	return nil, false
}
