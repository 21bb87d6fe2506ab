package analyze

import (
	"reflect"
	"slices"
	"strings"

	"typemeta/typeinfo"
)

// PackageUnit is a loaded Go package seen as a typeinfo.Unit.
type PackageUnit struct {
	path    string
	name    string
	types   []*typeinfo.Type // nil for declarations that did not type-check
	causes  []error
	partial bool
}

var _ typeinfo.Unit = (*PackageUnit)(nil)

// Name returns the import path of the package.
func (p *PackageUnit) Name() string { return p.path }

// PackageName returns the declared name of the package.
func (p *PackageUnit) PackageName() string { return p.name }

// Partial reports whether the package had errors.
func (p *PackageUnit) Partial() bool { return p.partial }

// DefinedTypes returns the exported types of the package in name order.
// When the package had errors it also returns a *typeinfo.PartialLoadError
// with a nil entry for each declaration that could not be resolved.
func (p *PackageUnit) DefinedTypes() ([]*typeinfo.Type, error) {
	if !p.partial {
		return slices.Clone(p.types), nil
	}

	return slices.Clone(p.types), &typeinfo.PartialLoadError{
		Unit:   p.path,
		Types:  slices.Clone(p.types),
		Causes: slices.Clone(p.causes),
	}
}

// FieldTag describes the struct tag of a loaded field.
type FieldTag struct {
	Name string            // Go field name
	Tag  reflect.StructTag // Raw struct tag
}

// JSONName returns the JSON tag name if present, otherwise the field name.
func (f FieldTag) JSONName() string {
	if tag := f.Tag.Get("json"); tag != "" && tag != "-" {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" {
			return name
		}
	}

	return f.Name
}

// HasTag returns true if the field has the specified tag.
func (f FieldTag) HasTag(key string) bool {
	return f.Tag.Get(key) != ""
}

// GetTag returns the value of the specified tag.
func (f FieldTag) GetTag(key string) string {
	return f.Tag.Get(key)
}
