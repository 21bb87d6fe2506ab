// Package analyze loads Go packages and registers the types they define in
// a typeinfo.Universe.
//
// It uses golang.org/x/tools/go/packages with go/types. Each loaded package
// becomes a PackageUnit, a typeinfo.Unit whose defined types follow Go
// semantics:
//   - structs are value types; the first embedded struct is the base
//   - interfaces are abstract; embedded interfaces are implemented
//   - defined integer types with typed constants are enumerations
//   - *T is Optional[T] for value types
//   - slices, maps, channels and functions are reference types
//   - exported getters (no parameters, one result) are properties
//   - NewX functions returning X or *X are constructors of X
//
// Packages with type errors still load: declarations that did not type-check
// are reported as gaps through typeinfo.PartialLoadError.
package analyze
