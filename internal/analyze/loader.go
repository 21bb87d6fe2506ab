package analyze

import (
	"context"
	"errors"
	"fmt"
	"go/types"
	"reflect"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"typemeta/internal/diagnostic"
	"typemeta/typeinfo"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Diagnostic codes reported by the Analyzer.
const (
	CodePackageError      = "package-error"
	CodeInvalidType       = "invalid-type"
	CodeUnsupportedType   = "unsupported-type"
	CodeUnsupportedMember = "unsupported-member"
	CodeAlias             = "alias"
)

var (
	// ErrInvalidDeclaration marks a declaration that did not type-check,
	// directly or through a type it refers to.
	ErrInvalidDeclaration = errors.New("declaration did not type-check")

	ErrNoPackages = errors.New("no packages matched")
)

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger. The default logger discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(a *Analyzer) { a.log = log }
}

// WithContext sets the context passed to the go tool.
func WithContext(ctx context.Context) Option {
	return func(a *Analyzer) { a.ctx = ctx }
}

// WithDir sets the directory in which package patterns are resolved.
func WithDir(dir string) Option {
	return func(a *Analyzer) { a.dir = dir }
}

// Analyzer loads Go packages and registers their types in a Universe.
// An Analyzer is not safe for concurrent use; the Universe it fills is.
type Analyzer struct {
	u   *typeinfo.Universe
	log *zap.Logger
	ctx context.Context
	dir string

	named      map[*types.TypeName]*typeinfo.Type
	failed     map[*types.TypeName]error
	building   map[*types.TypeName]bool
	params     map[*types.TypeParam]*typeinfo.Type
	shapes     map[string]*typeinfo.Type
	candidates []*types.Named
	tags       map[*typeinfo.Member]reflect.StructTag
	diags      diagnostic.Diagnostics
}

// NewAnalyzer creates an Analyzer that registers types in u.
func NewAnalyzer(u *typeinfo.Universe, opts ...Option) *Analyzer {
	a := &Analyzer{
		u:        u,
		log:      zap.NewNop(),
		ctx:      context.Background(),
		named:    make(map[*types.TypeName]*typeinfo.Type),
		failed:   make(map[*types.TypeName]error),
		building: make(map[*types.TypeName]bool),
		params:   make(map[*types.TypeParam]*typeinfo.Type),
		shapes:   make(map[string]*typeinfo.Type),
		tags:     make(map[*typeinfo.Member]reflect.StructTag),
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Universe returns the registry the Analyzer fills.
func (a *Analyzer) Universe() *typeinfo.Universe { return a.u }

// Diagnostics returns what was reported by the loads so far.
func (a *Analyzer) Diagnostics() diagnostic.Diagnostics { return a.diags }

// LoadPackages loads the specified packages and converts the types they
// define. Patterns are standard Go package patterns (e.g., "./store",
// "typemeta/warehouse"). Type errors inside a package make its unit partial;
// list errors, such as a missing package, fail the load.
func (a *Analyzer) LoadPackages(patterns ...string) ([]*PackageUnit, error) {
	cfg := &packages.Config{
		Mode:    LoadMode,
		Context: a.ctx,
		Dir:     a.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("%v: %w", patterns, ErrNoPackages)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if e.Kind == packages.ListError || e.Kind == packages.UnknownError {
				errs = append(errs, e)
			}
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	a.collectInterfaces(pkgs)

	units := make([]*PackageUnit, 0, len(pkgs))
	for _, pkg := range pkgs {
		units = append(units, a.processPackage(pkg))
	}

	return units, nil
}

// processPackage converts the exported types of a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) *PackageUnit {
	unit := &PackageUnit{
		path: pkg.PkgPath,
		name: pkg.Name,
	}
	log := a.log.With(zap.String("package", pkg.PkgPath))

	for _, e := range pkg.Errors {
		unit.causes = append(unit.causes, e)
		a.diags.Add(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticWarning,
			Code:     CodePackageError,
			Message:  e.Msg,
			Subject:  pkg.PkgPath,
			Pos:      e.Pos,
		})
		log.Warn("package error", zap.String("pos", e.Pos), zap.String("error", e.Msg))
	}
	unit.partial = len(pkg.Errors) > 0

	if pkg.Types == nil {
		return unit
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !tn.Exported() {
			continue
		}
		if tn.IsAlias() {
			a.diags.AddInfo(CodeAlias, "alias does not define a type", pkg.PkgPath, name)
			continue
		}

		named, ok := tn.Type().(*types.Named)
		if !ok {
			continue
		}

		t, err := a.convertNamed(named)
		switch {
		case err == nil:
			unit.types = append(unit.types, t)
		case errors.Is(err, typeinfo.ErrUnsupportedType):
			a.diags.AddWarning(CodeUnsupportedType, err.Error(), pkg.PkgPath, name)
			log.Debug("skipped unsupported type", zap.String("type", name), zap.Error(err))
		default:
			unit.types = append(unit.types, nil)
			unit.causes = append(unit.causes, err)
			unit.partial = true
			a.diags.AddWarning(CodeInvalidType, err.Error(), pkg.PkgPath, name)
			log.Warn("type not resolved", zap.String("type", name), zap.Error(err))
		}
	}

	log.Debug("package converted",
		zap.Int("types", len(unit.types)),
		zap.Bool("partial", unit.partial))

	return unit
}

// Lookup returns the loaded type pkgPath.name. A missing type fails with
// ErrTypeNotFound.
func (a *Analyzer) Lookup(pkgPath, name string) (*typeinfo.Type, error) {
	id := typeinfo.TypeID{PkgPath: pkgPath, Name: name}
	t, ok := a.u.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrTypeNotFound)
	}

	return t, nil
}

// FieldTag returns the struct tag of a loaded field. Fields of
// instantiations share the tag of the field they were copied from.
func (a *Analyzer) FieldTag(m *typeinfo.Member) (FieldTag, bool) {
	if def := m.DeclaringType().GenericDefinition(); def != nil {
		m = def.Members()[m.Index()]
	}

	tag, ok := a.tags[m]
	if !ok {
		return FieldTag{}, false
	}

	return FieldTag{Name: m.Name(), Tag: tag}, true
}
