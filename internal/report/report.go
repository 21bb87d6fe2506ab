package report

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"typemeta/internal/analyze"
	"typemeta/internal/diagnostic"
	"typemeta/typeinfo"
	"typemeta/utils"
)

// TypeReport describes one type.
type TypeReport struct {
	Name         string         `yaml:"name"`
	Kind         string         `yaml:"kind"`
	Abstract     bool           `yaml:"abstract,omitempty"`
	Generic      []string       `yaml:"generic,omitempty"`
	Base         string         `yaml:"base,omitempty"`
	Interfaces   []string       `yaml:"interfaces,omitempty"`
	Enum         []EnumEntry    `yaml:"enum,omitempty"`
	Element      string         `yaml:"element,omitempty"`
	Default      string         `yaml:"default"`
	Members      []MemberReport `yaml:"members,omitempty"`
	Constructors []string       `yaml:"constructors,omitempty"`
	Paths        []string       `yaml:"paths,omitempty"`
	Diagnostics  []string       `yaml:"diagnostics,omitempty"`
}

// EnumEntry is a named constant of an enumeration.
type EnumEntry struct {
	Name  string `yaml:"name"`
	Value int64  `yaml:"value"`
}

// MemberReport describes a field or property.
type MemberReport struct {
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"`
	Type      string `yaml:"type"`
	Static    bool   `yaml:"static,omitempty"`
	Declaring string `yaml:"declaring,omitempty"`
	JSON      string `yaml:"json,omitempty"`
}

// UnitReport describes the types of one loaded package.
type UnitReport struct {
	Package string       `yaml:"package"`
	Outcome string       `yaml:"outcome"`
	Skipped int          `yaml:"skipped,omitempty"`
	Types   []TypeReport `yaml:"types"`
}

// Option configures a Builder.
type Option func(*Builder)

// WithInherited lists inherited members next to declared ones.
func WithInherited(inherited bool) Option {
	return func(b *Builder) { b.inherited = inherited }
}

// WithMaxDepth sets how deep member paths are expanded. Zero disables paths.
func WithMaxDepth(depth int) Option {
	return func(b *Builder) { b.maxDepth = depth }
}

// Builder turns descriptors loaded by an Analyzer into reports.
type Builder struct {
	analyzer  *analyze.Analyzer
	stringer  *analyze.TypeStringer
	inherited bool
	maxDepth  int
	bySubject map[string]*[]string
}

// NewBuilder creates a Builder over the types and diagnostics of a.
func NewBuilder(a *analyze.Analyzer, opts ...Option) *Builder {
	b := &Builder{
		analyzer:  a,
		stringer:  analyze.NewTypeStringer(),
		inherited: true,
		bySubject: make(map[string]*[]string),
	}
	for _, opt := range opts {
		opt(b)
	}

	diags := a.Diagnostics()
	for _, d := range diags.All() {
		lines := utils.GetOrAddNew(b.bySubject, d.Subject)
		*lines = append(*lines, d.String())
	}

	return b
}

// Unit describes the types of unit. Unresolved declarations are counted, not
// listed.
func (b *Builder) Unit(unit typeinfo.Unit) (UnitReport, error) {
	loaded, err := typeinfo.LoadDefinedTypes(unit)
	if err != nil {
		return UnitReport{}, err
	}

	r := UnitReport{
		Package: unit.Name(),
		Outcome: loaded.Outcome.String(),
		Skipped: loaded.Skipped,
		Types:   make([]TypeReport, 0, len(loaded.Types)),
	}
	for _, t := range loaded.Types {
		r.Types = append(r.Types, b.Type(t))
	}

	return r, nil
}

// Type describes t.
func (b *Builder) Type(t *typeinfo.Type) TypeReport {
	r := TypeReport{
		Name:     b.stringer.TypeString(t),
		Kind:     t.Kind().String(),
		Abstract: t.IsAbstract() && t.Kind() != typeinfo.KindInterface,
		Default:  FormatDefault(typeinfo.DefaultValueOf(t)),
	}
	if lines := utils.Find(b.bySubject, t.ID().String()); lines != nil {
		r.Diagnostics = *lines
	}

	for _, p := range t.TypeParams() {
		r.Generic = append(r.Generic, p.ID().Name)
	}
	if base := t.Base(); base != nil && base != t.Universe().Object() {
		r.Base = b.stringer.TypeString(base)
	}
	for _, iface := range t.Interfaces() {
		r.Interfaces = append(r.Interfaces, b.stringer.TypeString(iface))
	}
	for _, v := range t.EnumValues() {
		r.Enum = append(r.Enum, EnumEntry{Name: v.Name, Value: v.Value})
	}
	if elem, ok := typeinfo.TryGetSequenceElementType(t); ok {
		r.Element = b.stringer.TypeString(elem)
	}

	r.Members = b.Members(t)

	for _, c := range t.Constructors() {
		params := make([]string, len(c.Params()))
		for i, p := range c.Params() {
			params[i] = b.stringer.TypeString(p)
		}
		sig := "(" + strings.Join(params, ", ") + ")"
		if c.IsStatic() {
			sig = "static " + sig
		}
		r.Constructors = append(r.Constructors, sig)
	}

	if b.maxDepth > 0 && !t.IsGenericDefinition() {
		paths := b.stringer.BuildFieldPaths(t, b.maxDepth)
		r.Paths = slices.Sorted(maps.Keys(paths))
	}

	return r
}

// Members describes the members of t: the visible instance members when
// inherited members are listed, the declared ones otherwise.
func (b *Builder) Members(t *typeinfo.Type) []MemberReport {
	var members []*typeinfo.Member
	if b.inherited {
		members = slices.Collect(typeinfo.AllInstanceMembers(t))
	} else {
		members = t.Members()
	}

	out := make([]MemberReport, 0, len(members))
	for _, m := range members {
		out = append(out, b.Member(t, m))
	}

	return out
}

// Member describes m as seen from t.
func (b *Builder) Member(t *typeinfo.Type, m *typeinfo.Member) MemberReport {
	r := MemberReport{
		Name:   m.Name(),
		Kind:   m.MemberKind().String(),
		Type:   b.stringer.TypeString(m.Type()),
		Static: m.IsStatic(),
	}
	if m.DeclaringType() != t {
		r.Declaring = b.stringer.TypeString(m.DeclaringType())
	}
	if tag, ok := b.analyzer.FieldTag(m); ok && tag.HasTag("json") {
		r.JSON = tag.JSONName()
	}

	return r
}

// DiagnosticLines renders diagnostics one per line, errors first.
func DiagnosticLines(d diagnostic.Diagnostics) []string {
	all := d.All()
	out := make([]string, len(all))
	for i, diag := range all {
		out[i] = diag.Severity.String() + ": " + diag.String()
	}

	return out
}

// FormatDefault renders a value returned by typeinfo.DefaultValueOf.
func FormatDefault(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case typeinfo.Zero:
		return v.Type.String() + "{}"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Write encodes v as YAML.
func Write(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	return enc.Close()
}
