package analyze

import (
	"strings"

	"typemeta/internal/common"
	"typemeta/typeinfo"
)

// TypePath builds a readable path string for a member.
// Examples:
//   - "Order" for the root type
//   - "Order.Items" for a member
//   - "Order.Items[]" for the elements of a sequence member
//   - "Order.Items[].ProductID" for a member of the elements
type TypePath struct {
	parts []string
}

// NewTypePath creates a new TypePath from a root type name.
func NewTypePath(root string) *TypePath {
	return &TypePath{
		parts: []string{root},
	}
}

// Field appends a member name to the path.
func (p *TypePath) Field(name string) *TypePath {
	return &TypePath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// Slice appends a sequence indicator "[]" to the path.
func (p *TypePath) Slice() *TypePath {
	if len(p.parts) == 0 {
		return &TypePath{parts: []string{"[]"}}
	}
	newParts := make([]string, len(p.parts))
	copy(newParts, p.parts)
	newParts[len(newParts)-1] = newParts[len(newParts)-1] + "[]"
	return &TypePath{parts: newParts}
}

// String returns the full path string.
func (p *TypePath) String() string {
	return strings.Join(p.parts, ".")
}

// TypeStringer renders descriptors produced by the Analyzer in Go syntax.
type TypeStringer struct{}

// NewTypeStringer creates a new TypeStringer.
func NewTypeStringer() *TypeStringer {
	return &TypeStringer{}
}

// TypeString returns a human-readable string representation of a descriptor.
// Optional values print as pointers, loader shapes as the Go composite they
// stand for and declared types as pkg.Name.
func (s *TypeStringer) TypeString(t *typeinfo.Type) string {
	if t == nil {
		return "<nil>"
	}

	if t.Kind() == typeinfo.KindTypeParameter {
		return t.ID().Name
	}

	u := t.Universe()
	if t == u.Bytes() {
		return "[]byte"
	}
	if t == u.Object() {
		return "any"
	}

	def := t.GenericDefinition()
	if def == nil {
		switch {
		case t.ID().PkgPath != "":
			return s.qualified(t.ID(), nil)
		case t.ID().Name == shapeFunc:
			return "func(...)"
		case t.Primitive().IsValid() && t.GoType() != nil:
			return t.GoType().String()
		}
		return t.ID().Name
	}

	args := t.TypeArgs()
	if def == u.Optional() {
		return "*" + s.TypeString(args[0])
	}

	if def.ID().PkgPath == "" {
		switch def.ID().Name {
		case shapeSlice:
			return "[]" + s.TypeString(args[0])
		case shapeArray:
			return "[...]" + s.TypeString(args[0])
		case shapeMap:
			return "map[" + s.TypeString(args[0]) + "]" + s.TypeString(args[1])
		case shapeChan:
			return "chan " + s.TypeString(args[0])
		case shapeSendChan:
			return "chan<- " + s.TypeString(args[0])
		case shapeSeq:
			return "iter.Seq[" + s.TypeString(args[0]) + "]"
		}
	}

	return s.qualified(def.ID(), args)
}

func (s *TypeStringer) qualified(id typeinfo.TypeID, args []*typeinfo.Type) string {
	var sb strings.Builder
	sb.WriteString(common.Qualify(id.PkgPath, id.Name))

	if len(args) > 0 {
		sb.WriteByte('[')
		for i, a := range args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(s.TypeString(a))
		}
		sb.WriteByte(']')
	}

	return sb.String()
}

// BuildFieldPaths recursively builds the paths of every instance member
// reachable from root, inherited members included.
// Returns a map of path string to member.
func (s *TypeStringer) BuildFieldPaths(root *typeinfo.Type, maxDepth int) map[string]*typeinfo.Member {
	result := make(map[string]*typeinfo.Member)
	if root == nil || root.Kind() == typeinfo.KindInterface || root.Kind() == typeinfo.KindTypeParameter {
		return result
	}

	rootName := root.ID().Name
	if rootName == "" {
		rootName = "root"
	}

	s.buildFieldPathsRecursive(root, NewTypePath(rootName), result, 0, maxDepth)
	return result
}

func (s *TypeStringer) buildFieldPathsRecursive(t *typeinfo.Type, path *TypePath, result map[string]*typeinfo.Member, depth, maxDepth int) {
	if depth > maxDepth || t == nil {
		return
	}

	for m := range typeinfo.AllInstanceMembers(t) {
		memberPath := path.Field(m.Name())

		// Store the member at this path
		result[memberPath.String()] = m

		s.processNestedType(m.Type(), memberPath, result, depth+1, maxDepth)
	}
}

func (s *TypeStringer) processNestedType(t *typeinfo.Type, path *TypePath, result map[string]*typeinfo.Member, depth, maxDepth int) {
	if t == nil || depth > maxDepth {
		return
	}

	if inner := typeinfo.UnwrapOptional(t); inner != t {
		s.processNestedType(inner, path, result, depth, maxDepth)
		return
	}

	if elem, ok := typeinfo.TryGetSequenceElementType(t); ok {
		s.processNestedType(elem, path.Slice(), result, depth, maxDepth)
		return
	}

	switch {
	case t.Primitive().IsValid(), t.IsEnum(), t.Kind() == typeinfo.KindInterface, t.Kind() == typeinfo.KindTypeParameter:
		// Terminal types - nothing to recurse into
	default:
		s.buildFieldPathsRecursive(t, path, result, depth, maxDepth)
	}
}
