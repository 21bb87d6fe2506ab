package typeinfo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAmbiguousMember is returned when more than one member with the
	// requested name is visible where exactly one was expected.
	ErrAmbiguousMember = errors.New("ambiguous member lookup")

	// ErrNoSequenceElementType is returned by GetSequenceElementType when the
	// type implements no unique sequence shape.
	ErrNoSequenceElementType = errors.New("no sequence element type")

	ErrDuplicateType         = errors.New("duplicate type")
	ErrDuplicateMember       = errors.New("duplicate member")
	ErrNotGenericDefinition  = errors.New("not a generic definition")
	ErrTypeArgumentCount     = errors.New("wrong number of type arguments")
	ErrInvalidTypeArgument   = errors.New("invalid type argument")
	ErrUnknownTypeParameter  = errors.New("unknown type parameter")
	ErrInvalidBase           = errors.New("invalid base type")
	ErrInvalidInterface      = errors.New("invalid interface")
	ErrInvalidEnumUnderlying = errors.New("enumeration underlying type must be an integer kind")
	ErrNotEnum               = errors.New("not an enumeration")
	ErrInvalidPrimitive      = errors.New("primitive representation requires a plain value type")
	ErrForeignType           = errors.New("type belongs to another universe")
	ErrUnsupportedType       = errors.New("unsupported type")
)

// PartialLoadError reports that some entries of a unit could not be resolved.
// Types holds every entry in definition order, with nil for the ones that
// failed; Causes holds the underlying failures.
type PartialLoadError struct {
	Unit   string
	Types  []*Type
	Causes []error
}

func (e *PartialLoadError) Error() string {
	resolved := 0
	for _, t := range e.Types {
		if t != nil {
			resolved++
		}
	}

	msg := fmt.Sprintf("unit %s partially loaded: %d of %d types resolved", e.Unit, resolved, len(e.Types))
	if len(e.Causes) == 0 {
		return msg
	}

	causes := make([]string, len(e.Causes))
	for i, c := range e.Causes {
		causes[i] = c.Error()
	}

	return msg + ": " + strings.Join(causes, "; ")
}

func (e *PartialLoadError) Unwrap() []error {
	return e.Causes
}
