package layout

import (
	"fmt"

	"ember/internal/types"
)

// ErrorKind enumerates layout failures.
type ErrorKind uint8

const (
	ErrFunctionType ErrorKind = iota + 1
	ErrUnresolvedStruct
	ErrRecursive
	ErrTooLarge
	ErrInvalidType
)

// Error reports why a type has no layout.
type Error struct {
	Kind ErrorKind
	Type types.TypeID
	Name string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrFunctionType:
		return fmt.Sprintf("function type %s has no size", e.Name)
	case ErrUnresolvedStruct:
		return fmt.Sprintf("struct %s is not resolved yet", e.Name)
	case ErrRecursive:
		return fmt.Sprintf("type %s contains itself", e.Name)
	case ErrTooLarge:
		return fmt.Sprintf("type %s is too large", e.Name)
	default:
		return fmt.Sprintf("invalid type #%d", e.Type)
	}
}
