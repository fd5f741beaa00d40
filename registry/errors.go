package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSpec is returned by Lookup when no specification with the
	// requested name has been loaded.
	ErrUnknownSpec = errors.New("registry: unknown specification")

	// ErrDuplicateSpec is returned by Load when a document defines a name
	// already present in the registry.
	ErrDuplicateSpec = errors.New("registry: duplicate specification")

	// ErrInvalidSpec is returned by Load when a specification violates a
	// structural rule (malformed property groups, conflicting presence
	// constraints, bad field types).
	ErrInvalidSpec = errors.New("registry: invalid specification")
)

// invalidSpecf wraps ErrInvalidSpec with positional context.
func invalidSpecf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSpec, fmt.Sprintf(format, args...))
}
