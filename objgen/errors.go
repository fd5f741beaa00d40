package objgen

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTypeMismatch is returned when a constant, semantics result,
	// reference target or alternative does not match the declared type.
	ErrTypeMismatch = errors.New("objgen: type mismatch")

	// ErrCyclicReference is returned when "ref" or "import" chains loop.
	ErrCyclicReference = errors.New("objgen: cyclic reference")

	// ErrInvalidWeights is returned for malformed weighted choices.
	ErrInvalidWeights = errors.New("objgen: invalid weights")

	// ErrSemanticsMismatch is returned when a semantics hook produces a
	// value of the wrong declared type.
	ErrSemanticsMismatch = errors.New("objgen: semantics result type mismatch")

	// ErrInvalidReference is returned when a value co-constraint names a
	// property the specification does not define itself (imported
	// properties are out of range).
	ErrInvalidReference = errors.New("objgen: co-constraint references undefined property")

	// ErrInvalidSpec is returned for specifications that pass load-time
	// validation but cannot be generated, such as an empty numeric range
	// after integer rounding or an array without an item specification.
	ErrInvalidSpec = errors.New("objgen: invalid specification")
)

// CyclicReferenceError reports the chain of specification names that led
// back to one already being generated.
type CyclicReferenceError struct {
	// Stack lists the names from the outermost specification to the one
	// that closed the cycle.
	Stack []string
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("objgen: cyclic reference: %s", strings.Join(e.Stack, " > "))
}

// Unwrap links the error to ErrCyclicReference for errors.Is checks.
func (e *CyclicReferenceError) Unwrap() error { return ErrCyclicReference }
