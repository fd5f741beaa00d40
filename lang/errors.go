package lang

import (
	"errors"
	"fmt"
)

// ErrSyntax is the sentinel wrapped by every *SyntaxError. Callers branch
// with errors.Is(err, lang.ErrSyntax) and inspect the concrete error for
// position information.
var ErrSyntax = errors.New("lang: syntax error")

// SyntaxError reports a malformed token or construct, pointing at the
// 1-based line/column where it was found.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("lang: %d:%d: %s", e.Line, e.Column, e.Msg)
}

// Unwrap ties SyntaxError into the ErrSyntax sentinel chain.
func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// syntaxErrorf builds a positioned *SyntaxError.
func syntaxErrorf(line, col int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Line: line, Column: col, Msg: fmt.Sprintf(format, args...)}
}
