package rowkey

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyExpression     = errors.New("empty row key expression")
	ErrEmptyTerm           = errors.New("empty term")
	ErrUnterminatedLiteral = errors.New("unterminated literal")
	ErrUnbalanced          = errors.New("unbalanced parenthesis")
	ErrUnknownFunction     = errors.New("unknown function")
)

// Error wraps a sentinel error with the position it was found at
type Error struct {
	err     error
	context string
}

// Error satisfies the error interface
func (e *Error) Error() string {
	if e.context == "" {
		return e.err.Error()
	}
	return fmt.Sprintf("%s: %s", e.err.Error(), e.context)
}

// Unwrap implements the errors.Unwrap interface for compatibility with errors.Is/As
func (e *Error) Unwrap() error {
	return e.err
}

func newError(err error, format string, args ...interface{}) *Error {
	return &Error{
		err:     err,
		context: fmt.Sprintf(format, args...),
	}
}
