// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prereq

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by ParseError through errors.Is.
var (
	// ErrMalformedClause indicates a clause without a ':' or an "or better" marker.
	ErrMalformedClause = errors.New("malformed clause")
	// ErrUnbalancedParenthesis indicates a '(' without a matching ')' or the reverse.
	ErrUnbalancedParenthesis = errors.New("unbalanced parenthesis")
	// ErrRecursionLimit indicates parentheses nested deeper than the configured limit.
	ErrRecursionLimit = errors.New("recursion limit exceeded")
)

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	MalformedClause ErrorKind = iota + 1
	UnbalancedParenthesis
	RecursionLimitExceeded
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedClause:
		return "malformed clause"
	case UnbalancedParenthesis:
		return "unbalanced parenthesis"
	case RecursionLimitExceeded:
		return "recursion limit exceeded"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseError reports the first problem found in a prerequisite description.
// Offset is a byte offset into the input.
type ParseError struct {
	Kind   ErrorKind
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Msg)
}

// Is lets errors.Is match a ParseError against the package sentinels.
func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrMalformedClause:
		return e.Kind == MalformedClause
	case ErrUnbalancedParenthesis:
		return e.Kind == UnbalancedParenthesis
	case ErrRecursionLimit:
		return e.Kind == RecursionLimitExceeded
	}
	return false
}

func errorf(kind ErrorKind, offset int, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}
