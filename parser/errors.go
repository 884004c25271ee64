package parser

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes parse failures.
type ErrorCode string

const (
	// CodeLex indicates an unterminated string or unrecognized character.
	CodeLex ErrorCode = "LEX"

	// CodeUnknownOp indicates an identifier that is not an operation name.
	CodeUnknownOp ErrorCode = "UNKNOWN_OP"

	// CodeArity indicates the wrong number of arguments to a known operation.
	CodeArity ErrorCode = "ARITY"

	// CodeArgKind indicates an argument of the wrong kind, e.g. a nested
	// query where a value is expected.
	CodeArgKind ErrorCode = "ARG_KIND"

	// CodeUnterminated indicates a missing closing parenthesis or bracket;
	// Offset points at the unmatched opener.
	CodeUnterminated ErrorCode = "UNTERMINATED"

	// CodeTrailing indicates tokens after the single top-level query.
	CodeTrailing ErrorCode = "TRAILING"
)

// ParseError is the single error type for everything this package
// reports. A parse failure is terminal for the whole parse: no partial
// AST is returned alongside one.
type ParseError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Offset is the byte offset the error refers to. For CodeUnterminated
	// it is the position of the unmatched opener.
	Offset int

	// Op names the operation being parsed, when one is in scope.
	Op string

	// Expected and Found describe the mismatch for CodeArity and
	// CodeArgKind (counts or kind names).
	Expected string
	Found    string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("offset %d: %s: %s: %s", e.Offset, e.Code, e.Op, e.Message)
	}
	return fmt.Sprintf("offset %d: %s: %s", e.Offset, e.Code, e.Message)
}

func lexError(offset int, ch byte, msg string) error {
	found := "end of input"
	if ch != 0 {
		found = fmt.Sprintf("%q", string(ch))
	}
	return &ParseError{
		Code:    CodeLex,
		Message: fmt.Sprintf("%s (at %s)", msg, found),
		Offset:  offset,
		Found:   found,
	}
}

func codeIs(err error, code ErrorCode) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// IsLexError reports whether err is a tokenizer error.
func IsLexError(err error) bool { return codeIs(err, CodeLex) }

// IsUnknownOp reports whether err is an unknown-operation error.
func IsUnknownOp(err error) bool { return codeIs(err, CodeUnknownOp) }

// IsArityError reports whether err is a wrong-argument-count error.
func IsArityError(err error) bool { return codeIs(err, CodeArity) }

// IsArgKindError reports whether err is a wrong-argument-kind error.
func IsArgKindError(err error) bool { return codeIs(err, CodeArgKind) }

// IsUnterminated reports whether err is an unclosed-delimiter error.
func IsUnterminated(err error) bool { return codeIs(err, CodeUnterminated) }
