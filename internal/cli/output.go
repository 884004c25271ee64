package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/quarry/parser"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // successful execution
	ExitFailure      = 1 // input failure (parse error, schema violation, unknown prefix)
	ExitCommandError = 2 // command error (bad flags, missing files, catalog unavailable)
)

// ExitError carries a specific process exit code out of a command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLI error codes. Parse errors map one-to-one onto the parser's codes.
const (
	ErrCodeGeneric      = "E001" // unknown error
	ErrCodeReadFailed   = "E002" // input file unreadable
	ErrCodeWriteFailed  = "E003" // output file unwritable
	ErrCodeCatalog      = "E004" // catalog operation failed
	ErrCodeNotFound     = "E005" // named query not found
	ErrCodeLex          = "E101" // tokenizer error
	ErrCodeUnknownOp    = "E102" // unknown operation name
	ErrCodeArity        = "E103" // wrong argument count
	ErrCodeArgKind      = "E104" // argument kind mismatch
	ErrCodeUnterminated = "E105" // unterminated call or list
	ErrCodeTrailing     = "E106" // trailing input after query
	ErrCodeSchema       = "E201" // payload rejected by wire schema
	ErrCodePrefix       = "E202" // node reference uses an unknown prefix
)

// MapParseErrorCode translates a parser error code to a CLI error code.
func MapParseErrorCode(code parser.ErrorCode) string {
	switch code {
	case parser.CodeLex:
		return ErrCodeLex
	case parser.CodeUnknownOp:
		return ErrCodeUnknownOp
	case parser.CodeArity:
		return ErrCodeArity
	case parser.CodeArgKind:
		return ErrCodeArgKind
	case parser.CodeUnterminated:
		return ErrCodeUnterminated
	case parser.CodeTrailing:
		return ErrCodeTrailing
	}
	return ErrCodeGeneric
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostic output; defaults to Writer
	Verbose   bool
}

// Response is the standard JSON envelope for CLI output.
type Response struct {
	Status string      `json:"status"` // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`
	Error  *CLIError   `json:"error,omitempty"`
}

// CLIError is the error structure for JSON responses.
type CLIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Offset  *int        `json:"offset,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{
			Status: "ok",
			Data:   data,
		})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// ParseFailure reports a parse error with its byte offset and returns
// an ExitError with ExitFailure. Parse errors are input failures, not
// command errors.
func (f *OutputFormatter) ParseFailure(source string, err error) error {
	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		_ = f.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, err.Error(), err)
	}

	code := MapParseErrorCode(perr.Code)
	if f.Format == "json" {
		offset := perr.Offset
		_ = json.NewEncoder(f.Writer).Encode(Response{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: perr.Message,
				Offset:  &offset,
			},
		})
	} else {
		fmt.Fprintf(f.Writer, "%s: offset %d\n", source, perr.Offset)
		fmt.Fprintf(f.Writer, "  %s: %s\n", code, perr.Message)
	}
	return WrapExitError(ExitFailure, fmt.Sprintf("%s: %s", code, perr.Message), err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// When format is JSON, verbose logs go to ErrWriter to avoid
// corrupting the JSON stream.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
