package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quarry/parser"
)

func TestExitErrorCodes(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain error")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))
	assert.Equal(t, ExitFailure, GetExitCode(WrapExitError(ExitFailure, "parse", errors.New("inner"))))

	wrapped := fmt.Errorf("outer: %w", NewExitError(ExitCommandError, "inner"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
}

func TestExitErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := WrapExitError(ExitFailure, "context", inner)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "context: inner", err.Error())

	bare := NewExitError(ExitCommandError, "no cause")
	assert.Equal(t, "no cause", bare.Error())
}

func TestFormatterSuccessJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Success(map[string]int{"n": 3}))

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestFormatterErrorText(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Error(ErrCodeCatalog, "database locked", nil))
	assert.Equal(t, "Error [E004]: database locked\n", buf.String())
}

func TestParseFailureMapsCodes(t *testing.T) {
	tests := []struct {
		name string
		dsl  string
		code string
	}{
		{"lex", `triple($S, "unterminated`, ErrCodeLex},
		{"unknown op", `frobnicate($X)`, ErrCodeUnknownOp},
		{"arity", `limit(10)`, ErrCodeArity},
		{"arg kind", `limit($N, triple($S, $P, $O))`, ErrCodeArgKind},
		{"unterminated", `and(triple($S, $P, $O)`, ErrCodeUnterminated},
		{"trailing", `eq($X, 1) eq($Y, 2)`, ErrCodeTrailing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, perr := parser.Parse(tt.dsl)
			require.Error(t, perr)

			buf := &bytes.Buffer{}
			f := &OutputFormatter{Format: "json", Writer: buf}
			err := f.ParseFailure("<expr>", perr)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))

			var resp Response
			require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotNil(t, resp.Error.Offset)
		})
	}
}

func TestVerboseLogRouting(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}

	f.VerboseLog("loaded %d", 3)
	assert.Empty(t, out.String())
	assert.Equal(t, "loaded 3\n", errOut.String())

	f.Verbose = false
	f.VerboseLog("hidden")
	assert.Equal(t, "loaded 3\n", errOut.String())
}
