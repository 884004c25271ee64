package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// ReadSource resolves the DSL source for a command. Precedence: an
// explicit -e expression wins; otherwise the positional argument is a
// file path, with "-" meaning stdin. The returned name labels the
// source in diagnostics.
func ReadSource(cmd *cobra.Command, args []string, expr string) (source, name string, err error) {
	if expr != "" {
		return expr, "<expr>", nil
	}
	if len(args) == 0 {
		return "", "", NewExitError(ExitCommandError, "no input: provide a file path, \"-\" for stdin, or -e <expr>")
	}
	path := args[0]
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", WrapExitError(ExitCommandError, "reading stdin", err)
		}
		return string(data), "<stdin>", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", WrapExitError(ExitCommandError, fmt.Sprintf("%s: reading %s", ErrCodeReadFailed, path), err)
	}
	return string(data), path, nil
}
