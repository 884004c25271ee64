package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/quarry/ast"
	"github.com/roach88/quarry/parser"
)

// FmtOptions holds flags for the fmt command.
type FmtOptions struct {
	*RootOptions
	Expr  string
	Write bool // rewrite the input file in place
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FmtOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "fmt [file|-]",
		Short:         "Reprint a query in canonical form",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(opts, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Expr, "expr", "e", "", "inline query expression")
	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "rewrite the input file in place")

	return cmd
}

func runFmt(opts *FmtOptions, cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	source, name, err := ReadSource(cmd, args, opts.Expr)
	if err != nil {
		_ = formatter.Error(ErrCodeReadFailed, err.Error(), nil)
		return err
	}

	q, err := parser.Parse(strings.TrimSpace(source))
	if err != nil {
		return formatter.ParseFailure(name, err)
	}

	text := ast.Print(q)

	if opts.Write {
		if name == "<stdin>" || name == "<expr>" {
			return NewExitError(ExitCommandError, "-w requires a file argument")
		}
		if err := os.WriteFile(name, []byte(text+"\n"), 0644); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing %s: %v", name, err), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("writing %s", name), err)
		}
		formatter.VerboseLog("Rewrote %s", name)
		return nil
	}

	return formatter.Success(text)
}
