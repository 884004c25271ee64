package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/quarry/ast"
	"github.com/roach88/quarry/parser"
)

// VarsOptions holds flags for the vars command.
type VarsOptions struct {
	*RootOptions
	Expr string
}

// NewVarsCommand creates the vars command.
func NewVarsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VarsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "vars [file|-]",
		Short:         "List the distinct variables of a query in first-use order",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVars(opts, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Expr, "expr", "e", "", "inline query expression")

	return cmd
}

func runVars(opts *VarsOptions, cmd *cobra.Command, args []string) error {
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

	vars := ast.Vars(q)
	if formatter.Format == "json" {
		return formatter.Success(vars)
	}
	for _, v := range vars {
		fmt.Fprintf(formatter.Writer, "$%s\n", v)
	}
	return nil
}
