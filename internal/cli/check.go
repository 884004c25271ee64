package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/quarry/ast"
	"github.com/roach88/quarry/parser"
	"github.com/roach88/quarry/wire"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Expr     string
	Prefixes string // YAML prefix table path
	Schema   bool   // validate the payload against the wire schema
}

// CheckReport is the JSON-format payload of a check run.
type CheckReport struct {
	Variables       []string `json:"variables"`
	NodeRefs        int      `json:"node_refs"`
	UnknownPrefixes []string `json:"unknown_prefixes,omitempty"`
	SchemaValid     *bool    `json:"schema_valid,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check [file|-]",
		Short: "Parse a query and report its variables and node references",
		Long: `Parse a query, report its variables, and optionally validate node
reference prefixes against a YAML prefix table and the compiled payload
against the wire schema.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Expr, "expr", "e", "", "inline query expression")
	cmd.Flags().StringVar(&opts.Prefixes, "prefixes", "", "YAML prefix table to check node references against")
	cmd.Flags().BoolVar(&opts.Schema, "schema", false, "validate the compiled payload against the wire schema")

	return cmd
}

func runCheck(opts *CheckOptions, cmd *cobra.Command, args []string) error {
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

	report := CheckReport{Variables: ast.Vars(q)}
	ast.WalkValues(q, func(v ast.Value) {
		if s, ok := v.(ast.Str); ok && s.IsNode() {
			report.NodeRefs++
		}
	})

	if opts.Prefixes != "" {
		table, err := LoadPrefixTable(opts.Prefixes)
		if err != nil {
			_ = formatter.Error(ErrCodeReadFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "loading prefix table", err)
		}
		report.UnknownPrefixes = table.CheckPrefixes(q)
	}

	if opts.Schema {
		data, err := wire.Marshal(q)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitFailure, "serializing query", err)
		}
		valid := true
		if err := wire.ValidatePayload(data); err != nil {
			valid = false
			formatter.VerboseLog("schema: %v", err)
		}
		report.SchemaValid = &valid
	}

	if err := outputCheckReport(formatter, report); err != nil {
		return err
	}

	if len(report.UnknownPrefixes) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d node reference(s) with unknown prefixes", len(report.UnknownPrefixes)))
	}
	if report.SchemaValid != nil && !*report.SchemaValid {
		return NewExitError(ExitFailure, "payload rejected by wire schema")
	}
	return nil
}

func outputCheckReport(formatter *OutputFormatter, report CheckReport) error {
	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	if len(report.Variables) == 0 {
		fmt.Fprintln(formatter.Writer, "Variables: none")
	} else {
		fmt.Fprintf(formatter.Writer, "Variables: %s\n", strings.Join(report.Variables, ", "))
	}
	fmt.Fprintf(formatter.Writer, "Node references: %d\n", report.NodeRefs)

	if len(report.UnknownPrefixes) > 0 {
		fmt.Fprintln(formatter.Writer, "Unknown prefixes:")
		for _, ref := range report.UnknownPrefixes {
			fmt.Fprintf(formatter.Writer, "  %s\n", ref)
		}
	}
	if report.SchemaValid != nil {
		if *report.SchemaValid {
			fmt.Fprintln(formatter.Writer, "Schema: ok")
		} else {
			fmt.Fprintln(formatter.Writer, "Schema: invalid")
		}
	}
	return nil
}
