package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/quarry/parser"
	"github.com/roach88/quarry/wire"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Expr     string // inline expression (-e)
	Output   string // output file path
	WithID   bool   // print the content hash alongside the payload
	Envelope bool   // wrap the payload in a request envelope
	Org      string
	DB       string
	Branch   string
	Commit   string
}

// CompileResult is the JSON-format payload of a successful compile.
type CompileResult struct {
	ID      string `json:"id,omitempty"`
	Payload string `json:"payload"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [file|-]",
		Short: "Compile a DSL query to canonical wire JSON",
		Long: `Compile a query expression to the canonical JSON-LD wire payload.

The payload is emitted as canonical bytes: sorted keys, no insignificant
whitespace, byte-for-byte stable across runs.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Expr, "expr", "e", "", "inline query expression")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().BoolVar(&opts.WithID, "id", false, "print the content hash of the payload")
	cmd.Flags().BoolVar(&opts.Envelope, "envelope", false, "wrap the payload in a request envelope")
	cmd.Flags().StringVar(&opts.Org, "org", "", "envelope organization")
	cmd.Flags().StringVar(&opts.DB, "db", "", "envelope database")
	cmd.Flags().StringVar(&opts.Branch, "branch", "", "envelope branch")
	cmd.Flags().StringVar(&opts.Commit, "commit", "", "envelope commit")

	return cmd
}

func runCompile(opts *CompileOptions, cmd *cobra.Command, args []string) error {
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

	data, hash, err := compileSource(formatter, name, source, opts)
	if err != nil {
		return err
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, append(data, '\n'), 0644); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing %s: %v", opts.Output, err), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("writing %s", opts.Output), err)
		}
		formatter.VerboseLog("Wrote payload to %s", opts.Output)
	}

	if opts.Format == "json" {
		result := CompileResult{Payload: string(data)}
		if opts.WithID {
			result.ID = hash
		}
		return formatter.Success(result)
	}

	if opts.Output == "" {
		fmt.Fprintln(formatter.Writer, string(data))
	}
	if opts.WithID {
		fmt.Fprintln(formatter.Writer, hash)
	}
	return nil
}

// compileSource parses and serializes one query, returning canonical
// payload bytes and the content hash.
func compileSource(formatter *OutputFormatter, name, source string, opts *CompileOptions) ([]byte, string, error) {
	q, err := parser.Parse(strings.TrimSpace(source))
	if err != nil {
		return nil, "", formatter.ParseFailure(name, err)
	}

	if opts != nil && opts.Envelope {
		env, err := wire.NewEnvelope(q, opts.Org, opts.DB)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return nil, "", WrapExitError(ExitFailure, "building envelope", err)
		}
		if opts.Branch != "" {
			env = env.OnBranch(opts.Branch)
		}
		if opts.Commit != "" {
			env = env.AtCommit(opts.Commit)
		}
		data, err := env.MarshalCanonical()
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return nil, "", WrapExitError(ExitFailure, "marshaling envelope", err)
		}
		return data, wire.PayloadID(data), nil
	}

	data, err := wire.Marshal(q)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return nil, "", WrapExitError(ExitFailure, "serializing query", err)
	}

	return data, wire.PayloadID(data), nil
}
