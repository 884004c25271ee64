package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/quarry/ast"
	"github.com/roach88/quarry/internal/catalog"
	"github.com/roach88/quarry/parser"
)

// CatalogOptions holds flags shared by the catalog commands.
type CatalogOptions struct {
	*RootOptions
	Catalog string // catalog database path
}

const defaultCatalogPath = "quarry.db"

func addCatalogFlag(cmd *cobra.Command, opts *CatalogOptions) {
	cmd.Flags().StringVar(&opts.Catalog, "catalog", defaultCatalogPath, "catalog database path")
}

func openCatalog(formatter *OutputFormatter, path string) (*catalog.Catalog, error) {
	c, err := catalog.Open(path)
	if err != nil {
		_ = formatter.Error(ErrCodeCatalog, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "opening catalog", err)
	}
	return c, nil
}

// SaveOptions holds flags for the save command.
type SaveOptions struct {
	CatalogOptions
	Expr string
}

// SaveResult is the JSON-format payload of a successful save.
type SaveResult struct {
	Name string `json:"name"`
	Hash string `json:"hash"`
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaveOptions{CatalogOptions: CatalogOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:           "save <name> [file|-]",
		Short:         "Compile a query and save it to the catalog under a name",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(opts, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Expr, "expr", "e", "", "inline query expression")
	addCatalogFlag(cmd, &opts.CatalogOptions)

	return cmd
}

func runSave(opts *SaveOptions, cmd *cobra.Command, args []string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	queryName := args[0]
	source, name, err := ReadSource(cmd, args[1:], opts.Expr)
	if err != nil {
		_ = formatter.Error(ErrCodeReadFailed, err.Error(), nil)
		return err
	}

	q, err := parser.Parse(strings.TrimSpace(source))
	if err != nil {
		return formatter.ParseFailure(name, err)
	}

	// Store the canonical rendering, not the raw input, so saved DSL
	// text round-trips exactly.
	dsl := ast.Print(q)
	payload, hash, err := compileSource(formatter, name, dsl, nil)
	if err != nil {
		return err
	}

	c, err := openCatalog(formatter, opts.Catalog)
	if err != nil {
		return err
	}
	defer c.Close()

	if _, err := c.Put(cmd.Context(), queryName, dsl, payload); err != nil {
		_ = formatter.Error(ErrCodeCatalog, err.Error(), nil)
		return WrapExitError(ExitCommandError, "saving query", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(SaveResult{Name: queryName, Hash: hash})
	}
	fmt.Fprintf(formatter.Writer, "Saved %s (%s)\n", queryName, hash)
	return nil
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List saved queries",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	addCatalogFlag(cmd, opts)

	return cmd
}

func runList(opts *CatalogOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	c, err := openCatalog(formatter, opts.Catalog)
	if err != nil {
		return err
	}
	defer c.Close()

	entries, err := c.List(cmd.Context())
	if err != nil {
		_ = formatter.Error(ErrCodeCatalog, err.Error(), nil)
		return WrapExitError(ExitCommandError, "listing queries", err)
	}

	if formatter.Format == "json" {
		type listEntry struct {
			Name string `json:"name"`
			Hash string `json:"hash"`
			DSL  string `json:"dsl"`
		}
		out := make([]listEntry, len(entries))
		for i, e := range entries {
			out[i] = listEntry{Name: e.Name, Hash: e.Hash, DSL: e.DSL}
		}
		return formatter.Success(out)
	}

	for _, e := range entries {
		fmt.Fprintf(formatter.Writer, "%s  %s  %s\n", e.Name, e.Hash[:12], e.DSL)
	}
	return nil
}

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	CatalogOptions
	Payload bool // print the wire payload instead of the DSL text
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{CatalogOptions: CatalogOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:           "show <name>",
		Short:         "Show a saved query",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Payload, "payload", false, "print the wire payload instead of the DSL text")
	addCatalogFlag(cmd, &opts.CatalogOptions)

	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command, name string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	c, err := openCatalog(formatter, opts.Catalog)
	if err != nil {
		return err
	}
	defer c.Close()

	e, err := c.Get(cmd.Context(), name)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("no saved query named %q", name), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("no saved query named %q", name), err)
		}
		_ = formatter.Error(ErrCodeCatalog, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading query", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]string{
			"name":    e.Name,
			"hash":    e.Hash,
			"dsl":     e.DSL,
			"payload": string(e.Payload),
		})
	}

	if opts.Payload {
		fmt.Fprintln(formatter.Writer, string(e.Payload))
		return nil
	}
	fmt.Fprintln(formatter.Writer, e.DSL)
	return nil
}
