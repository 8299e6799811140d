package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/kinship/internal/application/handlers"
)

type exportFlags struct {
	format string
	output string
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a tree to file",
		Long: `Exports every person and relationship of a tree.
CSV and GEDCOM carry persons only; JSON carries the whole tree.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format ("+strings.Join(handlers.ExportFormats, ", ")+")")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) error {
	format := strings.ToLower(flags.format)
	if !slices.Contains(handlers.ExportFormats, format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, handlers.ExportFormats)
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) (err error) {
		var w io.Writer = cmd.OutOrStdout()
		if flags.output != "" {
			f, ferr := os.OpenFile(flags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
			if ferr != nil {
				return fmt.Errorf("creating file: %w", ferr)
			}
			defer func() {
				if cerr := f.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("closing file: %w", cerr)
				}
			}()
			w = f
		}

		result, err := d.Transfer.HandleExport(ctx, w, format)
		if err != nil {
			return fmt.Errorf("exporting tree: %w", err)
		}

		if flags.output != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d persons and %d relationships to %s\n",
				result.Persons, result.Relationships, flags.output)
		}
		return nil
	})
}
