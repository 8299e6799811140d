package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ersonp/kinship/internal/application/handlers"
	"github.com/ersonp/kinship/internal/domain/services"
)

type importFlags struct {
	format     string
	mode       string
	dryRun     bool
	onConflict string
}

func newImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import persons and relationships from JSON, CSV or GEDCOM",
		Long: `Imports a tree snapshot into the selected tree.

--mode merge adds to the tree and resolves id clashes with --on-conflict.
--mode replace deletes every relationship and person first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "File format (json, csv, gedcom, auto)")
	cmd.Flags().StringVar(&flags.mode, "mode", "merge", "Import mode (merge, replace)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate without saving")
	cmd.Flags().StringVar(&flags.onConflict, "on-conflict", "skip", "Conflict handling in merge mode (skip, overwrite)")

	return cmd
}

func runImport(cmd *cobra.Command, filePath string, flags importFlags) error {
	mode, err := services.ParseImportMode(flags.mode)
	if err != nil {
		return err
	}
	onConflict, err := services.ParseConflictStrategy(flags.onConflict)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	return withDeps(ctx, func(d *Deps) error {
		opts := handlers.ImportOptions{
			Format:     flags.format,
			Mode:       mode,
			OnConflict: onConflict,
			DryRun:     flags.dryRun,
		}

		fmt.Fprintf(out, "Importing %s into tree %q...\n", filePath, d.TreeName)

		result, err := d.Transfer.HandleImport(ctx, filePath, opts)
		if err != nil {
			return fmt.Errorf("importing file: %w", err)
		}

		printImportResult(out, result, flags.dryRun)
		return nil
	})
}

func printImportResult(out io.Writer, result *services.ImportResult, dryRun bool) {
	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "\nValidation errors (%d):\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  %s\n", e.Error())
		}
	}

	fmt.Fprintln(out)
	verb := "Imported"
	if dryRun {
		verb = "Dry run: would import"
	}
	fmt.Fprintf(out, "%s %d persons and %d relationships", verb, result.PersonsImported, result.RelationshipsImported)

	if result.Removed > 0 {
		fmt.Fprintf(out, ", %d replaced entities removed", result.Removed)
	}
	if result.Skipped > 0 {
		fmt.Fprintf(out, ", %d skipped (already exist)", result.Skipped)
	}
	if result.Overwritten > 0 {
		fmt.Fprintf(out, ", %d overwritten", result.Overwritten)
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(out, ", %d errors", len(result.Errors))
	}

	fmt.Fprintln(out)
}
