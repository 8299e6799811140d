package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/kinship/internal/application/handlers"
	"github.com/ersonp/kinship/internal/domain/entities"
)

type relationsFlags struct {
	relType string
	format  string
}

func newRelationsCmd() *cobra.Command {
	var flags relationsFlags

	cmd := &cobra.Command{
		Use:   "relations <person-id>",
		Short: "List relationships for a person",
		Long: `Shows every relationship where the person is either endpoint.

Examples:
  kin relations ada
  kin relations ada --type spouse
  kin relations ada --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelations(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.relType, "type", "", "Filter by relationship type")
	cmd.Flags().StringVar(&flags.format, "format", "tree", "Output format: tree, list, json")

	return cmd
}

func runRelations(cmd *cobra.Command, personID string, flags relationsFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if !slices.Contains(relationsFormats, flags.format) {
		return fmt.Errorf("invalid format: %s (valid: %s)", flags.format, strings.Join(relationsFormats, ", "))
	}

	return withDeps(ctx, func(d *Deps) error {
		result, err := d.Relationships.HandleList(ctx, personID, handlers.ListOptions{Type: flags.relType})
		if err != nil {
			return fmt.Errorf("listing relationships: %w", err)
		}

		if flags.format == "json" {
			return printJSON(out, result)
		}

		if len(result.Relationships) == 0 {
			fmt.Fprintf(out, "No relationships found for person: %s\n", personID)
			return nil
		}

		if flags.format == "list" {
			printRelationsList(out, personID, result)
			return nil
		}
		printRelationsTree(out, personID, result)
		return nil
	})
}

func printRelationsList(out io.Writer, personID string, result *handlers.ListResult) {
	fmt.Fprintf(out, "Relationships for %s:\n", displayName(result.Person, personID))
	fmt.Fprintln(out, strings.Repeat("-", 60))

	for _, info := range result.Relationships {
		rel := info.Relationship
		fmt.Fprintf(out, "%s -> [%s] -> %s  (%s)\n",
			displayName(info.From, rel.FromPersonID),
			relationLabel(&rel),
			displayName(info.To, rel.ToPersonID),
			rel.ID,
		)
	}
}

func printRelationsTree(out io.Writer, personID string, result *handlers.ListResult) {
	fmt.Fprintln(out, displayName(result.Person, personID))

	for i, info := range result.Relationships {
		rel := info.Relationship

		prefix := "+-"
		if i == len(result.Relationships)-1 {
			prefix = "\\-"
		}

		// Outgoing edges read "type -> other", incoming "type <- other"
		arrow := "->"
		other := displayName(info.To, rel.ToPersonID)
		if rel.FromPersonID != personID {
			arrow = "<-"
			other = displayName(info.From, rel.FromPersonID)
		}

		fmt.Fprintf(out, "%s %s %s %s\n", prefix, relationLabel(&rel), arrow, other)
	}
}

func relationLabel(rel *entities.Relationship) string {
	if rel.SpouseType != nil {
		return string(rel.Type) + " (" + *rel.SpouseType + ")"
	}
	return string(rel.Type)
}

func displayName(p *entities.Person, id string) string {
	if p == nil {
		return "unknown (" + id + ")"
	}
	return p.FullName()
}
