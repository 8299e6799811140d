package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/kinship/internal/application/handlers"
)

// relationshipFlags holds the optional fields shared by relate and relate update.
type relationshipFlags struct {
	id             string
	spouseType     string
	marriageNumber int
	startDate      string
	endDate        string
	color          string
}

func (f *relationshipFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.spouseType, "spouse-type", "", "Spouse type (married, unmarried)")
	cmd.Flags().IntVar(&f.marriageNumber, "marriage", 0, "Marriage number for repeated marriages")
	cmd.Flags().StringVar(&f.startDate, "start", "", "Start date")
	cmd.Flags().StringVar(&f.endDate, "end", "", "End date")
	cmd.Flags().StringVar(&f.color, "color", "", "Line color (default: picked from the palette)")
}

func newRelateCmd() *cobra.Command {
	var flags relationshipFlags

	cmd := &cobra.Command{
		Use:   "relate <from-person-id> <type> <to-person-id>",
		Short: "Create a relationship between two persons",
		Long: `Creates a directed relationship from one person to another.
Endpoints are not checked unless tree.references is "strict" in config.yaml.

Known relationship types: ` + strings.Join(handlers.KnownRelationTypes, ", ") + `

Examples:
  kin relate byron parent ada
  kin relate ada spouse william --spouse-type married --marriage 1 --start 1835-07-08`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelate(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.id, "id", "", "Relationship id (default: generated)")
	flags.register(cmd)

	cmd.AddCommand(
		newRelateUpdateCmd(),
		newRelateDeleteCmd(),
	)

	return cmd
}

func runRelate(cmd *cobra.Command, args []string, flags relationshipFlags) error {
	ctx := cmd.Context()
	in := handlers.RelationshipInput{
		ID:             flags.id,
		FromPersonID:   args[0],
		Type:           args[1],
		ToPersonID:     args[2],
		SpouseType:     optional(cmd, "spouse-type", flags.spouseType),
		MarriageNumber: optional(cmd, "marriage", flags.marriageNumber),
		StartDate:      optional(cmd, "start", flags.startDate),
		EndDate:        optional(cmd, "end", flags.endDate),
		Color:          flags.color,
	}

	return withDeps(ctx, func(d *Deps) error {
		rel, err := d.Relationships.HandleCreate(ctx, in)
		if err != nil {
			return fmt.Errorf("creating relationship: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created relationship: %s\n", rel.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "  %s -[%s]-> %s\n", rel.FromPersonID, rel.Type, rel.ToPersonID)

		return nil
	})
}

func newRelateUpdateCmd() *cobra.Command {
	var (
		flags   relationshipFlags
		from    string
		to      string
		relType string
	)

	cmd := &cobra.Command{
		Use:   "update <relationship-id>",
		Short: "Update fields of a relationship",
		Long:  `Changes only the fields given as flags. Pass an empty value to clear an optional field.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			patch := handlers.RelationshipPatch{
				FromPersonID:   optional(cmd, "from", from),
				ToPersonID:     optional(cmd, "to", to),
				Type:           optional(cmd, "type", relType),
				SpouseType:     optional(cmd, "spouse-type", flags.spouseType),
				MarriageNumber: optional(cmd, "marriage", flags.marriageNumber),
				StartDate:      optional(cmd, "start", flags.startDate),
				EndDate:        optional(cmd, "end", flags.endDate),
				Color:          optional(cmd, "color", flags.color),
			}
			return withDeps(ctx, func(d *Deps) error {
				rel, err := d.Relationships.HandleUpdate(ctx, args[0], patch)
				if err != nil {
					return fmt.Errorf("updating relationship: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated relationship: %s\n", rel.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "From person id")
	cmd.Flags().StringVar(&to, "to", "", "To person id")
	cmd.Flags().StringVar(&relType, "type", "", "Relationship type")
	flags.register(cmd)

	return cmd
}

func newRelateDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <relationship-id>",
		Short: "Delete a relationship",
		Long:  "Deletes an existing relationship by its ID.",
		Args:  cobra.ExactArgs(1),
		RunE:  runRelateDelete,
	}
}

func runRelateDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	relID := args[0]

	return withDeps(ctx, func(d *Deps) error {
		if err := d.Relationships.HandleDelete(ctx, relID); err != nil {
			return fmt.Errorf("deleting relationship: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted relationship: %s\n", relID)
		return nil
	})
}
