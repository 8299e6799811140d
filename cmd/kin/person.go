package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ersonp/kinship/internal/application/handlers"
	"github.com/ersonp/kinship/internal/domain/entities"
)

func newPersonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "person",
		Aliases: []string{"persons"},
		Short:   "Manage persons in a tree",
	}

	cmd.AddCommand(
		newPersonAddCmd(),
		newPersonGetCmd(),
		newPersonListCmd(),
		newPersonUpdateCmd(),
		newPersonDeleteCmd(),
	)

	return cmd
}

// personFlags holds the optional fields shared by add and update.
type personFlags struct {
	id         string
	firstName  string
	lastName   string
	birthDate  string
	deathDate  string
	photo      string
	generation int
	x          float64
	y          float64
}

func (f *personFlags) register(cmd *cobra.Command, withNames bool) {
	if withNames {
		cmd.Flags().StringVar(&f.firstName, "first", "", "First name")
		cmd.Flags().StringVar(&f.lastName, "last", "", "Last name")
	}
	cmd.Flags().StringVar(&f.birthDate, "birth", "", "Birth date (free text, e.g. 1815-12-10)")
	cmd.Flags().StringVar(&f.deathDate, "death", "", "Death date")
	cmd.Flags().StringVar(&f.photo, "photo", "", "Photo path or URI")
	cmd.Flags().IntVar(&f.generation, "generation", 0, "Generation number")
	cmd.Flags().Float64Var(&f.x, "x", 0, "Canvas X position")
	cmd.Flags().Float64Var(&f.y, "y", 0, "Canvas Y position")
}

// optional returns &value when the flag was given on the command line.
func optional[T any](cmd *cobra.Command, name string, value T) *T {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func newPersonAddCmd() *cobra.Command {
	var flags personFlags

	cmd := &cobra.Command{
		Use:   "add <first-name> <last-name>",
		Short: "Add a person",
		Long: `Adds a person to the tree. An id is generated unless --id is given.

Examples:
  kin person add Ada Lovelace --birth 1815-12-10 --death 1852-11-27
  kin person add Charles Babbage --id charles --generation 0`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := handlers.PersonInput{
				ID:         flags.id,
				FirstName:  args[0],
				LastName:   args[1],
				BirthDate:  optional(cmd, "birth", flags.birthDate),
				DeathDate:  optional(cmd, "death", flags.deathDate),
				Photo:      optional(cmd, "photo", flags.photo),
				Generation: flags.generation,
				PositionX:  optional(cmd, "x", flags.x),
				PositionY:  optional(cmd, "y", flags.y),
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				p, err := d.Persons.HandleCreate(cmd.Context(), in)
				if err != nil {
					return fmt.Errorf("creating person: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created person: %s\n  %s\n", p.ID, p.FullName())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&flags.id, "id", "", "Person id (default: generated)")
	flags.register(cmd, false)

	return cmd
}

func newPersonGetCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get <person-id>",
		Short: "Show one person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				p, err := d.Persons.HandleGet(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), p)
				}
				printPerson(cmd.OutOrStdout(), p)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newPersonListCmd() *cobra.Command {
	var (
		search string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List persons in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return withDeps(cmd.Context(), func(d *Deps) error {
				persons, err := d.Persons.HandleList(cmd.Context(), handlers.PersonListOptions{Search: search})
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(out, persons)
				}
				if len(persons) == 0 {
					fmt.Fprintf(out, "No persons found in tree %q.\n", d.TreeName)
					return nil
				}
				return printPersonTable(out, persons)
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by name (case-insensitive)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newPersonUpdateCmd() *cobra.Command {
	var flags personFlags

	cmd := &cobra.Command{
		Use:   "update <person-id>",
		Short: "Update fields of a person",
		Long: `Changes only the fields given as flags. Pass an empty value to clear
an optional text field, e.g. --death "".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := handlers.PersonPatch{
				FirstName:  optional(cmd, "first", flags.firstName),
				LastName:   optional(cmd, "last", flags.lastName),
				BirthDate:  optional(cmd, "birth", flags.birthDate),
				DeathDate:  optional(cmd, "death", flags.deathDate),
				Photo:      optional(cmd, "photo", flags.photo),
				Generation: optional(cmd, "generation", flags.generation),
				PositionX:  optional(cmd, "x", flags.x),
				PositionY:  optional(cmd, "y", flags.y),
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				p, err := d.Persons.HandleUpdate(cmd.Context(), args[0], patch)
				if err != nil {
					return fmt.Errorf("updating person: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated person: %s\n", p.ID)
				return nil
			})
		},
	}

	flags.register(cmd, true)

	return cmd
}

func newPersonDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <person-id>",
		Short: "Delete a person",
		Long:  "Deletes a person. Relationships that reference the person are kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				if err := d.Persons.HandleDelete(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("deleting person: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted person: %s\n", args[0])
				return nil
			})
		},
	}
}

func printPerson(out io.Writer, p *entities.Person) {
	fmt.Fprintf(out, "%s\n", p.FullName())
	fmt.Fprintf(out, "  ID:         %s\n", p.ID)
	fmt.Fprintf(out, "  Born:       %s\n", valueOr(p.BirthDate, "-"))
	fmt.Fprintf(out, "  Died:       %s\n", valueOr(p.DeathDate, "-"))
	fmt.Fprintf(out, "  Generation: %d\n", p.Generation)
	if p.Photo != nil {
		fmt.Fprintf(out, "  Photo:      %s\n", *p.Photo)
	}
	if p.PositionX != nil && p.PositionY != nil {
		fmt.Fprintf(out, "  Position:   %s, %s\n", formatFloat(*p.PositionX), formatFloat(*p.PositionY))
	}
	fmt.Fprintf(out, "  Created:    %s\n", p.CreatedAt)
	fmt.Fprintf(out, "  Updated:    %s\n", p.UpdatedAt)
}

func printPersonTable(out io.Writer, persons []entities.Person) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBORN\tDIED\tGEN")
	for i := range persons {
		p := &persons[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.FullName(), valueOr(p.BirthDate, "-"), valueOr(p.DeathDate, "-"), p.Generation)
	}
	return tw.Flush()
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
