package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ersonp/kinship/internal/domain/services"
	"github.com/ersonp/kinship/internal/infrastructure/config"
)

func newTreesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trees",
		Short: "Manage family trees",
		RunE:  runTreesList,
	}

	cmd.AddCommand(
		newTreesListCmd(),
		newTreesCreateCmd(),
		newTreesDeleteCmd(),
	)

	return cmd
}

func newTreesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all trees",
		RunE:  runTreesList,
	}
}

func runTreesList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if _, err := config.Load(cwd); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	trees, err := config.LoadTrees(cwd)
	if err != nil {
		return fmt.Errorf("loading trees: %w", err)
	}

	names := trees.Names()
	if len(names) == 0 {
		fmt.Fprintln(out, "No trees configured.")
		fmt.Fprintln(out, "Use 'kin trees create NAME' to create a tree.")
		return nil
	}

	return printTrees(out, trees, names)
}

func printTrees(out io.Writer, trees *config.TreesConfig, names []string) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCREATED\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t-------\t-----------")
	for _, name := range names {
		entry := trees.Trees[name]
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, entry.CreatedAt, entry.Description)
	}
	return tw.Flush()
}

func newTreesCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTreesCreate(cmd, args[0], description)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Tree description")

	return cmd
}

func runTreesCreate(cmd *cobra.Command, name, description string) error {
	out := cmd.OutOrStdout()
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("tree name is required")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	// Initialize config if this is the first tree
	if !config.Exists(cwd) {
		if err := config.WriteDefault(cwd); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}
		fmt.Fprintf(out, "Initialized kinship in %s\n", config.ConfigDir(cwd))
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	trees, err := config.LoadTrees(cwd)
	if err != nil {
		return fmt.Errorf("loading trees: %w", err)
	}

	if trees.Exists(name) {
		return fmt.Errorf("tree %q already exists", name)
	}
	dir := config.TreeDir(cwd, name)
	for _, existing := range trees.Names() {
		if config.TreeDir(cwd, existing) == dir {
			return fmt.Errorf("tree %q would share storage with existing tree %q", name, existing)
		}
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	repo, err := openTree(cmd.Context(), cwd, name, cfg, logger)
	if err != nil {
		return err
	}
	if err := repo.Close(); err != nil {
		return fmt.Errorf("closing tree: %w", err)
	}

	trees.Add(name, config.TreeEntry{
		Description: description,
		CreatedAt:   services.Timestamp(),
	})
	if err := trees.Save(cwd); err != nil {
		return fmt.Errorf("saving trees: %w", err)
	}

	fmt.Fprintf(out, "Created tree %q at %s\n", name, config.SQLitePathForTree(cwd, name))

	return nil
}

func newTreesDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a tree and its database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTreesDelete(cmd, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete even if the tree contains persons or relationships")

	return cmd
}

func runTreesDelete(cmd *cobra.Command, name string, force bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	trees, err := config.LoadTrees(cwd)
	if err != nil {
		return fmt.Errorf("loading trees: %w", err)
	}

	if _, err := trees.Get(name); err != nil {
		return err
	}

	if !force {
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		repo, err := openTree(ctx, cwd, name, cfg, logger)
		if err != nil {
			return err
		}
		persons, perr := repo.CountPersons(ctx)
		rels, rerr := repo.CountRelationships(ctx)
		repo.Close()
		if perr == nil && rerr == nil && persons+rels > 0 {
			return fmt.Errorf("tree %q contains %d persons and %d relationships, use --force to delete", name, persons, rels)
		}
	}

	if err := os.RemoveAll(config.TreeDir(cwd, name)); err != nil {
		return fmt.Errorf("removing tree directory: %w", err)
	}

	trees.Remove(name)
	if err := trees.Save(cwd); err != nil {
		return fmt.Errorf("saving trees: %w", err)
	}

	fmt.Fprintf(out, "Deleted tree %q\n", name)

	return nil
}
