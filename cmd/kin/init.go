package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/kinship/internal/application/handlers"
	"github.com/ersonp/kinship/internal/domain/services"
	"github.com/ersonp/kinship/internal/infrastructure/config"
	"github.com/ersonp/kinship/internal/infrastructure/relationaldb/sqlite"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize kinship in the current directory",
		Long:  "Creates a .kinship directory with default configuration and an empty default tree.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if config.Exists(cwd) {
		return fmt.Errorf("kinship already initialized in %s", cwd)
	}

	logger, err := newLogger(config.Default())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	repo, err := sqlite.NewRepository(config.SQLiteConfig{
		Path:          config.SQLitePathForTree(cwd, defaultTree),
		BusyTimeoutMS: config.DefaultBusyTimeoutMS,
	}, sqlite.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	defer repo.Close()

	result, err := handlers.NewInitHandler(repo).Handle(ctx, cwd, services.Timestamp())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Created %s\n", result.ConfigPath)
	fmt.Fprintf(out, "Created tree %q at %s\n", result.TreeName, result.DatabasePath)
	fmt.Fprintln(out, "kinship initialized successfully!")

	return nil
}
