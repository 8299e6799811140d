package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ersonp/kinship/internal/application/handlers"
	"github.com/ersonp/kinship/internal/domain/services"
	"github.com/ersonp/kinship/internal/infrastructure/config"
	"github.com/ersonp/kinship/internal/infrastructure/logging"
	"github.com/ersonp/kinship/internal/infrastructure/relationaldb/sqlite"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config        *config.Config
	TreeName      string
	Logger        *zap.Logger
	Persons       *handlers.PersonHandler
	Relationships *handlers.RelationshipHandler
	Transfer      *handlers.TransferHandler
}

// treeName returns the tree selected with --tree, or the default tree.
func treeName() string {
	if globalTree == "" {
		return defaultTree
	}
	return globalTree
}

// withDeps loads config, opens the selected tree and builds handlers, then
// calls the provided function. The database is closed afterwards.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
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

	name := treeName()
	if _, err := trees.Get(name); err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	repo, err := openTree(ctx, cwd, name, cfg, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	opts := []services.Option{services.WithStrictReferences(cfg.StrictReferences())}
	personService := services.NewPersonService(repo)

	return fn(&Deps{
		Config:        cfg,
		TreeName:      name,
		Logger:        logger,
		Persons:       handlers.NewPersonHandler(personService),
		Relationships: handlers.NewRelationshipHandler(services.NewRelationshipService(repo, opts...), personService),
		Transfer:      handlers.NewTransferHandler(services.NewTransferService(repo, opts...)),
	})
}

// newLogger builds the logger, applying --log-level.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logCfg := cfg.Log
	if globalLogLevel != "" {
		logCfg.Level = globalLogLevel
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, nil
}

// openTree opens a tree's database and makes sure its schema exists.
func openTree(ctx context.Context, basePath, name string, cfg *config.Config, logger *zap.Logger) (*sqlite.Repository, error) {
	repo, err := sqlite.NewRepository(config.SQLiteConfig{
		Path:          config.SQLitePathForTree(basePath, name),
		BusyTimeoutMS: cfg.SQLite.BusyTimeoutMS,
	}, sqlite.WithLogger(logger.With(zap.String("tree", name))))
	if err != nil {
		return nil, fmt.Errorf("opening tree %q: %w", name, err)
	}

	if err := repo.EnsureSchema(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	return repo, nil
}
