// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/kinship/internal/domain/ports"
	"github.com/ersonp/kinship/internal/infrastructure/config"
)

// InitHandler handles project initialization.
type InitHandler struct {
	db ports.RelationalDB
}

// NewInitHandler creates a new init handler. db is the default tree's store.
func NewInitHandler(db ports.RelationalDB) *InitHandler {
	return &InitHandler{db: db}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath   string
	TreeName     string
	DatabasePath string
}

// Handle writes the default config, registers the default tree and creates its schema.
func (h *InitHandler) Handle(ctx context.Context, basePath, createdAt string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("kinship already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	trees, err := config.LoadTrees(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading trees: %w", err)
	}
	if !trees.Exists(config.DefaultTreeName) {
		trees.Add(config.DefaultTreeName, config.TreeEntry{
			Description: "Default family tree",
			CreatedAt:   createdAt,
		})
		if err := trees.Save(basePath); err != nil {
			return nil, fmt.Errorf("saving trees: %w", err)
		}
	}

	if err := h.db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &InitResult{
		ConfigPath:   config.ConfigFilePath(basePath),
		TreeName:     config.DefaultTreeName,
		DatabasePath: config.SQLitePathForTree(basePath, config.DefaultTreeName),
	}, nil
}
