package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/services"
	"github.com/ersonp/kinship/internal/infrastructure/gedcom"
	"github.com/ersonp/kinship/internal/infrastructure/parsers"
)

// ErrInvalidInput marks input that could not be decoded or names an unknown format.
var ErrInvalidInput = errors.New("invalid input")

// ExportFormats lists the formats accepted by HandleExport.
var ExportFormats = []string{"json", "csv", "gedcom", "markdown"}

// TransferHandler handles export and import of whole trees.
type TransferHandler struct {
	service *services.TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(service *services.TransferService) *TransferHandler {
	return &TransferHandler{service: service}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	Format     string                    // "json", "csv", "gedcom", or "auto"
	Mode       services.ImportMode       // merge (default) or replace
	OnConflict services.ConflictStrategy // skip (default) or overwrite
	DryRun     bool                      // Validate without saving
}

// ExportResult counts what was written.
type ExportResult struct {
	Persons       int
	Relationships int
}

// HandleExport writes the tree to w in the given format. CSV and GEDCOM
// carry persons only.
func (h *TransferHandler) HandleExport(ctx context.Context, w io.Writer, format string) (*ExportResult, error) {
	format = strings.ToLower(format)
	if !contains(ExportFormats, format) {
		return nil, fmt.Errorf("%w: format %q, valid formats: %v", ErrInvalidInput, format, ExportFormats)
	}

	snap, err := h.service.Export(ctx)
	if err != nil {
		return nil, err
	}

	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		err = encoder.Encode(snap)
	case "csv":
		err = parsers.WriteCSV(w, snap.Persons)
	case "gedcom":
		err = gedcom.Encode(w, snap.Persons)
	case "markdown":
		err = WriteTreeMarkdown(w, snap)
	}
	if err != nil {
		return nil, fmt.Errorf("formatting output: %w", err)
	}

	return &ExportResult{
		Persons:       len(snap.Persons),
		Relationships: len(snap.Relationships),
	}, nil
}

// HandleImport imports a file, choosing the parser from opts.Format or the extension.
func (h *TransferHandler) HandleImport(ctx context.Context, filePath string, opts ImportOptions) (*services.ImportResult, error) {
	// Get parser
	var parser parsers.Parser
	if opts.Format == "" || opts.Format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(opts.Format)
	}

	if parser == nil {
		return nil, fmt.Errorf("%w: unsupported format for file: %s", ErrInvalidInput, filePath)
	}

	// Open file
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	return h.importWith(ctx, parser, file, opts)
}

// HandleImportReader imports from r. The format must be named explicitly.
func (h *TransferHandler) HandleImportReader(ctx context.Context, r io.Reader, opts ImportOptions) (*services.ImportResult, error) {
	parser := parsers.ForFormat(opts.Format)
	if parser == nil {
		return nil, fmt.Errorf("%w: unsupported format %q (valid: %s)", ErrInvalidInput, opts.Format, strings.Join(parsers.Formats, ", "))
	}
	return h.importWith(ctx, parser, r, opts)
}

func (h *TransferHandler) importWith(ctx context.Context, parser parsers.Parser, r io.Reader, opts ImportOptions) (*services.ImportResult, error) {
	snap, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing input: %w", ErrInvalidInput, err)
	}

	return h.service.Import(ctx, snap, services.ImportOptions{
		Mode:       opts.Mode,
		OnConflict: opts.OnConflict,
		DryRun:     opts.DryRun,
	})
}

// HandleImportSnapshot imports an already decoded snapshot.
func (h *TransferHandler) HandleImportSnapshot(ctx context.Context, snap *entities.Snapshot, opts ImportOptions) (*services.ImportResult, error) {
	return h.service.Import(ctx, snap, services.ImportOptions{
		Mode:       opts.Mode,
		OnConflict: opts.OnConflict,
		DryRun:     opts.DryRun,
	})
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
