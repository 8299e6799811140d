// Package parsers reads tree snapshots from the supported import formats.
package parsers

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// Parser defines the interface for reading a snapshot from a format.
type Parser interface {
	Parse(r io.Reader) (*entities.Snapshot, error)
}

// Formats lists the format names accepted by ForFormat.
var Formats = []string{"json", "csv", "gedcom"}

// ForFormat returns the appropriate parser for the given format, or nil.
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	case "gedcom", "ged":
		return &GEDCOMParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension, or nil.
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONParser{}
	case ".csv":
		return &CSVParser{}
	case ".ged", ".gedcom":
		return &GEDCOMParser{}
	default:
		return nil
	}
}
