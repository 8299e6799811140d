package parsers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// JSONParser parses the snapshot document written by export.
type JSONParser struct{}

// Parse reads {"persons": [...], "relationships": [...]}. Missing lists are empty.
func (p *JSONParser) Parse(r io.Reader) (*entities.Snapshot, error) {
	snap := entities.NewSnapshot()

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(snap); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	if snap.Persons == nil {
		snap.Persons = []entities.Person{}
	}
	if snap.Relationships == nil {
		snap.Relationships = []entities.Relationship{}
	}
	return snap, nil
}
