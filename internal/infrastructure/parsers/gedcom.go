package parsers

import (
	"io"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/infrastructure/gedcom"
)

// GEDCOMParser parses individuals from a GEDCOM file.
type GEDCOMParser struct{}

// Parse reads GEDCOM individuals. The snapshot has no relationships.
func (p *GEDCOMParser) Parse(r io.Reader) (*entities.Snapshot, error) {
	persons, err := gedcom.Decode(r)
	if err != nil {
		return nil, err
	}
	snap := entities.NewSnapshot()
	snap.Persons = persons
	return snap, nil
}
