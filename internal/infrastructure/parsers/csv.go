package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// CSVColumns is the column order written by WriteCSV.
var CSVColumns = []string{
	"id", "first_name", "last_name", "birth_date", "death_date", "photo",
	"generation", "position_x", "position_y", "created_at", "updated_at",
}

// CSVParser parses persons from CSV. Relationships are not representable.
type CSVParser struct{}

// Parse reads CSV from the reader and returns the persons it describes.
// Required columns: first_name, last_name. Others from CSVColumns are optional.
func (p *CSVParser) Parse(r io.Reader) (*entities.Snapshot, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	persons, err := p.readRecords(reader, colIndex)
	if err != nil {
		return nil, err
	}

	snap := entities.NewSnapshot()
	snap.Persons = persons
	return snap, nil
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for _, col := range []string{"first_name", "last_name"} {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to persons.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]entities.Person, error) {
	persons := []entities.Person{}
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		person, err := p.parseRecord(record, colIndex, lineNum)
		if err != nil {
			return nil, err
		}
		persons = append(persons, person)
	}

	return persons, nil
}

// parseRecord converts a CSV record to a person.
func (p *CSVParser) parseRecord(record []string, colIndex map[string]int, lineNum int) (entities.Person, error) {
	person := entities.Person{
		ID:        getColumn(record, colIndex, "id"),
		FirstName: getColumn(record, colIndex, "first_name"),
		LastName:  getColumn(record, colIndex, "last_name"),
		BirthDate: optional(getColumn(record, colIndex, "birth_date")),
		DeathDate: optional(getColumn(record, colIndex, "death_date")),
		Photo:     optional(getColumn(record, colIndex, "photo")),
		CreatedAt: getColumn(record, colIndex, "created_at"),
		UpdatedAt: getColumn(record, colIndex, "updated_at"),
	}

	if gen := getColumn(record, colIndex, "generation"); gen != "" {
		n, err := strconv.Atoi(gen)
		if err != nil {
			return entities.Person{}, fmt.Errorf("line %d: invalid generation value %q: %w", lineNum, gen, err)
		}
		person.Generation = n
	}

	for _, pos := range []struct {
		col string
		dst **float64
	}{
		{"position_x", &person.PositionX},
		{"position_y", &person.PositionY},
	} {
		raw := getColumn(record, colIndex, pos.col)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return entities.Person{}, fmt.Errorf("line %d: invalid %s value %q: %w", lineNum, pos.col, raw, err)
		}
		*pos.dst = &v
	}

	return person, nil
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// WriteCSV writes persons with a CSVColumns header.
func WriteCSV(w io.Writer, persons []entities.Person) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(CSVColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for i := range persons {
		p := &persons[i]
		record := []string{
			p.ID,
			p.FirstName,
			p.LastName,
			deref(p.BirthDate),
			deref(p.DeathDate),
			deref(p.Photo),
			strconv.Itoa(p.Generation),
			formatFloat(p.PositionX),
			formatFloat(p.PositionY),
			p.CreatedAt,
			p.UpdatedAt,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
