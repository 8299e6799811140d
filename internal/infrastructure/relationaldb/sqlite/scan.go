package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/ersonp/kinship/internal/domain/entities"
)

const personColumns = `id, first_name, last_name, birth_date, death_date, photo,
	generation, position_x, position_y, created_at, updated_at`

const relationshipColumns = `id, from_person_id, to_person_id, rel_type, spouse_type,
	marriage_number, start_date, end_date, color, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanPerson(row rowScanner) (entities.Person, error) {
	var (
		p                    entities.Person
		birth, death, photo  sql.NullString
		positionX, positionY sql.NullFloat64
	)
	err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&birth,
		&death,
		&photo,
		&p.Generation,
		&positionX,
		&positionY,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return p, err
	}
	p.BirthDate = stringPtr(birth)
	p.DeathDate = stringPtr(death)
	p.Photo = stringPtr(photo)
	p.PositionX = floatPtr(positionX)
	p.PositionY = floatPtr(positionY)
	return p, nil
}

func scanRelationship(row rowScanner) (entities.Relationship, error) {
	var (
		rel                entities.Relationship
		relType            string
		spouseType         sql.NullString
		marriageNumber     sql.NullInt64
		startDate, endDate sql.NullString
	)
	err := row.Scan(
		&rel.ID,
		&rel.FromPersonID,
		&rel.ToPersonID,
		&relType,
		&spouseType,
		&marriageNumber,
		&startDate,
		&endDate,
		&rel.Color,
		&rel.CreatedAt,
		&rel.UpdatedAt,
	)
	if err != nil {
		return rel, err
	}
	rel.Type = entities.RelationType(relType)
	rel.SpouseType = stringPtr(spouseType)
	if marriageNumber.Valid {
		n := int(marriageNumber.Int64)
		rel.MarriageNumber = &n
	}
	rel.StartDate = stringPtr(startDate)
	rel.EndDate = stringPtr(endDate)
	return rel, nil
}

// queryAll runs query and decodes every row with scan. The result is never nil.
func queryAll[T any](ctx context.Context, q querier, scan func(rowScanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// queryOne decodes a single row, returning nil when there is none.
func queryOne[T any](ctx context.Context, q querier, scan func(rowScanner) (T, error), query string, args ...any) (*T, error) {
	item, err := scan(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

// nullable converts an optional field to a driver value.
func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func zapPath(path string) zap.Field {
	return zap.String("path", path)
}
