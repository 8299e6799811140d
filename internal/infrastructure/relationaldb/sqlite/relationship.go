package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// CreateRelationship inserts a new relationship.
// Endpoints are stored as given; neither needs to exist in persons.
func (r *Repository) CreateRelationship(ctx context.Context, rel *entities.Relationship) (*entities.Relationship, error) {
	if err := rel.Validate(); err != nil {
		return nil, fmt.Errorf("creating relationship: %w", err)
	}

	query := `
		INSERT INTO relationships (` + relationshipColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	err := r.conn.with(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, query,
			rel.ID,
			rel.FromPersonID,
			rel.ToPersonID,
			string(rel.Type),
			nullable(rel.SpouseType),
			nullable(rel.MarriageNumber),
			nullable(rel.StartDate),
			nullable(rel.EndDate),
			rel.Color,
			rel.CreatedAt,
			rel.UpdatedAt,
		)
		return err
	})
	r.debug("create relationship", rel.ID, err)
	if err != nil {
		return nil, classify("creating relationship "+rel.ID, err)
	}
	return rel, nil
}

// GetRelationship finds a relationship by ID. Returns nil if not found.
func (r *Repository) GetRelationship(ctx context.Context, id string) (*entities.Relationship, error) {
	query := `SELECT ` + relationshipColumns + ` FROM relationships WHERE id = ?`

	var rel *entities.Relationship
	err := r.conn.with(ctx, func(db *sql.DB) error {
		var err error
		rel, err = queryOne(ctx, db, scanRelationship, query, id)
		return err
	})
	if err != nil {
		r.debug("get relationship", id, err)
		return nil, classify("getting relationship "+id, err)
	}
	return rel, nil
}

// GetAllRelationships returns every relationship in insertion order.
func (r *Repository) GetAllRelationships(ctx context.Context) ([]entities.Relationship, error) {
	query := `SELECT ` + relationshipColumns + ` FROM relationships ORDER BY rowid`
	return r.queryRelationships(ctx, "listing relationships", query)
}

// GetRelationshipsForPerson returns relationships where personID is either endpoint.
func (r *Repository) GetRelationshipsForPerson(ctx context.Context, personID string) ([]entities.Relationship, error) {
	query := `
		SELECT ` + relationshipColumns + `
		FROM relationships
		WHERE from_person_id = ?1 OR to_person_id = ?1
		ORDER BY rowid
	`
	return r.queryRelationships(ctx, "listing relationships for "+personID, query, personID)
}

// queryRelationships is a helper to query and scan relationships.
func (r *Repository) queryRelationships(ctx context.Context, op, query string, args ...any) ([]entities.Relationship, error) {
	var rels []entities.Relationship
	err := r.conn.with(ctx, func(db *sql.DB) error {
		var err error
		rels, err = queryAll(ctx, db, scanRelationship, query, args...)
		return err
	})
	if err != nil {
		r.debug(op, "", err)
		return nil, classify(op, err)
	}
	return rels, nil
}

// UpdateRelationship replaces every column except id and created_at.
func (r *Repository) UpdateRelationship(ctx context.Context, rel *entities.Relationship) (*entities.Relationship, error) {
	if err := rel.Validate(); err != nil {
		return nil, fmt.Errorf("updating relationship: %w", err)
	}

	query := `
		UPDATE relationships SET
			from_person_id = ?,
			to_person_id = ?,
			rel_type = ?,
			spouse_type = ?,
			marriage_number = ?,
			start_date = ?,
			end_date = ?,
			color = ?,
			updated_at = ?
		WHERE id = ?
	`
	var rows int64
	err := r.conn.with(ctx, func(db *sql.DB) error {
		result, err := db.ExecContext(ctx, query,
			rel.FromPersonID,
			rel.ToPersonID,
			string(rel.Type),
			nullable(rel.SpouseType),
			nullable(rel.MarriageNumber),
			nullable(rel.StartDate),
			nullable(rel.EndDate),
			rel.Color,
			rel.UpdatedAt,
			rel.ID,
		)
		if err != nil {
			return err
		}
		rows, err = result.RowsAffected()
		return err
	})
	r.debug("update relationship", rel.ID, err)
	if err != nil {
		return nil, classify("updating relationship "+rel.ID, err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("updating relationship %s: %w", rel.ID, entities.ErrNotFound)
	}
	return rel, nil
}

// DeleteRelationship removes a relationship if present.
func (r *Repository) DeleteRelationship(ctx context.Context, id string) error {
	err := r.conn.with(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `DELETE FROM relationships WHERE id = ?`, id)
		return err
	})
	r.debug("delete relationship", id, err)
	if err != nil {
		return classify("deleting relationship "+id, err)
	}
	return nil
}

// CountRelationships returns the total number of relationships.
func (r *Repository) CountRelationships(ctx context.Context) (int, error) {
	return r.count(ctx, "relationships")
}
