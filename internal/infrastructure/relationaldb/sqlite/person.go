package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// CreatePerson inserts a new person.
func (r *Repository) CreatePerson(ctx context.Context, p *entities.Person) (*entities.Person, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("creating person: %w", err)
	}

	query := `
		INSERT INTO persons (` + personColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	err := r.conn.with(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, query,
			p.ID,
			p.FirstName,
			p.LastName,
			nullable(p.BirthDate),
			nullable(p.DeathDate),
			nullable(p.Photo),
			p.Generation,
			nullable(p.PositionX),
			nullable(p.PositionY),
			p.CreatedAt,
			p.UpdatedAt,
		)
		return err
	})
	r.debug("create person", p.ID, err)
	if err != nil {
		return nil, classify("creating person "+p.ID, err)
	}
	return p, nil
}

// GetPerson finds a person by ID. Returns nil if not found.
func (r *Repository) GetPerson(ctx context.Context, id string) (*entities.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE id = ?`

	var person *entities.Person
	err := r.conn.with(ctx, func(db *sql.DB) error {
		var err error
		person, err = queryOne(ctx, db, scanPerson, query, id)
		return err
	})
	if err != nil {
		r.debug("get person", id, err)
		return nil, classify("getting person "+id, err)
	}
	return person, nil
}

// GetAllPersons returns every person in insertion order.
func (r *Repository) GetAllPersons(ctx context.Context) ([]entities.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons ORDER BY rowid`

	var persons []entities.Person
	err := r.conn.with(ctx, func(db *sql.DB) error {
		var err error
		persons, err = queryAll(ctx, db, scanPerson, query)
		return err
	})
	if err != nil {
		r.debug("list persons", "", err)
		return nil, classify("listing persons", err)
	}
	return persons, nil
}

// UpdatePerson replaces every column except id and created_at.
func (r *Repository) UpdatePerson(ctx context.Context, p *entities.Person) (*entities.Person, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("updating person: %w", err)
	}

	query := `
		UPDATE persons SET
			first_name = ?,
			last_name = ?,
			birth_date = ?,
			death_date = ?,
			photo = ?,
			generation = ?,
			position_x = ?,
			position_y = ?,
			updated_at = ?
		WHERE id = ?
	`
	var rows int64
	err := r.conn.with(ctx, func(db *sql.DB) error {
		result, err := db.ExecContext(ctx, query,
			p.FirstName,
			p.LastName,
			nullable(p.BirthDate),
			nullable(p.DeathDate),
			nullable(p.Photo),
			p.Generation,
			nullable(p.PositionX),
			nullable(p.PositionY),
			p.UpdatedAt,
			p.ID,
		)
		if err != nil {
			return err
		}
		rows, err = result.RowsAffected()
		return err
	})
	r.debug("update person", p.ID, err)
	if err != nil {
		return nil, classify("updating person "+p.ID, err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("updating person %s: %w", p.ID, entities.ErrNotFound)
	}
	return p, nil
}

// DeletePerson removes a person. Relationships referencing it are kept.
func (r *Repository) DeletePerson(ctx context.Context, id string) error {
	err := r.conn.with(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `DELETE FROM persons WHERE id = ?`, id)
		return err
	})
	r.debug("delete person", id, err)
	if err != nil {
		return classify("deleting person "+id, err)
	}
	return nil
}

// CountPersons returns the total number of persons.
func (r *Repository) CountPersons(ctx context.Context) (int, error) {
	return r.count(ctx, "persons")
}

func (r *Repository) count(ctx context.Context, table string) (int, error) {
	var count int
	err := r.conn.with(ctx, func(db *sql.DB) error {
		return db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&count)
	})
	if err != nil {
		return 0, classify("counting "+table, err)
	}
	return count, nil
}

// debug logs the outcome of a store operation.
func (r *Repository) debug(op, id string, err error) {
	fields := []zap.Field{zap.String("op", op)}
	if id != "" {
		fields = append(fields, zap.String("id", id))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	r.logger.Debug("sqlite", fields...)
}
