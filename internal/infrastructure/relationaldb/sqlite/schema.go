package sqlite

import (
	"context"
	"database/sql"
)

// schema is safe to apply to a populated database; existing rows are untouched.
const schema = `
	-- Individuals in the tree
	CREATE TABLE IF NOT EXISTS persons (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		birth_date TEXT,
		death_date TEXT,
		photo TEXT,
		generation INTEGER NOT NULL DEFAULT 0,
		position_x REAL,
		position_y REAL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Directed typed edges between persons
	CREATE TABLE IF NOT EXISTS relationships (
		id TEXT PRIMARY KEY,
		from_person_id TEXT NOT NULL,
		to_person_id TEXT NOT NULL,
		rel_type TEXT NOT NULL,
		spouse_type TEXT,
		marriage_number INTEGER,
		start_date TEXT,
		end_date TEXT,
		color TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (from_person_id) REFERENCES persons(id),
		FOREIGN KEY (to_person_id) REFERENCES persons(id)
	);
	CREATE INDEX IF NOT EXISTS idx_relationships_from ON relationships(from_person_id);
	CREATE INDEX IF NOT EXISTS idx_relationships_to ON relationships(to_person_id);
	CREATE INDEX IF NOT EXISTS idx_relationships_type ON relationships(rel_type);
	`

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	return r.conn.with(ctx, func(db *sql.DB) error {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			return classify("creating schema", err)
		}
		r.logger.Debug("schema ensured", zapPath(r.path))
		return nil
	})
}
