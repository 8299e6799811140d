package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ersonp/kinship/internal/domain/entities"
	"github.com/ersonp/kinship/internal/domain/ports"
)

// ImportMode selects what happens to data already in the tree.
type ImportMode string

const (
	// ModeMerge adds snapshot entities alongside existing ones.
	ModeMerge ImportMode = "merge"
	// ModeReplace deletes every relationship and person before importing.
	ModeReplace ImportMode = "replace"
)

// ConflictStrategy defines how merge handles ids that already exist.
type ConflictStrategy string

const (
	// ConflictSkip keeps the stored entity.
	ConflictSkip ConflictStrategy = "skip"
	// ConflictOverwrite replaces the stored entity with the snapshot's.
	ConflictOverwrite ConflictStrategy = "overwrite"
)

// ImportOptions controls import behavior.
type ImportOptions struct {
	Mode       ImportMode       // Defaults to merge
	OnConflict ConflictStrategy // Defaults to skip
	DryRun     bool             // Validate without saving
}

// ImportError describes one snapshot entity that was not imported.
type ImportError struct {
	Entity  string `json:"entity"` // "person" or "relationship"
	Index   int    `json:"index"`  // Position in its list (1-indexed)
	ID      string `json:"id,omitempty"`
	Kind    string `json:"kind"` // entities.Kind* name
	Message string `json:"message"`
}

func (e ImportError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s #%d (%s): %s", e.Entity, e.Index, e.ID, e.Message)
	}
	return fmt.Sprintf("%s #%d: %s", e.Entity, e.Index, e.Message)
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Removed               int           `json:"removed"` // Entities deleted by replace mode
	PersonsImported       int           `json:"personsImported"`
	RelationshipsImported int           `json:"relationshipsImported"`
	Skipped               int           `json:"skipped"`
	Overwritten           int           `json:"overwritten"`
	Errors                []ImportError `json:"errors,omitempty"`
}

// TransferService exports and imports whole trees.
type TransferService struct {
	db   ports.RelationalDB
	opts options
}

// NewTransferService creates a new TransferService.
func NewTransferService(db ports.RelationalDB, opts ...Option) *TransferService {
	return &TransferService{
		db:   db,
		opts: buildOptions(opts),
	}
}

// Export returns every person followed by every relationship.
func (s *TransferService) Export(ctx context.Context) (*entities.Snapshot, error) {
	persons, err := s.db.GetAllPersons(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting persons: %w", err)
	}
	rels, err := s.db.GetAllRelationships(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporting relationships: %w", err)
	}
	return &entities.Snapshot{Persons: persons, Relationships: rels}, nil
}

// Import loads a snapshot. Invalid entities are reported in the result and
// skipped; only a storage failure aborts the import. Each entity is stored
// separately, so an aborted import leaves the entities written before it.
func (s *TransferService) Import(ctx context.Context, snap *entities.Snapshot, opts ImportOptions) (*ImportResult, error) {
	opts, err := normalizeImportOptions(opts)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	persons := s.validatePersons(snap.Persons, result)
	rels := s.validateRelationships(snap.Relationships, result)

	if opts.Mode == ModeReplace {
		removed, err := s.clear(ctx, opts.DryRun)
		if err != nil {
			return nil, err
		}
		result.Removed = removed
	}

	known := make(map[string]bool, len(persons))
	for _, item := range persons {
		known[item.value.ID] = true
	}

	personStep := importStep[entities.Person]{
		entity: "person",
		id:     func(p *entities.Person) string { return p.ID },
		exists: func(ctx context.Context, id string) (bool, error) {
			p, err := s.db.GetPerson(ctx, id)
			return p != nil, err
		},
		create: func(ctx context.Context, p *entities.Person) error {
			_, err := s.db.CreatePerson(ctx, p)
			return err
		},
		update: func(ctx context.Context, p *entities.Person) error {
			_, err := s.db.UpdatePerson(ctx, p)
			return err
		},
	}
	for _, item := range persons {
		ok, err := personStep.run(ctx, opts, item, result)
		if err != nil {
			return nil, err
		}
		if ok {
			result.PersonsImported++
		}
	}

	relStep := importStep[entities.Relationship]{
		entity: "relationship",
		id:     func(r *entities.Relationship) string { return r.ID },
		exists: func(ctx context.Context, id string) (bool, error) {
			r, err := s.db.GetRelationship(ctx, id)
			return r != nil, err
		},
		create: func(ctx context.Context, r *entities.Relationship) error {
			_, err := s.db.CreateRelationship(ctx, r)
			return err
		},
		update: func(ctx context.Context, r *entities.Relationship) error {
			_, err := s.db.UpdateRelationship(ctx, r)
			return err
		},
	}
	for _, item := range rels {
		if err := s.checkReferences(ctx, opts, known, item); err != nil {
			if errors.Is(err, entities.ErrStorageUnavailable) {
				return nil, err
			}
			result.Errors = append(result.Errors, newImportError("relationship", item.index, item.value.ID, err))
			continue
		}
		ok, err := relStep.run(ctx, opts, item, result)
		if err != nil {
			return nil, err
		}
		if ok {
			result.RelationshipsImported++
		}
	}

	return result, nil
}

// ParseImportMode converts a user-supplied mode. Empty means merge.
func ParseImportMode(s string) (ImportMode, error) {
	switch mode := ImportMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return ModeMerge, nil
	case ModeMerge, ModeReplace:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid import mode %q (valid: merge, replace)", s)
	}
}

// ParseConflictStrategy converts a user-supplied strategy. Empty means skip.
func ParseConflictStrategy(s string) (ConflictStrategy, error) {
	switch strategy := ConflictStrategy(strings.ToLower(strings.TrimSpace(s))); strategy {
	case "":
		return ConflictSkip, nil
	case ConflictSkip, ConflictOverwrite:
		return strategy, nil
	default:
		return "", fmt.Errorf("invalid conflict strategy %q (valid: skip, overwrite)", s)
	}
}

func normalizeImportOptions(opts ImportOptions) (ImportOptions, error) {
	var err error
	if opts.Mode, err = ParseImportMode(string(opts.Mode)); err != nil {
		return opts, err
	}
	if opts.OnConflict, err = ParseConflictStrategy(string(opts.OnConflict)); err != nil {
		return opts, err
	}
	return opts, nil
}

// indexed pairs a snapshot entity with its 1-indexed position.
type indexed[T any] struct {
	index int
	value T
}

func (s *TransferService) validatePersons(in []entities.Person, result *ImportResult) []indexed[entities.Person] {
	valid := make([]indexed[entities.Person], 0, len(in))
	seen := make(map[string]bool, len(in))

	for i := range in {
		p := in[i]
		fillPersonDefaults(&p)
		if err := p.Validate(); err != nil {
			result.Errors = append(result.Errors, newImportError("person", i+1, p.ID, err))
			continue
		}
		if seen[p.ID] {
			err := fmt.Errorf("%w: repeated in snapshot", entities.ErrDuplicateID)
			result.Errors = append(result.Errors, newImportError("person", i+1, p.ID, err))
			continue
		}
		seen[p.ID] = true
		valid = append(valid, indexed[entities.Person]{index: i + 1, value: p})
	}
	return valid
}

func (s *TransferService) validateRelationships(in []entities.Relationship, result *ImportResult) []indexed[entities.Relationship] {
	valid := make([]indexed[entities.Relationship], 0, len(in))
	seen := make(map[string]bool, len(in))

	for i := range in {
		r := in[i]
		fillRelationshipDefaults(&r)
		if err := r.Validate(); err != nil {
			result.Errors = append(result.Errors, newImportError("relationship", i+1, r.ID, err))
			continue
		}
		if seen[r.ID] {
			err := fmt.Errorf("%w: repeated in snapshot", entities.ErrDuplicateID)
			result.Errors = append(result.Errors, newImportError("relationship", i+1, r.ID, err))
			continue
		}
		seen[r.ID] = true
		valid = append(valid, indexed[entities.Relationship]{index: i + 1, value: r})
	}
	return valid
}

// clear deletes every relationship and person, or only counts them on a dry run.
func (s *TransferService) clear(ctx context.Context, dryRun bool) (int, error) {
	rels, err := s.db.GetAllRelationships(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing relationships to replace: %w", err)
	}
	persons, err := s.db.GetAllPersons(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing persons to replace: %w", err)
	}
	if dryRun {
		return len(rels) + len(persons), nil
	}

	for i := range rels {
		if err := s.db.DeleteRelationship(ctx, rels[i].ID); err != nil {
			return 0, fmt.Errorf("clearing relationships: %w", err)
		}
	}
	for i := range persons {
		if err := s.db.DeletePerson(ctx, persons[i].ID); err != nil {
			return 0, fmt.Errorf("clearing persons: %w", err)
		}
	}
	return len(rels) + len(persons), nil
}

// checkReferences applies the strict policy. An endpoint counts as present
// when the snapshot brings it or, when merging, the tree already has it.
func (s *TransferService) checkReferences(ctx context.Context, opts ImportOptions, known map[string]bool, item indexed[entities.Relationship]) error {
	if !s.opts.strictReferences {
		return nil
	}
	endpoints := []struct{ role, id string }{
		{"from", item.value.FromPersonID},
		{"to", item.value.ToPersonID},
	}
	for _, ep := range endpoints {
		if known[ep.id] {
			continue
		}
		if opts.Mode == ModeReplace {
			return fmt.Errorf("%w: %s person %s is not in the snapshot", entities.ErrConstraintViolation, ep.role, ep.id)
		}
		if err := requirePerson(ctx, s.db, ep.role, ep.id); err != nil {
			return err
		}
	}
	return nil
}

// importStep stores one kind of entity according to the import options.
type importStep[T any] struct {
	entity string
	id     func(*T) string
	exists func(context.Context, string) (bool, error)
	create func(context.Context, *T) error
	update func(context.Context, *T) error
}

// run stores item and reports whether it counts as newly imported.
// A non-nil error means the import must stop.
func (st importStep[T]) run(ctx context.Context, opts ImportOptions, item indexed[T], result *ImportResult) (bool, error) {
	id := st.id(&item.value)

	if opts.DryRun {
		if opts.Mode == ModeReplace {
			return true, nil
		}
		exists, err := st.exists(ctx, id)
		if err != nil {
			return false, fmt.Errorf("checking %s %s: %w", st.entity, id, err)
		}
		if !exists {
			return true, nil
		}
		if opts.OnConflict == ConflictOverwrite {
			result.Overwritten++
		} else {
			result.Skipped++
		}
		return false, nil
	}

	err := st.create(ctx, &item.value)
	if errors.Is(err, entities.ErrDuplicateID) && opts.Mode == ModeMerge {
		if opts.OnConflict == ConflictSkip {
			result.Skipped++
			return false, nil
		}
		err = st.update(ctx, &item.value)
		if err == nil {
			result.Overwritten++
			return false, nil
		}
	}
	if err == nil {
		return true, nil
	}
	if errors.Is(err, entities.ErrStorageUnavailable) {
		return false, fmt.Errorf("importing %s %s: %w", st.entity, id, err)
	}
	result.Errors = append(result.Errors, newImportError(st.entity, item.index, id, err))
	return false, nil
}

func newImportError(entity string, index int, id string, err error) ImportError {
	return ImportError{
		Entity:  entity,
		Index:   index,
		ID:      id,
		Kind:    entities.KindOf(err),
		Message: err.Error(),
	}
}
