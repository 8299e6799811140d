package entities

// Snapshot is a full copy of one tree, used for export and import.
type Snapshot struct {
	Persons       []Person       `json:"persons"`
	Relationships []Relationship `json:"relationships"`
}

// NewSnapshot returns a snapshot with non-nil slices.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Persons:       []Person{},
		Relationships: []Relationship{},
	}
}
