// Package gedcom reads and writes the individual records of GEDCOM 5.5.1 files.
//
// Only INDI records are handled. Each exported individual carries its tree id
// in a NOTE (@id@) so a round trip keeps identities; FAM records are skipped
// on import.
package gedcom

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// Source is written to HEAD.SOUR.
const Source = "kinship"

var (
	// reLine splits "LEVEL [@XREF@] TAG [VALUE]".
	reLine = regexp.MustCompile(`^(\d+)\s+(?:(@[^@]+@)\s+)?(\w+)(?:\s(.*))?$`)
	// reName splits "First /Last/".
	reName = regexp.MustCompile(`^([^/]*)/([^/]*)/`)
	// reNoteID matches a NOTE holding an id reference.
	reNoteID = regexp.MustCompile(`^@([^@]+)@$`)
)

// Encode writes persons as a GEDCOM document.
func Encode(w io.Writer, persons []entities.Person) error {
	bw := bufio.NewWriter(w)

	lines := []string{
		"0 HEAD",
		"1 SOUR " + Source,
		"1 GEDC",
		"2 VERS 5.5.1",
		"2 FORM LINEAGE-LINKED",
		"1 CHAR UTF-8",
	}
	for _, l := range lines {
		bw.WriteString(l + "\n")
	}

	for i := range persons {
		p := &persons[i]
		fmt.Fprintf(bw, "0 @I%d@ INDI\n", i+1)
		if p.FirstName != "" || p.LastName != "" {
			fmt.Fprintf(bw, "1 NAME %s /%s/\n", p.FirstName, p.LastName)
		}
		if p.BirthDate != nil && *p.BirthDate != "" {
			fmt.Fprintf(bw, "1 BIRT\n2 DATE %s\n", *p.BirthDate)
		}
		if p.DeathDate != nil && *p.DeathDate != "" {
			fmt.Fprintf(bw, "1 DEAT\n2 DATE %s\n", *p.DeathDate)
		}
		fmt.Fprintf(bw, "1 NOTE @%s@\n", p.ID)
	}

	bw.WriteString("0 TRLR\n")
	return bw.Flush()
}

// Decode reads the individuals of a GEDCOM document. Persons whose record
// has no id NOTE are returned with an empty ID. Unrecognized lines are ignored.
func Decode(r io.Reader) ([]entities.Person, error) {
	scanner := bufio.NewScanner(r)
	persons := []entities.Person{}

	var (
		current *entities.Person
		event   string // tag of the current level-1 record
	)
	flush := func() {
		if current != nil {
			persons = append(persons, *current)
			current = nil
		}
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		line = strings.TrimPrefix(line, "\ufeff")
		m := reLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		level, tag, value := m[1], m[3], strings.TrimSpace(m[4])

		if level == "0" {
			flush()
			if tag == "INDI" {
				current = &entities.Person{}
			}
			event = ""
			continue
		}
		if current == nil {
			continue
		}

		switch level {
		case "1":
			event = tag
			switch tag {
			case "NAME":
				current.FirstName, current.LastName = splitName(value)
			case "NOTE":
				if id := reNoteID.FindStringSubmatch(value); id != nil {
					current.ID = id[1]
				}
			}
		case "2":
			if tag != "DATE" || value == "" {
				continue
			}
			switch event {
			case "BIRT":
				current.BirthDate = entities.Ptr(value)
			case "DEAT":
				current.DeathDate = entities.Ptr(value)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading GEDCOM: %w", err)
	}
	flush()

	return persons, nil
}

// splitName parses "First /Last/". A name without slashes is all first name.
func splitName(value string) (first, last string) {
	if m := reName.FindStringSubmatch(value); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return strings.TrimSpace(value), ""
}
