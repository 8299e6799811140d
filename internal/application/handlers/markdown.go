package handlers

import (
	"fmt"
	"io"
	"strings"

	"github.com/ersonp/kinship/internal/domain/entities"
)

// WriteTreeMarkdown writes a whole tree as Markdown tables.
func WriteTreeMarkdown(w io.Writer, snap *entities.Snapshot) error {
	names := make(map[string]string, len(snap.Persons))
	for i := range snap.Persons {
		names[snap.Persons[i].ID] = snap.Persons[i].FullName()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Family Tree\n\nTotal: %d persons, %d relationships\n", len(snap.Persons), len(snap.Relationships))

	b.WriteString("\n## Persons\n\n")
	b.WriteString("| Name | Born | Died | Generation | ID |\n")
	b.WriteString("|------|------|------|------------|----|\n")
	for i := range snap.Persons {
		p := &snap.Persons[i]
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s |\n",
			escapeMarkdown(p.FullName()),
			escapeMarkdown(orDash(p.BirthDate)),
			escapeMarkdown(orDash(p.DeathDate)),
			p.Generation,
			escapeMarkdown(p.ID),
		)
	}

	b.WriteString("\n## Relationships\n\n")
	b.WriteString("| From | Type | To | Since | Until |\n")
	b.WriteString("|------|------|----|-------|-------|\n")
	for i := range snap.Relationships {
		r := &snap.Relationships[i]
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			escapeMarkdown(nameOr(names, r.FromPersonID)),
			escapeMarkdown(describeType(r)),
			escapeMarkdown(nameOr(names, r.ToPersonID)),
			escapeMarkdown(orDash(r.StartDate)),
			escapeMarkdown(orDash(r.EndDate)),
		)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteProfileMarkdown writes one person and their relationships as Markdown.
func WriteProfileMarkdown(w io.Writer, result *ListResult) error {
	if result.Person == nil {
		return fmt.Errorf("person: %w", entities.ErrNotFound)
	}
	p := result.Person

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(p.FullName()))
	fmt.Fprintf(&b, "- **Born:** %s\n", escapeMarkdown(orDash(p.BirthDate)))
	fmt.Fprintf(&b, "- **Died:** %s\n", escapeMarkdown(orDash(p.DeathDate)))
	fmt.Fprintf(&b, "- **Generation:** %d\n", p.Generation)
	if p.Photo != nil {
		fmt.Fprintf(&b, "- **Photo:** %s\n", escapeMarkdown(*p.Photo))
	}
	fmt.Fprintf(&b, "- **ID:** `%s`\n", p.ID)

	b.WriteString("\n## Relationships\n\n")
	if len(result.Relationships) == 0 {
		b.WriteString("_None recorded._\n")
	}
	for i := range result.Relationships {
		info := &result.Relationships[i]
		r := &info.Relationship
		line := fmt.Sprintf("- %s **%s** %s",
			escapeMarkdown(personName(info.From, r.FromPersonID)),
			escapeMarkdown(describeType(r)),
			escapeMarkdown(personName(info.To, r.ToPersonID)),
		)
		if span := dateSpan(r); span != "" {
			line += " (" + escapeMarkdown(span) + ")"
		}
		b.WriteString(line + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// describeType renders the type with spouse detail, e.g. "spouse, married #2".
func describeType(r *entities.Relationship) string {
	s := string(r.Type)
	if r.SpouseType != nil {
		s += ", " + *r.SpouseType
	}
	if r.MarriageNumber != nil {
		s += fmt.Sprintf(" #%d", *r.MarriageNumber)
	}
	return s
}

func dateSpan(r *entities.Relationship) string {
	switch {
	case r.StartDate != nil && r.EndDate != nil:
		return *r.StartDate + " to " + *r.EndDate
	case r.StartDate != nil:
		return "since " + *r.StartDate
	case r.EndDate != nil:
		return "until " + *r.EndDate
	}
	return ""
}

func personName(p *entities.Person, id string) string {
	if p == nil {
		return "unknown (" + id + ")"
	}
	return p.FullName()
}

func nameOr(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return "unknown (" + id + ")"
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
