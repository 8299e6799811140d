package httpserver

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/ersonp/kinship/internal/application/handlers"
	"github.com/ersonp/kinship/internal/domain/services"
)

var exportContentTypes = map[string]string{
	"json":     fiber.MIMEApplicationJSONCharsetUTF8,
	"csv":      "text/csv; charset=utf-8",
	"gedcom":   fiber.MIMETextPlainCharsetUTF8,
	"markdown": "text/markdown; charset=utf-8",
}

// Persons

func (s *Server) listPersons(c fiber.Ctx) error {
	persons, err := s.h.Persons.HandleList(c.Context(), handlers.PersonListOptions{
		Search: c.Query("search"),
	})
	if err != nil {
		return err
	}
	return c.JSON(persons)
}

func (s *Server) createPerson(c fiber.Ctx) error {
	var in handlers.PersonInput
	if err := c.Bind().JSON(&in); err != nil {
		return invalid(fmt.Errorf("invalid body: %w", err))
	}
	p, err := s.h.Persons.HandleCreate(c.Context(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (s *Server) getPerson(c fiber.Ctx) error {
	p, err := s.h.Persons.HandleGet(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (s *Server) updatePerson(c fiber.Ctx) error {
	var patch handlers.PersonPatch
	if err := c.Bind().JSON(&patch); err != nil {
		return invalid(fmt.Errorf("invalid body: %w", err))
	}
	p, err := s.h.Persons.HandleUpdate(c.Context(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (s *Server) deletePerson(c fiber.Ctx) error {
	if err := s.h.Persons.HandleDelete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listPersonRelationships(c fiber.Ctx) error {
	result, err := s.h.Relationships.HandleList(c.Context(), c.Params("id"), handlers.ListOptions{
		Type: c.Query("type"),
	})
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Relationships

func (s *Server) listRelationships(c fiber.Ctx) error {
	rels, err := s.h.Relationships.HandleListAll(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(rels)
}

func (s *Server) createRelationship(c fiber.Ctx) error {
	var in handlers.RelationshipInput
	if err := c.Bind().JSON(&in); err != nil {
		return invalid(fmt.Errorf("invalid body: %w", err))
	}
	rel, err := s.h.Relationships.HandleCreate(c.Context(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(rel)
}

func (s *Server) getRelationship(c fiber.Ctx) error {
	rel, err := s.h.Relationships.HandleGet(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(rel)
}

func (s *Server) updateRelationship(c fiber.Ctx) error {
	var patch handlers.RelationshipPatch
	if err := c.Bind().JSON(&patch); err != nil {
		return invalid(fmt.Errorf("invalid body: %w", err))
	}
	rel, err := s.h.Relationships.HandleUpdate(c.Context(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(rel)
}

func (s *Server) deleteRelationship(c fiber.Ctx) error {
	if err := s.h.Relationships.HandleDelete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Transfer

func (s *Server) export(c fiber.Ctx) error {
	format := strings.ToLower(c.Query("format", "json"))
	contentType, ok := exportContentTypes[format]
	if !ok {
		return invalid(fmt.Errorf("invalid format %q, valid formats: %v", format, handlers.ExportFormats))
	}

	var buf bytes.Buffer
	if _, err := s.h.Transfer.HandleExport(c.Context(), &buf, format); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(buf.Bytes())
}

func (s *Server) importSnapshot(c fiber.Ctx) error {
	mode, err := services.ParseImportMode(c.Query("mode"))
	if err != nil {
		return invalid(err)
	}
	onConflict, err := services.ParseConflictStrategy(c.Query("on_conflict"))
	if err != nil {
		return invalid(err)
	}
	dryRun := false
	if raw := c.Query("dry_run"); raw != "" {
		if dryRun, err = strconv.ParseBool(raw); err != nil {
			return invalid(fmt.Errorf("invalid dry_run %q", raw))
		}
	}

	result, err := s.h.Transfer.HandleImportReader(c.Context(), bytes.NewReader(c.Body()), handlers.ImportOptions{
		Format:     c.Query("format", "json"),
		Mode:       mode,
		OnConflict: onConflict,
		DryRun:     dryRun,
	})
	if err != nil {
		return err
	}
	return c.JSON(result)
}
