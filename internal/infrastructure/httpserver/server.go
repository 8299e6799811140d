// Package httpserver exposes a tree over a local JSON HTTP API.
package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/ersonp/kinship/internal/application/handlers"
)

// Handlers groups the use case handlers the routes delegate to.
type Handlers struct {
	Persons       *handlers.PersonHandler
	Relationships *handlers.RelationshipHandler
	Transfer      *handlers.TransferHandler
}

// Server serves one tree.
type Server struct {
	app    *fiber.App
	h      Handlers
	tree   string
	logger *zap.Logger
}

// New builds the fiber app and registers every route.
func New(tree string, h Handlers, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		h:      h,
		tree:   tree,
		logger: logger,
	}
	s.app = fiber.New(fiber.Config{
		AppName:      "kinship",
		ErrorHandler: s.handleError,
	})
	s.app.Use(s.logRequests)
	s.routes()
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	s.logger.Info("serving tree", zap.String("tree", s.tree), zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *Server) routes() {
	s.app.Get("/health", s.health)

	persons := s.app.Group("/persons")
	persons.Get("/", s.listPersons)
	persons.Post("/", s.createPerson)
	persons.Get("/:id", s.getPerson)
	persons.Put("/:id", s.updatePerson)
	persons.Delete("/:id", s.deletePerson)
	persons.Get("/:id/relationships", s.listPersonRelationships)

	relationships := s.app.Group("/relationships")
	relationships.Get("/", s.listRelationships)
	relationships.Post("/", s.createRelationship)
	relationships.Get("/:id", s.getRelationship)
	relationships.Put("/:id", s.updateRelationship)
	relationships.Delete("/:id", s.deleteRelationship)

	s.app.Get("/export", s.export)
	s.app.Post("/import", s.importSnapshot)
}

func (s *Server) logRequests(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("took", time.Since(start)),
	)
	return err
}

func (s *Server) health(c fiber.Ctx) error {
	persons, err := s.h.Persons.HandleCount(c.Context())
	if err != nil {
		return err
	}
	relationships, err := s.h.Relationships.HandleCount(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":        "ok",
		"tree":          s.tree,
		"persons":       persons,
		"relationships": relationships,
	})
}
