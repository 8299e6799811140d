package httpserver

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/ersonp/kinship/internal/application/handlers"
	"github.com/ersonp/kinship/internal/domain/entities"
)

// KindBadRequest marks malformed requests that never reached a store.
const KindBadRequest = "bad_request"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", handlers.ErrInvalidInput, err)
}

// statusFor maps an error to its HTTP status and kind name.
func statusFor(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.Is(err, handlers.ErrInvalidInput):
		return fiber.StatusBadRequest, KindBadRequest
	case errors.As(err, &fe):
		if fe.Code == fiber.StatusNotFound {
			return fe.Code, entities.KindNotFound
		}
		return fe.Code, KindBadRequest
	}

	kind := entities.KindOf(err)
	switch kind {
	case entities.KindNotFound:
		return fiber.StatusNotFound, kind
	case entities.KindDuplicateID:
		return fiber.StatusConflict, kind
	case entities.KindConstraintViolation:
		return fiber.StatusUnprocessableEntity, kind
	case entities.KindStorageUnavailable:
		return fiber.StatusServiceUnavailable, kind
	default:
		return fiber.StatusInternalServerError, entities.KindInternal
	}
}

func (s *Server) handleError(c fiber.Ctx, err error) error {
	status, kind := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(ErrorResponse{Error: err.Error(), Kind: kind})
}
