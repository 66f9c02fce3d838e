package handlers

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/hiring-pipeline/internal/logger"
	"alfredoptarigan/hiring-pipeline/internal/pipeline"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

// StatusFor maps an error to the HTTP status it is reported with.
func StatusFor(err error) int {
	var (
		fiberErr   *fiber.Error
		unknown    *pipeline.UnknownStageError
		invalid    *pipeline.InvalidTransitionError
		concurrent *pipeline.ConcurrentProposalError
	)

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.As(err, &unknown):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &invalid), errors.As(err, &concurrent):
		return fiber.StatusConflict
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrInvalidUpload):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders every error as {"error", "code"}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := StatusFor(err)
	msg := err.Error()

	var failure *pipeline.PersistenceFailure
	if errors.As(err, &failure) {
		msg = failure.UserMessage()
	}

	if code >= fiber.StatusInternalServerError {
		logger.Errorw("request failed",
			"method", c.Method(),
			"path", c.Path(),
			logger.FieldError, err)
	}

	return c.Status(code).JSON(fiber.Map{
		"error": msg,
		"code":  code,
	})
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name+" format")
	}
	return id, nil
}
