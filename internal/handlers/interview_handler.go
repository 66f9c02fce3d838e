package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/pipeline"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

type InterviewHandler struct {
	pipelineService services.PipelineService
}

func NewInterviewHandler(pipelineService services.PipelineService) *InterviewHandler {
	return &InterviewHandler{pipelineService: pipelineService}
}

// HandleStages handles GET /stages
func (h *InterviewHandler) HandleStages(c *fiber.Ctx) error {
	return c.JSON(h.pipelineService.Stages())
}

// HandleList handles GET /careers/:careerId/interviews
func (h *InterviewHandler) HandleList(c *fiber.Ctx) error {
	careerID, err := paramUUID(c, "careerId")
	if err != nil {
		return err
	}

	interviews, err := h.pipelineService.ListInterviews(careerID)
	if err != nil {
		return err
	}
	if interviews == nil {
		interviews = []models.Interview{}
	}

	return c.JSON(interviews)
}

// HandleBoard handles GET /careers/:careerId/pipeline
func (h *InterviewHandler) HandleBoard(c *fiber.Ctx) error {
	careerID, err := paramUUID(c, "careerId")
	if err != nil {
		return err
	}

	board, err := h.pipelineService.Board(careerID)
	if err != nil {
		return err
	}

	return c.JSON(board)
}

// HandleUpdate handles POST /interviews/:id/update
func (h *InterviewHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var mutation pipeline.Mutation
	if err := c.BodyParser(&mutation); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}

	updated, err := h.pipelineService.ApplyMutation(id, mutation)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

// HandleReset handles POST /interviews/:id/reset-interview-data
func (h *InterviewHandler) HandleReset(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.pipelineService.ResetInterviewData(id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"id": id, "reset": true})
}

// HandleAction handles POST /interviews/:id/actions
func (h *InterviewHandler) HandleAction(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req models.ActionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}

	result, err := h.pipelineService.ApplyAction(c.UserContext(), id, services.ActionInput{
		Action:      req.Action,
		Destination: req.Destination,
		Actor:       req.UpdatedBy,
	})
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// HandleHistory handles GET /interviews/:id/history
func (h *InterviewHandler) HandleHistory(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	records, err := h.pipelineService.History(id)
	if err != nil {
		return err
	}
	if records == nil {
		records = []models.TransactionRecord{}
	}

	return c.JSON(records)
}

// HandleCareerHistory handles GET /careers/:careerId/history
func (h *InterviewHandler) HandleCareerHistory(c *fiber.Ctx) error {
	careerID, err := paramUUID(c, "careerId")
	if err != nil {
		return err
	}

	records, err := h.pipelineService.CareerHistory(careerID)
	if err != nil {
		return err
	}
	if records == nil {
		records = []models.TransactionRecord{}
	}

	return c.JSON(records)
}
