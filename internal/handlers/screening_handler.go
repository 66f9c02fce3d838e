package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hiring-pipeline/internal/services"
)

type ScreeningHandler struct {
	screeningService services.ScreeningService
}

func NewScreeningHandler(screeningService services.ScreeningService) *ScreeningHandler {
	return &ScreeningHandler{screeningService: screeningService}
}

// HandleGetScreening handles GET /screenings/:id
func (h *ScreeningHandler) HandleGetScreening(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	resp, err := h.screeningService.Get(id)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}
