package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

type CareerHandler struct {
	careerService services.CareerService
}

func NewCareerHandler(careerService services.CareerService) *CareerHandler {
	return &CareerHandler{careerService: careerService}
}

// HandleCreate handles POST /careers
func (h *CareerHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateCareerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}

	career, err := h.careerService.Create(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(career)
}

// HandleGet handles GET /careers/:careerId
func (h *CareerHandler) HandleGet(c *fiber.Ctx) error {
	careerID, err := paramUUID(c, "careerId")
	if err != nil {
		return err
	}

	career, err := h.careerService.Get(careerID)
	if err != nil {
		return err
	}

	return c.JSON(career)
}

// HandleApply handles POST /careers/:careerId/apply (multipart: cv, name, email)
func (h *CareerHandler) HandleApply(c *fiber.Ctx) error {
	careerID, err := paramUUID(c, "careerId")
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to parse multipart form")
	}

	input := services.ApplyInput{
		Name:  firstValue(form.Value["name"]),
		Email: firstValue(form.Value["email"]),
	}
	if files := form.File["cv"]; len(files) > 0 {
		input.CV = files[0]
	}

	resp, err := h.careerService.Apply(careerID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(resp)
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
