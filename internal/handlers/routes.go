package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts every endpoint under router (normally /api/v1).
func RegisterRoutes(
	router fiber.Router,
	careerHandler *CareerHandler,
	screeningHandler *ScreeningHandler,
	interviewHandler *InterviewHandler,
) {
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	router.Get("/stages", interviewHandler.HandleStages)

	router.Post("/careers", careerHandler.HandleCreate)
	router.Get("/careers/:careerId", careerHandler.HandleGet)
	router.Post("/careers/:careerId/apply", careerHandler.HandleApply)
	router.Get("/careers/:careerId/interviews", interviewHandler.HandleList)
	router.Get("/careers/:careerId/pipeline", interviewHandler.HandleBoard)
	router.Get("/careers/:careerId/history", interviewHandler.HandleCareerHistory)

	router.Get("/screenings/:id", screeningHandler.HandleGetScreening)

	router.Post("/interviews/:id/update", interviewHandler.HandleUpdate)
	router.Post("/interviews/:id/reset-interview-data", interviewHandler.HandleReset)
	router.Post("/interviews/:id/actions", interviewHandler.HandleAction)
	router.Get("/interviews/:id/history", interviewHandler.HandleHistory)
}
