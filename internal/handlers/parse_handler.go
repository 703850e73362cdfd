package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type ParseHandler struct{}

func NewParseHandler() *ParseHandler {
	return &ParseHandler{}
}

// HandleParse handles POST /parse. It re-reads a stored model answer without
// calling the provider.
func (h *ParseHandler) HandleParse(c *fiber.Ctx) error {
	var req models.ParseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if strings.TrimSpace(req.Analysis) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "analysis is required",
		})
	}

	result := services.Parse(req.Analysis)

	return c.JSON(models.ParseResponse{
		Result:     result,
		Rating:     result.Rating(),
		Structured: result.HasStructuredContent(),
	})
}
