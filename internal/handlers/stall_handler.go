package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/streetup/backend/internal/services"
)

type StallHandler struct {
	stalls *services.StallService
}

func NewStallHandler(stalls *services.StallService) *StallHandler {
	return &StallHandler{stalls: stalls}
}

// List filters stalls by ?food= (comma-separated food types, OR semantics)
// and ?location= (city or area substring).
func (h *StallHandler) List(c *fiber.Ctx) error {
	stalls, err := h.stalls.List(c.Context(), c.Query("food"), c.Query("location"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stalls)
}

func (h *StallHandler) Create(c *fiber.Ctx) error {
	var request struct {
		Name     string `json:"name"`
		FoodType string `json:"food_type"`
		City     string `json:"city"`
		Area     string `json:"area"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if request.Name == "" || request.FoodType == "" || request.City == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name, food type and city are required"})
	}

	stallID, err := h.stalls.Create(c.Context(), request.Name, request.FoodType, request.City, request.Area)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Stall created successfully",
		"stallId": stallID,
	})
}

func (h *StallHandler) AttachPhoto(c *fiber.Ctx) error {
	stallID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid stall ID"})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Photo file is required"})
	}

	url, err := h.stalls.AttachPhoto(c.Context(), stallID, fileHeader)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":   "Photo uploaded successfully",
		"photo_url": url,
	})
}
