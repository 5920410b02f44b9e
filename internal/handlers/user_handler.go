package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/streetup/backend/internal/middleware"
	"github.com/streetup/backend/internal/services"
)

type UserHandler struct {
	users     *services.UserService
	questions *services.QuestionService
	answers   *services.AnswerService
}

func NewUserHandler(users *services.UserService, questions *services.QuestionService, answers *services.AnswerService) *UserHandler {
	return &UserHandler{users: users, questions: questions, answers: answers}
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	identity := middleware.IdentityFrom(c)

	user, stats, err := h.users.Profile(c.Context(), identity.UserID)
	if err != nil {
		return respondError(c, err)
	}

	location := user.Location
	if location == "" {
		location = "Not provided"
	}

	return c.JSON(fiber.Map{
		"name":       user.Name,
		"email":      user.Email,
		"location":   location,
		"joinedDate": user.CreatedAt.Format("1/2/2006"),
		"stats":      stats,
	})
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var request struct {
		Name     string `json:"name"`
		Location string `json:"location"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if request.Name == "" && request.Location == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Provide at least name or location to update"})
	}

	identity := middleware.IdentityFrom(c)
	updated, err := h.users.UpdateProfile(c.Context(), identity.UserID, request.Name, request.Location)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"updated": updated,
	})
}

func (h *UserHandler) Questions(c *fiber.Ctx) error {
	identity := middleware.IdentityFrom(c)

	questions, err := h.questions.ByUser(c.Context(), identity.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(questions)
}

func (h *UserHandler) Answers(c *fiber.Ctx) error {
	identity := middleware.IdentityFrom(c)

	answers, err := h.answers.ByUser(c.Context(), identity.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(answers)
}
