package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/streetup/backend/internal/middleware"
	"github.com/streetup/backend/internal/services"
)

type QuestionHandler struct {
	questions *services.QuestionService
}

func NewQuestionHandler(questions *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// List returns all questions. ?sort=trending|upvotes|recent|answers orders
// the result set; anything else keeps store order.
func (h *QuestionHandler) List(c *fiber.Ctx) error {
	questions, err := h.questions.List(c.Context(), c.Query("sort"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(questions)
}

func (h *QuestionHandler) Get(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid question ID"})
	}

	question, err := h.questions.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(question)
}

func (h *QuestionHandler) Create(c *fiber.Ctx) error {
	var request struct {
		Title       string `json:"title"`
		Location    string `json:"location"`
		Category    string `json:"category"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if request.Title == "" || request.Location == "" || request.Category == "" || request.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "All fields are required"})
	}

	var userID *primitive.ObjectID
	if identity := middleware.IdentityFrom(c); identity.Authenticated {
		userID = &identity.UserID
	}

	questionID, err := h.questions.Create(c.Context(),
		request.Title, request.Location, request.Category, request.Description, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Question posted successfully",
		"questionId": questionID,
	})
}

func (h *QuestionHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Search query required"})
	}

	results, err := h.questions.Search(c.Context(), query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(results)
}
