package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/streetup/backend/internal/middleware"
	"github.com/streetup/backend/internal/models"
	"github.com/streetup/backend/internal/services"
)

type AnswerHandler struct {
	answers *services.AnswerService
	votes   *services.VoteService
	auth    *services.AuthService
}

func NewAnswerHandler(answers *services.AnswerService, votes *services.VoteService, auth *services.AuthService) *AnswerHandler {
	return &AnswerHandler{answers: answers, votes: votes, auth: auth}
}

func (h *AnswerHandler) ByQuestion(c *fiber.Ctx) error {
	questionID, err := primitive.ObjectIDFromHex(c.Params("questionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid question ID"})
	}

	answers, err := h.answers.ByQuestion(c.Context(), questionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(answers)
}

func (h *AnswerHandler) Create(c *fiber.Ctx) error {
	var request struct {
		QuestionID string `json:"question_id"`
		Content    string `json:"content"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if request.QuestionID == "" || request.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Question ID and answer content are required"})
	}

	questionID, err := primitive.ObjectIDFromHex(request.QuestionID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid question ID"})
	}

	author := "Anonymous"
	var userID *primitive.ObjectID
	if identity := middleware.IdentityFrom(c); identity.Authenticated {
		userID = &identity.UserID
		author = h.auth.UserName(c.Context(), identity.UserID)
	}

	answerID, err := h.answers.Create(c.Context(), questionID, author, request.Content, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Answer posted successfully",
		"answerId": answerID,
	})
}

func (h *AnswerHandler) Upvote(c *fiber.Ctx) error {
	return h.castVote(c, models.VoteUp, "Upvoted successfully")
}

func (h *AnswerHandler) Downvote(c *fiber.Ctx) error {
	return h.castVote(c, models.VoteDown, "Downvoted successfully")
}

func (h *AnswerHandler) castVote(c *fiber.Ctx, voteType, message string) error {
	answerID, err := primitive.ObjectIDFromHex(c.Params("answerId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid answer ID"})
	}

	identity := middleware.IdentityFrom(c)
	if _, err := h.votes.Cast(c.Context(), answerID, identity.UserID, voteType); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": message})
}
