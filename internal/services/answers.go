package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/streetup/backend/internal/apperr"
	"github.com/streetup/backend/internal/models"
)

// AnswerService creates and lists answers and keeps the parent question's
// denormalized answer count in step.
type AnswerService struct {
	answers   *mongo.Collection
	questions *mongo.Collection
}

func NewAnswerService(answers, questions *mongo.Collection) *AnswerService {
	return &AnswerService{answers: answers, questions: questions}
}

// Create inserts an answer for an existing question and bumps the question's
// answer count by one. The insert and the increment are two store writes; the
// window between them is not user-visible as a persistent inconsistency
// because RecountAnswers can repair the counter.
func (s *AnswerService) Create(ctx context.Context, questionID primitive.ObjectID, author, content string, userID *primitive.ObjectID) (primitive.ObjectID, error) {
	err := s.questions.FindOne(ctx, bson.M{"_id": questionID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return primitive.NilObjectID, apperr.NotFound("Question not found")
	}
	if err != nil {
		return primitive.NilObjectID, apperr.Internal("Failed to look up question", err)
	}

	answer := models.Answer{
		ID:         primitive.NewObjectID(),
		QuestionID: questionID,
		Author:     author,
		UserID:     userID,
		Content:    content,
		UserVotes:  []models.UserVote{},
		CreatedAt:  time.Now(),
	}
	if _, err := s.answers.InsertOne(ctx, answer); err != nil {
		return primitive.NilObjectID, apperr.Internal("Failed to post answer", err)
	}

	if _, err := s.questions.UpdateOne(ctx,
		bson.M{"_id": questionID},
		bson.M{"$inc": bson.M{"answers": 1}},
	); err != nil {
		return primitive.NilObjectID, apperr.Internal("Failed to update answer count", err)
	}

	return answer.ID, nil
}

// ByQuestion returns all answers referencing a question.
func (s *AnswerService) ByQuestion(ctx context.Context, questionID primitive.ObjectID) ([]models.Answer, error) {
	cursor, err := s.answers.Find(ctx, bson.M{"question_id": questionID})
	if err != nil {
		return nil, apperr.Internal("Failed to fetch answers", err)
	}
	defer cursor.Close(ctx)

	answers := []models.Answer{}
	if err := cursor.All(ctx, &answers); err != nil {
		return nil, apperr.Internal("Failed to decode answers", err)
	}
	return answers, nil
}

// ByUser returns a user's answers, most recent first.
func (s *AnswerService) ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Answer, error) {
	cursor, err := s.answers.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, apperr.Internal("Failed to fetch answers", err)
	}
	defer cursor.Close(ctx)

	answers := []models.Answer{}
	if err := cursor.All(ctx, &answers); err != nil {
		return nil, apperr.Internal("Failed to decode answers", err)
	}
	return answers, nil
}

// RecountAnswers repairs a question's denormalized answer count from the
// actual number of answer documents referencing it.
func (s *AnswerService) RecountAnswers(ctx context.Context, questionID primitive.ObjectID) error {
	count, err := s.answers.CountDocuments(ctx, bson.M{"question_id": questionID})
	if err != nil {
		return apperr.Internal("Failed to count answers", err)
	}

	result, err := s.questions.UpdateOne(ctx,
		bson.M{"_id": questionID},
		bson.M{"$set": bson.M{"answers": count}},
	)
	if err != nil {
		return apperr.Internal("Failed to repair answer count", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFound("Question not found")
	}
	return nil
}
