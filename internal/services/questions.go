package services

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/streetup/backend/internal/apperr"
	"github.com/streetup/backend/internal/models"
)

// QuestionService reads and writes the "queries" collection.
type QuestionService struct {
	questions *mongo.Collection
}

func NewQuestionService(questions *mongo.Collection) *QuestionService {
	return &QuestionService{questions: questions}
}

// List returns all questions, optionally sorted by a policy.
func (s *QuestionService) List(ctx context.Context, sortBy string) ([]models.Question, error) {
	questions, err := s.find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	SortQuestions(questions, sortBy)
	return questions, nil
}

// Get fetches a single question by id.
func (s *QuestionService) Get(ctx context.Context, id primitive.ObjectID) (models.Question, error) {
	var question models.Question
	err := s.questions.FindOne(ctx, bson.M{"_id": id}).Decode(&question)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Question{}, apperr.NotFound("Question not found")
	}
	if err != nil {
		return models.Question{}, apperr.Internal("Cannot fetch question", err)
	}
	return question, nil
}

// Create inserts a new question. userID is nil for anonymous posts.
func (s *QuestionService) Create(ctx context.Context, title, location, category, description string, userID *primitive.ObjectID) (primitive.ObjectID, error) {
	question := models.Question{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Location:    location,
		Category:    category,
		Description: description,
		UserID:      userID,
		CreatedAt:   time.Now(),
	}
	if _, err := s.questions.InsertOne(ctx, question); err != nil {
		return primitive.NilObjectID, apperr.Internal("Failed to post question", err)
	}
	return question.ID, nil
}

// Search matches a case-insensitive substring against title, location and
// description.
func (s *QuestionService) Search(ctx context.Context, query string) ([]models.Question, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"title": pattern},
		bson.M{"location": pattern},
		bson.M{"description": pattern},
	}}
	return s.find(ctx, filter)
}

// ByUser returns a user's questions, most recent first.
func (s *QuestionService) ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Question, error) {
	cursor, err := s.questions.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, apperr.Internal("Cannot fetch questions", err)
	}
	defer cursor.Close(ctx)

	questions := []models.Question{}
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, apperr.Internal("Cannot decode questions", err)
	}
	return questions, nil
}

func (s *QuestionService) find(ctx context.Context, filter bson.M) ([]models.Question, error) {
	cursor, err := s.questions.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("Cannot fetch questions", err)
	}
	defer cursor.Close(ctx)

	questions := []models.Question{}
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, apperr.Internal("Cannot decode questions", err)
	}
	return questions, nil
}

// SortQuestions orders a fetched result set in place by policy. The sort is
// stable, so ties keep their store order. Unknown policies leave the input
// untouched.
func SortQuestions(questions []models.Question, policy string) {
	switch policy {
	case "trending", "upvotes":
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].Upvotes > questions[j].Upvotes
		})
	case "recent":
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].CreatedAt.After(questions[j].CreatedAt)
		})
	case "answers":
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].Answers > questions[j].Answers
		})
	}
}
