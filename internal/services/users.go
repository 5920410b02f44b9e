package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/streetup/backend/internal/apperr"
	"github.com/streetup/backend/internal/models"
	"github.com/streetup/backend/internal/utils"
)

// UserStats aggregates a user's activity over the content store. The numbers
// are computed on demand, not maintained incrementally.
type UserStats struct {
	Questions int `json:"questions"`
	Answers   int `json:"answers"`
	Upvotes   int `json:"upvotes"`
}

// UserService serves profile reads and updates.
type UserService struct {
	users     *mongo.Collection
	questions *mongo.Collection
	answers   *mongo.Collection
}

func NewUserService(users, questions, answers *mongo.Collection) *UserService {
	return &UserService{users: users, questions: questions, answers: answers}
}

// Profile returns the user record together with aggregated stats.
func (s *UserService) Profile(ctx context.Context, userID primitive.ObjectID) (models.User, UserStats, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, UserStats{}, apperr.NotFound("User not found")
	}
	if err != nil {
		return models.User{}, UserStats{}, apperr.Internal("Failed to look up user", err)
	}

	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return models.User{}, UserStats{}, err
	}
	return user, stats, nil
}

// Stats counts the user's questions and answers and sums upvotes across all
// of the user's answers. The three store queries are independent and run in
// parallel.
func (s *UserService) Stats(ctx context.Context, userID primitive.ObjectID) (UserStats, error) {
	results, errs := utils.RunParallelTasks([]utils.ParallelTask{
		func() (interface{}, error) {
			return s.questions.CountDocuments(ctx, bson.M{"userId": userID})
		},
		func() (interface{}, error) {
			return s.answers.CountDocuments(ctx, bson.M{"userId": userID})
		},
		func() (interface{}, error) {
			return s.sumUpvotes(ctx, userID)
		},
	})
	for _, err := range errs {
		if err != nil {
			return UserStats{}, apperr.Internal("Failed to aggregate user stats", err)
		}
	}

	return UserStats{
		Questions: int(results[0].(int64)),
		Answers:   int(results[1].(int64)),
		Upvotes:   results[2].(int),
	}, nil
}

func (s *UserService) sumUpvotes(ctx context.Context, userID primitive.ObjectID) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$upvotes"}}}},
	}
	cursor, err := s.answers.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var totals []struct {
		Total int `bson:"total"`
	}
	if err := cursor.All(ctx, &totals); err != nil {
		return 0, err
	}
	if len(totals) == 0 {
		return 0, nil
	}
	return totals[0].Total, nil
}

// UpdateProfile sets the provided fields on the user record. At least one of
// name or location must be given; the handler validates that.
func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, name, location string) (bson.M, error) {
	update := bson.M{}
	if name != "" {
		update["name"] = name
	}
	if location != "" {
		update["location"] = location
	}

	result, err := s.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": update})
	if err != nil {
		return nil, apperr.Internal("Failed to update profile", err)
	}
	if result.MatchedCount == 0 {
		return nil, apperr.NotFound("User not found")
	}
	return update, nil
}
