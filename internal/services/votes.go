package services

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/streetup/backend/internal/apperr"
	"github.com/streetup/backend/internal/models"
)

// VoteResult reports what a cast did.
type VoteResult int

const (
	VoteRecorded VoteResult = iota
	VoteChanged
)

// VoteService enforces one active vote per user per answer. Every mutation is
// a single conditional update on the answer document, so the ledger and the
// cached tallies always move together and concurrent casts from the same user
// cannot lose updates.
type VoteService struct {
	answers *mongo.Collection
}

func NewVoteService(answers *mongo.Collection) *VoteService {
	return &VoteService{answers: answers}
}

// Cast records, or flips, the caller's vote on an answer.
//
// A flip matches only if the ledger holds this user with the opposite type;
// an append matches only if the ledger holds no entry for this user. When
// neither matched, the answer is either missing or already carries the same
// vote.
func (s *VoteService) Cast(ctx context.Context, answerID, userID primitive.ObjectID, voteType string) (VoteResult, error) {
	other := models.VoteDown
	if voteType == models.VoteDown {
		other = models.VoteUp
	}

	flip, err := s.answers.UpdateOne(ctx,
		bson.M{
			"_id":       answerID,
			"userVotes": bson.M{"$elemMatch": bson.M{"userId": userID, "type": other}},
		},
		bson.M{
			"$set": bson.M{"userVotes.$.type": voteType},
			"$inc": bson.M{other + "s": -1, voteType + "s": 1},
		},
	)
	if err != nil {
		return 0, apperr.Internal("Failed to update vote", err)
	}
	if flip.ModifiedCount == 1 {
		return VoteChanged, nil
	}

	push, err := s.answers.UpdateOne(ctx,
		bson.M{
			"_id":              answerID,
			"userVotes.userId": bson.M{"$ne": userID},
		},
		bson.M{
			"$push": bson.M{"userVotes": models.UserVote{UserID: userID, Type: voteType}},
			"$inc":  bson.M{voteType + "s": 1},
		},
	)
	if err != nil {
		return 0, apperr.Internal("Failed to record vote", err)
	}
	if push.ModifiedCount == 1 {
		return VoteRecorded, nil
	}

	// Neither update matched: distinguish a missing answer from a repeat vote.
	err = s.answers.FindOne(ctx, bson.M{"_id": answerID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, apperr.NotFound("Answer not found")
	}
	if err != nil {
		return 0, apperr.Internal("Failed to look up answer", err)
	}
	if voteType == models.VoteUp {
		return 0, apperr.Conflict("Already upvoted").WithStatus(fiber.StatusBadRequest)
	}
	return 0, apperr.Conflict("Already downvoted").WithStatus(fiber.StatusBadRequest)
}

// TallyLedger counts a ledger's entries by vote type. These counts are the
// source of truth the cached tallies must equal.
func TallyLedger(votes []models.UserVote) (upvotes, downvotes int) {
	for _, v := range votes {
		switch v.Type {
		case models.VoteUp:
			upvotes++
		case models.VoteDown:
			downvotes++
		}
	}
	return upvotes, downvotes
}

// RecountTallies recomputes an answer's cached tallies from its ledger. This
// is the repair path if a tally ever drifts from the userVotes counts.
func (s *VoteService) RecountTallies(ctx context.Context, answerID primitive.ObjectID) error {
	var answer models.Answer
	err := s.answers.FindOne(ctx, bson.M{"_id": answerID}).Decode(&answer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound("Answer not found")
	}
	if err != nil {
		return apperr.Internal("Failed to look up answer", err)
	}

	up, down := TallyLedger(answer.UserVotes)

	_, err = s.answers.UpdateOne(ctx,
		bson.M{"_id": answerID},
		bson.M{"$set": bson.M{"upvotes": up, "downvotes": down}},
	)
	if err != nil {
		return apperr.Internal("Failed to repair tallies", err)
	}
	return nil
}
