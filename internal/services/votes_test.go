package services

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/streetup/backend/internal/models"
)

func ledger(types ...string) []models.UserVote {
	votes := make([]models.UserVote, len(types))
	for i, t := range types {
		votes[i] = models.UserVote{UserID: primitive.NewObjectID(), Type: t}
	}
	return votes
}

func TestTallyLedger(t *testing.T) {
	tests := []struct {
		name     string
		votes    []models.UserVote
		up, down int
	}{
		{"empty", nil, 0, 0},
		{"all upvotes", ledger("upvote", "upvote", "upvote"), 3, 0},
		{"all downvotes", ledger("downvote", "downvote"), 0, 2},
		{"mixed", ledger("upvote", "downvote", "upvote", "downvote", "upvote"), 3, 2},
		{"unknown types ignored", ledger("upvote", "sideways", "downvote"), 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up, down := TallyLedger(tt.votes)
			if up != tt.up || down != tt.down {
				t.Errorf("TallyLedger = %d/%d, want %d/%d", up, down, tt.up, tt.down)
			}
		})
	}
}

func TestTallyLedgerRepairsDrift(t *testing.T) {
	// An answer whose cached tallies have drifted from its ledger. The
	// recount path writes the ledger-derived counts back over the cache.
	answer := models.Answer{
		Upvotes:   7,
		Downvotes: 0,
		UserVotes: ledger("upvote", "upvote", "downvote"),
	}

	up, down := TallyLedger(answer.UserVotes)
	if up == answer.Upvotes && down == answer.Downvotes {
		t.Fatal("drifted cache not detected")
	}
	if up != 2 || down != 1 {
		t.Errorf("repaired tallies = %d/%d, want 2/1", up, down)
	}
}
