package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	VoteUp   = "upvote"
	VoteDown = "downvote"
)

// UserVote is one entry in an answer's vote ledger. The ledger holds at most
// one entry per user; the upvotes/downvotes tallies on the answer are caches
// of the ledger counts and must change in the same write as the ledger.
type UserVote struct {
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Type   string             `bson:"type" json:"type"`
}

type Answer struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	QuestionID primitive.ObjectID  `bson:"question_id" json:"question_id"`
	Author     string              `bson:"author" json:"author"`
	UserID     *primitive.ObjectID `bson:"userId" json:"userId"`
	Content    string              `bson:"content" json:"content"`
	Upvotes    int                 `bson:"upvotes" json:"upvotes"`
	Downvotes  int                 `bson:"downvotes" json:"downvotes"`
	UserVotes  []UserVote          `bson:"userVotes" json:"userVotes"`
	Verified   bool                `bson:"verified" json:"verified"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
}
