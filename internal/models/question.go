package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question lives in the "queries" collection. The answers field is a
// denormalized count of Answer documents referencing this question; it is
// maintained by the answer service and repairable via RecountAnswers.
type Question struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Location    string              `bson:"location" json:"location"`
	Category    string              `bson:"category" json:"category"`
	Description string              `bson:"description" json:"description"`
	Upvotes     int                 `bson:"upvotes" json:"upvotes"`
	Answers     int                 `bson:"answers" json:"answers"`
	Verified    bool                `bson:"verified" json:"verified"`
	UserID      *primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}
