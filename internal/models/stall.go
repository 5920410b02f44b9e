package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type StallLocation struct {
	City string `bson:"city" json:"city"`
	Area string `bson:"area" json:"area"`
}

// Stall lives in the "localstalls" collection.
type Stall struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	FoodType  string             `bson:"food_type" json:"food_type"`
	Location  StallLocation      `bson:"location" json:"location"`
	PhotoURL  string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Verified  bool               `bson:"verified" json:"verified"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
