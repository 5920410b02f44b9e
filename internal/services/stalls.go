package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/streetup/backend/internal/apperr"
	"github.com/streetup/backend/internal/models"
	"github.com/streetup/backend/internal/storage"
)

// StallService reads and writes the "localstalls" collection and stores
// stall photos in object storage.
type StallService struct {
	stalls *mongo.Collection
	photos *storage.ObjectStore
}

func NewStallService(stalls *mongo.Collection, photos *storage.ObjectStore) *StallService {
	return &StallService{stalls: stalls, photos: photos}
}

// List filters stalls by food types (comma-separated, OR semantics) and/or a
// case-insensitive substring of the city or area.
func (s *StallService) List(ctx context.Context, food, location string) ([]models.Stall, error) {
	filter := StallFilter(food, location)

	cursor, err := s.stalls.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("Cannot fetch stalls", err)
	}
	defer cursor.Close(ctx)

	stalls := []models.Stall{}
	if err := cursor.All(ctx, &stalls); err != nil {
		return nil, apperr.Internal("Cannot decode stalls", err)
	}
	return stalls, nil
}

// StallFilter builds the store filter for List.
func StallFilter(food, location string) bson.M {
	filter := bson.M{}

	if food != "" {
		types := []string{}
		for _, f := range strings.Split(food, ",") {
			if f = strings.TrimSpace(f); f != "" {
				types = append(types, f)
			}
		}
		if len(types) > 0 {
			filter["food_type"] = bson.M{"$in": types}
		}
	}

	if location != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(location), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"location.city": pattern},
			bson.M{"location.area": pattern},
		}
	}

	return filter
}

// Create inserts a new stall.
func (s *StallService) Create(ctx context.Context, name, foodType, city, area string) (primitive.ObjectID, error) {
	stall := models.Stall{
		ID:        primitive.NewObjectID(),
		Name:      name,
		FoodType:  foodType,
		Location:  models.StallLocation{City: city, Area: area},
		CreatedAt: time.Now(),
	}
	if _, err := s.stalls.InsertOne(ctx, stall); err != nil {
		return primitive.NilObjectID, apperr.Internal("Failed to create stall", err)
	}
	return stall.ID, nil
}

// AttachPhoto uploads a photo for an existing stall and records its URL on
// the stall document.
func (s *StallService) AttachPhoto(ctx context.Context, stallID primitive.ObjectID, fileHeader *multipart.FileHeader) (string, error) {
	err := s.stalls.FindOne(ctx, bson.M{"_id": stallID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", apperr.NotFound("Stall not found")
	}
	if err != nil {
		return "", apperr.Internal("Failed to look up stall", err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", apperr.Validation("Failed to open photo")
	}
	defer file.Close()

	objectName := fmt.Sprintf("%s_%s", stallID.Hex(), fileHeader.Filename)
	url, err := s.photos.PutPhoto(ctx, objectName, file, fileHeader.Size,
		fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return "", apperr.Internal("Failed to store photo", err)
	}

	if _, err := s.stalls.UpdateOne(ctx,
		bson.M{"_id": stallID},
		bson.M{"$set": bson.M{"photo_url": url}},
	); err != nil {
		return "", apperr.Internal("Failed to save photo URL", err)
	}
	return url, nil
}
