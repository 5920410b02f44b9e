package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/streetup/backend/internal/apperr"
	"github.com/streetup/backend/internal/models"
)

// AuthService owns signup and login against the users collection.
type AuthService struct {
	users  *mongo.Collection
	tokens *TokenService
}

func NewAuthService(users *mongo.Collection, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a hashed password.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Signup registers a new user. Emails are unique; the password is stored only
// as a bcrypt hash.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (primitive.ObjectID, error) {
	err := s.users.FindOne(ctx, bson.M{"email": email}).Err()
	if err == nil {
		return primitive.NilObjectID, apperr.Conflict("Email already in use")
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return primitive.NilObjectID, apperr.Internal("Failed to check existing user", err)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return primitive.NilObjectID, apperr.Internal("Failed to hash password", err)
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  hashed,
		CreatedAt: time.Now(),
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		// A concurrent signup can pass the existence check; the unique
		// email index rejects the later insert.
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, apperr.Conflict("Email already in use")
		}
		return primitive.NilObjectID, apperr.Internal("Failed to create user", err)
	}
	return user.ID, nil
}

// Login authenticates by email and password and returns a signed token plus
// the user record. The failure message never reveals whether the email exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", models.User{}, apperr.Auth("Invalid credentials")
	}
	if err != nil {
		return "", models.User{}, apperr.Internal("Failed to look up user", err)
	}

	if !VerifyPassword(password, user.Password) {
		return "", models.User{}, apperr.Auth("Invalid credentials")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", models.User{}, err
	}
	return token, user, nil
}

// UserName resolves a user's display name, "Anonymous" when the user is
// unknown. Used when attributing answers.
func (s *AuthService) UserName(ctx context.Context, userID primitive.ObjectID) string {
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return "Anonymous"
	}
	return user.Name
}
