package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/streetup/backend/internal/apperr"
)

const tokenTTL = time.Hour

// TokenService issues and verifies the signed bearer tokens that bind a
// user id. The signing key comes from configuration, never from the store.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Generate signs a time-limited token for the given user.
func (s *TokenService) Generate(userID primitive.ObjectID) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID.Hex(),
		"exp":    time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperr.Internal("Failed to sign token", err)
	}
	return signed, nil
}

// Verify parses a bearer token and returns the user id it binds. Expired,
// malformed, or wrongly signed tokens all fail the same way.
func (s *TokenService) Verify(tokenString string) (primitive.ObjectID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return primitive.NilObjectID, apperr.Auth("Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return primitive.NilObjectID, apperr.Auth("Invalid token claims")
	}
	hex, ok := claims["userId"].(string)
	if !ok {
		return primitive.NilObjectID, apperr.Auth("Invalid token payload")
	}
	userID, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperr.Auth("Invalid token payload")
	}
	return userID, nil
}
