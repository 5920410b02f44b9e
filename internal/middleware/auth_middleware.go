package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/streetup/backend/internal/services"
)

const identityKey = "identity"

// Identity is the resolved caller: anonymous, or a verified user id. Every
// handler reads this from Locals instead of touching the token itself.
type Identity struct {
	UserID        primitive.ObjectID
	Authenticated bool
}

// Auth resolves bearer tokens for handlers.
type Auth struct {
	tokens *services.TokenService
}

func NewAuth(tokens *services.TokenService) *Auth {
	return &Auth{tokens: tokens}
}

// resolve turns the optional Authorization header into an Identity. A
// missing or unverifiable token yields the anonymous identity; whether that
// is acceptable is the route's decision, not this step's.
func (a *Auth) resolve(c *fiber.Ctx) Identity {
	header := c.Get("Authorization")
	if header == "" {
		return Identity{}
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == "" {
		return Identity{}
	}

	userID, err := a.tokens.Verify(tokenString)
	if err != nil {
		return Identity{}
	}
	return Identity{UserID: userID, Authenticated: true}
}

// Required rejects unauthenticated requests with 401.
func (a *Auth) Required(c *fiber.Ctx) error {
	identity := a.resolve(c)
	if !identity.Authenticated {
		if c.Get("Authorization") == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "No token provided"})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	c.Locals(identityKey, identity)
	return c.Next()
}

// Optional lets the request proceed anonymously when the token is absent or
// fails verification.
func (a *Auth) Optional(c *fiber.Ctx) error {
	c.Locals(identityKey, a.resolve(c))
	return c.Next()
}

// IdentityFrom reads the resolved identity for the current request.
// Anonymous when no auth middleware ran.
func IdentityFrom(c *fiber.Ctx) Identity {
	if identity, ok := c.Locals(identityKey).(Identity); ok {
		return identity
	}
	return Identity{}
}
