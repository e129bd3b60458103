package auth

import (
	"context"

	"blog/internal/middleware"
	"blog/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	localUserID = "userID"
	localClaims = "claims"
)

// Required rejects requests without a valid bearer token before the handler
// runs. On success the user ID is available through UserID.
func (t *Tokens) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return models.RespondWithError(c, models.NewUnauthorizedError("Authorization required"))
		}

		claims, err := t.Verify(c.UserContext(), raw)
		if err != nil {
			return models.RespondWithError(c, err)
		}

		c.Locals(localUserID, claims.Subject)
		c.Locals(localClaims, claims)
		c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, claims.Subject))

		return c.Next()
	}
}

// UserID returns the authenticated user's ID, or "" on public routes.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

// ClaimsFrom returns the verified claims of the current request.
func ClaimsFrom(c *fiber.Ctx) *Claims {
	claims, _ := c.Locals(localClaims).(*Claims)
	return claims
}
