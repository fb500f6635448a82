package middleware

import (
	"strings"

	"quiz-builder/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	// SessionIDKey is the fiber.Ctx locals key holding the authorized session ID.
	SessionIDKey = "sessionID"
)

// SessionGuard protects session routes: the bearer token must be a valid
// session token, and its session must match the :id path parameter.
func SessionGuard(authService *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "MISSING_AUTH_HEADER",
				Message: "Authorization header is missing",
				Status:  fiber.StatusUnauthorized,
			})
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_AUTH_SCHEME",
				Message: "Authorization scheme is not Bearer",
				Status:  fiber.StatusUnauthorized,
			})
		}

		tokenString := strings.TrimPrefix(authHeader, BearerSchema)
		sessionID, err := authService.ValidateSessionToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: "Session token is invalid or expired",
				Status:  fiber.StatusUnauthorized,
			})
		}

		if pathID := c.Params("id"); pathID != "" && pathID != sessionID {
			return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
				Code:    "SESSION_MISMATCH",
				Message: "Token does not grant access to this session",
				Status:  fiber.StatusForbidden,
			})
		}

		c.Locals(SessionIDKey, sessionID)
		return c.Next()
	}
}
