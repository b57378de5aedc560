package middleware

import (
	"fmt"

	"github.com/atelier-studio/portfoliodb/internal/config"
	"github.com/atelier-studio/portfoliodb/internal/services"
	"github.com/atelier-studio/portfoliodb/internal/types"
	"github.com/gofiber/fiber/v2"
)

// AuthAdmin validates that the request has admin role authorization.
// Every console route sits behind it; public site routes do not.
func AuthAdmin(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, cfg, []string{"admin"}, "library.authorization.admin")
	}
}

// authorize performs the authorization check. The Authorizer client needs
// the request host for its redirect URL, so it is created on the first
// authenticated request.
func authorize(c *fiber.Ctx, cfg *config.Config, roles []string, errorType string) error {
	if !services.IsAuthorizerInitialized() {
		if err := services.InitAuthorizer(cfg, c.Protocol(), c.Hostname()); err != nil {
			return &types.CustomError{
				Code:    fiber.StatusServiceUnavailable,
				Message: fmt.Sprintf("Authorizer unavailable: %v", err),
				Type:    errorType,
			}
		}
	}

	// Get session cookie
	session := c.Cookies("cookie_session")
	if session == "" {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "Authorizer cookie \"cookie_session\" not found",
			Type:    errorType,
		}
	}

	// Validate session
	data, err := services.ValidateSession(session, roles)
	if err != nil {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Invalid session: %v", err),
			Type:    errorType,
		}
	}

	// Set user data in context
	if user, ok := data["user"]; ok {
		c.Locals("user", user)
	}

	return c.Next()
}
