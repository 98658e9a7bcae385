package middleware

import (
	"errors"
	"strings"

	"sfa-welfarehub/internal/config"
	"sfa-welfarehub/internal/pkg/jwt"
	"sfa-welfarehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// extractAccessToken reads the access token from cookie or bearer header
func extractAccessToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractAccessToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals("uid", claims.UID)
		c.Locals("memberID", claims.MemberID)
		c.Locals("sfaID", claims.SfaID)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows ADMIN and FOUNDER roles
func AdminOnly() fiber.Handler {
	return RoleMiddleware("ADMIN", "FOUNDER")
}

// FounderOnly middleware allows only the FOUNDER role. The account
// mutation and counter endpoints sit behind this; the services
// re-check the role against the database so a stale token alone is
// not enough.
func FounderOnly() fiber.Handler {
	return RoleMiddleware("FOUNDER")
}

// OptionalAuth middleware - doesn't require auth but sets user info if token present
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractAccessToken(c)
		if accessToken != "" {
			claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
			if err == nil {
				c.Locals("uid", claims.UID)
				c.Locals("memberID", claims.MemberID)
				c.Locals("sfaID", claims.SfaID)
				c.Locals("role", claims.Role)
			}
		}

		return c.Next()
	}
}
