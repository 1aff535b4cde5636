package middleware

import (
	"errors"
	"strings"

	"ncic-pledge/internal/config"
	"ncic-pledge/internal/core/domain"
	"ncic-pledge/internal/pkg/jwt"
	"ncic-pledge/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthMiddleware
const (
	LocalStaffID = "userID"
	LocalEmail   = "email"
	LocalRole    = "role"
)

// bearerToken reads the access token from the cookie, then the Authorization header
func bearerToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}

	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := bearerToken(c)
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
		if !domain.Role(claims.Role).IsValid() {
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(LocalStaffID, claims.StaffID)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, claims.Role)

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == string(allowedRole) {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// SuperAdminOnly allows only the superAdmin role
func SuperAdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleSuperAdmin)
}

// AdminOrAbove allows superAdmin and admin
func AdminOrAbove() fiber.Handler {
	return RoleMiddleware(domain.RoleSuperAdmin, domain.RoleAdmin)
}

// AnyStaff allows every staff role
func AnyStaff() fiber.Handler {
	return RoleMiddleware(domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleFollowUp)
}

// FollowUpOnly allows only the followUp role
func FollowUpOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleFollowUp)
}
