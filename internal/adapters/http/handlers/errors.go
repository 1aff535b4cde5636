package handlers

import (
	"errors"
	"strconv"

	"ncic-pledge/internal/adapters/http/middleware"
	"ncic-pledge/internal/core/domain"
	"ncic-pledge/internal/core/services"
	"ncic-pledge/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// writeError maps a service error onto the response envelope.
// Unexpected errors are logged and answered with fallback.
func writeError(c *fiber.Ctx, log *zap.Logger, err error, fallback string) error {
	if ve, ok := domain.AsValidation(err); ok {
		return response.BadRequest(c, ve.Error())
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return response.Conflict(c, err.Error())
	}

	log.Error(fallback,
		zap.Error(err),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
	)
	return response.InternalServerError(c, fallback)
}

// actorFrom reads the authenticated caller set by AuthMiddleware
func actorFrom(c *fiber.Ctx) (services.Actor, bool) {
	id, ok := c.Locals(middleware.LocalStaffID).(uint)
	if !ok {
		return services.Actor{}, false
	}
	role, ok := c.Locals(middleware.LocalRole).(string)
	if !ok {
		return services.Actor{}, false
	}
	return services.Actor{ID: id, Role: domain.Role(role)}, true
}

// paramID parses a positive numeric route parameter
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
