package handlers

import (
	"ncic-pledge/internal/core/domain"
	"ncic-pledge/internal/core/services"
	"ncic-pledge/internal/pkg/pagination"
	"ncic-pledge/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StaffHandler handles admin and follow-up account endpoints
type StaffHandler struct {
	staffService *services.StaffService
	log          *zap.Logger
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(staffService *services.StaffService, log *zap.Logger) *StaffHandler {
	return &StaffHandler{
		staffService: staffService,
		log:          log,
	}
}

// CreateStaffRequest represents create staff request body
type CreateStaffRequest struct {
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	Email      string `json:"email"`
}

// UpdateStatusRequest represents follow-up status change body
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AddAdmin creates an admin account
// @Summary Add admin
// @Description Create an admin account with a generated password sent by email (superAdmin only)
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateStaffRequest true "Account data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/addAdmin [post]
func (h *StaffHandler) AddAdmin(c *fiber.Ctx) error {
	return h.create(c, domain.RoleAdmin, "Admin created successfully")
}

// AddFollowUp creates a follow-up account
// @Summary Add follow-up
// @Description Create a follow-up account with a generated password sent by email
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateStaffRequest true "Account data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/addFollowUp [post]
func (h *StaffHandler) AddFollowUp(c *fiber.Ctx) error {
	return h.create(c, domain.RoleFollowUp, "Follow-up created successfully")
}

func (h *StaffHandler) create(c *fiber.Ctx, role domain.Role, message string) error {
	actor, ok := actorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	staff, err := h.staffService.CreateStaff(c.UserContext(), &services.CreateStaffInput{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		Email:      req.Email,
	}, role, actor)
	if err != nil {
		return writeError(c, h.log, err, "Failed to create account")
	}

	return response.Created(c, message, staff.ToResponse())
}

// ListAdmins lists admin accounts
// @Summary List admins
// @Description Get a paginated list of admin accounts (superAdmin only)
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /admin/getAllAdmins [get]
func (h *StaffHandler) ListAdmins(c *fiber.Ctx) error {
	return h.list(c, domain.RoleAdmin, "Admins retrieved successfully")
}

// ListFollowUps lists follow-up accounts
// @Summary List follow-ups
// @Description Get a paginated list of follow-up accounts
// @Tags Staff
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /admin/getAllFollowUps [get]
func (h *StaffHandler) ListFollowUps(c *fiber.Ctx) error {
	return h.list(c, domain.RoleFollowUp, "Follow-ups retrieved successfully")
}

func (h *StaffHandler) list(c *fiber.Ctx, role domain.Role, message string) error {
	params := pagination.GetParams(c)

	staff, total, err := h.staffService.ListByRole(c.UserContext(), role, params.Offset, params.Limit)
	if err != nil {
		return writeError(c, h.log, err, "Failed to list accounts")
	}

	return response.Success(c, message, pagination.NewResponse(staff, params, total))
}

// UpdateFollowUpStatus activates or deactivates a follow-up
// @Summary Update follow-up status
// @Description Set a follow-up account to active or inactive
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Staff account ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/updateFollowUpStatus/{id} [put]
func (h *StaffHandler) UpdateFollowUpStatus(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid account ID")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	staff, err := h.staffService.UpdateFollowUpStatus(c.UserContext(), id, req.Status, actor)
	if err != nil {
		return writeError(c, h.log, err, "Failed to update status")
	}

	return response.Success(c, "Status updated successfully", staff.ToResponse())
}
