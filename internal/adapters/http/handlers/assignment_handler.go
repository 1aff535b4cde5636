package handlers

import (
	"ncic-pledge/internal/core/services"
	"ncic-pledge/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AssignmentHandler handles pledge-to-follow-up assignment endpoints
type AssignmentHandler struct {
	assignmentService *services.AssignmentService
	log               *zap.Logger
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(assignmentService *services.AssignmentService, log *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		log:               log,
	}
}

// AssignRequest represents a single assignment body
type AssignRequest struct {
	FollowUpID uint `json:"followUpId"`
	PledgeID   uint `json:"pledgeId"`
}

// AssignManyRequest represents a bulk assignment body
type AssignManyRequest struct {
	FollowUpID uint   `json:"followUpId"`
	PledgeIDs  []uint `json:"pledgeIds"`
}

// UnassignRequest represents an unassignment body
type UnassignRequest struct {
	PledgeID uint `json:"pledgeId"`
}

// AssignPledge assigns one pledge to a follow-up
// @Summary Assign pledge
// @Description Assign a pledge to an active follow-up; a pledge held by another follow-up is moved
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AssignRequest true "Follow-up and pledge"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/assignPledgeToFollowUp [post]
func (h *AssignmentHandler) AssignPledge(c *fiber.Ctx) error {
	var req AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.FollowUpID == 0 || req.PledgeID == 0 {
		return response.BadRequest(c, "followUpId and pledgeId are required")
	}

	pledge, staff, err := h.assignmentService.AssignOne(c.UserContext(), req.FollowUpID, req.PledgeID)
	if err != nil {
		return writeError(c, h.log, err, "Failed to assign pledge")
	}

	return response.Success(c, "Pledge assigned successfully", fiber.Map{
		"followUp": staff.ToResponse(),
		"pledge":   pledge.ToResponse(),
	})
}

// AssignMultiplePledges assigns several pledges to a follow-up
// @Summary Assign multiple pledges
// @Description Assign pledges in one transaction; pledges that cannot be assigned are skipped with a reason
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AssignManyRequest true "Follow-up and pledge ids"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/assignMultiplePledgesToFollowUp [post]
func (h *AssignmentHandler) AssignMultiplePledges(c *fiber.Ctx) error {
	var req AssignManyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.FollowUpID == 0 {
		return response.BadRequest(c, "followUpId is required")
	}

	result, err := h.assignmentService.AssignMany(c.UserContext(), req.FollowUpID, req.PledgeIDs)
	if err != nil {
		return writeError(c, h.log, err, "Failed to assign pledges")
	}

	return response.Success(c, "Pledges assigned", result)
}

// UnassignPledge removes a pledge's follow-up
// @Summary Unassign pledge
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UnassignRequest true "Pledge"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/unassignPledge [post]
func (h *AssignmentHandler) UnassignPledge(c *fiber.Ctx) error {
	var req UnassignRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.PledgeID == 0 {
		return response.BadRequest(c, "pledgeId is required")
	}

	pledge, err := h.assignmentService.Unassign(c.UserContext(), req.PledgeID)
	if err != nil {
		return writeError(c, h.log, err, "Failed to unassign pledge")
	}

	return response.Success(c, "Pledge unassigned successfully", pledge.ToResponse())
}
