package handlers

import (
	"strconv"
	"strings"
	"time"

	"ncic-pledge/internal/adapters/persistence/models"
	"ncic-pledge/internal/adapters/persistence/repositories"
	"ncic-pledge/internal/core/domain"
	"ncic-pledge/internal/core/services"
	"ncic-pledge/internal/pkg/pagination"
	"ncic-pledge/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PledgeHandler handles pledge endpoints
type PledgeHandler struct {
	pledgeService *services.PledgeService
	loc           *time.Location
	log           *zap.Logger
}

// NewPledgeHandler creates a new pledge handler. Date-only values are read in loc.
func NewPledgeHandler(pledgeService *services.PledgeService, loc *time.Location, log *zap.Logger) *PledgeHandler {
	return &PledgeHandler{
		pledgeService: pledgeService,
		loc:           loc,
		log:           log,
	}
}

// PaymentRequest is a payment attached to an update
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"number"`
	Method string          `json:"method"`
	Date   string          `json:"date"`
}

// RemarkRequest is a remark attached to an update
type RemarkRequest struct {
	Comment string `json:"comment"`
}

// CreatePledgeRequest represents create pledge request body
type CreatePledgeRequest struct {
	FullName          string           `json:"full_name"`
	PhoneNumber       string           `json:"phone_number"`
	AltPhoneNumber    string           `json:"alt_phone_number"`
	Email             string           `json:"email"`
	PromisedAmount    *decimal.Decimal `json:"promised_amount" swaggertype:"number"`
	ContributionType  string           `json:"contribution_type"`
	MaterialType      string           `json:"material_type"`
	MaterialQuantity  *float64         `json:"material_quantity"`
	OtherDescription  string           `json:"other_description"`
	PromisedStartDate string           `json:"promised_start_date"`
	PromisedEndDate   string           `json:"promised_end_date"`
	PaperFormImage    string           `json:"paper_form_image"`
	AssignedFollowUp  *uint            `json:"assigned_followup"`
}

// UpdatePledgeRequest represents a partial pledge update. Omitted fields are unchanged;
// assigned_followup 0 removes the assignment.
type UpdatePledgeRequest struct {
	FullName          *string          `json:"full_name"`
	PhoneNumber       *string          `json:"phone_number"`
	AltPhoneNumber    *string          `json:"alt_phone_number"`
	Email             *string          `json:"email"`
	PromisedAmount    *decimal.Decimal `json:"promised_amount" swaggertype:"number"`
	ContributionType  *string          `json:"contribution_type"`
	MaterialType      *string          `json:"material_type"`
	MaterialQuantity  *float64         `json:"material_quantity"`
	OtherDescription  *string          `json:"other_description"`
	PromisedStartDate *string          `json:"promised_start_date"`
	PromisedEndDate   *string          `json:"promised_end_date"`
	PaperFormImage    *string          `json:"paper_form_image"`
	AssignedFollowUp  *uint            `json:"assigned_followup"`
	Payment           *PaymentRequest  `json:"payment"`
	Remark            *RemarkRequest   `json:"remark"`
}

// parseDate accepts YYYY-MM-DD (read in loc) or RFC 3339
func parseDate(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// optionalDate parses a date that may be empty; bad values are added to invalid
func optionalDate(value, field string, loc *time.Location, invalid *[]string) *time.Time {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	t, ok := parseDate(value, loc)
	if !ok {
		*invalid = append(*invalid, field)
		return nil
	}
	return &t
}

func (r *CreatePledgeRequest) toInput(loc *time.Location) (*services.CreatePledgeInput, error) {
	var invalid []string
	start := optionalDate(r.PromisedStartDate, "promised_start_date", loc, &invalid)
	end := optionalDate(r.PromisedEndDate, "promised_end_date", loc, &invalid)
	if len(invalid) > 0 {
		return nil, domain.NewValidationError("dates must be YYYY-MM-DD or RFC 3339", invalid...)
	}

	return &services.CreatePledgeInput{
		FullName:          r.FullName,
		PhoneNumber:       r.PhoneNumber,
		AltPhoneNumber:    r.AltPhoneNumber,
		Email:             r.Email,
		PromisedAmount:    r.PromisedAmount,
		ContributionType:  r.ContributionType,
		MaterialType:      r.MaterialType,
		MaterialQuantity:  r.MaterialQuantity,
		OtherDescription:  r.OtherDescription,
		PromisedStartDate: start,
		PromisedEndDate:   end,
		PaperFormImage:    r.PaperFormImage,
		AssignedFollowUp:  r.AssignedFollowUp,
	}, nil
}

func (r *UpdatePledgeRequest) toInput(loc *time.Location) (*services.UpdatePledgeInput, error) {
	in := &services.UpdatePledgeInput{
		FullName:         r.FullName,
		PhoneNumber:      r.PhoneNumber,
		AltPhoneNumber:   r.AltPhoneNumber,
		Email:            r.Email,
		PromisedAmount:   r.PromisedAmount,
		ContributionType: r.ContributionType,
		MaterialType:     r.MaterialType,
		MaterialQuantity: r.MaterialQuantity,
		OtherDescription: r.OtherDescription,
		PaperFormImage:   r.PaperFormImage,
		AssignedFollowUp: r.AssignedFollowUp,
	}

	var invalid []string
	if r.PromisedStartDate != nil {
		if t, ok := parseDate(*r.PromisedStartDate, loc); ok {
			in.PromisedStartDate = &t
		} else {
			invalid = append(invalid, "promised_start_date")
		}
	}
	if r.PromisedEndDate != nil {
		if t, ok := parseDate(*r.PromisedEndDate, loc); ok {
			in.PromisedEndDate = &t
		} else {
			invalid = append(invalid, "promised_end_date")
		}
	}
	if r.Payment != nil {
		in.Payment = &services.PaymentInput{
			Amount: r.Payment.Amount,
			Method: r.Payment.Method,
			Date:   optionalDate(r.Payment.Date, "payment.date", loc, &invalid),
		}
	}
	if r.Remark != nil {
		in.Remark = &services.RemarkInput{Comment: r.Remark.Comment}
	}

	if len(invalid) > 0 {
		return nil, domain.NewValidationError("dates must be YYYY-MM-DD or RFC 3339", invalid...)
	}
	return in, nil
}

// AddPledge registers a pledge
// @Summary Add pledge
// @Description Register a pledge; monthly pledges get an installment schedule
// @Tags Pledges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreatePledgeRequest true "Pledge data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/addPledge [post]
func (h *PledgeHandler) AddPledge(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreatePledgeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	in, err := req.toInput(h.loc)
	if err != nil {
		return writeError(c, h.log, err, "Failed to add pledge")
	}

	pledge, err := h.pledgeService.Create(c.UserContext(), in, actor)
	if err != nil {
		return writeError(c, h.log, err, "Failed to add pledge")
	}

	return response.Created(c, "Pledge added successfully", pledge.ToResponse())
}

// UpdatePledge edits a pledge and optionally records a payment or remark
// @Summary Update pledge
// @Description Partial update; follow-ups may only change contact fields of their own pledges
// @Tags Pledges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pledge ID"
// @Param body body UpdatePledgeRequest true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/updatePledge/{id} [put]
func (h *PledgeHandler) UpdatePledge(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid pledge ID")
	}

	var req UpdatePledgeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	in, err := req.toInput(h.loc)
	if err != nil {
		return writeError(c, h.log, err, "Failed to update pledge")
	}

	pledge, err := h.pledgeService.Update(c.UserContext(), id, in, actor)
	if err != nil {
		return writeError(c, h.log, err, "Failed to update pledge")
	}

	return response.Success(c, "Pledge updated successfully", pledge.ToResponse())
}

// GetPledge returns one pledge
// @Summary Get pledge
// @Tags Pledges
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pledge ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/getPledge/{id} [get]
func (h *PledgeHandler) GetPledge(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid pledge ID")
	}

	pledge, err := h.pledgeService.GetByID(c.UserContext(), id, actor)
	if err != nil {
		return writeError(c, h.log, err, "Failed to get pledge")
	}

	return response.Success(c, "Pledge retrieved successfully", pledge.ToResponse())
}

// ListPledges lists pledges
// @Summary List pledges
// @Description Paginated pledge list with optional filters
// @Tags Pledges
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param status query string false "notPaid, partial or paid"
// @Param contribution_type query string false "oneTime, monthly, material or other"
// @Param overdue query bool false "Only overdue (true) or not overdue (false)"
// @Param archived query bool false "Archived flag"
// @Param assigned_followup query string false "Follow-up ID, or none for unassigned"
// @Param search query string false "Name or phone number"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/getAllPledges [get]
func (h *PledgeHandler) ListPledges(c *fiber.Ctx) error {
	filter, err := pledgeFilterFrom(c)
	if err != nil {
		return writeError(c, h.log, err, "Failed to list pledges")
	}

	params := pagination.GetParams(c)
	pledges, total, err := h.pledgeService.List(c.UserContext(), filter, params.Offset, params.Limit)
	if err != nil {
		return writeError(c, h.log, err, "Failed to list pledges")
	}

	return response.Success(c, "Pledges retrieved successfully", pagination.NewResponse(toPledgeResponses(pledges), params, total))
}

// MyPledges lists the caller's assigned pledges
// @Summary My pledges
// @Description Paginated list of pledges assigned to the calling follow-up
// @Tags Pledges
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /admin/myPledges [get]
func (h *PledgeHandler) MyPledges(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	pledges, total, err := h.pledgeService.ListMine(c.UserContext(), actor, params.Offset, params.Limit)
	if err != nil {
		return writeError(c, h.log, err, "Failed to list pledges")
	}

	return response.Success(c, "Pledges retrieved successfully", pagination.NewResponse(toPledgeResponses(pledges), params, total))
}

// ArchivePledge hides a pledge from reports
// @Summary Archive pledge
// @Tags Pledges
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pledge ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/archivePledge/{id} [put]
func (h *PledgeHandler) ArchivePledge(c *fiber.Ctx) error {
	return h.setArchived(c, true, "Pledge archived successfully")
}

// UnarchivePledge restores an archived pledge
// @Summary Unarchive pledge
// @Tags Pledges
// @Produce json
// @Security BearerAuth
// @Param id path int true "Pledge ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/unarchivePledge/{id} [put]
func (h *PledgeHandler) UnarchivePledge(c *fiber.Ctx) error {
	return h.setArchived(c, false, "Pledge restored successfully")
}

func (h *PledgeHandler) setArchived(c *fiber.Ctx, archived bool, message string) error {
	actor, ok := actorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid pledge ID")
	}

	pledge, err := h.pledgeService.SetArchived(c.UserContext(), id, archived, actor)
	if err != nil {
		return writeError(c, h.log, err, "Failed to change archive flag")
	}

	return response.Success(c, message, pledge.ToResponse())
}

// pledgeFilterFrom reads list filters from the query string
func pledgeFilterFrom(c *fiber.Ctx) (repositories.PledgeFilter, error) {
	var filter repositories.PledgeFilter
	var invalid []string

	if v := c.Query("status"); v != "" {
		if !domain.PledgeStatus(v).IsValid() {
			invalid = append(invalid, "status")
		}
		filter.Status = &v
	}
	if v := c.Query("contribution_type"); v != "" {
		if !domain.ContributionType(v).IsValid() {
			invalid = append(invalid, "contribution_type")
		}
		filter.ContributionType = &v
	}
	if v := c.Query("overdue"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			invalid = append(invalid, "overdue")
		}
		filter.Overdue = &b
	}
	if v := c.Query("archived"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			invalid = append(invalid, "archived")
		}
		filter.Archived = &b
	}
	if v := c.Query("assigned_followup"); v != "" {
		if v == "none" {
			filter.Unassigned = true
		} else if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			staffID := uint(id)
			filter.AssignedFollowUpID = &staffID
		} else {
			invalid = append(invalid, "assigned_followup")
		}
	}
	filter.Search = strings.TrimSpace(c.Query("search"))

	if len(invalid) > 0 {
		return filter, domain.NewValidationError("invalid filter values", invalid...)
	}
	return filter, nil
}

func toPledgeResponses(pledges []*models.Pledge) []*models.PledgeResponse {
	out := make([]*models.PledgeResponse, len(pledges))
	for i, p := range pledges {
		out[i] = p.ToResponse()
	}
	return out
}
