package handlers

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"ncic-pledge/internal/core/services"
	"ncic-pledge/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler handles collection report endpoints
type ReportHandler struct {
	reportService *services.ReportService
	log           *zap.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		log:           log,
	}
}

// TotalCollectionStats returns collected and remaining totals
// @Summary Total collection stats
// @Description Sum of amount paid and remaining amount over non-archived pledges
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/reports/totalCollectionStats [get]
func (h *ReportHandler) TotalCollectionStats(c *fiber.Ctx) error {
	totals, err := h.reportService.TotalCollection(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err, "Failed to get collection stats")
	}

	return response.Success(c, "Collection stats retrieved successfully", totals)
}

// MonthlyCollectionReport returns the payments collected in one month
// @Summary Monthly collection report
// @Description Sum of payments dated within the calendar month
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/reports/monthlyCollectionReport/{year}/{month} [get]
func (h *ReportHandler) MonthlyCollectionReport(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return response.BadRequest(c, "Invalid year")
	}
	month, err := strconv.Atoi(c.Params("month"))
	if err != nil {
		return response.BadRequest(c, "Invalid month")
	}

	report, err := h.reportService.MonthlyCollection(c.UserContext(), year, month)
	if err != nil {
		return writeError(c, h.log, err, "Failed to get monthly collection report")
	}

	return response.Success(c, "Monthly collection report retrieved successfully", report)
}

// FollowUpPerformance returns a follow-up's collected and pending counts
// @Summary Follow-up performance
// @Description Assigned pledges split into collected (paid) and pending; follow-ups may only view themselves
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path int true "Staff account ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/reports/followUpPerformance/{id} [get]
func (h *ReportHandler) FollowUpPerformance(c *fiber.Ctx) error {
	actor, ok := actorFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid follow-up ID")
	}

	perf, err := h.reportService.FollowUpPerformance(c.UserContext(), id, actor)
	if err != nil {
		return writeError(c, h.log, err, "Failed to get follow-up performance")
	}

	return response.Success(c, "Follow-up performance retrieved successfully", perf)
}

// ExportPledges downloads non-archived pledges as an Excel workbook
// @Summary Export pledges
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /admin/reports/exportPledges [get]
func (h *ReportHandler) ExportPledges(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.reportService.ExportPledges(c.UserContext(), &buf); err != nil {
		return writeError(c, h.log, err, "Failed to export pledges")
	}

	filename := fmt.Sprintf("pledges-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}
