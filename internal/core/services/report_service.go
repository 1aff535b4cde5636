package services

import (
	"context"
	"errors"
	"io"
	"time"

	"ncic-pledge/internal/adapters/export"
	"ncic-pledge/internal/adapters/persistence/repositories"
	"ncic-pledge/internal/core/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const totalsCacheKey = "reports:totals"

// ReportService handles collection reporting
type ReportService struct {
	pledgeRepo repositories.PledgeRepository
	staffRepo  repositories.StaffRepository
	cache      ReportCache
	loc        *time.Location
	log        *zap.Logger
	now        Clock
}

// NewReportService creates a new report service. Month windows are cut in loc.
func NewReportService(
	pledgeRepo repositories.PledgeRepository,
	staffRepo repositories.StaffRepository,
	cache ReportCache,
	loc *time.Location,
	log *zap.Logger,
) *ReportService {
	if cache == nil {
		cache = noopCache{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{
		pledgeRepo: pledgeRepo,
		staffRepo:  staffRepo,
		cache:      cache,
		loc:        loc,
		log:        log,
		now:        time.Now,
	}
}

// MonthlyCollection is the payment total of one calendar month
type MonthlyCollection struct {
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	TotalCollected decimal.Decimal `json:"totalCollected"`
	PaymentCount   int64           `json:"paymentCount"`
}

// FollowUpPerformance counts a follow-up's assigned pledges by outcome
type FollowUpPerformance struct {
	FollowUpID    uint  `json:"followUpId"`
	TotalAssigned int64 `json:"totalAssigned"`
	Collected     int64 `json:"collected"`
	Pending       int64 `json:"pending"`
}

// MonthWindow returns the inclusive bounds of a calendar month:
// the first day at 00:00:00 and the last day at 23:59:59.
func MonthWindow(year, month int, loc *time.Location) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, domain.NewValidationError("month must be between 1 and 12", "month")
	}
	if year < 1 {
		return time.Time{}, time.Time{}, domain.NewValidationError("year must be positive", "year")
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, -1)
	end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, loc)
	return start, end, nil
}

// TotalCollection sums collected and remaining amounts over non-archived pledges
func (s *ReportService) TotalCollection(ctx context.Context) (*repositories.CollectionTotals, error) {
	var cached repositories.CollectionTotals
	hit, err := s.cache.Get(ctx, totalsCacheKey, &cached)
	if err != nil {
		s.log.Warn("report cache read failed", zap.Error(err))
	}
	if hit {
		return &cached, nil
	}

	totals, err := s.pledgeRepo.SumTotals(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, totalsCacheKey, totals); err != nil {
		s.log.Warn("report cache write failed", zap.Error(err))
	}
	return totals, nil
}

// MonthlyCollection sums the payments dated inside the given month
func (s *ReportService) MonthlyCollection(ctx context.Context, year, month int) (*MonthlyCollection, error) {
	start, end, err := MonthWindow(year, month, s.loc)
	if err != nil {
		return nil, err
	}

	// To is for display; the query bound is the next month's first instant
	total, count, err := s.pledgeRepo.SumPaymentsBetween(ctx, start, start.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	return &MonthlyCollection{
		Year:           year,
		Month:          month,
		From:           start,
		To:             end,
		TotalCollected: total,
		PaymentCount:   count,
	}, nil
}

// FollowUpPerformance reports how many of a staff account's pledges are paid.
// A follow-up may only read their own figures.
func (s *ReportService) FollowUpPerformance(ctx context.Context, staffID uint, actor Actor) (*FollowUpPerformance, error) {
	if actor.Role == domain.RoleFollowUp && actor.ID != staffID {
		return nil, domain.ErrForbidden
	}

	if _, err := s.staffRepo.GetByID(ctx, staffID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	counts, err := s.pledgeRepo.CountByFollowUp(ctx, staffID)
	if err != nil {
		return nil, err
	}

	return &FollowUpPerformance{
		FollowUpID:    staffID,
		TotalAssigned: counts.Total,
		Collected:     counts.Collected,
		Pending:       counts.Total - counts.Collected,
	}, nil
}

// ExportPledges writes every non-archived pledge as an xlsx workbook
func (s *ReportService) ExportPledges(ctx context.Context, w io.Writer) error {
	archived := false
	pledges, err := s.pledgeRepo.ListAll(ctx, repositories.PledgeFilter{Archived: &archived})
	if err != nil {
		return err
	}

	now := s.now()
	for _, p := range pledges {
		Reconcile(p, now)
	}

	if err := export.WritePledges(w, pledges, s.loc); err != nil {
		return err
	}

	s.log.Info("pledges exported", zap.Int("count", len(pledges)))
	return nil
}
