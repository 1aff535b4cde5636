package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"ncic-pledge/internal/adapters/persistence/models"
	"ncic-pledge/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func newReportService(f *fixture, cache ReportCache) *ReportService {
	svc := NewReportService(f.pledges, f.staff, cache, time.UTC, zap.NewNop())
	svc.now = fixedClock(pledgeNow)
	return svc
}

func withPayments(payments ...models.PledgePayment) func(p *models.Pledge) {
	return func(p *models.Pledge) {
		p.Payments = append(p.Payments, payments...)
	}
}

func payment(amount string, at time.Time) models.PledgePayment {
	return models.PledgePayment{Amount: dec(amount), Method: "cash", Date: at}
}

func TestMonthWindow(t *testing.T) {
	start, end, err := MonthWindow(2024, 2, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), end)

	_, end, err = MonthWindow(2023, 12, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC), end)

	for _, month := range []int{0, 13, -1} {
		_, _, err := MonthWindow(2024, month, time.UTC)
		ve, ok := domain.AsValidation(err)
		require.True(t, ok, "month %d", month)
		assert.Equal(t, []string{"month"}, ve.Fields)
	}

	_, _, err = MonthWindow(0, 5, time.UTC)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMonthWindow_Location(t *testing.T) {
	loc := time.FixedZone("EAT", 3*60*60)
	start, _, err := MonthWindow(2024, 1, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 31, 21, 0, 0, 0, time.UTC), start.UTC())
}

func TestTotalCollection_ExcludesArchivedAndCaches(t *testing.T) {
	f := newFixture()
	cache := newFakeCache()
	svc := newReportService(f, cache)
	ctx := context.Background()

	f.addPledge(1000, withPayments(payment("600", date(2024, 2, 1))))
	f.addPledge(500, withPayments(payment("500", date(2024, 2, 1))))
	f.addPledge(700, withPayments(payment("100", date(2024, 2, 1))), func(p *models.Pledge) { p.Archived = true })

	totals, err := svc.TotalCollection(ctx)
	require.NoError(t, err)
	assert.True(t, dec("1100").Equal(totals.TotalCollected))
	assert.True(t, dec("400").Equal(totals.TotalRemaining))
	assert.EqualValues(t, 2, totals.PledgeCount)
	assert.Equal(t, 1, cache.sets)

	// served from cache
	f.addPledge(100)
	totals, err = svc.TotalCollection(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, totals.PledgeCount)
	assert.Equal(t, 1, cache.sets)
}

func TestMonthlyCollection_WindowBounds(t *testing.T) {
	f := newFixture()
	svc := newReportService(f, nil)

	f.addPledge(1000, withPayments(
		payment("100", time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)),
		payment("200", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		payment("300", time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)),
		payment("400", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		// stamped with the clock, so it carries a sub-second part
		payment("25", time.Date(2024, 2, 29, 23, 59, 59, 500_000_000, time.UTC)),
	))
	f.addPledge(1000, withPayments(payment("50", date(2024, 2, 10))), func(p *models.Pledge) { p.Archived = true })

	report, err := svc.MonthlyCollection(context.Background(), 2024, 2)
	require.NoError(t, err)
	assert.True(t, dec("525").Equal(report.TotalCollected), "got %s", report.TotalCollected)
	assert.EqualValues(t, 3, report.PaymentCount)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), report.To)
	assert.Equal(t, 2024, report.Year)
	assert.Equal(t, 2, report.Month)

	_, err = svc.MonthlyCollection(context.Background(), 2024, 13)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFollowUpPerformance(t *testing.T) {
	f := newFixture()
	svc := newReportService(f, nil)
	ctx := context.Background()

	fu := f.addStaff(domain.RoleFollowUp, domain.StaffActive)
	paid := f.addPledge(100, withPayments(payment("100", date(2024, 2, 1))))
	partial := f.addPledge(100, withPayments(payment("10", date(2024, 2, 1))))
	open := f.addPledge(100)

	_, err := newAssignmentService(f).AssignMany(ctx, fu.ID, []uint{paid.ID, partial.ID, open.ID})
	require.NoError(t, err)

	perf, err := svc.FollowUpPerformance(ctx, fu.ID, adminActor)
	require.NoError(t, err)
	assert.Equal(t, &FollowUpPerformance{FollowUpID: fu.ID, TotalAssigned: 3, Collected: 1, Pending: 2}, perf)

	perf, err = svc.FollowUpPerformance(ctx, fu.ID, Actor{ID: fu.ID, Role: domain.RoleFollowUp})
	require.NoError(t, err)
	assert.EqualValues(t, 3, perf.TotalAssigned)
}

func TestFollowUpPerformance_Errors(t *testing.T) {
	f := newFixture()
	svc := newReportService(f, nil)
	ctx := context.Background()

	fu := f.addStaff(domain.RoleFollowUp, domain.StaffActive)

	_, err := svc.FollowUpPerformance(ctx, fu.ID, Actor{ID: fu.ID + 100, Role: domain.RoleFollowUp})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.FollowUpPerformance(ctx, 999, adminActor)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestExportPledges(t *testing.T) {
	f := newFixture()
	svc := newReportService(f, nil)

	f.addPledge(1000, withPayments(payment("250", date(2024, 2, 1))), func(p *models.Pledge) { p.FullName = "Kept Donor" })
	f.addPledge(1000, func(p *models.Pledge) { p.FullName = "Archived Donor"; p.Archived = true })

	var buf bytes.Buffer
	require.NoError(t, svc.ExportPledges(context.Background(), &buf))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Pledges")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Contains(t, rows[1], "Kept Donor")
	assert.NotContains(t, rows[1], "Archived Donor")
}
