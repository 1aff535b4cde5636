package services

import (
	"context"
	"testing"
	"time"

	"ncic-pledge/internal/adapters/persistence/models"
	"ncic-pledge/internal/adapters/persistence/repositories"
	"ncic-pledge/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pledgeNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newPledgeService(f *fixture, cache ReportCache) *PledgeService {
	assignments := newAssignmentService(f)
	return NewPledgeService(f.pledges, assignments, f.tx, cache, zap.NewNop()).WithClock(fixedClock(pledgeNow))
}

func validCreateInput() *CreatePledgeInput {
	amount := dec("300")
	start := date(2024, 1, 15)
	end := date(2024, 3, 10)
	return &CreatePledgeInput{
		FullName:          "  Abebe Kebede ",
		PhoneNumber:       "0911223344",
		Email:             " Donor@Example.COM ",
		PromisedAmount:    &amount,
		ContributionType:  string(domain.ContributionMonthly),
		PromisedStartDate: &start,
		PromisedEndDate:   &end,
		PaperFormImage:    "https://cdn.example.com/form.jpg",
	}
}

var adminActor = Actor{ID: 1, Role: domain.RoleAdmin}

func TestPledgeCreate_MonthlySchedule(t *testing.T) {
	f := newFixture()
	cache := newFakeCache()
	svc := newPledgeService(f, cache)

	p, err := svc.Create(context.Background(), validCreateInput(), adminActor)
	require.NoError(t, err)

	assert.NotZero(t, p.ID)
	assert.Equal(t, "Abebe Kebede", p.FullName)
	assert.Equal(t, "donor@example.com", p.Email)
	require.NotNil(t, p.MonthlyInstallmentAmount)
	assert.True(t, dec("100").Equal(*p.MonthlyInstallmentAmount))
	require.NotNil(t, p.NextDueDate)
	assert.Equal(t, date(2024, 1, 15), *p.NextDueDate)

	assert.Equal(t, string(domain.PledgeNotPaid), p.Status)
	assert.True(t, dec("300").Equal(p.RemainingAmount))
	// end date is before the pinned clock
	assert.True(t, p.Overdue)
	assert.Equal(t, 1, cache.invalidations)
}

func TestPledgeCreate_MissingFields(t *testing.T) {
	f := newFixture()
	svc := newPledgeService(f, nil)

	_, err := svc.Create(context.Background(), &CreatePledgeInput{FullName: "x"}, adminActor)
	require.Error(t, err)

	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{
		"contribution_type",
		"paper_form_image",
		"phone_number",
		"promised_amount",
		"promised_end_date",
		"promised_start_date",
	}, ve.Fields)
}

func TestPledgeCreate_InvalidValues(t *testing.T) {
	f := newFixture()
	svc := newPledgeService(f, nil)
	ctx := context.Background()

	in := validCreateInput()
	zero := decimal.Zero
	in.PromisedAmount = &zero
	_, err := svc.Create(ctx, in, adminActor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = validCreateInput()
	in.ContributionType = "barter"
	_, err = svc.Create(ctx, in, adminActor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = validCreateInput()
	start, end := date(2024, 3, 1), date(2024, 1, 1)
	in.PromisedStartDate, in.PromisedEndDate = &start, &end
	_, err = svc.Create(ctx, in, adminActor)
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{"promised_end_date"}, ve.Fields)
}

func TestPledgeCreate_ReversedDaysWithinMonth(t *testing.T) {
	f := newFixture()
	svc := newPledgeService(f, nil)
	ctx := context.Background()

	in := validCreateInput()
	start, end := date(2024, 1, 20), date(2024, 1, 10)
	in.PromisedStartDate, in.PromisedEndDate = &start, &end

	p, err := svc.Create(ctx, in, adminActor)
	require.NoError(t, err)
	require.NotNil(t, p.MonthlyInstallmentAmount)
	assert.True(t, p.PromisedAmount.Equal(*p.MonthlyInstallmentAmount))
	assert.Equal(t, start, *p.NextDueDate)

	in = validCreateInput()
	in.ContributionType = string(domain.ContributionOneTime)
	start, end = date(2024, 3, 1), date(2024, 1, 1)
	in.PromisedStartDate, in.PromisedEndDate = &start, &end

	p, err = svc.Create(ctx, in, adminActor)
	require.NoError(t, err)
	assert.Equal(t, end, p.PromisedEndDate)
	assert.Nil(t, p.MonthlyInstallmentAmount)
}

func TestPledgeCreate_WithAssignment(t *testing.T) {
	f := newFixture()
	svc := newPledgeService(f, nil)
	ctx := context.Background()

	fu := f.addStaff(domain.RoleFollowUp, domain.StaffActive)
	in := validCreateInput()
	in.ContributionType = string(domain.ContributionOneTime)
	in.AssignedFollowUp = uintPtr(fu.ID)

	p, err := svc.Create(ctx, in, adminActor)
	require.NoError(t, err)
	assert.Nil(t, p.MonthlyInstallmentAmount)
	require.NotNil(t, p.AssignedFollowUpID)
	assert.Equal(t, fu.ID, *p.AssignedFollowUpID)

	staff, _ := f.staff.GetByID(ctx, fu.ID)
	assert.True(t, staff.HasPledge(p.ID))
}

func TestPledgeUpdate_PaymentAndRemark(t *testing.T) {
	f := newFixture()
	cache := newFakeCache()
	svc := newPledgeService(f, cache)
	ctx := context.Background()

	p := f.addPledge(1000)
	payDate := date(2024, 5, 20)

	updated, err := svc.Update(ctx, p.ID, &UpdatePledgeInput{
		Payment: &PaymentInput{Amount: dec("600"), Date: &payDate},
		Remark:  &RemarkInput{Comment: " called donor "},
	}, adminActor)
	require.NoError(t, err)

	assert.Equal(t, string(domain.PledgePartial), updated.Status)
	assert.True(t, dec("600").Equal(updated.AmountPaid))
	assert.True(t, dec("400").Equal(updated.RemainingAmount))
	assert.True(t, dec("60").Equal(updated.PercentagePaid))

	require.Len(t, updated.Payments, 1)
	assert.Equal(t, domain.DefaultPaymentMethod, updated.Payments[0].Method)
	assert.Equal(t, payDate, updated.Payments[0].Date)
	require.Len(t, updated.Remarks, 1)
	assert.Equal(t, "called donor", updated.Remarks[0].Comment)
	assert.Equal(t, adminActor.ID, updated.Remarks[0].AuthorID)

	stored, _ := f.pledges.GetByID(ctx, p.ID)
	assert.Len(t, stored.Payments, 1)
	assert.Equal(t, string(domain.PledgePartial), stored.Status)
	assert.Equal(t, 1, cache.invalidations)

	// second payment settles it
	updated, err = svc.Update(ctx, p.ID, &UpdatePledgeInput{
		Payment: &PaymentInput{Amount: dec("400"), Method: "bank"},
	}, adminActor)
	require.NoError(t, err)
	assert.Equal(t, string(domain.PledgePaid), updated.Status)
	assert.True(t, updated.RemainingAmount.IsZero())
	assert.Equal(t, pledgeNow, updated.Payments[1].Date)
	assert.Equal(t, "bank", updated.Payments[1].Method)
}

func TestPledgeUpdate_RecomputesScheduleOnEdit(t *testing.T) {
	f := newFixture()
	svc := newPledgeService(f, nil)
	ctx := context.Background()

	p, err := svc.Create(ctx, validCreateInput(), adminActor)
	require.NoError(t, err)

	amount := dec("600")
	updated, err := svc.Update(ctx, p.ID, &UpdatePledgeInput{PromisedAmount: &amount}, adminActor)
	require.NoError(t, err)
	require.NotNil(t, updated.MonthlyInstallmentAmount)
	assert.True(t, dec("200").Equal(*updated.MonthlyInstallmentAmount))

	oneTime := string(domain.ContributionOneTime)
	updated, err = svc.Update(ctx, p.ID, &UpdatePledgeInput{ContributionType: &oneTime}, adminActor)
	require.NoError(t, err)
	assert.Nil(t, updated.MonthlyInstallmentAmount)
	assert.Nil(t, updated.NextDueDate)
}

func TestPledgeUpdate_FollowUpRestrictions(t *testing.T) {
	f := newFixture()
	svc := newPledgeService(f, nil)
	ctx := context.Background()

	fu := f.addStaff(domain.RoleFollowUp, domain.StaffActive)
	stranger := f.addStaff(domain.RoleFollowUp, domain.StaffActive)
	p := f.addPledge(1000)
	_, _, err := newAssignmentService(f).AssignOne(ctx, fu.ID, p.ID)
	require.NoError(t, err)

	actor := Actor{ID: fu.ID, Role: domain.RoleFollowUp}

	amount := dec("5")
	_, err = svc.Update(ctx, p.ID, &UpdatePledgeInput{PromisedAmount: &amount}, actor)
	assert.ErrorIs(t, err, ErrFieldsNotEditable)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Update(ctx, p.ID, &UpdatePledgeInput{
		PhoneNumber: strPtr("0912000000"),
		Payment:     &PaymentInput{Amount: dec("100")},
	}, Actor{ID: stranger.ID, Role: domain.RoleFollowUp})
	assert.ErrorIs(t, err, ErrPledgeNotAssigned)

	updated, err := svc.Update(ctx, p.ID, &UpdatePledgeInput{
		PhoneNumber: strPtr("0912000000"),
		Payment:     &PaymentInput{Amount: dec("100")},
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, "0912000000", updated.PhoneNumber)
	assert.True(t, dec("100").Equal(updated.AmountPaid))
}

func TestPledgeUpdate_InvalidValues(t *testing.T) {
	f := newFixture()
	svc := newPledgeService(f, nil)
	p := f.addPledge(1000)

	_, err := svc.Update(context.Background(), p.ID, &UpdatePledgeInput{
		Payment: &PaymentInput{Amount: dec("-5")},
		Remark:  &RemarkInput{Comment: "  "},
	}, adminActor)

	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{"payment.amount", "remark.comment"}, ve.Fields)

	_, err = svc.Update(context.Background(), 404, &UpdatePledgeInput{}, adminActor)
	assert.ErrorIs(t, err, ErrPledgeNotFound)
}

func TestPledgeUpdate_EndBeforeStart(t *testing.T) {
	f := newFixture()
	svc := newPledgeService(f, nil)
	ctx := context.Background()

	// date order is only enforced through the monthly schedule
	oneTime := f.addPledge(1000)
	end := date(2023, 1, 1)
	updated, err := svc.Update(ctx, oneTime.ID, &UpdatePledgeInput{PromisedEndDate: &end}, adminActor)
	require.NoError(t, err)
	assert.Equal(t, end, updated.PromisedEndDate)
	assert.Nil(t, updated.MonthlyInstallmentAmount)

	monthly := f.addPledge(1200, func(p *models.Pledge) { p.ContributionType = string(domain.ContributionMonthly) })
	_, err = svc.Update(ctx, monthly.ID, &UpdatePledgeInput{PromisedEndDate: &end}, adminActor)
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{"promised_end_date"}, ve.Fields)
}

func TestPledgeUpdate_ReassignAndClear(t *testing.T) {
	f := newFixture()
	svc := newPledgeService(f, nil)
	ctx := context.Background()

	fu := f.addStaff(domain.RoleFollowUp, domain.StaffActive)
	p := f.addPledge(1000)

	updated, err := svc.Update(ctx, p.ID, &UpdatePledgeInput{AssignedFollowUp: uintPtr(fu.ID)}, adminActor)
	require.NoError(t, err)
	assert.Equal(t, fu.ID, *updated.AssignedFollowUpID)

	updated, err = svc.Update(ctx, p.ID, &UpdatePledgeInput{AssignedFollowUp: uintPtr(0)}, adminActor)
	require.NoError(t, err)
	assert.Nil(t, updated.AssignedFollowUpID)

	staff, _ := f.staff.GetByID(ctx, fu.ID)
	assert.False(t, staff.HasPledge(p.ID))
}

func TestPledgeGetByID_Access(t *testing.T) {
	f := newFixture()
	svc := newPledgeService(f, nil)
	ctx := context.Background()

	fu := f.addStaff(domain.RoleFollowUp, domain.StaffActive)
	p := f.addPledge(1000)

	_, err := svc.GetByID(ctx, p.ID, Actor{ID: fu.ID, Role: domain.RoleFollowUp})
	assert.ErrorIs(t, err, ErrPledgeNotAssigned)

	got, err := svc.GetByID(ctx, p.ID, adminActor)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.GetByID(ctx, 404, adminActor)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPledgeListMine(t *testing.T) {
	f := newFixture()
	svc := newPledgeService(f, nil)
	ctx := context.Background()

	fu := f.addStaff(domain.RoleFollowUp, domain.StaffActive)
	mine := f.addPledge(100)
	archived := f.addPledge(100)
	f.addPledge(100)

	assignments := newAssignmentService(f)
	_, err := assignments.AssignMany(ctx, fu.ID, []uint{mine.ID, archived.ID})
	require.NoError(t, err)
	_, err = svc.SetArchived(ctx, archived.ID, true, adminActor)
	require.NoError(t, err)

	pledges, total, err := svc.ListMine(ctx, Actor{ID: fu.ID, Role: domain.RoleFollowUp}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, pledges, 1)
	assert.Equal(t, mine.ID, pledges[0].ID)
}

func TestPledgeList_ReconcilesOnRead(t *testing.T) {
	f := newFixture()
	svc := newPledgeService(f, nil)

	f.addPledge(100, func(p *models.Pledge) {
		p.PromisedEndDate = date(2024, 5, 1)
	})

	status := string(domain.PledgeNotPaid)
	pledges, total, err := svc.List(context.Background(), repositories.PledgeFilter{Status: &status}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.True(t, pledges[0].Overdue)
}

func TestPledgeSetArchived(t *testing.T) {
	f := newFixture()
	cache := newFakeCache()
	svc := newPledgeService(f, cache)
	ctx := context.Background()

	p := f.addPledge(100)

	got, err := svc.SetArchived(ctx, p.ID, true, adminActor)
	require.NoError(t, err)
	assert.True(t, got.Archived)
	assert.Equal(t, 1, cache.invalidations)

	// unchanged flag does not touch the cache
	_, err = svc.SetArchived(ctx, p.ID, true, adminActor)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidations)

	got, err = svc.SetArchived(ctx, p.ID, false, adminActor)
	require.NoError(t, err)
	assert.False(t, got.Archived)

	_, err = svc.SetArchived(ctx, 404, true, adminActor)
	assert.ErrorIs(t, err, ErrPledgeNotFound)
}
