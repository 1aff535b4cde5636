package services

import (
	"time"

	"ncic-pledge/internal/adapters/persistence/models"
	"ncic-pledge/internal/core/domain"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Reconcile recomputes the derived fields of p from its payment history.
// It is pure and idempotent; nothing is persisted.
func Reconcile(p *models.Pledge, now time.Time) {
	totalPaid := decimal.Zero
	for _, pay := range p.Payments {
		totalPaid = totalPaid.Add(pay.Amount)
	}

	p.AmountPaid = totalPaid
	// not clamped: overpayment leaves a negative remainder
	p.RemainingAmount = p.PromisedAmount.Sub(totalPaid)

	if p.PromisedAmount.IsZero() {
		p.PercentagePaid = decimal.Zero
	} else {
		p.PercentagePaid = totalPaid.Mul(hundred).Div(p.PromisedAmount).Round(2)
	}

	switch {
	case p.RemainingAmount.LessThanOrEqual(decimal.Zero):
		p.Status = string(domain.PledgePaid)
	case totalPaid.IsZero():
		p.Status = string(domain.PledgeNotPaid)
	default:
		p.Status = string(domain.PledgePartial)
	}

	p.Overdue = isOverdue(p, now)
}

func isOverdue(p *models.Pledge, now time.Time) bool {
	return p.PromisedEndDate.Before(now) && p.RemainingAmount.GreaterThan(decimal.Zero)
}

// MonthsSpanned counts the calendar months from start to end, both inclusive.
// Days are ignored: Jan 15 .. Mar 10 spans 3 months.
func MonthsSpanned(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
}

// MonthlySchedule derives the installment amount and first due date.
// The installment is rounded to cents and the residue is not redistributed.
func MonthlySchedule(promised decimal.Decimal, start, end time.Time) (decimal.Decimal, time.Time, error) {
	months := MonthsSpanned(start, end)
	if months <= 0 {
		return decimal.Zero, time.Time{}, domain.NewValidationError(
			"promised_end_date must not fall in a month before promised_start_date",
			"promised_end_date",
		)
	}

	installment := promised.Div(decimal.NewFromInt(int64(months))).Round(2)
	return installment, start, nil
}

// applySchedule sets or clears the monthly fields according to the contribution type
func applySchedule(p *models.Pledge) error {
	if p.ContributionType != string(domain.ContributionMonthly) {
		p.MonthlyInstallmentAmount = nil
		p.NextDueDate = nil
		return nil
	}

	installment, due, err := MonthlySchedule(p.PromisedAmount, p.PromisedStartDate, p.PromisedEndDate)
	if err != nil {
		return err
	}

	p.MonthlyInstallmentAmount = &installment
	p.NextDueDate = &due
	return nil
}
