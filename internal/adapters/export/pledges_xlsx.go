package export

import (
	"fmt"
	"io"
	"time"

	"ncic-pledge/internal/adapters/persistence/models"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the pledge rows
const SheetName = "Pledges"

const dateLayout = "2006-01-02"

var pledgeHeaders = []string{
	"ID",
	"Full Name",
	"Phone",
	"Alt Phone",
	"Email",
	"Contribution Type",
	"Promised Amount",
	"Amount Paid",
	"Remaining",
	"Paid %",
	"Status",
	"Overdue",
	"Start Date",
	"End Date",
	"Monthly Installment",
	"Next Due Date",
	"Assigned Follow-up",
	"Material",
	"Description",
}

var columnWidths = []float64{8, 28, 16, 16, 28, 16, 16, 14, 14, 10, 10, 10, 12, 12, 18, 14, 18, 20, 30}

// WritePledges renders pledges into a single-sheet workbook and writes it to w.
// Dates are printed in loc.
func WritePledges(w io.Writer, pledges []*models.Pledge, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for col, header := range pledgeHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("set header style: %w", err)
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, name, name, columnWidths[col]); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	for i, p := range pledges {
		row := i + 2
		for col, value := range pledgeRow(p, loc) {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// pledgeRow returns the cell values of one pledge in header order
func pledgeRow(p *models.Pledge, loc *time.Location) []interface{} {
	row := []interface{}{
		p.ID,
		p.FullName,
		p.PhoneNumber,
		p.AltPhoneNumber,
		p.Email,
		p.ContributionType,
		p.PromisedAmount.InexactFloat64(),
		p.AmountPaid.InexactFloat64(),
		p.RemainingAmount.InexactFloat64(),
		p.PercentagePaid.InexactFloat64(),
		p.Status,
		yesNo(p.Overdue),
		p.PromisedStartDate.In(loc).Format(dateLayout),
		p.PromisedEndDate.In(loc).Format(dateLayout),
		nil,
		nil,
		nil,
		nil,
		p.OtherDescription,
	}

	if p.MonthlyInstallmentAmount != nil {
		row[14] = p.MonthlyInstallmentAmount.InexactFloat64()
	}
	if p.NextDueDate != nil {
		row[15] = p.NextDueDate.In(loc).Format(dateLayout)
	}
	if p.AssignedFollowUpID != nil {
		row[16] = *p.AssignedFollowUpID
	}
	if p.MaterialType != "" {
		material := p.MaterialType
		if p.MaterialQuantity != nil {
			material = fmt.Sprintf("%s x %g", p.MaterialType, *p.MaterialQuantity)
		}
		row[17] = material
	}
	return row
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
