// Package export writes list pages to spreadsheets and invoices to PDF.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"staffdash/internal/domain"
)

// Column is one spreadsheet column
type Column[T any] struct {
	Title string
	Width float64
	Value func(rec T) interface{}
}

// EmployeeColumns is the employee sheet layout
var EmployeeColumns = []Column[domain.Employee]{
	{Title: "First name", Width: 16, Value: func(e domain.Employee) interface{} { return e.FirstName }},
	{Title: "Last name", Width: 16, Value: func(e domain.Employee) interface{} { return e.LastName }},
	{Title: "Department", Width: 16, Value: func(e domain.Employee) interface{} { return string(e.Department) }},
	{Title: "Salary (BAM)", Width: 14, Value: func(e domain.Employee) interface{} { return e.Salary }},
	{Title: "Tech stack", Width: 14, Value: func(e domain.Employee) interface{} { return domain.TechStackLabel(e.TechStack) }},
	{Title: "Employed", Width: 10, Value: func(e domain.Employee) interface{} { return yesNo(e.IsEmployed) }},
}

// ProjectColumns is the project sheet layout
var ProjectColumns = []Column[domain.Project]{
	{Title: "Name", Width: 22, Value: func(p domain.Project) interface{} { return p.Name }},
	{Title: "Description", Width: 30, Value: func(p domain.Project) interface{} { return p.Description }},
	{Title: "Duration", Width: 22, Value: func(p domain.Project) interface{} { return domain.ProjectDateRange(p.StartDate, p.EndDate) }},
	{Title: "Developers", Width: 12, Value: func(p domain.Project) interface{} { return len(p.Employees) }},
	{Title: "Hourly rate", Width: 12, Value: func(p domain.Project) interface{} { return p.HourlyRate }},
	{Title: "Project value (BAM)", Width: 18, Value: func(p domain.Project) interface{} { return p.ProjectValueBAM }},
	{Title: "Status", Width: 12, Value: func(p domain.Project) interface{} { return domain.ProjectStatusLabel(p.ProjectStatus) }},
}

// InvoiceColumns is the invoice sheet layout
var InvoiceColumns = []Column[domain.Invoice]{
	{Title: "Client", Width: 22, Value: func(i domain.Invoice) interface{} { return i.Client }},
	{Title: "Industry", Width: 16, Value: func(i domain.Invoice) interface{} { return i.IndustryType }},
	{Title: "Hours billed", Width: 12, Value: func(i domain.Invoice) interface{} { return i.TotalHoursBilled }},
	{Title: "Amount (BAM)", Width: 14, Value: func(i domain.Invoice) interface{} { return i.Amount }},
	{Title: "Status", Width: 10, Value: func(i domain.Invoice) interface{} { return domain.InvoiceStatusLabel(i.InvoiceStatus) }},
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// WriteXLSX writes rows as a single-sheet workbook with a bold header row
func WriteXLSX[T any](w io.Writer, sheet string, cols []Column[T], rows []T) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = c.Title
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(cols))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, c := range cols {
		if c.Width <= 0 {
			continue
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, c.Width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", name, err)
		}
	}

	for r, rec := range rows {
		values := make([]interface{}, len(cols))
		for i, c := range cols {
			values[i] = c.Value(rec)
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// FileName builds a timestamped export file name like employees-20240601-150405.xlsx
func FileName(entity domain.Entity, ext string, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", entity, now.Format("20060102-150405"), strings.TrimPrefix(ext, "."))
}

// SheetName is the title used for an entity's sheet
func SheetName(entity domain.Entity) string {
	s := string(entity)
	if s == "" {
		return "Sheet1"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
