package devapi

import (
	"strconv"
	"strings"

	"staffdash/internal/domain"
)

func employeeTable(rows []domain.Employee) *table[domain.Employee] {
	return &table[domain.Employee]{
		rows: rows,
		matches: func(e domain.Employee, search, status string) bool {
			if status != "" {
				employed, err := strconv.ParseBool(status)
				if err == nil && e.IsEmployed != employed {
					return false
				}
			}
			return contains(e.FirstName+" "+e.LastName, search)
		},
		sorters: map[string]func(a, b domain.Employee) int{
			"firstName":  func(a, b domain.Employee) int { return compareStrings(a.FirstName, b.FirstName) },
			"lastName":   func(a, b domain.Employee) int { return compareStrings(a.LastName, b.LastName) },
			"department": func(a, b domain.Employee) int { return compareStrings(string(a.Department), string(b.Department)) },
			"salary":     func(a, b domain.Employee) int { return compareFloats(a.Salary, b.Salary) },
			"techStack":  func(a, b domain.Employee) int { return compareStrings(string(a.TechStack), string(b.TechStack)) },
		},
		validate: validateEmployee,
		withID:   func(e domain.Employee, id string) domain.Employee { e.ID = id; return e },
	}
}

func validateEmployee(e domain.Employee) error {
	switch {
	case strings.TrimSpace(e.FirstName) == "":
		return fieldError{Field: "firstName", Msg: "first name is required"}
	case strings.TrimSpace(e.LastName) == "":
		return fieldError{Field: "lastName", Msg: "last name is required"}
	case e.Department == "":
		return fieldError{Field: "department", Msg: "department is required"}
	case e.Salary < 0:
		return fieldError{Field: "salary", Msg: "salary cannot be negative"}
	}
	return nil
}

func projectTable(rows []domain.Project) *table[domain.Project] {
	return &table[domain.Project]{
		rows: rows,
		matches: func(p domain.Project, search, status string) bool {
			if status != "" && string(p.ProjectStatus) != status {
				return false
			}
			return contains(p.Name, search)
		},
		sorters: map[string]func(a, b domain.Project) int{
			"name":            func(a, b domain.Project) int { return compareStrings(a.Name, b.Name) },
			"startDate":       func(a, b domain.Project) int { return a.StartDate.Compare(b.StartDate) },
			"endDate":         func(a, b domain.Project) int { return a.EndDate.Compare(b.EndDate) },
			"hourlyRate":      func(a, b domain.Project) int { return compareFloats(a.HourlyRate, b.HourlyRate) },
			"projectValueBAM": func(a, b domain.Project) int { return compareFloats(a.ProjectValueBAM, b.ProjectValueBAM) },
			"projectStatus":   func(a, b domain.Project) int { return compareStrings(string(a.ProjectStatus), string(b.ProjectStatus)) },
		},
		validate: validateProject,
		withID:   func(p domain.Project, id string) domain.Project { p.ID = id; return p },
	}
}

func validateProject(p domain.Project) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fieldError{Field: "name", Msg: "name is required"}
	case strings.TrimSpace(p.Description) == "":
		return fieldError{Field: "description", Msg: "description is required"}
	case p.StartDate.IsZero():
		return fieldError{Field: "startDate", Msg: "start date is required"}
	case !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate):
		return fieldError{Field: "endDate", Msg: "end date cannot be before start date"}
	case p.HourlyRate < 0:
		return fieldError{Field: "hourlyRate", Msg: "hourly rate cannot be negative"}
	case p.ProjectValueBAM < 0:
		return fieldError{Field: "projectValueBAM", Msg: "project value cannot be negative"}
	case p.ProjectStatus == "":
		return fieldError{Field: "projectStatus", Msg: "status is required"}
	}
	return nil
}

func invoiceTable(rows []domain.Invoice) *table[domain.Invoice] {
	return &table[domain.Invoice]{
		rows: rows,
		matches: func(i domain.Invoice, search, status string) bool {
			if status != "" && string(i.InvoiceStatus) != status {
				return false
			}
			return contains(i.Client, search)
		},
		sorters: map[string]func(a, b domain.Invoice) int{
			"client":           func(a, b domain.Invoice) int { return compareStrings(a.Client, b.Client) },
			"industryType":     func(a, b domain.Invoice) int { return compareStrings(a.IndustryType, b.IndustryType) },
			"totalHoursBilled": func(a, b domain.Invoice) int { return compareFloats(a.TotalHoursBilled, b.TotalHoursBilled) },
			"amount":           func(a, b domain.Invoice) int { return compareFloats(a.Amount, b.Amount) },
			"invoiceStatus":    func(a, b domain.Invoice) int { return compareStrings(string(a.InvoiceStatus), string(b.InvoiceStatus)) },
		},
		validate: validateInvoice,
		withID:   func(i domain.Invoice, id string) domain.Invoice { i.ID = id; return i },
	}
}

func validateInvoice(i domain.Invoice) error {
	switch {
	case strings.TrimSpace(i.Client) == "":
		return fieldError{Field: "client", Msg: "client is required"}
	case strings.TrimSpace(i.IndustryType) == "":
		return fieldError{Field: "industryType", Msg: "industry type is required"}
	case i.TotalHoursBilled < 0:
		return fieldError{Field: "totalHoursBilled", Msg: "hours billed cannot be negative"}
	case i.Amount < 0:
		return fieldError{Field: "amount", Msg: "amount cannot be negative"}
	case i.InvoiceStatus == "":
		return fieldError{Field: "invoiceStatus", Msg: "status is required"}
	}
	return nil
}
