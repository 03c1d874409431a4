package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"staffdash/internal/domain"
	"staffdash/internal/export"
	"staffdash/internal/listing"
	"staffdash/internal/ui/views"
)

// list is what the model needs from a controller without knowing its record
// type. entityList provides it for each of the three entities.
type list interface {
	Entity() domain.Entity
	Title() string
	Columns() []listing.Column
	Tabs() []listing.Tab
	ActiveTab() int
	PageSizeOptions() []int
	Query() listing.Query
	Cursor() int
	Selection() listing.Selection

	Load(force bool) (listing.Ticket, bool)
	Search(term string) (listing.Ticket, bool)
	SelectTab(i int) (listing.Ticket, bool)
	NextTab() (listing.Ticket, bool)
	PrevTab() (listing.Ticket, bool)
	SortBy(key string) (listing.Ticket, bool)
	GoToPage(n int) (listing.Ticket, bool)
	NextPage() (listing.Ticket, bool)
	PrevPage() (listing.Ticket, bool)
	CyclePageSize() (listing.Ticket, bool)

	MoveCursor(delta int)
	SetCursor(i int)
	ToggleMark(i int) bool
	MarkedIDs() []string
	ClearMarks()
	SelectRow(i int) (string, bool)
	ClearSelection()

	Len() int
	Record(i int) (domain.Record, bool)
	MarkedRecords() []domain.Record
	HasData() bool
	Loading() bool
	Status() listing.Status
	Err() error
	Summary() pageSummary
	ViewRows() []views.Row
	Details(rec domain.Record) []views.Detail
	request(t listing.Ticket, ok bool) tea.Cmd
	Drop(id string)
	WriteXLSX(w io.Writer) (int, error)
}

// pageSummary is the pagination footer of a list
type pageSummary struct {
	First, Last, Total, Page, LastPage int
}

type entityList[T domain.Record] struct {
	*listing.Controller[T]
	ctx     context.Context
	cells   func(T) []string
	details func(T) []views.Detail
	sheet   []export.Column[T]
}

func (l *entityList[T]) Len() int { return len(l.Rows()) }

func (l *entityList[T]) Record(i int) (domain.Record, bool) {
	rec, ok := l.At(i)
	if !ok {
		return nil, false
	}
	return rec, true
}

func (l *entityList[T]) MarkedRecords() []domain.Record {
	marked := l.Marked()
	out := make([]domain.Record, len(marked))
	for i, rec := range marked {
		out[i] = rec
	}
	return out
}

func (l *entityList[T]) HasData() bool          { return l.Source().HasData() }
func (l *entityList[T]) Loading() bool          { return l.Source().Loading() }
func (l *entityList[T]) Status() listing.Status { return l.Source().Status() }
func (l *entityList[T]) Err() error             { return l.Source().Err() }

func (l *entityList[T]) Summary() pageSummary {
	p := l.Page()
	q := l.Query()
	first, last := p.Range(q.PageSize)
	s := pageSummary{First: first, Last: last, Total: p.Total, Page: p.CurrentPage, LastPage: p.LastPage}
	if s.Page == 0 {
		s.Page = q.Page
	}
	if s.LastPage == 0 {
		s.LastPage = 1
	}
	return s
}

// ViewRows formats the displayed page for the table view
func (l *entityList[T]) ViewRows() []views.Row {
	marked := make(map[string]bool)
	for _, id := range l.MarkedIDs() {
		marked[id] = true
	}
	selected := l.Selection().SelectedID

	rows := l.Rows()
	out := make([]views.Row, len(rows))
	for i, rec := range rows {
		id := rec.RecordID()
		out[i] = views.Row{
			Cells:    l.cells(rec),
			Marked:   marked[id],
			Cursor:   i == l.Cursor(),
			Selected: id == selected,
		}
	}
	return out
}

func (l *entityList[T]) Details(rec domain.Record) []views.Detail {
	if r, ok := rec.(T); ok {
		return l.details(r)
	}
	return nil
}

// request runs a ticket off the UI goroutine. The result is applied when the
// message comes back so only the latest ticket ever lands. Intents that did
// not produce a ticket produce no command.
func (l *entityList[T]) request(t listing.Ticket, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	return func() tea.Msg {
		res := l.Source().Run(l.ctx, t)
		return pageMsg{
			list:   l,
			entity: l.Entity(),
			err:    res.Err,
			apply:  func() bool { return l.Apply(res) },
		}
	}
}

// Drop removes a record from the displayed page until the refetch lands
func (l *entityList[T]) Drop(id string) {
	l.Source().Replace(func(p listing.Page[T]) listing.Page[T] {
		items := make([]T, 0, len(p.Items))
		for _, rec := range p.Items {
			if rec.RecordID() != id {
				items = append(items, rec)
			}
		}
		if len(items) < len(p.Items) && p.Total > 0 {
			p.Total--
		}
		p.Items = items
		return p
	})
	l.MoveCursor(0)
}

// WriteXLSX writes the marked rows of the page, or the whole page when
// nothing is marked
func (l *entityList[T]) WriteXLSX(w io.Writer) (int, error) {
	rows := l.Marked()
	if len(rows) == 0 {
		rows = l.Rows()
	}
	return len(rows), export.WriteXLSX(w, export.SheetName(l.Entity()), l.sheet, rows)
}

// statusColumns are colored by their label
var statusColumns = map[string]bool{
	"isEmployed":    true,
	"projectStatus": true,
	"invoiceStatus": true,
}

func employmentLabel(employed bool) string {
	if employed {
		return "Current"
	}
	return "Past"
}

func newEmployeeList(ctx context.Context, src *listing.Source[domain.Employee], d listing.Defaults, sizes []int) *entityList[domain.Employee] {
	cfg := listing.Config{
		Entity: domain.EntityEmployees,
		Title:  "Employees",
		Columns: []listing.Column{
			{Key: "firstName", Title: "First name", Sortable: true, Width: 12},
			{Key: "lastName", Title: "Last name", Sortable: true, Width: 12},
			{Key: "department", Title: "Department", Sortable: true, Width: 14},
			{Key: "salary", Title: "Salary (BAM)", Sortable: true, Width: 13},
			{Key: "techStack", Title: "Tech stack", Sortable: true, Width: 11},
			{Key: "isEmployed", Title: "Status", Width: 8},
			{Key: "projects", Title: "Projects", Width: 22},
		},
		Tabs: []listing.Tab{
			{Label: "All"},
			{Label: "Current", Status: "true"},
			{Label: "Past", Status: "false"},
		},
		Defaults:        d,
		PageSizeOptions: sizes,
	}
	return &entityList[domain.Employee]{
		Controller: listing.NewController(cfg, src),
		ctx:        ctx,
		cells: func(e domain.Employee) []string {
			names := make([]string, len(e.Projects))
			for i, p := range e.Projects {
				names[i] = p.Project.Name
			}
			return []string{
				e.FirstName,
				e.LastName,
				string(e.Department),
				domain.FormatBAM(e.Salary),
				domain.TechStackLabel(e.TechStack),
				employmentLabel(e.IsEmployed),
				strings.Join(names, ", "),
			}
		},
		details: employeeDetails,
		sheet:   export.EmployeeColumns,
	}
}

func employeeDetails(e domain.Employee) []views.Detail {
	projects := make([]string, len(e.Projects))
	for i, p := range e.Projects {
		line := p.Project.Name
		if p.PartTime {
			line += " (part-time)"
		}
		projects[i] = line
	}
	if len(projects) == 0 {
		projects = []string{"None"}
	}
	return []views.Detail{
		{Label: "Name", Value: e.DisplayName()},
		{Label: "Department", Value: string(e.Department)},
		{Label: "Salary", Value: domain.FormatBAM(e.Salary) + " BAM"},
		{Label: "Tech stack", Value: domain.TechStackLabel(e.TechStack)},
		{Label: "Employment", Value: employmentLabel(e.IsEmployed)},
		{Label: "Projects", Value: strings.Join(projects, "\n")},
	}
}

func newProjectList(ctx context.Context, src *listing.Source[domain.Project], d listing.Defaults, sizes []int) *entityList[domain.Project] {
	cfg := listing.Config{
		Entity: domain.EntityProjects,
		Title:  "Projects",
		Columns: []listing.Column{
			{Key: "name", Title: "Name", Sortable: true, Width: 18},
			{Key: "startDate", Title: "Duration", Sortable: true, Width: 21},
			{Key: "employees", Title: "Developers", Width: 10},
			{Key: "hourlyRate", Title: "Hourly rate", Sortable: true, Width: 11},
			{Key: "projectValueBAM", Title: "Value (BAM)", Sortable: true, Width: 14},
			{Key: "projectStatus", Title: "Status", Sortable: true, Width: 10},
		},
		Tabs: []listing.Tab{
			{Label: "All"},
			{Label: "Active", Status: string(domain.ProjectStatusActive)},
			{Label: "On hold", Status: string(domain.ProjectStatusOnHold)},
			{Label: "Inactive", Status: string(domain.ProjectStatusInactive)},
			{Label: "Completed", Status: string(domain.ProjectStatusCompleted)},
		},
		Defaults:        d,
		PageSizeOptions: sizes,
	}
	return &entityList[domain.Project]{
		Controller: listing.NewController(cfg, src),
		ctx:        ctx,
		cells: func(p domain.Project) []string {
			return []string{
				p.Name,
				domain.ProjectDateRange(p.StartDate, p.EndDate),
				fmt.Sprintf("%d", len(p.Employees)),
				domain.FormatBAM(p.HourlyRate),
				domain.FormatBAM(p.ProjectValueBAM),
				domain.ProjectStatusLabel(p.ProjectStatus),
			}
		},
		details: projectDetails,
		sheet:   export.ProjectColumns,
	}
}

func projectDetails(p domain.Project) []views.Detail {
	team := make([]string, len(p.Employees))
	for i, e := range p.Employees {
		line := e.Employee.FirstName + " " + e.Employee.LastName
		if e.PartTime {
			line += " (part-time)"
		}
		team[i] = line
	}
	if len(team) == 0 {
		team = []string{"Nobody assigned"}
	}
	return []views.Detail{
		{Label: "Name", Value: p.Name},
		{Label: "Description", Value: p.Description},
		{Label: "Duration", Value: domain.ProjectDateRange(p.StartDate, p.EndDate)},
		{Label: "Type", Value: domain.ProjectTypeLabel(p.ProjectType)},
		{Label: "Hourly rate", Value: domain.FormatBAM(p.HourlyRate) + " BAM"},
		{Label: "Project value", Value: domain.FormatBAM(p.ProjectValueBAM) + " BAM"},
		{Label: "Sales channel", Value: string(p.SalesChannel)},
		{Label: "Status", Value: domain.ProjectStatusLabel(p.ProjectStatus)},
		{Label: "Team", Value: strings.Join(team, "\n")},
	}
}

func newInvoiceList(ctx context.Context, src *listing.Source[domain.Invoice], d listing.Defaults, sizes []int) *entityList[domain.Invoice] {
	cfg := listing.Config{
		Entity: domain.EntityInvoices,
		Title:  "Invoices",
		Columns: []listing.Column{
			{Key: "client", Title: "Client", Sortable: true, Width: 20},
			{Key: "industryType", Title: "Industry", Sortable: true, Width: 16},
			{Key: "totalHoursBilled", Title: "Hours", Sortable: true, Width: 8},
			{Key: "amount", Title: "Amount (BAM)", Sortable: true, Width: 14},
			{Key: "invoiceStatus", Title: "Status", Sortable: true, Width: 9},
		},
		Tabs: []listing.Tab{
			{Label: "All"},
			{Label: "Paid", Status: string(domain.InvoiceStatusPaid)},
			{Label: "Sent", Status: string(domain.InvoiceStatusSent)},
			{Label: "Not sent", Status: string(domain.InvoiceStatusNotSent)},
		},
		Defaults:        d,
		PageSizeOptions: sizes,
	}
	return &entityList[domain.Invoice]{
		Controller: listing.NewController(cfg, src),
		ctx:        ctx,
		cells: func(i domain.Invoice) []string {
			return []string{
				i.Client,
				i.IndustryType,
				fmt.Sprintf("%g", i.TotalHoursBilled),
				domain.FormatBAM(i.Amount),
				domain.InvoiceStatusLabel(i.InvoiceStatus),
			}
		},
		details: invoiceDetails,
		sheet:   export.InvoiceColumns,
	}
}

func invoiceDetails(i domain.Invoice) []views.Detail {
	return []views.Detail{
		{Label: "Client", Value: i.Client},
		{Label: "Industry", Value: i.IndustryType},
		{Label: "Hours billed", Value: fmt.Sprintf("%g", i.TotalHoursBilled)},
		{Label: "Amount", Value: domain.FormatBAM(i.Amount) + " BAM"},
		{Label: "Status", Value: domain.InvoiceStatusLabel(i.InvoiceStatus)},
	}
}
