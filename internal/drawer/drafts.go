package drawer

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"staffdash/internal/domain"
)

// DateLayout is how dates are typed into forms
const DateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their wire names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldErrors maps a field key to what is wrong with it
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + " " + e[k]
	}
	return strings.Join(parts, "; ")
}

// Field is one editable form input
type Field struct {
	Key     string
	Label   string
	Value   string
	Options []string // when set the value cycles through these
}

// Draft is an unsaved record being edited in a drawer
type Draft interface {
	Fields() []Field
	Set(key, value string)
	Validate() FieldErrors
	Payload() interface{}
}

// checkStruct runs the validator and translates its errors
func checkStruct(s interface{}, errs FieldErrors) {
	err := validate.Struct(s)
	if err == nil {
		return
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["form"] = err.Error()
		return
	}
	for _, fe := range verrs {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		errs[fe.Field()] = describe(fe)
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be " + fe.Param() + " or more"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must be a date like 2024-01-31"
	case "email":
		return "must be an email address"
	case "eqfield":
		return "must match"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	}
	return "is invalid"
}

// numberInput keeps what was typed alongside the parsed value
type numberInput struct {
	raw string
	err string
}

func parseNumber(raw string) (float64, numberInput) {
	raw = strings.TrimSpace(raw)
	in := numberInput{raw: raw}
	if raw == "" {
		return 0, in
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		in.err = "must be a number"
		return 0, in
	}
	return v, in
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "y", "1":
		return true
	}
	return false
}

func formatBool(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// EmployeeDraft is the add/edit form of an employee
type EmployeeDraft struct {
	FirstName  string  `json:"firstName" validate:"required"`
	LastName   string  `json:"lastName" validate:"required"`
	Department string  `json:"department" validate:"required,oneof=Administration Management Development Design"`
	Salary     float64 `json:"salary" validate:"gte=0"`
	TechStack  string  `json:"techStack" validate:"required,oneof=AdminNA MgmtNA FullStack Frontend Backend UXUI"`
	IsEmployed bool    `json:"isEmployed"`

	salary numberInput
}

// NewEmployeeDraft starts an empty employee form
func NewEmployeeDraft() *EmployeeDraft {
	return &EmployeeDraft{
		Department: string(domain.DepartmentDevelopment),
		TechStack:  string(domain.TechStackFullStack),
		IsEmployed: true,
	}
}

// EmployeeDraftFrom prefills the form from e
func EmployeeDraftFrom(e domain.Employee) *EmployeeDraft {
	return &EmployeeDraft{
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Department: string(e.Department),
		Salary:     e.Salary,
		TechStack:  string(e.TechStack),
		IsEmployed: e.IsEmployed,
		salary:     numberInput{raw: formatNumber(e.Salary)},
	}
}

func (d *EmployeeDraft) Fields() []Field {
	return []Field{
		{Key: "firstName", Label: "First name", Value: d.FirstName},
		{Key: "lastName", Label: "Last name", Value: d.LastName},
		{Key: "department", Label: "Department", Value: d.Department, Options: []string{"Administration", "Management", "Development", "Design"}},
		{Key: "salary", Label: "Salary (BAM)", Value: d.salary.raw},
		{Key: "techStack", Label: "Tech stack", Value: d.TechStack, Options: []string{"AdminNA", "MgmtNA", "FullStack", "Frontend", "Backend", "UXUI"}},
		{Key: "isEmployed", Label: "Employed", Value: formatBool(d.IsEmployed), Options: []string{"yes", "no"}},
	}
}

func (d *EmployeeDraft) Set(key, value string) {
	switch key {
	case "firstName":
		d.FirstName = strings.TrimSpace(value)
	case "lastName":
		d.LastName = strings.TrimSpace(value)
	case "department":
		d.Department = value
	case "salary":
		d.Salary, d.salary = parseNumber(value)
	case "techStack":
		d.TechStack = value
	case "isEmployed":
		d.IsEmployed = parseBool(value)
	}
}

func (d *EmployeeDraft) Validate() FieldErrors {
	errs := FieldErrors{}
	if d.salary.err != "" {
		errs["salary"] = d.salary.err
	}
	checkStruct(d, errs)
	return errs
}

func (d *EmployeeDraft) Payload() interface{} { return d }

// ProjectDraft is the add/edit form of a project
type ProjectDraft struct {
	Name            string  `json:"name" validate:"required"`
	Description     string  `json:"description" validate:"required"`
	StartDate       string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate         string  `json:"endDate" validate:"required,datetime=2006-01-02"`
	ProjectType     string  `json:"projectType" validate:"required,oneof=Fixed OnGoing"`
	HourlyRate      float64 `json:"hourlyRate" validate:"gte=0"`
	ProjectValueBAM float64 `json:"projectValueBAM" validate:"gte=0"`
	SalesChannel    string  `json:"salesChannel" validate:"required,oneof=Online InPerson Referral Other"`
	ProjectStatus   string  `json:"projectStatus" validate:"required,oneof=Active OnHold Inactive Completed"`

	// Team is edited through one choice field per member
	Team []TeamMember `json:"-"`

	hourlyRate   numberInput
	projectValue numberInput
}

// TeamMember is an employee assigned to a project form
type TeamMember struct {
	EmployeeID string `json:"employeeId"`
	PartTime   bool   `json:"partTime"`

	name    string
	removed bool
}

// Name is how the member is labelled in the form
func (m TeamMember) Name() string { return m.name }

// Removed reports whether the member was taken off the team in this form
func (m TeamMember) Removed() bool { return m.removed }

// teamKeyPrefix marks the field keys of team members
const teamKeyPrefix = "team:"

const (
	memberFullTime = "full-time"
	memberPartTime = "part-time"
	memberRemoved  = "removed"
)

var memberOptions = []string{memberFullTime, memberPartTime, memberRemoved}

// AddMember puts e on the team as a full-time member. A member removed in
// this form is restored instead. It reports whether the team changed.
func (d *ProjectDraft) AddMember(e domain.Employee) bool {
	for i := range d.Team {
		if d.Team[i].EmployeeID != e.ID {
			continue
		}
		if !d.Team[i].removed {
			return false
		}
		d.Team[i].removed = false
		return true
	}
	d.Team = append(d.Team, TeamMember{EmployeeID: e.ID, name: e.DisplayName()})
	return true
}

func (d *ProjectDraft) setMember(id, value string) {
	for i := range d.Team {
		if d.Team[i].EmployeeID != id {
			continue
		}
		switch value {
		case memberFullTime:
			d.Team[i].PartTime, d.Team[i].removed = false, false
		case memberPartTime:
			d.Team[i].PartTime, d.Team[i].removed = true, false
		case memberRemoved:
			d.Team[i].removed = true
		}
		return
	}
}

func memberState(m TeamMember) string {
	switch {
	case m.removed:
		return memberRemoved
	case m.PartTime:
		return memberPartTime
	}
	return memberFullTime
}

// NewProjectDraft starts an empty project form
func NewProjectDraft() *ProjectDraft {
	return &ProjectDraft{
		ProjectType:   string(domain.ProjectTypeFixed),
		SalesChannel:  string(domain.SalesChannelOnline),
		ProjectStatus: string(domain.ProjectStatusActive),
	}
}

// ProjectDraftFrom prefills the form from p
func ProjectDraftFrom(p domain.Project) *ProjectDraft {
	return &ProjectDraft{
		Name:            p.Name,
		Description:     p.Description,
		StartDate:       formatDate(p.StartDate),
		EndDate:         formatDate(p.EndDate),
		ProjectType:     string(p.ProjectType),
		HourlyRate:      p.HourlyRate,
		ProjectValueBAM: p.ProjectValueBAM,
		SalesChannel:    string(p.SalesChannel),
		ProjectStatus:   string(p.ProjectStatus),
		Team:            teamFrom(p.Employees),
		hourlyRate:      numberInput{raw: formatNumber(p.HourlyRate)},
		projectValue:    numberInput{raw: formatNumber(p.ProjectValueBAM)},
	}
}

func teamFrom(employees []domain.ProjectEmployee) []TeamMember {
	team := make([]TeamMember, 0, len(employees))
	for _, e := range employees {
		team = append(team, TeamMember{
			EmployeeID: e.Employee.ID,
			PartTime:   e.PartTime,
			name:       strings.TrimSpace(e.Employee.FirstName + " " + e.Employee.LastName),
		})
	}
	return team
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func (d *ProjectDraft) Fields() []Field {
	fields := []Field{
		{Key: "name", Label: "Name", Value: d.Name},
		{Key: "description", Label: "Description", Value: d.Description},
		{Key: "startDate", Label: "Start date", Value: d.StartDate},
		{Key: "endDate", Label: "End date", Value: d.EndDate},
		{Key: "projectType", Label: "Type", Value: d.ProjectType, Options: []string{"Fixed", "OnGoing"}},
		{Key: "hourlyRate", Label: "Hourly rate", Value: d.hourlyRate.raw},
		{Key: "projectValueBAM", Label: "Project value (BAM)", Value: d.projectValue.raw},
		{Key: "salesChannel", Label: "Sales channel", Value: d.SalesChannel, Options: []string{"Online", "InPerson", "Referral", "Other"}},
		{Key: "projectStatus", Label: "Status", Value: d.ProjectStatus, Options: []string{"Active", "OnHold", "Inactive", "Completed"}},
	}
	for _, m := range d.Team {
		fields = append(fields, Field{Key: teamKeyPrefix + m.EmployeeID, Label: m.name, Value: memberState(m), Options: memberOptions})
	}
	return fields
}

func (d *ProjectDraft) Set(key, value string) {
	switch key {
	case "name":
		d.Name = strings.TrimSpace(value)
	case "description":
		d.Description = strings.TrimSpace(value)
	case "startDate":
		d.StartDate = strings.TrimSpace(value)
	case "endDate":
		d.EndDate = strings.TrimSpace(value)
	case "projectType":
		d.ProjectType = value
	case "hourlyRate":
		d.HourlyRate, d.hourlyRate = parseNumber(value)
	case "projectValueBAM":
		d.ProjectValueBAM, d.projectValue = parseNumber(value)
	case "salesChannel":
		d.SalesChannel = value
	case "projectStatus":
		d.ProjectStatus = value
	default:
		if id, ok := strings.CutPrefix(key, teamKeyPrefix); ok {
			d.setMember(id, value)
		}
	}
}

func (d *ProjectDraft) Validate() FieldErrors {
	errs := FieldErrors{}
	if d.hourlyRate.err != "" {
		errs["hourlyRate"] = d.hourlyRate.err
	}
	if d.projectValue.err != "" {
		errs["projectValueBAM"] = d.projectValue.err
	}
	checkStruct(d, errs)

	start, serr := time.Parse(DateLayout, d.StartDate)
	end, eerr := time.Parse(DateLayout, d.EndDate)
	if serr == nil && eerr == nil && end.Before(start) {
		if _, seen := errs["endDate"]; !seen {
			errs["endDate"] = "cannot be before the start date"
		}
	}
	return errs
}

// projectPayload is the wire form of a project draft
type projectPayload struct {
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	StartDate       time.Time    `json:"startDate"`
	EndDate         time.Time    `json:"endDate"`
	ProjectType     string       `json:"projectType"`
	HourlyRate      float64      `json:"hourlyRate"`
	ProjectValueBAM float64      `json:"projectValueBAM"`
	SalesChannel    string       `json:"salesChannel"`
	ProjectStatus   string       `json:"projectStatus"`
	Employees       []TeamMember `json:"employees"`
}

func (d *ProjectDraft) Payload() interface{} {
	start, _ := time.Parse(DateLayout, d.StartDate)
	end, _ := time.Parse(DateLayout, d.EndDate)
	team := make([]TeamMember, 0, len(d.Team))
	for _, m := range d.Team {
		if !m.removed {
			team = append(team, TeamMember{EmployeeID: m.EmployeeID, PartTime: m.PartTime})
		}
	}
	return projectPayload{
		Name:            d.Name,
		Description:     d.Description,
		StartDate:       start,
		EndDate:         end,
		ProjectType:     d.ProjectType,
		HourlyRate:      d.HourlyRate,
		ProjectValueBAM: d.ProjectValueBAM,
		SalesChannel:    d.SalesChannel,
		ProjectStatus:   d.ProjectStatus,
		Employees:       team,
	}
}

// InvoiceDraft is the add/edit form of an invoice
type InvoiceDraft struct {
	Client           string  `json:"client" validate:"required"`
	IndustryType     string  `json:"industryType" validate:"required"`
	TotalHoursBilled float64 `json:"totalHoursBilled" validate:"gte=0"`
	Amount           float64 `json:"amount" validate:"gte=0"`
	InvoiceStatus    string  `json:"invoiceStatus" validate:"required,oneof=Paid Sent NotSent"`

	hours  numberInput
	amount numberInput
}

// NewInvoiceDraft starts an empty invoice form
func NewInvoiceDraft() *InvoiceDraft {
	return &InvoiceDraft{InvoiceStatus: string(domain.InvoiceStatusNotSent)}
}

// InvoiceDraftFrom prefills the form from i
func InvoiceDraftFrom(i domain.Invoice) *InvoiceDraft {
	return &InvoiceDraft{
		Client:           i.Client,
		IndustryType:     i.IndustryType,
		TotalHoursBilled: i.TotalHoursBilled,
		Amount:           i.Amount,
		InvoiceStatus:    string(i.InvoiceStatus),
		hours:            numberInput{raw: formatNumber(i.TotalHoursBilled)},
		amount:           numberInput{raw: formatNumber(i.Amount)},
	}
}

func (d *InvoiceDraft) Fields() []Field {
	return []Field{
		{Key: "client", Label: "Client", Value: d.Client},
		{Key: "industryType", Label: "Industry", Value: d.IndustryType},
		{Key: "totalHoursBilled", Label: "Hours billed", Value: d.hours.raw},
		{Key: "amount", Label: "Amount (BAM)", Value: d.amount.raw},
		{Key: "invoiceStatus", Label: "Status", Value: d.InvoiceStatus, Options: []string{"Paid", "Sent", "NotSent"}},
	}
}

func (d *InvoiceDraft) Set(key, value string) {
	switch key {
	case "client":
		d.Client = strings.TrimSpace(value)
	case "industryType":
		d.IndustryType = strings.TrimSpace(value)
	case "totalHoursBilled":
		d.TotalHoursBilled, d.hours = parseNumber(value)
	case "amount":
		d.Amount, d.amount = parseNumber(value)
	case "invoiceStatus":
		d.InvoiceStatus = value
	}
}

func (d *InvoiceDraft) Validate() FieldErrors {
	errs := FieldErrors{}
	if d.hours.err != "" {
		errs["totalHoursBilled"] = d.hours.err
	}
	if d.amount.err != "" {
		errs["amount"] = d.amount.err
	}
	checkStruct(d, errs)
	return errs
}

func (d *InvoiceDraft) Payload() interface{} { return d }

// ResetPasswordForm is the reset-password screen's input
type ResetPasswordForm struct {
	Password string `json:"password" validate:"required,min=8"`
	Confirm  string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// Validate checks the passwords before anything is sent
func (f ResetPasswordForm) Validate() FieldErrors {
	errs := FieldErrors{}
	checkStruct(f, errs)
	return errs
}

// LoginForm is the login screen's input
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (f LoginForm) Validate() FieldErrors {
	errs := FieldErrors{}
	checkStruct(f, errs)
	return errs
}

// DraftFor returns the prefilled form for rec, or an empty one when rec is nil
func DraftFor(entity domain.Entity, rec domain.Record) (Draft, error) {
	switch entity {
	case domain.EntityEmployees:
		if e, ok := rec.(domain.Employee); ok {
			return EmployeeDraftFrom(e), nil
		}
		return NewEmployeeDraft(), nil
	case domain.EntityProjects:
		if p, ok := rec.(domain.Project); ok {
			return ProjectDraftFrom(p), nil
		}
		return NewProjectDraft(), nil
	case domain.EntityInvoices:
		if i, ok := rec.(domain.Invoice); ok {
			return InvoiceDraftFrom(i), nil
		}
		return NewInvoiceDraft(), nil
	}
	return nil, fmt.Errorf("no form for %s", entity)
}
