package domain

import "time"

// Entity identifies one of the record families the dashboard manages
type Entity string

const (
	EntityEmployees Entity = "employees"
	EntityProjects  Entity = "projects"
	EntityInvoices  Entity = "invoices"
)

// Record is anything the list core can show: it only needs a stable identifier
// and a human readable name for prompts.
type Record interface {
	RecordID() string
	DisplayName() string
}

type Department string

const (
	DepartmentAdministration Department = "Administration"
	DepartmentManagement     Department = "Management"
	DepartmentDevelopment    Department = "Development"
	DepartmentDesign         Department = "Design"
)

type TechStack string

const (
	TechStackAdminNA   TechStack = "AdminNA"
	TechStackMgmtNA    TechStack = "MgmtNA"
	TechStackFullStack TechStack = "FullStack"
	TechStackFrontend  TechStack = "Frontend"
	TechStackBackend   TechStack = "Backend"
	TechStackUXUI      TechStack = "UXUI"
)

// ProjectRef is the short form of a project embedded in an employee
type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EmployeeProject links an employee to a project they work on
type EmployeeProject struct {
	Project  ProjectRef `json:"project"`
	PartTime bool       `json:"partTime"`
}

// Employee represents a person on the payroll
type Employee struct {
	ID         string            `json:"id"`
	FirstName  string            `json:"firstName"`
	LastName   string            `json:"lastName"`
	Image      string            `json:"image,omitempty"`
	Department Department        `json:"department"`
	Salary     float64           `json:"salary"`
	TechStack  TechStack         `json:"techStack"`
	IsEmployed bool              `json:"isEmployed"`
	Projects   []EmployeeProject `json:"projects,omitempty"`
}

func (e Employee) RecordID() string    { return e.ID }
func (e Employee) DisplayName() string { return e.FirstName + " " + e.LastName }

type ProjectType string

const (
	ProjectTypeFixed   ProjectType = "Fixed"
	ProjectTypeOnGoing ProjectType = "OnGoing"
)

type SalesChannel string

const (
	SalesChannelOnline   SalesChannel = "Online"
	SalesChannelInPerson SalesChannel = "InPerson"
	SalesChannelReferral SalesChannel = "Referral"
	SalesChannelOther    SalesChannel = "Other"
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "Active"
	ProjectStatusOnHold    ProjectStatus = "OnHold"
	ProjectStatusInactive  ProjectStatus = "Inactive"
	ProjectStatusCompleted ProjectStatus = "Completed"
)

// EmployeeRef is the short form of an employee embedded in a project
type EmployeeRef struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ProjectEmployee links a project to an assigned employee
type ProjectEmployee struct {
	Employee EmployeeRef `json:"employee"`
	PartTime bool        `json:"partTime"`
}

// Project represents a client engagement
type Project struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	StartDate       time.Time         `json:"startDate"`
	EndDate         time.Time         `json:"endDate"`
	ProjectType     ProjectType       `json:"projectType"`
	HourlyRate      float64           `json:"hourlyRate"`
	ProjectValueBAM float64           `json:"projectValueBAM"`
	SalesChannel    SalesChannel      `json:"salesChannel"`
	ProjectStatus   ProjectStatus     `json:"projectStatus"`
	Employees       []ProjectEmployee `json:"employees,omitempty"`
}

func (p Project) RecordID() string    { return p.ID }
func (p Project) DisplayName() string { return p.Name }

type InvoiceStatus string

const (
	InvoiceStatusPaid    InvoiceStatus = "Paid"
	InvoiceStatusSent    InvoiceStatus = "Sent"
	InvoiceStatusNotSent InvoiceStatus = "NotSent"
)

// Invoice represents a bill sent to a client
type Invoice struct {
	ID               string        `json:"id"`
	Client           string        `json:"client"`
	IndustryType     string        `json:"industryType"`
	TotalHoursBilled float64       `json:"totalHoursBilled"`
	Amount           float64       `json:"amount"`
	InvoiceStatus    InvoiceStatus `json:"invoiceStatus"`
}

func (i Invoice) RecordID() string    { return i.ID }
func (i Invoice) DisplayName() string { return i.Client }

// User is the authenticated dashboard operator
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// RoleAdmin may create, edit and delete records
const RoleAdmin = "Admin"

// SalesChannelShare is one slice of the sales channel chart
type SalesChannelShare struct {
	SalesChannel string  `json:"salesChannel"`
	Percentage   float64 `json:"percentage"`
}

// ProjectsInfo holds the raw numbers behind the dashboard charts
type ProjectsInfo struct {
	SalesChannelPercentage []SalesChannelShare `json:"salesChannelPercentage"`
	ProjectScope           map[string]float64  `json:"projectScope"`
}
