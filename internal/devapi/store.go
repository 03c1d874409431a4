package devapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"staffdash/internal/domain"
)

var (
	errInvalidCredentials = errors.New("invalid email or password")
	errInvalidResetToken  = errors.New("reset link is invalid or has expired")
)

// account is a dashboard operator with a hashed password
type account struct {
	user       domain.User
	hash       []byte
	resetToken string
}

// Store is the server's in-memory state
type Store struct {
	mu        sync.RWMutex
	employees *table[domain.Employee]
	projects  *table[domain.Project]
	invoices  *table[domain.Invoice]
	accounts  map[string]*account // by email
}

// NewStore creates an empty store
func NewStore() *Store {
	s := &Store{
		employees: employeeTable(nil),
		projects:  projectTable(nil),
		invoices:  invoiceTable(nil),
		accounts:  make(map[string]*account),
	}
	s.projects.resolve = s.resolveTeam
	s.projects.saved = s.projectSaved
	s.projects.removed = s.projectRemoved
	s.employees.saved = s.employeeSaved
	s.employees.removed = s.employeeRemoved
	return s
}

// teamMember is how a project body names an assigned employee. The short
// employeeId form is what clients send; the embedded form is what lists return.
type teamMember struct {
	EmployeeID string              `json:"employeeId"`
	Employee   *domain.EmployeeRef `json:"employee"`
	PartTime   bool                `json:"partTime"`
}

func (m teamMember) id() string {
	if m.EmployeeID == "" && m.Employee != nil {
		return m.Employee.ID
	}
	return m.EmployeeID
}

func employeeRef(e domain.Employee) domain.EmployeeRef {
	return domain.EmployeeRef{ID: e.ID, FirstName: e.FirstName, LastName: e.LastName}
}

// resolveTeam replaces the project's team with the employees body names.
// A body without an employees key keeps the team p already has.
func (s *Store) resolveTeam(p domain.Project, body []byte) (domain.Project, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return p, fieldError{Field: "body", Msg: "invalid JSON body"}
	}
	raw, ok := fields["employees"]
	if !ok {
		return p, nil
	}
	var members []teamMember
	if err := json.Unmarshal(raw, &members); err != nil {
		return p, fieldError{Field: "employees", Msg: "must be a list of {employeeId, partTime}"}
	}

	team := make([]domain.ProjectEmployee, 0, len(members))
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		id := m.id()
		if seen[id] {
			continue
		}
		e, ok := s.employees.get(id)
		if !ok {
			return p, fieldError{Field: "employees", Msg: fmt.Sprintf("employee %q not found", id)}
		}
		seen[id] = true
		team = append(team, domain.ProjectEmployee{Employee: employeeRef(e), PartTime: m.PartTime})
	}
	p.Employees = team
	return p, nil
}

// projectSaved points every team member's project list at p. Rows are
// replaced, never edited in place, since list responses encode them unlocked.
func (s *Store) projectSaved(p domain.Project) {
	onTeam := make(map[string]bool, len(p.Employees))
	partTime := make(map[string]bool, len(p.Employees))
	for _, pe := range p.Employees {
		onTeam[pe.Employee.ID] = true
		partTime[pe.Employee.ID] = pe.PartTime
	}
	for i, e := range s.employees.rows {
		projects := withoutProject(e.Projects, p.ID)
		if onTeam[e.ID] {
			projects = append(projects, domain.EmployeeProject{
				Project:  domain.ProjectRef{ID: p.ID, Name: p.Name},
				PartTime: partTime[e.ID],
			})
		}
		if len(projects) == 0 && len(e.Projects) == 0 {
			continue
		}
		e.Projects = projects
		s.employees.rows[i] = e
	}
}

func (s *Store) projectRemoved(id string) {
	for i, e := range s.employees.rows {
		if hasProject(e.Projects, id) {
			e.Projects = withoutProject(e.Projects, id)
			s.employees.rows[i] = e
		}
	}
}

// employeeSaved refreshes the employee's name on the teams they belong to
func (s *Store) employeeSaved(e domain.Employee) {
	for i, p := range s.projects.rows {
		team := make([]domain.ProjectEmployee, len(p.Employees))
		changed := false
		for j, pe := range p.Employees {
			if pe.Employee.ID == e.ID {
				pe.Employee = employeeRef(e)
				changed = true
			}
			team[j] = pe
		}
		if changed {
			p.Employees = team
			s.projects.rows[i] = p
		}
	}
}

func (s *Store) employeeRemoved(id string) {
	for i, p := range s.projects.rows {
		team := make([]domain.ProjectEmployee, 0, len(p.Employees))
		for _, pe := range p.Employees {
			if pe.Employee.ID != id {
				team = append(team, pe)
			}
		}
		if len(team) != len(p.Employees) {
			p.Employees = team
			s.projects.rows[i] = p
		}
	}
}

func hasProject(projects []domain.EmployeeProject, id string) bool {
	for _, ep := range projects {
		if ep.Project.ID == id {
			return true
		}
	}
	return false
}

func withoutProject(projects []domain.EmployeeProject, id string) []domain.EmployeeProject {
	out := make([]domain.EmployeeProject, 0, len(projects))
	for _, ep := range projects {
		if ep.Project.ID != id {
			out = append(out, ep)
		}
	}
	return out
}

// AddUser registers an operator. It returns the one-time reset token issued
// for the account.
func (s *Store) AddUser(user domain.User, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc := &account{user: user, hash: hash, resetToken: uuid.NewString()}
	s.accounts[strings.ToLower(user.Email)] = acc
	return acc.resetToken, nil
}

// UserID looks up the id of the operator registered under email
func (s *Store) UserID(email string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return "", false
	}
	return acc.user.ID, true
}

// Authenticate checks credentials
func (s *Store) Authenticate(email, password string) (domain.User, error) {
	s.mu.RLock()
	acc, ok := s.accounts[strings.ToLower(strings.TrimSpace(email))]
	s.mu.RUnlock()
	if !ok {
		return domain.User{}, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return domain.User{}, errInvalidCredentials
	}
	return acc.user, nil
}

// ResetPassword replaces the password of userID if token matches. Tokens are
// single use.
func (s *Store) ResetPassword(userID, token, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.user.ID != userID {
			continue
		}
		if acc.resetToken == "" || acc.resetToken != token {
			return errInvalidResetToken
		}
		acc.hash = hash
		acc.resetToken = ""
		return nil
	}
	return errInvalidResetToken
}

// ProjectsInfo summarises the projects for the dashboard charts
func (s *Store) ProjectsInfo() domain.ProjectsInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[domain.SalesChannel]int{}
	scope := map[string]float64{
		string(domain.ProjectTypeFixed):   0,
		string(domain.ProjectTypeOnGoing): 0,
	}
	for _, p := range s.projects.rows {
		counts[p.SalesChannel]++
		scope[string(p.ProjectType)]++
	}

	info := domain.ProjectsInfo{ProjectScope: scope}
	total := len(s.projects.rows)
	if total == 0 {
		return info
	}
	for _, ch := range []domain.SalesChannel{
		domain.SalesChannelOnline,
		domain.SalesChannelInPerson,
		domain.SalesChannelReferral,
		domain.SalesChannelOther,
	} {
		if counts[ch] == 0 {
			continue
		}
		pct := math.Round(float64(counts[ch])/float64(total)*10000) / 100
		info.SalesChannelPercentage = append(info.SalesChannelPercentage, domain.SalesChannelShare{
			SalesChannel: wireChannel(ch),
			Percentage:   pct,
		})
	}
	return info
}

// wireChannel is how the info endpoint spells a sales channel
func wireChannel(ch domain.SalesChannel) string {
	if ch == domain.SalesChannelInPerson {
		return "in-person"
	}
	return strings.ToLower(string(ch))
}

// Seed fills the store with demo data. Dates are relative to now so the
// projects look current.
func (s *Store) Seed(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	first := []string{"Amina", "Haris", "Lejla", "Emir", "Selma", "Tarik", "Ajla", "Kenan", "Dina", "Adnan", "Jane", "Mirza", "Nejra", "Faruk", "Ilma"}
	last := []string{"Hodžić", "Kovač", "Begić", "Delić", "Mehić", "Doe", "Alić", "Hadžić"}
	departments := []domain.Department{domain.DepartmentDevelopment, domain.DepartmentDesign, domain.DepartmentManagement, domain.DepartmentAdministration}
	stacks := map[domain.Department][]domain.TechStack{
		domain.DepartmentDevelopment:    {domain.TechStackBackend, domain.TechStackFrontend, domain.TechStackFullStack},
		domain.DepartmentDesign:         {domain.TechStackUXUI},
		domain.DepartmentManagement:     {domain.TechStackMgmtNA},
		domain.DepartmentAdministration: {domain.TechStackAdminNA},
	}

	for i := 0; i < 27; i++ {
		dept := departments[i%len(departments)]
		stack := stacks[dept][i%len(stacks[dept])]
		s.employees.put(domain.Employee{
			ID:         uuid.NewString(),
			FirstName:  first[i%len(first)],
			LastName:   last[(i*3)%len(last)],
			Department: dept,
			Salary:     float64(1800 + (i*137)%2400),
			TechStack:  stack,
			IsEmployed: i%5 != 4,
		})
	}

	names := []string{"Atlas CRM", "Bistro POS", "Cargo Tracker", "Dental Booking", "Energy Monitor", "Fintech Wallet", "Green Route", "Hotel Suite", "Insight BI", "Jobs Board", "Kiosk Menu", "Lumen LMS"}
	statuses := []domain.ProjectStatus{domain.ProjectStatusActive, domain.ProjectStatusOnHold, domain.ProjectStatusInactive, domain.ProjectStatusCompleted}
	channels := []domain.SalesChannel{domain.SalesChannelOnline, domain.SalesChannelInPerson, domain.SalesChannelReferral, domain.SalesChannelOther}
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i, name := range names {
		start := base.AddDate(0, -(i*2 + 3), 0)
		typ := domain.ProjectTypeFixed
		if i%3 == 0 {
			typ = domain.ProjectTypeOnGoing
		}
		p := domain.Project{
			ID:              uuid.NewString(),
			Name:            name,
			Description:     name + " for a regional client",
			StartDate:       start,
			EndDate:         start.AddDate(0, 6+i%6, 0),
			ProjectType:     typ,
			HourlyRate:      float64(25 + i*5),
			ProjectValueBAM: float64(15000 + i*7250),
			SalesChannel:    channels[(i*7)%len(channels)],
			ProjectStatus:   statuses[i%len(statuses)],
		}
		for j := 0; j < 3; j++ {
			e := s.employees.rows[(i*3+j)%len(s.employees.rows)]
			p.Employees = append(p.Employees, domain.ProjectEmployee{
				Employee: domain.EmployeeRef{ID: e.ID, FirstName: e.FirstName, LastName: e.LastName},
				PartTime: j == 2,
			})
		}
		s.projects.put(p)
		s.projectSaved(p)
	}

	industries := []string{"Retail", "Healthcare", "Logistics", "Finance", "Hospitality"}
	invoiceStatuses := []domain.InvoiceStatus{domain.InvoiceStatusPaid, domain.InvoiceStatusSent, domain.InvoiceStatusNotSent}
	for i := 0; i < 18; i++ {
		hours := float64(40 + (i*23)%160)
		s.invoices.put(domain.Invoice{
			ID:               uuid.NewString(),
			Client:           names[i%len(names)] + " Ltd",
			IndustryType:     industries[i%len(industries)],
			TotalHoursBilled: hours,
			Amount:           hours * float64(25+(i%6)*5),
			InvoiceStatus:    invoiceStatuses[i%len(invoiceStatuses)],
		})
	}
}
