package ui

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdash/internal/api"
	"staffdash/internal/auth"
	"staffdash/internal/config"
	"staffdash/internal/devapi"
	"staffdash/internal/domain"
	"staffdash/internal/drawer"
	"staffdash/internal/eventbus"
	"staffdash/internal/listing"
	inputtypes "staffdash/internal/ui/input/types"
)

var testSecret = []byte("ui-test")

// Commands slower than this are ticks and are dropped
const cmdTimeout = 500 * time.Millisecond

type harness struct {
	m       *Model
	store   *devapi.Store
	session *auth.Session
	cfg     *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := devapi.NewStore()
	store.Seed(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	_, err := store.AddUser(domain.User{Email: "admin@example.com", FirstName: "Ada", Role: domain.RoleAdmin}, "password1")
	require.NoError(t, err)

	srv := httptest.NewServer(devapi.NewServer(store, devapi.Options{Secret: testSecret, RequestsPerMinute: 100000}).Handler())
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.UI.ExportDir = t.TempDir()
	session := auth.NewSession()
	client := api.New(api.Options{BaseURL: srv.URL}, session)

	m := NewModel(nil, cfg, client, session, Options{})
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	return &harness{m: m, store: store, session: session, cfg: cfg}
}

// signIn starts a session directly, skipping the login form
func (h *harness) signIn(t *testing.T, role string) {
	t.Helper()
	user := domain.User{ID: "u-" + role, Email: role + "@example.com", FirstName: role, Role: role}
	token, err := auth.Sign(testSecret, user, time.Hour, time.Now())
	require.NoError(t, err)
	h.session.Start(token, user)
}

// collect runs cmd and returns the messages it produced in time
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		batch, ok := msg.(tea.BatchMsg)
		if !ok {
			return []tea.Msg{msg}
		}
		var (
			mu  sync.Mutex
			wg  sync.WaitGroup
			out []tea.Msg
		)
		for _, c := range batch {
			wg.Add(1)
			go func(c tea.Cmd) {
				defer wg.Done()
				msgs := collect(c)
				mu.Lock()
				out = append(out, msgs...)
				mu.Unlock()
			}(c)
		}
		wg.Wait()
		return out
	case <-time.After(cmdTimeout):
		return nil
	}
}

// drain feeds the results of cmd back into the model until nothing
// interesting is left
func (h *harness) drain(cmd tea.Cmd) {
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case pageMsg, loginMsg, resetMsg, mutationMsg, infoMsg, exportMsg:
			_, next := h.m.Update(msg)
			h.drain(next)
		}
	}
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd := h.m.Update(msg)
		h.drain(cmd)
	}
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.press(string(r))
	}
}

func TestStartsOnLoginWithoutSession(t *testing.T) {
	h := newHarness(t)
	h.m.Init()

	assert.Equal(t, screenLogin, h.m.screen)
	assert.Equal(t, inputtypes.ModeForm, h.m.inputHandler.CurrentMode())
	assert.Contains(t, h.m.View(), "Sign in")
}

func TestLoginRejectsBadInput(t *testing.T) {
	h := newHarness(t)
	h.m.Init()

	h.press("enter")
	assert.NotEmpty(t, h.m.form.errors["email"])
	assert.False(t, h.session.HasToken())

	h.typeText("admin@example.com")
	h.press("tab")
	h.typeText("wrong-password")
	h.press("enter")
	assert.Equal(t, screenLogin, h.m.screen)
	assert.NotEmpty(t, h.m.form.message)
}

func TestLoginShowsDashboard(t *testing.T) {
	h := newHarness(t)
	h.m.Init()

	h.typeText("admin@example.com")
	h.press("tab")
	h.typeText("password1")
	h.press("enter")

	require.True(t, h.session.HasToken())
	assert.Equal(t, screenHome, h.m.screen)
	assert.NotEmpty(t, h.m.info.SalesChannelPercentage)
	view := h.m.View()
	assert.Contains(t, view, "Welcome back, Ada")
	assert.Contains(t, view, "Sales channels")
}

func TestListLoadsAndPages(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, domain.RoleAdmin)

	h.press("tab")
	require.Equal(t, screenList, h.m.screen)
	l := h.m.activeList()
	require.True(t, l.HasData())
	assert.Equal(t, domain.EntityEmployees, l.Entity())
	assert.Equal(t, 10, l.Len())
	assert.Equal(t, pageSummary{First: 1, Last: 10, Total: 27, Page: 1, LastPage: 3}, l.Summary())

	h.press("l")
	assert.Equal(t, 2, l.Summary().Page)
	assert.Contains(t, h.m.View(), "Showing 11-20 of 27")

	h.press(">")
	assert.Equal(t, pageSummary{First: 21, Last: 27, Total: 27, Page: 3, LastPage: 3}, l.Summary())
}

func TestSearchAppliesOnEnter(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, domain.RoleAdmin)
	h.press("tab", "/")
	require.Equal(t, inputtypes.ModeSearch, h.m.inputHandler.CurrentMode())

	h.typeText("amina")
	// nothing is fetched while typing
	assert.Equal(t, 27, h.m.activeList().Summary().Total)

	h.press("enter")
	l := h.m.activeList()
	assert.Equal(t, "amina", l.Query().Search)
	assert.Equal(t, 2, l.Summary().Total)
	for i := 0; i < l.Len(); i++ {
		rec, ok := l.Record(i)
		require.True(t, ok)
		assert.Equal(t, "Amina", rec.(domain.Employee).FirstName)
	}
}

func TestStatusTabFilters(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, domain.RoleAdmin)
	h.press("tab", "]")

	l := h.m.activeList()
	assert.Equal(t, 1, l.ActiveTab())
	assert.Equal(t, "true", l.Query().Status)
	assert.Equal(t, 22, l.Summary().Total)
	assert.Equal(t, 1, l.Summary().Page)
}

func TestSortToggles(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, domain.RoleAdmin)
	h.press("tab")

	l := h.m.activeList()
	assert.Equal(t, "firstName", l.Query().SortField)

	// first name is already the sort column, so it flips
	h.press("1")
	assert.Equal(t, listing.Desc, l.Query().SortDirection)
	assert.Contains(t, h.m.View(), "First name ↓")
}

func TestViewDrawerAndClose(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, domain.RoleAdmin)
	h.press("tab", "j", "enter")

	require.True(t, h.m.drawers.IsOpen())
	assert.Equal(t, inputtypes.ModeDrawer, h.m.inputHandler.CurrentMode())
	rec, _ := h.m.activeList().Record(1)
	assert.Contains(t, h.m.View(), rec.DisplayName())

	h.press("esc")
	assert.False(t, h.m.drawers.IsOpen())
	assert.Equal(t, inputtypes.ModeNormal, h.m.inputHandler.CurrentMode())
}

func TestDeleteRemovesRecord(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, domain.RoleAdmin)
	h.press("tab")

	l := h.m.activeList()
	rec, ok := l.Record(0)
	require.True(t, ok)

	h.press("d")
	require.Equal(t, inputtypes.ModeConfirm, h.m.inputHandler.CurrentMode())
	assert.Contains(t, h.m.View(), "Are you sure you want to delete")

	h.press("y")
	assert.False(t, h.m.drawers.IsOpen())
	assert.Equal(t, inputtypes.ModeNormal, h.m.inputHandler.CurrentMode())
	assert.Equal(t, 26, l.Summary().Total)
	for i := 0; i < l.Len(); i++ {
		r, _ := l.Record(i)
		assert.NotEqual(t, rec.RecordID(), r.RecordID())
	}
}

func TestAddValidatesBeforeSubmitting(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, domain.RoleAdmin)
	h.press("tab", "a")
	require.Equal(t, inputtypes.ModeForm, h.m.inputHandler.CurrentMode())

	h.press("enter")
	assert.NotEmpty(t, h.m.form.errors["firstName"])
	assert.True(t, h.m.drawers.IsOpen())

	h.typeText("Zara")
	h.press("tab")
	h.typeText("Zukić")
	h.press("enter")

	assert.False(t, h.m.drawers.IsOpen())
	assert.Equal(t, 28, h.m.activeList().Summary().Total)
}

func TestViewerCannotMutate(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, "Viewer")
	h.press("tab", "a")
	assert.False(t, h.m.drawers.IsOpen())

	h.press("d")
	assert.False(t, h.m.drawers.IsOpen())
}

func TestMarkAndExport(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, domain.RoleAdmin)
	h.press("tab", "space", "j", "space")

	l := h.m.activeList()
	assert.Len(t, l.MarkedIDs(), 2)

	h.press("x")
	entries, err := os.ReadDir(h.cfg.UI.ExportDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".xlsx", filepath.Ext(entries[0].Name()))

	var toasts []string
	for _, tt := range h.m.toasts {
		toasts = append(toasts, tt.text)
	}
	assert.Contains(t, strings.Join(toasts, "\n"), "Saved 2 employees")

	// marks are dropped when the tab changes
	h.press("]")
	assert.Empty(t, l.MarkedIDs())
}

func TestExpiredTokenReturnsToLogin(t *testing.T) {
	h := newHarness(t)
	user := domain.User{ID: "u1", Email: "a@example.com", Role: domain.RoleAdmin}
	token, err := auth.Sign([]byte("some other secret"), user, time.Hour, time.Now())
	require.NoError(t, err)
	h.session.Start(token, user)

	h.press("tab")
	assert.False(t, h.session.HasToken())
	assert.Equal(t, screenLogin, h.m.screen)
}

func TestPageFromBeforeLogoutIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, domain.RoleAdmin)

	_, cmd := h.m.Update(tea.KeyMsg{Type: tea.KeyTab})
	msgs := collect(cmd)

	h.press("L")
	require.Equal(t, screenLogin, h.m.screen)

	for _, msg := range msgs {
		if _, ok := msg.(pageMsg); ok {
			h.m.Update(msg)
		}
	}
	for _, l := range h.m.lists {
		assert.False(t, l.HasData())
	}
}

func TestRelatedListRefetchesOnChange(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, domain.RoleAdmin)
	h.press("tab", "tab")

	projects := h.m.listFor(domain.EntityProjects)
	require.True(t, projects.HasData())

	cmd := h.m.handleEvent(eventbus.RecordSavedEvent{Entity: domain.EntityEmployees, ID: "e1"})
	assert.NotNil(t, cmd)
	assert.Nil(t, h.m.handleEvent(eventbus.RecordSavedEvent{Entity: domain.EntityInvoices, ID: "i1"}))
}

func toastText(h *harness) string {
	var out []string
	for _, tt := range h.m.toasts {
		out = append(out, tt.text)
	}
	return strings.Join(out, "\n")
}

// expire swaps the session token for one whose expiry has already passed
func (h *harness) expire(t *testing.T) {
	t.Helper()
	user := h.session.User()
	token, err := auth.Sign(testSecret, user, time.Minute, time.Now().Add(-2*time.Minute))
	require.NoError(t, err)
	h.session.Start(token, user)
	require.False(t, h.session.HasToken())
}

func TestExpiredSessionEndsOnNextRequest(t *testing.T) {
	tests := []struct {
		name string
		send func(h *harness)
	}{
		{"poll", func(h *harness) {
			_, cmd := h.m.Update(pollMsg{})
			h.drain(cmd)
		}},
		{"switch view", func(h *harness) { h.press("tab") }},
		{"refresh", func(h *harness) { h.press("r") }},
		{"status tab", func(h *harness) { h.press("]") }},
		{"retry", func(h *harness) {
			_, cmd := h.m.Update(retryMsg{entity: domain.EntityEmployees})
			h.drain(cmd)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.signIn(t, domain.RoleAdmin)
			h.press("tab")
			require.Equal(t, screenList, h.m.screen)
			require.True(t, h.m.activeList().HasData())

			h.expire(t)
			tt.send(h)

			assert.Equal(t, screenLogin, h.m.screen)
			assert.Empty(t, h.session.Token())
			assert.Equal(t, inputtypes.ModeForm, h.m.inputHandler.CurrentMode())
			assert.Contains(t, toastText(h), "expired")
		})
	}
}

func TestMarkedEmployeesJoinNewProject(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, domain.RoleAdmin)
	h.press("tab", "space", "j", "space")

	employees := h.m.activeList()
	first, _ := employees.Record(0)
	second, _ := employees.Record(1)

	h.press("tab", "a")
	require.Equal(t, domain.EntityProjects, h.m.activeList().Entity())
	require.True(t, h.m.drawers.IsOpen())

	draft, ok := h.m.drawers.Current().Draft.(*drawer.ProjectDraft)
	require.True(t, ok)
	require.Len(t, draft.Team, 2)
	assert.Equal(t, first.RecordID(), draft.Team[0].EmployeeID)
	assert.Equal(t, second.RecordID(), draft.Team[1].EmployeeID)
	assert.Contains(t, toastText(h), "Added 2 marked employees")

	draft.Set("name", "Zenith")
	draft.Set("description", "Booking engine")
	draft.Set("startDate", "2024-01-01")
	draft.Set("endDate", "2024-06-30")
	draft.Set("team:"+second.RecordID(), "part-time")
	h.press("enter")
	require.False(t, h.m.drawers.IsOpen(), h.m.drawers.Current().Errors)

	page, err := h.m.client.ListProjects(context.Background(), listing.Query{Search: "Zenith", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	team := page.Items[0].Employees
	require.Len(t, team, 2)
	assert.Equal(t, first.RecordID(), team[0].Employee.ID)
	assert.False(t, team[0].PartTime)
	assert.Equal(t, second.RecordID(), team[1].Employee.ID)
	assert.True(t, team[1].PartTime)
}
