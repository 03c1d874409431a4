package ui

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"staffdash/internal/domain"
	"staffdash/internal/drawer"
	"staffdash/internal/eventbus"
	"staffdash/internal/export"
	inputtypes "staffdash/internal/ui/input/types"
	"staffdash/internal/ui/views"
)

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	log.Printf("processAction: %T", action)
	l := m.activeList()

	switch a := action.(type) {
	case inputtypes.NavigateAction:
		if l == nil {
			return nil
		}
		switch a.Direction {
		case "up":
			l.MoveCursor(-1)
		case "down":
			l.MoveCursor(1)
		case "home":
			l.SetCursor(0)
		case "end":
			l.SetCursor(l.Len() - 1)
		}

	case inputtypes.PageAction:
		if l == nil {
			return nil
		}
		switch a.Direction {
		case "next":
			return l.request(l.NextPage())
		case "prev":
			return l.request(l.PrevPage())
		case "first":
			return l.request(l.GoToPage(1))
		case "last":
			return l.request(l.GoToPage(l.Summary().LastPage))
		}

	case inputtypes.TabAction:
		if l == nil {
			return nil
		}
		m.viewport.Reset()
		if a.Delta < 0 {
			return l.request(l.PrevTab())
		}
		return l.request(l.NextTab())

	case inputtypes.SwitchViewAction:
		if !m.session.HasToken() {
			return nil
		}
		n := len(navItems)
		return m.switchView(((m.nav+a.Delta)%n + n) % n)

	case inputtypes.SortAction:
		if l == nil || a.Column < 0 || a.Column >= len(l.Columns()) {
			return nil
		}
		return l.request(l.SortBy(l.Columns()[a.Column].Key))

	case inputtypes.CyclePageSizeAction:
		if l == nil {
			return nil
		}
		cmd := l.request(l.CyclePageSize())
		m.pageSize = l.Query().PageSize
		m.publish(eventbus.ConfigChangedEvent{PageSize: m.pageSize, Token: m.session.Token()})
		return cmd

	case inputtypes.ToggleMarkAction:
		if l == nil {
			return nil
		}
		i := a.Index
		if i < 0 {
			i = l.Cursor()
		}
		l.ToggleMark(i)

	case inputtypes.ClearMarksAction:
		if l != nil {
			l.ClearMarks()
		}

	case inputtypes.OpenDrawerAction:
		return m.openDrawer(a.Kind, a.Index)

	case inputtypes.CloseDrawerAction:
		m.closeDrawer()

	case inputtypes.ConfirmAction:
		if a.Accept {
			return m.submitDrawer()
		}
		m.closeDrawer()

	case inputtypes.UpdateTextAction:
		if m.inputHandler.CurrentMode() == inputtypes.ModeForm && m.form != nil {
			m.form.set(a.Text)
		}

	case inputtypes.SubmitTextAction:
		if a.Mode == inputtypes.ModeSearch && l != nil {
			m.viewport.Reset()
			return l.request(l.Search(strings.TrimSpace(a.Text)))
		}

	case inputtypes.CancelTextAction:
		// Search keeps the term it had before editing

	case inputtypes.FormFocusAction:
		if m.form != nil {
			m.form.move(a.Delta)
			m.syncFormInput()
		}

	case inputtypes.FormCycleAction:
		if m.form != nil {
			m.form.cycle(a.Delta)
		}

	case inputtypes.FormSubmitAction:
		if m.form == nil {
			return nil
		}
		switch m.form.kind {
		case formLogin:
			return m.submitLogin()
		case formReset:
			return m.submitReset()
		default:
			return m.submitDrawer()
		}

	case inputtypes.FormCancelAction:
		if m.form == nil {
			return nil
		}
		switch m.form.kind {
		case formReset:
			return m.showLogin()
		case formDrawer:
			m.closeDrawer()
		}

	case inputtypes.RefreshAction:
		return m.refreshVisible(true)

	case inputtypes.ExportAction:
		if a.Format == "pdf" {
			return m.exportPDF()
		}
		return m.exportXLSX()

	case inputtypes.ShowDetailAction:
		return m.showPager(m.detailContent())

	case inputtypes.ToggleHelpAction:
		return m.showPager(RenderHelpContent())

	case inputtypes.LogoutAction:
		return m.logout("Signed out")

	case inputtypes.QuitAction:
		return tea.Quit
	}

	return nil
}

// handleMouse maps clicks and the wheel onto the same intents as the keys
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	mode := m.inputHandler.CurrentMode()
	if m.screen == screenLogin || m.screen == screenReset {
		return nil
	}
	if mode != inputtypes.ModeNormal && mode != inputtypes.ModeDrawer {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.processAction(inputtypes.NavigateAction{Direction: "up"})
	case tea.MouseButtonWheelDown:
		return m.processAction(inputtypes.NavigateAction{Direction: "down"})
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	// The drawer covers the right side of the list
	if m.drawers.IsOpen() && msg.X >= m.width-views.DrawerWidth {
		return nil
	}

	state := &views.ListState{}
	if m.screen == screenList {
		state = m.listState()
	}
	hit := views.HitTest(state, navItems, msg.X, msg.Y)
	l := m.activeList()

	switch hit.Kind {
	case views.HitNav:
		return m.switchView(hit.Index)
	case views.HitTab:
		m.viewport.Reset()
		return l.request(l.SelectTab(hit.Index))
	case views.HitHeader:
		return m.processAction(inputtypes.SortAction{Column: hit.Index})
	case views.HitCheckbox:
		// Checkbox clicks never select the row
		l.ToggleMark(hit.Index)
	case views.HitRow:
		l.SetCursor(hit.Index)
		return m.openDrawer("view", hit.Index)
	}
	return nil
}

// switchView moves to navItems[i], closing any drawer first
func (m *Model) switchView(i int) tea.Cmd {
	if m.drawers.IsOpen() {
		if !m.drawers.Close() {
			m.notify(drawer.ErrBusy.Error())
			return nil
		}
		m.form = nil
		m.setMode(inputtypes.ModeNormal)
	}
	if m.inputHandler.CurrentMode() != inputtypes.ModeNormal {
		m.setMode(inputtypes.ModeNormal)
	}

	m.nav = i
	m.viewport.Reset()
	if i == 0 {
		m.screen = screenHome
		return m.loadInfo()
	}
	m.screen = screenList
	l := m.activeList()
	return l.request(l.Load(false))
}

// openDrawer opens a drawer of kind for the row at index, -1 meaning the
// record already shown or the cursor row
func (m *Model) openDrawer(kind string, index int) tea.Cmd {
	l := m.activeList()
	if l == nil {
		return nil
	}

	var err error
	if kind == "add" {
		err = m.drawers.OpenAdd(l.Entity())
		if err == nil {
			l.ClearSelection()
		}
	} else {
		var rec domain.Record
		if index < 0 && m.drawers.IsOpen() && m.drawers.Current().Record != nil {
			rec = m.drawers.Current().Record
		} else {
			if index < 0 {
				index = l.Cursor()
			}
			r, ok := l.Record(index)
			if !ok {
				return nil
			}
			rec = r
			l.SelectRow(index)
		}

		switch kind {
		case "view":
			err = m.drawers.OpenView(l.Entity(), rec)
		case "edit":
			err = m.drawers.OpenEdit(l.Entity(), rec)
		case "delete":
			err = m.drawers.OpenDelete(l.Entity(), rec)
		}
	}
	if err != nil {
		m.notify(domain.UserMessage(err))
		return nil
	}
	m.addMarkedTeam()
	return m.enterDrawerMode()
}

// addMarkedTeam puts the employees marked on the employees list on the team
// of a project form
func (m *Model) addMarkedTeam() {
	draft, ok := m.drawers.Current().Draft.(*drawer.ProjectDraft)
	if !ok {
		return
	}
	employees := m.listFor(domain.EntityEmployees)
	if employees == nil {
		return
	}
	added := 0
	for _, rec := range employees.MarkedRecords() {
		if e, ok := rec.(domain.Employee); ok && draft.AddMember(e) {
			added++
		}
	}
	if added > 0 {
		m.notify(fmt.Sprintf("Added %d marked employees to the team", added))
	}
}

// enterDrawerMode puts the input handler in the mode the open drawer needs
func (m *Model) enterDrawerMode() tea.Cmd {
	d := m.drawers.Current()
	switch d.Kind {
	case drawer.KindAdd, drawer.KindEdit:
		m.form = newDrawerForm(d.Draft)
		m.setMode(inputtypes.ModeForm)
		m.syncFormInput()
		return textinput.Blink
	case drawer.KindDelete:
		m.form = nil
		m.setMode(inputtypes.ModeConfirm)
	default:
		m.form = nil
		m.setMode(inputtypes.ModeDrawer)
	}
	return nil
}

func (m *Model) closeDrawer() {
	if !m.drawers.Close() {
		return
	}
	if m.form != nil && m.form.kind == formDrawer {
		m.form = nil
	}
	m.setMode(inputtypes.ModeNormal)
}

// syncFormInput loads the focused field into the text input
func (m *Model) syncFormInput() {
	field, ok := m.form.focused()
	if !ok || len(field.Options) > 0 {
		m.inputHandler.SetText("", false)
		return
	}
	m.inputHandler.SetText(field.Value, m.form.isSecret(field.Key))
}

// submitDrawer validates the open drawer and runs its mutation
func (m *Model) submitDrawer() tea.Cmd {
	sub, ok := m.drawers.Prepare()
	if !ok {
		if m.form != nil && m.form.kind == formDrawer {
			m.form.errors = m.drawers.Current().Errors
		}
		return nil
	}
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		return mutationMsg{outcome: sub.Run(ctx, client)}
	}
}

// handleMutation applies a finished submission to the drawer and the list
func (m *Model) handleMutation(out drawer.Outcome) tea.Cmd {
	res := m.drawers.Complete(out)
	l := m.listFor(res.Entity)

	if res.Unauthorized {
		m.form = nil
		return m.logout(res.Notify)
	}
	m.notify(res.Notify)

	if res.Closed {
		if m.form != nil && m.form.kind == formDrawer {
			m.form = nil
		}
		m.setMode(inputtypes.ModeNormal)
	} else if m.form != nil && m.form.kind == formDrawer {
		m.form.errors = m.drawers.Current().Errors
	}

	if out.Err == nil {
		name := res.Name
		switch res.Kind {
		case drawer.KindAdd:
			m.notify("Created " + strings.TrimSuffix(string(res.Entity), "s"))
			m.publish(eventbus.RecordSavedEvent{Entity: res.Entity, ID: res.ID, Created: true})
		case drawer.KindEdit:
			m.notify("Saved " + name)
			m.publish(eventbus.RecordSavedEvent{Entity: res.Entity, ID: res.ID})
		case drawer.KindDelete:
			m.notify("Deleted " + name)
			m.publish(eventbus.RecordDeletedEvent{Entity: res.Entity, ID: res.ID, Name: name})
			if l != nil {
				l.Drop(res.ID)
			}
		}
	} else if domain.IsNotFound(out.Err) && l != nil && res.ID != "" {
		l.Drop(res.ID)
	}

	if res.Refetch && l != nil {
		return l.request(l.Load(true))
	}
	return nil
}

// showLogin replaces everything with the login form
func (m *Model) showLogin() tea.Cmd {
	m.screen = screenLogin
	m.form = newLoginForm()
	m.setMode(inputtypes.ModeForm)
	m.syncFormInput()
	return textinput.Blink
}

func (m *Model) showReset() tea.Cmd {
	m.screen = screenReset
	m.form = newResetForm()
	m.setMode(inputtypes.ModeForm)
	m.syncFormInput()
	return textinput.Blink
}

func (m *Model) submitLogin() tea.Cmd {
	f := m.form
	if f.busy {
		return nil
	}
	if errs := f.draft.Validate(); len(errs) > 0 {
		f.errors = errs
		f.message = ""
		return nil
	}
	f.errors = nil
	f.message = ""
	f.busy = true

	creds := f.draft.(*loginDraft).LoginForm
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		res, err := client.Login(ctx, creds.Email, creds.Password)
		return loginMsg{result: res, err: err}
	}
}

func (m *Model) handleLogin(msg loginMsg) tea.Cmd {
	if m.form == nil || m.form.kind != formLogin {
		return nil
	}
	m.form.busy = false
	if msg.err != nil {
		log.Printf("Login failed: %v", msg.err)
		m.form.message = domain.UserMessage(msg.err)
		return nil
	}

	m.session.Start(msg.result.Token, msg.result.User)
	m.publish(eventbus.SessionStartedEvent{Token: msg.result.Token, User: m.session.User()})
	m.publish(eventbus.ConfigChangedEvent{PageSize: m.pageSize, Token: msg.result.Token})

	m.form = nil
	m.setMode(inputtypes.ModeNormal)
	return m.switchView(0)
}

func (m *Model) submitReset() tea.Cmd {
	f := m.form
	if f.busy {
		return nil
	}
	if errs := f.draft.Validate(); len(errs) > 0 {
		f.errors = errs
		f.message = ""
		return nil
	}
	f.errors = nil
	f.message = ""
	f.busy = true

	password := f.draft.(*resetDraft).Password
	userID, token := m.opts.ResetUserID, m.opts.ResetToken
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		message, err := client.ResetPassword(ctx, userID, token, password)
		return resetMsg{message: message, err: err}
	}
}

// logout ends the session, forgets every loaded page and returns to the
// login form
func (m *Model) logout(reason string) tea.Cmd {
	log.Printf("Ending session: %s", reason)
	m.session.End()
	m.drawers.Close()

	// Requests still in flight belong to the old session
	m.cancel()
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.lists = m.newLists()
	m.retrying = make(map[domain.Entity]bool)
	m.info = domain.ProjectsInfo{}
	m.infoErr = ""
	m.infoLoading = false
	m.nav = 0

	m.publish(eventbus.SessionEndedEvent{Reason: reason})
	m.publish(eventbus.ConfigChangedEvent{PageSize: m.pageSize, Token: ""})
	m.notify(reason)
	return m.showLogin()
}

// exportXLSX writes the marked rows, or the displayed page, to the export
// directory
func (m *Model) exportXLSX() tea.Cmd {
	l := m.activeList()
	if l == nil {
		return nil
	}
	if !l.HasData() || l.Len() == 0 {
		m.notify("Nothing to export yet")
		return nil
	}

	entity := l.Entity()
	var buf bytes.Buffer
	n, err := l.WriteXLSX(&buf)
	if err != nil {
		return func() tea.Msg { return exportMsg{entity: entity, err: err} }
	}
	path := filepath.Join(m.config.UI.ExportDir, export.FileName(entity, "xlsx", m.opts.Now()))
	return writeExport(entity, path, buf.Bytes(), n)
}

// exportPDF renders the invoice shown in the drawer
func (m *Model) exportPDF() tea.Cmd {
	if !m.drawers.IsOpen() {
		return nil
	}
	inv, ok := m.drawers.Current().Record.(domain.Invoice)
	if !ok {
		return nil
	}

	now := m.opts.Now()
	var buf bytes.Buffer
	if err := export.WriteInvoicePDF(&buf, inv, now); err != nil {
		return func() tea.Msg { return exportMsg{entity: domain.EntityInvoices, err: err} }
	}
	path := filepath.Join(m.config.UI.ExportDir, export.FileName(domain.EntityInvoices, "pdf", now))
	return writeExport(domain.EntityInvoices, path, buf.Bytes(), 0)
}

func writeExport(entity domain.Entity, path string, data []byte, count int) tea.Cmd {
	return func() tea.Msg {
		if err := export.WriteFile(path, data); err != nil {
			return exportMsg{entity: entity, err: err}
		}
		log.Printf("Exported %s to %s", entity, path)
		return exportMsg{entity: entity, path: path, count: count}
	}
}

// showPager returns a command that shows content using ov pager
func (m *Model) showPager(content string) tea.Cmd {
	if m.program == nil || content == "" {
		return nil
	}
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := m.pager.Show(content)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return pagerMsg{err: err}
	}
}

// detailContent is the open record as plain text for the pager
func (m *Model) detailContent() string {
	if !m.drawers.IsOpen() {
		return ""
	}
	d := m.drawers.Current()
	l := m.listFor(d.Entity)
	if l == nil || d.Record == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(d.Name + "\n")
	b.WriteString(strings.Repeat("=", len([]rune(d.Name))) + "\n\n")
	for _, det := range l.Details(d.Record) {
		lines := strings.Split(det.Value, "\n")
		b.WriteString(fmt.Sprintf("%-14s %s\n", det.Label+":", lines[0]))
		for _, line := range lines[1:] {
			b.WriteString(fmt.Sprintf("%-14s %s\n", "", line))
		}
	}
	return b.String()
}
