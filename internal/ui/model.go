package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"staffdash/internal/api"
	"staffdash/internal/auth"
	"staffdash/internal/charts"
	"staffdash/internal/config"
	"staffdash/internal/domain"
	"staffdash/internal/drawer"
	"staffdash/internal/eventbus"
	"staffdash/internal/listing"
	"staffdash/internal/ui/input"
	inputtypes "staffdash/internal/ui/input/types"
	"staffdash/internal/ui/logic"
	"staffdash/internal/ui/views"
)

type screen int

const (
	screenLogin screen = iota
	screenReset
	screenHome
	screenList
)

// navItems are the views reachable with tab. Everything after Home is a list.
var navItems = []string{"Home", "Employees", "Projects", "Invoices"}

const (
	toastTTL  = 4 * time.Second
	maxToasts = 3
)

type toast struct {
	id   int
	text string
}

// Options tweaks how the model starts
type Options struct {
	ResetUserID string // start on the reset password screen
	ResetToken  string
	Now         func() time.Time
}

// Model represents the UI state
type Model struct {
	bus     eventbus.EventBus
	config  *config.Config
	client  *api.Client
	session *auth.Session
	opts    Options

	width       int
	height      int
	help        help.Model
	spinner     spinner.Model
	inPagerMode bool // tracks if we're currently in pager mode

	screen   screen
	nav      int
	pageSize int
	lists    []list
	drawers  *drawer.Manager
	form     *form // login, reset or the open add/edit drawer
	retrying map[domain.Entity]bool

	info        domain.ProjectsInfo
	infoSeq     int
	infoLoading bool
	infoErr     string

	toasts   []toast
	toastSeq int
	pending  []tea.Cmd // commands queued outside Update, flushed on return

	ctx    context.Context
	cancel context.CancelFunc

	renderer     *views.Renderer
	inputHandler *input.Handler
	viewport     *logic.Viewport
	pager        *Pager

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config, client *api.Client, session *auth.Session, opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := &Model{
		bus:          bus,
		config:       cfg,
		client:       client,
		session:      session,
		opts:         opts,
		help:         help.New(),
		spinner:      sp,
		pageSize:     cfg.List.PageSize,
		retrying:     make(map[domain.Entity]bool),
		renderer:     views.NewRenderer(),
		inputHandler: input.New(),
		viewport:     logic.NewViewport(20), // Will be updated on first WindowSizeMsg
		pager:        NewPager(),
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.lists = m.newLists()

	m.drawers = drawer.NewManager(session)
	m.drawers.OnClose(func() {
		for _, l := range m.lists {
			l.ClearSelection()
		}
	})
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
}

func (m *Model) newLists() []list {
	sizes := m.config.List.PageSizeOptions
	notify := listing.NotifyFunc(m.notify)

	employees := listing.NewSource[domain.Employee](m.client.Employees(), m.session, notify)
	employees.SetHooks(publishHooks[domain.Employee](m, domain.EntityEmployees))
	projects := listing.NewSource[domain.Project](m.client.Projects(), m.session, notify)
	projects.SetHooks(publishHooks[domain.Project](m, domain.EntityProjects))
	invoices := listing.NewSource[domain.Invoice](m.client.Invoices(), m.session, notify)
	invoices.SetHooks(publishHooks[domain.Invoice](m, domain.EntityInvoices))

	return []list{
		newEmployeeList(m.ctx, employees, listing.Defaults{SortField: "firstName", SortDirection: listing.Asc, PageSize: m.pageSize}, sizes),
		newProjectList(m.ctx, projects, listing.Defaults{SortField: "startDate", SortDirection: listing.Desc, PageSize: m.pageSize}, sizes),
		newInvoiceList(m.ctx, invoices, listing.Defaults{SortField: "client", SortDirection: listing.Asc, PageSize: m.pageSize}, sizes),
	}
}

// publishHooks forwards applied pages and distinct failures to the bus
func publishHooks[T any](m *Model, entity domain.Entity) listing.Hooks[T] {
	return listing.Hooks[T]{
		Loaded: func(t listing.Ticket, p listing.Page[T]) {
			m.publish(eventbus.PageLoadedEvent{Entity: entity, Key: string(t.Key), Total: p.Total})
		},
		Failed: func(t listing.Ticket, msg string) {
			log.Printf("Fetching %s failed: %s", entity, msg)
			m.publish(eventbus.FetchFailedEvent{Entity: entity, Key: string(t.Key), Message: msg})
		},
	}
}

func (m *Model) publish(e eventbus.DomainEvent) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}

// notify shows a transient message in the footer
func (m *Model) notify(text string) {
	if text == "" {
		return
	}
	m.toastSeq++
	id := m.toastSeq
	m.toasts = append(m.toasts, toast{id: id, text: text})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
	m.pending = append(m.pending, tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	}))
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.schedulePoll()}
	switch {
	case m.opts.ResetToken != "":
		cmds = append(cmds, m.showReset())
	case m.session.HasToken():
		cmds = append(cmds, m.switchView(0))
	default:
		cmds = append(cmds, m.showLogin())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.update(msg)
	if len(m.pending) == 0 {
		return model, cmd
	}
	cmds := append(m.pending, cmd)
	m.pending = nil
	return model, tea.Batch(cmds...)
}

func (m *Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.SetHeight(views.VisibleRows(msg.Height))
		m.followCursor()
		return m, nil

	case tea.KeyMsg:
		if m.inPagerMode {
			return m, nil
		}
		// Sources refuse to fetch once the token lapses, so no key would
		// reach the server to find out
		if cmd := m.expireSession(); cmd != nil {
			return m, cmd
		}

		// Handle input through the handler
		actions, cmd := m.inputHandler.HandleKey(msg, m.inputContext())

		// Process actions
		cmds := []tea.Cmd{cmd}
		for _, action := range actions {
			cmds = append(cmds, m.processAction(action))
		}
		m.followCursor()
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if m.inPagerMode {
			return m, nil
		}
		if cmd := m.expireSession(); cmd != nil {
			return m, cmd
		}
		cmd := m.handleMouse(msg)
		m.followCursor()
		return m, cmd

	default:
		// Non-keyboard messages also reach the text input for cursor blinking
		cmd := m.inputHandler.Update(msg)
		model, other := m.handleNonKeyboardMsg(msg)
		return model, tea.Batch(cmd, other)
	}
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.FocusMsg:
		// Refetch on focus, joining any identical request already in flight
		return m, m.refreshVisible(false)

	case pageMsg:
		if msg.list != m.listFor(msg.entity) {
			// Issued before the lists were rebuilt by a logout
			return m, nil
		}
		if !msg.apply() {
			return m, nil
		}
		m.followCursor()
		if msg.err == nil {
			delete(m.retrying, msg.entity)
			return m, nil
		}
		switch {
		case domain.IsUnauthorized(msg.err) && m.session.Token() != "":
			return m, m.logout(domain.UserMessage(msg.err))
		case domain.IsTransport(msg.err):
			return m, m.scheduleRetry(msg.entity)
		}
		return m, nil

	case retryMsg:
		delete(m.retrying, msg.entity)
		if cmd := m.expireSession(); cmd != nil {
			return m, cmd
		}
		l := m.listFor(msg.entity)
		if l == nil || !m.session.HasToken() {
			return m, nil
		}
		return m, l.request(l.Load(false))

	case pollMsg:
		return m, tea.Batch(m.schedulePoll(), m.refreshVisible(false))

	case infoMsg:
		if msg.seq != m.infoSeq {
			return m, nil
		}
		m.infoLoading = false
		if msg.err != nil {
			if domain.IsUnauthorized(msg.err) && m.session.Token() != "" {
				return m, m.logout(domain.UserMessage(msg.err))
			}
			log.Printf("Loading dashboard numbers failed: %v", msg.err)
			m.infoErr = domain.UserMessage(msg.err)
			return m, nil
		}
		m.info = msg.info
		m.infoErr = ""
		return m, nil

	case loginMsg:
		return m, m.handleLogin(msg)

	case resetMsg:
		if m.form == nil || m.form.kind != formReset {
			return m, nil
		}
		m.form.busy = false
		if msg.err != nil {
			log.Printf("Password reset failed: %v", msg.err)
			m.form.message = domain.UserMessage(msg.err)
			return m, nil
		}
		text := msg.message
		if text == "" {
			text = "Password changed, you can sign in now"
		}
		m.notify(text)
		return m, m.showLogin()

	case mutationMsg:
		return m, m.handleMutation(msg.outcome)

	case exportMsg:
		switch {
		case msg.err != nil:
			log.Printf("Export of %s failed: %v", msg.entity, msg.err)
			m.notify("Export failed: " + msg.err.Error())
		case msg.count > 0:
			m.notify(fmt.Sprintf("Saved %d %s to %s", msg.count, msg.entity, msg.path))
		default:
			m.notify("Saved " + msg.path)
		}
		return m, nil

	case toastExpiredMsg:
		for i, t := range m.toasts {
			if t.id == msg.id {
				m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
				break
			}
		}
		return m, nil

	case pagerMsg:
		if msg.err != nil {
			// Pager failed: log only
			log.Printf("Pager failed: %v", msg.err)
		}
		return m, nil

	case pauseRenderingMsg:
		// Signal that rendering should be paused for external pager
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		// Bubble Tea's RestoreTerminal() handles the actual resuming
		m.inPagerMode = false
		return m, nil

	case EventMsg:
		return m, m.handleEvent(msg.Event)
	}
	return m, nil
}

// handleEvent reacts to changes published elsewhere on the bus
func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	var entity domain.Entity
	switch e := event.(type) {
	case eventbus.RecordSavedEvent:
		entity = e.Entity
	case eventbus.RecordDeletedEvent:
		entity = e.Entity
	default:
		return nil
	}

	// Employees and projects embed each other, so a change to one makes the
	// other's loaded page stale
	related := map[domain.Entity]domain.Entity{
		domain.EntityEmployees: domain.EntityProjects,
		domain.EntityProjects:  domain.EntityEmployees,
	}
	l := m.listFor(related[entity])
	if l == nil || !l.HasData() {
		return nil
	}
	return l.request(l.Load(true))
}

func (m *Model) scheduleRetry(entity domain.Entity) tea.Cmd {
	if m.retrying[entity] || !m.session.HasToken() {
		return nil
	}
	m.retrying[entity] = true
	return tea.Tick(m.config.List.RetryInterval.Duration, func(time.Time) tea.Msg {
		return retryMsg{entity: entity}
	})
}

func (m *Model) schedulePoll() tea.Cmd {
	return tea.Tick(m.config.List.PollInterval.Duration, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

// expireSession logs out when the token's expiry has passed. It returns nil
// while the session is usable or already ended.
func (m *Model) expireSession() tea.Cmd {
	if m.session.Token() == "" || m.session.HasToken() {
		return nil
	}
	return m.logout("Session expired, please sign in again")
}

// refreshVisible reloads whatever is on screen
func (m *Model) refreshVisible(force bool) tea.Cmd {
	if cmd := m.expireSession(); cmd != nil {
		return cmd
	}
	if !m.session.HasToken() {
		return nil
	}
	switch m.screen {
	case screenHome:
		return m.loadInfo()
	case screenList:
		l := m.activeList()
		return l.request(l.Load(force))
	}
	return nil
}

func (m *Model) loadInfo() tea.Cmd {
	if !m.config.UI.ShowCharts || !m.session.HasToken() {
		return nil
	}
	m.infoSeq++
	seq := m.infoSeq
	m.infoLoading = true
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		info, err := client.ProjectsInfo(ctx)
		return infoMsg{seq: seq, info: info, err: err}
	}
}

func (m *Model) activeList() list {
	if m.screen != screenList || m.nav < 1 || m.nav > len(m.lists) {
		return nil
	}
	return m.lists[m.nav-1]
}

func (m *Model) listFor(entity domain.Entity) list {
	for _, l := range m.lists {
		if l.Entity() == entity {
			return l
		}
	}
	return nil
}

func (m *Model) followCursor() {
	if l := m.activeList(); l != nil {
		m.viewport.Follow(l.Cursor(), l.Len())
	}
}

func (m *Model) setMode(mode inputtypes.Mode) {
	m.inputHandler.SetMode(mode, "", m.inputContext())
}

// inputContext snapshots what the input modes need to know
func (m *Model) inputContext() *input.ModelContext {
	ctx := &input.ModelContext{
		Admin:        m.session.IsAdmin(),
		FieldOptions: m.form.hasOptions(),
	}
	if l := m.activeList(); l != nil {
		ctx.List = true
		ctx.Index = l.Cursor()
		ctx.Items = l.Len()
		ctx.Marked = len(l.MarkedIDs())
		ctx.Search = l.Query().Search
	}
	if m.drawers.IsOpen() {
		d := m.drawers.Current()
		_, invoice := d.Record.(domain.Invoice)
		ctx.InvoiceShown = invoice && d.Kind == drawer.KindView
	}
	return ctx
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}
	return m.renderer.Render(m.viewState())
}

func (m *Model) viewState() views.ViewState {
	ctx := m.inputContext()
	standalone := m.screen == screenLogin || m.screen == screenReset

	state := views.ViewState{
		Width:     m.width,
		Height:    m.height,
		Nav:       navItems,
		ActiveNav: m.nav,
		HelpLine:  m.help.ShortHelpView(helpBindings(m.inputHandler.CurrentMode(), ctx, standalone)),
	}
	for _, t := range m.toasts {
		state.Toasts = append(state.Toasts, t.text)
	}

	if standalone {
		state.Form = m.formState()
		return state
	}

	if u := m.session.User(); u.ID != "" || u.Email != "" {
		name := strings.TrimSpace(u.FirstName + " " + u.LastName)
		if name == "" {
			name = u.Email
		}
		if u.Role != "" {
			name += " (" + u.Role + ")"
		}
		state.User = name
	}

	switch m.screen {
	case screenHome:
		state.Home = m.homeState()
	case screenList:
		state.List = m.listState()
		if l := m.activeList(); l.HasData() && l.Loading() {
			state.Indicators = append(state.Indicators, m.spinner.View()+" refreshing")
		}
	}
	if len(m.retrying) > 0 {
		state.Indicators = append(state.Indicators, "offline, retrying")
	}

	if m.drawers.IsOpen() {
		d := m.drawers.Current()
		if d.Kind == drawer.KindDelete {
			title, desc := drawer.DeletePrompt(d.Name)
			if d.Message != "" {
				desc += "\n\n" + d.Message
			}
			state.Confirm = &views.ConfirmState{
				Title:       title,
				Description: desc,
				Submitting:  m.drawers.State() == drawer.StateSubmitting,
			}
		} else {
			state.Drawer = m.drawerState(d)
		}
	}
	return state
}

func (m *Model) textInputView() string {
	if ti := m.inputHandler.TextInput(); ti != nil {
		return ti.View()
	}
	return ""
}

func (m *Model) formState() *views.FormState {
	if m.form == nil {
		return &views.FormState{Title: "staffdash"}
	}
	return &views.FormState{
		Title:    m.form.title,
		Subtitle: m.form.subtitle,
		Fields:   m.form.fieldStates(m.form.errors, m.textInputView()),
		Message:  m.form.message,
		Busy:     m.form.busy,
	}
}

func (m *Model) drawerState(d *drawer.Drawer) *views.DrawerState {
	ds := &views.DrawerState{
		Message:    d.Message,
		Submitting: m.drawers.State() == drawer.StateSubmitting,
	}
	l := m.listFor(d.Entity)
	singular := strings.TrimSuffix(l.Title(), "s")

	switch d.Kind {
	case drawer.KindView:
		ds.Title = d.Name
		ds.Details = l.Details(d.Record)
	case drawer.KindAdd:
		ds.Title = "Add " + strings.ToLower(singular)
	case drawer.KindEdit:
		ds.Title = "Edit " + d.Name
	}
	if m.form != nil && m.form.kind == formDrawer {
		ds.Fields = m.form.fieldStates(d.Errors, m.textInputView())
	}
	return ds
}

func (m *Model) listState() *views.ListState {
	l := m.activeList()
	q := l.Query()

	cols := l.Columns()
	vc := make([]views.Column, len(cols))
	for i, c := range cols {
		vc[i] = views.Column{Title: c.Title, Width: c.Width, Sortable: c.Sortable, Status: statusColumns[c.Key]}
		if c.Key == q.SortField {
			vc[i].Arrow = "↑"
			if q.SortDirection == listing.Desc {
				vc[i].Arrow = "↓"
			}
		}
	}
	tabs := make([]string, len(l.Tabs()))
	for i, t := range l.Tabs() {
		tabs[i] = t.Label
	}

	sum := l.Summary()
	s := &views.ListState{
		Entity:     strings.ToLower(l.Title()),
		Tabs:       tabs,
		ActiveTab:  l.ActiveTab(),
		Columns:    vc,
		Rows:       l.ViewRows(),
		Offset:     m.viewport.Offset(),
		Visible:    m.viewport.Height(),
		Search:     q.Search,
		Searching:  m.inputHandler.CurrentMode() == inputtypes.ModeSearch,
		SearchView: m.textInputView(),
		FirstLoad:  !l.HasData() && l.Loading(),
		Refreshing: l.HasData() && l.Loading(),
		Spinner:    m.spinner.View(),
		First:      sum.First,
		Last:       sum.Last,
		Total:      sum.Total,
		Page:       sum.Page,
		LastPage:   sum.LastPage,
		PageSize:   q.PageSize,
		PageSizes:  l.PageSizeOptions(),
		Marked:     len(l.MarkedIDs()),
	}
	if l.Status() == listing.StatusError && l.Err() != nil {
		s.Stale = domain.UserMessage(l.Err())
	}
	return s
}

func (m *Model) homeState() *views.HomeState {
	u := m.session.User()
	name := u.FirstName
	if name == "" {
		name = u.Email
	}
	h := &views.HomeState{
		Greeting: "Welcome back, " + name,
		Loading:  m.infoLoading,
		Spinner:  m.spinner.View(),
		Err:      m.infoErr,
	}
	if !m.config.UI.ShowCharts {
		h.Err = "Charts are turned off (ui.show_charts)"
		return h
	}

	width := m.width / 3
	if width < 10 {
		width = 10
	}
	channels := charts.SalesChannels(m.info)
	if charts.HasData(channels) {
		h.Channels = bars(channels, width)
		h.Shares = charts.Shares(channels, width*2)
	}
	scope := charts.ProjectScope(m.info)
	if charts.HasData(scope) {
		h.Scope = bars(scope, width)
	}
	return h
}

func bars(points []charts.Point, width int) []views.Bar {
	widths := charts.Scale(points, width)
	total := charts.Total(points)
	out := make([]views.Bar, len(points))
	for i, p := range points {
		out[i] = views.Bar{
			Label:   p.Label,
			Value:   fmt.Sprintf("%g", p.Value),
			Percent: charts.Percent(p, total),
			Width:   widths[i],
		}
	}
	return out
}
