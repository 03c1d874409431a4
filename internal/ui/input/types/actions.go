package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// PageAction moves between result pages
type PageAction struct {
	Direction string // "next", "prev", "first", "last"
}

func (a PageAction) Type() string { return "page" }

// TabAction switches the status tab of the current list
type TabAction struct {
	Delta int
}

func (a TabAction) Type() string { return "tab" }

// SwitchViewAction moves between home and the three lists
type SwitchViewAction struct {
	Delta int
}

func (a SwitchViewAction) Type() string { return "switch_view" }

// SortAction sorts by the column at Column (0-based)
type SortAction struct {
	Column int
}

func (a SortAction) Type() string { return "sort" }

type CyclePageSizeAction struct{}

func (a CyclePageSizeAction) Type() string { return "cycle_page_size" }

// Selection actions
type ToggleMarkAction struct {
	Index int // -1 for current
}

func (a ToggleMarkAction) Type() string { return "toggle_mark" }

type ClearMarksAction struct{}

func (a ClearMarksAction) Type() string { return "clear_marks" }

// Drawer actions
type OpenDrawerAction struct {
	Kind  string // "view", "add", "edit", "delete"
	Index int    // -1 for current
}

func (a OpenDrawerAction) Type() string { return "open_drawer" }

type CloseDrawerAction struct{}

func (a CloseDrawerAction) Type() string { return "close_drawer" }

type ConfirmAction struct {
	Accept bool
}

func (a ConfirmAction) Type() string { return "confirm" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data string // Optional initial text for text modes
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Form actions
type FormFocusAction struct {
	Delta int
}

func (a FormFocusAction) Type() string { return "form_focus" }

type FormCycleAction struct {
	Delta int
}

func (a FormCycleAction) Type() string { return "form_cycle" }

type FormSubmitAction struct{}

func (a FormSubmitAction) Type() string { return "form_submit" }

type FormCancelAction struct{}

func (a FormCancelAction) Type() string { return "form_cancel" }

// Command actions
type RefreshAction struct{}

func (a RefreshAction) Type() string { return "refresh" }

type ExportAction struct {
	Format string // "xlsx" or "pdf"
}

func (a ExportAction) Type() string { return "export" }

type ShowDetailAction struct{}

func (a ShowDetailAction) Type() string { return "show_detail" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type LogoutAction struct{}

func (a LogoutAction) Type() string { return "logout" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
