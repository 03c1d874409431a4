package modes

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"staffdash/internal/ui/input/types"
)

type NormalMode struct {
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyTab:
		return []types.Action{types.SwitchViewAction{Delta: 1}}, true

	case tea.KeyShiftTab:
		return []types.Action{types.SwitchViewAction{Delta: -1}}, true
	}

	// Everything below only makes sense on a list
	if !ctx.OnList() {
		switch msg.String() {
		case "r":
			return []types.Action{types.RefreshAction{}}, true
		case "?":
			return []types.Action{types.ToggleHelpAction{}}, true
		case "L":
			return []types.Action{types.LogoutAction{}}, true
		case "q":
			return []types.Action{types.QuitAction{Force: false}}, true
		}
		return nil, false
	}

	switch msg.Type {
	case tea.KeyUp:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyLeft, tea.KeyPgUp:
		return []types.Action{types.PageAction{Direction: "prev"}}, true

	case tea.KeyRight, tea.KeyPgDown:
		return []types.Action{types.PageAction{Direction: "next"}}, true

	case tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case tea.KeyEnd:
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case tea.KeyEnter:
		if ctx.TotalItems() > 0 {
			return []types.Action{types.OpenDrawerAction{Kind: "view", Index: -1}}, true
		}
		return nil, false

	case tea.KeySpace:
		if ctx.TotalItems() > 0 {
			return []types.Action{types.ToggleMarkAction{Index: -1}}, true
		}
		return nil, true

	case tea.KeyEsc:
		if ctx.MarkedCount() > 0 {
			return []types.Action{types.ClearMarksAction{}}, true
		}
		return nil, true
	}

	switch key := msg.String(); key {
	case "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case "h":
		return []types.Action{types.PageAction{Direction: "prev"}}, true

	case "l":
		return []types.Action{types.PageAction{Direction: "next"}}, true

	case "<":
		return []types.Action{types.PageAction{Direction: "first"}}, true

	case ">":
		return []types.Action{types.PageAction{Direction: "last"}}, true

	case "[":
		return []types.Action{types.TabAction{Delta: -1}}, true

	case "]":
		return []types.Action{types.TabAction{Delta: 1}}, true

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return []types.Action{types.SortAction{Column: int(key[0] - '1')}}, true

	case "+", "z":
		return []types.Action{types.CyclePageSizeAction{}}, true

	case "/":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch, Data: ctx.SearchTerm()}}, true

	case "a":
		if ctx.IsAdmin() {
			return []types.Action{types.OpenDrawerAction{Kind: "add", Index: -1}}, true
		}
		return nil, true

	case "e":
		if ctx.IsAdmin() && ctx.TotalItems() > 0 {
			return []types.Action{types.OpenDrawerAction{Kind: "edit", Index: -1}}, true
		}
		return nil, true

	case "d":
		if ctx.IsAdmin() && ctx.TotalItems() > 0 {
			return []types.Action{types.OpenDrawerAction{Kind: "delete", Index: -1}}, true
		}
		return nil, true

	case "r":
		return []types.Action{types.RefreshAction{}}, true

	case "x":
		return []types.Action{types.ExportAction{Format: "xlsx"}}, true

	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true

	case "L":
		return []types.Action{types.LogoutAction{}}, true

	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true

	case "g":
		if m.lastKeyWasG && time.Since(m.lastGTime) < 500*time.Millisecond {
			// gg - go to top (within timeout)
			m.lastKeyWasG = false
			return []types.Action{types.NavigateAction{Direction: "home"}}, true
		}
		m.lastKeyWasG = true
		m.lastGTime = time.Now()
		return nil, true

	case "G":
		m.lastKeyWasG = false
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	default:
		// Any other key cancels the 'g' prefix
		m.lastKeyWasG = false
	}

	return nil, false
}
