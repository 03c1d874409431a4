package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"staffdash/internal/ui/input/types"
)

// DrawerMode handles keys while a record is shown read-only
type DrawerMode struct{}

func NewDrawerMode() *DrawerMode {
	return &DrawerMode{}
}

func (m *DrawerMode) Name() string {
	return "drawer"
}

func (m *DrawerMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *DrawerMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *DrawerMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc", "q", "enter":
		return []types.Action{types.CloseDrawerAction{}}, true
	case "e":
		if ctx.IsAdmin() {
			return []types.Action{types.OpenDrawerAction{Kind: "edit", Index: -1}}, true
		}
	case "d":
		if ctx.IsAdmin() {
			return []types.Action{types.OpenDrawerAction{Kind: "delete", Index: -1}}, true
		}
	case "v":
		return []types.Action{types.ShowDetailAction{}}, true
	case "p":
		if ctx.CanExportPDF() {
			return []types.Action{types.ExportAction{Format: "pdf"}}, true
		}
	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true
	}
	return nil, true
}
