package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"staffdash/internal/ui/input/types"
)

// ConfirmMode answers the delete prompt
type ConfirmMode struct{}

func NewConfirmMode() *ConfirmMode {
	return &ConfirmMode{}
}

func (m *ConfirmMode) Name() string {
	return "delete-confirm"
}

func (m *ConfirmMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "y", "Y":
		return []types.Action{types.ConfirmAction{Accept: true}}, true
	case "esc", "n", "N":
		return []types.Action{types.ConfirmAction{Accept: false}}, true
	}

	// The prompt is modal
	return nil, true
}
