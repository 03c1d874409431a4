package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"staffdash/internal/ui/input/types"
)

// FormMode edits a multi-field form one field at a time. The shared text
// input always holds the focused field; choice fields cycle instead of
// accepting typed text.
type FormMode struct {
	TextInputMode
}

func NewFormMode(ti *textinput.Model) *FormMode {
	return &FormMode{
		TextInputMode: NewTextInputMode(types.ModeForm, "form", ti),
	}
}

func (m *FormMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc":
		return []types.Action{types.FormCancelAction{}}, true
	case "enter", "ctrl+s":
		return []types.Action{types.FormSubmitAction{}}, true
	case "tab", "down":
		return []types.Action{types.FormFocusAction{Delta: 1}}, true
	case "shift+tab", "up":
		return []types.Action{types.FormFocusAction{Delta: -1}}, true
	}

	if ctx.FocusedFieldHasOptions() {
		switch msg.String() {
		case "left", "h":
			return []types.Action{types.FormCycleAction{Delta: -1}}, true
		case "right", "l", " ":
			return []types.Action{types.FormCycleAction{Delta: 1}}, true
		}
		// Choice fields ignore typing
		return nil, true
	}

	return nil, false
}
