package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdash/internal/ui/input/types"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func listContext() *ModelContext {
	return &ModelContext{Items: 5, List: true, Admin: true}
}

func TestNormalModeNavigation(t *testing.T) {
	h := New()
	ctx := listContext()

	actions, _ := h.HandleKey(runes("j"), ctx)
	assert.Equal(t, []types.Action{types.NavigateAction{Direction: "down"}}, actions)

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyRight}, ctx)
	assert.Equal(t, []types.Action{types.PageAction{Direction: "next"}}, actions)

	actions, _ = h.HandleKey(runes("]"), ctx)
	assert.Equal(t, []types.Action{types.TabAction{Delta: 1}}, actions)

	actions, _ = h.HandleKey(runes("2"), ctx)
	assert.Equal(t, []types.Action{types.SortAction{Column: 1}}, actions)

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyTab}, ctx)
	assert.Equal(t, []types.Action{types.SwitchViewAction{Delta: 1}}, actions)
}

func TestNormalModeGG(t *testing.T) {
	h := New()
	ctx := listContext()

	actions, _ := h.HandleKey(runes("g"), ctx)
	assert.Empty(t, actions)
	actions, _ = h.HandleKey(runes("g"), ctx)
	assert.Equal(t, []types.Action{types.NavigateAction{Direction: "home"}}, actions)
}

func TestNormalModeAdminOnlyKeys(t *testing.T) {
	h := New()
	ctx := listContext()

	actions, _ := h.HandleKey(runes("a"), ctx)
	assert.Equal(t, []types.Action{types.OpenDrawerAction{Kind: "add", Index: -1}}, actions)

	ctx.Admin = false
	for _, k := range []string{"a", "e", "d"} {
		actions, _ = h.HandleKey(runes(k), ctx)
		assert.Empty(t, actions, "key %s", k)
	}
}

func TestNormalModeEmptyList(t *testing.T) {
	h := New()
	ctx := listContext()
	ctx.Items = 0

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	assert.Empty(t, actions)
	actions, _ = h.HandleKey(runes("e"), ctx)
	assert.Empty(t, actions)
}

func TestNormalModeOffList(t *testing.T) {
	h := New()
	ctx := &ModelContext{}

	actions, _ := h.HandleKey(runes("j"), ctx)
	assert.Empty(t, actions)

	actions, _ = h.HandleKey(runes("r"), ctx)
	assert.Equal(t, []types.Action{types.RefreshAction{}}, actions)
}

func TestEscClearsMarksOnlyWhenMarked(t *testing.T) {
	h := New()
	ctx := listContext()

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	assert.Empty(t, actions)

	ctx.Marked = 2
	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	assert.Equal(t, []types.Action{types.ClearMarksAction{}}, actions)
}

func TestSearchModeTypesAndSubmits(t *testing.T) {
	h := New()
	ctx := listContext()
	ctx.Search = "an"

	_, cmd := h.HandleKey(runes("/"), ctx)
	assert.NotNil(t, cmd)
	assert.Equal(t, types.ModeSearch, h.CurrentMode())
	require.NotNil(t, h.TextInput())
	assert.Equal(t, "an", h.TextInput().Value())

	actions, _ := h.HandleKey(runes("a"), ctx)
	assert.Equal(t, []types.Action{types.UpdateTextAction{Text: "ana"}}, actions)

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	require.NotEmpty(t, actions)
	assert.Equal(t, types.SubmitTextAction{Text: "ana", Mode: types.ModeSearch}, actions[0])
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
	assert.Nil(t, h.TextInput())
}

func TestSearchModeCancel(t *testing.T) {
	h := New()
	ctx := listContext()

	h.HandleKey(runes("/"), ctx)
	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	require.NotEmpty(t, actions)
	assert.Equal(t, types.CancelTextAction{}, actions[0])
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestDrawerMode(t *testing.T) {
	h := New()
	ctx := listContext()
	h.SetMode(types.ModeDrawer, "", ctx)

	actions, _ := h.HandleKey(runes("e"), ctx)
	assert.Equal(t, []types.Action{types.OpenDrawerAction{Kind: "edit", Index: -1}}, actions)

	actions, _ = h.HandleKey(runes("p"), ctx)
	assert.Empty(t, actions)

	ctx.InvoiceShown = true
	actions, _ = h.HandleKey(runes("p"), ctx)
	assert.Equal(t, []types.Action{types.ExportAction{Format: "pdf"}}, actions)

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	assert.Equal(t, []types.Action{types.CloseDrawerAction{}}, actions)

	// keys the drawer does not know are swallowed
	actions, _ = h.HandleKey(runes("j"), ctx)
	assert.Empty(t, actions)
}

func TestConfirmMode(t *testing.T) {
	h := New()
	ctx := listContext()
	h.SetMode(types.ModeConfirm, "", ctx)

	actions, _ := h.HandleKey(runes("y"), ctx)
	assert.Equal(t, []types.Action{types.ConfirmAction{Accept: true}}, actions)

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	assert.Equal(t, []types.Action{types.ConfirmAction{Accept: false}}, actions)

	actions, _ = h.HandleKey(runes("q"), ctx)
	assert.Empty(t, actions)
}

func TestFormMode(t *testing.T) {
	h := New()
	ctx := listContext()
	h.SetMode(types.ModeForm, "Ana", ctx)
	assert.Equal(t, "Ana", h.TextInput().Value())

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyTab}, ctx)
	assert.Equal(t, []types.Action{types.FormFocusAction{Delta: 1}}, actions)

	actions, _ = h.HandleKey(runes("s"), ctx)
	assert.Equal(t, []types.Action{types.UpdateTextAction{Text: "Anas"}}, actions)

	ctx.FieldOptions = true
	actions, _ = h.HandleKey(runes("l"), ctx)
	assert.Equal(t, []types.Action{types.FormCycleAction{Delta: 1}}, actions)
	actions, _ = h.HandleKey(runes("x"), ctx)
	assert.Empty(t, actions)
	assert.Equal(t, "Anas", h.TextInput().Value())

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	assert.Equal(t, []types.Action{types.FormSubmitAction{}}, actions)
	assert.Equal(t, types.ModeForm, h.CurrentMode())
}

func TestSetTextAndReset(t *testing.T) {
	h := New()
	ctx := listContext()
	h.SetMode(types.ModeForm, "", ctx)

	h.SetText("secret", true)
	assert.Equal(t, "secret", h.TextInput().Value())

	h.Reset()
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
	assert.Nil(t, h.TextInput())
}
