package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdash/internal/drawer"
)

func TestFormMoveWraps(t *testing.T) {
	f := newLoginForm()
	assert.Equal(t, 0, f.focus)

	f.move(1)
	assert.Equal(t, 1, f.focus)
	f.move(1)
	assert.Equal(t, 0, f.focus)
	f.move(-1)
	assert.Equal(t, 1, f.focus)
}

func TestFormSetSkipsChoiceFields(t *testing.T) {
	f := newDrawerForm(drawer.NewEmployeeDraft())
	f.errors = drawer.FieldErrors{"firstName": "is required"}

	f.set("Ana")
	assert.Equal(t, "Ana", f.draft.(*drawer.EmployeeDraft).FirstName)
	assert.NotContains(t, f.errors, "firstName")

	// department
	f.focus = 2
	require.True(t, f.hasOptions())
	f.set("Nonsense")
	assert.Equal(t, "Development", f.draft.(*drawer.EmployeeDraft).Department)
}

func TestFormCycle(t *testing.T) {
	f := newDrawerForm(drawer.NewEmployeeDraft())
	f.focus = 2

	f.cycle(1)
	assert.Equal(t, "Design", f.draft.(*drawer.EmployeeDraft).Department)
	f.cycle(1)
	assert.Equal(t, "Administration", f.draft.(*drawer.EmployeeDraft).Department)
	f.cycle(-1)
	assert.Equal(t, "Design", f.draft.(*drawer.EmployeeDraft).Department)

	// text fields do not cycle
	f.focus = 0
	f.cycle(1)
	assert.Equal(t, "", f.draft.(*drawer.EmployeeDraft).FirstName)
}

func TestFieldStatesMaskSecrets(t *testing.T) {
	f := newLoginForm()
	f.draft.Set("email", "ana@example.com")
	f.draft.Set("password", "hunter22")
	f.focus = 0

	states := f.fieldStates(drawer.FieldErrors{"password": "is required"}, "typed")
	require.Len(t, states, 2)
	assert.True(t, states[0].Focused)
	assert.Equal(t, "typed", states[0].Value)
	assert.Equal(t, "••••••••", states[1].Value)
	assert.Equal(t, "is required", states[1].Error)
}

func TestNilFormIsSafe(t *testing.T) {
	var f *form
	assert.Nil(t, f.fields())
	assert.False(t, f.hasOptions())
	_, ok := f.focused()
	assert.False(t, ok)
}
