package ui

import (
	"staffdash/internal/drawer"
	"staffdash/internal/ui/views"
)

type formKind int

const (
	formLogin formKind = iota
	formReset
	formDrawer
)

// form tracks focus over the fields of a draft. The focused field is edited
// through the shared text input; choice fields cycle through their options.
type form struct {
	kind     formKind
	title    string
	subtitle string
	draft    drawer.Draft
	focus    int
	secret   map[string]bool
	errors   drawer.FieldErrors
	message  string
	busy     bool
}

func newLoginForm() *form {
	return &form{
		kind:     formLogin,
		title:    "Sign in",
		subtitle: "Use your staffdash account",
		draft:    &loginDraft{},
		secret:   map[string]bool{"password": true},
	}
}

func newResetForm() *form {
	return &form{
		kind:     formReset,
		title:    "Reset password",
		subtitle: "Choose a new password of at least 8 characters",
		draft:    &resetDraft{},
		secret:   map[string]bool{"password": true, "confirmPassword": true},
	}
}

func newDrawerForm(d drawer.Draft) *form {
	return &form{kind: formDrawer, draft: d}
}

func (f *form) fields() []drawer.Field {
	if f == nil || f.draft == nil {
		return nil
	}
	return f.draft.Fields()
}

// focused returns the field being edited
func (f *form) focused() (drawer.Field, bool) {
	fields := f.fields()
	if f == nil || f.focus < 0 || f.focus >= len(fields) {
		return drawer.Field{}, false
	}
	return fields[f.focus], true
}

func (f *form) hasOptions() bool {
	field, ok := f.focused()
	return ok && len(field.Options) > 0
}

func (f *form) isSecret(key string) bool {
	return f.secret[key]
}

// move shifts focus by delta, wrapping around
func (f *form) move(delta int) {
	n := len(f.fields())
	if n == 0 {
		return
	}
	f.focus = ((f.focus+delta)%n + n) % n
}

// cycle moves a choice field to its next or previous option
func (f *form) cycle(delta int) {
	field, ok := f.focused()
	if !ok || len(field.Options) == 0 {
		return
	}
	n := len(field.Options)
	i := 0
	for j, o := range field.Options {
		if o == field.Value {
			i = j
			break
		}
	}
	f.draft.Set(field.Key, field.Options[((i+delta)%n+n)%n])
	delete(f.errors, field.Key)
}

// set stores typed text into the focused field
func (f *form) set(value string) {
	field, ok := f.focused()
	if !ok || len(field.Options) > 0 {
		return
	}
	f.draft.Set(field.Key, value)
	delete(f.errors, field.Key)
}

// fieldStates renders the fields. input is the text input view shown in
// place of the focused field's value.
func (f *form) fieldStates(errs drawer.FieldErrors, input string) []views.FieldState {
	fields := f.fields()
	out := make([]views.FieldState, len(fields))
	for i, field := range fields {
		value := field.Value
		if f.isSecret(field.Key) {
			value = mask(value)
		}
		st := views.FieldState{
			Label:   field.Label,
			Value:   value,
			Focused: i == f.focus,
			Choice:  len(field.Options) > 0,
			Error:   errs[field.Key],
		}
		if st.Focused && !st.Choice && input != "" {
			st.Value = input
		}
		out[i] = st
	}
	return out
}

func mask(s string) string {
	out := make([]rune, 0, len(s))
	for range s {
		out = append(out, '•')
	}
	return string(out)
}

// loginDraft adapts the login form to the field editor
type loginDraft struct {
	drawer.LoginForm
}

func (d *loginDraft) Fields() []drawer.Field {
	return []drawer.Field{
		{Key: "email", Label: "Email", Value: d.Email},
		{Key: "password", Label: "Password", Value: d.Password},
	}
}

func (d *loginDraft) Set(key, value string) {
	switch key {
	case "email":
		d.Email = value
	case "password":
		d.Password = value
	}
}

func (d *loginDraft) Validate() drawer.FieldErrors { return d.LoginForm.Validate() }
func (d *loginDraft) Payload() interface{}         { return d.LoginForm }

// resetDraft adapts the reset password form to the field editor
type resetDraft struct {
	drawer.ResetPasswordForm
}

func (d *resetDraft) Fields() []drawer.Field {
	return []drawer.Field{
		{Key: "password", Label: "New password", Value: d.Password},
		{Key: "confirmPassword", Label: "Confirm password", Value: d.Confirm},
	}
}

func (d *resetDraft) Set(key, value string) {
	switch key {
	case "password":
		d.Password = value
	case "confirmPassword":
		d.Confirm = value
	}
}

func (d *resetDraft) Validate() drawer.FieldErrors { return d.ResetPasswordForm.Validate() }
func (d *resetDraft) Payload() interface{}         { return d.ResetPasswordForm }
