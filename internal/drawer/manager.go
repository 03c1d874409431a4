// Package drawer drives the side panel used to view, add, edit and delete a
// record. A Manager moves between Closed, Open and Submitting and turns
// mutation outcomes into what the list should do next.
package drawer

import (
	"context"
	"errors"
	"fmt"
	"log"

	"staffdash/internal/domain"
)

// Kind is what the drawer is showing
type Kind int

const (
	KindView Kind = iota
	KindAdd
	KindEdit
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindAdd:
		return "add"
	case KindEdit:
		return "edit"
	case KindDelete:
		return "delete"
	}
	return "view"
}

// State is where the drawer is in its lifecycle
type State int

const (
	StateClosed State = iota
	StateOpen
	StateSubmitting
)

// ErrBusy is returned when another drawer is asked for mid-submit
var ErrBusy = errors.New("a change is still being saved")

// Submitter performs mutations against the API
type Submitter interface {
	Create(ctx context.Context, entity domain.Entity, payload interface{}) (string, error)
	Update(ctx context.Context, entity domain.Entity, id string, payload interface{}) error
	Delete(ctx context.Context, entity domain.Entity, id string) error
}

// Permissions says whether the operator may change records
type Permissions interface {
	IsAdmin() bool
}

// Drawer is the open panel
type Drawer struct {
	Kind     Kind
	Entity   domain.Entity
	Record   domain.Record
	RecordID string
	Name     string
	Draft    Draft
	Errors   FieldErrors
	Message  string
}

// Submission is a validated mutation waiting to run
type Submission struct {
	Kind     Kind
	Entity   domain.Entity
	RecordID string
	Name     string
	Payload  interface{}
}

// Run performs the mutation. It only touches the submitter so it can run off
// the UI goroutine.
func (s Submission) Run(ctx context.Context, sub Submitter) Outcome {
	out := Outcome{Submission: s, ID: s.RecordID}
	switch s.Kind {
	case KindAdd:
		out.ID, out.Err = sub.Create(ctx, s.Entity, s.Payload)
	case KindEdit:
		out.Err = sub.Update(ctx, s.Entity, s.RecordID, s.Payload)
	case KindDelete:
		out.Err = sub.Delete(ctx, s.Entity, s.RecordID)
	default:
		out.Err = fmt.Errorf("nothing to submit for a %s drawer", s.Kind)
	}
	return out
}

// Outcome is what running a submission produced
type Outcome struct {
	Submission Submission
	ID         string
	Err        error
}

// Result tells the owning view what to do after a submission
type Result struct {
	Closed       bool
	Refetch      bool
	Unauthorized bool
	Notify       string
	Kind         Kind
	Entity       domain.Entity
	ID           string
	Name         string
}

// Manager owns the one drawer that may be open at a time
type Manager struct {
	state   State
	current Drawer
	perms   Permissions
	onClose func()
}

// NewManager creates a closed manager
func NewManager(perms Permissions) *Manager {
	return &Manager{perms: perms}
}

// OnClose registers fn to run whenever the drawer closes, used to clear the
// list selection
func (m *Manager) OnClose(fn func()) {
	m.onClose = fn
}

func (m *Manager) State() State     { return m.state }
func (m *Manager) IsOpen() bool     { return m.state != StateClosed }
func (m *Manager) Current() *Drawer { return &m.current }

func (m *Manager) canChange() error {
	if m.perms == nil || !m.perms.IsAdmin() {
		return domain.UnauthorizedError{Msg: "only administrators can change records"}
	}
	return nil
}

// open replaces whatever is showing with d
func (m *Manager) open(d Drawer) error {
	if m.state == StateSubmitting {
		return ErrBusy
	}
	m.current = d
	m.state = StateOpen
	return nil
}

// OpenView shows rec read-only
func (m *Manager) OpenView(entity domain.Entity, rec domain.Record) error {
	return m.open(Drawer{Kind: KindView, Entity: entity, Record: rec, RecordID: rec.RecordID(), Name: rec.DisplayName()})
}

// OpenAdd shows an empty form for entity
func (m *Manager) OpenAdd(entity domain.Entity) error {
	if err := m.canChange(); err != nil {
		return err
	}
	draft, err := DraftFor(entity, nil)
	if err != nil {
		return err
	}
	return m.open(Drawer{Kind: KindAdd, Entity: entity, Draft: draft})
}

// OpenEdit shows rec in a prefilled form. Any open drawer, including the view
// of the same record, is replaced.
func (m *Manager) OpenEdit(entity domain.Entity, rec domain.Record) error {
	if err := m.canChange(); err != nil {
		return err
	}
	draft, err := DraftFor(entity, rec)
	if err != nil {
		return err
	}
	return m.open(Drawer{Kind: KindEdit, Entity: entity, Record: rec, RecordID: rec.RecordID(), Name: rec.DisplayName(), Draft: draft})
}

// OpenDelete asks for confirmation before deleting rec
func (m *Manager) OpenDelete(entity domain.Entity, rec domain.Record) error {
	if err := m.canChange(); err != nil {
		return err
	}
	return m.open(Drawer{Kind: KindDelete, Entity: entity, Record: rec, RecordID: rec.RecordID(), Name: rec.DisplayName()})
}

// Close dismisses the drawer. A drawer that is submitting stays open.
func (m *Manager) Close() bool {
	if m.state == StateSubmitting {
		return false
	}
	if m.state == StateClosed {
		return true
	}
	m.close()
	return true
}

func (m *Manager) close() {
	m.state = StateClosed
	m.current = Drawer{}
	if m.onClose != nil {
		m.onClose()
	}
}

// Prepare validates the open form and moves to Submitting. Validation failures
// keep the drawer open with its field errors filled in.
func (m *Manager) Prepare() (Submission, bool) {
	if m.state != StateOpen {
		return Submission{}, false
	}
	d := &m.current
	sub := Submission{Kind: d.Kind, Entity: d.Entity, RecordID: d.RecordID, Name: d.Name}

	switch d.Kind {
	case KindView:
		return Submission{}, false
	case KindAdd, KindEdit:
		if errs := d.Draft.Validate(); len(errs) > 0 {
			d.Errors = errs
			d.Message = "Please fix the highlighted fields"
			return Submission{}, false
		}
		sub.Payload = d.Draft.Payload()
	}

	d.Errors = nil
	d.Message = ""
	m.state = StateSubmitting
	return sub, true
}

// Complete applies an outcome. Validation errors reopen the form, a missing
// record or success closes the drawer and asks for a refetch.
func (m *Manager) Complete(out Outcome) Result {
	s := out.Submission
	res := Result{Kind: s.Kind, Entity: s.Entity, ID: out.ID, Name: s.Name}
	if m.state != StateSubmitting {
		return res
	}

	err := out.Err
	switch {
	case err == nil:
		log.Printf("%s %s %s succeeded", s.Kind, s.Entity, out.ID)
		res.Closed = true
		res.Refetch = true
		m.close()

	case domain.IsValidation(err):
		var verr domain.ValidationError
		errors.As(err, &verr)
		m.state = StateOpen
		if verr.Field != "" {
			m.current.Errors = FieldErrors{verr.Field: verr.Msg}
		}
		m.current.Message = domain.UserMessage(err)

	case domain.IsNotFound(err):
		res.Notify = fmt.Sprintf("%s no longer exists", displayName(s))
		res.Closed = true
		res.Refetch = true
		m.close()

	case domain.IsUnauthorized(err):
		res.Notify = domain.UserMessage(err)
		res.Unauthorized = true
		res.Closed = true
		m.close()

	default:
		log.Printf("%s %s %s failed: %v", s.Kind, s.Entity, s.RecordID, err)
		m.state = StateOpen
		res.Notify = domain.UserMessage(err)
		m.current.Message = res.Notify
	}
	return res
}

func displayName(s Submission) string {
	if s.Name != "" {
		return s.Name
	}
	return "The record"
}

// Submit runs Prepare, the mutation and Complete in one go
func (m *Manager) Submit(ctx context.Context, sub Submitter) (Result, bool) {
	s, ok := m.Prepare()
	if !ok {
		return Result{}, false
	}
	return m.Complete(s.Run(ctx, sub)), true
}

// DeletePrompt returns the confirmation title and description for name
func DeletePrompt(name string) (string, string) {
	title := fmt.Sprintf("Are you sure you want to delete %s?", name)
	desc := fmt.Sprintf("This will permanently delete %s and all associated data. You cannot undo this action.", name)
	return title, desc
}
