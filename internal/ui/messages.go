package ui

import (
	"staffdash/internal/api"
	"staffdash/internal/domain"
	"staffdash/internal/drawer"
	"staffdash/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// pageMsg carries a finished list fetch. apply hands it to the controller on
// the UI goroutine and reports whether it was still the latest request.
type pageMsg struct {
	list   list
	entity domain.Entity
	err    error
	apply  func() bool
}

// infoMsg contains the dashboard chart numbers
type infoMsg struct {
	seq  int
	info domain.ProjectsInfo
	err  error
}

// loginMsg contains the result of a login attempt
type loginMsg struct {
	result api.LoginResult
	err    error
}

// resetMsg contains the result of a password reset
type resetMsg struct {
	message string
	err     error
}

// mutationMsg contains the outcome of a drawer submission
type mutationMsg struct {
	outcome drawer.Outcome
}

// exportMsg reports a finished export
type exportMsg struct {
	entity domain.Entity
	path   string
	count  int
	err    error
}

// pollMsg is sent on the poll interval
type pollMsg struct{}

// retryMsg asks a list to try again after a transport failure
type retryMsg struct {
	entity domain.Entity
}

// toastExpiredMsg removes a toast once it has been shown long enough
type toastExpiredMsg struct {
	id int
}

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	err error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
