package domain

import (
	"strconv"
	"strings"
	"time"
)

// TechStackLabel returns the label shown in tables, "" for unknown values
func TechStackLabel(ts TechStack) string {
	switch ts {
	case TechStackAdminNA, TechStackMgmtNA:
		return "N/A"
	case TechStackFullStack:
		return "Full Stack"
	case TechStackBackend:
		return "Back End"
	case TechStackFrontend:
		return "Front End"
	case TechStackUXUI:
		return "UX/UI"
	}
	return ""
}

// ProjectStatusLabel returns the human label for a project status
func ProjectStatusLabel(s ProjectStatus) string {
	switch s {
	case ProjectStatusActive:
		return "Active"
	case ProjectStatusOnHold:
		return "On hold"
	case ProjectStatusInactive:
		return "Inactive"
	case ProjectStatusCompleted:
		return "Completed"
	}
	return ""
}

// InvoiceStatusLabel returns the human label for an invoice status
func InvoiceStatusLabel(s InvoiceStatus) string {
	switch s {
	case InvoiceStatusPaid:
		return "Paid"
	case InvoiceStatusSent:
		return "Sent"
	case InvoiceStatusNotSent:
		return "Not sent"
	}
	return ""
}

// ProjectTypeLabel returns the human label for a project type
func ProjectTypeLabel(t ProjectType) string {
	if t == ProjectTypeOnGoing {
		return "On-going"
	}
	return string(t)
}

// ProjectDateRange formats a project's run as "Jan 2023 - Dec 2023"
func ProjectDateRange(start, end time.Time) string {
	return start.Format("Jan 2006") + " - " + end.Format("Jan 2006")
}

// FormatBAM renders an amount with two decimals and thousands separators
func FormatBAM(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
