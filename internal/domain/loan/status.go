package loan

import (
	"fmt"
	"loan-ledger/internal/pkg/apperrors"
	"strings"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusActive    Status = "Active"
	StatusOverdue   Status = "Overdue"
	StatusCompleted Status = "Completed"
	StatusDefault   Status = "Default"
	StatusCancelled Status = "Cancelled"
	StatusRejected  Status = "Rejected"
)

// AllStatuses lists the closed set of loan statuses in lifecycle order.
var AllStatuses = []Status{
	StatusPending,
	StatusApproved,
	StatusActive,
	StatusOverdue,
	StatusCompleted,
	StatusDefault,
	StatusCancelled,
	StatusRejected,
}

// ParseStatus matches case-insensitively. "Paid" is accepted as Completed.
func ParseStatus(raw string) (Status, error) {
	s := strings.TrimSpace(raw)
	if strings.EqualFold(s, "paid") {
		return StatusCompleted, nil
	}
	for _, status := range AllStatuses {
		if strings.EqualFold(s, string(status)) {
			return status, nil
		}
	}
	return "", apperrors.NewValidationError("status", fmt.Sprintf("unknown loan status %q", raw))
}

// IsPayable reports whether payments may be applied to a loan in this status.
func (s Status) IsPayable() bool {
	switch s {
	case StatusApproved, StatusActive, StatusOverdue:
		return true
	case StatusPending, StatusCompleted, StatusDefault, StatusCancelled, StatusRejected:
		return false
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusDefault, StatusCancelled, StatusRejected:
		return true
	case StatusPending, StatusApproved, StatusActive, StatusOverdue:
		return false
	default:
		return false
	}
}

// CanTransitionManually reports whether an administrator may move a loan from s to next.
// Active, Overdue and Completed are reached only through payments and the overdue sweep.
func (s Status) CanTransitionManually(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected || next == StatusCancelled
	case StatusApproved:
		return next == StatusCancelled || next == StatusDefault
	case StatusActive, StatusOverdue:
		return next == StatusDefault
	case StatusCompleted, StatusDefault, StatusCancelled, StatusRejected:
		return false
	default:
		return false
	}
}
