package domain

import (
	"math"
	"time"
)

// Status represents the transfer lifecycle state
type Status string

const (
	StatusPending     Status = "pending"
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusNeedsInfo   Status = "needs_info"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusCompleted   Status = "completed"
	StatusExpired     Status = "expired"
	StatusExtended    Status = "extended"
)

// Action represents a workflow action recorded in the audit trail
type Action string

const (
	ActionCreate      Action = "create"
	ActionSubmit      Action = "submit"
	ActionUpload      Action = "upload"
	ActionAssign      Action = "assign"
	ActionStartReview Action = "start_review"
	ActionRequestInfo Action = "request_info"
	ActionRespondInfo Action = "respond_info"
	ActionApprove     Action = "approve"
	ActionReject      Action = "reject"
	ActionComplete    Action = "complete"
	ActionExtend      Action = "extend"
	ActionExpire      Action = "expire"
	ActionComment     Action = "comment"
)

// RejectionReason enumerates the allowed rejection reasons
type RejectionReason string

const (
	RejectInvalidDocs   RejectionReason = "invalid_docs"
	RejectWrongProperty RejectionReason = "wrong_property"
	RejectDuplicate     RejectionReason = "duplicate"
	RejectNoResponse    RejectionReason = "no_response"
	RejectOther         RejectionReason = "other"
)

// ValidStatus reports whether s is one of the known lifecycle states
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusSubmitted, StatusUnderReview, StatusNeedsInfo,
		StatusApproved, StatusRejected, StatusCompleted, StatusExpired, StatusExtended:
		return true
	}
	return false
}

// ValidRejectionReason reports whether r is one of the allowed reasons
func ValidRejectionReason(r RejectionReason) bool {
	switch r {
	case RejectInvalidDocs, RejectWrongProperty, RejectDuplicate, RejectNoResponse, RejectOther:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is permitted from s.
// Expired is terminal unless extended, which is handled by the extend edge below.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

// IsActive reports whether s counts against the one-active-transfer-per-site rule
func (s Status) IsActive() bool {
	return s != StatusRejected && s != StatusCompleted && s != StatusExpired
}

// transitions is the closed edge table of the workflow state machine.
// Guards (assignee set, open info-request, validation result) are enforced
// by the review service; this table only answers reachability.
var transitions = map[Status]map[Action]Status{
	StatusPending: {
		ActionExpire: StatusExpired,
		ActionExtend: StatusExtended,
		ActionSubmit: StatusSubmitted,
	},
	StatusExpired: {
		ActionExtend: StatusExtended,
	},
	StatusExtended: {
		ActionSubmit: StatusSubmitted,
		ActionExtend: StatusExtended,
		ActionExpire: StatusExpired,
	},
	StatusSubmitted: {
		ActionStartReview: StatusUnderReview,
		ActionExpire:      StatusExpired,
		ActionExtend:      StatusExtended,
	},
	StatusUnderReview: {
		ActionRequestInfo: StatusNeedsInfo,
		ActionApprove:     StatusApproved,
		ActionReject:      StatusRejected,
	},
	StatusNeedsInfo: {
		ActionRespondInfo: StatusUnderReview,
	},
	StatusApproved: {
		ActionComplete: StatusCompleted,
	},
}

// NextStatus resolves the status an action leads to from the current status.
// Returns an InvalidTransitionError when the edge does not exist; it is never
// coerced or retried.
func NextStatus(current Status, action Action) (Status, error) {
	if edges, ok := transitions[current]; ok {
		if next, ok := edges[action]; ok {
			return next, nil
		}
	}
	return "", &InvalidTransitionError{Current: current, Action: action}
}

// CanTransition reports whether action is legal from current
func CanTransition(current Status, action Action) bool {
	_, err := NextStatus(current, action)
	return err == nil
}

// DaysUntilExpiry computes whole days remaining before the token expires.
// Negative once the expiry instant has passed. Derived at read time, never stored.
func DaysUntilExpiry(expiresAt, now time.Time) int {
	return int(math.Floor(expiresAt.Sub(now).Hours() / 24))
}

// IsUrgent reports whether the token is inside the urgency window but the
// transfer still awaits homeowner or staff action.
func IsUrgent(status Status, expiresAt, now time.Time, urgentDays int) bool {
	if status.IsTerminal() || status == StatusExpired {
		return false
	}
	if !now.Before(expiresAt) {
		return false
	}
	return DaysUntilExpiry(expiresAt, now) < urgentDays
}

// CanBeExtended reports whether the extend action is available
func CanBeExtended(status Status) bool {
	return !status.IsTerminal()
}

// TokenUsable reports whether the public token grants access at this instant.
// Effective validity is derived from the clock even when the stored status has
// not yet been swept to expired.
func TokenUsable(status Status, expiresAt, now time.Time) bool {
	if status == StatusCompleted || status == StatusRejected || status == StatusExpired || status == StatusApproved {
		return false
	}
	return now.Before(expiresAt)
}
