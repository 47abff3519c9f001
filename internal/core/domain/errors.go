package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")
)

// Transfer errors
var (
	ErrTransferNotFound        = errors.New("transfer not found")
	ErrSiteNotFound            = errors.New("site not found")
	ErrDuplicateActiveTransfer = errors.New("an active transfer already exists for this site")
	ErrNotExtendable           = errors.New("transfer is in a terminal status and cannot be extended")
	ErrUploadNotAllowed        = errors.New("document upload is not allowed in the current status")
	ErrOpenInfoRequestExists   = errors.New("an open info request already exists for this transfer")
	ErrNoOpenInfoRequest       = errors.New("no open info request exists for this transfer")
	ErrNotAssigned             = errors.New("transfer must be assigned before review can start")
	ErrValidationNotPassed     = errors.New("validation has not passed and no override was given")
	ErrAccountNotProvisioned   = errors.New("account has not been provisioned yet")
)

// Staff errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// InvalidTransitionError reports an action that is not legal from the current
// status. Always surfaced to the caller with both sides of the attempt.
type InvalidTransitionError struct {
	Current Status
	Action  Action
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: action %q is not permitted from status %q", e.Action, e.Current)
}

// ConflictError reports an optimistic-concurrency loss: another actor changed
// the transfer between read and write. Distinct from InvalidTransitionError so
// staff clients can present "someone else already acted on this".
type ConflictError struct {
	TransferID uint
	Expected   Status
	Actual     Status
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("transfer %d was modified concurrently (expected status %q, found %q)", e.TransferID, e.Expected, e.Actual)
}

// FieldError reports malformed input rejected before any state change
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
