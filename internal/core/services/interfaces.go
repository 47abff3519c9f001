package services

import (
	"context"

	"solarhub-transferdesk/internal/adapters/persistence/models"
)

// AccountProvisioner is the downstream account-provisioning collaborator,
// invoked on approval when the reviewer requests an account. Failures are
// surfaced as partial-success warnings, never as a rolled-back approval.
type AccountProvisioner interface {
	Provision(ctx context.Context, transfer *models.Transfer) error
}

// EmailSender is the notification delivery transport. The workflow records
// the message intent itself; delivery is fire-and-forget.
type EmailSender interface {
	Send(recipient, subject, body string) error
}
