package services

import (
	"context"
	"log"

	"solarhub-transferdesk/internal/adapters/persistence/models"
)

// localAccountProvisioner is the default AccountProvisioner used until the
// customer-portal provisioning API is wired in. It only records the request.
type localAccountProvisioner struct{}

// NewLocalAccountProvisioner creates the default provisioner
func NewLocalAccountProvisioner() AccountProvisioner {
	return &localAccountProvisioner{}
}

// Provision simulates downstream account creation
func (p *localAccountProvisioner) Provision(_ context.Context, transfer *models.Transfer) error {
	log.Printf("👤 Provisioning homeowner account for transfer #%d (%s)", transfer.ID, transfer.HomeownerEmail)
	return nil
}
