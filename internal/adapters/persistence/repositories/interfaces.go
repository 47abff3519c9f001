package repositories

import (
	"context"

	"solarhub-transferdesk/internal/adapters/persistence/models"
)

// UserRepository defines staff user lookups. Staff identity lives outside the
// workflow engine; this is the minimal surface it consumes.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

// SiteRepository defines read-only access to installation sites
type SiteRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Site, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, site *models.Site) error
	Count(ctx context.Context) (int64, error)
}
