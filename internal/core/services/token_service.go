package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"solarhub-transferdesk/internal/adapters/persistence/models"
	"solarhub-transferdesk/internal/adapters/persistence/repositories"
	"solarhub-transferdesk/internal/config"
	"solarhub-transferdesk/internal/core/domain"
	"solarhub-transferdesk/internal/pkg/token"

	"gorm.io/gorm"
)

// Public token-validation reasons. These are the only failure details that
// cross the unauthenticated boundary.
const (
	ReasonNotFound         = "not_found"
	ReasonExpired          = "expired"
	ReasonAlreadyCompleted = "already_completed"
)

// TokenService handles the transfer token lifecycle: issuance, validation
// and extension
type TokenService struct {
	transferRepo *repositories.TransferRepository
	siteRepo     repositories.SiteRepository
	reviewRepo   *repositories.ReviewRepository
	notify       *NotificationService
	cfg          *config.Config
}

// NewTokenService creates a new token service
func NewTokenService(
	transferRepo *repositories.TransferRepository,
	siteRepo repositories.SiteRepository,
	reviewRepo *repositories.ReviewRepository,
	notify *NotificationService,
	cfg *config.Config,
) *TokenService {
	return &TokenService{
		transferRepo: transferRepo,
		siteRepo:     siteRepo,
		reviewRepo:   reviewRepo,
		notify:       notify,
		cfg:          cfg,
	}
}

// IssueInput represents transfer initiation input
type IssueInput struct {
	SiteID           uint   `json:"site_id"`
	HomeownerEmail   string `json:"homeowner_email"`
	UseExistingEmail bool   `json:"use_existing_email"`
}

// Issue creates a transfer in status pending with a fresh single-use token
func (s *TokenService) Issue(ctx context.Context, input *IssueInput, staffID uint) (*models.Transfer, error) {
	site, err := s.siteRepo.GetByID(ctx, input.SiteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSiteNotFound
		}
		return nil, err
	}

	active, err := s.transferRepo.CountActiveBySite(ctx, site.ID)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, domain.ErrDuplicateActiveTransfer
	}

	email := input.HomeownerEmail
	if input.UseExistingEmail && site.OwnerEmail != "" {
		email = site.OwnerEmail
	}
	if email == "" {
		return nil, &domain.FieldError{Field: "homeowner_email", Message: "homeowner email is required"}
	}

	uniqueToken, err := token.Generate()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	transfer := &models.Transfer{
		SiteID:         site.ID,
		UniqueToken:    uniqueToken,
		Status:         domain.StatusPending,
		HomeownerEmail: email,
		TokenCreatedAt: now,
		TokenExpiresAt: now.Add(time.Duration(s.cfg.Transfer.TokenDays) * 24 * time.Hour),
		CreatedByID:    staffID,
	}

	if err := s.transferRepo.Create(ctx, transfer); err != nil {
		return nil, err
	}

	review := &models.TransferReview{
		TransferID: transfer.ID,
		Action:     domain.ActionCreate,
		ToStatus:   domain.StatusPending,
		ReviewerID: &staffID,
		Notes:      fmt.Sprintf("transfer initiated for site %q", site.Name),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify.SendInvitation(ctx, transfer, site, staffID)
	}

	transfer.Site = site
	return transfer, nil
}

// ValidationOutput is the public-safe result of token validation. Failures
// are values, never errors, so the endpoint cannot leak internals.
type ValidationOutput struct {
	Valid    bool
	Reason   string
	Transfer *models.Transfer
}

// Validate checks a public token. Read-only: two reads straddling the expiry
// instant differ only in derived fields, never in stored ones.
func (s *TokenService) Validate(ctx context.Context, tokenValue string) (*ValidationOutput, error) {
	transfer, err := s.transferRepo.GetByToken(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationOutput{Valid: false, Reason: ReasonNotFound}, nil
		}
		return nil, err
	}

	now := time.Now()
	switch transfer.Status {
	case domain.StatusCompleted, domain.StatusRejected, domain.StatusApproved:
		return &ValidationOutput{Valid: false, Reason: ReasonAlreadyCompleted}, nil
	case domain.StatusExpired:
		return &ValidationOutput{Valid: false, Reason: ReasonExpired}, nil
	}
	if !now.Before(transfer.TokenExpiresAt) {
		return &ValidationOutput{Valid: false, Reason: ReasonExpired}, nil
	}

	return &ValidationOutput{Valid: true, Transfer: transfer}, nil
}

// ExtendInput represents token extension input
type ExtendInput struct {
	Days   int    `json:"days"`
	Reason string `json:"reason,omitempty"`
}

// Extend pushes the token expiry forward. An expired transfer comes back as
// extended; terminal transfers refuse with ErrNotExtendable.
func (s *TokenService) Extend(ctx context.Context, transferID uint, input *ExtendInput, staffID uint) (*models.Transfer, error) {
	if input.Days <= 0 {
		return nil, &domain.FieldError{Field: "days", Message: "extension days must be positive"}
	}

	transfer, err := s.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTransferNotFound
		}
		return nil, err
	}

	if !transfer.CanBeExtended() {
		return nil, domain.ErrNotExtendable
	}

	fromStatus := transfer.Status
	if fromStatus == domain.StatusExpired {
		transfer.Status = domain.StatusExtended
	}
	transfer.TokenExtendedCount++
	transfer.TokenExpiresAt = transfer.TokenExpiresAt.Add(time.Duration(input.Days) * 24 * time.Hour)

	ok, err := s.transferRepo.UpdateCAS(ctx, transfer)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, _ := s.transferRepo.GetByID(ctx, transferID)
		actual := domain.Status("")
		if current != nil {
			actual = current.Status
		}
		return nil, &domain.ConflictError{TransferID: transferID, Expected: fromStatus, Actual: actual}
	}

	notes := fmt.Sprintf("token extended by %d days (extension #%d)", input.Days, transfer.TokenExtendedCount)
	if input.Reason != "" {
		notes += ": " + input.Reason
	}
	review := &models.TransferReview{
		TransferID: transfer.ID,
		Action:     domain.ActionExtend,
		FromStatus: fromStatus,
		ToStatus:   transfer.Status,
		ReviewerID: &staffID,
		Notes:      notes,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	return transfer, nil
}
