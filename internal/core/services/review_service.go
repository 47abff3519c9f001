package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"solarhub-transferdesk/internal/adapters/persistence/models"
	"solarhub-transferdesk/internal/adapters/persistence/repositories"
	"solarhub-transferdesk/internal/config"
	"solarhub-transferdesk/internal/core/domain"

	"gorm.io/gorm"
)

// ReviewService drives the staff-facing state machine: assignment,
// info-requests, approval, rejection and completion. Every transition
// appends exactly one audit entry and is serialized per transfer through
// the repository's compare-and-swap.
type ReviewService struct {
	transferRepo *repositories.TransferRepository
	reviewRepo   *repositories.ReviewRepository
	infoRepo     *repositories.InfoRequestRepository
	userRepo     repositories.UserRepository
	validator    *ValidationService
	provisioner  AccountProvisioner
	notify       *NotificationService
	cfg          *config.Config
}

// NewReviewService creates a new review service
func NewReviewService(
	transferRepo *repositories.TransferRepository,
	reviewRepo *repositories.ReviewRepository,
	infoRepo *repositories.InfoRequestRepository,
	userRepo repositories.UserRepository,
	validator *ValidationService,
	provisioner AccountProvisioner,
	notify *NotificationService,
	cfg *config.Config,
) *ReviewService {
	return &ReviewService{
		transferRepo: transferRepo,
		reviewRepo:   reviewRepo,
		infoRepo:     infoRepo,
		userRepo:     userRepo,
		validator:    validator,
		provisioner:  provisioner,
		notify:       notify,
		cfg:          cfg,
	}
}

// load fetches the transfer, mapping missing rows to the domain error
func (s *ReviewService) load(ctx context.Context, transferID uint) (*models.Transfer, error) {
	transfer, err := s.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTransferNotFound
		}
		return nil, err
	}
	return transfer, nil
}

// save performs the CAS write and converts a lost race into ConflictError
func (s *ReviewService) save(ctx context.Context, transfer *models.Transfer, expected domain.Status) error {
	ok, err := s.transferRepo.UpdateCAS(ctx, transfer)
	if err != nil {
		return err
	}
	if !ok {
		current, _ := s.transferRepo.GetByID(ctx, transfer.ID)
		actual := domain.Status("")
		if current != nil {
			actual = current.Status
		}
		return &domain.ConflictError{TransferID: transfer.ID, Expected: expected, Actual: actual}
	}
	return nil
}

// audit appends one audit-trail entry
func (s *ReviewService) audit(ctx context.Context, transferID uint, action domain.Action, from, to domain.Status, reviewerID *uint, notes string) error {
	return s.reviewRepo.Create(ctx, &models.TransferReview{
		TransferID: transferID,
		Action:     action,
		FromStatus: from,
		ToStatus:   to,
		ReviewerID: reviewerID,
		Notes:      notes,
	})
}

// AssignInput represents assignment input. A nil UserID clears the holder.
type AssignInput struct {
	UserID *uint `json:"user_id"`
}

// Assign sets or clears the transfer's single holder. Reassignment replaces,
// never appends, and does not itself change status.
func (s *ReviewService) Assign(ctx context.Context, transferID uint, input *AssignInput, staffID uint) (*models.Transfer, error) {
	transfer, err := s.load(ctx, transferID)
	if err != nil {
		return nil, err
	}

	var newHolder *models.User
	if input.UserID != nil {
		newHolder, err = s.userRepo.GetByID(ctx, *input.UserID)
		if err != nil {
			return nil, domain.ErrUserNotFound
		}
	}

	previous := "nobody"
	if transfer.AssignedTo != nil {
		previous = transfer.AssignedTo.Username
	}
	next := "nobody"
	if newHolder != nil {
		next = newHolder.Username
	}

	transfer.AssignedToID = input.UserID
	if err := s.save(ctx, transfer, transfer.Status); err != nil {
		return nil, err
	}
	transfer.AssignedTo = newHolder

	notes := fmt.Sprintf("reassigned from %s to %s", previous, next)
	if err := s.audit(ctx, transfer.ID, domain.ActionAssign, transfer.Status, transfer.Status, &staffID, notes); err != nil {
		return nil, err
	}

	return transfer, nil
}

// StartReview moves a submitted transfer under review. The transfer must
// already have a holder; assignment alone never changes status.
func (s *ReviewService) StartReview(ctx context.Context, transferID uint, staffID uint) (*models.Transfer, error) {
	transfer, err := s.load(ctx, transferID)
	if err != nil {
		return nil, err
	}

	next, err := domain.NextStatus(transfer.Status, domain.ActionStartReview)
	if err != nil {
		return nil, err
	}
	if transfer.AssignedToID == nil {
		return nil, domain.ErrNotAssigned
	}

	from := transfer.Status
	transfer.Status = next
	if err := s.save(ctx, transfer, from); err != nil {
		return nil, err
	}

	if err := s.audit(ctx, transfer.ID, domain.ActionStartReview, from, next, &staffID, "review started"); err != nil {
		return nil, err
	}

	return transfer, nil
}

// RequestInfoInput represents an info request
type RequestInfoInput struct {
	Reason         string   `json:"reason"`
	SpecificFields []string `json:"specific_fields,omitempty"`
	DeadlineDays   int      `json:"deadline_days,omitempty"`
	PresetReasons  []string `json:"preset_reasons,omitempty"`
}

// RequestInfo asks the homeowner for missing or clarifying information.
// Only one open request may exist at a time.
func (s *ReviewService) RequestInfo(ctx context.Context, transferID uint, input *RequestInfoInput, staffID uint) (*models.InfoRequest, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" && len(input.PresetReasons) > 0 {
		reason = strings.Join(input.PresetReasons, "; ")
	}
	if reason == "" {
		return nil, &domain.FieldError{Field: "reason", Message: "a reason is required"}
	}

	transfer, err := s.load(ctx, transferID)
	if err != nil {
		return nil, err
	}

	next, err := domain.NextStatus(transfer.Status, domain.ActionRequestInfo)
	if err != nil {
		return nil, err
	}

	open, err := s.infoRepo.GetOpenByTransferID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, domain.ErrOpenInfoRequestExists
	}

	deadlineDays := input.DeadlineDays
	if deadlineDays <= 0 {
		deadlineDays = s.cfg.Transfer.InfoRequestDeadlineDays
	}

	from := transfer.Status
	transfer.Status = next
	if err := s.save(ctx, transfer, from); err != nil {
		return nil, err
	}

	request := &models.InfoRequest{
		TransferID:     transfer.ID,
		RequestedByID:  staffID,
		Reason:         reason,
		SpecificFields: strings.Join(input.SpecificFields, ","),
		Deadline:       time.Now().Add(time.Duration(deadlineDays) * 24 * time.Hour),
	}
	if err := s.infoRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	if err := s.audit(ctx, transfer.ID, domain.ActionRequestInfo, from, next, &staffID, "additional information requested: "+reason); err != nil {
		return nil, err
	}

	if s.notify != nil {
		s.notify.SendInfoRequest(ctx, transfer, request, staffID)
	}

	return request, nil
}

// ApproveInput represents approval input
type ApproveInput struct {
	Notes            string `json:"notes,omitempty"`
	CreateAccount    bool   `json:"create_account"`
	SendWelcomeEmail bool   `json:"send_welcome_email"`
	Override         bool   `json:"override,omitempty"`
}

// Approve approves a transfer under review. Requires a passing validation
// run unless the reviewer explicitly overrides. Collaborator failures
// (account provisioning, welcome email) surface as warnings and never roll
// back the approval.
func (s *ReviewService) Approve(ctx context.Context, transferID uint, input *ApproveInput, staffID uint) (*models.Transfer, []string, error) {
	transfer, err := s.load(ctx, transferID)
	if err != nil {
		return nil, nil, err
	}

	next, err := domain.NextStatus(transfer.Status, domain.ActionApprove)
	if err != nil {
		return nil, nil, err
	}

	if !input.Override {
		result := s.validator.Run(transfer, transfer.Site)
		if !result.IsValid {
			return nil, nil, domain.ErrValidationNotPassed
		}
	}

	now := time.Now()
	from := transfer.Status
	transfer.Status = next
	transfer.ApprovedAt = &now
	transfer.ReviewedByID = &staffID
	transfer.ReviewedAt = &now
	if err := s.save(ctx, transfer, from); err != nil {
		return nil, nil, err
	}

	notes := "transfer approved"
	if input.Override {
		notes = "transfer approved (validation overridden)"
	}
	if input.Notes != "" {
		notes += ": " + input.Notes
	}
	if err := s.audit(ctx, transfer.ID, domain.ActionApprove, from, next, &staffID, notes); err != nil {
		return nil, nil, err
	}

	var warnings []string

	if input.CreateAccount {
		if err := s.provisioner.Provision(ctx, transfer); err != nil {
			warnings = append(warnings, "approved, but account provisioning failed: "+err.Error())
		} else {
			transfer.AccountCreated = true
			if _, err := s.transferRepo.UpdateCAS(ctx, transfer); err != nil {
				warnings = append(warnings, "account provisioned, but recording it failed: "+err.Error())
			}
		}
	}

	if input.SendWelcomeEmail {
		if !transfer.AccountCreated {
			warnings = append(warnings, "approved, but welcome email skipped: no account was provisioned")
		} else if err := s.notify.SendWelcome(ctx, transfer, staffID); err != nil {
			warnings = append(warnings, "approved, but welcome email failed to send")
		} else {
			transfer.WelcomeEmailSent = true
			if _, err := s.transferRepo.UpdateCAS(ctx, transfer); err != nil {
				warnings = append(warnings, "welcome email recorded, but flag update failed: "+err.Error())
			}
		}
	}

	return transfer, warnings, nil
}

// RejectInput represents rejection input
type RejectInput struct {
	Reason           domain.RejectionReason `json:"reason"`
	Notes            string                 `json:"notes"`
	SendNotification bool                   `json:"send_notification"`
}

// Reject rejects a transfer under review. Notes are mandatory and checked
// before any state change; the transition is irreversible.
func (s *ReviewService) Reject(ctx context.Context, transferID uint, input *RejectInput, staffID uint) (*models.Transfer, error) {
	if !domain.ValidRejectionReason(input.Reason) {
		return nil, &domain.FieldError{Field: "reason", Message: "invalid rejection reason"}
	}
	if strings.TrimSpace(input.Notes) == "" {
		return nil, &domain.FieldError{Field: "notes", Message: "rejection notes are required"}
	}

	transfer, err := s.load(ctx, transferID)
	if err != nil {
		return nil, err
	}

	next, err := domain.NextStatus(transfer.Status, domain.ActionReject)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	from := transfer.Status
	transfer.Status = next
	transfer.RejectionReason = input.Reason
	transfer.RejectionNotes = input.Notes
	transfer.ReviewedByID = &staffID
	transfer.ReviewedAt = &now
	if err := s.save(ctx, transfer, from); err != nil {
		return nil, err
	}

	notes := fmt.Sprintf("transfer rejected (%s): %s", input.Reason, input.Notes)
	if err := s.audit(ctx, transfer.ID, domain.ActionReject, from, next, &staffID, notes); err != nil {
		return nil, err
	}

	if input.SendNotification && s.notify != nil {
		s.notify.SendRejection(ctx, transfer, staffID)
	}

	return transfer, nil
}

// Complete finishes an approved transfer once account provisioning is done
func (s *ReviewService) Complete(ctx context.Context, transferID uint, staffID uint) (*models.Transfer, error) {
	transfer, err := s.load(ctx, transferID)
	if err != nil {
		return nil, err
	}

	next, err := domain.NextStatus(transfer.Status, domain.ActionComplete)
	if err != nil {
		return nil, err
	}
	if !transfer.AccountCreated {
		return nil, domain.ErrAccountNotProvisioned
	}

	now := time.Now()
	from := transfer.Status
	transfer.Status = next
	transfer.CompletedAt = &now
	if err := s.save(ctx, transfer, from); err != nil {
		return nil, err
	}

	if err := s.audit(ctx, transfer.ID, domain.ActionComplete, from, next, &staffID, "ownership transfer completed"); err != nil {
		return nil, err
	}

	return transfer, nil
}

// GetByID gets a transfer by ID
func (s *ReviewService) GetByID(ctx context.Context, transferID uint) (*models.Transfer, error) {
	return s.load(ctx, transferID)
}

// ListInput represents transfer listing input
type ListInput struct {
	Filter *repositories.TransferFilter
	Offset int
	Limit  int
}

// List lists transfers for the staff index view
func (s *ReviewService) List(ctx context.Context, input *ListInput) ([]*models.Transfer, int64, error) {
	return s.transferRepo.List(ctx, input.Filter, input.Offset, input.Limit)
}

// GetHistory gets the audit trail for a transfer
func (s *ReviewService) GetHistory(ctx context.Context, transferID uint) ([]*models.TransferReview, error) {
	if _, err := s.load(ctx, transferID); err != nil {
		return nil, err
	}
	return s.reviewRepo.GetByTransferID(ctx, transferID)
}

// GetValidation recomputes the validation result for staff display.
// Deterministic, so recomputation always matches the stored score.
func (s *ReviewService) GetValidation(ctx context.Context, transferID uint) (*ValidationResult, error) {
	transfer, err := s.load(ctx, transferID)
	if err != nil {
		return nil, err
	}
	return s.validator.Run(transfer, transfer.Site), nil
}
