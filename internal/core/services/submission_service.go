package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"solarhub-transferdesk/internal/adapters/persistence/models"
	"solarhub-transferdesk/internal/adapters/persistence/repositories"
	"solarhub-transferdesk/internal/core/domain"
	"solarhub-transferdesk/internal/pkg/storage"
)

// genericSubmitFailure is the only message the public boundary reveals for an
// unusable token, so callers cannot distinguish unknown from expired tokens.
const genericSubmitFailure = "This transfer link is no longer valid. Please contact us if you believe this is a mistake."

// SubmissionService accepts the public form payload and evidence uploads
type SubmissionService struct {
	transferRepo *repositories.TransferRepository
	docRepo      *repositories.DocumentRepository
	reviewRepo   *repositories.ReviewRepository
	infoRepo     *repositories.InfoRequestRepository
	tokenService *TokenService
	validator    *ValidationService
	store        storage.Store
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	transferRepo *repositories.TransferRepository,
	docRepo *repositories.DocumentRepository,
	reviewRepo *repositories.ReviewRepository,
	infoRepo *repositories.InfoRequestRepository,
	tokenService *TokenService,
	validator *ValidationService,
	store storage.Store,
) *SubmissionService {
	return &SubmissionService{
		transferRepo: transferRepo,
		docRepo:      docRepo,
		reviewRepo:   reviewRepo,
		infoRepo:     infoRepo,
		tokenService: tokenService,
		validator:    validator,
		store:        store,
	}
}

// SubmitInput is the public ownership form payload
type SubmitInput struct {
	SaleCompletionDate string `json:"sale_completion_date"`
	Proprietor1        string `json:"proprietor_1"`
	Proprietor2        string `json:"proprietor_2,omitempty"`
	Proprietor3        string `json:"proprietor_3,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Mobile             string `json:"mobile,omitempty"`
	Email              string `json:"email"`
	PostalAddress      string `json:"postal_address"`
	EvidenceType       string `json:"evidence_type,omitempty"`
}

// normalize produces the canonical payload representation used for
// no-op resubmission detection
func (in *SubmitInput) normalize() string {
	fields := []string{
		strings.TrimSpace(in.SaleCompletionDate),
		strings.TrimSpace(in.Proprietor1),
		strings.TrimSpace(in.Proprietor2),
		strings.TrimSpace(in.Proprietor3),
		strings.TrimSpace(in.Phone),
		strings.TrimSpace(in.Mobile),
		strings.ToLower(strings.TrimSpace(in.Email)),
		strings.TrimSpace(in.PostalAddress),
		strings.TrimSpace(in.EvidenceType),
	}
	sum := sha256.Sum256([]byte(strings.Join(fields, "\x1f")))
	return hex.EncodeToString(sum[:])
}

// SubmitOutput is the public submit result
type SubmitOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Submit records the homeowner's form. An invalid token yields a generic
// failure value, not an error. Identical payloads against an already
// submitted transfer are no-ops that append nothing.
func (s *SubmissionService) Submit(ctx context.Context, tokenValue string, input *SubmitInput) (*SubmitOutput, error) {
	validation, err := s.tokenService.Validate(ctx, tokenValue)
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return &SubmitOutput{Success: false, Message: genericSubmitFailure}, nil
	}

	transfer := validation.Transfer
	hash := input.normalize()

	if transfer.Status == domain.StatusSubmitted && transfer.SubmissionHash == hash {
		return &SubmitOutput{Success: true, Message: "Your details have already been received and are awaiting review."}, nil
	}

	action := domain.ActionSubmit
	fromStatus := transfer.Status
	var openRequest *models.InfoRequest

	switch transfer.Status {
	case domain.StatusPending, domain.StatusExtended:
		transfer.Status = domain.StatusSubmitted
	case domain.StatusSubmitted:
		// resubmission with changed payload keeps the status
	case domain.StatusNeedsInfo:
		openRequest, err = s.infoRepo.GetOpenByTransferID(ctx, transfer.ID)
		if err != nil {
			return nil, err
		}
		if openRequest == nil {
			return nil, domain.ErrNoOpenInfoRequest
		}
		action = domain.ActionRespondInfo
		transfer.Status = domain.StatusUnderReview
	default:
		return &SubmitOutput{Success: false, Message: genericSubmitFailure}, nil
	}

	if err := s.merge(transfer, input); err != nil {
		return nil, err
	}
	transfer.SubmissionHash = hash
	now := time.Now()
	if transfer.SubmittedAt == nil {
		transfer.SubmittedAt = &now
	}

	// full re-validation on every (re)submission
	result := s.validator.Run(transfer, transfer.Site)
	score := result.OverallScore
	transfer.ValidationScore = &score

	ok, err := s.transferRepo.UpdateCAS(ctx, transfer)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, _ := s.transferRepo.GetByID(ctx, transfer.ID)
		actual := domain.Status("")
		if current != nil {
			actual = current.Status
		}
		return nil, &domain.ConflictError{TransferID: transfer.ID, Expected: fromStatus, Actual: actual}
	}

	if openRequest != nil {
		openRequest.RespondedAt = &now
		openRequest.Response = "homeowner resubmitted the ownership form"
		if err := s.infoRepo.Update(ctx, openRequest); err != nil {
			return nil, err
		}
	}

	notes := fmt.Sprintf("form submitted (compliance score %d)", score)
	if action == domain.ActionRespondInfo {
		notes = fmt.Sprintf("homeowner responded to info request (compliance score %d)", score)
	} else if fromStatus == domain.StatusSubmitted {
		notes = fmt.Sprintf("form resubmitted with changes (compliance score %d)", score)
	}
	review := &models.TransferReview{
		TransferID: transfer.ID,
		Action:     action,
		FromStatus: fromStatus,
		ToStatus:   transfer.Status,
		Notes:      notes,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	return &SubmitOutput{Success: true, Message: "Thank you, your details have been submitted for review."}, nil
}

// merge copies the form payload onto the transfer
func (s *SubmissionService) merge(transfer *models.Transfer, input *SubmitInput) error {
	if strings.TrimSpace(input.SaleCompletionDate) != "" {
		date, err := time.Parse("2006-01-02", strings.TrimSpace(input.SaleCompletionDate))
		if err != nil {
			return &domain.FieldError{Field: "sale_completion_date", Message: "invalid date format, use YYYY-MM-DD"}
		}
		transfer.SaleCompletionDate = &date
	}
	transfer.Proprietor1 = strings.TrimSpace(input.Proprietor1)
	transfer.Proprietor2 = strings.TrimSpace(input.Proprietor2)
	transfer.Proprietor3 = strings.TrimSpace(input.Proprietor3)
	transfer.Phone = strings.TrimSpace(input.Phone)
	transfer.Mobile = strings.TrimSpace(input.Mobile)
	transfer.FormEmail = strings.TrimSpace(input.Email)
	transfer.PostalAddress = strings.TrimSpace(input.PostalAddress)
	if input.EvidenceType != "" {
		transfer.EvidenceType = strings.TrimSpace(input.EvidenceType)
	}
	return nil
}

// UploadInput is one evidence file
type UploadInput struct {
	FileName     string
	ContentType  string
	DocumentType string
	Data         []byte
}

// UploadDocument stores an evidence file against the transfer the token
// scopes. Allowed only while the homeowner still owes material: pending,
// extended, submitted or needs_info.
func (s *SubmissionService) UploadDocument(ctx context.Context, tokenValue string, input *UploadInput) (*models.TransferDocument, error) {
	validation, err := s.tokenService.Validate(ctx, tokenValue)
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return nil, domain.ErrUploadNotAllowed
	}

	transfer := validation.Transfer
	switch transfer.Status {
	case domain.StatusPending, domain.StatusExtended, domain.StatusSubmitted, domain.StatusNeedsInfo:
	default:
		return nil, domain.ErrUploadNotAllowed
	}

	if len(input.Data) == 0 {
		return nil, &domain.FieldError{Field: "file", Message: "uploaded file is empty"}
	}

	storedPath, err := s.store.Save(input.FileName, input.Data)
	if err != nil {
		return nil, err
	}

	doc := &models.TransferDocument{
		TransferID:   transfer.ID,
		DocumentType: input.DocumentType,
		FileName:     input.FileName,
		StoredPath:   storedPath,
		ContentType:  input.ContentType,
		SizeBytes:    int64(len(input.Data)),
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	if !transfer.EvidenceUploaded {
		transfer.EvidenceUploaded = true
		if input.DocumentType != "" && transfer.EvidenceType == "" {
			transfer.EvidenceType = input.DocumentType
		}
		if _, err := s.transferRepo.UpdateCAS(ctx, transfer); err != nil {
			return nil, err
		}

		review := &models.TransferReview{
			TransferID: transfer.ID,
			Action:     domain.ActionUpload,
			FromStatus: transfer.Status,
			ToStatus:   transfer.Status,
			Notes:      fmt.Sprintf("first evidence document uploaded (%s)", input.FileName),
		}
		if err := s.reviewRepo.Create(ctx, review); err != nil {
			return nil, err
		}
	}

	return doc, nil
}
