package models

import (
	"time"

	"solarhub-transferdesk/internal/core/domain"
)

// UserResponse DTO
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// TransferResponse DTO. Derived fields are computed against the clock the
// handler observed, never read from stored columns.
type TransferResponse struct {
	ID                 uint                   `json:"id"`
	SiteID             uint                   `json:"site_id"`
	SiteName           string                 `json:"site_name,omitempty"`
	SiteAddress        string                 `json:"site_address,omitempty"`
	Status             domain.Status          `json:"status"`
	HomeownerEmail     string                 `json:"homeowner_email"`
	TokenCreatedAt     time.Time              `json:"token_created_at"`
	TokenExpiresAt     time.Time              `json:"token_expires_at"`
	TokenExtendedCount int                    `json:"token_extended_count"`
	DaysUntilExpiry    int                    `json:"days_until_expiry"`
	IsUrgent           bool                   `json:"is_urgent"`
	CanBeExtended      bool                   `json:"can_be_extended"`
	SaleCompletionDate *time.Time             `json:"sale_completion_date"`
	Proprietor1        string                 `json:"proprietor_1,omitempty"`
	Proprietor2        string                 `json:"proprietor_2,omitempty"`
	Proprietor3        string                 `json:"proprietor_3,omitempty"`
	Phone              string                 `json:"phone,omitempty"`
	Mobile             string                 `json:"mobile,omitempty"`
	FormEmail          string                 `json:"form_email,omitempty"`
	PostalAddress      string                 `json:"postal_address,omitempty"`
	EvidenceType       string                 `json:"evidence_type,omitempty"`
	EvidenceUploaded   bool                   `json:"evidence_uploaded"`
	SubmittedAt        *time.Time             `json:"submitted_at"`
	AssignedToID       *uint                  `json:"assigned_to_id"`
	AssignedToName     string                 `json:"assigned_to_name,omitempty"`
	ReviewedAt         *time.Time             `json:"reviewed_at"`
	ApprovedAt         *time.Time             `json:"approved_at"`
	CompletedAt        *time.Time             `json:"completed_at"`
	RejectionReason    domain.RejectionReason `json:"rejection_reason,omitempty"`
	RejectionNotes     string                 `json:"rejection_notes,omitempty"`
	AccountCreated     bool                   `json:"account_created"`
	WelcomeEmailSent   bool                   `json:"welcome_email_sent"`
	ValidationScore    *int                   `json:"validation_score"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

func (t *Transfer) ToResponse(now time.Time, urgentDays int) *TransferResponse {
	resp := &TransferResponse{
		ID:                 t.ID,
		SiteID:             t.SiteID,
		Status:             t.Status,
		HomeownerEmail:     t.HomeownerEmail,
		TokenCreatedAt:     t.TokenCreatedAt,
		TokenExpiresAt:     t.TokenExpiresAt,
		TokenExtendedCount: t.TokenExtendedCount,
		DaysUntilExpiry:    t.DaysUntilExpiry(now),
		IsUrgent:           t.IsUrgent(now, urgentDays),
		CanBeExtended:      t.CanBeExtended(),
		SaleCompletionDate: t.SaleCompletionDate,
		Proprietor1:        t.Proprietor1,
		Proprietor2:        t.Proprietor2,
		Proprietor3:        t.Proprietor3,
		Phone:              t.Phone,
		Mobile:             t.Mobile,
		FormEmail:          t.FormEmail,
		PostalAddress:      t.PostalAddress,
		EvidenceType:       t.EvidenceType,
		EvidenceUploaded:   t.EvidenceUploaded,
		SubmittedAt:        t.SubmittedAt,
		AssignedToID:       t.AssignedToID,
		ReviewedAt:         t.ReviewedAt,
		ApprovedAt:         t.ApprovedAt,
		CompletedAt:        t.CompletedAt,
		RejectionReason:    t.RejectionReason,
		RejectionNotes:     t.RejectionNotes,
		AccountCreated:     t.AccountCreated,
		WelcomeEmailSent:   t.WelcomeEmailSent,
		ValidationScore:    t.ValidationScore,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}

	if t.Site != nil {
		resp.SiteName = t.Site.Name
		resp.SiteAddress = t.Site.Address
	}
	if t.AssignedTo != nil {
		resp.AssignedToName = t.AssignedTo.Username
	}

	return resp
}

// DocumentResponse DTO
type DocumentResponse struct {
	ID           uint      `json:"id"`
	TransferID   uint      `json:"transfer_id"`
	DocumentType string    `json:"document_type"`
	FileName     string    `json:"file_name"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

func (d *TransferDocument) ToResponse() *DocumentResponse {
	return &DocumentResponse{
		ID:           d.ID,
		TransferID:   d.TransferID,
		DocumentType: d.DocumentType,
		FileName:     d.FileName,
		ContentType:  d.ContentType,
		SizeBytes:    d.SizeBytes,
		UploadedAt:   d.UploadedAt,
	}
}

// ReviewResponse DTO
type ReviewResponse struct {
	ID           uint          `json:"id"`
	TransferID   uint          `json:"transfer_id"`
	Action       domain.Action `json:"action"`
	FromStatus   domain.Status `json:"from_status,omitempty"`
	ToStatus     domain.Status `json:"to_status,omitempty"`
	ReviewerName string        `json:"reviewer_name,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

func (r *TransferReview) ToResponse() *ReviewResponse {
	resp := &ReviewResponse{
		ID:         r.ID,
		TransferID: r.TransferID,
		Action:     r.Action,
		FromStatus: r.FromStatus,
		ToStatus:   r.ToStatus,
		Notes:      r.Notes,
		CreatedAt:  r.CreatedAt,
	}
	if r.Reviewer != nil {
		resp.ReviewerName = r.Reviewer.Username
	}
	return resp
}
