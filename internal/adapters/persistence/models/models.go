package models

import (
	"time"

	"gorm.io/gorm"

	"solarhub-transferdesk/internal/core/domain"
)

// ============================================================
// Staff & Site Tables
// ============================================================

// User represents a staff user supplied by the identity provider
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'OFFICER'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Site represents a solar installation site. The transfer workflow references
// sites but never owns or mutates them.
type Site struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Address     string    `gorm:"size:255;not null" json:"address"`
	OwnerEmail  string    `gorm:"size:100" json:"owner_email"`
	InstallDate time.Time `gorm:"type:date" json:"install_date"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Site) TableName() string {
	return "sites"
}

// ============================================================
// Transfer Aggregate
// ============================================================

// Transfer is the aggregate root of one ownership handoff. Version backs the
// optimistic compare-and-swap that serializes writes per transfer.
type Transfer struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	SiteID      uint          `gorm:"not null;index" json:"site_id"`
	UniqueToken string        `gorm:"size:64;uniqueIndex;not null" json:"-"`
	Status      domain.Status `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Version     uint          `gorm:"not null;default:0" json:"-"`

	// Token lifecycle
	HomeownerEmail     string    `gorm:"size:100;not null" json:"homeowner_email"`
	TokenCreatedAt     time.Time `gorm:"not null" json:"token_created_at"`
	TokenExpiresAt     time.Time `gorm:"not null;index" json:"token_expires_at"`
	TokenExtendedCount int       `gorm:"not null;default:0" json:"token_extended_count"`

	// Homeowner submission (all optional until submit)
	SaleCompletionDate *time.Time `gorm:"type:date" json:"sale_completion_date"`
	Proprietor1        string     `gorm:"size:100" json:"proprietor_1"`
	Proprietor2        string     `gorm:"size:100" json:"proprietor_2"`
	Proprietor3        string     `gorm:"size:100" json:"proprietor_3"`
	Phone              string     `gorm:"size:30" json:"phone"`
	Mobile             string     `gorm:"size:30" json:"mobile"`
	FormEmail          string     `gorm:"size:100" json:"form_email"`
	PostalAddress      string     `gorm:"size:255" json:"postal_address"`
	EvidenceType       string     `gorm:"size:50" json:"evidence_type"`
	EvidenceUploaded   bool       `gorm:"default:false" json:"evidence_uploaded"`
	SubmissionHash     string     `gorm:"size:64" json:"-"`
	SubmittedAt        *time.Time `json:"submitted_at"`

	// Staff side
	AssignedToID *uint      `gorm:"index" json:"assigned_to_id"`
	CreatedByID  uint       `gorm:"not null" json:"created_by_id"`
	ReviewedByID *uint      `json:"reviewed_by_id"`
	ReviewedAt   *time.Time `json:"reviewed_at"`
	ApprovedAt   *time.Time `json:"approved_at"`
	CompletedAt  *time.Time `json:"completed_at"`

	// Outcome
	RejectionReason  domain.RejectionReason `gorm:"size:30" json:"rejection_reason,omitempty"`
	RejectionNotes   string                 `gorm:"type:text" json:"rejection_notes,omitempty"`
	AccountCreated   bool                   `gorm:"default:false" json:"account_created"`
	WelcomeEmailSent bool                   `gorm:"default:false" json:"welcome_email_sent"`
	ValidationScore  *int                   `json:"validation_score"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Site          *Site                  `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	AssignedTo    *User                  `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	CreatedBy     *User                  `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	ReviewedBy    *User                  `gorm:"foreignKey:ReviewedByID" json:"reviewed_by,omitempty"`
	Documents     []TransferDocument     `gorm:"foreignKey:TransferID" json:"documents,omitempty"`
	Reviews       []TransferReview       `gorm:"foreignKey:TransferID" json:"reviews,omitempty"`
	Notifications []TransferNotification `gorm:"foreignKey:TransferID" json:"notifications,omitempty"`
	InfoRequests  []InfoRequest          `gorm:"foreignKey:TransferID" json:"info_requests,omitempty"`
}

func (Transfer) TableName() string {
	return "transfers"
}

// DaysUntilExpiry derives whole days remaining at now
func (t *Transfer) DaysUntilExpiry(now time.Time) int {
	return domain.DaysUntilExpiry(t.TokenExpiresAt, now)
}

// IsUrgent derives the urgency flag at now
func (t *Transfer) IsUrgent(now time.Time, urgentDays int) bool {
	return domain.IsUrgent(t.Status, t.TokenExpiresAt, now, urgentDays)
}

// CanBeExtended derives extension availability
func (t *Transfer) CanBeExtended() bool {
	return domain.CanBeExtended(t.Status)
}

// TokenUsable derives effective public-token validity at now
func (t *Transfer) TokenUsable(now time.Time) bool {
	return domain.TokenUsable(t.Status, t.TokenExpiresAt, now)
}

// TransferDocument is an uploaded evidence file, owned by its transfer and
// immutable once created except for metadata.
type TransferDocument struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TransferID   uint      `gorm:"not null;index" json:"transfer_id"`
	DocumentType string    `gorm:"size:50" json:"document_type"`
	FileName     string    `gorm:"size:255;not null" json:"file_name"`
	StoredPath   string    `gorm:"size:255;not null" json:"-"`
	ContentType  string    `gorm:"size:100" json:"content_type"`
	SizeBytes    int64     `gorm:"not null" json:"size_bytes"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploaded_at"`

	Transfer *Transfer `gorm:"foreignKey:TransferID" json:"transfer,omitempty"`
}

func (TransferDocument) TableName() string {
	return "transfer_documents"
}

// TransferReview is one append-only audit entry per staff or system action.
// Rows are never mutated or deleted.
type TransferReview struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	TransferID uint          `gorm:"not null;index" json:"transfer_id"`
	Action     domain.Action `gorm:"size:30;not null" json:"action"`
	FromStatus domain.Status `gorm:"size:20" json:"from_status"`
	ToStatus   domain.Status `gorm:"size:20" json:"to_status"`
	ReviewerID *uint         `json:"reviewer_id"`
	Notes      string        `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"created_at"`

	Transfer *Transfer `gorm:"foreignKey:TransferID" json:"transfer,omitempty"`
	Reviewer *User     `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

func (TransferReview) TableName() string {
	return "transfer_reviews"
}

// InfoRequest is a staff-initiated request for missing or clarifying
// information. At most one open (unresponded) request per transfer.
type InfoRequest struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	TransferID     uint       `gorm:"not null;index" json:"transfer_id"`
	RequestedByID  uint       `gorm:"not null" json:"requested_by_id"`
	Reason         string     `gorm:"type:text;not null" json:"reason"`
	SpecificFields string     `gorm:"size:255" json:"specific_fields"`
	Deadline       time.Time  `gorm:"not null" json:"deadline"`
	RespondedAt    *time.Time `json:"responded_at"`
	Response       string     `gorm:"type:text" json:"response"`
	ReminderCount  int        `gorm:"not null;default:0" json:"reminder_count"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Transfer    *Transfer `gorm:"foreignKey:TransferID" json:"transfer,omitempty"`
	RequestedBy *User     `gorm:"foreignKey:RequestedByID" json:"requested_by,omitempty"`
}

func (InfoRequest) TableName() string {
	return "info_requests"
}

// IsOpen reports whether the homeowner has not yet responded
func (r *InfoRequest) IsOpen() bool {
	return r.RespondedAt == nil
}

// Notification types
const (
	NotifyInvitation  = "invitation"
	NotifyWelcome     = "welcome"
	NotifyRejection   = "rejection"
	NotifyInfoRequest = "info_request"
	NotifyReminder    = "reminder"
)

// TransferNotification records the intent of one outbound message.
// Write-once; delivery failure never removes or mutates the row.
type TransferNotification struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TransferID uint      `gorm:"not null;index" json:"transfer_id"`
	Type       string    `gorm:"size:30;not null" json:"type"`
	Recipient  string    `gorm:"size:100;not null" json:"recipient"`
	Subject    string    `gorm:"size:255" json:"subject"`
	SenderID   *uint     `json:"sender_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Transfer *Transfer `gorm:"foreignKey:TransferID" json:"transfer,omitempty"`
	Sender   *User     `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (TransferNotification) TableName() string {
	return "transfer_notifications"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates or updates all workflow tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Site{},
		&Transfer{},
		&TransferDocument{},
		&TransferReview{},
		&InfoRequest{},
		&TransferNotification{},
	)
}
