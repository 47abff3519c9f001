package repositories

import (
	"context"
	"time"

	"solarhub-transferdesk/internal/adapters/persistence/models"
	"solarhub-transferdesk/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransferFilter narrows transfer listings
type TransferFilter struct {
	Status     *domain.Status
	AssignedTo *uint
	Unassigned bool
	Urgent     bool
	UrgentDays int
	Search     string
	Now        time.Time
}

// TransferRepository handles transfer aggregate data access
type TransferRepository struct {
	db *gorm.DB
}

// NewTransferRepository creates a new transfer repository
func NewTransferRepository(db *gorm.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

// Create creates a new transfer
func (r *TransferRepository) Create(ctx context.Context, transfer *models.Transfer) error {
	return r.db.WithContext(ctx).Create(transfer).Error
}

// GetByID gets a transfer by ID with relations
func (r *TransferRepository) GetByID(ctx context.Context, id uint) (*models.Transfer, error) {
	var transfer models.Transfer
	err := r.db.WithContext(ctx).
		Preload("Site").
		Preload("AssignedTo").
		Preload("CreatedBy").
		Preload("ReviewedBy").
		Preload("Documents").
		Preload("InfoRequests").
		First(&transfer, id).Error
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

// GetByToken gets a transfer by its public token
func (r *TransferRepository) GetByToken(ctx context.Context, token string) (*models.Transfer, error) {
	var transfer models.Transfer
	err := r.db.WithContext(ctx).
		Preload("Site").
		Preload("Documents").
		Preload("InfoRequests").
		Where("unique_token = ?", token).
		First(&transfer).Error
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

// CountActiveBySite counts non-terminal transfers for a site.
// Rejected, completed and expired transfers do not block re-initiation.
func (r *TransferRepository) CountActiveBySite(ctx context.Context, siteID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Transfer{}).
		Where("site_id = ? AND status NOT IN ?", siteID,
			[]domain.Status{domain.StatusRejected, domain.StatusCompleted, domain.StatusExpired}).
		Count(&count).Error
	return count, err
}

// List lists transfers matching the filter with pagination
func (r *TransferRepository) List(ctx context.Context, filter *TransferFilter, offset, limit int) ([]*models.Transfer, int64, error) {
	var transfers []*models.Transfer
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Transfer{})

	if filter != nil {
		if filter.Status != nil {
			q = q.Where("transfers.status = ?", *filter.Status)
		}
		if filter.AssignedTo != nil {
			q = q.Where("transfers.assigned_to_id = ?", *filter.AssignedTo)
		}
		if filter.Unassigned {
			q = q.Where("transfers.assigned_to_id IS NULL")
		}
		if filter.Urgent {
			cutoff := filter.Now.Add(time.Duration(filter.UrgentDays) * 24 * time.Hour)
			q = q.Where("transfers.token_expires_at > ? AND transfers.token_expires_at < ?", filter.Now, cutoff).
				Where("transfers.status NOT IN ?",
					[]domain.Status{domain.StatusRejected, domain.StatusCompleted, domain.StatusExpired})
		}
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			q = q.Joins("LEFT JOIN sites ON sites.id = transfers.site_id").
				Where("sites.name LIKE ? OR transfers.homeowner_email LIKE ? OR transfers.form_email LIKE ?", like, like, like)
		}
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.
		Preload("Site").
		Preload("AssignedTo").
		Order("transfers.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&transfers).Error

	return transfers, total, err
}

// ListExpiryCandidates lists transfers whose token has passed its expiry but
// whose stored status has not been swept yet
func (r *TransferRepository) ListExpiryCandidates(ctx context.Context, now time.Time) ([]*models.Transfer, error) {
	var transfers []*models.Transfer
	err := r.db.WithContext(ctx).
		Where("token_expires_at <= ? AND status IN ?", now,
			[]domain.Status{domain.StatusPending, domain.StatusSubmitted, domain.StatusExtended}).
		Find(&transfers).Error
	return transfers, err
}

// ListSince lists transfers created within a trailing window (analytics reads)
func (r *TransferRepository) ListSince(ctx context.Context, since time.Time) ([]*models.Transfer, error) {
	var transfers []*models.Transfer
	err := r.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&transfers).Error
	return transfers, err
}

// ListAll lists every transfer (dashboard rollups)
func (r *TransferRepository) ListAll(ctx context.Context) ([]*models.Transfer, error) {
	var transfers []*models.Transfer
	err := r.db.WithContext(ctx).Find(&transfers).Error
	return transfers, err
}

// UpdateCAS persists the transfer iff nobody else updated it since it was
// read: the row's version must still equal the version the caller loaded.
// On success the version is bumped; returns false when the caller lost the
// race, with no write performed.
func (r *TransferRepository) UpdateCAS(ctx context.Context, transfer *models.Transfer) (bool, error) {
	expected := transfer.Version
	transfer.Version = expected + 1

	res := r.db.WithContext(ctx).Model(&models.Transfer{}).
		Where("id = ? AND version = ?", transfer.ID, expected).
		Select("*").
		Omit(clause.Associations, "id", "created_at").
		Updates(transfer)

	if res.Error != nil {
		transfer.Version = expected
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		transfer.Version = expected
		return false, nil
	}
	return true, nil
}

// ============================================================
// Owned collections
// ============================================================

// ReviewRepository handles the append-only audit trail
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create appends an audit entry. Entries are never updated or deleted.
func (r *ReviewRepository) Create(ctx context.Context, review *models.TransferReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// GetByTransferID gets the audit trail for a transfer, newest first
func (r *ReviewRepository) GetByTransferID(ctx context.Context, transferID uint) ([]*models.TransferReview, error) {
	var reviews []*models.TransferReview
	err := r.db.WithContext(ctx).
		Preload("Reviewer").
		Where("transfer_id = ?", transferID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	return reviews, err
}

// Recent gets the latest audit entries across all transfers
func (r *ReviewRepository) Recent(ctx context.Context, limit int) ([]*models.TransferReview, error) {
	var reviews []*models.TransferReview
	err := r.db.WithContext(ctx).
		Preload("Reviewer").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

// DocumentRepository handles uploaded evidence documents
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create stores document metadata
func (r *DocumentRepository) Create(ctx context.Context, doc *models.TransferDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// GetByTransferID gets all documents for a transfer
func (r *DocumentRepository) GetByTransferID(ctx context.Context, transferID uint) ([]*models.TransferDocument, error) {
	var docs []*models.TransferDocument
	err := r.db.WithContext(ctx).
		Where("transfer_id = ?", transferID).
		Order("uploaded_at ASC").
		Find(&docs).Error
	return docs, err
}

// CountByTransferID counts documents for a transfer
func (r *DocumentRepository) CountByTransferID(ctx context.Context, transferID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TransferDocument{}).
		Where("transfer_id = ?", transferID).
		Count(&count).Error
	return count, err
}

// InfoRequestRepository handles staff info requests
type InfoRequestRepository struct {
	db *gorm.DB
}

// NewInfoRequestRepository creates a new info request repository
func NewInfoRequestRepository(db *gorm.DB) *InfoRequestRepository {
	return &InfoRequestRepository{db: db}
}

// Create creates an info request
func (r *InfoRequestRepository) Create(ctx context.Context, req *models.InfoRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// GetOpenByTransferID gets the open (unresponded) request for a transfer,
// nil when none exists
func (r *InfoRequestRepository) GetOpenByTransferID(ctx context.Context, transferID uint) (*models.InfoRequest, error) {
	var req models.InfoRequest
	err := r.db.WithContext(ctx).
		Where("transfer_id = ? AND responded_at IS NULL", transferID).
		First(&req).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// Update updates an info request (closing it with a response, bumping reminders)
func (r *InfoRequestRepository) Update(ctx context.Context, req *models.InfoRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

// GetByTransferID gets all info requests for a transfer
func (r *InfoRequestRepository) GetByTransferID(ctx context.Context, transferID uint) ([]*models.InfoRequest, error) {
	var reqs []*models.InfoRequest
	err := r.db.WithContext(ctx).
		Where("transfer_id = ?", transferID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// NotificationRepository handles outbound message records
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create records a notification intent. Write-once.
func (r *NotificationRepository) Create(ctx context.Context, n *models.TransferNotification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// GetByTransferID gets notification records for a transfer
func (r *NotificationRepository) GetByTransferID(ctx context.Context, transferID uint) ([]*models.TransferNotification, error) {
	var ns []*models.TransferNotification
	err := r.db.WithContext(ctx).
		Where("transfer_id = ?", transferID).
		Order("created_at DESC").
		Find(&ns).Error
	return ns, err
}
