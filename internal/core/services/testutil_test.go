package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"solarhub-transferdesk/internal/adapters/persistence/models"
	"solarhub-transferdesk/internal/adapters/persistence/repositories"
	"solarhub-transferdesk/internal/config"
	"solarhub-transferdesk/internal/pkg/storage"
)

// stubProvisioner stands in for the external account system
type stubProvisioner struct {
	mu    sync.Mutex
	fail  bool
	calls int
}

func (p *stubProvisioner) Provision(_ context.Context, _ *models.Transfer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.fail {
		return errors.New("provisioning backend unavailable")
	}
	return nil
}

// stubSender collects outbound emails instead of delivering them
type stubSender struct {
	mu   sync.Mutex
	sent []string
}

func (s *stubSender) Send(recipient, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, recipient)
	return nil
}

type testEnv struct {
	db               *gorm.DB
	cfg              *config.Config
	transferRepo     *repositories.TransferRepository
	reviewRepo       *repositories.ReviewRepository
	docRepo          *repositories.DocumentRepository
	infoRepo         *repositories.InfoRequestRepository
	notificationRepo *repositories.NotificationRepository
	userRepo         repositories.UserRepository
	siteRepo         repositories.SiteRepository

	tokens      *TokenService
	submissions *SubmissionService
	reviews     *ReviewService
	analytics   *AnalyticsService
	expiry      *ExpiryService
	provisioner *stubProvisioner
	sender      *stubSender
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a fresh connection would get a fresh in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))

	cfg := &config.Config{
		AppMode: "development",
		Transfer: config.TransferConfig{
			TokenDays:               14,
			UrgentDays:              3,
			InfoRequestDeadlineDays: 7,
			SweepMinutes:            60,
		},
		Upload: config.UploadConfig{
			Dir:         t.TempDir(),
			MaxUploadMB: 10,
		},
		JWT: config.JWTConfig{
			Secret:          "test-secret",
			AccessTokenMins: 15,
		},
	}

	env := &testEnv{
		db:               db,
		cfg:              cfg,
		transferRepo:     repositories.NewTransferRepository(db),
		reviewRepo:       repositories.NewReviewRepository(db),
		docRepo:          repositories.NewDocumentRepository(db),
		infoRepo:         repositories.NewInfoRequestRepository(db),
		notificationRepo: repositories.NewNotificationRepository(db),
		userRepo:         repositories.NewUserRepository(db),
		siteRepo:         repositories.NewSiteRepository(db),
		provisioner:      &stubProvisioner{},
		sender:           &stubSender{},
	}

	notify := NewNotificationService(env.notificationRepo, env.sender)
	validator := NewValidationService()
	store, err := storage.NewDiskStore(cfg.Upload.Dir)
	require.NoError(t, err)

	env.tokens = NewTokenService(env.transferRepo, env.siteRepo, env.reviewRepo, notify, cfg)
	env.submissions = NewSubmissionService(
		env.transferRepo, env.docRepo, env.reviewRepo, env.infoRepo, env.tokens, validator, store,
	)
	env.reviews = NewReviewService(
		env.transferRepo, env.reviewRepo, env.infoRepo, env.userRepo,
		validator, env.provisioner, notify, cfg,
	)
	env.analytics = NewAnalyticsService(env.transferRepo, env.reviewRepo, cfg)
	env.expiry = NewExpiryService(env.transferRepo, env.reviewRepo, cfg)

	return env
}

func (e *testEnv) createSite(t *testing.T, name string) *models.Site {
	t.Helper()
	site := &models.Site{
		Name:        name,
		Address:     "12 Sunny Close, Exeter",
		OwnerEmail:  "previous.owner@example.com",
		InstallDate: time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, e.siteRepo.Create(context.Background(), site))
	return site
}

func (e *testEnv) createStaff(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@solarhub.example",
		Password: "not-a-real-hash",
		Role:     "OFFICER",
		IsActive: true,
	}
	require.NoError(t, e.userRepo.Create(context.Background(), user))
	return user
}

func (e *testEnv) issueTransfer(t *testing.T, site *models.Site, staff *models.User) *models.Transfer {
	t.Helper()
	transfer, err := e.tokens.Issue(context.Background(), &IssueInput{
		SiteID:         site.ID,
		HomeownerEmail: "new.owner@example.com",
	}, staff.ID)
	require.NoError(t, err)
	return transfer
}

// validSubmission is a payload that passes every validation check once
// evidence has been uploaded
func validSubmission() *SubmitInput {
	return &SubmitInput{
		SaleCompletionDate: "2024-03-15",
		Proprietor1:        "Jordan Blake",
		Phone:              "01392 123456",
		Mobile:             "+44 7700 900123",
		Email:              "new.owner@example.com",
		PostalAddress:      "12 Sunny Close, Exeter, EX1 1AA",
		EvidenceType:       "land_registry",
	}
}

// uploadEvidence pushes one evidence file through the public upload path
func (e *testEnv) uploadEvidence(t *testing.T, transfer *models.Transfer) {
	t.Helper()
	_, err := e.submissions.UploadDocument(context.Background(), transfer.UniqueToken, &UploadInput{
		FileName:     "title-deed.pdf",
		ContentType:  "application/pdf",
		DocumentType: "land_registry",
		Data:         []byte("%PDF-1.4 test"),
	})
	require.NoError(t, err)
}

// submitValid uploads evidence and submits a fully valid form
func (e *testEnv) submitValid(t *testing.T, transfer *models.Transfer) {
	t.Helper()
	e.uploadEvidence(t, transfer)
	out, err := e.submissions.Submit(context.Background(), transfer.UniqueToken, validSubmission())
	require.NoError(t, err)
	require.True(t, out.Success)
}

// toUnderReview walks a freshly issued transfer to under_review
func (e *testEnv) toUnderReview(t *testing.T, transfer *models.Transfer, staff *models.User) *models.Transfer {
	t.Helper()
	e.submitValid(t, transfer)

	_, err := e.reviews.Assign(context.Background(), transfer.ID, &AssignInput{UserID: &staff.ID}, staff.ID)
	require.NoError(t, err)

	updated, err := e.reviews.StartReview(context.Background(), transfer.ID, staff.ID)
	require.NoError(t, err)
	return updated
}

// reload fetches the current persisted state of a transfer
func (e *testEnv) reload(t *testing.T, id uint) *models.Transfer {
	t.Helper()
	transfer, err := e.transferRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return transfer
}

// forceExpiry rewinds the stored token expiry without touching the version
func (e *testEnv) forceExpiry(t *testing.T, id uint) {
	t.Helper()
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, e.db.Model(&models.Transfer{}).
		Where("id = ?", id).
		Update("token_expires_at", past).Error)
}

// auditActions returns the trail actions oldest first
func (e *testEnv) auditActions(t *testing.T, id uint) []string {
	t.Helper()
	reviews, err := e.reviewRepo.GetByTransferID(context.Background(), id)
	require.NoError(t, err)
	actions := make([]string, len(reviews))
	for i, r := range reviews {
		actions[len(reviews)-1-i] = string(r.Action)
	}
	return actions
}
