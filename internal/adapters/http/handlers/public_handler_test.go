package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"solarhub-transferdesk/internal/adapters/persistence/models"
	"solarhub-transferdesk/internal/adapters/persistence/repositories"
	"solarhub-transferdesk/internal/config"
	"solarhub-transferdesk/internal/core/services"
	"solarhub-transferdesk/internal/pkg/storage"
)

// newPublicTestApp builds a fiber app with the public upload route over an
// in-memory database and returns it with one usable transfer token
func newPublicTestApp(t *testing.T) (*fiber.App, string) {
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
		Transfer: config.TransferConfig{TokenDays: 14, UrgentDays: 3},
		Upload:   config.UploadConfig{Dir: t.TempDir(), MaxUploadMB: 10},
	}

	transferRepo := repositories.NewTransferRepository(db)
	siteRepo := repositories.NewSiteRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	docRepo := repositories.NewDocumentRepository(db)
	infoRepo := repositories.NewInfoRequestRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	notify := services.NewNotificationService(notificationRepo, services.NewLogEmailSender())
	tokenService := services.NewTokenService(transferRepo, siteRepo, reviewRepo, notify, cfg)
	store, err := storage.NewDiskStore(cfg.Upload.Dir)
	require.NoError(t, err)
	submissionService := services.NewSubmissionService(
		transferRepo, docRepo, reviewRepo, infoRepo, tokenService, services.NewValidationService(), store,
	)

	site := &models.Site{
		Name:        "Sunny Close",
		Address:     "12 Sunny Close, Exeter",
		OwnerEmail:  "previous.owner@example.com",
		InstallDate: time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, siteRepo.Create(context.Background(), site))
	staff := &models.User{
		Username: "officer1",
		Email:    "officer1@solarhub.example",
		Password: "not-a-real-hash",
		Role:     "OFFICER",
		IsActive: true,
	}
	require.NoError(t, repositories.NewUserRepository(db).Create(context.Background(), staff))

	transfer, err := tokenService.Issue(context.Background(), &services.IssueInput{
		SiteID:         site.ID,
		HomeownerEmail: "new.owner@example.com",
	}, staff.ID)
	require.NoError(t, err)

	handler := NewPublicHandler(tokenService, submissionService, cfg)
	app := fiber.New()
	app.Post("/public/transfers/upload/:token", handler.UploadDocument)

	return app, transfer.UniqueToken
}

func multipartFile(t *testing.T, fieldName, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadEndpointAcceptsEvidence(t *testing.T) {
	app, token := newPublicTestApp(t)

	body, contentType := multipartFile(t, "file", "title-deed.pdf", []byte("%PDF-1.4 test"))
	req := httptest.NewRequest("POST", "/public/transfers/upload/"+token, body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestUploadEndpointRejectsEmptyFile(t *testing.T) {
	app, token := newPublicTestApp(t)

	body, contentType := multipartFile(t, "file", "empty.pdf", nil)
	req := httptest.NewRequest("POST", "/public/transfers/upload/"+token, body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "uploaded file is empty")
}

func TestUploadEndpointRejectsMissingFile(t *testing.T) {
	app, token := newPublicTestApp(t)

	req := httptest.NewRequest("POST", "/public/transfers/upload/"+token, nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
