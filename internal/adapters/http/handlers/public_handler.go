package handlers

import (
	"errors"
	"io"
	"time"

	"solarhub-transferdesk/internal/config"
	"solarhub-transferdesk/internal/core/domain"
	"solarhub-transferdesk/internal/core/services"
	"solarhub-transferdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PublicHandler handles the token-scoped homeowner endpoints. Nothing here
// requires authentication; the token in the path is the only credential, and
// failure responses never reveal why a token is unusable beyond the coarse
// reason codes.
type PublicHandler struct {
	tokenService      *services.TokenService
	submissionService *services.SubmissionService
	cfg               *config.Config
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(
	tokenService *services.TokenService,
	submissionService *services.SubmissionService,
	cfg *config.Config,
) *PublicHandler {
	return &PublicHandler{
		tokenService:      tokenService,
		submissionService: submissionService,
		cfg:               cfg,
	}
}

// ValidateToken checks a transfer token
// @Summary Validate token
// @Description Check whether a transfer token is usable
// @Tags Public
// @Accept json
// @Produce json
// @Param token path string true "Transfer token"
// @Success 200 {object} response.Response
// @Router /public/transfers/validate/{token} [get]
func (h *PublicHandler) ValidateToken(c *fiber.Ctx) error {
	result, err := h.tokenService.Validate(c.Context(), c.Params("token"))
	if err != nil {
		return response.InternalServerError(c, "Failed to validate token")
	}

	if !result.Valid {
		return response.Success(c, "Token validated", fiber.Map{
			"valid":  false,
			"reason": result.Reason,
		})
	}

	transfer := result.Transfer
	now := time.Now()
	return response.Success(c, "Token validated", fiber.Map{
		"valid":         true,
		"contact_email": transfer.HomeownerEmail,
		"transfer": fiber.Map{
			"site_name":         transfer.Site.Name,
			"site_address":      transfer.Site.Address,
			"status":            transfer.Status,
			"days_until_expiry": domain.DaysUntilExpiry(transfer.TokenExpiresAt, now),
			"expires_at":        transfer.TokenExpiresAt,
		},
	})
}

// Submit records the homeowner's transfer form
// @Summary Submit transfer form
// @Description Submit or resubmit ownership details against a token
// @Tags Public
// @Accept json
// @Produce json
// @Param token path string true "Transfer token"
// @Param body body services.SubmitInput true "Submission data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /public/transfers/submit/{token} [post]
func (h *PublicHandler) Submit(c *fiber.Ctx) error {
	var req services.SubmitInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.submissionService.Submit(c.Context(), c.Params("token"), &req)
	if err != nil {
		var fieldErr *domain.FieldError
		var conflictErr *domain.ConflictError
		switch {
		case errors.As(err, &fieldErr):
			return response.BadRequest(c, fieldErr.Error())
		case errors.As(err, &conflictErr):
			return response.Conflict(c, "Submission raced another update, please retry")
		default:
			return response.InternalServerError(c, "Failed to submit transfer")
		}
	}

	if !result.Success {
		// same generic body for every unusable-token case
		return response.BadRequest(c, result.Message)
	}

	return response.Success(c, result.Message, fiber.Map{
		"submitted": true,
	})
}

// UploadDocument stores one evidence file
// @Summary Upload evidence
// @Description Upload an evidence document against a token
// @Tags Public
// @Accept multipart/form-data
// @Produce json
// @Param token path string true "Transfer token"
// @Param file formData file true "Evidence file"
// @Param document_type formData string false "Document type"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 413 {object} response.Response
// @Router /public/transfers/upload/{token} [post]
func (h *PublicHandler) UploadDocument(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "Evidence file is required")
	}

	maxBytes := int64(h.cfg.Upload.MaxUploadMB) * 1024 * 1024
	if fileHeader.Size > maxBytes {
		return response.Error(c, fiber.StatusRequestEntityTooLarge, "File exceeds the upload size limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "Unable to read uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	if int64(len(data)) > maxBytes {
		return response.Error(c, fiber.StatusRequestEntityTooLarge, "File exceeds the upload size limit")
	}

	input := &services.UploadInput{
		FileName:     fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		DocumentType: c.FormValue("document_type"),
		Data:         data,
	}

	document, err := h.submissionService.UploadDocument(c.Context(), c.Params("token"), input)
	if err != nil {
		var fieldErr *domain.FieldError
		switch {
		case errors.Is(err, domain.ErrUploadNotAllowed):
			// same generic body whether the token is bad or the status forbids it
			return response.BadRequest(c, "Uploads are not available for this transfer link")
		case errors.As(err, &fieldErr):
			return response.BadRequest(c, fieldErr.Error())
		default:
			return response.InternalServerError(c, "Failed to store document")
		}
	}

	return response.Created(c, "Document uploaded successfully", fiber.Map{
		"document": document.ToResponse(),
	})
}
