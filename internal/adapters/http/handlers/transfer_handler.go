package handlers

import (
	"errors"
	"strconv"
	"time"

	"solarhub-transferdesk/internal/adapters/persistence/models"
	"solarhub-transferdesk/internal/adapters/persistence/repositories"
	"solarhub-transferdesk/internal/config"
	"solarhub-transferdesk/internal/core/domain"
	"solarhub-transferdesk/internal/core/services"
	"solarhub-transferdesk/internal/pkg/pagination"
	"solarhub-transferdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TransferHandler handles staff transfer endpoints
type TransferHandler struct {
	tokenService  *services.TokenService
	reviewService *services.ReviewService
	cfg           *config.Config
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(
	tokenService *services.TokenService,
	reviewService *services.ReviewService,
	cfg *config.Config,
) *TransferHandler {
	return &TransferHandler{
		tokenService:  tokenService,
		reviewService: reviewService,
		cfg:           cfg,
	}
}

// transferError maps service errors to HTTP responses
func transferError(c *fiber.Ctx, err error, fallback string) error {
	var fieldErr *domain.FieldError
	var transitionErr *domain.InvalidTransitionError
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrTransferNotFound):
		return response.NotFound(c, "Transfer not found")
	case errors.Is(err, domain.ErrSiteNotFound):
		return response.NotFound(c, "Site not found")
	case errors.Is(err, domain.ErrDuplicateActiveTransfer):
		return response.Conflict(c, "Site already has an active transfer")
	case errors.Is(err, domain.ErrNotExtendable):
		return response.Conflict(c, "Transfer can no longer be extended")
	case errors.Is(err, domain.ErrOpenInfoRequestExists):
		return response.Conflict(c, "An open information request already exists")
	case errors.Is(err, domain.ErrNotAssigned):
		return response.Conflict(c, "Transfer must be assigned before review")
	case errors.Is(err, domain.ErrAccountNotProvisioned):
		return response.Conflict(c, "Homeowner account has not been provisioned")
	case errors.Is(err, domain.ErrValidationNotPassed):
		return response.UnprocessableEntity(c, "Validation has not passed; use override to approve anyway")
	case errors.As(err, &fieldErr):
		return response.BadRequest(c, fieldErr.Error())
	case errors.As(err, &transitionErr):
		return response.Conflict(c, transitionErr.Error())
	case errors.As(err, &conflictErr):
		return response.Conflict(c, "Transfer was modified concurrently, please reload and retry")
	default:
		return response.InternalServerError(c, fallback)
	}
}

func (h *TransferHandler) transferID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func (h *TransferHandler) toResponse(t *models.Transfer) *models.TransferResponse {
	return t.ToResponse(time.Now(), h.cfg.Transfer.UrgentDays)
}

// Create initiates a transfer
// @Summary Initiate transfer
// @Description Create a transfer for a site and issue its access token (Officer only)
// @Tags Transfers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.IssueInput true "Transfer data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var req services.IssueInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.SiteID == 0 {
		return response.BadRequest(c, "Site ID is required")
	}
	if req.HomeownerEmail == "" && !req.UseExistingEmail {
		return response.BadRequest(c, "Homeowner email is required unless using the site owner email")
	}

	staffID, _ := c.Locals("userID").(uint)

	transfer, err := h.tokenService.Issue(c.Context(), &req, staffID)
	if err != nil {
		return transferError(c, err, "Failed to initiate transfer")
	}

	return response.Created(c, "Transfer initiated successfully", fiber.Map{
		"transfer": h.toResponse(transfer),
		"token":    transfer.UniqueToken,
	})
}

// List lists transfers
// @Summary List transfers
// @Description List transfers with filters (Officer only)
// @Tags Transfers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param assigned_to query int false "Filter by assignee ID"
// @Param unassigned query bool false "Only unassigned transfers"
// @Param urgent query bool false "Only urgent transfers"
// @Param search query string false "Search site name or homeowner email"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	filter := &repositories.TransferFilter{
		Search:     c.Query("search"),
		Unassigned: c.Query("unassigned") == "true",
		Urgent:     c.Query("urgent") == "true",
		UrgentDays: h.cfg.Transfer.UrgentDays,
		Now:        time.Now(),
	}

	if raw := c.Query("status"); raw != "" {
		status := domain.Status(raw)
		if !domain.ValidStatus(status) {
			return response.BadRequest(c, "Unknown status filter")
		}
		filter.Status = &status
	}
	if raw := c.Query("assigned_to"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid assignee ID")
		}
		uid := uint(id)
		filter.AssignedTo = &uid
	}

	transfers, total, err := h.reviewService.List(c.Context(), &services.ListInput{
		Filter: filter,
		Offset: params.Offset,
		Limit:  params.Limit,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to list transfers")
	}

	items := make([]*models.TransferResponse, len(transfers))
	for i, t := range transfers {
		items[i] = h.toResponse(t)
	}

	return response.Success(c, "Transfers retrieved successfully", pagination.NewResponse(items, params, total))
}

// GetByID gets a transfer
// @Summary Get transfer
// @Description Get a transfer with its documents and reviews (Officer only)
// @Tags Transfers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transfer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	id, err := h.transferID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid transfer ID")
	}

	transfer, err := h.reviewService.GetByID(c.Context(), id)
	if err != nil {
		return transferError(c, err, "Failed to get transfer")
	}

	return response.Success(c, "Transfer retrieved successfully", fiber.Map{
		"transfer": h.toResponse(transfer),
	})
}

// ExtendToken extends a transfer's token
// @Summary Extend token
// @Description Push the token expiry forward (Officer only)
// @Tags Transfers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transfer ID"
// @Param body body services.ExtendInput true "Extension data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /transfers/{id}/extend [post]
func (h *TransferHandler) ExtendToken(c *fiber.Ctx) error {
	id, err := h.transferID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid transfer ID")
	}

	var req services.ExtendInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	staffID, _ := c.Locals("userID").(uint)

	transfer, err := h.tokenService.Extend(c.Context(), id, &req, staffID)
	if err != nil {
		return transferError(c, err, "Failed to extend token")
	}

	return response.Success(c, "Token extended successfully", fiber.Map{
		"transfer": h.toResponse(transfer),
	})
}

// Assign assigns a transfer to a staff user
// @Summary Assign transfer
// @Description Set or clear the transfer's assignee (Officer only)
// @Tags Transfers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transfer ID"
// @Param body body services.AssignInput true "Assignment data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /transfers/{id}/assign [put]
func (h *TransferHandler) Assign(c *fiber.Ctx) error {
	id, err := h.transferID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid transfer ID")
	}

	var req services.AssignInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	staffID, _ := c.Locals("userID").(uint)

	transfer, err := h.reviewService.Assign(c.Context(), id, &req, staffID)
	if err != nil {
		return transferError(c, err, "Failed to assign transfer")
	}

	return response.Success(c, "Transfer assigned successfully", fiber.Map{
		"transfer": h.toResponse(transfer),
	})
}

// StartReview moves a submitted transfer into review
// @Summary Start review
// @Description Move a submitted transfer to under review (Officer only)
// @Tags Transfers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transfer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /transfers/{id}/start-review [post]
func (h *TransferHandler) StartReview(c *fiber.Ctx) error {
	id, err := h.transferID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid transfer ID")
	}

	staffID, _ := c.Locals("userID").(uint)

	transfer, err := h.reviewService.StartReview(c.Context(), id, staffID)
	if err != nil {
		return transferError(c, err, "Failed to start review")
	}

	return response.Success(c, "Review started successfully", fiber.Map{
		"transfer": h.toResponse(transfer),
	})
}

// Approve approves a transfer
// @Summary Approve transfer
// @Description Approve a transfer under review (Officer only)
// @Tags Transfers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transfer ID"
// @Param body body services.ApproveInput true "Approval data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /transfers/{id}/approve [post]
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	id, err := h.transferID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid transfer ID")
	}

	var req services.ApproveInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	staffID, _ := c.Locals("userID").(uint)

	transfer, warnings, err := h.reviewService.Approve(c.Context(), id, &req, staffID)
	if err != nil {
		return transferError(c, err, "Failed to approve transfer")
	}

	data := fiber.Map{"transfer": h.toResponse(transfer)}
	if len(warnings) > 0 {
		return response.SuccessWithWarnings(c, "Transfer approved with warnings", data, warnings)
	}
	return response.Success(c, "Transfer approved successfully", data)
}

// Reject rejects a transfer
// @Summary Reject transfer
// @Description Reject a transfer under review; irreversible (Officer only)
// @Tags Transfers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transfer ID"
// @Param body body services.RejectInput true "Rejection data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /transfers/{id}/reject [post]
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	id, err := h.transferID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid transfer ID")
	}

	var req services.RejectInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	staffID, _ := c.Locals("userID").(uint)

	transfer, err := h.reviewService.Reject(c.Context(), id, &req, staffID)
	if err != nil {
		return transferError(c, err, "Failed to reject transfer")
	}

	return response.Success(c, "Transfer rejected", fiber.Map{
		"transfer": h.toResponse(transfer),
	})
}

// RequestInfo asks the homeowner for more information
// @Summary Request information
// @Description Request missing or clarifying information from the homeowner (Officer only)
// @Tags Transfers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transfer ID"
// @Param body body services.RequestInfoInput true "Request data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /transfers/{id}/request-info [post]
func (h *TransferHandler) RequestInfo(c *fiber.Ctx) error {
	id, err := h.transferID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid transfer ID")
	}

	var req services.RequestInfoInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	staffID, _ := c.Locals("userID").(uint)

	request, err := h.reviewService.RequestInfo(c.Context(), id, &req, staffID)
	if err != nil {
		return transferError(c, err, "Failed to request information")
	}

	return response.Created(c, "Information requested successfully", fiber.Map{
		"info_request": request,
	})
}

// Complete finalizes an approved transfer
// @Summary Complete transfer
// @Description Mark an approved transfer completed (Officer only)
// @Tags Transfers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transfer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /transfers/{id}/complete [post]
func (h *TransferHandler) Complete(c *fiber.Ctx) error {
	id, err := h.transferID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid transfer ID")
	}

	staffID, _ := c.Locals("userID").(uint)

	transfer, err := h.reviewService.Complete(c.Context(), id, staffID)
	if err != nil {
		return transferError(c, err, "Failed to complete transfer")
	}

	return response.Success(c, "Transfer completed successfully", fiber.Map{
		"transfer": h.toResponse(transfer),
	})
}

// GetHistory gets the audit trail
// @Summary Transfer history
// @Description List the append-only audit trail of a transfer (Officer only)
// @Tags Transfers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transfer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /transfers/{id}/history [get]
func (h *TransferHandler) GetHistory(c *fiber.Ctx) error {
	id, err := h.transferID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid transfer ID")
	}

	reviews, err := h.reviewService.GetHistory(c.Context(), id)
	if err != nil {
		return transferError(c, err, "Failed to get history")
	}

	items := make([]*models.ReviewResponse, len(reviews))
	for i, r := range reviews {
		items[i] = r.ToResponse()
	}

	return response.Success(c, "History retrieved successfully", items)
}

// GetValidation recomputes the validation report
// @Summary Transfer validation
// @Description Recompute the validation checks for a transfer (Officer only)
// @Tags Transfers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transfer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /transfers/{id}/validation [get]
func (h *TransferHandler) GetValidation(c *fiber.Ctx) error {
	id, err := h.transferID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid transfer ID")
	}

	result, err := h.reviewService.GetValidation(c.Context(), id)
	if err != nil {
		return transferError(c, err, "Failed to run validation")
	}

	return response.Success(c, "Validation computed successfully", result)
}
