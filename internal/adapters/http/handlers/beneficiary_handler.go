package handlers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"sfa-welfarehub/internal/adapters/storage"
	"sfa-welfarehub/internal/core/domain"
	"sfa-welfarehub/internal/core/services"
	"sfa-welfarehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// maxDocumentSize limits individual uploaded documents to 10 MB
const maxDocumentSize = 10 << 20

var allowedDocExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// BeneficiaryHandler handles beneficiary request endpoints
type BeneficiaryHandler struct {
	beneficiaryService *services.BeneficiaryService
	authService        *services.AuthService
	blobStore          storage.BlobStore
}

// NewBeneficiaryHandler creates a new beneficiary handler
func NewBeneficiaryHandler(
	beneficiaryService *services.BeneficiaryService,
	authService *services.AuthService,
	blobStore storage.BlobStore,
) *BeneficiaryHandler {
	return &BeneficiaryHandler{
		beneficiaryService: beneficiaryService,
		authService:        authService,
		blobStore:          blobStore,
	}
}

// CreateRequest handles a new assistance application with three
// supporting documents uploaded as multipart form files
// @Summary Submit beneficiary request
// @Description Submit an assistance request with verification document, pay slip and application form
// @Tags Beneficiary
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param description formData string true "Reason for the request"
// @Param verification_doc formData file true "Verification document"
// @Param pay_slip formData file true "Pay slip"
// @Param application_form formData file true "Application form"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /beneficiary/requests [post]
func (h *BeneficiaryHandler) CreateRequest(c *fiber.Ctx) error {
	uid, ok := c.Locals("uid").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	description := strings.TrimSpace(c.FormValue("description"))
	if description == "" {
		return response.BadRequest(c, "Description is required")
	}

	member, err := h.authService.GetMemberByUID(c.Context(), uid)
	if err != nil {
		return response.NotFound(c, "Member profile not found")
	}

	verificationURL, err := h.storeDocument(c, "verification_doc", member.SfaID)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	paySlipURL, err := h.storeDocument(c, "pay_slip", member.SfaID)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	applicationFormURL, err := h.storeDocument(c, "application_form", member.SfaID)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	input := &services.CreateRequestInput{
		RequesterUID:       uid,
		RequesterName:      member.FullName,
		MemberID:           member.MemberID,
		SfaID:              member.SfaID,
		Lobby:              member.Lobby,
		Email:              member.Email,
		Phone:              member.Phone,
		Description:        description,
		VerificationDocURL: verificationURL,
		PaySlipURL:         paySlipURL,
		ApplicationFormURL: applicationFormURL,
	}

	req, err := h.beneficiaryService.CreateRequest(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid request data")
		case errors.Is(err, services.ErrMissingDocuments):
			return response.BadRequest(c, "All three supporting documents are required")
		case errors.Is(err, services.ErrNoAdmins):
			return response.InternalServerError(c, "No reviewers available, please contact the association")
		default:
			return response.InternalServerError(c, "Failed to submit request")
		}
	}

	return response.Created(c, "Request submitted successfully", fiber.Map{
		"request": req,
	})
}

// storeDocument validates and stores one uploaded form file, returning
// its public URL
func (h *BeneficiaryHandler) storeDocument(c *fiber.Ctx, field, sfaID string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", fmt.Errorf("%s file is required", field)
	}
	if fileHeader.Size > maxDocumentSize {
		return "", fmt.Errorf("%s exceeds the 10MB size limit", field)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedDocExtensions[ext] {
		return "", fmt.Errorf("%s must be a PDF or image file", field)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to read %s", field)
	}
	defer file.Close()

	name := fmt.Sprintf("beneficiary/%s/%s_%s%s", sfaID, field, uuid.New().String(), ext)
	url, err := h.blobStore.Save(c.Context(), name, file)
	if err != nil {
		return "", fmt.Errorf("failed to store %s", field)
	}
	return url, nil
}

// VoteRequest represents a vote request body
type VoteRequest struct {
	Action  string `json:"action"`
	Remarks string `json:"remarks"`
}

// Vote handles an admin vote on a request
// @Summary Vote on beneficiary request
// @Description Approve or reject a pending beneficiary request
// @Tags Beneficiary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param body body VoteRequest true "Vote"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /beneficiary/requests/{id}/vote [post]
func (h *BeneficiaryHandler) Vote(c *fiber.Ctx) error {
	uid, ok := c.Locals("uid").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	requestID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	var req VoteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.authService.GetMemberByUID(c.Context(), uid)
	if err != nil {
		return response.NotFound(c, "Member profile not found")
	}

	updated, err := h.beneficiaryService.CastVote(c.Context(), uint(requestID), uid, member.FullName, req.Action, req.Remarks)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidVote):
			return response.BadRequest(c, "Action must be approve or reject")
		case errors.Is(err, domain.ErrRequestNotFound):
			return response.NotFound(c, "Request not found")
		case errors.Is(err, domain.ErrAlreadyVoted):
			return response.Conflict(c, "You have already voted on this request")
		case errors.Is(err, domain.ErrRequestFinalized):
			return response.Conflict(c, "Request has already been finalized")
		default:
			return response.InternalServerError(c, "Failed to record vote")
		}
	}

	return response.Success(c, "Vote recorded successfully", fiber.Map{
		"request": updated,
	})
}

// List handles listing all requests (admin scope)
// @Summary List beneficiary requests
// @Description List all beneficiary requests with pagination
// @Tags Beneficiary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /beneficiary/requests [get]
func (h *BeneficiaryHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	result, err := h.beneficiaryService.ListRequests(c.Context(), page, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list requests")
	}

	return response.Success(c, "Requests retrieved successfully", result)
}

// ListMine handles listing the caller's own requests
// @Summary List my beneficiary requests
// @Description List the authenticated member's own requests
// @Tags Beneficiary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /beneficiary/requests/mine [get]
func (h *BeneficiaryHandler) ListMine(c *fiber.Ctx) error {
	uid, ok := c.Locals("uid").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	requests, err := h.beneficiaryService.ListMyRequests(c.Context(), uid)
	if err != nil {
		return response.InternalServerError(c, "Failed to list requests")
	}

	return response.Success(c, "Requests retrieved successfully", fiber.Map{
		"requests": requests,
	})
}

// Get handles fetching a single request
// @Summary Get beneficiary request
// @Description Get a beneficiary request by ID
// @Tags Beneficiary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /beneficiary/requests/{id} [get]
func (h *BeneficiaryHandler) Get(c *fiber.Ctx) error {
	requestID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	req, err := h.beneficiaryService.GetRequest(c.Context(), uint(requestID))
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return response.NotFound(c, "Request not found")
		}
		return response.InternalServerError(c, "Failed to get request")
	}

	// Requesters can see their own request; admins can see any
	uid, _ := c.Locals("uid").(string)
	role, _ := c.Locals("role").(string)
	if req.RequesterUID != uid && role != "ADMIN" && role != "FOUNDER" {
		return response.Forbidden(c, "You don't have permission to view this request")
	}

	return response.Success(c, "Request retrieved successfully", fiber.Map{
		"request": req,
	})
}

// History handles listing the vote history of a request
// @Summary Get vote history
// @Description List the approval/rejection audit records for a request
// @Tags Beneficiary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /beneficiary/requests/{id}/history [get]
func (h *BeneficiaryHandler) History(c *fiber.Ctx) error {
	requestID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	approvals, err := h.beneficiaryService.ApprovalHistory(c.Context(), uint(requestID))
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return response.NotFound(c, "Request not found")
		}
		return response.InternalServerError(c, "Failed to get vote history")
	}

	return response.Success(c, "Vote history retrieved successfully", fiber.Map{
		"approvals": approvals,
	})
}
