package handlers

import (
	"errors"
	"strings"

	"sfa-welfarehub/internal/core/domain"
	"sfa-welfarehub/internal/core/services"
	"sfa-welfarehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AccountAdminHandler handles founder-only account mutation endpoints
type AccountAdminHandler struct {
	accountAdminService *services.AccountAdminService
}

// NewAccountAdminHandler creates a new account admin handler
func NewAccountAdminHandler(accountAdminService *services.AccountAdminService) *AccountAdminHandler {
	return &AccountAdminHandler{accountAdminService: accountAdminService}
}

// DeleteAccountRequest represents an account deletion request body
type DeleteAccountRequest struct {
	MemberID string `json:"member_id"`
	SfaID    string `json:"sfa_id"`
	Reason   string `json:"reason"`
}

// DeleteAccount handles permanent account removal across the
// credential store, profile and mirror tables
// @Summary Delete member account
// @Description Permanently remove a member's credential, profile and mirror records (founder only)
// @Tags AccountAdmin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body DeleteAccountRequest true "Target member"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/accounts/delete [post]
func (h *AccountAdminHandler) DeleteAccount(c *fiber.Ctx) error {
	uid, _ := c.Locals("uid").(string)

	var req DeleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.accountAdminService.DeleteUserAccount(
		c.Context(),
		uid,
		strings.TrimSpace(req.MemberID),
		strings.TrimSpace(req.SfaID),
		strings.TrimSpace(req.Reason),
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Member ID and SFA-ID are required")
		case errors.Is(err, domain.ErrUnauthenticated):
			return response.Unauthorized(c, "Unauthorized")
		case errors.Is(err, domain.ErrPermissionDenied):
			return response.Forbidden(c, "Only the founder can delete accounts")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Member not found")
		default:
			return response.InternalServerError(c, err.Error())
		}
	}

	return response.Success(c, "Account deleted successfully", fiber.Map{
		"deleted": result,
	})
}

// UpdateEmailRequest represents an email change request body
type UpdateEmailRequest struct {
	MemberID string `json:"member_id"`
	NewEmail string `json:"new_email"`
}

// UpdateEmail handles changing a member's email across the credential
// store, profile and mirror tables
// @Summary Update member email
// @Description Change a member's email in the credential store and both profile tables (founder only)
// @Tags AccountAdmin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateEmailRequest true "Target member and new email"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/accounts/update-email [post]
func (h *AccountAdminHandler) UpdateEmail(c *fiber.Ctx) error {
	uid, _ := c.Locals("uid").(string)

	var req UpdateEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.accountAdminService.UpdateUserEmail(
		c.Context(),
		uid,
		strings.TrimSpace(req.MemberID),
		strings.TrimSpace(req.NewEmail),
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Member ID and a valid new email are required")
		case errors.Is(err, domain.ErrUnauthenticated):
			return response.Unauthorized(c, "Unauthorized")
		case errors.Is(err, domain.ErrPermissionDenied):
			return response.Forbidden(c, "Only the founder can change member emails")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Member not found")
		case errors.Is(err, domain.ErrAlreadyExists):
			return response.Conflict(c, "Email is already in use by another member")
		default:
			return response.InternalServerError(c, err.Error())
		}
	}

	return response.Success(c, "Email updated successfully", fiber.Map{
		"updated": result,
	})
}
