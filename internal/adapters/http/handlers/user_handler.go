package handlers

import (
	"errors"
	"strings"

	"sfa-welfarehub/internal/core/domain"
	"sfa-welfarehub/internal/core/services"
	"sfa-welfarehub/internal/pkg/pagination"
	"sfa-welfarehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles member directory and profile endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles listing members (admin scope)
// @Summary List members
// @Description List members with pagination
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	members, meta, err := h.userService.List(c.Context(), params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list members")
	}

	return response.Success(c, "Members retrieved successfully", fiber.Map{
		"members":    members,
		"pagination": meta,
	})
}

// Get handles fetching a member by member number (admin scope)
// @Summary Get member
// @Description Get a member by member number
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member number"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{memberId} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	memberID := c.Params("memberId")

	member, err := h.userService.GetByMemberID(c.Context(), memberID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to get member")
	}

	return response.Success(c, "Member retrieved successfully", fiber.Map{
		"member": member,
	})
}

// UpdateRole handles changing a member's role (founder only)
// @Summary Update member role
// @Description Change a member's role (founder only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member number"
// @Param body body services.UpdateRoleInput true "New role"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{memberId}/role [patch]
func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	uid, _ := c.Locals("uid").(string)
	memberID := c.Params("memberId")

	var input services.UpdateRoleInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	input.Role = strings.ToUpper(strings.TrimSpace(input.Role))

	member, err := h.userService.UpdateRole(c.Context(), uid, memberID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Role must be MEMBER, ADMIN or FOUNDER")
		case errors.Is(err, services.ErrCannotChangeOwn):
			return response.BadRequest(c, "You cannot change your own role")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Member not found")
		default:
			return response.InternalServerError(c, "Failed to update role")
		}
	}

	return response.Success(c, "Role updated successfully", fiber.Map{
		"member": member,
	})
}

// SetActiveRequest represents an activation toggle request body
type SetActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

// SetActive handles enabling or disabling a member account (admin scope)
// @Summary Activate or deactivate member
// @Description Enable or disable a member account
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param memberId path string true "Member number"
// @Param body body SetActiveRequest true "Activation flag"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{memberId}/active [patch]
func (h *UserHandler) SetActive(c *fiber.Ctx) error {
	memberID := c.Params("memberId")

	var req SetActiveRequest
	if err := c.BodyParser(&req); err != nil || req.IsActive == nil {
		return response.BadRequest(c, "is_active is required")
	}

	member, err := h.userService.SetActive(c.Context(), memberID, *req.IsActive)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to update member")
	}

	return response.Success(c, "Member updated successfully", fiber.Map{
		"member": member,
	})
}

// GetProfile handles fetching the caller's own profile
// @Summary Get my profile
// @Description Get the authenticated member's profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /profile [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	uid, ok := c.Locals("uid").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	member, err := h.userService.GetProfile(c.Context(), uid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Profile not found")
		}
		return response.InternalServerError(c, "Failed to get profile")
	}

	return response.Success(c, "Profile retrieved successfully", fiber.Map{
		"member": member,
	})
}

// UpdateProfile handles updating the caller's own profile
// @Summary Update my profile
// @Description Update the authenticated member's name, lobby or phone
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Profile fields"
// @Success 200 {object} response.Response
// @Router /profile [patch]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	uid, ok := c.Locals("uid").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.userService.UpdateProfile(c.Context(), uid, &input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Profile not found")
		}
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.Success(c, "Profile updated successfully", fiber.Map{
		"member": member,
	})
}

// ChangePassword handles changing the caller's own password
// @Summary Change password
// @Description Change the authenticated member's password
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Old and new passwords"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /profile/password [post]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	uid, ok := c.Locals("uid").(string)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.userService.ChangePassword(c.Context(), uid, &input); err != nil {
		switch {
		case errors.Is(err, services.ErrWeakPassword):
			return response.BadRequest(c, "New password must be at least 8 characters")
		case errors.Is(err, services.ErrWrongOldPassword):
			return response.BadRequest(c, "Old password is incorrect")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Account not found")
		default:
			return response.InternalServerError(c, "Failed to change password")
		}
	}

	return response.Success(c, "Password changed successfully", nil)
}
