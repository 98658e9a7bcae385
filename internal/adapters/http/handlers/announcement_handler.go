package handlers

import (
	"errors"
	"strconv"

	"sfa-welfarehub/internal/core/domain"
	"sfa-welfarehub/internal/core/services"
	"sfa-welfarehub/internal/pkg/pagination"
	"sfa-welfarehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AnnouncementHandler handles announcement endpoints
type AnnouncementHandler struct {
	announcementService *services.AnnouncementService
}

// NewAnnouncementHandler creates a new announcement handler
func NewAnnouncementHandler(announcementService *services.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementService: announcementService}
}

// Create handles publishing an announcement (admin scope)
// @Summary Publish announcement
// @Description Publish a new association-wide announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateAnnouncementInput true "Announcement"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /announcements [post]
func (h *AnnouncementHandler) Create(c *fiber.Ctx) error {
	uid, _ := c.Locals("uid").(string)

	var input services.CreateAnnouncementInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	a, err := h.announcementService.Create(c.Context(), uid, &input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "Title and body are required")
		}
		return response.InternalServerError(c, "Failed to publish announcement")
	}

	return response.Created(c, "Announcement published successfully", fiber.Map{
		"announcement": a,
	})
}

// Update handles editing an announcement (admin scope)
// @Summary Update announcement
// @Description Edit an existing announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Param body body services.UpdateAnnouncementInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /announcements/{id} [patch]
func (h *AnnouncementHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid announcement ID")
	}

	var input services.UpdateAnnouncementInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	a, err := h.announcementService.Update(c.Context(), uint(id), &input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Announcement not found")
		}
		return response.InternalServerError(c, "Failed to update announcement")
	}

	return response.Success(c, "Announcement updated successfully", fiber.Map{
		"announcement": a,
	})
}

// Delete handles removing an announcement (admin scope)
// @Summary Delete announcement
// @Description Remove an announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /announcements/{id} [delete]
func (h *AnnouncementHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid announcement ID")
	}

	if err := h.announcementService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Announcement not found")
		}
		return response.InternalServerError(c, "Failed to delete announcement")
	}

	return response.Success(c, "Announcement deleted successfully", nil)
}

// ListActive handles listing visible announcements
// @Summary List active announcements
// @Description List currently visible announcements
// @Tags Announcements
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /announcements [get]
func (h *AnnouncementHandler) ListActive(c *fiber.Ctx) error {
	announcements, err := h.announcementService.ListActive(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list announcements")
	}

	return response.Success(c, "Announcements retrieved successfully", fiber.Map{
		"announcements": announcements,
	})
}

// ListAll handles listing all announcements including inactive (admin scope)
// @Summary List all announcements
// @Description List all announcements with pagination, including inactive ones
// @Tags Announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /announcements/all [get]
func (h *AnnouncementHandler) ListAll(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	announcements, meta, err := h.announcementService.List(c.Context(), params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list announcements")
	}

	return response.Success(c, "Announcements retrieved successfully", fiber.Map{
		"announcements": announcements,
		"pagination":    meta,
	})
}
