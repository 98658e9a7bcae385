package handlers

import (
	"errors"

	"sfa-welfarehub/internal/core/domain"
	"sfa-welfarehub/internal/core/services"
	"sfa-welfarehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CounterHandler handles SFA-ID counter administration endpoints
type CounterHandler struct {
	sfaIDService *services.SfaIDService
}

// NewCounterHandler creates a new counter handler
func NewCounterHandler(sfaIDService *services.SfaIDService) *CounterHandler {
	return &CounterHandler{sfaIDService: sfaIDService}
}

// InitializeRequest represents counter initialization request body
type InitializeRequest struct {
	StartingNumber int64 `json:"starting_number"`
}

// Initialize handles one-time counter setup
// @Summary Initialize SFA-ID counter
// @Description One-time initialization of the SFA-ID counter (founder only)
// @Tags Counter
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body InitializeRequest true "Starting number"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/counter/initialize [post]
func (h *CounterHandler) Initialize(c *fiber.Ctx) error {
	uid, _ := c.Locals("uid").(string)

	var req InitializeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	err := h.sfaIDService.Initialize(c.Context(), req.StartingNumber, uid)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Starting number must not be negative")
		case errors.Is(err, domain.ErrCounterAlreadyInitialized):
			return response.Conflict(c, "Counter has already been initialized")
		default:
			return response.InternalServerError(c, "Failed to initialize counter")
		}
	}

	return response.Created(c, "Counter initialized successfully", fiber.Map{
		"starting_number": req.StartingNumber,
	})
}

// Current handles reading the counter value
// @Summary Get current counter value
// @Description Get the current SFA-ID counter value (founder only)
// @Tags Counter
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/counter [get]
func (h *CounterHandler) Current(c *fiber.Ctx) error {
	current, err := h.sfaIDService.CurrentValue(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to read counter")
	}

	return response.Success(c, "Counter retrieved successfully", fiber.Map{
		"initialized": current != nil,
		"current":     current,
	})
}
