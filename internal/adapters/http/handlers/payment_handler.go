package handlers

import (
	"errors"

	"sfa-welfarehub/internal/core/domain"
	"sfa-welfarehub/internal/core/services"
	"sfa-welfarehub/internal/pkg/pagination"
	"sfa-welfarehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles contribution endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Record handles recording a single contribution (admin scope)
// @Summary Record contribution
// @Description Record a member's monthly contribution
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RecordPaymentInput true "Contribution"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments [post]
func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	uid, _ := c.Locals("uid").(string)

	var input services.RecordPaymentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	payment, err := h.paymentService.Record(c.Context(), uid, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "SFA-ID is required")
		case errors.Is(err, services.ErrInvalidMonth):
			return response.BadRequest(c, "Month must be in YYYY-MM format")
		case errors.Is(err, services.ErrInvalidAmount):
			return response.BadRequest(c, "Amount must be greater than zero")
		case errors.Is(err, services.ErrUnknownMethod):
			return response.BadRequest(c, "Unknown payment method")
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "No member with that SFA-ID")
		default:
			return response.InternalServerError(c, "Failed to record payment")
		}
	}

	return response.Created(c, "Payment recorded successfully", fiber.Map{
		"payment": payment,
	})
}

// ListMine handles listing the caller's own contributions
// @Summary List my contributions
// @Description List the authenticated member's contribution history
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /payments/mine [get]
func (h *PaymentHandler) ListMine(c *fiber.Ctx) error {
	sfaID, ok := c.Locals("sfaID").(string)
	if !ok || sfaID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	payments, err := h.paymentService.ListMy(c.Context(), sfaID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list payments")
	}

	return response.Success(c, "Payments retrieved successfully", fiber.Map{
		"payments": payments,
	})
}

// List handles listing contributions (admin scope)
// @Summary List contributions
// @Description List contributions, optionally filtered by month
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param month query string false "Month filter (YYYY-MM)"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	month := c.Query("month")

	payments, meta, err := h.paymentService.List(c.Context(), month, params)
	if err != nil {
		if errors.Is(err, services.ErrInvalidMonth) {
			return response.BadRequest(c, "Month must be in YYYY-MM format")
		}
		return response.InternalServerError(c, "Failed to list payments")
	}

	return response.Success(c, "Payments retrieved successfully", fiber.Map{
		"payments":   payments,
		"pagination": meta,
	})
}

// Summary handles monthly contribution totals (admin scope)
// @Summary Monthly contribution summary
// @Description Aggregate contribution figures for one month
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param month query string true "Month (YYYY-MM)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /payments/summary [get]
func (h *PaymentHandler) Summary(c *fiber.Ctx) error {
	month := c.Query("month")

	summary, err := h.paymentService.Summary(c.Context(), month)
	if err != nil {
		if errors.Is(err, services.ErrInvalidMonth) {
			return response.BadRequest(c, "Month must be in YYYY-MM format")
		}
		return response.InternalServerError(c, "Failed to summarise payments")
	}

	return response.Success(c, "Summary retrieved successfully", fiber.Map{
		"summary": summary,
	})
}

// ImportCSV handles bulk contribution import from a CSV file (admin scope)
// @Summary Import contributions from CSV
// @Description Import contributions from a bank statement CSV export; invalid rows are reported, valid rows are committed
// @Tags Payments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file (sfa_id,month,amount,method,reference)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /payments/import [post]
func (h *PaymentHandler) ImportCSV(c *fiber.Ctx) error {
	uid, _ := c.Locals("uid").(string)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "CSV file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "Failed to read uploaded file")
	}
	defer file.Close()

	result, err := h.paymentService.ImportCSV(c.Context(), uid, file)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrEmptyImport):
			return response.BadRequest(c, "Import file contains no data rows")
		default:
			return response.InternalServerError(c, "Failed to import payments")
		}
	}

	return response.Success(c, "Import completed", fiber.Map{
		"result": result,
	})
}
