package handlers

import (
	"sfa-welfarehub/internal/adapters/persistence/repositories"
	"sfa-welfarehub/internal/pkg/pagination"
	"sfa-welfarehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuditHandler handles audit log endpoints. The log is append-only;
// this handler only ever reads it.
type AuditHandler struct {
	auditRepo repositories.AuditLogRepository
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditRepo repositories.AuditLogRepository) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo}
}

// List handles listing audit log entries (founder only)
// @Summary List audit log
// @Description List privileged operation audit entries, newest first
// @Tags Audit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /admin/audit-logs [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	entries, total, err := h.auditRepo.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list audit log")
	}

	return response.Success(c, "Audit log retrieved successfully", fiber.Map{
		"entries":    entries,
		"pagination": pagination.GetMeta(params, total),
	})
}
