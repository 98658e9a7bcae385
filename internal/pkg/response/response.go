package response

import "github.com/gofiber/fiber/v2"

// Error kinds carried in the envelope so clients can branch on the
// failure class instead of parsing messages.
const (
	KindUnauthenticated  = "unauthenticated"
	KindPermissionDenied = "permission-denied"
	KindInvalidArgument  = "invalid-argument"
	KindNotFound         = "not-found"
	KindAlreadyExists    = "already-exists"
	KindInternal         = "internal"
	KindRateLimited      = "rate-limited"
)

// Response is the envelope every endpoint returns
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

// Success sends a 200 success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Fail sends an error response with the given status and error kind
func Fail(c *fiber.Ctx, statusCode int, kind, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   message,
		Kind:    kind,
	})
}

// BadRequest sends a 400 invalid-argument response
func BadRequest(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusBadRequest, KindInvalidArgument, message)
}

// Unauthorized sends a 401 unauthenticated response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusUnauthorized, KindUnauthenticated, message)
}

// Forbidden sends a 403 permission-denied response
func Forbidden(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusForbidden, KindPermissionDenied, message)
}

// NotFound sends a 404 not-found response
func NotFound(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusNotFound, KindNotFound, message)
}

// Conflict sends a 409 already-exists response
func Conflict(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusConflict, KindAlreadyExists, message)
}

// InternalServerError sends a 500 internal response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusInternalServerError, KindInternal, message)
}
