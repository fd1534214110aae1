package response

import (
	"rwa-backend/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// SuccessBody is the standardized success JSON shape.
type SuccessBody struct {
	Status   string      `json:"status"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data"`
	Metadata interface{} `json:"metadata,omitempty"`
}

// ErrorBody is the standardized error JSON shape.
type ErrorBody struct {
	Status string      `json:"status"`
	Error  ErrorDetail `json:"error"`
}

// ErrorDetail is the nested error object.
type ErrorDetail struct {
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Details    interface{} `json:"details,omitempty"`
}

const statusSuccess = "success"
const statusError = "error"

// Success sends a 200 OK response with the standard success format.
func Success(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return c.Status(fiber.StatusOK).JSON(SuccessBody{
		Status:   statusSuccess,
		Message:  message,
		Data:     data,
		Metadata: metadata,
	})
}

// SuccessCreated sends a 201 Created response with the standard success format.
func SuccessCreated(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return c.Status(fiber.StatusCreated).JSON(SuccessBody{
		Status:   statusSuccess,
		Message:  message,
		Data:     data,
		Metadata: metadata,
	})
}

// Error sends a response with the standard error format.
func Error(c *fiber.Ctx, message string, statusCode int, details interface{}) error {
	if details == nil {
		details = map[string]interface{}{}
	}
	return c.Status(statusCode).JSON(ErrorBody{
		Status: statusError,
		Error: ErrorDetail{
			Message:    message,
			StatusCode: statusCode,
			Details:    details,
		},
	})
}

// Unauthorized sends 401 with the same shape as other errors (status "error", error.message).
// Use this for auth middleware so all errors are consistent.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusUnauthorized, nil)
}

// statusByKind maps domain error kinds to HTTP status codes.
var statusByKind = map[apperr.Kind]int{
	apperr.InvalidArgument:        fiber.StatusBadRequest,
	apperr.AuthorizationError:     fiber.StatusForbidden,
	apperr.NotFound:               fiber.StatusNotFound,
	apperr.ComplianceViolation:    fiber.StatusUnprocessableEntity,
	apperr.InsufficientBalance:    fiber.StatusUnprocessableEntity,
	apperr.CapExceeded:            fiber.StatusConflict,
	apperr.AlreadyInState:         fiber.StatusConflict,
	apperr.InvalidStateTransition: fiber.StatusConflict,
	apperr.DuplicatePayment:       fiber.StatusConflict,
	apperr.AlreadyReturned:        fiber.StatusConflict,
}

// StatusFor returns the HTTP status for err: the kind's status, or 500 for infrastructure errors.
func StatusFor(err error) int {
	if code, ok := statusByKind[apperr.KindOf(err)]; ok {
		return code
	}
	return fiber.StatusInternalServerError
}

// FromError sends err in the standard error format. Domain errors keep their message and
// expose their kind in details; anything else is reported as a generic 500.
func FromError(c *fiber.Ctx, err error) error {
	kind := apperr.KindOf(err)
	if kind == "" {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed with infrastructure error")
		return Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return Error(c, err.Error(), StatusFor(err), map[string]interface{}{"kind": kind})
}
