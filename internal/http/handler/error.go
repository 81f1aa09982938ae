package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"codepad/internal/http/middleware"
)

// errorPayload is the JSON body of every non-page error response.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorText struct {
	code, message string
}

// statusText maps the statuses the form page can run into. Anything else is
// reported as an internal error.
var statusText = map[int]errorText{
	fiber.StatusBadRequest:            {"BAD_REQUEST", "bad request"},
	fiber.StatusNotFound:              {"NOT_FOUND", "resource not found"},
	fiber.StatusMethodNotAllowed:      {"METHOD_NOT_ALLOWED", "method not allowed"},
	fiber.StatusRequestEntityTooLarge: {"PAYLOAD_TOO_LARGE", "submitted code is too large"},
	fiber.StatusServiceUnavailable:    {"SERVICE_UNAVAILABLE", "dependency unavailable"},
}

func requestIDFromCtx(c *fiber.Ctx) string {
	s, _ := c.Locals(middleware.RequestIDLocalKey).(string)
	return s
}

// writeError writes the JSON error envelope. message must be safe to show to
// the client.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

// ErrorHandler returns the app-wide Fiber error handler. Internal error text
// never reaches the client; the request logger records it instead.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		text, ok := statusText[status]
		if !ok {
			status = fiber.StatusInternalServerError
			text = errorText{"INTERNAL_ERROR", "internal server error"}
		}
		return writeError(c, status, text.code, text.message)
	}
}
