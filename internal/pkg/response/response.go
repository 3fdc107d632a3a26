package response

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the error JSON shape. Error carries the underlying detail and
// is only populated for server-side failures.
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// MessageBody is the success shape for endpoints that return only a message.
type MessageBody struct {
	Message string `json:"message"`
}

// Message sends {"message": message} with the given status code.
func Message(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(MessageBody{Message: message})
}

// Error sends {"message", "error"}. A nil err omits the detail.
func Error(c *fiber.Ctx, message string, statusCode int, err error) error {
	body := ErrorBody{Message: message}
	if err != nil {
		body.Error = err.Error()
	}
	return c.Status(statusCode).JSON(body)
}

// Unauthorized sends 401 with the same shape as other errors.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusUnauthorized, nil)
}
