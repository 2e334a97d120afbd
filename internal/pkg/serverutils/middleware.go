package serverutils

import (
	"errors"
	"fmt"

	"doctech-be/internal/dto"
	"doctech-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns handler errors and panics into JSON bodies.
// Validation failures and panics never leak their cause to the client.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("HTTP", "Recovered from panic", map[string]interface{}{
					"path":  c.Path(),
					"panic": fmt.Sprint(r),
				})
				err = c.Status(fiber.StatusInternalServerError).JSON(GenericError())
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		var verr *dto.ValidationError
		if errors.As(err, &verr) {
			log.Warn("HTTP", "Rejected invalid request", map[string]interface{}{
				"path":   c.Path(),
				"fields": verr.Fields,
				"error":  verr.Error(),
			})
			return c.Status(fiber.StatusBadRequest).JSON(GenericError())
		}

		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return c.Status(ferr.Code).JSON(ErrorResponse(ferr.Message))
		}

		log.Error("HTTP", "Unhandled error", map[string]interface{}{
			"path":  c.Path(),
			"error": err.Error(),
		})
		return c.Status(fiber.StatusInternalServerError).JSON(GenericError())
	}
}
