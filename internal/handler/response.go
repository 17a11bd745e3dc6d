package handler

import (
	"errors"
	"strconv"

	"go-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps service errors to status codes. Anything unknown is
// logged and reported as a generic 500.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	var stockErr *service.StockError
	var validationErr *service.ValidationError

	switch {
	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   service.ErrInsufficientStock.Error(),
			"details": stockErr.Details,
		})
	case errors.As(err, &validationErr):
		body := fiber.Map{"error": validationErr.Error()}
		if details := validationErr.Details(); len(details) > 0 {
			body["details"] = details
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrTransactionNotFound),
		errors.Is(err, service.ErrHeldBillNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrBarcodeExists),
		errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrAlreadyVoided),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrPaymentMethod):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserInactive):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong!"})
}

func invalidJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
}

// parseID reads a positive integer route parameter.
func parseID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
