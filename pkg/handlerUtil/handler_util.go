package handlerUtil

import (
	"ProjectKwik/internal/api/auth"
	"ProjectKwik/internal/api/configuration"
	"ProjectKwik/internal/api/intentrule"
	"ProjectKwik/internal/api/merchant"
	"ProjectKwik/internal/api/pdp"
	"ProjectKwik/internal/api/widget"
	"ProjectKwik/pkg/log"
	"ProjectKwik/pkg/response"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

// Handle maps service errors onto HTTP responses. Domain sentinels carry
// their status code via response.Error; anything else is a 500.
func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"code":       respErr.Code,
			"path":       path,
			"operation":  operation,
		}).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(fiber.Map{
			"error": err.Error(),
			"code":  errorCode(err),
		})
	}

	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}).Error("Unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
		"code":  "INTERNAL_ERROR",
	})
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, auth.ErrInvalidEmailOrPassword):
		return "INVALID_CREDENTIALS"
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		return "EMAIL_ALREADY_EXISTS"
	case errors.Is(err, auth.ErrUserNotFound):
		return "USER_NOT_FOUND"
	case errors.Is(err, merchant.ErrMerchantNotFound):
		return "MERCHANT_NOT_FOUND"
	case errors.Is(err, merchant.ErrDomainAlreadyExists):
		return "DOMAIN_ALREADY_EXISTS"
	case errors.Is(err, intentrule.ErrRuleNotFound):
		return "RULE_NOT_FOUND"
	case errors.Is(err, intentrule.ErrRuleAlreadyExists):
		return "RULE_ALREADY_EXISTS"
	case errors.Is(err, widget.ErrWidgetNotFound):
		return "WIDGET_NOT_FOUND"
	case errors.Is(err, widget.ErrNoActiveWidget):
		return "NO_ACTIVE_WIDGET"
	case errors.Is(err, configuration.ErrConfigNotFound):
		return "CONFIG_NOT_FOUND"
	case errors.Is(err, configuration.ErrNoActiveConfig):
		return "NO_ACTIVE_CONFIG"
	case errors.Is(err, pdp.ErrSessionNotFound):
		return "SESSION_NOT_FOUND"
	default:
		return "REQUEST_FAILED"
	}
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + err.Error(),
		"code":  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleUnauthorized(c *fiber.Ctx, requestID string, message string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
	}).Warn("Unauthorized access")

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
		"code":  "UNAUTHORIZED",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
