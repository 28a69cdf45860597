package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shopify-profit-api/internal/application/dto"
	"github.com/jhoicas/shopify-profit-api/internal/application/pricing"
	"github.com/jhoicas/shopify-profit-api/internal/domain"
)

// respondError traduce errores de dominio a status HTTP y dto.ErrorResponse.
// El orden importa: un timeout de Shopify también envuelve ErrUpstream.
func respondError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrMissingShop):
		status, code = fiber.StatusBadRequest, "MISSING_SHOP"
	case errors.Is(err, domain.ErrInvalidShop):
		status, code = fiber.StatusBadRequest, "INVALID_SHOP"
	case errors.Is(err, domain.ErrNotAuthenticated):
		status, code = fiber.StatusUnauthorized, "NOT_AUTHENTICATED"
	case errors.Is(err, domain.ErrInvalidHMAC):
		status, code = fiber.StatusUnauthorized, "INVALID_HMAC"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, "DUPLICATE"
	case pricing.IsTimeout(err):
		status, code = fiber.StatusGatewayTimeout, "TIMEOUT"
	case errors.Is(err, domain.ErrUpstream):
		status, code = fiber.StatusBadGateway, "UPSTREAM_ERROR"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// ErrorHandler handler global de Fiber: errores de ruteo de Fiber conservan su status,
// el resto pasa por respondError.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
	}
	return respondError(c, err)
}
