package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shopify-profit-api/internal/application/dto"
	"github.com/jhoicas/shopify-profit-api/internal/application/pricing"
)

// PricingHandler sincronización y consulta de la caché de precios.
type PricingHandler struct {
	uc      *pricing.UseCase
	timeout time.Duration
}

// NewPricingHandler construye el handler. timeout acota smart-sync y sync-all.
func NewPricingHandler(uc *pricing.UseCase, timeout time.Duration) *PricingHandler {
	return &PricingHandler{uc: uc, timeout: timeout}
}

func (h *PricingHandler) syncContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), h.timeout)
}

// SmartSync godoc
// @Summary      Sincronización inteligente de precios y costos
// @Description  Actualiza solo lo que cambió en Shopify. Tolerancia de 0.01 en montos.
// @Tags         pricing
// @Produce      json
// @Success      200  {object}  dto.SyncStatsDTO
// @Failure      502  {object}  dto.ErrorResponse
// @Failure      504  {object}  dto.ErrorResponse
// @Router       /api/pricing/smart-sync [post]
func (h *PricingHandler) SmartSync(c *fiber.Ctx) error {
	ctx, cancel := h.syncContext(c)
	defer cancel()
	out, err := h.uc.SmartSync(ctx, GetAuth(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SyncAll godoc
// @Summary      Importar todos los productos activos
// @Tags         pricing
// @Produce      json
// @Success      200  {object}  dto.SyncAllDTO
// @Failure      502  {object}  dto.ErrorResponse
// @Failure      504  {object}  dto.ErrorResponse
// @Router       /api/pricing/sync-all [post]
func (h *PricingHandler) SyncAll(c *fiber.Ctx) error {
	ctx, cancel := h.syncContext(c)
	defer cancel()
	out, err := h.uc.SyncAll(ctx, GetAuth(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SyncProduct godoc
// @Summary      Importar un producto con sus variantes y costos
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SyncProductRequest  true  "shop, productId"
// @Success      200   {object}  dto.SyncProductDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/pricing/sync-product [post]
func (h *PricingHandler) SyncProduct(c *fiber.Ctx) error {
	var in dto.SyncProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.SyncProduct(c.Context(), GetAuth(c), in.ProductID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Conteos del catálogo remoto y de la caché
// @Tags         pricing
// @Produce      json
// @Success      200  {object}  dto.PricingStatsDTO
// @Router       /api/pricing/stats [get]
func (h *PricingHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.Context(), GetAuth(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Precios y costos en caché
// @Tags         pricing
// @Produce      json
// @Param        productId  query  string  false  "UUID del producto en caché"
// @Success      200  {object}  dto.PricingListDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pricing/list [get]
func (h *PricingHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), c.Query("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
