package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shopify-profit-api/internal/application/analytics"
)

// InventoryHandler ubicaciones y valorización del inventario.
type InventoryHandler struct {
	uc *analytics.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *analytics.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Locations godoc
// @Summary      Ubicaciones activas de la tienda
// @Tags         inventory
// @Produce      json
// @Success      200  {array}   dto.LocationDTO
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/locations [get]
func (h *InventoryHandler) Locations(c *fiber.Ctx) error {
	out, err := h.uc.Locations(c.Context(), GetAuth(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"locations": out, "count": len(out)})
}

// Value godoc
// @Summary      Valor del inventario (precio × disponible) en ubicaciones activas
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  dto.InventoryValueDTO
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/inventory/value [get]
func (h *InventoryHandler) Value(c *fiber.Ctx) error {
	out, err := h.uc.InventoryValue(c.Context(), GetAuth(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
