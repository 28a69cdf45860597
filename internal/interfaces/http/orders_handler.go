package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shopify-profit-api/internal/application/analytics"
	"github.com/jhoicas/shopify-profit-api/internal/application/dto"
)

// OrdersHandler maneja los endpoints de pedidos del dashboard.
type OrdersHandler struct {
	uc *analytics.UseCase
}

// NewOrdersHandler construye el handler.
func NewOrdersHandler(uc *analytics.UseCase) *OrdersHandler {
	return &OrdersHandler{uc: uc}
}

// Today godoc
// @Summary      Pedidos de hoy
// @Tags         orders
// @Produce      json
// @Success      200  {object}  dto.TodayOrdersDTO
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/orders/today [get]
func (h *OrdersHandler) Today(c *fiber.Ctx) error {
	out, err := h.uc.TodayOrders(c.Context(), GetAuth(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Pedidos de hoy, semana y mes
// @Tags         orders
// @Produce      json
// @Success      200  {object}  dto.OrderStatsDTO
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/orders/stats [get]
func (h *OrdersHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.OrderStats(c.Context(), GetAuth(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Analytics godoc
// @Summary      Totales del rango y desglose por tienda física
// @Tags         orders
// @Produce      json
// @Param        dateRange  query  string  false  "Rango de fechas"
// @Param        store      query  string  false  "all o id de ubicación"
// @Success      200  {object}  dto.OrdersAnalyticsDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/orders/analytics [get]
func (h *OrdersHandler) Analytics(c *fiber.Ctx) error {
	var req dto.OrdersAnalyticsRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos",
		})
	}
	out, err := h.uc.OrdersAnalytics(c.Context(), GetAuth(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Pedidos recientes con costo y ubicación
// @Tags         orders
// @Produce      json
// @Param        location  query  string  false  "all o id de ubicación"
// @Success      200  {object}  dto.OrderListDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/orders/list [get]
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListOrders(c.Context(), GetAuth(c), c.Query("location"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// VariantCost godoc
// @Summary      Costo unitario de una variante
// @Description  Consulta directa y luego vía producto; si ambas fallan responde 200 con NOT_SET.
// @Tags         orders
// @Produce      json
// @Param        variantId  query  int  true  "ID de la variante en Shopify"
// @Success      200  {object}  dto.VariantCostDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders/variant-cost [get]
func (h *OrdersHandler) VariantCost(c *fiber.Ctx) error {
	raw := c.Query("variantId")
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "variantId es requerido"})
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "variantId debe ser numérico"})
	}
	out, err := h.uc.VariantCost(c.Context(), GetAuth(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
