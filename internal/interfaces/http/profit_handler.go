package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shopify-profit-api/internal/application/analytics"
	"github.com/jhoicas/shopify-profit-api/internal/application/dto"
)

// ProfitHandler maneja el cálculo de utilidad y su reporte PDF.
type ProfitHandler struct {
	uc *analytics.UseCase
}

// NewProfitHandler construye el handler.
func NewProfitHandler(uc *analytics.UseCase) *ProfitHandler {
	return &ProfitHandler{uc: uc}
}

// Get godoc
// @Summary      Utilidad del periodo
// @Description  Ingresos, COGS, gastos y utilidad neta. cost_status NOT_SET indica COGS parcial.
// @Tags         profit
// @Produce      json
// @Param        shop       query  string  false  "Dominio de la tienda (si no hay Bearer)"
// @Param        dateRange  query  string  false  "today | yesterday | last7days | last30days | thisweek | thismonth | thisyear"
// @Param        breakdown  query  string  false  "location"
// @Success      200  {object}  dto.ProfitResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/profit [get]
func (h *ProfitHandler) Get(c *fiber.Ctx) error {
	var req dto.ProfitRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos",
		})
	}
	out, err := h.uc.Profit(c.Context(), GetAuth(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF de utilidad por ubicación
// @Tags         profit
// @Produce      application/pdf
// @Param        dateRange  query  string  false  "Rango de fechas"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/profit/report.pdf [get]
func (h *ProfitHandler) Report(c *fiber.Ctx) error {
	dateRange := c.Query("dateRange")
	pdf, err := h.uc.ProfitReport(c.Context(), GetAuth(c), dateRange)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, reportFilename(GetShop(c), dateRange)))
	return c.Send(pdf)
}

func reportFilename(shop, dateRange string) string {
	if dateRange == "" {
		dateRange = "today"
	}
	name := strings.TrimSuffix(shop, ".myshopify.com")
	return "utilidad-" + name + "-" + dateRange + ".pdf"
}
