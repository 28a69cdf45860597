package ports

import (
	"context"

	"github.com/jhoicas/shopify-profit-api/internal/application/dto"
)

// ProfitReportGenerator genera el PDF del reporte de utilidad.
type ProfitReportGenerator interface {
	GenerateProfitReport(ctx context.Context, report *dto.ProfitResponse) ([]byte, error)
}
