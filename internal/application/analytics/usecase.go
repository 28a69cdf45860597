// Package analytics contiene los casos de uso de lectura del dashboard: utilidad, pedidos,
// ubicaciones y valor de inventario. Todo se calcula por request a partir de Shopify,
// la caché de precios y los gastos cargados.
package analytics

import (
	"context"
	"time"

	"github.com/jhoicas/shopify-profit-api/internal/application/costing"
	"github.com/jhoicas/shopify-profit-api/internal/application/ports"
	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
	"github.com/jhoicas/shopify-profit-api/internal/domain/repository"
	"github.com/jhoicas/shopify-profit-api/pkg/logger"
)

// CostResolver resolución de costos por variante (implementado por costing.Resolver).
type CostResolver interface {
	Resolve(ctx context.Context, auth ports.ShopAuth, variantIDs []int64) entity.VariantCosts
	ResolveOne(ctx context.Context, auth ports.ShopAuth, variantID int64) costing.SingleCost
}

var _ CostResolver = (*costing.Resolver)(nil)

// Config parámetros de presentación.
type Config struct {
	Location        *time.Location // zona en la que se resuelven los rangos de fecha
	DefaultCurrency string         // cuando no hay pedidos de los que tomar la moneda
}

// UseCase casos de uso del dashboard.
type UseCase struct {
	client   ports.CommerceClient
	costs    CostResolver
	expenses repository.ExpenseRepository
	report   ports.ProfitReportGenerator
	log      *logger.Logger
	cfg      Config
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	client ports.CommerceClient,
	costs CostResolver,
	expenses repository.ExpenseRepository,
	report ports.ProfitReportGenerator,
	log *logger.Logger,
	cfg Config,
) *UseCase {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &UseCase{
		client:   client,
		costs:    costs,
		expenses: expenses,
		report:   report,
		log:      log,
		cfg:      cfg,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

func (uc *UseCase) localNow() time.Time {
	return uc.now().In(uc.cfg.Location)
}

// currencyOf moneda del primer pedido o la de configuración.
func (uc *UseCase) currencyOf(orders []entity.Order) string {
	for _, o := range orders {
		if o.Currency != "" {
			return o.Currency
		}
	}
	return uc.cfg.DefaultCurrency
}

// UnknownLocationName nombre que se muestra para IDs de ubicación que Shopify ya no lista.
const UnknownLocationName = "Unknown"

func locationNames(locations []entity.Location) map[int64]string {
	names := make(map[int64]string, len(locations))
	for _, l := range locations {
		names[l.ID] = l.Name
	}
	return names
}

func activeOnly(locations []entity.Location) []entity.Location {
	out := make([]entity.Location, 0, len(locations))
	for _, l := range locations {
		if l.Active {
			out = append(out, l)
		}
	}
	return out
}
