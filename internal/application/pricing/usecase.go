// Package pricing casos de uso de la caché de precios: sincronización inteligente contra
// Shopify, importación de catálogo y consultas de estado.
package pricing

import (
	"context"
	"time"

	"github.com/jhoicas/shopify-profit-api/internal/application/ports"
	"github.com/jhoicas/shopify-profit-api/internal/domain/repository"
	"github.com/jhoicas/shopify-profit-api/pkg/logger"
)

const (
	pageSize        = 250
	maxErrorDetails = 10
)

// Delays pausas entre llamadas a Shopify durante el recorrido del catálogo.
type Delays struct {
	Page    time.Duration
	Product time.Duration
	Item    time.Duration
}

// UseCase agrupa las operaciones sobre la caché de precios.
type UseCase struct {
	repo   repository.PricingRepository
	tx     TxRunner
	client ports.CommerceClient
	log    *logger.Logger
	delays Delays
	now    func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	repo repository.PricingRepository,
	tx TxRunner,
	client ports.CommerceClient,
	log *logger.Logger,
	delays Delays,
) *UseCase {
	return &UseCase{
		repo:   repo,
		tx:     tx,
		client: client,
		log:    log,
		delays: delays,
		now:    time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// pause espera d o hasta que se cancele ctx.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
