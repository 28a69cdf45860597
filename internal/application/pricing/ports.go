package pricing

import (
	"context"

	"github.com/jhoicas/shopify-profit-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con el repositorio de precios atado a esa tx.
// Lo usa SyncProduct para que producto y variantes queden escritos juntos o no se escriba nada.
type TxRunner interface {
	RunPricing(ctx context.Context, fn func(repo repository.PricingRepository) error) error
}
