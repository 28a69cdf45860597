// Package costing resuelve el costo unitario de variantes: primero la caché local, luego Shopify.
package costing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/shopify-profit-api/internal/application/ports"
	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
	"github.com/jhoicas/shopify-profit-api/pkg/logger"
)

// VariantCache lectura de variantes cacheadas por ID de Shopify (subconjunto de PricingRepository).
type VariantCache interface {
	GetVariantsByShopifyIDs(ctx context.Context, ids []int64) ([]entity.CachedVariant, error)
}

// RemoteBatchSize máximo de IDs por llamada a Shopify.
const RemoteBatchSize = 50

const maxParallelBatches = 4

// Resolver caso de uso de resolución de costos.
type Resolver struct {
	cache         VariantCache
	client        ports.CommerceClient
	log           *logger.Logger
	fallbackDelay time.Duration
}

// NewResolver construye el resolver. fallbackDelay es la pausa antes del segundo método de ResolveOne.
func NewResolver(cache VariantCache, client ports.CommerceClient, log *logger.Logger, fallbackDelay time.Duration) *Resolver {
	return &Resolver{cache: cache, client: client, log: log, fallbackDelay: fallbackDelay}
}

// Resolve devuelve una entrada por cada ID pedido. Nunca falla: lo que no se puede resolver
// queda con costo 0 y Resolved=false, y se registra en el log.
func (r *Resolver) Resolve(ctx context.Context, auth ports.ShopAuth, variantIDs []int64) entity.VariantCosts {
	out := make(entity.VariantCosts, len(variantIDs))
	if len(variantIDs) == 0 {
		return out
	}

	cached, err := r.cache.GetVariantsByShopifyIDs(ctx, variantIDs)
	if err != nil {
		r.log.Warn().Err(err).Str("shop", auth.Shop).Int("variants", len(variantIDs)).
			Msg("costing: caché no disponible, se consulta Shopify")
	}
	for _, v := range cached {
		if v.ShopifyVariantID == nil {
			continue
		}
		if v.Cost.Valid {
			out[*v.ShopifyVariantID] = entity.VariantCost{Cost: v.Cost.Decimal, Source: entity.CostSourceCache, Resolved: true}
		} else {
			out[*v.ShopifyVariantID] = entity.VariantCost{Cost: decimal.Zero, Source: entity.CostSourceCache}
		}
	}

	var missing []int64
	seen := make(map[int64]struct{}, len(variantIDs))
	for _, id := range variantIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := out[id]; !ok {
			missing = append(missing, id)
		}
	}

	// Los lotes van en paralelo, acotados para no agotar el rate limit de Shopify.
	var batches [][]int64
	for start := 0; start < len(missing); start += RemoteBatchSize {
		batches = append(batches, missing[start:min(start+RemoteBatchSize, len(missing))])
	}
	results := make([]entity.VariantCosts, len(batches))
	var g errgroup.Group
	g.SetLimit(maxParallelBatches)
	for i, batch := range batches {
		g.Go(func() error {
			res := make(entity.VariantCosts, len(batch))
			r.resolveBatch(ctx, auth, batch, res)
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	for _, res := range results {
		for id, c := range res {
			out[id] = c
		}
	}
	return out
}

func unresolved() entity.VariantCost {
	return entity.VariantCost{Cost: decimal.Zero, Source: entity.CostSourceUnresolved}
}

func fromItem(item *entity.InventoryItem) entity.VariantCost {
	if item == nil || item.Cost == nil {
		return unresolved()
	}
	return entity.VariantCost{Cost: *item.Cost, Source: entity.CostSourceRemote, Resolved: true}
}

// resolveBatch intenta el lote completo; si falla, cae a una variante por vez.
func (r *Resolver) resolveBatch(ctx context.Context, auth ports.ShopAuth, ids []int64, out entity.VariantCosts) {
	variants, err := r.client.GetVariants(ctx, auth, ids)
	if err == nil {
		itemIDs := make([]int64, 0, len(variants))
		for _, v := range variants {
			itemIDs = append(itemIDs, v.InventoryItemID)
		}
		var items []entity.InventoryItem
		items, err = r.client.GetInventoryItems(ctx, auth, itemIDs)
		if err == nil {
			byItem := make(map[int64]*entity.InventoryItem, len(items))
			for i := range items {
				byItem[items[i].ID] = &items[i]
			}
			byVariant := make(map[int64]int64, len(variants))
			for _, v := range variants {
				byVariant[v.ID] = v.InventoryItemID
			}
			for _, id := range ids {
				itemID, ok := byVariant[id]
				if !ok {
					r.log.Warn().Str("shop", auth.Shop).Int64("variant_id", id).Msg("costing: variante no existe en Shopify")
					out[id] = unresolved()
					continue
				}
				out[id] = fromItem(byItem[itemID])
			}
			return
		}
	}

	r.log.Warn().Err(err).Str("shop", auth.Shop).Int("batch", len(ids)).
		Msg("costing: falló la consulta por lote, se resuelve por variante")
	for _, id := range ids {
		out[id] = r.resolveOne(ctx, auth, id)
	}
}

func (r *Resolver) resolveOne(ctx context.Context, auth ports.ShopAuth, id int64) entity.VariantCost {
	v, err := r.client.GetVariant(ctx, auth, id)
	if err != nil {
		r.log.Warn().Err(err).Str("shop", auth.Shop).Int64("variant_id", id).Msg("costing: no se pudo leer la variante")
		return unresolved()
	}
	item, err := r.client.GetInventoryItem(ctx, auth, v.InventoryItemID)
	if err != nil {
		r.log.Warn().Err(err).Str("shop", auth.Shop).Int64("variant_id", id).Msg("costing: no se pudo leer el ítem de inventario")
		return unresolved()
	}
	return fromItem(item)
}

// ── Consulta puntual ────────────────────────────────────────────────────────

// Método con el que ResolveOne obtuvo el costo.
const (
	MethodDirect     = "direct"
	MethodViaProduct = "via_product"
	MethodFailed     = "failed"
)

// SingleCost resultado de ResolveOne.
type SingleCost struct {
	VariantID       int64
	InventoryItemID int64
	Cost            decimal.Decimal
	Resolved        bool
	Method          string
	Error           string
}

// ResolveOne costo de una variante sin pasar por la caché. Primero lee variante e ítem de
// inventario directamente; si falla, espera fallbackDelay y repite buscando la variante dentro de
// su producto. Si ambos caminos fallan devuelve costo 0 con Method "failed"; no es un error para
// el llamador.
func (r *Resolver) ResolveOne(ctx context.Context, auth ports.ShopAuth, variantID int64) SingleCost {
	res, err := r.direct(ctx, auth, variantID)
	if err == nil {
		return res
	}
	r.log.Warn().Err(err).Int64("variant_id", variantID).Msg("costing: lectura directa falló, se intenta vía producto")

	if r.fallbackDelay > 0 {
		select {
		case <-ctx.Done():
			return SingleCost{VariantID: variantID, Cost: decimal.Zero, Method: MethodFailed, Error: ctx.Err().Error()}
		case <-time.After(r.fallbackDelay):
		}
	}

	res, err = r.viaProduct(ctx, auth, variantID)
	if err != nil {
		r.log.Warn().Err(err).Int64("variant_id", variantID).Msg("costing: no se pudo obtener el costo")
		return SingleCost{VariantID: variantID, Cost: decimal.Zero, Method: MethodFailed, Error: err.Error()}
	}
	return res
}

func (r *Resolver) direct(ctx context.Context, auth ports.ShopAuth, variantID int64) (SingleCost, error) {
	v, err := r.client.GetVariant(ctx, auth, variantID)
	if err != nil {
		return SingleCost{}, err
	}
	return r.costOf(ctx, auth, variantID, v.InventoryItemID, MethodDirect)
}

func (r *Resolver) viaProduct(ctx context.Context, auth ports.ShopAuth, variantID int64) (SingleCost, error) {
	v, err := r.client.GetVariant(ctx, auth, variantID)
	if err != nil {
		return SingleCost{}, err
	}
	p, err := r.client.GetProduct(ctx, auth, v.ProductID)
	if err != nil {
		return SingleCost{}, err
	}
	for _, pv := range p.Variants {
		if pv.ID == variantID {
			return r.costOf(ctx, auth, variantID, pv.InventoryItemID, MethodViaProduct)
		}
	}
	return SingleCost{}, errVariantUnknown
}

func (r *Resolver) costOf(ctx context.Context, auth ports.ShopAuth, variantID, itemID int64, method string) (SingleCost, error) {
	if itemID == 0 {
		return SingleCost{}, errNoInventoryItem
	}
	item, err := r.client.GetInventoryItem(ctx, auth, itemID)
	if err != nil {
		return SingleCost{}, err
	}
	res := SingleCost{VariantID: variantID, InventoryItemID: itemID, Cost: decimal.Zero, Method: method}
	if item.Cost != nil {
		res.Cost, res.Resolved = *item.Cost, true
	}
	return res, nil
}
