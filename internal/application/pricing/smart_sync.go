package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shopify-profit-api/internal/application/dto"
	"github.com/jhoicas/shopify-profit-api/internal/application/ports"
	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
	"github.com/jhoicas/shopify-profit-api/internal/domain/pricing"
	"github.com/jhoicas/shopify-profit-api/internal/domain/repository"
)

// syncRun acumula contadores y errores de una corrida.
type syncRun struct {
	stats  dto.SyncStatsDTO
	errors []string
}

func (r *syncRun) fail(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *syncRun) result() *dto.SyncStatsDTO {
	out := r.stats
	out.Errors = len(r.errors)
	out.ErrorDetails = r.errors
	if len(out.ErrorDetails) > maxErrorDetails {
		out.ErrorDetails = out.ErrorDetails[:maxErrorDetails]
	}
	if out.ErrorDetails == nil {
		out.ErrorDetails = []string{}
	}
	return &out
}

// SmartSync recorre todo el catálogo de Shopify y actualiza en la caché solo lo que cambió.
//
// Productos se emparejan por handle; los que no están en caché se cuentan en NewProductsFound
// y no se crean. Variantes se emparejan por SKU y, si no, por opciones. Precio y costo de
// Shopify siempre ganan; diferencias de hasta un centavo no cuentan como cambio.
//
// Solo fallan la corrida el listado remoto, la lectura de productos cacheados o la cancelación
// de ctx; cualquier otro error se registra y se sigue con el próximo ítem.
func (uc *UseCase) SmartSync(ctx context.Context, auth ports.ShopAuth) (*dto.SyncStatsDTO, error) {
	log := uc.log.Shop(auth.Shop)
	log.Info().Msg("smart sync: inicio")

	remote, err := uc.fetchCatalog(ctx, auth, "")
	if err != nil {
		return nil, fmt.Errorf("smart sync: listar productos: %w", err)
	}

	cached, err := uc.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("smart sync: productos en caché: %w", err)
	}
	byHandle := make(map[string]entity.CachedProduct, len(cached))
	for _, p := range cached {
		byHandle[p.Handle] = p
	}

	run := &syncRun{}
	for _, rp := range remote {
		run.stats.ProductsChecked++
		cp, ok := byHandle[rp.Handle]
		if !ok {
			log.Debug().Str("handle", rp.Handle).Msg("smart sync: producto nuevo, no está en caché")
			run.stats.NewProductsFound++
			continue
		}

		uc.syncProduct(ctx, auth, rp, cp, run)

		if err := pause(ctx, uc.delays.Product); err != nil {
			return nil, fmt.Errorf("smart sync: %w", err)
		}
	}

	res := run.result()
	log.Info().
		Int("products_checked", res.ProductsChecked).
		Int("products_updated", res.ProductsUpdated).
		Int("variants_updated", res.VariantsUpdated).
		Int("price_changes", res.PriceChanges).
		Int("cost_changes", res.CostChanges).
		Int("new_products", res.NewProductsFound).
		Int("errors", res.Errors).
		Msg("smart sync: fin")
	return res, nil
}

// fetchCatalog trae todas las páginas de productos, con pausa entre páginas.
func (uc *UseCase) fetchCatalog(ctx context.Context, auth ports.ShopAuth, status string) ([]entity.Product, error) {
	var all []entity.Product
	q := ports.ProductQuery{Limit: pageSize, Status: status}
	for {
		page, err := uc.client.ListProducts(ctx, auth, q)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Products...)
		if page.NextPageInfo == "" {
			return all, nil
		}
		if err := pause(ctx, uc.delays.Page); err != nil {
			return nil, err
		}
		q = ports.ProductQuery{Limit: pageSize, PageInfo: page.NextPageInfo}
	}
}

func (uc *UseCase) syncProduct(ctx context.Context, auth ports.ShopAuth, rp entity.Product, cp entity.CachedProduct, run *syncRun) {
	if changed := pricing.ProductChanges(rp, cp); len(changed) > 0 {
		err := uc.repo.UpdateProduct(ctx, rp.Handle, repository.ProductUpdate{
			ShopifyProductID: rp.ID,
			Title:            rp.Title,
			Vendor:           rp.Vendor,
			ProductType:      rp.ProductType,
			Status:           rp.Status,
			ImageURL:         rp.ImageURL,
			SyncedAt:         uc.now(),
		})
		if err != nil {
			uc.log.Error().Err(err).Str("handle", rp.Handle).Msg("smart sync: actualizar producto")
			run.fail("Product %s: %v", rp.Handle, err)
		} else {
			run.stats.ProductsUpdated++
		}
	}

	variants, err := uc.repo.ListVariantsByHandle(ctx, rp.Handle)
	if err != nil {
		run.fail("Product %s variants: %v", rp.Handle, err)
		return
	}

	for _, rv := range rp.Variants {
		run.stats.VariantsChecked++
		cv := pricing.MatchVariant(rv, variants)
		if cv == nil {
			uc.log.Debug().Str("handle", rp.Handle).Str("sku", rv.SKU).Msg("smart sync: variante sin par en caché")
			continue
		}
		uc.syncVariant(ctx, auth, rp, rv, cv, run)
	}
}

func (uc *UseCase) syncVariant(ctx context.Context, auth ports.ShopAuth, rp entity.Product, rv entity.Variant, cv *entity.CachedVariant, run *syncRun) {
	// Sin ítem de inventario o con la lectura fallida el costo remoto es desconocido
	// y no se compara: solo pueden cambiar precio e IDs.
	remoteCost, costKnown := decimal.Zero, false
	if rv.InventoryItemID != 0 {
		item, err := uc.client.GetInventoryItem(ctx, auth, rv.InventoryItemID)
		if err != nil {
			uc.log.Warn().Err(err).Int64("variant_id", rv.ID).Msg("smart sync: no se pudo leer el costo")
			run.fail("Variant %s cost: %v", variantLabel(rv), err)
		} else {
			costKnown = true
			if item.Cost != nil {
				remoteCost = *item.Cost
			}
		}
		// Una pausa fallida por cancelación la detecta el bucle de productos.
		_ = pause(ctx, uc.delays.Item)
	}

	cachedCost := decimal.Zero
	if cv.Cost.Valid {
		cachedCost = cv.Cost.Decimal
	}
	priceChanged := pricing.Changed(rv.Price, cv.Price)
	costChanged := costKnown && pricing.Changed(remoteCost, cachedCost)

	if !priceChanged && !costChanged && cv.ShopifyVariantID != nil {
		return
	}

	u := repository.VariantUpdate{
		ShopifyVariantID: rv.ID,
		ShopifyProductID: rp.ID,
		SyncedAt:         uc.now(),
	}
	if rv.InventoryItemID != 0 {
		item := rv.InventoryItemID
		u.InventoryItemID = &item
	}
	if priceChanged {
		u.Price = decimal.NewNullDecimal(rv.Price)
	}
	if costChanged {
		u.Cost = decimal.NewNullDecimal(remoteCost)
	}

	if err := uc.repo.UpdateVariant(ctx, cv.ID, u); err != nil {
		uc.log.Error().Err(err).Str("variant", cv.ID).Msg("smart sync: actualizar variante")
		run.fail("Variant %s: %v", variantLabel(rv), err)
		return
	}
	run.stats.VariantsUpdated++
	if priceChanged {
		run.stats.PriceChanges++
		uc.log.Info().Str("handle", rp.Handle).Str("sku", rv.SKU).
			Str("from", cv.Price.String()).Str("to", rv.Price.String()).Msg("smart sync: cambio de precio")
	}
	if costChanged {
		run.stats.CostChanges++
		uc.log.Info().Str("handle", rp.Handle).Str("sku", rv.SKU).
			Str("from", cachedCost.String()).Str("to", remoteCost.String()).Msg("smart sync: cambio de costo")
	}
}

func variantLabel(v entity.Variant) string {
	if v.SKU != "" {
		return v.SKU
	}
	return fmt.Sprintf("%d", v.ID)
}
