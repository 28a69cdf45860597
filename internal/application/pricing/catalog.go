package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/shopify-profit-api/internal/application/dto"
	"github.com/jhoicas/shopify-profit-api/internal/application/ports"
	"github.com/jhoicas/shopify-profit-api/internal/domain"
	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
	"github.com/jhoicas/shopify-profit-api/internal/domain/repository"
)

// ── Importación ─────────────────────────────────────────────────────────────

// SyncAll importa a la caché todos los productos activos de Shopify (sin variantes).
// Un producto que falla se anota y no detiene la importación.
func (uc *UseCase) SyncAll(ctx context.Context, auth ports.ShopAuth) (*dto.SyncAllDTO, error) {
	products, err := uc.fetchCatalog(ctx, auth, "active")
	if err != nil {
		return nil, fmt.Errorf("sync all: listar productos: %w", err)
	}

	res := &dto.SyncAllDTO{ProductsProcessed: len(products), Errors: []string{}}
	now := uc.now()
	for _, rp := range products {
		cp := cachedProduct(rp, now)
		inserted, err := uc.repo.UpsertProduct(ctx, &cp)
		if err != nil {
			uc.log.Error().Err(err).Str("shop", auth.Shop).Int64("product_id", rp.ID).Msg("sync all: upsert producto")
			res.Errors = append(res.Errors, fmt.Sprintf("Product %d: %v", rp.ID, err))
			continue
		}
		if inserted {
			res.ProductsAdded++
		} else {
			res.ProductsUpdated++
		}
	}
	uc.log.Info().Str("shop", auth.Shop).Int("processed", res.ProductsProcessed).
		Int("added", res.ProductsAdded).Int("updated", res.ProductsUpdated).Msg("sync all: fin")
	return res, nil
}

// SyncProduct importa un producto con todas sus variantes y costos en una sola transacción.
func (uc *UseCase) SyncProduct(ctx context.Context, auth ports.ShopAuth, productID int64) (*dto.SyncProductDTO, error) {
	if productID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	rp, err := uc.client.GetProduct(ctx, auth, productID)
	if err != nil {
		return nil, fmt.Errorf("sync product: leer producto: %w", err)
	}

	costs := make(map[int64]*decimal.Decimal, len(rp.Variants))
	var itemIDs []int64
	for _, v := range rp.Variants {
		if v.InventoryItemID != 0 {
			itemIDs = append(itemIDs, v.InventoryItemID)
		}
	}
	if len(itemIDs) > 0 {
		items, err := uc.client.GetInventoryItems(ctx, auth, itemIDs)
		if err != nil {
			return nil, fmt.Errorf("sync product: costos: %w", err)
		}
		for _, it := range items {
			costs[it.ID] = it.Cost
		}
	}

	now := uc.now()
	cp := cachedProduct(*rp, now)
	res := &dto.SyncProductDTO{Title: rp.Title}
	err = uc.tx.RunPricing(ctx, func(repo repository.PricingRepository) error {
		inserted, err := repo.UpsertProduct(ctx, &cp)
		if err != nil {
			return err
		}
		res.Inserted = inserted
		for _, v := range rp.Variants {
			cv := cachedVariant(cp, *rp, v, costs[v.InventoryItemID], now)
			if _, err := repo.UpsertVariant(ctx, &cv); err != nil {
				return fmt.Errorf("variante %d: %w", v.ID, err)
			}
			res.VariantsSynced++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sync product: %w", err)
	}
	res.ProductID = cp.ID
	return res, nil
}

func cachedProduct(p entity.Product, now time.Time) entity.CachedProduct {
	id := p.ID
	return entity.CachedProduct{
		Handle:           p.Handle,
		ShopifyProductID: &id,
		Title:            p.Title,
		Vendor:           p.Vendor,
		ProductType:      p.ProductType,
		Status:           p.Status,
		Tags:             p.Tags,
		ImageURL:         p.ImageURL,
		LastSyncedAt:     &now,
	}
}

// cachedVariant arma la fila de una variante. Sin costo en Shopify queda NULL (se muestra "NOT SET").
func cachedVariant(cp entity.CachedProduct, p entity.Product, v entity.Variant, cost *decimal.Decimal, now time.Time) entity.CachedVariant {
	vid, pid := v.ID, p.ID
	cv := entity.CachedVariant{
		ProductID:        cp.ID,
		Handle:           p.Handle,
		ShopifyProductID: &pid,
		ShopifyVariantID: &vid,
		Title:            v.Title,
		SKU:              v.SKU,
		Option1:          v.Option1,
		Option2:          v.Option2,
		Option3:          v.Option3,
		Price:            v.Price,
		CompareAtPrice:   v.CompareAtPrice,
		Position:         v.Position,
		LastSyncedAt:     &now,
	}
	if v.InventoryItemID != 0 {
		item := v.InventoryItemID
		cv.InventoryItemID = &item
	}
	if cost != nil {
		cv.Cost = decimal.NewNullDecimal(*cost)
	}
	return cv
}

// ── Consultas ───────────────────────────────────────────────────────────────

// Stats compara el tamaño del catálogo en Shopify con la caché local.
// Un fallo remoto se informa en Shopify.Error; solo falla si no se puede leer la caché.
func (uc *UseCase) Stats(ctx context.Context, auth ports.ShopAuth) (*dto.PricingStatsDTO, error) {
	var (
		remote dto.RemoteCatalogStatsDTO
		local  *repository.SyncStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		remote = uc.remoteStats(gctx, auth)
		return nil
	})
	g.Go(func() error {
		s, err := uc.repo.GetStats(gctx)
		if err != nil {
			return fmt.Errorf("pricing stats: caché: %w", err)
		}
		local = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.PricingStatsDTO{
		Shopify: remote,
		Cache: dto.CacheStatsDTO{
			TotalProducts:       local.TotalProducts,
			TotalVariants:       local.TotalVariants,
			SyncedProducts:      local.SyncedProducts,
			SyncedVariants:      local.SyncedVariants,
			VariantsNeedingSync: local.VariantsNeedingSync,
			LastSyncTime:        local.LastSyncTime,
		},
	}, nil
}

// remoteStats cuenta productos y las variantes de la primera página (máx. 250 productos).
func (uc *UseCase) remoteStats(ctx context.Context, auth ports.ShopAuth) dto.RemoteCatalogStatsDTO {
	var out dto.RemoteCatalogStatsDTO
	n, err := uc.client.CountProducts(ctx, auth)
	if err != nil {
		uc.log.Warn().Err(err).Str("shop", auth.Shop).Msg("pricing stats: conteo remoto")
		out.Error = err.Error()
		return out
	}
	out.TotalProducts = n

	page, err := uc.client.ListProducts(ctx, auth, ports.ProductQuery{Limit: pageSize, Fields: "id,variants"})
	if err != nil {
		uc.log.Warn().Err(err).Str("shop", auth.Shop).Msg("pricing stats: variantes remotas")
		out.Error = err.Error()
		return out
	}
	for _, p := range page.Products {
		out.TotalVariants += len(p.Variants)
	}
	return out
}

// List devuelve el resumen de todos los productos cacheados o, con productID, el detalle de uno.
func (uc *UseCase) List(ctx context.Context, productID string) (*dto.PricingListDTO, error) {
	if productID == "" {
		rows, err := uc.repo.ListPricingSummary(ctx)
		if err != nil {
			return nil, fmt.Errorf("pricing list: %w", err)
		}
		out := &dto.PricingListDTO{Products: make([]dto.PricingSummaryDTO, 0, len(rows))}
		for _, r := range rows {
			out.Products = append(out.Products, dto.PricingSummaryDTO{
				ProductID:        r.ProductID,
				Handle:           r.Handle,
				Title:            r.Title,
				Vendor:           r.Vendor,
				Status:           r.Status,
				ShopifyProductID: r.ShopifyProductID,
				VariantCount:     r.VariantCount,
				MinPrice:         dto.NewMoney(r.MinPrice),
				MaxPrice:         dto.NewMoney(r.MaxPrice),
				MissingCostCount: r.MissingCostCount,
				LastSyncedAt:     r.LastSyncedAt,
			})
		}
		return out, nil
	}

	if _, err := uuid.Parse(productID); err != nil {
		return nil, fmt.Errorf("%w: productId no es un UUID", domain.ErrInvalidInput)
	}
	p, variants, err := uc.repo.GetProductWithVariants(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("pricing list: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}

	detail := &dto.PricingProductDTO{
		ID:               p.ID,
		Handle:           p.Handle,
		Title:            p.Title,
		Vendor:           p.Vendor,
		ProductType:      p.ProductType,
		Status:           p.Status,
		ShopifyProductID: p.ShopifyProductID,
		ImageURL:         p.ImageURL,
		LastSyncedAt:     p.LastSyncedAt,
		Variants:         make([]dto.PricingVariantDTO, 0, len(variants)),
	}
	for _, v := range variants {
		detail.Variants = append(detail.Variants, variantDTO(v))
	}
	return &dto.PricingListDTO{Product: detail}, nil
}

var hundred = decimal.NewFromInt(100)

func variantDTO(v entity.CachedVariant) dto.PricingVariantDTO {
	out := dto.PricingVariantDTO{
		ID:               v.ID,
		ShopifyVariantID: v.ShopifyVariantID,
		Title:            v.Title,
		SKU:              v.SKU,
		Price:            dto.NewMoney(v.Price),
		CostStatus:       dto.CostStatusNotSet,
		Position:         v.Position,
		LastSyncedAt:     v.LastSyncedAt,
		LastPriceChange:  v.LastPriceChange,
		LastCostChange:   v.LastCostChange,
	}
	if v.CompareAtPrice.Valid {
		m := dto.NewMoney(v.CompareAtPrice.Decimal)
		out.CompareAtPrice = &m
	}
	if v.Cost.Valid && v.Cost.Decimal.IsPositive() {
		c := dto.NewMoney(v.Cost.Decimal)
		out.Cost = &c
		out.CostStatus = dto.CostStatusOK
		if v.Price.IsPositive() {
			m := dto.NewMoney(v.Price.Sub(v.Cost.Decimal).Div(v.Price).Mul(hundred))
			out.MarginPct = &m
		}
	}
	return out
}

// IsTimeout indica que la operación se cortó por el tiempo máximo de sincronización.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
