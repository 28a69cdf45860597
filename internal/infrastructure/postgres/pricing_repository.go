package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/shopify-profit-api/internal/domain"
	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
	"github.com/jhoicas/shopify-profit-api/internal/domain/repository"
)

var _ repository.PricingRepository = (*PricingRepo)(nil)

// PricingRepo caché de precios sobre PostgreSQL (usable con pool o tx).
type PricingRepo struct {
	q Querier
}

// NewPricingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPricingRepository(q Querier) *PricingRepo {
	return &PricingRepo{q: q}
}

const productColumns = `id, handle, shopify_product_id, title, COALESCE(vendor, ''), COALESCE(product_type, ''),
	COALESCE(status, ''), COALESCE(tags, ''), COALESCE(image_url, ''), last_synced_at, created_at, updated_at`

const variantColumns = `id, product_id, handle, shopify_product_id, shopify_variant_id, inventory_item_id,
	title, COALESCE(sku, ''), option1_value, option2_value, option3_value, price, cost, compare_at_price,
	position, COALESCE(image_url, ''), needs_sync, last_synced_at, last_price_change, last_cost_change`

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner, p *entity.CachedProduct) error {
	return row.Scan(
		&p.ID, &p.Handle, &p.ShopifyProductID, &p.Title, &p.Vendor, &p.ProductType,
		&p.Status, &p.Tags, &p.ImageURL, &p.LastSyncedAt, &p.CreatedAt, &p.UpdatedAt,
	)
}

func scanVariant(row scanner, v *entity.CachedVariant) error {
	return row.Scan(
		&v.ID, &v.ProductID, &v.Handle, &v.ShopifyProductID, &v.ShopifyVariantID, &v.InventoryItemID,
		&v.Title, &v.SKU, &v.Option1, &v.Option2, &v.Option3, &v.Price, &v.Cost, &v.CompareAtPrice,
		&v.Position, &v.ImageURL, &v.NeedsSync, &v.LastSyncedAt, &v.LastPriceChange, &v.LastCostChange,
	)
}

func (r *PricingRepo) queryVariants(ctx context.Context, op, query string, args ...any) ([]entity.CachedVariant, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var list []entity.CachedVariant
	for rows.Next() {
		var v entity.CachedVariant
		if err := scanVariant(rows, &v); err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// GetVariantsByShopifyIDs una sola consulta para todos los IDs pedidos.
func (r *PricingRepo) GetVariantsByShopifyIDs(ctx context.Context, ids []int64) ([]entity.CachedVariant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.queryVariants(ctx, "variants by shopify ids",
		`SELECT `+variantColumns+` FROM product_variants WHERE shopify_variant_id = ANY($1)`, ids)
}

// ListProducts todos los productos de la caché.
func (r *PricingRepo) ListProducts(ctx context.Context) ([]entity.CachedProduct, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY handle`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []entity.CachedProduct
	for rows.Next() {
		var p entity.CachedProduct
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("list products scan: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ListVariantsByHandle variantes de un producto, en orden de posición.
func (r *PricingRepo) ListVariantsByHandle(ctx context.Context, handle string) ([]entity.CachedVariant, error) {
	return r.queryVariants(ctx, "variants by handle",
		`SELECT `+variantColumns+` FROM product_variants WHERE handle = $1 ORDER BY position, id`, handle)
}

// UpdateProduct escribe los atributos remotos y marca last_synced_at.
func (r *PricingRepo) UpdateProduct(ctx context.Context, handle string, u repository.ProductUpdate) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET shopify_product_id = $2, title = $3, vendor = $4, product_type = $5,
			status = $6, image_url = NULLIF($7, ''), last_synced_at = $8, updated_at = now()
		WHERE handle = $1`,
		handle, u.ShopifyProductID, u.Title, u.Vendor, u.ProductType, u.Status, u.ImageURL, u.SyncedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateVariant escribe ids de Shopify y, si vienen, precio y costo con su marca de cambio.
func (r *PricingRepo) UpdateVariant(ctx context.Context, id string, u repository.VariantUpdate) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE product_variants SET
			shopify_variant_id = $2,
			shopify_product_id = $3,
			inventory_item_id  = $4,
			last_synced_at     = $5,
			needs_sync         = false,
			price              = COALESCE($6, price),
			last_price_change  = CASE WHEN $6::numeric IS NULL THEN last_price_change ELSE $5 END,
			cost               = COALESCE($7, cost),
			last_cost_change   = CASE WHEN $7::numeric IS NULL THEN last_cost_change ELSE $5 END,
			updated_at         = now()
		WHERE id = $1`,
		id, u.ShopifyVariantID, u.ShopifyProductID, u.InventoryItemID, u.SyncedAt, u.Price, u.Cost,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update variant: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpsertProduct inserta o actualiza por handle y completa p.ID.
func (r *PricingRepo) UpsertProduct(ctx context.Context, p *entity.CachedProduct) (bool, error) {
	var inserted bool
	err := r.q.QueryRow(ctx, `
		INSERT INTO products (handle, shopify_product_id, title, vendor, product_type, status, tags, image_url, last_synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
		ON CONFLICT (handle) DO UPDATE SET
			shopify_product_id = EXCLUDED.shopify_product_id,
			title = EXCLUDED.title, vendor = EXCLUDED.vendor, product_type = EXCLUDED.product_type,
			status = EXCLUDED.status, tags = EXCLUDED.tags, image_url = EXCLUDED.image_url,
			last_synced_at = EXCLUDED.last_synced_at, updated_at = now()
		RETURNING id, (xmax = 0)`,
		p.Handle, p.ShopifyProductID, p.Title, p.Vendor, p.ProductType, p.Status, p.Tags, p.ImageURL, p.LastSyncedAt,
	).Scan(&p.ID, &inserted)
	if err != nil {
		if isUniqueViolation(err) {
			return false, domain.ErrDuplicate
		}
		return false, fmt.Errorf("upsert product: %w", err)
	}
	return inserted, nil
}

// UpsertVariant inserta o actualiza por shopify_variant_id; v.ShopifyVariantID es obligatorio.
func (r *PricingRepo) UpsertVariant(ctx context.Context, v *entity.CachedVariant) (bool, error) {
	if v.ShopifyVariantID == nil {
		return false, fmt.Errorf("upsert variant: %w: shopify_variant_id vacío", domain.ErrInvalidInput)
	}
	var inserted bool
	err := r.q.QueryRow(ctx, `
		INSERT INTO product_variants (product_id, handle, shopify_product_id, shopify_variant_id, inventory_item_id,
			title, sku, option1_value, option2_value, option3_value, price, cost, compare_at_price, position,
			needs_sync, last_synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12, $13, $14, false, $15)
		ON CONFLICT (shopify_variant_id) DO UPDATE SET
			product_id = EXCLUDED.product_id, handle = EXCLUDED.handle,
			shopify_product_id = EXCLUDED.shopify_product_id, inventory_item_id = EXCLUDED.inventory_item_id,
			title = EXCLUDED.title, sku = EXCLUDED.sku,
			option1_value = EXCLUDED.option1_value, option2_value = EXCLUDED.option2_value, option3_value = EXCLUDED.option3_value,
			last_price_change = CASE WHEN product_variants.price IS DISTINCT FROM EXCLUDED.price THEN EXCLUDED.last_synced_at ELSE product_variants.last_price_change END,
			last_cost_change  = CASE WHEN product_variants.cost IS DISTINCT FROM EXCLUDED.cost THEN EXCLUDED.last_synced_at ELSE product_variants.last_cost_change END,
			price = EXCLUDED.price, cost = EXCLUDED.cost, compare_at_price = EXCLUDED.compare_at_price,
			position = EXCLUDED.position, needs_sync = false, last_synced_at = EXCLUDED.last_synced_at,
			updated_at = now()
		RETURNING id, (xmax = 0)`,
		v.ProductID, v.Handle, v.ShopifyProductID, v.ShopifyVariantID, v.InventoryItemID,
		v.Title, v.SKU, v.Option1, v.Option2, v.Option3, v.Price, v.Cost, v.CompareAtPrice, v.Position,
		v.LastSyncedAt,
	).Scan(&v.ID, &inserted)
	if err != nil {
		return false, fmt.Errorf("upsert variant: %w", err)
	}
	return inserted, nil
}

// GetStats conteos de sincronización de la caché.
func (r *PricingRepo) GetStats(ctx context.Context) (*repository.SyncStats, error) {
	var s repository.SyncStats
	err := r.q.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM products WHERE shopify_product_id IS NOT NULL),
			(SELECT COUNT(*) FROM product_variants),
			(SELECT COUNT(*) FROM product_variants WHERE shopify_variant_id IS NOT NULL),
			(SELECT COUNT(*) FROM product_variants WHERE needs_sync),
			(SELECT MAX(last_synced_at) FROM product_variants)`,
	).Scan(&s.TotalProducts, &s.SyncedProducts, &s.TotalVariants, &s.SyncedVariants, &s.VariantsNeedingSync, &s.LastSyncTime)
	if err != nil {
		return nil, fmt.Errorf("pricing stats: %w", err)
	}
	return &s, nil
}

// ListPricingSummary una fila por producto con rango de precios y variantes sin costo.
func (r *PricingRepo) ListPricingSummary(ctx context.Context) ([]repository.ProductPricingSummary, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.id, p.handle, p.title, COALESCE(p.vendor, ''), COALESCE(p.status, ''), p.shopify_product_id,
			COUNT(v.id),
			COALESCE(MIN(v.price), 0), COALESCE(MAX(v.price), 0),
			COUNT(v.id) FILTER (WHERE v.cost IS NULL OR v.cost = 0),
			p.last_synced_at
		FROM products p
		LEFT JOIN product_variants v ON v.product_id = p.id
		GROUP BY p.id
		ORDER BY p.title, p.handle`)
	if err != nil {
		return nil, fmt.Errorf("pricing summary: %w", err)
	}
	defer rows.Close()

	var list []repository.ProductPricingSummary
	for rows.Next() {
		var s repository.ProductPricingSummary
		if err := rows.Scan(&s.ProductID, &s.Handle, &s.Title, &s.Vendor, &s.Status, &s.ShopifyProductID,
			&s.VariantCount, &s.MinPrice, &s.MaxPrice, &s.MissingCostCount, &s.LastSyncedAt); err != nil {
			return nil, fmt.Errorf("pricing summary scan: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// GetProductWithVariants producto y sus variantes por posición. (nil, nil, nil) si no existe.
func (r *PricingRepo) GetProductWithVariants(ctx context.Context, productID string) (*entity.CachedProduct, []entity.CachedVariant, error) {
	var p entity.CachedProduct
	if err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, productID), &p); err != nil {
		if isNotFound(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("get product: %w", err)
	}
	variants, err := r.queryVariants(ctx, "product variants",
		`SELECT `+variantColumns+` FROM product_variants WHERE product_id = $1 ORDER BY position, id`, productID)
	if err != nil {
		return nil, nil, err
	}
	return &p, variants, nil
}
