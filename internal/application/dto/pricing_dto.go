package dto

import "time"

// SyncStatsDTO resultado de POST /api/pricing/smart-sync.
type SyncStatsDTO struct {
	ProductsChecked  int      `json:"products_checked"`
	ProductsUpdated  int      `json:"products_updated"`
	VariantsChecked  int      `json:"variants_checked"`
	VariantsUpdated  int      `json:"variants_updated"`
	PriceChanges     int      `json:"price_changes"`
	CostChanges      int      `json:"cost_changes"`
	NewProductsFound int      `json:"new_products_found"`
	Errors           int      `json:"errors"`
	ErrorDetails     []string `json:"error_details"`
}

// SyncAllDTO resultado de POST /api/pricing/sync-all.
type SyncAllDTO struct {
	ProductsProcessed int      `json:"products_processed"`
	ProductsAdded     int      `json:"products_added"`
	ProductsUpdated   int      `json:"products_updated"`
	Errors            []string `json:"errors"`
}

// SyncProductRequest cuerpo de POST /api/pricing/sync-product.
type SyncProductRequest struct {
	Shop      string `json:"shop"`
	ProductID int64  `json:"productId"`
}

// SyncProductDTO resultado de POST /api/pricing/sync-product.
type SyncProductDTO struct {
	ProductID      string `json:"product_id"`
	Title          string `json:"title"`
	Inserted       bool   `json:"inserted"`
	VariantsSynced int    `json:"variants_synced"`
}

// RemoteCatalogStatsDTO conteos del lado de Shopify; Error si no se pudieron leer.
type RemoteCatalogStatsDTO struct {
	TotalProducts int    `json:"total_products"`
	TotalVariants int    `json:"total_variants"`
	Error         string `json:"error,omitempty"`
}

// CacheStatsDTO conteos de la caché local.
type CacheStatsDTO struct {
	TotalProducts       int        `json:"total_products"`
	TotalVariants       int        `json:"total_variants"`
	SyncedProducts      int        `json:"synced_products"`
	SyncedVariants      int        `json:"synced_variants"`
	VariantsNeedingSync int        `json:"variants_needing_sync"`
	LastSyncTime        *time.Time `json:"last_sync_time"`
}

// PricingStatsDTO respuesta de GET /api/pricing/stats.
type PricingStatsDTO struct {
	Shopify RemoteCatalogStatsDTO `json:"shopify"`
	Cache   CacheStatsDTO         `json:"cache"`
}

// PricingSummaryDTO fila de GET /api/pricing/list.
type PricingSummaryDTO struct {
	ProductID        string     `json:"product_id"`
	Handle           string     `json:"handle"`
	Title            string     `json:"title"`
	Vendor           string     `json:"vendor"`
	Status           string     `json:"status"`
	ShopifyProductID *int64     `json:"shopify_product_id"`
	VariantCount     int        `json:"variant_count"`
	MinPrice         Money      `json:"min_price"`
	MaxPrice         Money      `json:"max_price"`
	MissingCostCount int        `json:"missing_cost_count"`
	LastSyncedAt     *time.Time `json:"last_synced_at"`
}

// PricingVariantDTO variante cacheada con margen.
type PricingVariantDTO struct {
	ID               string     `json:"id"`
	ShopifyVariantID *int64     `json:"shopify_variant_id"`
	Title            string     `json:"title"`
	SKU              string     `json:"sku"`
	Price            Money      `json:"price"`
	Cost             *Money     `json:"cost"`
	CompareAtPrice   *Money     `json:"compare_at_price"`
	MarginPct        *Money     `json:"margin_pct"`
	CostStatus       string     `json:"cost_status"`
	Position         int        `json:"position"`
	LastSyncedAt     *time.Time `json:"last_synced_at"`
	LastPriceChange  *time.Time `json:"last_price_change"`
	LastCostChange   *time.Time `json:"last_cost_change"`
}

// PricingProductDTO producto cacheado con sus variantes.
type PricingProductDTO struct {
	ID               string              `json:"id"`
	Handle           string              `json:"handle"`
	Title            string              `json:"title"`
	Vendor           string              `json:"vendor"`
	ProductType      string              `json:"product_type"`
	Status           string              `json:"status"`
	ShopifyProductID *int64              `json:"shopify_product_id"`
	ImageURL         string              `json:"image_url,omitempty"`
	LastSyncedAt     *time.Time          `json:"last_synced_at"`
	Variants         []PricingVariantDTO `json:"variants"`
}

// PricingListDTO respuesta de GET /api/pricing/list: Product si se pidió productId, si no Products.
type PricingListDTO struct {
	Product  *PricingProductDTO  `json:"product,omitempty"`
	Products []PricingSummaryDTO `json:"products,omitempty"`
}
