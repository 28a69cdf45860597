package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
)

// ProductUpdate campos que la sincronización escribe sobre un producto existente.
type ProductUpdate struct {
	ShopifyProductID int64
	Title            string
	Vendor           string
	ProductType      string
	Status           string
	ImageURL         string
	SyncedAt         time.Time
}

// VariantUpdate campos que la sincronización escribe sobre una variante existente.
// Price/Cost inválidos (Valid=false) dejan el valor guardado y su marca de cambio intactos.
type VariantUpdate struct {
	ShopifyVariantID int64
	ShopifyProductID int64
	InventoryItemID  *int64 // nil escribe NULL
	Price            decimal.NullDecimal
	Cost             decimal.NullDecimal
	SyncedAt         time.Time
}

// SyncStats conteos de la caché local.
type SyncStats struct {
	TotalProducts       int
	SyncedProducts      int
	TotalVariants       int
	SyncedVariants      int
	VariantsNeedingSync int
	LastSyncTime        *time.Time
}

// ProductPricingSummary fila del listado resumido de precios.
type ProductPricingSummary struct {
	ProductID        string
	Handle           string
	Title            string
	Vendor           string
	Status           string
	ShopifyProductID *int64
	VariantCount     int
	MinPrice         decimal.Decimal
	MaxPrice         decimal.Decimal
	MissingCostCount int
	LastSyncedAt     *time.Time
}

// PricingRepository puerto de persistencia de la caché de precios (products / product_variants).
type PricingRepository interface {
	GetVariantsByShopifyIDs(ctx context.Context, ids []int64) ([]entity.CachedVariant, error)
	ListProducts(ctx context.Context) ([]entity.CachedProduct, error)
	ListVariantsByHandle(ctx context.Context, handle string) ([]entity.CachedVariant, error)
	UpdateProduct(ctx context.Context, handle string, u ProductUpdate) error
	UpdateVariant(ctx context.Context, id string, u VariantUpdate) error
	// UpsertProduct inserta o actualiza por handle; inserted=true si la fila es nueva.
	UpsertProduct(ctx context.Context, p *entity.CachedProduct) (inserted bool, err error)
	// UpsertVariant inserta o actualiza por shopify_variant_id.
	UpsertVariant(ctx context.Context, v *entity.CachedVariant) (inserted bool, err error)
	GetStats(ctx context.Context) (*SyncStats, error)
	ListPricingSummary(ctx context.Context) ([]ProductPricingSummary, error)
	GetProductWithVariants(ctx context.Context, productID string) (*entity.CachedProduct, []entity.CachedVariant, error)
}
