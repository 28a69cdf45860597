package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CachedProduct producto en la caché local de precios (tabla products).
// El handle es la clave natural compartida con Shopify.
type CachedProduct struct {
	ID               string
	Handle           string
	ShopifyProductID *int64
	Title            string
	Vendor           string
	ProductType      string
	Status           string
	Tags             string
	ImageURL         string
	LastSyncedAt     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CachedVariant variante en la caché local de precios (tabla product_variants).
type CachedVariant struct {
	ID               string
	ProductID        string
	Handle           string
	ShopifyProductID *int64
	ShopifyVariantID *int64
	InventoryItemID  *int64
	Title            string
	SKU              string
	Option1          *string
	Option2          *string
	Option3          *string
	Price            decimal.Decimal
	Cost             decimal.NullDecimal // NULL = costo nunca cargado
	CompareAtPrice   decimal.NullDecimal
	Position         int
	ImageURL         string
	NeedsSync        bool
	LastSyncedAt     *time.Time
	LastPriceChange  *time.Time
	LastCostChange   *time.Time
}

// Product producto tal como lo devuelve Shopify.
type Product struct {
	ID          int64
	Handle      string
	Title       string
	Vendor      string
	ProductType string
	Status      string
	Tags        string
	ImageURL    string
	Variants    []Variant
}

// Variant variante tal como la devuelve Shopify.
type Variant struct {
	ID              int64
	ProductID       int64
	InventoryItemID int64
	Title           string
	SKU             string
	Option1         *string
	Option2         *string
	Option3         *string
	Price           decimal.Decimal
	CompareAtPrice  decimal.NullDecimal
	Position        int
}

// InventoryItem ítem de inventario de Shopify; Cost nil si la tienda no lo cargó.
type InventoryItem struct {
	ID   int64
	SKU  string
	Cost *decimal.Decimal
}
