package ports

import (
	"context"
	"time"

	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
)

// ShopAuth credenciales de una tienda para llamar a la Admin API.
type ShopAuth struct {
	Shop        string
	AccessToken string
}

// OrderQuery filtros de ListOrders. Since/Until cero = sin límite.
// MaxResults > 0 corta la paginación al alcanzar esa cantidad.
type OrderQuery struct {
	Since      time.Time
	Until      time.Time
	MaxResults int
}

// ProductQuery una página del listado de productos.
// Con PageInfo solo se respetan Limit y Fields (regla de la paginación por cursor de Shopify).
type ProductQuery struct {
	PageInfo string
	Status   string
	Fields   string
	Limit    int
}

// ProductPage página de productos y cursor de la siguiente ("" si es la última).
type ProductPage struct {
	Products     []entity.Product
	NextPageInfo string
}

// OAuthToken respuesta del intercambio code -> access token.
type OAuthToken struct {
	AccessToken string
	Scope       string
}

// CommerceClient puerto de salida hacia la Admin API de Shopify.
// Los errores de red o HTTP se devuelven envueltos; la política de tolerancia la decide cada caso de uso.
type CommerceClient interface {
	ListOrders(ctx context.Context, auth ShopAuth, q OrderQuery) ([]entity.Order, error)
	ListProducts(ctx context.Context, auth ShopAuth, q ProductQuery) (*ProductPage, error)
	GetProduct(ctx context.Context, auth ShopAuth, productID int64) (*entity.Product, error)
	CountProducts(ctx context.Context, auth ShopAuth) (int, error)
	GetVariant(ctx context.Context, auth ShopAuth, variantID int64) (*entity.Variant, error)
	GetVariants(ctx context.Context, auth ShopAuth, variantIDs []int64) ([]entity.Variant, error)
	GetInventoryItem(ctx context.Context, auth ShopAuth, itemID int64) (*entity.InventoryItem, error)
	GetInventoryItems(ctx context.Context, auth ShopAuth, itemIDs []int64) ([]entity.InventoryItem, error)
	ListLocations(ctx context.Context, auth ShopAuth) ([]entity.Location, error)
	ListInventoryLevels(ctx context.Context, auth ShopAuth, itemIDs, locationIDs []int64) ([]entity.InventoryLevel, error)
	ExchangeToken(ctx context.Context, shop, code string) (*OAuthToken, error)
}
