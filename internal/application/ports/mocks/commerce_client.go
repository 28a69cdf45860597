// Package mocks dobles de prueba de los puertos de aplicación sobre testify/mock.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/shopify-profit-api/internal/application/ports"
	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
)

var _ ports.CommerceClient = (*CommerceClient)(nil)

// CommerceClient mock de ports.CommerceClient.
type CommerceClient struct {
	mock.Mock
}

func (m *CommerceClient) ListOrders(ctx context.Context, auth ports.ShopAuth, q ports.OrderQuery) ([]entity.Order, error) {
	args := m.Called(ctx, auth, q)
	orders, _ := args.Get(0).([]entity.Order)
	return orders, args.Error(1)
}

func (m *CommerceClient) ListProducts(ctx context.Context, auth ports.ShopAuth, q ports.ProductQuery) (*ports.ProductPage, error) {
	args := m.Called(ctx, auth, q)
	page, _ := args.Get(0).(*ports.ProductPage)
	return page, args.Error(1)
}

func (m *CommerceClient) GetProduct(ctx context.Context, auth ports.ShopAuth, productID int64) (*entity.Product, error) {
	args := m.Called(ctx, auth, productID)
	p, _ := args.Get(0).(*entity.Product)
	return p, args.Error(1)
}

func (m *CommerceClient) CountProducts(ctx context.Context, auth ports.ShopAuth) (int, error) {
	args := m.Called(ctx, auth)
	return args.Int(0), args.Error(1)
}

func (m *CommerceClient) GetVariant(ctx context.Context, auth ports.ShopAuth, variantID int64) (*entity.Variant, error) {
	args := m.Called(ctx, auth, variantID)
	v, _ := args.Get(0).(*entity.Variant)
	return v, args.Error(1)
}

func (m *CommerceClient) GetVariants(ctx context.Context, auth ports.ShopAuth, variantIDs []int64) ([]entity.Variant, error) {
	args := m.Called(ctx, auth, variantIDs)
	vs, _ := args.Get(0).([]entity.Variant)
	return vs, args.Error(1)
}

func (m *CommerceClient) GetInventoryItem(ctx context.Context, auth ports.ShopAuth, itemID int64) (*entity.InventoryItem, error) {
	args := m.Called(ctx, auth, itemID)
	it, _ := args.Get(0).(*entity.InventoryItem)
	return it, args.Error(1)
}

func (m *CommerceClient) GetInventoryItems(ctx context.Context, auth ports.ShopAuth, itemIDs []int64) ([]entity.InventoryItem, error) {
	args := m.Called(ctx, auth, itemIDs)
	its, _ := args.Get(0).([]entity.InventoryItem)
	return its, args.Error(1)
}

func (m *CommerceClient) ListLocations(ctx context.Context, auth ports.ShopAuth) ([]entity.Location, error) {
	args := m.Called(ctx, auth)
	ls, _ := args.Get(0).([]entity.Location)
	return ls, args.Error(1)
}

func (m *CommerceClient) ListInventoryLevels(ctx context.Context, auth ports.ShopAuth, itemIDs, locationIDs []int64) ([]entity.InventoryLevel, error) {
	args := m.Called(ctx, auth, itemIDs, locationIDs)
	lv, _ := args.Get(0).([]entity.InventoryLevel)
	return lv, args.Error(1)
}

func (m *CommerceClient) ExchangeToken(ctx context.Context, shop, code string) (*ports.OAuthToken, error) {
	args := m.Called(ctx, shop, code)
	tok, _ := args.Get(0).(*ports.OAuthToken)
	return tok, args.Error(1)
}
