package pricing_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shopify-profit-api/internal/application/ports"
	"github.com/jhoicas/shopify-profit-api/internal/application/ports/mocks"
	"github.com/jhoicas/shopify-profit-api/internal/application/pricing"
	"github.com/jhoicas/shopify-profit-api/internal/domain"
	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
	"github.com/jhoicas/shopify-profit-api/internal/domain/repository"
	"github.com/jhoicas/shopify-profit-api/pkg/logger"
)

var auth = ports.ShopAuth{Shop: "demo.myshopify.com", AccessToken: "tok"}

// memRepo caché en memoria que aplica las actualizaciones como lo haría la base.
type memRepo struct {
	products       []entity.CachedProduct
	variants       []entity.CachedVariant
	listErr        error
	updateVarErr   error
	upsertErr      map[string]error
	productUpdates int
	upserts        int
	stats          *repository.SyncStats
	detail         *entity.CachedProduct
}

func (r *memRepo) GetVariantsByShopifyIDs(context.Context, []int64) ([]entity.CachedVariant, error) {
	return nil, nil
}

func (r *memRepo) ListProducts(context.Context) ([]entity.CachedProduct, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.products, nil
}

func (r *memRepo) ListVariantsByHandle(_ context.Context, handle string) ([]entity.CachedVariant, error) {
	var out []entity.CachedVariant
	for _, v := range r.variants {
		if v.Handle == handle {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *memRepo) UpdateProduct(_ context.Context, handle string, u repository.ProductUpdate) error {
	for i := range r.products {
		p := &r.products[i]
		if p.Handle != handle {
			continue
		}
		id := u.ShopifyProductID
		p.ShopifyProductID = &id
		p.Title, p.Vendor, p.ProductType, p.Status, p.ImageURL = u.Title, u.Vendor, u.ProductType, u.Status, u.ImageURL
		p.LastSyncedAt = &u.SyncedAt
		r.productUpdates++
		return nil
	}
	return domain.ErrNotFound
}

func (r *memRepo) UpdateVariant(_ context.Context, id string, u repository.VariantUpdate) error {
	if r.updateVarErr != nil {
		return r.updateVarErr
	}
	for i := range r.variants {
		v := &r.variants[i]
		if v.ID != id {
			continue
		}
		vid, pid := u.ShopifyVariantID, u.ShopifyProductID
		v.ShopifyVariantID, v.ShopifyProductID, v.InventoryItemID = &vid, &pid, u.InventoryItemID
		if u.Price.Valid {
			v.Price = u.Price.Decimal
		}
		if u.Cost.Valid {
			v.Cost = u.Cost
		}
		return nil
	}
	return domain.ErrNotFound
}

func (r *memRepo) UpsertProduct(_ context.Context, p *entity.CachedProduct) (bool, error) {
	if err := r.upsertErr[p.Handle]; err != nil {
		return false, err
	}
	r.upserts++
	for i := range r.products {
		if r.products[i].Handle == p.Handle {
			p.ID = r.products[i].ID
			r.products[i] = *p
			return false, nil
		}
	}
	p.ID = fmt.Sprintf("p-%d", len(r.products)+1)
	r.products = append(r.products, *p)
	return true, nil
}

func (r *memRepo) UpsertVariant(_ context.Context, v *entity.CachedVariant) (bool, error) {
	for i := range r.variants {
		if r.variants[i].ShopifyVariantID != nil && *r.variants[i].ShopifyVariantID == *v.ShopifyVariantID {
			v.ID = r.variants[i].ID
			r.variants[i] = *v
			return false, nil
		}
	}
	v.ID = fmt.Sprintf("v-%d", len(r.variants)+1)
	r.variants = append(r.variants, *v)
	return true, nil
}

func (r *memRepo) GetStats(context.Context) (*repository.SyncStats, error) {
	if r.stats == nil {
		return nil, errors.New("db down")
	}
	return r.stats, nil
}

func (r *memRepo) ListPricingSummary(context.Context) ([]repository.ProductPricingSummary, error) {
	return []repository.ProductPricingSummary{{ProductID: "p-1", Handle: "tee", VariantCount: 2,
		MinPrice: decimal.RequireFromString("10"), MaxPrice: decimal.RequireFromString("12.5")}}, nil
}

func (r *memRepo) GetProductWithVariants(_ context.Context, id string) (*entity.CachedProduct, []entity.CachedVariant, error) {
	if r.detail == nil || r.detail.ID != id {
		return nil, nil, nil
	}
	return r.detail, r.variants, nil
}

// txFake ejecuta la función directamente sobre el mismo repo.
type txFake struct {
	repo  repository.PricingRepository
	calls int
}

func (t *txFake) RunPricing(_ context.Context, fn func(repository.PricingRepository) error) error {
	t.calls++
	return fn(t.repo)
}

func i64(n int64) *int64 { return &n }
func str(s string) *string { return &s }
func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }
func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

var fixedNow = time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

func newUseCase(repo *memRepo, client *mocks.CommerceClient) *pricing.UseCase {
	return pricing.NewUseCase(repo, &txFake{repo: repo}, client, logger.Nop(), pricing.Delays{}).
		WithClock(func() time.Time { return fixedNow })
}

func onePage(client *mocks.CommerceClient, products ...entity.Product) {
	client.On("ListProducts", mock.Anything, auth, ports.ProductQuery{Limit: 250}).
		Return(&ports.ProductPage{Products: products}, nil)
}

func teeRemote(price string) entity.Product {
	return entity.Product{
		ID: 10, Handle: "tee", Title: "Tee", Vendor: "Acme", Status: "active",
		Variants: []entity.Variant{
			{ID: 1001, ProductID: 10, InventoryItemID: 501, SKU: "TEE-S", Option1: str("S"), Price: d(price)},
			{ID: 1002, ProductID: 10, InventoryItemID: 502, Option1: str("M"), Price: d("20.00")},
		},
	}
}

func teeCache() *memRepo {
	return &memRepo{
		products: []entity.CachedProduct{{ID: "p-1", Handle: "tee", ShopifyProductID: i64(10), Title: "Tee", Vendor: "Acme", Status: "active"}},
		variants: []entity.CachedVariant{
			{ID: "v-1", Handle: "tee", ShopifyVariantID: i64(1001), SKU: "TEE-S", Option1: str("S"),
				Price: d("19.00"), Cost: decimal.NewNullDecimal(d("5"))},
			{ID: "v-2", Handle: "tee", Option1: str("M"), Price: d("20.004"), Cost: decimal.NewNullDecimal(d("8"))},
		},
	}
}

func teeCosts(client *mocks.CommerceClient) {
	client.On("GetInventoryItem", mock.Anything, auth, int64(501)).Return(&entity.InventoryItem{ID: 501, Cost: dp("5.00")}, nil)
	client.On("GetInventoryItem", mock.Anything, auth, int64(502)).Return(&entity.InventoryItem{ID: 502, Cost: dp("8.00")}, nil)
}

// ────────────────────────────────────────────────────────────────────────────
// SmartSync
// ────────────────────────────────────────────────────────────────────────────

func TestSmartSync_ActualizaSoloLoQueCambio(t *testing.T) {
	repo := teeCache()
	client := &mocks.CommerceClient{}
	onePage(client, teeRemote("20.00"), entity.Product{ID: 11, Handle: "nuevo", Title: "Nuevo"})
	teeCosts(client)

	stats, err := newUseCase(repo, client).SmartSync(context.Background(), auth)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.ProductsChecked)
	assert.Equal(t, 1, stats.NewProductsFound)
	assert.Equal(t, 0, stats.ProductsUpdated)
	assert.Equal(t, 2, stats.VariantsChecked)
	// v-1 cambia de precio; v-2 está dentro de la tolerancia pero no tenía shopify_variant_id
	assert.Equal(t, 2, stats.VariantsUpdated)
	assert.Equal(t, 1, stats.PriceChanges)
	assert.Equal(t, 0, stats.CostChanges)
	assert.Equal(t, 0, stats.Errors)
	assert.Empty(t, stats.ErrorDetails)

	assert.True(t, d("20.00").Equal(repo.variants[0].Price))
	require.NotNil(t, repo.variants[1].ShopifyVariantID)
	assert.Equal(t, int64(1002), *repo.variants[1].ShopifyVariantID)
	assert.True(t, d("20.004").Equal(repo.variants[1].Price), "dentro de la tolerancia no se toca el precio")
	assert.Len(t, repo.products, 1, "los productos nuevos no se crean")
}

func TestSmartSync_SegundaCorridaSinCambios(t *testing.T) {
	repo := teeCache()
	client := &mocks.CommerceClient{}
	onePage(client, teeRemote("20.00"))
	teeCosts(client)
	uc := newUseCase(repo, client)

	_, err := uc.SmartSync(context.Background(), auth)
	require.NoError(t, err)
	second, err := uc.SmartSync(context.Background(), auth)
	require.NoError(t, err)

	assert.Equal(t, 0, second.VariantsUpdated)
	assert.Equal(t, 0, second.PriceChanges)
	assert.Equal(t, 0, second.CostChanges)
	assert.Equal(t, 0, second.ProductsUpdated)
}

func TestSmartSync_Tolerancia(t *testing.T) {
	cases := []struct {
		remote  string
		changes int
	}{
		{"19.004", 0},
		{"19.01", 0},
		{"19.02", 1},
		{"18.98", 1},
	}
	for _, tc := range cases {
		t.Run(tc.remote, func(t *testing.T) {
			repo := teeCache()
			repo.variants = repo.variants[:1]
			client := &mocks.CommerceClient{}
			p := teeRemote(tc.remote)
			p.Variants = p.Variants[:1]
			onePage(client, p)
			teeCosts(client)

			stats, err := newUseCase(repo, client).SmartSync(context.Background(), auth)
			require.NoError(t, err)
			assert.Equal(t, tc.changes, stats.PriceChanges)
			assert.Equal(t, tc.changes, stats.VariantsUpdated)
		})
	}
}

func TestSmartSync_CambioDeCostoYAtributos(t *testing.T) {
	repo := teeCache()
	client := &mocks.CommerceClient{}
	remote := teeRemote("19.00")
	remote.Title = "Tee clásica"
	onePage(client, remote)
	client.On("GetInventoryItem", mock.Anything, auth, int64(501)).Return(&entity.InventoryItem{ID: 501, Cost: dp("6.50")}, nil)
	client.On("GetInventoryItem", mock.Anything, auth, int64(502)).Return(&entity.InventoryItem{ID: 502, Cost: nil}, nil)

	stats, err := newUseCase(repo, client).SmartSync(context.Background(), auth)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.ProductsUpdated)
	assert.Equal(t, "Tee clásica", repo.products[0].Title)
	// 501: 5 -> 6.50; 502: costo nulo en Shopify cuenta como 0 y Shopify gana
	assert.Equal(t, 2, stats.CostChanges)
	assert.True(t, d("6.50").Equal(repo.variants[0].Cost.Decimal))
	assert.True(t, repo.variants[1].Cost.Decimal.IsZero())
}

func TestSmartSync_ErrorDeCostoNoAborta(t *testing.T) {
	repo := teeCache()
	client := &mocks.CommerceClient{}
	onePage(client, teeRemote("19.00"))
	client.On("GetInventoryItem", mock.Anything, auth, int64(501)).Return(nil, errors.New("timeout"))
	client.On("GetInventoryItem", mock.Anything, auth, int64(502)).Return(&entity.InventoryItem{ID: 502, Cost: dp("8")}, nil)

	stats, err := newUseCase(repo, client).SmartSync(context.Background(), auth)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Errors)
	require.Len(t, stats.ErrorDetails, 1)
	assert.Contains(t, stats.ErrorDetails[0], "TEE-S")
	assert.Equal(t, 2, stats.VariantsChecked)
}

// Caso: un costo que no se pudo leer es desconocido, no cero; la caché conserva el anterior.
func TestSmartSync_CostoIlegibleNoPisaLaCache(t *testing.T) {
	repo := teeCache()
	client := &mocks.CommerceClient{}
	onePage(client, teeRemote("21.00"))
	client.On("GetInventoryItem", mock.Anything, auth, int64(501)).Return(nil, errors.New("429 too many requests"))
	client.On("GetInventoryItem", mock.Anything, auth, int64(502)).Return(&entity.InventoryItem{ID: 502, Cost: dp("8")}, nil)

	stats, err := newUseCase(repo, client).SmartSync(context.Background(), auth)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, 0, stats.CostChanges)
	assert.Equal(t, 1, stats.PriceChanges, "el precio sí se actualiza")
	s := repo.variants[0]
	require.True(t, s.Cost.Valid)
	assert.True(t, d("5").Equal(s.Cost.Decimal), "costo en caché intacto: %s", s.Cost.Decimal)
	assert.True(t, d("21").Equal(s.Price))

	// Una segunda corrida sin errores no encuentra nada que cambiar.
	client2 := &mocks.CommerceClient{}
	onePage(client2, teeRemote("21.00"))
	teeCosts(client2)
	stats, err = newUseCase(repo, client2).SmartSync(context.Background(), auth)
	require.NoError(t, err)
	assert.Zero(t, stats.CostChanges)
	assert.Zero(t, stats.PriceChanges)
	assert.Zero(t, stats.VariantsUpdated)
}

// Caso: variante remota sin ítem de inventario deja inventory_item_id en NULL.
func TestSmartSync_SinItemDeInventarioEscribeNull(t *testing.T) {
	repo := teeCache()
	remote := teeRemote("19.00")
	remote.Variants[1].InventoryItemID = 0
	client := &mocks.CommerceClient{}
	onePage(client, remote)
	client.On("GetInventoryItem", mock.Anything, auth, int64(501)).Return(&entity.InventoryItem{ID: 501, Cost: dp("5")}, nil)

	stats, err := newUseCase(repo, client).SmartSync(context.Background(), auth)
	require.NoError(t, err)

	m := repo.variants[1]
	require.NotNil(t, m.ShopifyVariantID, "la variante M se enlaza")
	assert.Equal(t, int64(1002), *m.ShopifyVariantID)
	assert.Nil(t, m.InventoryItemID)
	assert.True(t, d("8").Equal(m.Cost.Decimal), "sin ítem el costo no se toca")
	assert.Equal(t, 0, stats.CostChanges)
	client.AssertNotCalled(t, "GetInventoryItem", mock.Anything, auth, int64(0))
}

func TestSmartSync_DetalleDeErroresLimitadoADiez(t *testing.T) {
	repo := &memRepo{products: []entity.CachedProduct{{ID: "p-1", Handle: "x", ShopifyProductID: i64(1), Title: "X"}}}
	remote := entity.Product{ID: 1, Handle: "x", Title: "X"}
	for i := 0; i < 12; i++ {
		sku := fmt.Sprintf("SKU-%d", i)
		repo.variants = append(repo.variants, entity.CachedVariant{ID: fmt.Sprintf("v-%d", i), Handle: "x", SKU: sku, Price: d("1")})
		remote.Variants = append(remote.Variants, entity.Variant{ID: int64(100 + i), SKU: sku, Price: d("2")})
	}
	repo.updateVarErr = errors.New("constraint")
	client := &mocks.CommerceClient{}
	onePage(client, remote)

	stats, err := newUseCase(repo, client).SmartSync(context.Background(), auth)
	require.NoError(t, err)
	assert.Equal(t, 12, stats.Errors)
	assert.Len(t, stats.ErrorDetails, 10)
	assert.Equal(t, 0, stats.PriceChanges, "solo cuentan los cambios escritos")
}

func TestSmartSync_SiguePaginas(t *testing.T) {
	repo := &memRepo{}
	client := &mocks.CommerceClient{}
	client.On("ListProducts", mock.Anything, auth, ports.ProductQuery{Limit: 250}).
		Return(&ports.ProductPage{Products: []entity.Product{{ID: 1, Handle: "a"}}, NextPageInfo: "abc"}, nil).Once()
	client.On("ListProducts", mock.Anything, auth, ports.ProductQuery{Limit: 250, PageInfo: "abc"}).
		Return(&ports.ProductPage{Products: []entity.Product{{ID: 2, Handle: "b"}}}, nil).Once()

	stats, err := newUseCase(repo, client).SmartSync(context.Background(), auth)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ProductsChecked)
	assert.Equal(t, 2, stats.NewProductsFound)
	client.AssertExpectations(t)
}

func TestSmartSync_FallaListadoRemoto(t *testing.T) {
	client := &mocks.CommerceClient{}
	client.On("ListProducts", mock.Anything, auth, mock.Anything).Return(nil, domain.ErrUpstream)

	_, err := newUseCase(&memRepo{}, client).SmartSync(context.Background(), auth)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestSmartSync_FallaCache(t *testing.T) {
	client := &mocks.CommerceClient{}
	onePage(client, teeRemote("1"))

	_, err := newUseCase(&memRepo{listErr: errors.New("db down")}, client).SmartSync(context.Background(), auth)
	assert.Error(t, err)
}

func TestSmartSync_RespetaCancelacion(t *testing.T) {
	client := &mocks.CommerceClient{}
	client.On("ListProducts", mock.Anything, auth, mock.Anything).
		Return(&ports.ProductPage{Products: []entity.Product{{ID: 1}}, NextPageInfo: "next"}, nil)
	uc := pricing.NewUseCase(&memRepo{}, nil, client, logger.Nop(), pricing.Delays{Page: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := uc.SmartSync(ctx, auth)
	assert.True(t, pricing.IsTimeout(err))
}

// ────────────────────────────────────────────────────────────────────────────
// SyncAll / SyncProduct
// ────────────────────────────────────────────────────────────────────────────

func TestSyncAll_CuentaAltasYActualizaciones(t *testing.T) {
	repo := teeCache()
	repo.upsertErr = map[string]error{"roto": errors.New("boom")}
	client := &mocks.CommerceClient{}
	client.On("ListProducts", mock.Anything, auth, ports.ProductQuery{Limit: 250, Status: "active"}).
		Return(&ports.ProductPage{Products: []entity.Product{
			{ID: 10, Handle: "tee", Title: "Tee"},
			{ID: 11, Handle: "gorra", Title: "Gorra"},
			{ID: 12, Handle: "roto"},
		}}, nil)

	res, err := newUseCase(repo, client).SyncAll(context.Background(), auth)
	require.NoError(t, err)
	assert.Equal(t, 3, res.ProductsProcessed)
	assert.Equal(t, 1, res.ProductsAdded)
	assert.Equal(t, 1, res.ProductsUpdated)
	assert.Len(t, res.Errors, 1)
	require.Len(t, repo.products, 2)
	assert.Equal(t, fixedNow, *repo.products[1].LastSyncedAt)
}

func TestSyncProduct_GuardaVariantesConCosto(t *testing.T) {
	repo := &memRepo{}
	tx := &txFake{repo: repo}
	client := &mocks.CommerceClient{}
	client.On("GetProduct", mock.Anything, auth, int64(10)).Return(ptr(teeRemote("20")), nil)
	client.On("GetInventoryItems", mock.Anything, auth, []int64{501, 502}).
		Return([]entity.InventoryItem{{ID: 501, Cost: dp("5")}, {ID: 502}}, nil)
	uc := pricing.NewUseCase(repo, tx, client, logger.Nop(), pricing.Delays{})

	res, err := uc.SyncProduct(context.Background(), auth, 10)
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls)
	assert.True(t, res.Inserted)
	assert.Equal(t, 2, res.VariantsSynced)
	assert.Equal(t, "p-1", res.ProductID)
	require.Len(t, repo.variants, 2)
	assert.Equal(t, "p-1", repo.variants[0].ProductID)
	assert.True(t, repo.variants[0].Cost.Valid)
	assert.False(t, repo.variants[1].Cost.Valid, "sin costo en Shopify queda NULL")
}

func TestSyncProduct_IDInvalido(t *testing.T) {
	_, err := newUseCase(&memRepo{}, &mocks.CommerceClient{}).SyncProduct(context.Background(), auth, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func ptr[T any](v T) *T { return &v }

// ────────────────────────────────────────────────────────────────────────────
// Stats / List
// ────────────────────────────────────────────────────────────────────────────

func TestStats_ErrorRemotoNoFalla(t *testing.T) {
	repo := &memRepo{stats: &repository.SyncStats{TotalProducts: 3, TotalVariants: 7, SyncedVariants: 5}}
	client := &mocks.CommerceClient{}
	client.On("CountProducts", mock.Anything, auth).Return(0, domain.ErrUpstream)

	res, err := newUseCase(repo, client).Stats(context.Background(), auth)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Shopify.Error)
	assert.Equal(t, 7, res.Cache.TotalVariants)
}

func TestStats_CuentaVariantesRemotas(t *testing.T) {
	repo := &memRepo{stats: &repository.SyncStats{}}
	client := &mocks.CommerceClient{}
	client.On("CountProducts", mock.Anything, auth).Return(2, nil)
	client.On("ListProducts", mock.Anything, auth, ports.ProductQuery{Limit: 250, Fields: "id,variants"}).
		Return(&ports.ProductPage{Products: []entity.Product{teeRemote("1"), {ID: 2, Variants: []entity.Variant{{ID: 9}}}}}, nil)

	res, err := newUseCase(repo, client).Stats(context.Background(), auth)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Shopify.TotalProducts)
	assert.Equal(t, 3, res.Shopify.TotalVariants)
}

func TestList_Resumen(t *testing.T) {
	res, err := newUseCase(&memRepo{}, &mocks.CommerceClient{}).List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "12.50", res.Products[0].MaxPrice.StringFixed(2))
	assert.Nil(t, res.Product)
}

func TestList_DetalleConMargen(t *testing.T) {
	id := "6f1c1c2e-8a51-4a3e-9b7e-2a1d3c4b5e6f"
	repo := &memRepo{
		detail: &entity.CachedProduct{ID: id, Handle: "tee"},
		variants: []entity.CachedVariant{
			{ID: "v-1", Price: d("20"), Cost: decimal.NewNullDecimal(d("5"))},
			{ID: "v-2", Price: d("20")},
		},
	}
	res, err := newUseCase(repo, &mocks.CommerceClient{}).List(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, res.Product)
	require.Len(t, res.Product.Variants, 2)
	require.NotNil(t, res.Product.Variants[0].MarginPct)
	assert.Equal(t, "75.00", res.Product.Variants[0].MarginPct.StringFixed(2))
	assert.Equal(t, "NOT_SET", res.Product.Variants[1].CostStatus)
	assert.Nil(t, res.Product.Variants[1].Cost)
}

func TestList_ProductoInvalidoOInexistente(t *testing.T) {
	uc := newUseCase(&memRepo{}, &mocks.CommerceClient{})

	_, err := uc.List(context.Background(), "no-es-uuid")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.List(context.Background(), "6f1c1c2e-8a51-4a3e-9b7e-2a1d3c4b5e6f")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
