package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shopify-profit-api/internal/application/analytics"
	"github.com/jhoicas/shopify-profit-api/internal/application/auth"
	"github.com/jhoicas/shopify-profit-api/internal/application/costing"
	"github.com/jhoicas/shopify-profit-api/internal/application/dto"
	"github.com/jhoicas/shopify-profit-api/internal/application/ports"
	"github.com/jhoicas/shopify-profit-api/internal/application/ports/mocks"
	"github.com/jhoicas/shopify-profit-api/internal/application/pricing"
	"github.com/jhoicas/shopify-profit-api/internal/application/usecase"
	"github.com/jhoicas/shopify-profit-api/internal/domain"
	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
	"github.com/jhoicas/shopify-profit-api/internal/infrastructure/shopify"
	apphttp "github.com/jhoicas/shopify-profit-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/shopify-profit-api/pkg/jwt"
	"github.com/jhoicas/shopify-profit-api/pkg/logger"
	"github.com/jhoicas/shopify-profit-api/pkg/tokencrypt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testShop      = "demo.myshopify.com"
	testIssuer    = "shopify-profit-test"
	testExpMin    = 60
	shopToken     = "shpat_tok"
)

var testAuth = ports.ShopAuth{Shop: testShop, AccessToken: shopToken}

type memSessions struct {
	byID map[string]entity.Session
}

func (m *memSessions) Store(_ context.Context, s *entity.Session) error {
	m.byID[s.ID] = *s
	return nil
}

func (m *memSessions) Load(_ context.Context, id string) (*entity.Session, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func (m *memSessions) FindByShop(context.Context, string) ([]entity.Session, error) {
	return nil, nil
}

type memExpenses struct {
	list []entity.Expense
}

func (m *memExpenses) Create(_ context.Context, e *entity.Expense) error {
	m.list = append(m.list, *e)
	return nil
}

func (m *memExpenses) ListByShop(_ context.Context, shop string) ([]entity.Expense, error) {
	var out []entity.Expense
	for _, e := range m.list {
		if e.Shop == shop {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memExpenses) ListByShopAndDates(ctx context.Context, shop string, _, _ time.Time) ([]entity.Expense, error) {
	return m.ListByShop(ctx, shop)
}

func (m *memExpenses) Delete(_ context.Context, shop, id string) error {
	for i, e := range m.list {
		if e.Shop == shop && e.ID == id {
			m.list = append(m.list[:i], m.list[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// noCosts deja todas las variantes sin costo.
type noCosts struct{}

func (noCosts) Resolve(_ context.Context, _ ports.ShopAuth, ids []int64) entity.VariantCosts {
	out := make(entity.VariantCosts, len(ids))
	for _, id := range ids {
		out[id] = entity.VariantCost{Cost: decimal.Zero, Source: entity.CostSourceUnresolved}
	}
	return out
}

func (noCosts) ResolveOne(_ context.Context, _ ports.ShopAuth, id int64) costing.SingleCost {
	return costing.SingleCost{VariantID: id, Cost: decimal.Zero, Method: "failed"}
}

type fakeReport struct{}

func (fakeReport) GenerateProfitReport(context.Context, *dto.ProfitResponse) ([]byte, error) {
	return []byte("%PDF-1.3 test"), nil
}

// fakeApp acepta la firma si el query trae hmac=ok.
type fakeApp struct{}

func (fakeApp) AuthorizeURL(shop, redirectURI, state string) string {
	return "https://" + shop + "/admin/oauth/authorize?redirect_uri=" + url.QueryEscape(redirectURI) + "&state=" + state
}

func (fakeApp) VerifyCallback(q url.Values) bool { return q.Get("hmac") == "ok" }

type testEnv struct {
	app      *fiber.App
	client   *mocks.CommerceClient
	expenses *memExpenses
}

// buildTestApp arma el router completo con una sesión instalada para testShop.
func buildTestApp(t *testing.T) *testEnv {
	t.Helper()
	return buildTestAppWith(t, false)
}

func buildTestAppWith(t *testing.T, requireToken bool) *testEnv {
	t.Helper()
	cipher, err := tokencrypt.New("clave-de-prueba")
	require.NoError(t, err)
	store := auth.NewSessionStore(&memSessions{byID: map[string]entity.Session{}}, cipher)
	require.NoError(t, store.Save(context.Background(), &entity.Session{
		ID: entity.OfflineSessionID(testShop), Shop: testShop, AccessToken: shopToken, Scope: "read_orders",
	}))

	client := &mocks.CommerceClient{}
	expenses := &memExpenses{}
	authUC := auth.NewAuthUseCase(fakeApp{}, client, store,
		auth.Config{BaseURL: "https://app.example.com", JWTSecret: testJWTSecret, JWTIssuer: testIssuer, JWTExpMinutes: testExpMin},
		func() string { return "st4te" })
	analyticsUC := analytics.NewUseCase(client, noCosts{}, expenses, fakeReport{}, logger.Nop(),
		analytics.Config{Location: time.UTC, DefaultCurrency: "USD"})
	pricingUC := pricing.NewUseCase(nil, nil, client, logger.Nop(), pricing.Delays{})

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       authUC,
		AnalyticsUC:  analyticsUC,
		PricingUC:    pricingUC,
		ExpenseUC:    usecase.NewExpenseUseCase(expenses),
		Sessions:     store,
		JWTSecret:    testJWTSecret,
		RequireToken: requireToken,
		SyncTimeout:  time.Minute,
	})
	return &testEnv{app: app, client: client, expenses: expenses}
}

func bearer(t *testing.T, shop string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, shop, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func do(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// ShopMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestShopMiddleware_Rechazos(t *testing.T) {
	cases := []struct {
		name   string
		target string
		auth   string
		status int
		code   string
	}{
		{"sin tienda", "/api/orders/today", "", http.StatusBadRequest, "MISSING_SHOP"},
		{"dominio inválido", "/api/orders/today?shop=" + url.QueryEscape("mala_tienda!.com"), "", http.StatusBadRequest, "INVALID_SHOP"},
		{"tienda sin sesión", "/api/orders/today?shop=otra", "", http.StatusUnauthorized, "NOT_AUTHENTICATED"},
		{"bearer inválido", "/api/orders/today", "Bearer token.invalido.aqui", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"header sin Bearer", "/api/orders/today", "Basic abc", http.StatusUnauthorized, "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := buildTestApp(t)
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			resp := do(t, env.app, req)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, errorCode(t, resp))
			env.client.AssertNotCalled(t, "ListOrders", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

// Caso: con el Bearer obligatorio, ?shop= ya no alcanza para leer datos de la tienda.
func TestShopMiddleware_TokenObligatorio(t *testing.T) {
	env := buildTestAppWith(t, true)
	env.client.On("ListOrders", mock.Anything, testAuth, mock.Anything).Return([]entity.Order{}, nil)

	resp := do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/orders/today?shop="+testShop, nil))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, resp))
	env.client.AssertNotCalled(t, "ListOrders", mock.Anything, mock.Anything, mock.Anything)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/today", nil)
	req.Header.Set("Authorization", bearer(t, testShop))
	resp2 := do(t, env.app, req)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

// Caso: Shopify rechaza el token offline (app desinstalada) y el dashboard ve 401.
func TestOrdersToday_TokenRevocadoEs401(t *testing.T) {
	env := buildTestApp(t)
	env.client.On("ListOrders", mock.Anything, testAuth, mock.Anything).
		Return(nil, &shopify.APIError{Method: http.MethodGet, Path: "/orders.json", Status: http.StatusUnauthorized})

	resp := do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/orders/today?shop="+testShop, nil))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "NOT_AUTHENTICATED", errorCode(t, resp))
}

// Caso: el JWT del callback identifica la tienda y se usa su token offline.
func TestOrdersToday_ConBearer(t *testing.T) {
	env := buildTestApp(t)
	env.client.On("ListOrders", mock.Anything, testAuth, mock.Anything).Return([]entity.Order{
		{ID: 1, Name: "#1001", TotalPrice: decimal.RequireFromString("25.5"), Currency: "USD"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/today", nil)
	req.Header.Set("Authorization", bearer(t, testShop))
	resp := do(t, env.app, req)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, "25.50", body["revenue"])
}

// Caso: la tienda puede venir como nombre corto en ?shop= y se normaliza.
func TestOrdersToday_ShopCorto(t *testing.T) {
	env := buildTestApp(t)
	env.client.On("ListOrders", mock.Anything, testAuth, mock.Anything).Return([]entity.Order{}, nil)

	resp := do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/orders/today?shop=Demo", nil))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOrdersToday_ShopifyFalla_502(t *testing.T) {
	env := buildTestApp(t)
	env.client.On("ListOrders", mock.Anything, testAuth, mock.Anything).
		Return(nil, fmt.Errorf("shopify GET orders.json: %w", domain.ErrUpstream))

	resp := do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/orders/today?shop="+testShop, nil))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "UPSTREAM_ERROR", errorCode(t, resp))
}

func TestVariantCost_Parametros(t *testing.T) {
	env := buildTestApp(t)

	resp := do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/orders/variant-cost?shop="+testShop, nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MISSING_ID", errorCode(t, resp))
	resp.Body.Close()

	resp = do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/orders/variant-cost?variantId=abc&shop="+testShop, nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

// Caso: si ninguna vía resuelve el costo, igual responde 200 con NOT_SET.
func TestVariantCost_SinCostoRespondeOK(t *testing.T) {
	env := buildTestApp(t)
	resp := do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/orders/variant-cost?variantId=11&shop="+testShop, nil))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), dto.CostStatusNotSet)
}

// ──────────────────────────────────────────────────────────────────────────────
// Profit
// ──────────────────────────────────────────────────────────────────────────────

func TestProfitReport_DevuelvePDF(t *testing.T) {
	env := buildTestApp(t)
	env.client.On("ListOrders", mock.Anything, testAuth, mock.Anything).Return([]entity.Order{}, nil)
	env.client.On("ListLocations", mock.Anything, testAuth).Return([]entity.Location{}, nil)

	resp := do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/profit/report.pdf?dateRange=thismonth&shop="+testShop, nil))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "utilidad-demo-thismonth.pdf")
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))
}

func TestProfit_SinCostosMarcaNotSet(t *testing.T) {
	env := buildTestApp(t)
	vid := int64(11)
	env.client.On("ListOrders", mock.Anything, testAuth, mock.Anything).Return([]entity.Order{{
		ID: 1, TotalPrice: decimal.RequireFromString("100"), Currency: "USD",
		LineItems: []entity.LineItem{{VariantID: &vid, Quantity: 1, Price: decimal.RequireFromString("100")}},
	}}, nil)

	resp := do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/profit?dateRange=today&shop="+testShop, nil))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "100.00", body["revenue"])
	assert.Equal(t, "0.00", body["cogs"])
	assert.Equal(t, dto.CostStatusNotSet, body["cost_status"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Expenses
// ──────────────────────────────────────────────────────────────────────────────

func TestExpenses_CrearListarBorrar(t *testing.T) {
	env := buildTestApp(t)

	// La tienda viaja en el body del POST.
	payload := `{"shop":"` + testShop + `","location_name":"Bodega","amount":"150.5","description":"Arriendo",` +
		`"expense_date":"2024-05-01","expense_type":"recurring"}`
	req := httptest.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := do(t, env.app, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.ExpenseDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.Equal(t, "general", created.Category)

	resp = do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/expenses?shop="+testShop, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	assert.Equal(t, float64(1), list["count"])
	assert.Equal(t, "150.50", list["total"])

	resp = do(t, env.app, httptest.NewRequest(http.MethodDelete, "/api/expenses/"+created.ID+"?shop="+testShop, nil))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.app, httptest.NewRequest(http.MethodDelete, "/api/expenses/"+created.ID+"?shop="+testShop, nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestExpenses_Validaciones(t *testing.T) {
	env := buildTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/expenses?shop="+testShop,
		strings.NewReader(`{"location_name":"Bodega","amount":"-5","description":"x","expense_date":"2024-05-01","expense_type":"one-off"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := do(t, env.app, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
	resp.Body.Close()

	resp = do(t, env.app, httptest.NewRequest(http.MethodDelete, "/api/expenses/no-es-uuid?shop="+testShop, nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
	assert.Empty(t, env.expenses.list)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pricing
// ──────────────────────────────────────────────────────────────────────────────

// Caso: el corte por tiempo máximo de sincronización responde 504.
func TestSmartSync_Timeout_504(t *testing.T) {
	env := buildTestApp(t)
	env.client.On("ListProducts", mock.Anything, testAuth, mock.Anything).
		Return(nil, fmt.Errorf("shopify GET products.json: %w: %w", domain.ErrUpstream, context.DeadlineExceeded))

	resp := do(t, env.app, httptest.NewRequest(http.MethodPost, "/api/pricing/smart-sync?shop="+testShop, nil))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
	assert.Equal(t, "TIMEOUT", errorCode(t, resp))
}

func TestPricingList_IDInvalido(t *testing.T) {
	env := buildTestApp(t)
	resp := do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/pricing/list?productId=123&shop="+testShop, nil))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthInstall_RedirigeConState(t *testing.T) {
	env := buildTestApp(t)
	resp := do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/auth?shop=nueva", nil))
	defer resp.Body.Close()

	require.Equal(t, http.StatusFound, resp.StatusCode)
	loc := resp.Header.Get("Location")
	assert.True(t, strings.HasPrefix(loc, "https://nueva.myshopify.com/admin/oauth/authorize"))
	assert.Contains(t, loc, "state=st4te")
	assert.Contains(t, resp.Header.Get("Set-Cookie"), apphttp.StateCookie+"=st4te")
}

func TestAuthCallback_InstalaYCheck(t *testing.T) {
	env := buildTestApp(t)
	env.client.On("ExchangeToken", mock.Anything, "nueva.myshopify.com", "abc").
		Return(&ports.OAuthToken{AccessToken: "shpat_nuevo", Scope: "read_orders,read_products"}, nil)

	q := url.Values{"shop": {"nueva.myshopify.com"}, "code": {"abc"}, "state": {"st4te"}, "hmac": {"ok"}}
	req := httptest.NewRequest(http.MethodGet, "/api/auth/callback?"+q.Encode(), nil)
	req.Header.Set("Cookie", apphttp.StateCookie+"=st4te")
	resp := do(t, env.app, req)
	resp.Body.Close()

	require.Equal(t, http.StatusFound, resp.StatusCode)
	loc := resp.Header.Get("Location")
	assert.True(t, strings.HasPrefix(loc, "/?"), "el redirect debe ser relativo")
	assert.Contains(t, loc, "token=")

	resp = do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/auth/check?shop=nueva", nil))
	defer resp.Body.Close()
	var check dto.AuthCheckDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&check))
	assert.True(t, check.Authenticated)
	assert.Equal(t, "read_orders,read_products", check.Scope)
}

func TestAuthCallback_SinCookieDeState_401(t *testing.T) {
	env := buildTestApp(t)
	q := url.Values{"shop": {testShop}, "code": {"abc"}, "state": {"st4te"}, "hmac": {"ok"}}
	resp := do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/auth/callback?"+q.Encode(), nil))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	env.client.AssertNotCalled(t, "ExchangeToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthCallback_FirmaInvalida_401(t *testing.T) {
	env := buildTestApp(t)
	q := url.Values{"shop": {testShop}, "code": {"abc"}, "state": {"st4te"}, "hmac": {"mala"}}
	req := httptest.NewRequest(http.MethodGet, "/api/auth/callback?"+q.Encode(), nil)
	req.Header.Set("Cookie", apphttp.StateCookie+"=st4te")
	resp := do(t, env.app, req)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_HMAC", errorCode(t, resp))
}
