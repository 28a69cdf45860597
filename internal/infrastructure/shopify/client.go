// Package shopify adaptador de la Admin REST API de Shopify sobre resty.
package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/shopify-profit-api/internal/application/ports"
	"github.com/jhoicas/shopify-profit-api/internal/domain"
	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
)

var _ ports.CommerceClient = (*Client)(nil)

const (
	accessTokenHeader = "X-Shopify-Access-Token"
	maxPageSize       = 250
	maxIDsPerRequest  = 50
	jsonContentType   = "application/json"
)

// Config parámetros del cliente.
type Config struct {
	APIKey     string
	APISecret  string
	APIVersion string
	// Endpoint base por tienda; "%s" se reemplaza por el dominio. Sin "%s" se usa tal cual (tests).
	Endpoint   string
	Timeout    time.Duration
	RetryCount int
}

// APIError respuesta HTTP no exitosa de Shopify.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Sprintf("shopify %s %s: status %d: %s", e.Method, e.Path, e.Status, body)
}

// Unwrap permite errors.Is(err, domain.ErrUpstream). Un 401/403 además es
// domain.ErrNotAuthenticated: el token fue revocado o la app desinstalada.
func (e *APIError) Unwrap() []error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return []error{domain.ErrNotAuthenticated, domain.ErrUpstream}
	}
	return []error{domain.ErrUpstream}
}

// IsNotFound indica un 404 de Shopify (recurso borrado o inexistente).
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client cliente REST con reintentos ante 429 y 5xx.
type Client struct {
	cfg  Config
	http *resty.Client
}

// NewClient construye el cliente. Los reintentos usan backoff exponencial de resty y respetan Retry-After.
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://%s"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-10"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	cli := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", jsonContentType).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(10 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return !errors.Is(err, context.Canceled)
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		}).
		SetRetryAfter(retryAfter)

	return &Client{cfg: cfg, http: cli}
}

// retryAfter usa el header Retry-After (segundos) de un 429; 0 deja el backoff por defecto.
func retryAfter(_ *resty.Client, r *resty.Response) (time.Duration, error) {
	if r == nil || r.StatusCode() != http.StatusTooManyRequests {
		return 0, nil
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(r.Header().Get("Retry-After")), 64)
	if err != nil || secs <= 0 {
		return 0, nil
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func (c *Client) baseURL(shop string) string {
	if strings.Contains(c.cfg.Endpoint, "%s") {
		return fmt.Sprintf(c.cfg.Endpoint, shop)
	}
	return strings.TrimRight(c.cfg.Endpoint, "/")
}

func (c *Client) adminURL(shop, path string) string {
	return c.baseURL(shop) + "/admin/api/" + c.cfg.APIVersion + path
}

// get hace un GET autenticado y decodifica el JSON en out. El cuerpo se decodifica como JSON
// aunque falte el Content-Type; si no lo es, el error es domain.ErrUpstream.
func (c *Client) get(ctx context.Context, auth ports.ShopAuth, path string, params map[string]string, out any) (*resty.Response, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(accessTokenHeader, auth.AccessToken).
		SetQueryParams(params).
		ForceContentType(jsonContentType).
		SetResult(out).
		Get(c.adminURL(auth.Shop, path))
	if err != nil {
		return nil, fmt.Errorf("shopify GET %s: %w: %w", path, domain.ErrUpstream, err)
	}
	if resp.IsError() {
		return nil, &APIError{Method: http.MethodGet, Path: path, Status: resp.StatusCode(), Body: resp.String()}
	}
	return resp, nil
}

// nextCursor cursor de la página siguiente, o "" si hay que cortar: sin rel="next", página vacía
// o el mismo cursor que se acaba de pedir.
func nextCursor(resp *resty.Response, current string, pageLen int) string {
	next := NextPageInfo(resp.Header().Get("Link"))
	if pageLen == 0 || next == current {
		return ""
	}
	return next
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func chunk(ids []int64, size int) [][]int64 {
	var out [][]int64
	for size < len(ids) {
		ids, out = ids[size:], append(out, ids[:size])
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}

// ── Pedidos ─────────────────────────────────────────────────────────────────

// ListOrders pedidos con status=any en [Since, Until], más recientes primero, siguiendo la paginación.
func (c *Client) ListOrders(ctx context.Context, auth ports.ShopAuth, q ports.OrderQuery) ([]entity.Order, error) {
	params := map[string]string{
		"status": "any",
		"limit":  strconv.Itoa(maxPageSize),
	}
	if !q.Since.IsZero() {
		params["created_at_min"] = q.Since.Format(time.RFC3339)
	}
	if !q.Until.IsZero() {
		params["created_at_max"] = q.Until.Format(time.RFC3339)
	}

	var orders []entity.Order
	cursor := ""
	for {
		var env ordersEnvelope
		resp, err := c.get(ctx, auth, "/orders.json", params, &env)
		if err != nil {
			return nil, err
		}
		for _, w := range env.Orders {
			orders = append(orders, w.toEntity())
			if q.MaxResults > 0 && len(orders) >= q.MaxResults {
				return orders, nil
			}
		}
		cursor = nextCursor(resp, cursor, len(env.Orders))
		if cursor == "" {
			return orders, nil
		}
		params = map[string]string{"limit": strconv.Itoa(maxPageSize), "page_info": cursor}
	}
}

// ── Catálogo ────────────────────────────────────────────────────────────────

// ListProducts una página de productos.
func (c *Client) ListProducts(ctx context.Context, auth ports.ShopAuth, q ports.ProductQuery) (*ports.ProductPage, error) {
	limit := q.Limit
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	params := map[string]string{"limit": strconv.Itoa(limit)}
	if q.Fields != "" {
		params["fields"] = q.Fields
	}
	if q.PageInfo != "" {
		params["page_info"] = q.PageInfo
	} else if q.Status != "" {
		params["status"] = q.Status
	}

	var env productsEnvelope
	resp, err := c.get(ctx, auth, "/products.json", params, &env)
	if err != nil {
		return nil, err
	}
	page := &ports.ProductPage{
		Products:     make([]entity.Product, 0, len(env.Products)),
		NextPageInfo: nextCursor(resp, q.PageInfo, len(env.Products)),
	}
	for _, w := range env.Products {
		page.Products = append(page.Products, w.toEntity())
	}
	return page, nil
}

// GetProduct producto con sus variantes.
func (c *Client) GetProduct(ctx context.Context, auth ports.ShopAuth, productID int64) (*entity.Product, error) {
	var env productEnvelope
	if _, err := c.get(ctx, auth, fmt.Sprintf("/products/%d.json", productID), nil, &env); err != nil {
		return nil, err
	}
	p := env.Product.toEntity()
	return &p, nil
}

// CountProducts total de productos de la tienda.
func (c *Client) CountProducts(ctx context.Context, auth ports.ShopAuth) (int, error) {
	var env countEnvelope
	if _, err := c.get(ctx, auth, "/products/count.json", nil, &env); err != nil {
		return 0, err
	}
	return env.Count, nil
}

// GetVariant una variante por ID.
func (c *Client) GetVariant(ctx context.Context, auth ports.ShopAuth, variantID int64) (*entity.Variant, error) {
	var env variantEnvelope
	if _, err := c.get(ctx, auth, fmt.Sprintf("/variants/%d.json", variantID), nil, &env); err != nil {
		return nil, err
	}
	v := env.Variant.toEntity()
	return &v, nil
}

// GetVariants variantes por lote de IDs; las inexistentes simplemente no vienen.
func (c *Client) GetVariants(ctx context.Context, auth ports.ShopAuth, variantIDs []int64) ([]entity.Variant, error) {
	var out []entity.Variant
	for _, ids := range chunk(variantIDs, maxIDsPerRequest) {
		var env variantsEnvelope
		params := map[string]string{"ids": joinIDs(ids), "limit": strconv.Itoa(maxPageSize)}
		if _, err := c.get(ctx, auth, "/variants.json", params, &env); err != nil {
			return nil, err
		}
		for _, w := range env.Variants {
			out = append(out, w.toEntity())
		}
	}
	return out, nil
}

// GetInventoryItem ítem de inventario (costo unitario).
func (c *Client) GetInventoryItem(ctx context.Context, auth ports.ShopAuth, itemID int64) (*entity.InventoryItem, error) {
	var env inventoryItemEnvelope
	if _, err := c.get(ctx, auth, fmt.Sprintf("/inventory_items/%d.json", itemID), nil, &env); err != nil {
		return nil, err
	}
	it := env.InventoryItem.toEntity()
	return &it, nil
}

// GetInventoryItems ítems de inventario por lote de IDs.
func (c *Client) GetInventoryItems(ctx context.Context, auth ports.ShopAuth, itemIDs []int64) ([]entity.InventoryItem, error) {
	var out []entity.InventoryItem
	for _, ids := range chunk(itemIDs, maxIDsPerRequest) {
		var env inventoryItemsEnvelope
		params := map[string]string{"ids": joinIDs(ids), "limit": strconv.Itoa(maxPageSize)}
		if _, err := c.get(ctx, auth, "/inventory_items.json", params, &env); err != nil {
			return nil, err
		}
		for _, w := range env.InventoryItems {
			out = append(out, w.toEntity())
		}
	}
	return out, nil
}

// ── Ubicaciones e inventario ────────────────────────────────────────────────

// ListLocations todas las ubicaciones (activas e inactivas).
func (c *Client) ListLocations(ctx context.Context, auth ports.ShopAuth) ([]entity.Location, error) {
	var env locationsEnvelope
	if _, err := c.get(ctx, auth, "/locations.json", nil, &env); err != nil {
		return nil, err
	}
	out := make([]entity.Location, 0, len(env.Locations))
	for _, w := range env.Locations {
		out = append(out, w.toEntity())
	}
	return out, nil
}

// ListInventoryLevels niveles de inventario de los ítems en las ubicaciones dadas.
// Los IDs de ítem se envían de a 50 y cada lote sigue su propia paginación.
func (c *Client) ListInventoryLevels(ctx context.Context, auth ports.ShopAuth, itemIDs, locationIDs []int64) ([]entity.InventoryLevel, error) {
	var out []entity.InventoryLevel
	for _, ids := range chunk(itemIDs, maxIDsPerRequest) {
		params := map[string]string{
			"inventory_item_ids": joinIDs(ids),
			"limit":              strconv.Itoa(maxPageSize),
		}
		if len(locationIDs) > 0 {
			params["location_ids"] = joinIDs(locationIDs)
		}
		cursor := ""
		for {
			var env inventoryLevelsEnvelope
			resp, err := c.get(ctx, auth, "/inventory_levels.json", params, &env)
			if err != nil {
				return nil, err
			}
			for _, w := range env.InventoryLevels {
				lvl := entity.InventoryLevel{InventoryItemID: w.InventoryItemID, LocationID: w.LocationID}
				if w.Available != nil {
					lvl.Available = *w.Available
				}
				out = append(out, lvl)
			}
			cursor = nextCursor(resp, cursor, len(env.InventoryLevels))
			if cursor == "" {
				break
			}
			params = map[string]string{"limit": strconv.Itoa(maxPageSize), "page_info": cursor}
		}
	}
	return out, nil
}

// ── OAuth ───────────────────────────────────────────────────────────────────

// ExchangeToken canjea el code del callback por un access token offline.
func (c *Client) ExchangeToken(ctx context.Context, shop, code string) (*ports.OAuthToken, error) {
	var out accessTokenWire
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", jsonContentType).
		ForceContentType(jsonContentType).
		SetBody(map[string]string{
			"client_id":     c.cfg.APIKey,
			"client_secret": c.cfg.APISecret,
			"code":          code,
		}).
		SetResult(&out).
		Post(c.baseURL(shop) + "/admin/oauth/access_token")
	if err != nil {
		return nil, fmt.Errorf("shopify token exchange: %w: %w", domain.ErrUpstream, err)
	}
	if resp.IsError() {
		return nil, &APIError{Method: http.MethodPost, Path: "/admin/oauth/access_token", Status: resp.StatusCode(), Body: resp.String()}
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("shopify token exchange: %w: respuesta sin access_token", domain.ErrUpstream)
	}
	return &ports.OAuthToken{AccessToken: out.AccessToken, Scope: out.Scope}, nil
}
