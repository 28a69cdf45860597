package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shopify-profit-api/internal/application/dto"
	"github.com/jhoicas/shopify-profit-api/internal/application/ports"
	"github.com/jhoicas/shopify-profit-api/internal/domain"
	"github.com/jhoicas/shopify-profit-api/internal/infrastructure/shopify"
	"github.com/jhoicas/shopify-profit-api/pkg/jwt"
)

// Locals keys para la tienda y sus credenciales en Fiber.
const (
	LocalShop = "shop"
	LocalAuth = "shop_auth"
)

// ShopMiddleware resuelve la tienda del request y carga su sesión offline.
//
// Orden de resolución:
//   - Authorization: Bearer <jwt> emitido en el callback OAuth (claim shop).
//   - Query param shop.
//   - Campo "shop" del body JSON (POST).
//
// Los dos últimos no prueban que el llamador sea la tienda; con requireToken solo se
// acepta el Bearer.
//
// Respuestas: 400 MISSING_SHOP / INVALID_SHOP, 401 MISSING_TOKEN / INVALID_TOKEN / NOT_AUTHENTICATED.
func ShopMiddleware(jwtSecret string, requireToken bool, sessions ports.SessionProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if requireToken && c.Get(fiber.HeaderAuthorization) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "se requiere Authorization: Bearer <token>"})
		}
		raw, err := shopFromRequest(c, jwtSecret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		shop, err := shopify.NormalizeShopDomain(raw)
		if err != nil {
			return respondError(c, err)
		}

		sess, err := sessions.GetSession(c.Context(), shop)
		if err != nil {
			return respondError(c, err)
		}
		if !sess.Authenticated(time.Now()) {
			return respondError(c, domain.ErrNotAuthenticated)
		}

		c.Locals(LocalShop, shop)
		c.Locals(LocalAuth, ports.ShopAuth{Shop: shop, AccessToken: sess.AccessToken})
		return c.Next()
	}
}

// shopFromRequest devuelve "" si el request no trae tienda; error solo si hay un
// Bearer presente pero inválido.
func shopFromRequest(c *fiber.Ctx, jwtSecret string) (string, error) {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", errors.New("formato: Bearer <token>")
		}
		return jwt.Parse(jwtSecret, strings.TrimSpace(parts[1]))
	}
	if shop := c.Query("shop"); shop != "" {
		return shop, nil
	}
	if len(c.Body()) > 0 && strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		var body struct {
			Shop string `json:"shop"`
		}
		if err := c.BodyParser(&body); err == nil {
			return body.Shop, nil
		}
	}
	return "", nil
}

// GetShop devuelve el dominio de la tienda (después de ShopMiddleware).
func GetShop(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalShop).(string)
	return s
}

// GetAuth devuelve las credenciales de la tienda (después de ShopMiddleware).
func GetAuth(c *fiber.Ctx) ports.ShopAuth {
	a, _ := c.Locals(LocalAuth).(ports.ShopAuth)
	return a
}
