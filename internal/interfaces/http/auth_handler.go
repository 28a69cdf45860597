package http

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shopify-profit-api/internal/application/auth"
	"github.com/jhoicas/shopify-profit-api/internal/application/dto"
	"github.com/jhoicas/shopify-profit-api/internal/infrastructure/shopify"
)

// StateCookie cookie que guarda el state de OAuth entre install y callback.
const StateCookie = "shopify_oauth_state"

const stateCookieTTL = 10 * time.Minute

// AuthHandler maneja la instalación OAuth y la verificación de sesión.
type AuthHandler struct {
	uc           *auth.AuthUseCase
	secureCookie bool
}

// NewAuthHandler construye el handler de auth. secureCookie marca la cookie de state como Secure.
func NewAuthHandler(uc *auth.AuthUseCase, secureCookie bool) *AuthHandler {
	return &AuthHandler{uc: uc, secureCookie: secureCookie}
}

// Install godoc
// @Summary      Iniciar instalación OAuth
// @Tags         auth
// @Param        shop  query  string  true  "Dominio de la tienda"
// @Success      302
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth [get]
func (h *AuthHandler) Install(c *fiber.Ctx) error {
	shop, err := shopify.NormalizeShopDomain(c.Query("shop"))
	if err != nil {
		return respondError(c, err)
	}
	authURL, state := h.uc.Install(shop)
	c.Cookie(&fiber.Cookie{
		Name:     StateCookie,
		Value:    state,
		Path:     "/api/auth",
		Expires:  time.Now().Add(stateCookieTTL),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(authURL, fiber.StatusFound)
}

// Callback godoc
// @Summary      Callback OAuth de Shopify
// @Tags         auth
// @Param        shop   query  string  true  "Dominio de la tienda"
// @Param        code   query  string  true  "Code de autorización"
// @Param        state  query  string  true  "State emitido en install"
// @Param        hmac   query  string  true  "Firma de Shopify"
// @Success      302
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/auth/callback [get]
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	shop, err := shopify.NormalizeShopDomain(c.Query("shop"))
	if err != nil {
		return respondError(c, err)
	}
	query, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "query inválida"})
	}

	res, err := h.uc.Callback(c.Context(), shop, query, c.Cookies(StateCookie))
	if err != nil {
		return respondError(c, err)
	}
	c.ClearCookie(StateCookie)
	return c.Redirect(res.RedirectURL, fiber.StatusFound)
}

// Check godoc
// @Summary      Estado de autenticación de la tienda
// @Tags         auth
// @Produce      json
// @Param        shop  query  string  true  "Dominio de la tienda"
// @Success      200   {object}  dto.AuthCheckDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/check [get]
func (h *AuthHandler) Check(c *fiber.Ctx) error {
	shop, err := shopify.NormalizeShopDomain(c.Query("shop"))
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Check(c.Context(), shop)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
