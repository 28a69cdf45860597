// Package auth instalación OAuth de la app en una tienda y sesiones offline.
package auth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/shopify-profit-api/internal/application/dto"
	"github.com/jhoicas/shopify-profit-api/internal/application/ports"
	"github.com/jhoicas/shopify-profit-api/internal/domain"
	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
	"github.com/jhoicas/shopify-profit-api/pkg/jwt"
)

// CallbackPath ruta del callback OAuth registrada en la app de Shopify.
const CallbackPath = "/api/auth/callback"

// OAuthApp URL de consentimiento y verificación de firma (implementado por shopify.OAuthApp).
type OAuthApp interface {
	AuthorizeURL(shop, redirectURI, state string) string
	VerifyCallback(query url.Values) bool
}

// TokenExchanger intercambio code -> access token (subconjunto de ports.CommerceClient).
type TokenExchanger interface {
	ExchangeToken(ctx context.Context, shop, code string) (*ports.OAuthToken, error)
}

// Config configuración para redirect y tokens del dashboard.
type Config struct {
	BaseURL       string
	JWTSecret     string
	JWTIssuer     string
	JWTExpMinutes int
}

// AuthUseCase casos de uso de autenticación: instalación, callback y verificación.
type AuthUseCase struct {
	app      OAuthApp
	exchange TokenExchanger
	sessions *SessionStore
	cfg      Config
	newState func() string
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. newState genera el state de OAuth.
func NewAuthUseCase(app OAuthApp, exchange TokenExchanger, sessions *SessionStore, cfg Config, newState func() string) *AuthUseCase {
	return &AuthUseCase{app: app, exchange: exchange, sessions: sessions, cfg: cfg, newState: newState, now: time.Now}
}

func (uc *AuthUseCase) redirectURI() string {
	return strings.TrimRight(uc.cfg.BaseURL, "/") + CallbackPath
}

// Install devuelve la URL de consentimiento y el state que el callback debe devolver.
func (uc *AuthUseCase) Install(shop string) (authURL, state string) {
	state = uc.newState()
	return uc.app.AuthorizeURL(shop, uc.redirectURI(), state), state
}

// Callback valida firma y state, canjea el code, guarda la sesión offline cifrada y emite el
// JWT del dashboard. expectedState es el state entregado por Install.
func (uc *AuthUseCase) Callback(ctx context.Context, shop string, query url.Values, expectedState string) (*dto.CallbackResult, error) {
	if !uc.app.VerifyCallback(query) {
		return nil, domain.ErrInvalidHMAC
	}
	code := query.Get("code")
	if code == "" {
		return nil, fmt.Errorf("%w: falta code", domain.ErrInvalidInput)
	}
	if expectedState == "" || query.Get("state") != expectedState {
		return nil, fmt.Errorf("%w: state no coincide", domain.ErrUnauthorized)
	}

	tok, err := uc.exchange.ExchangeToken(ctx, shop, code)
	if err != nil {
		return nil, fmt.Errorf("oauth callback: canje del code: %w", err)
	}

	now := uc.now()
	sess := &entity.Session{
		ID:          entity.OfflineSessionID(shop),
		Shop:        shop,
		State:       query.Get("state"),
		AccessToken: tok.AccessToken,
		Scope:       tok.Scope,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("oauth callback: %w", err)
	}

	token, err := jwt.Generate(uc.cfg.JWTSecret, shop, uc.cfg.JWTIssuer, uc.cfg.JWTExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("oauth callback: jwt: %w", err)
	}
	return &dto.CallbackResult{
		Shop:        shop,
		Token:       token,
		RedirectURL: dashboardRedirect(query.Get("redirect"), shop, query.Get("host"), token),
	}, nil
}

// dashboardRedirect ruta relativa del dashboard con shop, host y token. Un redirect absoluto
// o vacío se reemplaza por "/".
func dashboardRedirect(path, shop, host, token string) string {
	if path == "" || !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		path = "/"
	}
	u, err := url.Parse(path)
	if err != nil {
		u = &url.URL{Path: "/"}
	}
	q := u.Query()
	if q.Get("shop") == "" {
		q.Set("shop", shop)
	}
	if host != "" {
		q.Set("host", host)
	}
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// Check indica si la tienda tiene una sesión offline utilizable.
func (uc *AuthUseCase) Check(ctx context.Context, shop string) (*dto.AuthCheckDTO, error) {
	sess, err := uc.sessions.GetSession(ctx, shop)
	if err != nil {
		return nil, fmt.Errorf("auth check: %w", err)
	}
	out := &dto.AuthCheckDTO{Shop: shop, Authenticated: sess.Authenticated(uc.now())}
	if out.Authenticated {
		out.Scope = sess.Scope
	}
	return out, nil
}
