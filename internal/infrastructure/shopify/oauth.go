package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/shopify-profit-api/internal/domain"
)

var shopDomainRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*\.myshopify\.com$`)

// NormalizeShopDomain limpia el parámetro shop ("Mi-Tienda", "https://mi-tienda.myshopify.com/")
// y devuelve "mi-tienda.myshopify.com". Error si no es un dominio myshopify válido.
func NormalizeShopDomain(shop string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(shop))
	if s == "" {
		return "", domain.ErrMissingShop
	}
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimRight(s, "/")
	if !strings.Contains(s, ".") {
		s += ".myshopify.com"
	}
	if !shopDomainRe.MatchString(s) {
		return "", domain.ErrInvalidShop
	}
	return s, nil
}

// NewState valor aleatorio para el parámetro state de OAuth.
func NewState() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// AuthorizeURL URL de consentimiento de Shopify para instalar la app.
func AuthorizeURL(shop, apiKey, scopes, redirectURI, state string) string {
	q := url.Values{}
	q.Set("client_id", apiKey)
	q.Set("scope", scopes)
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)
	return "https://" + shop + "/admin/oauth/authorize?" + q.Encode()
}

// VerifyHMAC valida la firma de los parámetros que Shopify agrega al callback:
// se excluyen hmac y signature, se ordenan las claves y se firma "k=v&k=v" con HMAC-SHA256.
func VerifyHMAC(query url.Values, secret string) bool {
	provided := strings.ToLower(query.Get("hmac"))
	if provided == "" || secret == "" {
		return false
	}
	keys := make([]string, 0, len(query))
	for k := range query {
		if k == "hmac" || k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+strings.Join(query[k], ","))
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.Join(parts, "&")))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(provided))
}

// OAuthApp credenciales de la app para el flujo de instalación.
type OAuthApp struct {
	APIKey    string
	APISecret string
	Scopes    string
}

// AuthorizeURL URL de consentimiento para shop con los scopes de la app.
func (a OAuthApp) AuthorizeURL(shop, redirectURI, state string) string {
	return AuthorizeURL(shop, a.APIKey, a.Scopes, redirectURI, state)
}

// VerifyCallback valida el HMAC del callback con el secreto de la app.
func (a OAuthApp) VerifyCallback(query url.Values) bool {
	return VerifyHMAC(query, a.APISecret)
}
