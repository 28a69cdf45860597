package ports

import (
	"context"

	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
)

// SessionProvider entrega la sesión offline de una tienda con el token ya descifrado.
// Devuelve (nil, nil) si la tienda nunca completó la instalación.
type SessionProvider interface {
	GetSession(ctx context.Context, shop string) (*entity.Session, error)
}
