package repository

import (
	"context"

	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
)

// SessionRepository persistencia de sesiones OAuth. AccessToken llega y sale tal cual se
// guarda (cifrado); descifrar es responsabilidad de la capa de aplicación.
type SessionRepository interface {
	Store(ctx context.Context, s *entity.Session) error
	Load(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
	FindByShop(ctx context.Context, shop string) ([]entity.Session, error)
}
