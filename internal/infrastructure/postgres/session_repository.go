package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
	"github.com/jhoicas/shopify-profit-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo sesiones OAuth en la tabla shopify_sessions.
type SessionRepo struct {
	q Querier
}

// NewSessionRepository construye el adaptador de sesiones.
func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

const sessionColumns = `id, shop, state, COALESCE(access_token, ''), COALESCE(scope, ''), is_online, expires_at, created_at, updated_at`

// Store inserta o reemplaza la sesión por id.
func (r *SessionRepo) Store(ctx context.Context, s *entity.Session) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO shopify_sessions (id, shop, state, access_token, scope, is_online, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			shop = EXCLUDED.shop, state = EXCLUDED.state, access_token = EXCLUDED.access_token,
			scope = EXCLUDED.scope, is_online = EXCLUDED.is_online, expires_at = EXCLUDED.expires_at,
			updated_at = now()`,
		s.ID, s.Shop, s.State, s.AccessToken, s.Scope, s.IsOnline, s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Load obtiene una sesión por id; (nil, nil) si no existe.
func (r *SessionRepo) Load(ctx context.Context, id string) (*entity.Session, error) {
	var s entity.Session
	err := r.q.QueryRow(ctx, `SELECT `+sessionColumns+` FROM shopify_sessions WHERE id = $1`, id).Scan(
		&s.ID, &s.Shop, &s.State, &s.AccessToken, &s.Scope, &s.IsOnline, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &s, nil
}

// Delete borra una sesión; no falla si no existía.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM shopify_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// FindByShop todas las sesiones de una tienda (offline y online).
func (r *SessionRepo) FindByShop(ctx context.Context, shop string) ([]entity.Session, error) {
	rows, err := r.q.Query(ctx, `SELECT `+sessionColumns+` FROM shopify_sessions WHERE shop = $1 ORDER BY updated_at DESC`, shop)
	if err != nil {
		return nil, fmt.Errorf("find sessions: %w", err)
	}
	defer rows.Close()

	var list []entity.Session
	for rows.Next() {
		var s entity.Session
		if err := rows.Scan(&s.ID, &s.Shop, &s.State, &s.AccessToken, &s.Scope, &s.IsOnline, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
