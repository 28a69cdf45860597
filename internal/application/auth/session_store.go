package auth

import (
	"context"
	"fmt"

	"github.com/jhoicas/shopify-profit-api/internal/application/ports"
	"github.com/jhoicas/shopify-profit-api/internal/domain"
	"github.com/jhoicas/shopify-profit-api/internal/domain/entity"
	"github.com/jhoicas/shopify-profit-api/internal/domain/repository"
)

// TokenCipher cifrado del access token en reposo (implementado por tokencrypt.Cipher).
type TokenCipher interface {
	Encrypt(plain string) (string, error)
	Decrypt(encoded string) (string, error)
}

var _ ports.SessionProvider = (*SessionStore)(nil)

// SessionStore guarda y lee sesiones offline cifrando el access token.
type SessionStore struct {
	repo   repository.SessionRepository
	cipher TokenCipher
}

// NewSessionStore construye el store.
func NewSessionStore(repo repository.SessionRepository, cipher TokenCipher) *SessionStore {
	return &SessionStore{repo: repo, cipher: cipher}
}

// GetSession sesión offline de shop con el token en claro; (nil, nil) si no existe.
func (s *SessionStore) GetSession(ctx context.Context, shop string) (*entity.Session, error) {
	sess, err := s.repo.Load(ctx, entity.OfflineSessionID(shop))
	if err != nil {
		return nil, fmt.Errorf("cargar sesión: %w", err)
	}
	if sess == nil {
		return nil, nil
	}
	if sess.AccessToken != "" {
		plain, err := s.cipher.Decrypt(sess.AccessToken)
		if err != nil {
			// clave rotada o dato corrupto: la tienda debe reinstalar
			return nil, fmt.Errorf("descifrar token de %s: %w: %w", shop, domain.ErrNotAuthenticated, err)
		}
		sess.AccessToken = plain
	}
	return sess, nil
}

// Save cifra el token y guarda la sesión (insert o update por id).
func (s *SessionStore) Save(ctx context.Context, sess *entity.Session) error {
	enc, err := s.cipher.Encrypt(sess.AccessToken)
	if err != nil {
		return fmt.Errorf("cifrar token: %w", err)
	}
	stored := *sess
	stored.AccessToken = enc
	if err := s.repo.Store(ctx, &stored); err != nil {
		return fmt.Errorf("guardar sesión: %w", err)
	}
	return nil
}
