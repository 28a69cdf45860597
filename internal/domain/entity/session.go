package entity

import "time"

// Session sesión OAuth offline de una tienda. El id es "offline_<shop>".
type Session struct {
	ID          string
	Shop        string
	State       string
	AccessToken string // en claro en memoria; cifrado en la base
	Scope       string
	IsOnline    bool
	ExpiresAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OfflineSessionID id de la sesión offline de una tienda.
func OfflineSessionID(shop string) string {
	return "offline_" + shop
}

// Authenticated indica si la sesión tiene un token utilizable.
func (s *Session) Authenticated(now time.Time) bool {
	if s == nil || s.AccessToken == "" {
		return false
	}
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}
