package dto

// AuthCheckDTO respuesta de GET /api/auth/check.
type AuthCheckDTO struct {
	Shop          string `json:"shop"`
	Authenticated bool   `json:"authenticated"`
	Scope         string `json:"scope,omitempty"`
}

// CallbackResult resultado del callback OAuth: token del dashboard y destino de la redirección.
type CallbackResult struct {
	Shop        string
	Token       string
	RedirectURL string
}
