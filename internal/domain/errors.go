package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrDuplicate        = errors.New("recurso duplicado")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrMissingShop      = errors.New("falta el parámetro shop")
	ErrInvalidShop      = errors.New("dominio de tienda inválido")
	ErrNotAuthenticated = errors.New("la tienda no está autenticada; reinstale la app")
	ErrInvalidHMAC      = errors.New("firma HMAC inválida")
	ErrUpstream         = errors.New("error en la API de Shopify")
)
