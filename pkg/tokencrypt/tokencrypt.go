// Package tokencrypt cifra los access tokens de Shopify antes de guardarlos en la base.
package tokencrypt

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrMalformed indica que el texto cifrado no tiene el formato esperado.
var ErrMalformed = errors.New("tokencrypt: texto cifrado inválido")

// Cipher cifra con XChaCha20-Poly1305; la clave se deriva con SHA-256 de un secreto arbitrario.
type Cipher struct {
	key [chacha20poly1305.KeySize]byte
}

// New crea un Cipher a partir de un secreto. El secreto no puede estar vacío.
func New(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, fmt.Errorf("tokencrypt: secreto vacío")
	}
	return &Cipher{key: sha256.Sum256([]byte(secret))}, nil
}

// Encrypt devuelve base64(nonce || ciphertext).
func (c *Cipher) Encrypt(plain string) (string, error) {
	aead, err := chacha20poly1305.NewX(c.key[:])
	if err != nil {
		return "", fmt.Errorf("tokencrypt.Encrypt: %w", err)
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("tokencrypt.Encrypt: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt revierte Encrypt. Falla si el valor fue alterado o se cifró con otra clave.
func (c *Cipher) Decrypt(encoded string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrMalformed
	}
	aead, err := chacha20poly1305.NewX(c.key[:])
	if err != nil {
		return "", fmt.Errorf("tokencrypt.Decrypt: %w", err)
	}
	if len(raw) < aead.NonceSize()+aead.Overhead() {
		return "", ErrMalformed
	}
	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("tokencrypt.Decrypt: %w", err)
	}
	return string(plain), nil
}
