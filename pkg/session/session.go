// Package session issues and parses the opaque identity tokens carried in
// the session cookie. A token seals the user ID and an expiry with AES-GCM,
// so the acting identity is always an explicit value decoded per request.
package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const CookieName = "slotbook_session"

var (
	ErrNoSession    = errors.New("no session cookie")
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpired      = errors.New("session expired")
)

type Manager struct {
	aead cipher.AEAD
	ttl  time.Duration
}

// NewManager builds a session manager from a base64-encoded 32-byte key.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("decode session secret: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("build session cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("build session AEAD: %w", err)
	}

	return &Manager{aead: aead, ttl: ttl}, nil
}

// Issue seals the user ID and expiry into an opaque token.
func (m *Manager) Issue(userID string) (string, error) {
	expiresAt := time.Now().Add(m.ttl).Unix()
	plaintext := []byte(userID + ":" + strconv.FormatInt(expiresAt, 10))

	nonce := make([]byte, m.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := m.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Parse opens a token and returns the user ID it carries.
func (m *Manager) Parse(token string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidToken
	}

	nonceSize := m.aead.NonceSize()
	if len(data) < nonceSize {
		return "", ErrInvalidToken
	}

	plaintext, err := m.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", ErrInvalidToken
	}

	parts := strings.SplitN(string(plaintext), ":", 2)
	if len(parts) != 2 {
		return "", ErrInvalidToken
	}

	expiresAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", ErrInvalidToken
	}
	if time.Now().Unix() > expiresAt {
		return "", ErrExpired
	}

	return parts[0], nil
}

// SetCookie attaches the session cookie to the response.
func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest extracts and parses the session cookie, returning the
// acting user ID.
func (m *Manager) FromRequest(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", ErrNoSession
	}
	return m.Parse(cookie.Value)
}
