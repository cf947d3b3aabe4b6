package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
)

// TokenManager issues opaque connection tokens at login and verifies them
// once per websocket handshake, before channel admission. Tokens live in
// memory only; a restart invalidates them along with the games.
type TokenManager struct {
	mu     sync.Mutex
	tokens map[string]string // token -> user id
}

func NewTokenManager() *TokenManager {
	return &TokenManager{tokens: make(map[string]string)}
}

func (t *TokenManager) Issue(userID string) (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	t.mu.Lock()
	t.tokens[token] = userID
	t.mu.Unlock()
	return token, nil
}

func (t *TokenManager) Verify(token string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	userID, ok := t.tokens[token]
	return userID, ok
}

func (t *TokenManager) Revoke(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.tokens, token)
}
