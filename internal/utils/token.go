package utils // package utils provides helpers for credentials and session tokens

import (
	"crypto/rand"
	"encoding/hex"
)

// SessionTokenBytes is the entropy of a session token: 128 bits, rendered
// as 32 hex characters.
const SessionTokenBytes = 16

// NewSessionToken returns an opaque, cryptographically random token.  It
// carries no structure; the only way to resolve it is a session store
// lookup.
func NewSessionToken() (string, error) {
	return randomHex(SessionTokenBytes)
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
