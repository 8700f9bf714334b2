// internal/domain/tracking/token.go
package tracking

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// GenerateToken derives the public tracking token for an order. Tokens are
// embedded in email and SMS links, so they must stay stable across restarts:
// the token is the first 16 hex characters of sha256(orderID + "_" + secret).
func GenerateToken(orderID, secret string) string {
	sum := sha256.Sum256([]byte(orderID + "_" + secret))
	return hex.EncodeToString(sum[:])[:16]
}

// VerifyToken checks a presented token against the expected one in constant
// time.
func VerifyToken(orderID, secret, token string) bool {
	expected := GenerateToken(orderID, secret)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(token)) == 1
}
