// internal/domain/tracking/token_test.go
package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateToken_StableAndShort(t *testing.T) {
	token := GenerateToken("VJ-20260815-A1B2C3", "secret")

	assert.Len(t, token, 16)
	assert.Equal(t, token, GenerateToken("VJ-20260815-A1B2C3", "secret"))
}

func TestGenerateToken_VariesByInput(t *testing.T) {
	base := GenerateToken("VJ-1", "secret")

	assert.NotEqual(t, base, GenerateToken("VJ-2", "secret"))
	assert.NotEqual(t, base, GenerateToken("VJ-1", "other-secret"))
}

func TestVerifyToken(t *testing.T) {
	token := GenerateToken("VJ-1", "secret")

	assert.True(t, VerifyToken("VJ-1", "secret", token))
	assert.False(t, VerifyToken("VJ-1", "secret", "deadbeefdeadbeef"))
	assert.False(t, VerifyToken("VJ-2", "secret", token))
	assert.False(t, VerifyToken("VJ-1", "secret", ""))
}
