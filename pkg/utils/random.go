package utils

import (
	"crypto/rand"
	"encoding/base64"
)

const (
	apiKeyBytes     = 32
	resetTokenBytes = 48
)

func randomToken(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the process has no usable entropy source;
		// nothing sensible can continue from here.
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// GenerateRawAPIKey returns a URL-safe random API key with 32 bytes of entropy.
// The raw value is shown to the caller once and only its hash is persisted.
func GenerateRawAPIKey() string {
	return randomToken(apiKeyBytes)
}

// GenerateResetToken returns a URL-safe random password-reset token with
// 48 bytes of entropy.
func GenerateResetToken() string {
	return randomToken(resetTokenBytes)
}
