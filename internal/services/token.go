package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and validates the signed session tokens presented as
// Authorization bearer credentials. It holds no state beyond the signing
// secret; rotating the secret invalidates every outstanding token.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// Issue creates an HS256-signed token binding the subject (the username) to
// an absolute expiry of now + TTL.
func (s *TokenService) Issue(subject string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})
	return token.SignedString(s.secret)
}

// Validate verifies signature and expiry and returns the subject. Expired,
// malformed, wrongly signed and wrong-algorithm tokens all collapse to
// ok=false; the caller never learns which.
func (s *TokenService) Validate(tokenString string) (subject string, ok bool) {
	claims := &jwt.RegisteredClaims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
