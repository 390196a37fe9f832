package auth

import "quizdash/internal/domain/models"

// JWTVerifier validates bearer tokens for the HTTP middleware.
type JWTVerifier interface {
	// VerifyToken validates a JWT and returns its claims.
	// Returns domain.ErrUnauthorized if the token is invalid, expired or anonymous.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases resources held by the verifier.
	Close() error
}
