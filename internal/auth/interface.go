package auth

import "filevault/internal/domain/models"

// JWTVerifier defines the interface for JWT token verification.
// The middleware only needs a user id out of a bearer token; how the
// signature is checked is up to the implementation.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns domain.ErrUnauthorized if the token is invalid, expired, or badly signed.
	VerifyToken(tokenString string) (*models.UserClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
