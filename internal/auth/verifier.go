package auth

import (
	"context"
	"errors"
	"log/slog"

	"filevault/internal/config"
)

// NewVerifier picks the verifier for cfg: JWKS when JWKS_URL is set,
// otherwise HMAC with JWT_SECRET.
func NewVerifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (JWTVerifier, error) {
	switch {
	case cfg.JWKSURL != "":
		return NewJWKSVerifier(ctx, cfg.JWKSURL, logger)
	case cfg.JWTSecret != "":
		return NewHMACVerifier(cfg.JWTSecret, logger)
	default:
		return nil, errors.New("either JWKS_URL or JWT_SECRET must be set")
	}
}
