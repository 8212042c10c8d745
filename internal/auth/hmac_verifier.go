package auth

import (
	"errors"
	"log/slog"

	"filevault/internal/domain"
	"filevault/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

// HMACVerifier implements JWTVerifier for HS256 tokens signed with a shared
// secret. Used in dev and test where no JWKS endpoint is available.
type HMACVerifier struct {
	secret []byte
	logger *slog.Logger
}

// NewHMACVerifier creates a verifier for tokens signed with secret
func NewHMACVerifier(secret string, logger *slog.Logger) (JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}

	logger.Info("JWT verifier initialized", "mode", "hmac")

	return &HMACVerifier{secret: []byte(secret), logger: logger}, nil
}

// VerifyToken validates an HS256 token and extracts its claims.
func (v *HMACVerifier) VerifyToken(tokenString string) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.UserClaims{},
		func(*jwt.Token) (interface{}, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}

	return checkClaims(token, v.logger)
}

// Close is a no-op
func (v *HMACVerifier) Close() error {
	return nil
}

// SignHMAC issues an HS256 token for userID. The seed tool and tests use it
// to mint tokens the HMAC verifier accepts.
func SignHMAC(secret, userID string, claims jwt.RegisteredClaims) (string, error) {
	claims.Subject = userID
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.UserClaims{
		RegisteredClaims: claims,
		Role:             "authenticated",
	})
	return token.SignedString([]byte(secret))
}
