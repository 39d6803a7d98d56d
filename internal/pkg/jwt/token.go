package jwt

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/stablehq/treasury/internal/pkg/models"
)

// Claims are the verified identity-provider claims the service cares about
type Claims struct {
	UserID string
}

// VerifyAccessToken verifies an identity-provider access token and returns
// the claims. Tokens are issued by the wallet/identity provider; the
// verification key is the provider's public key (PEM, ES256). A raw shared
// secret enables HS256 for local development.
func VerifyAccessToken(tokenString string, cfg models.AuthConfig) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodECDSA:
			return jwt.ParseECPublicKeyFromPEM([]byte(cfg.VerificationKey))
		case *jwt.SigningMethodHMAC:
			if strings.Contains(cfg.VerificationKey, "BEGIN PUBLIC KEY") {
				return nil, fmt.Errorf("HMAC token presented against public verification key")
			}
			return []byte(cfg.VerificationKey), nil
		default:
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
	})
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if cfg.Issuer != "" {
		if !claims.VerifyIssuer(cfg.Issuer, true) {
			return nil, fmt.Errorf("invalid token issuer")
		}
	}
	if cfg.Audience != "" {
		if !claims.VerifyAudience(cfg.Audience, true) {
			return nil, fmt.Errorf("invalid token audience")
		}
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("token missing subject claim")
	}

	return &Claims{UserID: sub}, nil
}
