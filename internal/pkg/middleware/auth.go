package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	jwtpkg "github.com/stablehq/treasury/internal/pkg/jwt"
	"github.com/stablehq/treasury/internal/pkg/models"
	"github.com/stablehq/treasury/internal/utils"
)

// AuthMiddleware verifies the identity-provider bearer token on every
// authenticated route and stores the caller's user id in the context
func AuthMiddleware(config models.AuthConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return utils.UnauthorizedResponse(c, "Authorization header is required")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return utils.UnauthorizedResponse(c, "Invalid authorization format")
			}

			claims, err := jwtpkg.VerifyAccessToken(parts[1], config)
			if err != nil {
				return utils.UnauthorizedResponse(c, "Invalid token")
			}

			c.Set("user_id", claims.UserID)
			return next(c)
		}
	}
}
