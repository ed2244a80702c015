package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/collabsphere/collabsphere-api/internal/api/metrics"
	"github.com/collabsphere/collabsphere-api/internal/core/ports"
)

// HeaderAuthToken is the custom header carrying the raw session token. The
// web client sends the token as-is, with no bearer scheme.
const HeaderAuthToken = "x-auth-token"

// Auth validates the session token and injects the identity into context.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Request().Header.Get(HeaderAuthToken)
			if token == "" {
				metrics.AuthFailuresTotal.WithLabelValues("rest").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "No token, authorization denied")
			}

			identity, err := tokens.Verify(token)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("rest").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
			}

			c.Set("user_id", identity.UserID)
			c.Set("role", identity.Role)

			return next(c)
		}
	}
}
