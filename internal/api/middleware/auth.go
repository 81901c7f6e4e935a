package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/nsqtech/record-tracker/internal/api/metrics"
	"github.com/nsqtech/record-tracker/internal/core/domain"
	"github.com/nsqtech/record-tracker/internal/core/ports"
)

// PrincipalKey is the echo.Context key holding the verified domain.Principal.
const PrincipalKey = "principal"

const (
	msgMissingToken = "missing token"
	msgInvalidToken = "invalid or expired token"
)

// Auth verifies the bearer token and injects the decoded principal into the
// context. Every rejection is a 401 with the same body; the concrete reason
// only reaches the log and the token_rejections_total metric.
func Auth(verifier ports.TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			if authHeader == "" {
				return reject(c, log, "missing", msgMissingToken)
			}

			scheme, token, _ := strings.Cut(authHeader, " ")
			if !strings.EqualFold(scheme, "bearer") {
				return reject(c, log, "malformed", msgInvalidToken)
			}
			// A lone scheme carries no token, same as an absent header.
			token = strings.TrimSpace(token)
			if token == "" {
				return reject(c, log, "missing", msgMissingToken)
			}
			if strings.Count(token, ".") != 2 {
				return reject(c, log, "malformed", msgInvalidToken)
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				reason := "invalid_signature"
				if errors.Is(err, domain.ErrTokenExpired) {
					reason = "expired"
				}
				return reject(c, log, reason, msgInvalidToken)
			}

			c.Set(PrincipalKey, *principal)
			return next(c)
		}
	}
}

func reject(c echo.Context, log zerolog.Logger, reason, msg string) error {
	metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
	log.Warn().
		Str("reason", reason).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("remote_ip", c.RealIP()).
		Msg("token rejected")
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}
