package middleware

import (
	"strings"

	"kazi-hub/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// AdminMiddleware guards the manual-trigger endpoints. Callers present
// either a bearer token from POST /admin/token or the raw shared secret
// in X-Admin-Token.
type AdminMiddleware struct {
	auth usecase.AdminAuthUsecase
}

func NewAdminMiddleware(auth usecase.AdminAuthUsecase) *AdminMiddleware {
	return &AdminMiddleware{auth: auth}
}

func (m *AdminMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if m == nil || m.auth == nil || !m.auth.Enabled() {
			return NewAppError(fiber.StatusUnauthorized, "Admin endpoints disabled", nil, nil)
		}

		if token, ok := bearerTokenFromHeader(c.Get("Authorization")); ok {
			if err := m.auth.VerifyToken(token); err != nil {
				return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
			}
			return c.Next()
		}

		if m.auth.VerifySecret(c.Get("X-Admin-Token")) {
			return c.Next()
		}

		return NewAppError(fiber.StatusUnauthorized, "Unauthorized: send X-Admin-Token header or a bearer token", nil, nil)
	}
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
