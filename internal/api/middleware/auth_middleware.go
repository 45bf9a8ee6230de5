package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/cart-service/internal/errors"
	"github.com/aaravmahajanofficial/cart-service/internal/utils/response"
	"github.com/golang-jwt/jwt/v5"
)

const bearerPrefix = "Bearer "

const UserContextKey = contextKey("user_id")

type AuthMiddleware struct {
	jwtSecret []byte
}

func NewAuthMiddleware(jwtSecret []byte) *AuthMiddleware {

	return &AuthMiddleware{jwtSecret: jwtSecret}

}

// Authenticate verifies the bearer token and puts the subject claim into the
// request context as the caller's identity. A missing secret is a server
// misconfiguration, not a credential failure.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		if len(m.jwtSecret) == 0 {
			logger.Error("JWT_SECRET is not configured")
			response.Error(w, errors.InternalError("JWT_SECRET is not configured"))
			return
		}

		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Missing Authorization header"))
			return
		}

		// scheme check is case-sensitive, single space
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			logger.Warn("Invalid authorization scheme", slog.String("header", authHeader))
			response.Error(w, errors.UnauthorizedError("Invalid Authorization scheme. Expected: Bearer <token>"))
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))

		claims := &jwt.RegisteredClaims{}

		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {

				logger.Error("Unexpected signing method used in JWT", slog.Any("alg", t.Header["alg"]))
				return nil, errors.BadRequestError("unexpected signing method")

			}
			return m.jwtSecret, nil
		})

		if err != nil {
			logger.Warn("JWT parsing failed", slog.String("error", err.Error()))
			response.Error(w, errors.UnauthorizedError("Invalid or expired token"))
			return
		}

		if !token.Valid {
			logger.Warn("Invalid token")
			response.Error(w, errors.UnauthorizedError("Invalid token"))
			return
		}

		if claims.Subject == "" {
			logger.Warn("Token is missing the 'sub' claim")
			response.Error(w, errors.UnauthorizedError("Invalid token: missing 'sub' claim"))
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims.Subject)

		requestScopedLogger := logger.With(slog.String("userId", claims.Subject))
		ctx = context.WithValue(ctx, LoggerKey, requestScopedLogger)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// UserFromContext returns the verified caller identity set by Authenticate.
func UserFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserContextKey).(string)

	return userID, ok
}
