package middleware

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"partnerhub/internal/auth"
	"partnerhub/internal/dto"
)

// LoggingMiddleware tags every request with a request id and logs the
// outcome with latency.
func LoggingMiddleware() ginext.HandlerFunc {
	return func(c *ginext.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("requestID", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		zlog.Logger.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request handled")
	}
}

// SessionMiddleware resolves the caller from the session cookie or a bearer
// token and stores the user ID in the context. Handlers trust this identity.
func SessionMiddleware(secret []byte) ginext.HandlerFunc {
	return func(c *ginext.Context) {
		token, err := c.Cookie("session")
		if err != nil || token == "" {
			header := c.GetHeader("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}
		}
		if token == "" {
			dto.UnauthorizedError(c)
			c.Abort()
			return
		}

		userID, err := auth.GetUserIDFromToken(token, secret)
		if err != nil {
			dto.UnauthorizedError(c)
			c.Abort()
			return
		}

		c.Set(dto.UserIDKey, userID)
		c.Next()
	}
}
