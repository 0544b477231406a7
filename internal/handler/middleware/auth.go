package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"ticket-hold/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxClientIDKey = "client_id"

// AuthMiddleware verifies the gateway-issued bearer token and exposes the
// authenticated client id to handlers. Token issuance lives in the gateway;
// this service only checks signatures.
type AuthMiddleware struct {
	verifier *jwt.Verifier
}

func NewAuthMiddleware(verifier *jwt.Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}
		token := strings.TrimSpace(authHeader[len("Bearer "):])

		claims, err := m.verifier.VerifyToken(token)
		if err != nil {
			slog.Warn("Token verification failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxClientIDKey, claims.ClientID)
		c.Next()
	}
}

func GetClientID(c *gin.Context) (uuid.UUID, bool) {
	clientID, exists := c.Get(ctxClientIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := clientID.(uuid.UUID)
	return id, ok
}
