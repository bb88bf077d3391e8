package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"concert-ticket-api/internal/pkg/authtoken"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxRequesterIDKey = "requester_id"

type AuthMiddleware struct {
	tokens *authtoken.Service
}

func NewAuthMiddleware(tokens *authtoken.Service) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxRequesterIDKey, claims.RequesterID)
		c.Next()
	}
}

func GetRequesterID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxRequesterIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
