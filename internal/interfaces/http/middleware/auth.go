package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"noryx/internal/infrastructure/auth"
	"noryx/internal/shared/logger"
	"noryx/internal/shared/utils"
)

const (
	ContextKeyUserID  = "user_id"
	ContextKeyIsAdmin = "is_admin"
)

type AuthMiddleware struct {
	jwtService        *auth.JWTService
	allowBodyFallback bool
	logger            logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, allowBodyFallback bool, log logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:        jwtService,
		allowBodyFallback: allowBodyFallback,
		logger:            log,
	}
}

// RequireUser resolves the caller's user ID from a bearer token. When the
// body fallback is enabled, a user_id field in the JSON body stands in for
// the token so trusted internal callers can act on a user's behalf.
func (m *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			claims, err := m.jwtService.Verify(token)
			if err != nil {
				m.logger.Warnw("failed to verify token", "error", err)
				utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
				c.Abort()
				return
			}
			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyIsAdmin, claims.IsAdmin)
			c.Next()
			return
		}

		if m.allowBodyFallback {
			if userID := userIDFromBody(c); userID != 0 {
				c.Set(ContextKeyUserID, userID)
				c.Set(ContextKeyIsAdmin, false)
				c.Next()
				return
			}
		}

		utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
		c.Abort()
	}
}

// RequireAdmin gates admin endpoints. The body fallback never grants admin.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(token)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}
		if !claims.IsAdmin {
			utils.ErrorResponse(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyIsAdmin, true)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// userIDFromBody peeks at the JSON body for a user_id field, restoring the
// body so the handler can bind it again.
func userIDFromBody(c *gin.Context) uint {
	if c.Request.Body == nil {
		return 0
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return 0
	}

	var probe struct {
		UserID uint `json:"user_id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return 0
	}
	return probe.UserID
}

// UserID reads the authenticated user ID set by RequireUser.
func UserID(c *gin.Context) uint {
	value, ok := c.Get(ContextKeyUserID)
	if !ok {
		return 0
	}
	id, _ := value.(uint)
	return id
}
