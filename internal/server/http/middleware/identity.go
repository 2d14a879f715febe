package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	pkgAuth "github.com/vendrix/storefront/internal/pkg/auth"
)

const (
	// TenantIDContextKey is a gin context key for the resolved tenant.
	TenantIDContextKey = "tenantID"
	// UserIDContextKey is a gin context key for the authenticated user identifier.
	UserIDContextKey = "userID"
	// SessionIDContextKey is a gin context key for the anonymous session identifier.
	SessionIDContextKey = "sessionID"

	tenantHeader  = "X-Tenant-ID"
	sessionHeader = "X-Session-ID"
)

// TokenParser validates identity tokens.
type TokenParser interface {
	ParseToken(token string) (pkgAuth.Identity, error)
}

// Identity resolves the caller's tenant, user and session references. A valid
// bearer token supplies user and tenant; anonymous callers must send the
// tenant header and may send a session header.
func Identity(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			identity, err := parser.ParseToken(token)
			if err != nil {
				if errors.Is(err, pkgAuth.ErrInvalidToken) {
					c.AbortWithStatus(http.StatusUnauthorized)
					return
				}
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Set(UserIDContextKey, identity.UserID)
			c.Set(TenantIDContextKey, identity.TenantID)
		} else if raw := c.GetHeader(tenantHeader); raw != "" {
			tenantID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || tenantID <= 0 {
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
			c.Set(TenantIDContextKey, tenantID)
		} else {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if raw := c.GetHeader(sessionHeader); raw != "" {
			sessionID, err := uuid.Parse(raw)
			if err != nil {
				c.AbortWithStatus(http.StatusBadRequest)
				return
			}
			c.Set(SessionIDContextKey, sessionID)
		}

		c.Next()
	}
}

// AuthRequired rejects callers without an authenticated user.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(UserIDContextKey); !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
