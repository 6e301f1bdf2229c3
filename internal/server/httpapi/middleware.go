package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/i2clabs/fileserver/internal/server/models"
)

// principalKey is the gin context key the auth middleware stores the
// authenticated principal under.
const principalKey = "principal"

// withTimeout caps the request context so a stalled database or blob store
// cannot hold a handler open indefinitely.
func withTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// requireAuth extracts and validates the Bearer token, storing the resulting
// principal in the request context.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
			return
		}

		p, err := h.auth.ValidateToken(tokenString)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// requireAdmin rejects non-admin principals. Must run after requireAuth.
func (h *Handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principal(c)
		if p == nil || !p.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin privilege required"})
			return
		}
		c.Next()
	}
}

// principal returns the authenticated principal, or nil on unauthenticated
// routes.
func principal(c *gin.Context) *models.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*models.Principal)
	return p
}
