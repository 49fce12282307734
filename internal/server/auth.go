package server

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skyharborlabs/skyharbor/internal/principal"
	userdomain "github.com/skyharborlabs/skyharbor/internal/user/domain"
)

const contextUserKey = "auth_user"

// AuthRequired authenticates requests with a bearer token. Identity is
// derived solely from the users table; the token itself is never stored.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		hash := userdomain.HashToken(parts[1])
		user, err := s.users.FindByTokenHash(c.Request.Context(), hash)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if user == nil || subtle.ConstantTimeCompare([]byte(user.TokenHash), []byte(hash)) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := principal.WithPrincipal(c.Request.Context(), principal.Principal{
			ID:   user.ID,
			Role: user.Role,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Set(contextUserKey, user)
		c.Next()
	}
}

// RequireRole gates a route group to one role. It assumes AuthRequired ran
// earlier in the chain.
func (s *Server) RequireRole(role principal.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principal.FromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if p.Role != role {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func (s *Server) currentPrincipal(c *gin.Context) (principal.Principal, bool) {
	return principal.FromContext(c.Request.Context())
}

func (s *Server) currentUser(c *gin.Context) *userdomain.User {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*userdomain.User)
	return user
}
