package middleware

import (
	"tutormatch/backend/internal/api/response"
	"tutormatch/backend/internal/apperr"
	"tutormatch/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "user_id"
	roleKey   = "role"
	nameKey   = "name"
)

// TokenParser is satisfied by *auth.TokenManager.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Auth requires a valid "Authorization: Bearer <token>" and stores the identity on the context.
func Auth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := auth.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Fail(c, apperr.ErrUnauthorized)
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			response.Fail(c, apperr.ErrUnauthorized)
			return
		}

		SetIdentity(c, claims)
		c.Next()
	}
}

// RequireRole lets through only the given roles. Must run after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := Role(c)
		if !ok {
			response.Fail(c, apperr.ErrUnauthorized)
			return
		}
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		response.Fail(c, apperr.ErrForbidden)
	}
}

// SetIdentity stores verified claims on the context.
func SetIdentity(c *gin.Context, claims *auth.Claims) {
	c.Set(userIDKey, claims.ID)
	c.Set(roleKey, claims.Role)
	c.Set(nameKey, claims.Name)
}

// UserID returns the authenticated user's id.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

func Role(c *gin.Context) (string, bool) {
	role := c.GetString(roleKey)
	return role, role != ""
}

func Name(c *gin.Context) string {
	return c.GetString(nameKey)
}
