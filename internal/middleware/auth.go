package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/portal-api/internal/handler"
	"github.com/clinicore/portal-api/internal/model"
	"github.com/clinicore/portal-api/internal/service/auth"
	"github.com/clinicore/portal-api/internal/service/identity"
)

const identityKey = "identity"

// LoginRoute is where denied requests are pointed back to.
const LoginRoute = "/auth"

// AuthMiddleware is the access guard: a protected handler only runs
// after identity resolution has settled, and never runs without one.
type AuthMiddleware struct {
	authSvc     *auth.Service
	identitySvc *identity.Service
}

func NewAuthMiddleware(authSvc *auth.Service, identitySvc *identity.Service) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc, identitySvc: identitySvc}
}

// Authenticate validates the bearer token, resolves the session subject
// into an identity and stores it in the request context. An absent or
// unresolvable session is denied with the login route to redirect to;
// the guard cannot tell the two apart.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.deny(c, "authentication required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.deny(c, "invalid authorization format")
			return
		}

		claims, err := m.authSvc.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			m.deny(c, "invalid token")
			return
		}

		sess := &model.Session{UserID: claims.UserID, Email: claims.Email}
		ident := m.identitySvc.Lookup(c.Request.Context(), sess)
		if ident == nil {
			m.deny(c, "authentication required")
			return
		}

		c.Set(identityKey, ident)
		c.Next()
	}
}

// RequireRole denies the request unless the resolved identity's role is
// in the allowed set.
func (m *AuthMiddleware) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := IdentityFromContext(c)
		if ident == nil {
			m.deny(c, "authentication required")
			return
		}

		for _, role := range roles {
			if ident.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, handler.NewErrorResponse("permission denied"))
		c.Abort()
	}
}

// IdentityFromContext returns the identity resolved by Authenticate, or
// nil on unguarded routes.
func IdentityFromContext(c *gin.Context) *model.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	ident, ok := v.(*model.Identity)
	if !ok {
		return nil
	}
	return ident
}

func (m *AuthMiddleware) deny(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, &handler.Response{
		Status:  "error",
		Message: message,
		Data:    gin.H{"redirect": LoginRoute},
	})
	c.Abort()
}
