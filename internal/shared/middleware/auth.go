package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"launchsignal-backend/internal/domains/user"
	"launchsignal-backend/internal/shared/response"
	"launchsignal-backend/pkg/jwt"
)

const identityKey = "identity"

// Identity is the caller decoded from a valid session token.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   user.Role
}

// PermissionChecker answers whether a user holds a named permission.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID uuid.UUID, permission user.Permission) (bool, error)
}

// Authenticator builds the per-route guards around the session cookie.
type Authenticator struct {
	jwt        *jwt.Manager
	cookieName string
	perms      PermissionChecker
}

func NewAuthenticator(jwtManager *jwt.Manager, cookieName string, perms PermissionChecker) *Authenticator {
	return &Authenticator{
		jwt:        jwtManager,
		cookieName: cookieName,
		perms:      perms,
	}
}

// CurrentIdentity returns the caller attached by one of the guards.
func CurrentIdentity(c *gin.Context) (*Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*Identity)
	return id, ok
}

// SetIdentity attaches id to the request context.
func SetIdentity(c *gin.Context, id *Identity) {
	c.Set(identityKey, id)
	c.Set("user_id", id.UserID.String())
	c.Set("role", string(id.Role))
}

// tokenFromRequest prefers the session cookie and falls back to a bearer token.
func (a *Authenticator) tokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(a.cookieName); err == nil && token != "" {
		return token
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func (a *Authenticator) identify(c *gin.Context) (*Identity, bool) {
	token := a.tokenFromRequest(c)
	if token == "" {
		return nil, false
	}
	claims, err := a.jwt.ValidateSessionToken(token)
	if err != nil {
		return nil, false
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, false
	}
	return &Identity{UserID: userID, Email: claims.Email, Role: user.Role(claims.Role)}, true
}

// authenticate attaches the identity or aborts with 401.
func (a *Authenticator) authenticate(c *gin.Context) (*Identity, bool) {
	id, ok := a.identify(c)
	if !ok {
		response.Unauthorized(c, "Not authenticated")
		c.Abort()
		return nil, false
	}
	SetIdentity(c, id)
	return id, true
}

func (a *Authenticator) isAdmin(c *gin.Context, id *Identity) (bool, bool) {
	ok, err := a.perms.HasPermission(c.Request.Context(), id.UserID, user.PermissionAdmin)
	if err != nil {
		response.InternalServerError(c, err)
		c.Abort()
		return false, false
	}
	return ok, true
}

// RequireSession rejects requests without a valid session with 401.
func (a *Authenticator) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := a.authenticate(c); !ok {
			return
		}
		c.Next()
	}
}

// AttachIfPresent attaches the caller when the token is valid and otherwise
// lets the request through anonymously.
func (a *Authenticator) AttachIfPresent() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := a.identify(c); ok {
			SetIdentity(c, id)
		}
		c.Next()
	}
}

// RequireFounder admits founders and admin-permission holders.
func (a *Authenticator) RequireFounder() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := a.authenticate(c)
		if !ok {
			return
		}
		if id.Role == user.RoleFounder {
			c.Next()
			return
		}
		admin, ok := a.isAdmin(c, id)
		if !ok {
			return
		}
		if !admin {
			response.Forbidden(c, "Only founders can perform this action")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *Authenticator) RequireAdopter() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := a.authenticate(c)
		if !ok {
			return
		}
		if id.Role != user.RoleAdopter {
			response.Forbidden(c, "Only adopters can perform this action")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin checks the admin permission of the token's user; identity
// never comes from request headers.
func (a *Authenticator) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := a.authenticate(c)
		if !ok {
			return
		}
		admin, ok := a.isAdmin(c, id)
		if !ok {
			return
		}
		if !admin {
			response.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
