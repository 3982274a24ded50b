package webserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/civic-stack/grievance-portal/src/portal/authz"
	"github.com/civic-stack/grievance-portal/src/portal/types"
)

const identityKey = "identity"

// JWTMiddleware requires a valid bearer token and places the carried
// identity on the context.
func JWTMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := identityFromHeader(c, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"err": "unauthorized"})
			return
		}
		c.Set(identityKey, ident)
		c.Next()
	}
}

// OptionalJWT parses a bearer token when present but lets anonymous
// requests through. Used only on the submission route, where anonymous
// complaints are legitimate.
func OptionalJWT(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ident, ok := identityFromHeader(c, secret); ok {
			c.Set(identityKey, ident)
		}
		c.Next()
	}
}

// RequireAdmin gates a route group to the administrative role. Must run
// after JWTMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authz.IsAdmin(CurrentIdentity(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"err": "admins only"})
			return
		}
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) types.Identity {
	if v, ok := c.Get(identityKey); ok {
		if ident, ok := v.(types.Identity); ok {
			return ident
		}
	}
	return types.Identity{}
}

func identityFromHeader(c *gin.Context, secret []byte) (types.Identity, bool) {
	bearer := c.GetHeader("Authorization")
	if !strings.HasPrefix(bearer, "Bearer ") {
		return types.Identity{}, false
	}
	token, err := jwt.Parse(bearer[7:], func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return types.Identity{}, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return types.Identity{}, false
	}
	ident := types.Identity{
		ID:    claimStr(claims, "sub"),
		Role:  claimStr(claims, "role"),
		Email: claimStr(claims, "email"),
		Name:  claimStr(claims, "name"),
	}
	return ident, ident.ID != ""
}

func claimStr(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
