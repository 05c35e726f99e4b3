package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shop-service/internal/domain/entities"
	"shop-service/internal/security"
)

const identityKey = "identity"

type TokenVerifier interface {
	Verify(raw string) (entities.Identity, error)
}

// Authenticate resolves the bearer token into an Identity once per request.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := security.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauth(c, "invalid_request", "missing bearer token")
			return
		}

		identity, err := verifier.Verify(raw)
		if err != nil {
			unauth(c, "invalid_token", "invalid jwt")
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the identity set by Authenticate, or the zero
// Identity on unauthenticated routes.
func IdentityFrom(c *gin.Context) entities.Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(entities.Identity); ok {
			return identity
		}
	}
	return entities.Identity{}
}

func unauth(c *gin.Context, code, desc string) {
	c.Header("WWW-Authenticate", `Bearer error="`+code+`", error_description="`+desc+`"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": desc})
}
