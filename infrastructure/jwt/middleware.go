package jwt

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/postcraft/infrastructure/logger"
)

const (
	claimsKey = "claims"
	tokenKey  = "access_token"
)

// Middleware rejects requests without a valid bearer token and stores the
// claims and raw token for GetClaims and GetToken.
func Middleware(v *Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims, err := v.Validate(token)
		if err != nil {
			logger.FromContext(c.Request.Context()).Debug("Rejected token", logger.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Set(tokenKey, token)

		reqLog := logger.FromContext(c.Request.Context()).With(logger.UserID(claims.UserID()))
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLog))

		c.Next()
	}
}

func GetClaims(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// GetToken returns the raw bearer token, needed to call the identity
// provider on the user's behalf.
func GetToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
