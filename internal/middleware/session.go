package middleware

import (
	"errors"   // Error classification
	"net/http" // HTTP status codes

	"investment_platform/internal/auth" // Authorization gate

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Context keys set by the session middleware
const (
	PrincipalKey = "principal" // auth.Principal of the caller
	UserIDKey    = "userID"    // ID of the caller
)

// SessionMiddleware authorizes the request and stores the principal in the context
func SessionMiddleware(a auth.Authorizer) gin.HandlerFunc {
	return gate(a, "Forbidden")
}

// gate runs the authorizer and maps its errors to JSON responses
func gate(a auth.Authorizer, forbidden string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := a.Authorize(c.Request) // Resolve the caller
		switch {
		case err == nil:
			c.Set(PrincipalKey, p)     // Store principal in context
			c.Set(UserIDKey, p.UserID) // Store userID in context
			c.Next()                   // Proceed to the next handler
		case errors.Is(err, auth.ErrUnauthorized):
			// No valid session
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		case errors.Is(err, auth.ErrForbidden):
			// Valid session, wrong role or removed account
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": forbidden})
		default:
			// Store or cache failure while resolving the caller
			logrus.WithFields(logrus.Fields{
				"path":  c.FullPath(), // Route being accessed
				"error": err.Error(),  // Error message
			}).Error("Authorization failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
	}
}

// CurrentPrincipal returns the principal stored by SessionMiddleware
func CurrentPrincipal(c *gin.Context) (auth.Principal, bool) {
	v, exists := c.Get(PrincipalKey) // Get principal from context
	if !exists {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}
