package middleware

import (
	"investment_platform/internal/auth" // Authorization gate

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware lets through only sessions whose user currently holds the admin role
func AdminOnlyMiddleware(a auth.Authorizer) gin.HandlerFunc {
	return gate(auth.AdminAuthorizer{Next: a}, "Forbidden: Only admins can access this endpoint") // Same gate, narrowed to admins
}
