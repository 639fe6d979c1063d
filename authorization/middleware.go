package authorization

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const emailKey = "decodedEmail"

// RoleChecker decides whether the caller may use admin routes.
type RoleChecker interface {
	Authorize(ctx context.Context, email string) error
}

// ErrForbidden is what a RoleChecker returns to deny access.
var ErrForbidden = errors.New("forbidden")

/*
* Read the bearer credential and stop the chain with 401 or 403
* On success the email claim is stored on the context
 */
func JWTAuth(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := tokens.Verify(c.GetHeader("Authorization"))
		if err != nil {
			if errors.Is(err, ErrMissingToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "UnAuthorized Access"})
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden Access"})
			return
		}
		c.Set(emailKey, claims.Email)
		c.Next()
	}
}

/*
* Must run after JWTAuth
* Look up the caller through the checker and stop with 403 unless admin
 */
func RequireAdmin(checker RoleChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := Email(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "UnAuthorized Access"})
			return
		}
		if err := checker.Authorize(c.Request.Context(), email); err != nil {
			if errors.Is(err, ErrForbidden) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden"})
				return
			}
			log.Println("Error while checking admin role:", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}
		c.Next()
	}
}

// Email returns the verified email claim set by JWTAuth.
func Email(c *gin.Context) (string, bool) {
	v, ok := c.Get(emailKey)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok && email != ""
}
