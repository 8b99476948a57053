package middleware

import (
	"net/http"                 // HTTP status codes
	"securepay/internal/utils" // Session tokens

	"github.com/gin-gonic/gin" // Gin web framework
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "session"

// Context keys set by JWTAuthMiddleware
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
)

// JWTAuthMiddleware validates the session cookie and extracts user information
func JWTAuthMiddleware(sessions *utils.SessionIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(SessionCookieName)
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
			return
		}
		sess, err := sessions.Verify(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}
		c.Set(ContextUserID, sess.UserID) // Store userID in context
		c.Set(ContextEmail, sess.Email)
		c.Next()
	}
}

// UserID returns the authenticated user's id set by JWTAuthMiddleware
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// SetSessionCookie stores token in an HttpOnly, Secure, SameSite=Strict cookie
func SetSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, token, maxAge, "/", "", true, true)
}

// ClearSessionCookie expires the session cookie in the browser
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", true, true)
}
