package middleware

import (
	"net/http"

	"github.com/gin-contrib/secure" // Helmet-style response headers
	"github.com/gin-gonic/gin"
)

// MaxBodyBytes bounds JSON request bodies
const MaxBodyBytes = 20 << 10

// SecurityHeaders sets the hardening headers on every response
func SecurityHeaders() gin.HandlerFunc {
	return secure.New(secure.Config{
		STSSeconds:            15552000, // 180 days
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		ContentSecurityPolicy: "default-src 'self'; frame-ancestors 'none'",
		ReferrerPolicy:        "no-referrer",
		IENoOpen:              true,
	})
}

// BodyLimit caps the request body at n bytes; reads beyond it fail
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
