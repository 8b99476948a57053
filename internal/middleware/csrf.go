package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf" // Double-submit CSRF tokens
	"github.com/sirupsen/logrus"
)

// CSRFCookieName is the cookie holding the per-client CSRF secret
const CSRFCookieName = "csrf"

// CSRFHeader is the request header carrying the token
const CSRFHeader = "CSRF-Token"

// csrfHeaderAliases are other headers a client may echo the token in
var csrfHeaderAliases = []string{"X-CSRF-Token", "XSRF-Token", "X-XSRF-Token"}

type ginContextKey struct{}

// CSRF guards state-changing requests: the browser sends the secret cookie
// automatically, script must add the token from GET /api/csrf as a header.
// Each request gets a freshly masked token and every one of them verifies.
type CSRF struct {
	handler http.Handler
}

// NewCSRF returns a guard signing its cookie with key. Requests whose Origin
// (or Referer) is neither the API itself nor one of trustedOrigins (host[:port])
// are rejected.
func NewCSRF(key []byte, trustedOrigins ...string) *CSRF {
	protect := csrf.Protect(key,
		csrf.CookieName(CSRFCookieName),
		csrf.RequestHeader(CSRFHeader),
		csrf.Path("/"),
		csrf.MaxAge(0), // Session cookie
		csrf.Secure(true),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.TrustedOrigins(trustedOrigins),
		csrf.ErrorHandler(http.HandlerFunc(rejectCSRF)),
	)
	return &CSRF{handler: protect(http.HandlerFunc(continueChain))}
}

func ginContext(r *http.Request) *gin.Context {
	c, _ := r.Context().Value(ginContextKey{}).(*gin.Context)
	return c
}

// continueChain runs the rest of the gin handlers once the token checked out
func continueChain(_ http.ResponseWriter, r *http.Request) {
	c := ginContext(r)
	c.Request = r
	c.Next()
}

func rejectCSRF(_ http.ResponseWriter, r *http.Request) {
	c := ginContext(r)
	logrus.WithFields(logrus.Fields{
		"security": true,
		"event":    "CSRF_REJECTED",
		"reason":   csrf.FailureReason(r).Error(),
		"method":   r.Method,
		"path":     r.URL.Path,
		"ip":       c.ClientIP(),
	}).Warn("Security event")
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid CSRF token"})
}

// Middleware rejects state-changing requests whose header token does not
// match the secret cookie. Safe methods pass through and get a token.
func (g *CSRF) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(CSRFHeader) == "" {
			for _, h := range csrfHeaderAliases {
				if v := c.GetHeader(h); v != "" {
					c.Request.Header.Set(CSRFHeader, v)
					break
				}
			}
		}
		req := c.Request.WithContext(context.WithValue(c.Request.Context(), ginContextKey{}, c))
		// On success the guard runs the rest of the chain itself
		g.handler.ServeHTTP(c.Writer, req)
	}
}

// CSRFToken returns the token for the current request. It is empty unless the
// request went through CSRF.Middleware.
func CSRFToken(c *gin.Context) string {
	return csrf.Token(c.Request)
}
