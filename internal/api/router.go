package api

import (
	"fmt"
	"net/http"
	"securepay/internal/config"
	"securepay/internal/middleware"
	"securepay/internal/utils"
	"time"

	"github.com/gin-contrib/cors" // CORS for the portal frontend
	"github.com/gin-contrib/gzip" // Response compression
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3" // Rate limiting
)

// Deps are the collaborators the routes are wired to
type Deps struct {
	Config   *config.Config
	Users    UserRepository
	Payments PaymentRepository
	Hasher   *utils.Hasher
	Sessions *utils.SessionIssuer
	CSRF     *middleware.CSRF
	Limiter  limiter.Store // Rate limit counters
	Cache    *utils.Cache  // May be nil
}

// NewRouter builds the HTTP routes
func NewRouter(d Deps) (*gin.Engine, error) {
	cfg := d.Config
	r := gin.New()

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.SecurityHeaders(),
		gzip.Gzip(gzip.DefaultCompression),
	)
	if cfg.FrontendURL != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins: []string{cfg.FrontendURL},
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{
				"Content-Type", middleware.CSRFHeader, "X-CSRF-Token", "XSRF-Token", "X-XSRF-Token",
				middleware.RequestIDHeader,
			},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api",
		middleware.RateLimitMiddleware(d.Limiter, cfg.RateLimit, cfg.RateWindow),
		middleware.BodyLimit(middleware.MaxBodyBytes),
	)

	// Logout only clears a cookie; it needs neither a session nor a CSRF token
	apiGroup.POST("/logout", LogoutHandler())

	// Every other route sits behind the CSRF guard, which lets safe methods through
	guarded := apiGroup.Group("", d.CSRF.Middleware())
	guarded.GET("/csrf", CSRFHandler())
	guarded.POST("/register", RegisterHandler(d.Users, d.Hasher))
	guarded.POST("/login", LoginHandler(d.Users, d.Hasher, d.Sessions))

	// Payment routes (protected by the session cookie)
	paymentGroup := guarded.Group("/payments", middleware.JWTAuthMiddleware(d.Sessions))
	paymentGroup.POST("", CreatePaymentHandler(d.Payments, d.Cache))
	paymentGroup.GET("", ListPaymentsHandler(d.Payments, d.Cache))

	return r, nil
}
