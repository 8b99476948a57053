package api

import (
	"context"                       // Repository calls
	"errors"                        // Sentinel error matching
	"net/http"                      // HTTP status codes
	"securepay/internal/domain"     // Importing domain models
	"securepay/internal/middleware" // Session cookies
	"securepay/internal/store"      // Store sentinel errors
	"securepay/internal/utils"      // Hashing and session tokens
	"securepay/internal/validation" // Request sanitizing and validation
	"time"

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// UserRepository is the part of the store the auth handlers need
type UserRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, u *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// CSRFHandler returns the CSRF token for the client. The guard in front of
// it sets the secret cookie when the client has none.
func CSRFHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := middleware.CSRFToken(c)
		if token == "" {
			internalError(c, "Failed to issue CSRF token", errors.New("CSRF guard not installed"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"csrf": token})
	}
}

// RegisterHandler creates a user account
func RegisterHandler(users UserRepository, hasher *utils.Hasher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validation.RegisterInput
		if !bindAndCheck(c, &req) {
			return
		}
		ctx := c.Request.Context()

		// Check uniqueness before paying for a hash
		exists, err := users.EmailExists(ctx, req.Email)
		if err != nil {
			internalError(c, "Registration failed", err)
			return
		}
		if exists {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}

		hash, err := hasher.Hash(req.Password)
		if err != nil {
			internalError(c, "Registration failed", err)
			return
		}
		user := domain.User{Email: req.Email, FullName: req.FullName, PasswordHash: hash}
		if err := users.CreateUser(ctx, &user); err != nil {
			if errors.Is(err, store.ErrEmailTaken) {
				// Lost a race with a concurrent registration
				c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
				return
			}
			internalError(c, "Registration failed", err)
			return
		}

		logSecurityEvent(c, "USER_REGISTRATION", logrus.Fields{
			"email":   user.Email,
			"user_id": user.ID,
			"success": true,
		})
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	}
}

// invalidCredentials is the single response for every failed login
func invalidCredentials(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials", "details": []validation.FieldError{}})
}

// LoginHandler authenticates a user and sets the session cookie
func LoginHandler(users UserRepository, hasher *utils.Hasher, sessions *utils.SessionIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req validation.LoginInput
		if !bindAndCheck(c, &req) {
			return
		}

		user, err := users.FindUserByEmail(c.Request.Context(), req.Email)
		if errors.Is(err, store.ErrUserNotFound) {
			logSecurityEvent(c, "LOGIN_ATTEMPT", logrus.Fields{
				"email":   req.Email,
				"success": false,
				"reason":  "user_not_found",
			})
			invalidCredentials(c)
			return
		}
		if err != nil {
			internalError(c, "Login failed", err)
			return
		}

		// Compare provided password with stored hash
		if !hasher.Verify(req.Password, user.PasswordHash) {
			logSecurityEvent(c, "LOGIN_ATTEMPT", logrus.Fields{
				"email":   req.Email,
				"success": false,
				"reason":  "invalid_password",
			})
			invalidCredentials(c)
			return
		}

		token, err := sessions.Issue(user.ID, user.Email)
		if err != nil {
			internalError(c, "Login failed", err)
			return
		}
		middleware.SetSessionCookie(c, token, int(sessions.TTL()/time.Second))

		logSecurityEvent(c, "LOGIN_ATTEMPT", logrus.Fields{
			"email":   user.Email,
			"user_id": user.ID,
			"success": true,
		})
		c.JSON(http.StatusOK, gin.H{"user": UserResponse{ID: user.ID, Email: user.Email, FullName: user.FullName}})
	}
}

// LogoutHandler clears the session cookie. It always succeeds.
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.ClearSessionCookie(c)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
