package api

import (
	"errors"
	"net/http"
	"securepay/internal/middleware"
	"securepay/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// bindAndCheck decodes the JSON body into in, sanitizes and validates it.
// On failure it writes the error response and returns false.
func bindAndCheck(c *gin.Context, in validation.Input) bool {
	if err := c.ShouldBindJSON(in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}

	err := validation.Check(in)
	if err == nil {
		return true
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": verrs})
		return false
	}
	internalError(c, "Validation failed", err)
	return false
}

// internalError logs err and answers with a generic 500
func internalError(c *gin.Context, message string, err error) {
	logrus.WithFields(logrus.Fields{
		"path":       c.Request.URL.Path,
		"request_id": c.GetString(middleware.ContextRequestID),
		"error":      err.Error(),
	}).Error(message)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

// logSecurityEvent writes an audit line for authentication and payment events
func logSecurityEvent(c *gin.Context, event string, fields logrus.Fields) {
	fields["security"] = true
	fields["event"] = event
	fields["ip"] = c.ClientIP()
	fields["request_id"] = c.GetString(middleware.ContextRequestID)
	logrus.WithFields(fields).Info("Security event")
}
