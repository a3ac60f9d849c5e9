package handlers

import (
	"net/http"

	"exam-service/internal/apperr"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error to an HTTP status. time_expired is a 400
// like other invalid submissions; the response body carries the code so the
// bot can tell them apart.
func respondError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case apperr.CodeNotFound:
		status = http.StatusNotFound
	case apperr.CodeInvalidState, apperr.CodeTimeExpired:
		status = http.StatusBadRequest
	case apperr.CodeConflict:
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  string(code),
	})
}

// requireUserID reads the user id the gateway sets after authentication.
func requireUserID(c *gin.Context) (string, bool) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID is required"})
		return "", false
	}
	return userID, true
}
