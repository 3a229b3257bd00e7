package api

import (
	"errors"   // Error classification
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"investment_platform/internal/domain"     // Domain models
	"investment_platform/internal/ledger"     // Approval workflow errors
	"investment_platform/internal/middleware" // Context keys

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// title returns the display name of a request kind
func title(kind domain.Kind) string {
	if kind == domain.KindWithdrawal {
		return "Withdrawal"
	}
	return "Deposit"
}

// respondWorkflowError maps an approval workflow error to a JSON response
func respondWorkflowError(c *gin.Context, kind domain.Kind, action string, err error) {
	name := title(kind) // Display name for messages
	switch {
	case errors.Is(err, ledger.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": name + " not found"})
	case errors.Is(err, ledger.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case errors.Is(err, ledger.ErrAlreadyDeclined):
		c.JSON(http.StatusBadRequest, gin.H{"message": name + " is already Declined"})
	case errors.Is(err, ledger.ErrAlreadyApproved):
		c.JSON(http.StatusBadRequest, gin.H{"message": name + " is already Approved"})
	case errors.Is(err, ledger.ErrTerminal):
		c.JSON(http.StatusBadRequest, gin.H{"message": name + " has been Declined and cannot be changed"})
	case errors.Is(err, ledger.ErrStaleStatus):
		c.JSON(http.StatusConflict, gin.H{"message": name + " was modified by another request, reload and retry"})
	default:
		// Unexpected persistence failure, keep the details in the log only
		logrus.WithFields(logrus.Fields{
			"kind":   kind,   // Request kind
			"action": action, // approving or declining
			"path":   c.Request.URL.Path,
			"error":  err.Error(), // Error message
		}).Error("Admin decision failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An error occurred while " + action + " the " + string(kind)})
	}
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, param string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(param), 10, 64) // Parse the identifier
	if err != nil || v == 0 {
		return 0, false // Missing or malformed identifier
	}
	return uint(v), true
}

// pageParams reads page and page_size query parameters with the usual limits
func pageParams(c *gin.Context) (page, pageSize int) {
	page = 1      // Default page number
	pageSize = 20 // Default page size
	if p := c.Query("page"); p != "" {
		// If valid, set page number
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	// Check and set page size within limits
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}
	return page, pageSize
}

// totalPages computes the number of pages for total rows
func totalPages(total int64, pageSize int) int {
	return (int(total) + pageSize - 1) / pageSize
}

// callerID returns the authenticated user's ID set by the session middleware
func callerID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(middleware.UserIDKey) // Get userID from context
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
