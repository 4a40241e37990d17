// Package api provides the catalog HTTP API.
//
// Error Handling:
// Handlers report failures through ErrorSanitizer.SanitizedErrorResponse so that
// every error is logged with a correlation id and rendered in the
// {success:false, message} envelope. Server faults never leak their cause
// outside development.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SuccessResponse returns a standardized success response.
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// ListResponse returns a success response carrying a collection and its size.
func ListResponse[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
		"count":   len(items),
	})
}

// CreatedResponse returns a standardized created response.
func CreatedResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// FailureResponse writes the {success:false, message} envelope and stops the chain.
func FailureResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}
