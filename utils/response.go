package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error sends a standardized error response. The portal's wire contract is a
// flat {success, message} object; detail, when present, rides in "error".
func Error(c *gin.Context, statusCode int, message string, err interface{}) {
	body := gin.H{
		"success": false,
		"message": message,
	}
	if err != nil {
		body["error"] = err
	}
	c.JSON(statusCode, body)
}

// BadRequest sends a 400 Bad Request response
func BadRequest(c *gin.Context, message string, err interface{}) {
	Error(c, http.StatusBadRequest, message, err)
}

// NotFound sends a 404 Not Found response
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message, nil)
}

// InternalServerError sends a 500 Internal Server Error response
func InternalServerError(c *gin.Context, message string, err interface{}) {
	Error(c, http.StatusInternalServerError, message, err)
}

// ConfigurationError reports missing server-side credentials as a 500.
func ConfigurationError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message, nil)
}
