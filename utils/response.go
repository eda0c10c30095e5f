package utils

import (
	"github.com/gin-gonic/gin"
)

// RespondWithError aborts the request with {"error": message}
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// RespondWithFormError reports a validation failure together with the
// submitted form so the client can redisplay it.
func RespondWithFormError(c *gin.Context, status int, message string, form interface{}) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "form": form})
}
