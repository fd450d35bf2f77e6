package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health answers the liveness probe on GET /.
func Health(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "active", "service": serviceName})
	}
}
