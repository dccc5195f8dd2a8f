package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/transitlabs/metrodocs/internal/api/middleware"
)

// internalError logs the cause with request context and answers with the
// generic 500 body. Clients never see internal failure details.
func internalError(c *gin.Context, err error, op string) {
	middleware.GetRequestLogger(c).WithError(err).Error(op + " failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
