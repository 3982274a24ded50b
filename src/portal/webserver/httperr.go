package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civic-stack/grievance-portal/src/portal/perr"
)

func writeError(c *gin.Context, err error) {
	switch {
	case perr.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
	case perr.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"err": err.Error()})
	case perr.IsAuthorization(err):
		c.JSON(http.StatusForbidden, gin.H{"err": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
	}
}
