package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"internship-platform/internal/services"
)

// respondError maps service errors to the response envelope. Not-found
// errors return 404, conflicts and validation failures 400, everything
// else 500 with a generic message; stack traces never reach the caller.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProgramNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrReferralNotFound),
		errors.Is(err, services.ErrAffiliateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, services.ErrDuplicateOrder),
		errors.Is(err, services.ErrReferralExists),
		errors.Is(err, services.ErrAffiliateExists),
		errors.Is(err, services.ErrInvalidSignature):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	default:
		log.Printf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
}
