package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"internship-platform/internal/auth"
	"internship-platform/internal/services"
)

type AffiliateHandler struct {
	affiliateService *services.AffiliateService
}

func NewAffiliateHandler(affiliateService *services.AffiliateService) *AffiliateHandler {
	return &AffiliateHandler{affiliateService: affiliateService}
}

// Apply creates an affiliate account for the caller
func (h *AffiliateHandler) Apply(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthorized(c)
		return
	}

	affiliate, err := h.affiliateService.Apply(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"affiliateCode":  affiliate.AffiliateCode,
			"commissionRate": affiliate.CommissionRate,
		},
	})
}

// GetMyAffiliate returns the caller's affiliate account with its earnings
func (h *AffiliateHandler) GetMyAffiliate(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthorized(c)
		return
	}

	affiliate, err := h.affiliateService.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	earnings, err := h.affiliateService.GetEarnings(c.Request.Context(), affiliate.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"affiliate": affiliate,
			"earnings":  earnings,
		},
	})
}
