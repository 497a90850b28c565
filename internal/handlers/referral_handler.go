package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"internship-platform/internal/auth"
	"internship-platform/internal/services"
)

type ReferralHandler struct {
	referralService *services.ReferralService
}

func NewReferralHandler(referralService *services.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralService: referralService}
}

// GenerateReferral issues a referral invite for an email address
func (h *ReferralHandler) GenerateReferral(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthorized(c)
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		badRequest(c, "email is required")
		return
	}

	referral, err := h.referralService.GenerateReferral(c.Request.Context(), userID, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"referralCode": referral.ReferralCode,
			"expiresAt":    referral.ExpiresAt,
		},
	})
}

// ValidateReferral checks whether a referral code is still redeemable.
// Public endpoint; no mutation happens here.
func (h *ReferralHandler) ValidateReferral(c *gin.Context) {
	var req struct {
		ReferralCode string `json:"referralCode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ReferralCode == "" {
		badRequest(c, "referralCode is required")
		return
	}

	referral, err := h.referralService.ValidateReferral(c.Request.Context(), req.ReferralCode)
	if err != nil {
		respondError(c, err)
		return
	}

	referrerName := ""
	if referral.Referrer != nil {
		referrerName = referral.Referrer.Name
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"referralCode":   referral.ReferralCode,
			"discountAmount": referral.DiscountAmount,
			"referrerName":   referrerName,
			"expiresAt":      referral.ExpiresAt,
		},
	})
}

// GetMyReferrals returns all referrals issued by the caller
func (h *ReferralHandler) GetMyReferrals(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		unauthorized(c)
		return
	}

	referrals, err := h.referralService.GetUserReferrals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    referrals,
		"count":   len(referrals),
	})
}
