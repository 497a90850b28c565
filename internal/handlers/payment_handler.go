package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"internship-platform/internal/auth"
	"internship-platform/internal/services"
)

type PaymentHandler struct {
	orderService   *services.OrderService
	paymentService *services.PaymentService
}

func NewPaymentHandler(orderService *services.OrderService, paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		orderService:   orderService,
		paymentService: paymentService,
	}
}

// CreateOrder creates a pending enrollment order for the calling student
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	studentID, exists := auth.GetUserID(c)
	if !exists {
		unauthorized(c)
		return
	}

	var req struct {
		ProgramID    uint   `json:"programId"`
		ReferralCode string `json:"referralCode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ProgramID == 0 {
		badRequest(c, "programId is required")
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), studentID, req.ProgramID, req.ReferralCode)
	if err != nil {
		respondError(c, err)
		return
	}

	programTitle := ""
	if order.Program != nil {
		programTitle = order.Program.Title
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"order": gin.H{
				"id":             order.ID,
				"orderNumber":    order.OrderNumber,
				"programTitle":   programTitle,
				"amount":         order.Amount,
				"discountAmount": order.DiscountAmount,
				"finalAmount":    order.FinalAmount,
				"status":         order.Status,
				"createdAt":      order.CreatedAt,
			},
		},
	})
}

// VerifyPayment settles an order after the gateway confirms payment.
// orderId in the body is the order number, not the primary key.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	studentID, exists := auth.GetUserID(c)
	if !exists {
		unauthorized(c)
		return
	}

	var req struct {
		OrderID   string `json:"orderId"`
		PaymentID string `json:"paymentId"`
		Signature string `json:"signature"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" || req.PaymentID == "" {
		badRequest(c, "orderId and paymentId are required")
		return
	}

	order, err := h.paymentService.VerifyPayment(c.Request.Context(), studentID, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment verified successfully",
		"data": gin.H{
			"orderId": order.OrderNumber,
			"status":  order.Status,
		},
	})
}

// GetMyOrders returns the calling student's orders
func (h *PaymentHandler) GetMyOrders(c *gin.Context) {
	studentID, exists := auth.GetUserID(c)
	if !exists {
		unauthorized(c)
		return
	}

	orders, err := h.orderService.GetStudentOrders(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"count":   len(orders),
	})
}
