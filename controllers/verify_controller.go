package controllers

import (
	"net/http"
	"time"

	"donation-portal/config"
	"donation-portal/models"
	"donation-portal/utils"

	"github.com/gin-gonic/gin"
)

type verifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	TransactionID     string `json:"transactionId" binding:"required"`
}

// VerifyPayment handles the gateway callback after the donor completes the
// payment popup: it checks the callback signature, marks the payment record
// done, and triggers receipt delivery. Receipt delivery is decoupled from
// payment confirmation; its outcome rides in a separate "receipt" sub-status
// and never turns a confirmed payment into a failure.
//
// POST /verify-payment
func VerifyPayment(c *gin.Context) {
	utils.LogInfo("VerifyPayment called")

	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid verification request: %v", err)
		utils.BadRequest(c, "Missing required fields", err.Error())
		return
	}

	var payment models.Payment
	if err := config.DB.Where("oid = ?", req.RazorpayOrderID).First(&payment).Error; err != nil {
		utils.LogError("Order not found: %s", req.RazorpayOrderID)
		utils.NotFound(c, "Order Id not found")
		return
	}

	secret := config.App.RazorpayKeySecret
	if secret == "" {
		utils.LogError("Razorpay secret missing")
		utils.ConfigurationError(c, "Server configuration error: payment gateway secret missing")
		return
	}

	if !utils.VerifyRazorpaySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, secret) {
		utils.LogError("Signature mismatch for order %s", req.RazorpayOrderID)
		utils.BadRequest(c, "Payment Verification Failed", nil)
		return
	}
	utils.LogInfo("Signature verified for order %s", req.RazorpayOrderID)

	// Gateway callbacks are retried; a record that is already done was
	// handled by an earlier callback, so answer success without re-sending
	// the receipt.
	if payment.Done {
		utils.LogInfo("Order %s already verified, treating as no-op", req.RazorpayOrderID)
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"message":     "Payment already verified",
			"paymentData": paymentData(&payment),
		})
		return
	}

	if gateway == nil {
		utils.LogError("Payment gateway client not configured")
		utils.ConfigurationError(c, "Server configuration error: payment gateway credentials missing")
		return
	}

	details, err := gateway.FetchPayment(req.RazorpayPaymentID)
	if err != nil {
		utils.LogError("Failed to fetch payment %s from gateway: %v", req.RazorpayPaymentID, err)
		utils.InternalServerError(c, "Failed to fetch payment details", err.Error())
		return
	}

	upiID := details.Method
	if details.Method == "upi" {
		upiID = details.VPA
		if upiID == "" {
			upiID = "N/A"
		}
	}

	now := time.Now()
	res := config.DB.Model(&models.Payment{}).
		Where("oid = ? AND done = ?", req.RazorpayOrderID, false).
		Updates(map[string]interface{}{
			"done":                true,
			"upi_id":              upiID,
			"transaction_id":      req.TransactionID,
			"razorpay_payment_id": req.RazorpayPaymentID,
			"updated_at":          now,
		})
	if res.Error != nil {
		utils.LogError("Failed to update payment record for order %s: %v", req.RazorpayOrderID, res.Error)
		utils.InternalServerError(c, "Failed to update payment", res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		// A concurrent retry won the conditional update.
		utils.LogInfo("Order %s verified by a concurrent callback", req.RazorpayOrderID)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Payment already verified",
		})
		return
	}
	utils.LogInfo("Payment record marked done for order %s", req.RazorpayOrderID)

	payment.Done = true
	payment.UpiID = upiID
	payment.TransactionID = req.TransactionID
	payment.RazorpayPaymentID = req.RazorpayPaymentID
	payment.UpdatedAt = &now

	receipt := gin.H{"delivered": false}
	pdfURL, err := deliverReceipt(&payment, "whatsapp:"+payment.ContactNo)
	if pdfURL != "" {
		receipt["pdfUrl"] = pdfURL
	}
	if err != nil {
		utils.LogError("Receipt delivery failed for order %s: %v", req.RazorpayOrderID, err)
		receipt["error"] = err.Error()
	} else {
		receipt["delivered"] = true
	}

	message := "Payment verified and receipt sent successfully!"
	if err != nil {
		message = "Payment verified successfully, but receipt delivery failed"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     message,
		"paymentData": paymentData(&payment),
		"receipt":     receipt,
	})
}

func paymentData(p *models.Payment) gin.H {
	updatedAt := "N/A"
	if p.UpdatedAt != nil {
		updatedAt = p.UpdatedAt.Format("02 Jan 2006, 3:04 PM")
	}
	return gin.H{
		"name":              p.Name,
		"amount":            p.Amount,
		"contactNo":         p.ContactNo,
		"transactionId":     p.TransactionID,
		"razorpayPaymentId": p.RazorpayPaymentID,
		"upiId":             p.UpiID,
		"orderId":           p.OrderID,
		"paymentStatus":     "Success",
		"updatedAt":         updatedAt,
		"recipient":         p.ToUser,
	}
}
