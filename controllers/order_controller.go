package controllers

import (
	"math"
	"net/http"

	"donation-portal/config"
	"donation-portal/models"
	"donation-portal/utils"

	"github.com/gin-gonic/gin"
)

type createOrderRequest struct {
	Name          string  `json:"name" binding:"required"`
	ContactNo     string  `json:"contactNo" binding:"required"`
	Email         string  `json:"email"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	TransactionID string  `json:"transactionId" binding:"required"`
	ToUser        string  `json:"to_user" binding:"required"`
}

// CreateDonationOrder opens a gateway order for the donation and persists a
// pending payment record. The record is only written after the gateway call
// succeeds, so a gateway failure leaves nothing behind.
//
// POST /orders
func CreateDonationOrder(c *gin.Context) {
	utils.LogInfo("CreateDonationOrder called")

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid order request: %v", err)
		utils.BadRequest(c, "Missing required fields", err.Error())
		return
	}

	if !utils.ValidContactNumber(req.ContactNo) {
		utils.LogError("Invalid contact number on order request: %s", req.ContactNo)
		utils.BadRequest(c, "Invalid contact number", nil)
		return
	}

	if config.App.RazorpayKeyID == "" || config.App.RazorpayKeySecret == "" || gateway == nil {
		utils.LogError("Razorpay credentials missing")
		utils.ConfigurationError(c, "Server configuration error: payment gateway credentials missing")
		return
	}

	// The gateway expects the amount in paise.
	amountPaise := int64(math.Round(req.Amount * 100))
	orderID, err := gateway.CreateOrder(amountPaise, "INR", req.TransactionID)
	if err != nil {
		utils.LogError("Failed to create gateway order for transaction %s: %v", req.TransactionID, err)
		utils.InternalServerError(c, "Failed to create payment order", err.Error())
		return
	}
	utils.LogInfo("Created gateway order %s for transaction %s", orderID, req.TransactionID)

	payment := models.Payment{
		Name:          req.Name,
		ContactNo:     req.ContactNo,
		Email:         req.Email,
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
		OrderID:       orderID,
		ToUser:        req.ToUser,
		Done:          false,
	}
	if err := config.DB.Create(&payment).Error; err != nil {
		utils.LogError("Failed to persist payment record for order %s: %v", orderID, err)
		utils.InternalServerError(c, "Failed to save payment record", err.Error())
		return
	}
	utils.LogInfo("Persisted pending payment record for order %s", orderID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orderId": orderID,
	})
}
