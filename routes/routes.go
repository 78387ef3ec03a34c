package routes

import (
	"donation-portal/controllers"
	"donation-portal/utils"

	"github.com/gin-gonic/gin"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter() *gin.Engine {
	router := gin.New()

	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	router.POST("/orders", controllers.CreateDonationOrder)
	router.POST("/verify-payment", controllers.VerifyPayment)
	router.POST("/receipts/send", controllers.SendReceipt)
	router.GET("/receipts/:filename", controllers.ServeReceipt)
	router.POST("/whatsapp/inbound", controllers.InboundWhatsApp)
	router.GET("/donations/report", controllers.DownloadDonationsReport)

	return router
}
