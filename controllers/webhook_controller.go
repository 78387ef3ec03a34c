package controllers

import (
	"strings"

	"donation-portal/config"
	"donation-portal/models"
	"donation-portal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	welcomeText = "Welcome! 🙏 To get your donation receipt, reply with your " +
		`Transaction ID in this format: "Transaction ID: your-transaction-id". ` +
		"Reply 'help' for assistance."
	helpText = "To receive your donation receipt, send a message like " +
		`"Transaction ID: ff2a24f9-2c3f-47ed-bb3e-4c9ebbf865ba". ` +
		"You can find the Transaction ID on your payment confirmation screen."
	fallbackText = "Sorry, I did not understand that. Reply 'hi' to get started " +
		"or 'help' for instructions."
)

type inboundMessage struct {
	From    string `json:"From"`
	Body    string `json:"Body"`
	AltFrom string `json:"from"`
	Message string `json:"message"`
}

// InboundWhatsApp receives user-initiated WhatsApp messages relayed by the
// messaging provider, either as a form post (live webhook) or JSON (test
// payloads). Classification decides the response; the replies themselves are
// fire-and-forget, so a provider outage never fails the webhook.
//
// POST /whatsapp/inbound
func InboundWhatsApp(c *gin.Context) {
	utils.LogInfo("InboundWhatsApp called")

	from, body := parseInbound(c)
	if from == "" || body == "" {
		utils.LogError("Inbound message missing From or Body")
		utils.BadRequest(c, "Missing from or message", nil)
		return
	}
	utils.LogDebug("Inbound message from %s: %q", from, body)

	keyword := strings.ToLower(strings.TrimSpace(body))
	switch keyword {
	case "hi", "hello", "start":
		notifyAsync(from, welcomeText)
		c.JSON(200, gin.H{"success": true, "message": "Welcome message sent"})
		return
	}

	if transactionID := extractTransactionID(body); transactionID != "" {
		dispatchReceipt(c, from, transactionID)
		return
	}

	if keyword == "help" {
		notifyAsync(from, helpText)
		c.JSON(200, gin.H{"success": true, "message": "Help message sent"})
		return
	}

	notifyAsync(from, fallbackText)
	c.JSON(200, gin.H{"success": true, "message": "Fallback message sent"})
}

func parseInbound(c *gin.Context) (from, body string) {
	if strings.Contains(c.ContentType(), "application/json") {
		var msg inboundMessage
		if err := c.ShouldBindJSON(&msg); err != nil {
			return "", ""
		}
		from, body = msg.From, msg.Body
		if from == "" {
			from = msg.AltFrom
		}
		if body == "" {
			body = msg.Message
		}
		return from, body
	}
	return c.PostForm("From"), c.PostForm("Body")
}

// extractTransactionID recognizes either a labeled "Transaction ID: <value>"
// line or a bare UUID-shaped token.
func extractTransactionID(message string) string {
	if id := utils.ExtractLabeledTransactionID(message); id != "" {
		return id
	}
	token := strings.TrimSpace(message)
	if _, err := uuid.Parse(token); err == nil {
		return token
	}
	return ""
}

func dispatchReceipt(c *gin.Context, from, transactionID string) {
	var payment models.Payment
	if err := config.DB.Where("transaction_id = ? AND done = ?", transactionID, true).First(&payment).Error; err != nil {
		utils.LogError("Payment not found or not completed: %s", transactionID)
		notifyAsync(from, "Payment not found or not completed. Please check your Transaction ID.")
		utils.NotFound(c, "Payment not found")
		return
	}
	respondWithDelivery(c, &payment, from)
}
