package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"donation-portal/config"
	"donation-portal/models"
	"donation-portal/utils"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

const receiptCaption = "Thank you for your donation! Here is your receipt."

type receiptPayload struct {
	Name              string  `json:"name"`
	Amount            float64 `json:"amount"`
	ContactNo         string  `json:"contactNo"`
	Email             string  `json:"email"`
	UpiID             string  `json:"upiId"`
	TransactionID     string  `json:"transactionId"`
	RazorpayPaymentID string  `json:"razorpayPaymentId"`
	ToUser            string  `json:"to_user"`
	UpdatedAt         string  `json:"updatedAt"`
}

type sendReceiptRequest struct {
	From        string          `json:"From"`
	Body        string          `json:"Body"`
	PaymentData *receiptPayload `json:"paymentData"`
}

// SendReceipt handles a receipt (re-)request: either a full payment snapshot
// under paymentData, or a {From, Body} pair whose Body carries a
// "Transaction ID: <id>" line for a completed payment.
//
// POST /receipts/send
func SendReceipt(c *gin.Context) {
	utils.LogInfo("SendReceipt called")

	var req sendReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid receipt request: %v", err)
		utils.BadRequest(c, "Missing required fields", err.Error())
		return
	}

	if req.PaymentData != nil {
		payment := paymentFromPayload(req.PaymentData)
		to := req.From
		if to == "" {
			to = "whatsapp:" + payment.ContactNo
		}
		respondWithDelivery(c, payment, to)
		return
	}

	if req.From == "" || req.Body == "" {
		utils.BadRequest(c, "Missing required fields", nil)
		return
	}

	transactionID := utils.ExtractLabeledTransactionID(req.Body)
	if transactionID == "" {
		notifyAsync(req.From, `Please send your message in this format: "Transaction ID: your-transaction-id"`)
		utils.BadRequest(c, "Invalid message format", nil)
		return
	}

	var payment models.Payment
	if err := config.DB.Where("transaction_id = ? AND done = ?", transactionID, true).First(&payment).Error; err != nil {
		utils.LogError("Payment not found or not completed: %s", transactionID)
		notifyAsync(req.From, "Payment not found or not completed. Please check your Transaction ID.")
		utils.NotFound(c, "Payment not found")
		return
	}

	respondWithDelivery(c, &payment, req.From)
}

func respondWithDelivery(c *gin.Context, payment *models.Payment, to string) {
	pdfURL, err := deliverReceipt(payment, to)
	if err != nil {
		body := gin.H{
			"success": false,
			"message": "Receipt delivery failed",
			"error":   err.Error(),
		}
		// Return the link even on failure so the caller can retry or a
		// human can recover it manually.
		if pdfURL != "" {
			body["pdfUrl"] = pdfURL
		}
		c.JSON(http.StatusInternalServerError, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Receipt sent",
		"pdfUrl":  pdfURL,
	})
}

// deliverReceipt renders the PDF, stores it under the receipts directory,
// and sends it to the donor as a WhatsApp media attachment. The disk write
// is best-effort; a failed write is logged and delivery proceeds. A rejected
// media send falls back to a plain-text receipt before the error is
// reported, together with the constructed URL.
func deliverReceipt(payment *models.Payment, to string) (string, error) {
	pdf, err := renderReceiptPDF(payment)
	if err != nil {
		utils.LogError("Failed to render receipt for transaction %s: %v", payment.TransactionID, err)
		notifyAsync(to, "Failed to generate receipt due to a server issue. Please contact support.")
		return "", fmt.Errorf("failed to render receipt: %v", err)
	}

	fileName := fmt.Sprintf("receipt-%s-%d.pdf", payment.TransactionID, time.Now().Unix())
	dir := config.App.ReceiptsDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		utils.LogError("Failed to create receipts directory %s: %v", dir, err)
	} else if err := os.WriteFile(filepath.Join(dir, fileName), pdf, 0644); err != nil {
		utils.LogError("Failed to write receipt file %s: %v", fileName, err)
	}

	pdfURL := strings.TrimRight(config.App.PublicBaseURL, "/") + "/receipts/" + fileName

	if messenger == nil {
		return pdfURL, fmt.Errorf("messaging provider not configured")
	}
	if err := messenger.SendMedia(to, receiptCaption, pdfURL); err != nil {
		utils.LogError("Media send to %s failed: %v", to, err)
		if terr := messenger.SendText(to, receiptText(payment)); terr != nil {
			utils.LogError("Text fallback to %s failed: %v", to, terr)
		}
		return pdfURL, fmt.Errorf("failed to send receipt: %v", err)
	}
	utils.LogInfo("Receipt delivered to %s for transaction %s", to, payment.TransactionID)

	if payment.Email != "" {
		email, name := payment.Email, payment.Name
		go func() {
			if err := utils.SendReceiptEmail(email, name, fileName, pdf); err != nil {
				utils.LogError("Email receipt copy to %s failed: %v", email, err)
			}
		}()
	}

	return pdfURL, nil
}

// renderReceiptPDF produces the single-page receipt. Output is deterministic
// for a given payment record: the document creation date comes from the
// record, not the clock, and compression is off so the text is inspectable.
func renderReceiptPDF(payment *models.Payment) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetCatalogSort(true)
	if payment.UpdatedAt != nil {
		pdf.SetCreationDate(*payment.UpdatedAt)
	}
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, "Donation Payment Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, "Name: "+orNotAvailable(payment.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Amount: Rs. "+formatAmount(payment.Amount), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Message: Payment successful", "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, "UPI ID: "+orNotAvailable(payment.UpiID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Transaction ID: "+orNotAvailable(payment.TransactionID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Razorpay Payment ID: "+orNotAvailable(payment.RazorpayPaymentID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Date: "+formatUpdatedAt(payment.UpdatedAt), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Recipient: "+orNotAvailable(payment.ToUser), "", 1, "L", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 12)
	pdf.CellFormat(0, 10, "Thank you for your generous donation!", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// receiptText is the plain-text rendition used when media delivery is not
// possible.
func receiptText(payment *models.Payment) string {
	var b strings.Builder
	b.WriteString("🙏 *Donation Payment Receipt* 🙏\n\n")
	b.WriteString("✅ *Payment Successful!*\n\n")
	fmt.Fprintf(&b, "👤 *Name:* %s\n", payment.Name)
	fmt.Fprintf(&b, "💰 *Amount:* ₹%s\n", formatAmount(payment.Amount))
	fmt.Fprintf(&b, "🆔 *Transaction ID:* %s\n", payment.TransactionID)
	fmt.Fprintf(&b, "💳 *Payment ID:* %s\n", payment.RazorpayPaymentID)
	if payment.UpiID != "" {
		fmt.Fprintf(&b, "🏦 *UPI ID:* %s\n", payment.UpiID)
	}
	fmt.Fprintf(&b, "📅 *Date:* %s\n\n", formatUpdatedAt(payment.UpdatedAt))
	b.WriteString("Thank you for your donation! 🙏")
	return b.String()
}

func paymentFromPayload(p *receiptPayload) *models.Payment {
	payment := &models.Payment{
		Name:              p.Name,
		ContactNo:         p.ContactNo,
		Email:             p.Email,
		Amount:            p.Amount,
		TransactionID:     p.TransactionID,
		UpiID:             p.UpiID,
		RazorpayPaymentID: p.RazorpayPaymentID,
		ToUser:            p.ToUser,
		Done:              true,
	}
	if p.UpdatedAt != "" {
		if t, err := time.Parse(time.RFC3339, p.UpdatedAt); err == nil {
			payment.UpdatedAt = &t
		}
	}
	return payment
}

// formatAmount keeps the stored precision; no rounding is imposed on render.
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func formatUpdatedAt(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format("02 Jan 2006, 3:04 PM")
}

func orNotAvailable(s string) string {
	if s == "" {
		return "Not available"
	}
	return s
}
