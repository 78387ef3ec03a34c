package controllers

import (
	"net/http"
	"testing"
	"time"

	"donation-portal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedPayment() models.Payment {
	updatedAt := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	return models.Payment{
		Name:              "A",
		ContactNo:         "+919999999999",
		Amount:            100,
		TransactionID:     "t1",
		OrderID:           "order_1",
		ToUser:            "u",
		Done:              true,
		UpiID:             "donor@upi",
		RazorpayPaymentID: "pay_1",
		UpdatedAt:         &updatedAt,
	}
}

func TestRenderReceiptPDFDeterministic(t *testing.T) {
	setupTest(t)
	payment := completedPayment()

	first, err := renderReceiptPDF(&payment)
	require.NoError(t, err)
	second, err := renderReceiptPDF(&payment)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, len(first) > 0)
	assert.Equal(t, "%PDF", string(first[:4]))
	assert.Contains(t, string(first), "t1")
	assert.Contains(t, string(first), "100")
	assert.Contains(t, string(first), "donor@upi")
	assert.Contains(t, string(first), "pay_1")
}

func TestRenderReceiptPDFMissingFields(t *testing.T) {
	setupTest(t)
	payment := models.Payment{Name: "A", Amount: 50, TransactionID: "t2", Done: true}

	pdf, err := renderReceiptPDF(&payment)
	require.NoError(t, err)
	assert.Contains(t, string(pdf), "Not available")
}

func TestSendReceiptManualRequest(t *testing.T) {
	_, msgr, router := setupTest(t)
	seedPayment(t, completedPayment())

	w := postJSON(t, router, "/receipts/send", map[string]interface{}{
		"From": "whatsapp:+919999999999",
		"Body": "Transaction ID: t1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body["pdfUrl"], "/receipts/receipt-t1-")

	require.Equal(t, 1, msgr.mediaCount())
	assert.Equal(t, "whatsapp:+919999999999", msgr.lastMedia().To)
}

func TestSendReceiptUnknownTransaction(t *testing.T) {
	_, msgr, router := setupTest(t)

	w := postJSON(t, router, "/receipts/send", map[string]interface{}{
		"From": "whatsapp:+919999999999",
		"Body": "Transaction ID: missing",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Eventually(t, func() bool { return msgr.textCount() == 1 }, time.Second, 10*time.Millisecond)
	assert.Contains(t, msgr.lastText().Body, "not found")
}

func TestSendReceiptPendingPaymentNotServed(t *testing.T) {
	_, _, router := setupTest(t)
	payment := completedPayment()
	payment.Done = false
	seedPayment(t, payment)

	w := postJSON(t, router, "/receipts/send", map[string]interface{}{
		"From": "whatsapp:+919999999999",
		"Body": "Transaction ID: t1",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendReceiptUnlabeledBody(t *testing.T) {
	_, msgr, router := setupTest(t)

	w := postJSON(t, router, "/receipts/send", map[string]interface{}{
		"From": "whatsapp:+919999999999",
		"Body": "where is my receipt",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.Eventually(t, func() bool { return msgr.textCount() == 1 }, time.Second, 10*time.Millisecond)
	assert.Contains(t, msgr.lastText().Body, "Transaction ID")
}

func TestSendReceiptInlineSnapshot(t *testing.T) {
	_, msgr, router := setupTest(t)

	w := postJSON(t, router, "/receipts/send", map[string]interface{}{
		"paymentData": map[string]interface{}{
			"name":              "A",
			"amount":            100,
			"contactNo":         "+919999999999",
			"transactionId":     "t1",
			"razorpayPaymentId": "pay_1",
			"upiId":             "donor@upi",
			"to_user":           "u",
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, msgr.mediaCount())
	assert.Equal(t, "whatsapp:+919999999999", msgr.lastMedia().To)
}

func TestSendReceiptDeliveryFailureStillReturnsURL(t *testing.T) {
	_, msgr, router := setupTest(t)
	msgr.failMedia = true
	seedPayment(t, completedPayment())

	w := postJSON(t, router, "/receipts/send", map[string]interface{}{
		"From": "whatsapp:+919999999999",
		"Body": "Transaction ID: t1",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["pdfUrl"], "/receipts/receipt-t1-")
}
