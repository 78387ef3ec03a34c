package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"donation-portal/config"
	"donation-portal/models"
	"donation-portal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDonationFlow walks the whole pipeline: order creation, gateway
// callback verification, receipt rendering and delivery, and finally
// fetching the stored PDF through the file server.
func TestDonationFlow(t *testing.T) {
	_, msgr, router := setupTest(t)

	// Create the order.
	w := postJSON(t, router, "/orders", map[string]interface{}{
		"name":          "A",
		"contactNo":     "+919999999999",
		"amount":        100,
		"transactionId": "t1",
		"to_user":       "u",
	})
	require.Equal(t, http.StatusOK, w.Code)
	orderID := decodeBody(t, w)["orderId"].(string)
	require.Equal(t, "order_1", orderID)

	// Verify with a valid gateway signature.
	w = postJSON(t, router, "/verify-payment", map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  utils.RazorpaySignature(orderID, "pay_1", "test-secret"),
		"transactionId":       "t1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])

	var payment models.Payment
	require.NoError(t, config.DB.Where("oid = ?", orderID).First(&payment).Error)
	assert.True(t, payment.Done)
	assert.Equal(t, "pay_1", payment.RazorpayPaymentID)

	// The receipt went out as a media attachment pointing at the file server.
	require.Equal(t, 1, msgr.mediaCount())
	mediaURL := msgr.lastMedia().MediaURL
	idx := strings.LastIndex(mediaURL, "/")
	require.True(t, idx >= 0)
	fileName := mediaURL[idx+1:]
	require.True(t, strings.HasPrefix(fileName, "receipt-t1-"))
	require.True(t, strings.HasSuffix(fileName, ".pdf"))

	// Fetch the stored PDF the way the messaging provider would.
	req := httptest.NewRequest(http.MethodGet, "/receipts/"+fileName, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	pdf := rec.Body.String()
	assert.True(t, strings.HasPrefix(pdf, "%PDF"))
	assert.Contains(t, pdf, "t1")
	assert.Contains(t, pdf, "100")
}
