package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// RazorpaySignature computes the gateway's callback signature: hex-encoded
// HMAC-SHA256 over "order_id|payment_id" keyed with the key secret.
func RazorpaySignature(orderID, paymentID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyRazorpaySignature checks a callback signature in constant time.
func VerifyRazorpaySignature(orderID, paymentID, signature, secret string) bool {
	expected := RazorpaySignature(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
