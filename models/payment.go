package models

import (
	"time"
)

// Payment tracks a single donation attempt from order creation through
// verified completion. oid is the gateway-side order id and is unique;
// done flips to true exactly once, during verification.
type Payment struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	Name              string     `json:"name" gorm:"not null"`
	ContactNo         string     `json:"contactNo" gorm:"not null"`
	Email             string     `json:"email,omitempty"`
	Amount            float64    `json:"amount" gorm:"not null"`
	TransactionID     string     `json:"transactionId" gorm:"not null;index"`
	OrderID           string     `json:"oid" gorm:"column:oid;uniqueIndex;not null"`
	ToUser            string     `json:"to_user"`
	Done              bool       `json:"done" gorm:"default:false"`
	UpiID             string     `json:"upiId,omitempty"`
	RazorpayPaymentID string     `json:"razorpayPaymentId,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty" gorm:"autoUpdateTime:false"`
}
