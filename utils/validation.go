package utils

import (
	"regexp"
	"strings"
)

var (
	contactRegex       = regexp.MustCompile(`^\+?\d{10,15}$`)
	transactionIDLabel = regexp.MustCompile(`(?i)Transaction ID:\s*([^\n\r]+)`)
)

// ValidContactNumber reports whether s looks like a phone number usable as a
// WhatsApp destination: optional leading +, then 10 to 15 digits.
func ValidContactNumber(s string) bool {
	return contactRegex.MatchString(s)
}

// ExtractLabeledTransactionID pulls the value out of a
// "Transaction ID: <value>" line, or returns "" when no label is present.
func ExtractLabeledTransactionID(message string) string {
	m := transactionIDLabel.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
