package utils

import (
	"crypto/rand"  // Unpredictable identifiers
	"encoding/hex" // Hex encoding
	"securepay/internal/domain"
)

// NewPaymentID returns pm_ followed by 16 random hex characters
func NewPaymentID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return domain.PaymentIDPrefix + hex.EncodeToString(b), nil
}
