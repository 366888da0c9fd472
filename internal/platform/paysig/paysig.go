// Package paysig signs and verifies checkout completions.
//
// The signature is hex(HMAC-SHA256(secret, orderID + "|" + paymentID)), the scheme used by the
// hosted checkout provider.
package paysig

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

func Sign(secret string, orderID domain.OrderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(string(orderID) + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether c carries a valid signature for its order and payment.
func Verify(secret string, c domain.PaymentConfirmation) bool {
	if c.OrderID == "" || c.PaymentID == "" || c.Signature == "" {
		return false
	}
	want := Sign(secret, c.OrderID, c.PaymentID)
	return hmac.Equal([]byte(want), []byte(c.Signature))
}
