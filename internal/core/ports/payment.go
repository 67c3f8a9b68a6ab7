// internal/core/ports/payment.go
package ports

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrSignatureMismatch = errors.New("payment signature mismatch")

// CheckoutParams is what the payment gateway needs to open a checkout for an
// order. Amount is in the currency's smallest unit (paise for INR).
type CheckoutParams struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	OrderRef string `json:"order_ref"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Contact  string `json:"contact,omitempty"`
}

// PaymentGateway abstracts the payment provider. BuildCheckout converts a
// rupee total into gateway checkout parameters; VerifySignature checks the
// callback signature the gateway sends after a successful payment.
type PaymentGateway interface {
	BuildCheckout(orderRef string, total decimal.Decimal, name, email, contact string) *CheckoutParams
	VerifySignature(orderRef, gatewayPaymentID, signature string) error
}
