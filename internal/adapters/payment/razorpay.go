// internal/adapters/payment/razorpay.go
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/kiranakart/kirana-be/internal/core/ports"
)

var paiseFactor = decimal.NewFromInt(100)

// RazorpayGateway implements ports.PaymentGateway for Razorpay checkout.
// Amounts cross the wire in paise.
type RazorpayGateway struct {
	keyID  string
	secret string
	logger *slog.Logger
}

var _ ports.PaymentGateway = (*RazorpayGateway)(nil)

// NewRazorpayGateway creates a Razorpay gateway
func NewRazorpayGateway(keyID, secret string, logger *slog.Logger) *RazorpayGateway {
	return &RazorpayGateway{
		keyID:  keyID,
		secret: secret,
		logger: logger.With(slog.String("component", "razorpay")),
	}
}

// KeyID returns the public key id embedded in the checkout page
func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}

// BuildCheckout converts an order total to the paise checkout parameters
func (g *RazorpayGateway) BuildCheckout(orderRef string, total decimal.Decimal, name, email, contact string) *ports.CheckoutParams {
	return &ports.CheckoutParams{
		Amount:   total.Mul(paiseFactor).IntPart(),
		Currency: "INR",
		OrderRef: orderRef,
		Name:     name,
		Email:    email,
		Contact:  contact,
	}
}

// VerifySignature checks the HMAC-SHA256 signature Razorpay sends back after
// a successful checkout. The signed payload is "orderRef|paymentID".
func (g *RazorpayGateway) VerifySignature(orderRef, gatewayPaymentID, signature string) error {
	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write([]byte(orderRef + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		g.logger.Warn("payment signature mismatch",
			slog.String("order_ref", orderRef),
			slog.String("payment_id", gatewayPaymentID))
		return ports.ErrSignatureMismatch
	}

	return nil
}
