package payment_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranakart/kirana-be/internal/adapters/payment"
	"github.com/kiranakart/kirana-be/internal/core/ports"
	"github.com/kiranakart/kirana-be/test/helpers"
)

func sign(secret, orderRef, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderRef + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestRazorpayGateway_BuildCheckout(t *testing.T) {
	gateway := payment.NewRazorpayGateway("rzp_test_key", "secret", helpers.TestLogger())

	tests := []struct {
		name       string
		total      decimal.Decimal
		wantAmount int64
	}{
		{"whole_rupees", decimal.NewFromInt(690), 69000},
		{"with_paise", decimal.NewFromFloat(450.50), 45050},
		{"zero", decimal.Zero, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := gateway.BuildCheckout("order_1", tt.total, "Asha", "asha@example.com", "9999999999")

			assert.Equal(t, tt.wantAmount, params.Amount)
			assert.Equal(t, "INR", params.Currency)
			assert.Equal(t, "order_1", params.OrderRef)
			assert.Equal(t, "Asha", params.Name)
		})
	}
}

func TestRazorpayGateway_VerifySignature(t *testing.T) {
	const secret = "test_secret"
	gateway := payment.NewRazorpayGateway("rzp_test_key", secret, helpers.TestLogger())

	t.Run("valid_signature", func(t *testing.T) {
		sig := sign(secret, "order_1", "pay_123")
		require.NoError(t, gateway.VerifySignature("order_1", "pay_123", sig))
	})

	t.Run("tampered_payment_id", func(t *testing.T) {
		sig := sign(secret, "order_1", "pay_123")
		err := gateway.VerifySignature("order_1", "pay_999", sig)
		assert.ErrorIs(t, err, ports.ErrSignatureMismatch)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		sig := sign("other_secret", "order_1", "pay_123")
		err := gateway.VerifySignature("order_1", "pay_123", sig)
		assert.ErrorIs(t, err, ports.ErrSignatureMismatch)
	})

	t.Run("empty_signature", func(t *testing.T) {
		err := gateway.VerifySignature("order_1", "pay_123", "")
		assert.ErrorIs(t, err, ports.ErrSignatureMismatch)
	})
}
