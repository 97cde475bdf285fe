package payment

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Gateway creates payment-gateway orders and verifies checkout signatures.
// A gateway built without keys reports Enabled() == false and fails every
// call with ErrNotConfigured.
type Gateway interface {
	Enabled() bool
	KeyID() string
	CreateOrder(ctx context.Context, req OrderRequest) (*GatewayOrder, error)
	VerifySignature(orderID, paymentID, signature string) error
}

const DefaultCurrency = "INR"

// ToMinorUnits converts a major-unit amount to the smallest currency unit,
// rounding to the nearest integer.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func NewReceipt(now time.Time) string {
	return fmt.Sprintf("receipt_%d", now.UnixMilli())
}
