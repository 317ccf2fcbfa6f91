package payment

import (
	"context"
	"fmt"
)

// ChargeRequest describes one PIX cash-in to create upstream.
type ChargeRequest struct {
	AmountCents int64
	Description string
	// CallbackURL is where the provider pushes status webhooks for this charge.
	CallbackURL string
}

// Charge is the normalized provider response: the provider-assigned
// transaction id, the copy-paste payment code and a displayable QR image
// reference. Providers with heterogeneous response shapes map into this in
// their own package file.
type Charge struct {
	TransactionID string
	QRCode        string
	QRCodeImage   string
}

// Provider creates PIX charges with an upstream payment gateway.
type Provider interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error)
}

// Error is an upstream provider failure carrying the HTTP status the
// provider answered with, so handlers can pass it through.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider: %d %s", e.StatusCode, e.Message)
}
