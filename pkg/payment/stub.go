package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"prively/pkg/qrcode"
)

// StubProvider is a no-op provider for local development without SyncPay
// credentials: it invents a transaction id and a fake copy-paste code.
type StubProvider struct{}

func (s *StubProvider) CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	id := uuid.New().String()
	code := fmt.Sprintf("00020126580014br.gov.bcb.pix0136%s520400005303986540%d.00", id, req.AmountCents/100)
	return &Charge{
		TransactionID: id,
		QRCode:        code,
		QRCodeImage:   qrcode.ImageURL(code),
	}, nil
}
