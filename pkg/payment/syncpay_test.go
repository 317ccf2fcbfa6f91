package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// fakeSyncPay stands in for the SyncPay partner API.
type fakeSyncPay struct {
	authCalls   int
	cashInCalls int
	expiresIn   int64
	cashInResp  map[string]any
	cashInCode  int
}

func (f *fakeSyncPay) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/partner/v1/auth-token", func(w http.ResponseWriter, r *http.Request) {
		f.authCalls++
		var body struct {
			ClientID     string `json:"client_id"`
			ClientSecret string `json:"client_secret"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.ClientID != "pk" || body.ClientSecret != "sk" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok-1", "expires_in": f.expiresIn})
	})
	mux.HandleFunc("/api/partner/v1/cash-in", func(w http.ResponseWriter, r *http.Request) {
		f.cashInCalls++
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		code := f.cashInCode
		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(f.cashInResp)
	})
	return httptest.NewServer(mux)
}

func TestCreateChargeNormalizesResponse(t *testing.T) {
	fake := &fakeSyncPay{
		expiresIn: 3600,
		cashInResp: map[string]any{
			"idTransaction": "tx-123",
			"paymentCode":   "00020126pixcode",
		},
	}
	srv := fake.server(t)
	defer srv.Close()

	p := NewSyncPayProvider(srv.URL, "pk", "sk")
	ch, err := p.CreateCharge(context.Background(), ChargeRequest{AmountCents: 1990, Description: "1 mês"})
	if err != nil {
		t.Fatalf("CreateCharge: %v", err)
	}
	if ch.TransactionID != "tx-123" {
		t.Errorf("TransactionID = %q", ch.TransactionID)
	}
	if ch.QRCode != "00020126pixcode" {
		t.Errorf("QRCode = %q", ch.QRCode)
	}
	if !strings.Contains(ch.QRCodeImage, "api.qrserver.com") || !strings.Contains(ch.QRCodeImage, "00020126pixcode") {
		t.Errorf("QRCodeImage = %q, want synthesized QR image URL", ch.QRCodeImage)
	}
}

func TestCreateChargeAlternateFieldNames(t *testing.T) {
	fake := &fakeSyncPay{
		expiresIn: 3600,
		cashInResp: map[string]any{
			"txid":          "tx-alt",
			"pix_code":      "emv-code",
			"qr_code_image": "https://cdn.example.com/qr.png",
		},
	}
	srv := fake.server(t)
	defer srv.Close()

	p := NewSyncPayProvider(srv.URL, "pk", "sk")
	ch, err := p.CreateCharge(context.Background(), ChargeRequest{AmountCents: 500})
	if err != nil {
		t.Fatalf("CreateCharge: %v", err)
	}
	if ch.TransactionID != "tx-alt" {
		t.Errorf("TransactionID = %q", ch.TransactionID)
	}
	if ch.QRCodeImage != "https://cdn.example.com/qr.png" {
		t.Errorf("QRCodeImage = %q, want provider URL passed through", ch.QRCodeImage)
	}
}

func TestCreateChargeTokenCached(t *testing.T) {
	fake := &fakeSyncPay{
		expiresIn:  3600,
		cashInResp: map[string]any{"id": "tx-1", "qr_code": "code"},
	}
	srv := fake.server(t)
	defer srv.Close()

	p := NewSyncPayProvider(srv.URL, "pk", "sk")
	for i := 0; i < 3; i++ {
		if _, err := p.CreateCharge(context.Background(), ChargeRequest{AmountCents: 100}); err != nil {
			t.Fatalf("CreateCharge #%d: %v", i, err)
		}
	}
	if fake.authCalls != 1 {
		t.Errorf("authCalls = %d, want 1 (token should be cached)", fake.authCalls)
	}
	if fake.cashInCalls != 3 {
		t.Errorf("cashInCalls = %d, want 3", fake.cashInCalls)
	}
}

func TestCreateChargeTokenRefreshedNearExpiry(t *testing.T) {
	// Advertised lifetime below the refresh margin forces a refresh per call.
	fake := &fakeSyncPay{
		expiresIn:  1,
		cashInResp: map[string]any{"id": "tx-1", "qr_code": "code"},
	}
	srv := fake.server(t)
	defer srv.Close()

	p := NewSyncPayProvider(srv.URL, "pk", "sk")
	for i := 0; i < 2; i++ {
		if _, err := p.CreateCharge(context.Background(), ChargeRequest{AmountCents: 100}); err != nil {
			t.Fatalf("CreateCharge #%d: %v", i, err)
		}
	}
	if fake.authCalls != 2 {
		t.Errorf("authCalls = %d, want 2 (token inside refresh margin must be refetched)", fake.authCalls)
	}
}

func TestCreateChargeUpstreamRejection(t *testing.T) {
	fake := &fakeSyncPay{
		expiresIn:  3600,
		cashInCode: http.StatusUnprocessableEntity,
		cashInResp: map[string]any{"message": "amount too low"},
	}
	srv := fake.server(t)
	defer srv.Close()

	p := NewSyncPayProvider(srv.URL, "pk", "sk")
	_, err := p.CreateCharge(context.Background(), ChargeRequest{AmountCents: 1})
	var provErr *Error
	if !errors.As(err, &provErr) {
		t.Fatalf("want *payment.Error, got %v", err)
	}
	if provErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("StatusCode = %d", provErr.StatusCode)
	}
	if provErr.Message != "amount too low" {
		t.Errorf("Message = %q", provErr.Message)
	}
}

func TestCreateChargeMissingTransactionID(t *testing.T) {
	fake := &fakeSyncPay{
		expiresIn:  3600,
		cashInResp: map[string]any{"qr_code": "code-without-id"},
	}
	srv := fake.server(t)
	defer srv.Close()

	p := NewSyncPayProvider(srv.URL, "pk", "sk")
	if _, err := p.CreateCharge(context.Background(), ChargeRequest{AmountCents: 100}); err == nil {
		t.Fatal("want error when provider returns no transaction id")
	}
}

func TestCreateChargeAuthFailure(t *testing.T) {
	fake := &fakeSyncPay{expiresIn: 3600}
	srv := fake.server(t)
	defer srv.Close()

	p := NewSyncPayProvider(srv.URL, "pk", "wrong-secret")
	if _, err := p.CreateCharge(context.Background(), ChargeRequest{AmountCents: 100}); err == nil {
		t.Fatal("want error on auth failure")
	}
	if fake.cashInCalls != 0 {
		t.Errorf("cashInCalls = %d, want 0 after failed auth", fake.cashInCalls)
	}
}

func TestStubProvider(t *testing.T) {
	var p StubProvider
	ch, err := p.CreateCharge(context.Background(), ChargeRequest{AmountCents: 1990})
	if err != nil {
		t.Fatalf("CreateCharge: %v", err)
	}
	if ch.TransactionID == "" || ch.QRCode == "" || ch.QRCodeImage == "" {
		t.Errorf("stub charge incomplete: %+v", ch)
	}
}

func TestTokenExpiryMath(t *testing.T) {
	p := NewSyncPayProvider("http://unused", "pk", "sk")
	p.token = "tok"
	p.tokenExpiry = time.Now().Add(4 * time.Minute) // inside the 5m margin
	tok, err := p.getToken(context.Background())
	if err == nil && tok == "tok" {
		t.Error("token inside refresh margin must not be reused")
	}
}
