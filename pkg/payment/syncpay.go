package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"prively/pkg/qrcode"
)

// tokenRefreshMargin renews the cached token this long before its advertised
// expiry so an in-flight request never races token expiration.
const tokenRefreshMargin = 5 * time.Minute

// SyncPayProvider creates PIX charges via the SyncPay partner cash-in API.
//
// The auth token is cached process-wide with check-then-fetch expiry math.
// Concurrent requests may race to refresh it and fetch twice; the refresh is
// idempotent, so this is left unsynchronized on purpose.
type SyncPayProvider struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	client       *http.Client

	token       string
	tokenExpiry time.Time
}

func NewSyncPayProvider(baseURL, clientID, clientSecret string) *SyncPayProvider {
	if baseURL == "" {
		baseURL = "https://api.syncpay.com.br"
	}
	return &SyncPayProvider{
		BaseURL:      baseURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

type syncpayAuthReq struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type syncpayAuthResp struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
	BearerToken string `json:"bearer_token"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
}

// getToken returns the cached token, fetching a fresh one when it is absent
// or inside the refresh margin.
func (p *SyncPayProvider) getToken(ctx context.Context) (string, error) {
	if p.token != "" && time.Now().Before(p.tokenExpiry.Add(-tokenRefreshMargin)) {
		return p.token, nil
	}
	body, _ := json.Marshal(syncpayAuthReq{ClientID: p.ClientID, ClientSecret: p.ClientSecret})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/api/partner/v1/auth-token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("syncpay auth failed: %d %s", resp.StatusCode, string(respBody))
	}
	var out syncpayAuthResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", err
	}
	token := out.Token
	if token == "" {
		token = out.AccessToken
	}
	if token == "" {
		token = out.BearerToken
	}
	if token == "" {
		return "", fmt.Errorf("syncpay: auth returned empty token")
	}
	expiresIn := out.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3600
	}
	p.token = token
	p.tokenExpiry = time.Now().Add(time.Duration(expiresIn) * time.Second)
	log.Printf("[SyncPay] token refreshed, expires in %ds", expiresIn)
	return token, nil
}

type syncpayCashInReq struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	WebhookURL  string `json:"webhook_url"`
}

// syncpayCashInResp covers the alternately named fields SyncPay has been
// observed returning for the same data.
type syncpayCashInResp struct {
	IDTransaction string `json:"idTransaction"`
	ID            string `json:"id"`
	TransactionID string `json:"transaction_id"`
	Txid          string `json:"txid"`

	PaymentCode string `json:"paymentCode"`
	QRCode      string `json:"qr_code"`
	PixCode     string `json:"pix_code"`
	EMV         string `json:"emv"`

	PaymentCodeBase64 string `json:"paymentCodeBase64"`
	QRCodeBase64      string `json:"qr_code_base64"`
	QRCodeImage       string `json:"qr_code_image"`

	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (r *syncpayCashInResp) transactionID() string {
	for _, id := range []string{r.IDTransaction, r.ID, r.TransactionID, r.Txid} {
		if id != "" {
			return id
		}
	}
	return ""
}

func (r *syncpayCashInResp) paymentCode() string {
	for _, code := range []string{r.PaymentCode, r.QRCode, r.PixCode, r.EMV} {
		if code != "" {
			return code
		}
	}
	return ""
}

func (r *syncpayCashInResp) imageRaw() string {
	for _, img := range []string{r.PaymentCodeBase64, r.QRCodeBase64, r.QRCodeImage} {
		if img != "" {
			return img
		}
	}
	return ""
}

func (r *syncpayCashInResp) errorMessage() string {
	if r.Message != "" {
		return r.Message
	}
	if r.Error != "" {
		return r.Error
	}
	return "failed to create PIX charge"
}

func (p *SyncPayProvider) CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	token, err := p.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("syncpay auth: %w", err)
	}
	description := req.Description
	if description == "" {
		description = "Pagamento PIX"
	}
	body, _ := json.Marshal(syncpayCashInReq{
		Amount:      req.AmountCents,
		Description: description,
		WebhookURL:  req.CallbackURL,
	})
	apiReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/api/partner/v1/cash-in", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	apiReq.Header.Set("Content-Type", "application/json")
	apiReq.Header.Set("Authorization", "Bearer "+token)
	resp, err := p.client.Do(apiReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	log.Printf("[SyncPay] cash-in response status=%d body=%s", resp.StatusCode, string(respBody))
	var out syncpayCashInResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("syncpay cash-in: %d %s", resp.StatusCode, string(respBody))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || out.Status == "error" {
		status := resp.StatusCode
		if status < 400 {
			status = http.StatusBadGateway
		}
		return nil, &Error{StatusCode: status, Message: out.errorMessage()}
	}

	id := out.transactionID()
	if id == "" {
		return nil, fmt.Errorf("syncpay: no transaction id in response")
	}
	code := out.paymentCode()
	return &Charge{
		TransactionID: id,
		QRCode:        code,
		QRCodeImage:   resolveImage(out.imageRaw(), code),
	}, nil
}

// resolveImage turns whatever image field the provider returned into a
// displayable reference: data/http URLs pass through; a bare base64 EMV is
// decoded and rendered via the QR image service; otherwise the payment code
// itself is encoded.
func resolveImage(raw, code string) string {
	if raw != "" {
		if strings.HasPrefix(raw, "data:") || strings.HasPrefix(raw, "http") {
			return raw
		}
		if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
			return qrcode.ImageURL(string(decoded))
		}
	}
	if code == "" {
		return ""
	}
	return qrcode.ImageURL(code)
}
