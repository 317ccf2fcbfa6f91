package service

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"prively/internal/domain"
)

// UtmifyService delivers normalized order events to the UTMify attribution
// API. Delivery is best-effort: ReportOrder returns nothing and failures are
// only logged, so a dead attribution endpoint can never fail a charge
// creation or a webhook acknowledgment.
type UtmifyService struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewUtmifyService(endpoint, apiKey string) *UtmifyService {
	if endpoint == "" {
		endpoint = "https://api.utmify.com.br/api-credentials/orders"
	}
	return &UtmifyService{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Order is one reportable status transition for a charge.
type Order struct {
	TransactionID  string
	Status         string // canonical; mapped to the UTMify vocabulary here
	ValueCents     int64
	PlanName       string
	TrackingParams map[string]string
}

type utmifyCustomer struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	Document *string `json:"document"`
	Country  string  `json:"country"`
}

type utmifyProduct struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	PlanID       *string `json:"planId"`
	PlanName     *string `json:"planName"`
	Quantity     int     `json:"quantity"`
	PriceInCents int64   `json:"priceInCents"`
}

type utmifyCommission struct {
	TotalPriceInCents     int64 `json:"totalPriceInCents"`
	GatewayFeeInCents     int64 `json:"gatewayFeeInCents"`
	UserCommissionInCents int64 `json:"userCommissionInCents"`
}

type utmifyTracking struct {
	Src         *string `json:"src"`
	Sck         *string `json:"sck"`
	UtmSource   *string `json:"utm_source"`
	UtmCampaign *string `json:"utm_campaign"`
	UtmMedium   *string `json:"utm_medium"`
	UtmContent  *string `json:"utm_content"`
	UtmTerm     *string `json:"utm_term"`
}

type utmifyOrder struct {
	OrderID            string           `json:"orderId"`
	Platform           string           `json:"platform"`
	PaymentMethod      string           `json:"paymentMethod"`
	Status             string           `json:"status"`
	CreatedAt          string           `json:"createdAt"`
	ApprovedDate       *string          `json:"approvedDate"`
	RefundedAt         *string          `json:"refundedAt"`
	Customer           utmifyCustomer   `json:"customer"`
	Products           []utmifyProduct  `json:"products"`
	Commission         utmifyCommission `json:"commission"`
	TrackingParameters utmifyTracking   `json:"trackingParameters"`
	IsTest             bool             `json:"isTest"`
}

func optional(params map[string]string, key string) *string {
	if v, ok := params[key]; ok && v != "" {
		return &v
	}
	return nil
}

// ReportOrder pushes the order to UTMify when its status maps to a
// reportable state. Unreportable statuses and delivery failures are logged
// and dropped.
func (s *UtmifyService) ReportOrder(order Order) {
	if s.apiKey == "" {
		log.Printf("[UTMify] api key not configured, skipping order %s", order.TransactionID)
		return
	}
	status, ok := domain.UtmifyStatus(order.Status)
	if !ok {
		log.Printf("[UTMify] status %q not reportable, skipping order %s", order.Status, order.TransactionID)
		return
	}
	now := time.Now().UTC().Format(time.RFC3339)
	var approvedDate *string
	if status == "paid" {
		approvedDate = &now
	}
	params := order.TrackingParams
	if params == nil {
		params = map[string]string{}
	}
	payload := utmifyOrder{
		OrderID:       order.TransactionID,
		Platform:      "custom",
		PaymentMethod: "pix",
		Status:        status,
		CreatedAt:     now,
		ApprovedDate:  approvedDate,
		Customer: utmifyCustomer{
			Name:    "Cliente PIX",
			Email:   "cliente@pix.com",
			Country: "BR",
		},
		Products: []utmifyProduct{{
			ID:           strings.ToLower(strings.Join(strings.Fields(order.PlanName), "-")),
			Name:         order.PlanName,
			Quantity:     1,
			PriceInCents: order.ValueCents,
		}},
		Commission: utmifyCommission{
			TotalPriceInCents:     order.ValueCents,
			UserCommissionInCents: order.ValueCents,
		},
		TrackingParameters: utmifyTracking{
			Src:         optional(params, "src"),
			Sck:         optional(params, "sck"),
			UtmSource:   optional(params, "utm_source"),
			UtmCampaign: optional(params, "utm_campaign"),
			UtmMedium:   optional(params, "utm_medium"),
			UtmContent:  optional(params, "utm_content"),
			UtmTerm:     optional(params, "utm_term"),
		},
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		log.Printf("[UTMify] build request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-token", s.apiKey)
	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[UTMify] order %s delivery failed: %v", order.TransactionID, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		log.Printf("[UTMify] order %s rejected: %d %s", order.TransactionID, resp.StatusCode, string(respBody))
		return
	}
	log.Printf("[UTMify] order %s reported as %s", order.TransactionID, status)
}
