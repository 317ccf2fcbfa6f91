package models

import (
	"encoding/json"
	"time"
)

// PixPayment is the persisted record for one PIX charge. TransactionID is
// the provider-assigned identifier and the unique key; Payload carries the
// raw provider data plus the tracking_params captured at checkout.
type PixPayment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TransactionID string    `gorm:"size:255;not null;uniqueIndex" json:"transaction_id"`
	PlanName      string    `gorm:"size:255" json:"plan_name"`
	Value         int64     `gorm:"not null" json:"value"` // cents
	Status        string    `gorm:"size:20;not null;index" json:"status"`
	Payload       string    `gorm:"type:text" json:"payload"` // JSON
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (PixPayment) TableName() string {
	return "pix_payments"
}

// TrackingParams decodes payload.tracking_params; returns an empty map when
// the payload is missing or malformed.
func (p *PixPayment) TrackingParams() map[string]string {
	params := map[string]string{}
	if p.Payload == "" {
		return params
	}
	var payload struct {
		TrackingParams map[string]string `json:"tracking_params"`
	}
	if err := json.Unmarshal([]byte(p.Payload), &payload); err != nil {
		return params
	}
	if payload.TrackingParams != nil {
		params = payload.TrackingParams
	}
	return params
}
