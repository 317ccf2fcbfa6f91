package repository

import (
	"prively/internal/models"

	"gorm.io/gorm"
)

type PixPaymentRepository struct {
	db *gorm.DB
}

func NewPixPaymentRepository(db *gorm.DB) *PixPaymentRepository {
	return &PixPaymentRepository{db: db}
}

func (r *PixPaymentRepository) Create(p *models.PixPayment) error {
	return r.db.Create(p).Error
}

func (r *PixPaymentRepository) GetByTransactionID(transactionID string) (*models.PixPayment, error) {
	var p models.PixPayment
	err := r.db.Where("transaction_id = ?", transactionID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PixPaymentRepository) Update(p *models.PixPayment) error {
	return r.db.Save(p).Error
}

func (r *PixPaymentRepository) List(status string, limit, offset int) ([]models.PixPayment, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := r.db.Order("created_at DESC").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var payments []models.PixPayment
	err := q.Find(&payments).Error
	return payments, err
}

// StatusSummary is one row of the admin revenue breakdown.
type StatusSummary struct {
	Status     string `json:"status"`
	Count      int64  `json:"count"`
	TotalCents int64  `json:"total_cents"`
}

func (r *PixPaymentRepository) Summary() ([]StatusSummary, error) {
	var rows []StatusSummary
	err := r.db.Model(&models.PixPayment{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(value), 0) AS total_cents").
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}
