package handler

import (
	"context"
	"sync"

	"prively/internal/models"
	"prively/internal/repository"
	"prively/internal/service"
	"prively/pkg/payment"

	"gorm.io/gorm"
)

// mockStore implements PaymentStore and AdminStore with function fields.
type mockStore struct {
	CreateFunc             func(p *models.PixPayment) error
	GetByTransactionIDFunc func(transactionID string) (*models.PixPayment, error)
	UpdateFunc             func(p *models.PixPayment) error
	ListFunc               func(status string, limit, offset int) ([]models.PixPayment, error)
	SummaryFunc            func() ([]repository.StatusSummary, error)
}

func (m *mockStore) Create(p *models.PixPayment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(p)
	}
	return nil
}

func (m *mockStore) GetByTransactionID(transactionID string) (*models.PixPayment, error) {
	if m.GetByTransactionIDFunc != nil {
		return m.GetByTransactionIDFunc(transactionID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStore) Update(p *models.PixPayment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(p)
	}
	return nil
}

func (m *mockStore) List(status string, limit, offset int) ([]models.PixPayment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(status, limit, offset)
	}
	return nil, nil
}

func (m *mockStore) Summary() ([]repository.StatusSummary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc()
	}
	return nil, nil
}

// memStore is a map-backed PaymentStore for end-to-end flows.
type memStore struct {
	mu       sync.Mutex
	payments map[string]models.PixPayment
}

func newMemStore() *memStore {
	return &memStore{payments: make(map[string]models.PixPayment)}
}

func (m *memStore) Create(p *models.PixPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.TransactionID] = *p
	return nil
}

func (m *memStore) GetByTransactionID(transactionID string) (*models.PixPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[transactionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := p
	return &cp, nil
}

func (m *memStore) Update(p *models.PixPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.TransactionID] = *p
	return nil
}

// recordingReporter captures every conversion event pushed to it.
type recordingReporter struct {
	mu     sync.Mutex
	orders []service.Order
}

func (r *recordingReporter) ReportOrder(order service.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, order)
}

func (r *recordingReporter) byStatus(status string) []service.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []service.Order
	for _, o := range r.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

// mockProvider implements payment.Provider.
type mockProvider struct {
	CreateChargeFunc func(ctx context.Context, req payment.ChargeRequest) (*payment.Charge, error)
	calls            int
}

func (m *mockProvider) CreateCharge(ctx context.Context, req payment.ChargeRequest) (*payment.Charge, error) {
	m.calls++
	if m.CreateChargeFunc != nil {
		return m.CreateChargeFunc(ctx, req)
	}
	return &payment.Charge{TransactionID: "tx-test", QRCode: "pix-code", QRCodeImage: "https://img.example/qr.png"}, nil
}
