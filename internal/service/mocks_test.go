package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"craftshop-checkout/internal/client"
	"craftshop-checkout/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&model.Order{}, &model.OrderItem{}, &model.CorrelationRecord{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// MockGatewayClient implements client.GatewayClient for testing
type MockGatewayClient struct {
	mu sync.Mutex

	SessionErr error
	// SessionOrders captures the orders handed to CreateCheckoutSession.
	SessionOrders []*model.Order

	CaptureResult *model.GatewayCaptureResult
	CaptureErr    error
	CaptureCalls  int
	LastCaptureID string
	LastPayerID   string

	// CaptureStarted, when set, is closed as the capture call begins;
	// CaptureRelease, when set, holds the call open until closed.
	CaptureStarted chan struct{}
	CaptureRelease chan struct{}
}

func (m *MockGatewayClient) CreateCheckoutSession(_ context.Context, order *model.Order, _ []*model.OrderItem, _ string) (*model.GatewayCheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionOrders = append(m.SessionOrders, order)
	if m.SessionErr != nil {
		return nil, m.SessionErr
	}
	return &model.GatewayCheckoutSession{
		GatewayOrderID: "PAY-1",
		ApprovalURL:    "https://gateway.test/approve/PAY-1",
		OrderNumber:    order.OrderNumber,
	}, nil
}

func (m *MockGatewayClient) CaptureOrder(_ context.Context, gatewayOrderID, payerID string) (*model.GatewayCaptureResult, error) {
	if m.CaptureStarted != nil {
		close(m.CaptureStarted)
	}
	if m.CaptureRelease != nil {
		<-m.CaptureRelease
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CaptureCalls++
	m.LastCaptureID = gatewayOrderID
	m.LastPayerID = payerID
	if m.CaptureErr != nil {
		return nil, m.CaptureErr
	}
	return m.CaptureResult, nil
}

func (m *MockGatewayClient) captureCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CaptureCalls
}

// MockCommerceClient implements client.CommerceClient for testing
type MockCommerceClient struct {
	mu sync.Mutex

	Cart        []model.CartLine
	ListErr     error
	ListCalls   int
	OrderNumber string
	CreateErr   error
	// CreatedDrafts captures the drafts submitted to the order backend.
	CreatedDrafts []*client.OrderDraftRequest
}

func (m *MockCommerceClient) ListCart(_ context.Context, _ string) ([]model.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Cart, nil
}

func (m *MockCommerceClient) AddCartItem(_ context.Context, _, _ string, _ int32, _ decimal.Decimal, _ string) error {
	return nil
}

func (m *MockCommerceClient) UpdateCartQuantity(_ context.Context, _, _ string, _ int32) error {
	return nil
}

func (m *MockCommerceClient) RemoveCartItem(_ context.Context, _, _ string) error {
	return nil
}

func (m *MockCommerceClient) CartTotal(_ context.Context, _ string) (decimal.Decimal, string, error) {
	return decimal.Zero, "USD", nil
}

func (m *MockCommerceClient) CreateOrder(_ context.Context, draft *client.OrderDraftRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatedDrafts = append(m.CreatedDrafts, draft)
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	return m.OrderNumber, nil
}

func (m *MockCommerceClient) listCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ListCalls
}

func completedCapture(captureID, amount, currency string) *model.GatewayCaptureResult {
	return &model.GatewayCaptureResult{
		ID:     "PAY-1",
		Status: model.GatewayStatusCompleted,
		Payer: model.GatewayPayer{
			PayerID: "P1",
			Email:   "payer@example.test",
			Name:    model.GatewayPayerName{GivenName: "Pat", Surname: "Payer"},
		},
		PurchaseUnits: []model.GatewayPurchaseUnit{
			{
				ReferenceID: "ORD-1001",
				Payments: model.GatewayPayments{
					Captures: []model.GatewayCapture{
						{
							ID:         captureID,
							Status:     model.GatewayStatusCompleted,
							CreateTime: "2026-02-01T10:00:00Z",
							Final:      true,
							Amount:     model.GatewayAmount{Currency: currency, Value: amount},
						},
					},
				},
			},
		},
	}
}
