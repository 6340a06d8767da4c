package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"craftshop-checkout/internal/model"
	"craftshop-checkout/internal/repository"
)

func newTestService(t *testing.T, gateway *MockGatewayClient, commerce *MockCommerceClient) (*checkoutServiceImpl, *testDeps) {
	t.Helper()

	db := newTestDB(t)
	orderRepo := repository.NewOrderRepository(db)
	correlationRepo := repository.NewCorrelationRepository(db)

	svc := NewCheckoutService(db, gateway, commerce, "http://store.test", orderRepo, correlationRepo, nil)
	return svc.(*checkoutServiceImpl), &testDeps{db: db, orderRepo: orderRepo, correlationRepo: correlationRepo}
}

type testDeps struct {
	db              *gorm.DB
	orderRepo       repository.OrderRepository
	correlationRepo repository.CorrelationRepository
}

func twoUnitCart() []model.CartLine {
	return []model.CartLine{
		{
			LineID:    "L1",
			ProductID: "7",
			Quantity:  2,
			UnitPrice: decimal.RequireFromString("25.00"),
			Currency:  "USD",
		},
	}
}

func TestStartCheckout_EmptyCart(t *testing.T) {
	gateway := &MockGatewayClient{}
	commerce := &MockCommerceClient{Cart: nil}
	svc, _ := newTestService(t, gateway, commerce)

	session, err := svc.StartCheckout(context.Background(), "C1", "c1@example.test", model.AddressFromProfile)

	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, session)
	// blocked before any network call
	assert.Empty(t, commerce.CreatedDrafts)
	assert.Empty(t, gateway.SessionOrders)
}

func TestStartCheckout_OrderExistsBeforeGatewaySession(t *testing.T) {
	gateway := &MockGatewayClient{}
	commerce := &MockCommerceClient{Cart: twoUnitCart(), OrderNumber: "ORD-1001"}
	svc, _ := newTestService(t, gateway, commerce)

	session, err := svc.StartCheckout(context.Background(), "C1", "c1@example.test", model.AddressFromProfile)

	require.NoError(t, err)
	require.Len(t, gateway.SessionOrders, 1)
	assert.Equal(t, "ORD-1001", gateway.SessionOrders[0].OrderNumber,
		"gateway must never see an order without a durable order number")
	assert.Equal(t, "ORD-1001", session.OrderNumber)
}

func TestStartCheckout_SavedProfileAddress(t *testing.T) {
	gateway := &MockGatewayClient{}
	commerce := &MockCommerceClient{Cart: twoUnitCart(), OrderNumber: "ORD-1001"}
	svc, deps := newTestService(t, gateway, commerce)

	session, err := svc.StartCheckout(context.Background(), "C1", "c1@example.test", model.AddressFromProfile)

	require.NoError(t, err)
	assert.Equal(t, "ORD-1001", session.OrderNumber)
	assert.Equal(t, "PAY-1", session.GatewayOrderID)
	assert.Equal(t, "https://gateway.test/approve/PAY-1", session.ApprovalURL)

	// total snapshot: 2 × 25.00
	require.Len(t, commerce.CreatedDrafts, 1)
	draft := commerce.CreatedDrafts[0]
	assert.Equal(t, "50.00", draft.TotalAmount)
	assert.Equal(t, "PROFILE", draft.AddressSource)
	assert.Empty(t, draft.AddressLine, "address fields are submitted blank")
	assert.NotEmpty(t, draft.ClientRequestID)

	// correlation record persisted before the approval URL is handed out
	record, err := deps.correlationRepo.Consume(context.Background(), "C1", "PAY-1")
	require.NoError(t, err)
	assert.Equal(t, "PAY-1", record.GatewayOrderID)
	assert.Equal(t, "ORD-1001", record.OrderNumber)

	// local order mirror
	order, err := deps.orderRepo.FindByOrderNumber(context.Background(), "ORD-1001")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCreated, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("50.00")))
}

func TestStartCheckout_BackendRejection(t *testing.T) {
	gateway := &MockGatewayClient{}
	commerce := &MockCommerceClient{
		Cart:      twoUnitCart(),
		CreateErr: errors.New("commerce error 422: address required"),
	}
	svc, _ := newTestService(t, gateway, commerce)

	session, err := svc.StartCheckout(context.Background(), "C1", "c1@example.test", model.AddressDuringCheckout)

	require.ErrorIs(t, err, ErrOrderCreation)
	assert.Nil(t, session)
	// no session is created for a non-existent order
	assert.Empty(t, gateway.SessionOrders)
}

func TestStartCheckout_GatewayFailureLeavesOrderValid(t *testing.T) {
	gateway := &MockGatewayClient{SessionErr: errors.New("gateway unreachable")}
	commerce := &MockCommerceClient{Cart: twoUnitCart(), OrderNumber: "ORD-1001"}
	svc, deps := newTestService(t, gateway, commerce)

	session, err := svc.StartCheckout(context.Background(), "C1", "c1@example.test", model.AddressFromProfile)

	require.ErrorIs(t, err, ErrGatewaySession)
	assert.Nil(t, session)

	// the order survives and can be retried against
	order, err := deps.orderRepo.FindByOrderNumber(context.Background(), "ORD-1001")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCreated, order.Status)
}

func TestStartCheckout_InvalidQuantity(t *testing.T) {
	cart := twoUnitCart()
	cart[0].Quantity = 0
	gateway := &MockGatewayClient{}
	commerce := &MockCommerceClient{Cart: cart}
	svc, _ := newTestService(t, gateway, commerce)

	_, err := svc.StartCheckout(context.Background(), "C1", "c1@example.test", model.AddressFromProfile)

	require.ErrorIs(t, err, ErrOrderCreation)
	assert.Empty(t, commerce.CreatedDrafts)
}

func TestStartCheckout_MixedCurrencies(t *testing.T) {
	cart := append(twoUnitCart(), model.CartLine{
		LineID:    "L2",
		ProductID: "8",
		Quantity:  1,
		UnitPrice: decimal.RequireFromString("10.00"),
		Currency:  "EUR",
	})
	gateway := &MockGatewayClient{}
	commerce := &MockCommerceClient{Cart: cart}
	svc, _ := newTestService(t, gateway, commerce)

	_, err := svc.StartCheckout(context.Background(), "C1", "c1@example.test", model.AddressFromProfile)

	require.ErrorIs(t, err, ErrOrderCreation)
}

func TestUpdateCartQuantity_ZeroRemovesLine(t *testing.T) {
	gateway := &MockGatewayClient{}
	commerce := &MockCommerceClient{}
	svc, _ := newTestService(t, gateway, commerce)

	// removing the last unit deletes the line instead of leaving quantity 0
	err := svc.UpdateCartQuantity(context.Background(), "C1", "L1", 0)
	require.NoError(t, err)
}
