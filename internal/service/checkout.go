package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"craftshop-checkout/internal/client"
	"craftshop-checkout/internal/metrics"
	"craftshop-checkout/internal/model"
	"craftshop-checkout/internal/repository"
)

type CheckoutService interface {
	ListCart(ctx context.Context, customerID string) ([]model.CartLine, error)
	AddCartItem(ctx context.Context, customerID, productID string, quantity int32, unitPrice decimal.Decimal, currency string) error
	UpdateCartQuantity(ctx context.Context, customerID, lineID string, quantity int32) error
	RemoveCartItem(ctx context.Context, customerID, lineID string) error
	CartTotal(ctx context.Context, customerID string) (decimal.Decimal, string, error)

	StartCheckout(ctx context.Context, customerID, customerEmail string, addressSource model.AddressSource) (*model.GatewayCheckoutSession, error)
	Resume(ctx context.Context, customerID, token, payerID string) *CheckoutOutcome
	Cancel(ctx context.Context, customerID, token string) *CheckoutOutcome

	GetOrder(ctx context.Context, customerID, orderNumber string) (*model.Order, error)
	ListOrders(ctx context.Context, customerID string) ([]*model.Order, error)
}

// CheckoutOutcome is the terminal result of a return-leg or cancel-leg
// activation. Err classifies the outcome against the error taxonomy;
// FailureReason carries the gateway's reason verbatim.
type CheckoutOutcome struct {
	State         model.CheckoutState
	OrderNumber   string
	Result        *model.CaptureResult
	FailureReason string
	Err           error
}

type checkoutServiceImpl struct {
	db              *gorm.DB
	gatewayClient   client.GatewayClient
	commerceClient  client.CommerceClient
	serviceBaseUrl  string
	orderRepo       repository.OrderRepository
	correlationRepo repository.CorrelationRepository
	latch           *captureLatch
	metrics         *metrics.CheckoutMetrics
}

func NewCheckoutService(
	db *gorm.DB,
	gatewayClient client.GatewayClient,
	commerceClient client.CommerceClient,
	serviceBaseUrl string,
	orderRepo repository.OrderRepository,
	correlationRepo repository.CorrelationRepository,
	m *metrics.CheckoutMetrics,
) CheckoutService {
	return &checkoutServiceImpl{
		db:              db,
		gatewayClient:   gatewayClient,
		commerceClient:  commerceClient,
		serviceBaseUrl:  serviceBaseUrl,
		orderRepo:       orderRepo,
		correlationRepo: correlationRepo,
		latch:           newCaptureLatch(),
		metrics:         m,
	}
}

// StartCheckout runs the front half of the flow: cart → durable order →
// gateway session. The order exists before any gateway call, so a failed
// session can be retried against the same order instead of creating a
// duplicate.
func (s *checkoutServiceImpl) StartCheckout(ctx context.Context, customerID, customerEmail string, addressSource model.AddressSource) (*model.GatewayCheckoutSession, error) {
	lines, err := s.commerceClient.ListCart(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}

	order, items, err := s.createOrder(ctx, lines, addressSource, customerID, customerEmail)
	if err != nil {
		return nil, err
	}

	return s.createCheckoutSession(ctx, order, items)
}

func (s *checkoutServiceImpl) ListCart(ctx context.Context, customerID string) ([]model.CartLine, error) {
	return s.commerceClient.ListCart(ctx, customerID)
}

func (s *checkoutServiceImpl) AddCartItem(ctx context.Context, customerID, productID string, quantity int32, unitPrice decimal.Decimal, currency string) error {
	if quantity < 1 {
		return fmt.Errorf("item quantity must be positive")
	}
	return s.commerceClient.AddCartItem(ctx, customerID, productID, quantity, unitPrice, currency)
}

// UpdateCartQuantity drops the line entirely when the last unit is removed;
// the cart never holds a zero-quantity line.
func (s *checkoutServiceImpl) UpdateCartQuantity(ctx context.Context, customerID, lineID string, quantity int32) error {
	if quantity < 1 {
		return s.commerceClient.RemoveCartItem(ctx, customerID, lineID)
	}
	return s.commerceClient.UpdateCartQuantity(ctx, customerID, lineID, quantity)
}

func (s *checkoutServiceImpl) RemoveCartItem(ctx context.Context, customerID, lineID string) error {
	return s.commerceClient.RemoveCartItem(ctx, customerID, lineID)
}

func (s *checkoutServiceImpl) CartTotal(ctx context.Context, customerID string) (decimal.Decimal, string, error) {
	return s.commerceClient.CartTotal(ctx, customerID)
}

func (s *checkoutServiceImpl) GetOrder(ctx context.Context, customerID, orderNumber string) (*model.Order, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order.CustomerID != customerID {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *checkoutServiceImpl) ListOrders(ctx context.Context, customerID string) ([]*model.Order, error) {
	return s.orderRepo.ListByCustomer(ctx, customerID)
}

func (s *checkoutServiceImpl) countOutcome(state model.CheckoutState) {
	if s.metrics != nil {
		s.metrics.Outcomes.WithLabelValues(state.String()).Inc()
	}
}
