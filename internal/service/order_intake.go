package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"craftshop-checkout/internal/client"
	"craftshop-checkout/internal/model"
)

// createOrder turns the cart into a durable order on the commerce backend.
// The total is snapshotted here, as the sum of quantity × unit price at call
// time, and stays authoritative even if the cart is mutated afterwards.
//
// With AddressFromProfile the caller must already have confirmed the profile
// holds a saved address; that gate is not re-checked here.
func (s *checkoutServiceImpl) createOrder(ctx context.Context, lines []model.CartLine, addressSource model.AddressSource, customerID, customerEmail string) (*model.Order, []*model.OrderItem, error) {
	if len(lines) == 0 {
		return nil, nil, ErrEmptyCart
	}
	if !addressSource.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown address source %q", ErrOrderCreation, addressSource)
	}

	total := decimal.Zero
	currency := lines[0].Currency
	draftLines := make([]client.OrderDraftLineRequest, len(lines))
	for i, line := range lines {
		if line.Quantity < 1 {
			return nil, nil, fmt.Errorf("%w: item quantity must be positive", ErrOrderCreation)
		}
		if line.Currency != currency {
			return nil, nil, fmt.Errorf("%w: mixed currencies in cart", ErrOrderCreation)
		}
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt32(line.Quantity)))

		draftLines[i] = client.OrderDraftLineRequest{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.StringFixed(2),
			Currency:  line.Currency,
		}
	}

	// Address fields are submitted blank either way: with AddressFromProfile
	// the backend fills them from the saved profile, with
	// AddressDuringCheckout it collects them on its own follow-up step.
	draft := &client.OrderDraftRequest{
		ClientRequestID: uuid.NewString(),
		CustomerID:      customerID,
		CustomerEmail:   customerEmail,
		AddressSource:   string(addressSource),
		TotalAmount:     total.StringFixed(2),
		Currency:        currency,
		Lines:           draftLines,
	}

	orderNumber, err := s.commerceClient.CreateOrder(ctx, draft)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrOrderCreation, err)
	}

	order := &model.Order{
		OrderNumber:   orderNumber,
		CustomerID:    customerID,
		CustomerEmail: customerEmail,
		Status:        model.OrderStatusCreated,
		AddressSource: string(addressSource),
		TotalAmount:   total,
		Currency:      currency,
	}
	items := make([]*model.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = &model.OrderItem{
			OrderNumber: orderNumber,
			ProductID:   line.ProductID,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Currency:    line.Currency,
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
			return fmt.Errorf("store order items in db: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}
