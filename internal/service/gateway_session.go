package service

import (
	"context"
	"fmt"
	"log"

	"craftshop-checkout/internal/model"
)

// createCheckoutSession asks the gateway for a hosted session and persists
// the correlation record before the approval URL is handed out. Once the
// browser navigates to the gateway this process is out of the picture, so a
// record that is not durable by then can never be recovered.
func (s *checkoutServiceImpl) createCheckoutSession(ctx context.Context, order *model.Order, items []*model.OrderItem) (*model.GatewayCheckoutSession, error) {
	if order.OrderNumber == "" {
		return nil, fmt.Errorf("%w: order has no order number", ErrGatewaySession)
	}

	session, err := s.gatewayClient.CreateCheckoutSession(ctx, order, items, s.serviceBaseUrl)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewaySession, err)
	}

	err = s.correlationRepo.Put(ctx, &model.CorrelationRecord{
		CustomerID:     order.CustomerID,
		GatewayOrderID: session.GatewayOrderID,
		OrderNumber:    order.OrderNumber,
	})
	if err != nil {
		// Without the record the return leg cannot correlate the callback,
		// so the approval URL is withheld. The order stays valid and session
		// creation may be retried.
		return nil, fmt.Errorf("%w: persist correlation record: %v", ErrGatewaySession, err)
	}

	if err := s.orderRepo.SetGatewaySession(ctx, order.OrderNumber, session.GatewayOrderID); err != nil {
		log.Println("record gateway session on order:", err)
	}

	return session, nil
}
