package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"craftshop-checkout/internal/model"
	"craftshop-checkout/internal/repository"
)

// Resume is the guarded resumption point for the gateway's success leg.
// Duplicate activations for the same (token, payerId) pair share a single
// settlement run: the capture endpoint is called at most once.
func (s *checkoutServiceImpl) Resume(ctx context.Context, customerID, token, payerID string) *CheckoutOutcome {
	if token == "" || payerID == "" {
		outcome := &CheckoutOutcome{
			State:         model.CheckoutStateFailed,
			Err:           ErrMissingCallbackParams,
			FailureReason: "return URL is missing gateway callback parameters",
		}
		s.countOutcome(outcome.State)
		return outcome
	}

	attempt, owner := s.latch.begin(token, payerID)
	if !owner {
		return attempt.await(ctx)
	}

	outcome := s.settle(ctx, attempt, customerID, token, payerID)
	attempt.finish(outcome)
	s.latch.retire(attempt)
	s.countOutcome(outcome.State)
	return outcome
}

// Cancel is the gateway's cancellation leg. It never contacts the capture
// endpoint and mutates nothing: the order stays valid for a later retry,
// the cart is untouched, and the stale correlation record is simply
// overwritten by the next checkout attempt.
func (s *checkoutServiceImpl) Cancel(_ context.Context, customerID, token string) *CheckoutOutcome {
	log.Printf("checkout cancelled at gateway: customer=%s token=%s", customerID, token)
	s.countOutcome(model.CheckoutStateCancelled)
	return &CheckoutOutcome{State: model.CheckoutStateCancelled}
}

// settle runs the capture path. Terminal transitions are not applied here:
// finish moves the attempt to the returned outcome's state atomically with
// recording it, so awaiting activations never observe a half-published
// result.
func (s *checkoutServiceImpl) settle(ctx context.Context, attempt *captureAttempt, customerID, token, payerID string) *CheckoutOutcome {
	record, err := s.correlationRepo.Consume(ctx, customerID, token)
	if err != nil {
		reason := "no stored checkout session to correlate this return with"
		if errors.Is(err, repository.ErrCorrelationMismatch) {
			reason = "callback token does not match the stored checkout session"
		}
		return &CheckoutOutcome{
			State:         model.CheckoutStateFailed,
			Err:           ErrMissingCallbackParams,
			FailureReason: reason,
		}
	}

	if err := attempt.transition(model.CheckoutStateCapturing); err != nil {
		return &CheckoutOutcome{State: attempt.current(), Err: err}
	}

	if s.metrics != nil {
		s.metrics.CaptureRequests.Inc()
	}
	res, err := s.gatewayClient.CaptureOrder(ctx, record.GatewayOrderID, payerID)
	if err != nil {
		return &CheckoutOutcome{
			State:         model.CheckoutStateFailed,
			OrderNumber:   record.OrderNumber,
			Err:           ErrCaptureFailed,
			FailureReason: err.Error(),
		}
	}
	if res.Status != model.GatewayStatusCompleted {
		return &CheckoutOutcome{
			State:         model.CheckoutStateFailed,
			OrderNumber:   record.OrderNumber,
			Err:           ErrCaptureFailed,
			FailureReason: fmt.Sprintf("gateway reported status %s", res.Status),
		}
	}

	capture, ok := firstCapture(res)
	if !ok {
		// The gateway asserted success but sent no payment data. Treated
		// apart from Failed: retrying here could double-charge, so the user
		// is pointed at their order history instead.
		return &CheckoutOutcome{
			State:         model.CheckoutStateUnknown,
			OrderNumber:   record.OrderNumber,
			Err:           ErrCaptureUnknown,
			FailureReason: "gateway asserted success without a payment payload",
		}
	}

	amount, err := decimal.NewFromString(capture.Amount.Value)
	if err != nil {
		return &CheckoutOutcome{
			State:         model.CheckoutStateUnknown,
			OrderNumber:   record.OrderNumber,
			Err:           ErrCaptureUnknown,
			FailureReason: fmt.Sprintf("gateway payment payload has unreadable amount %q", capture.Amount.Value),
		}
	}

	if order, oerr := s.orderRepo.FindByOrderNumber(ctx, record.OrderNumber); oerr == nil {
		if !order.TotalAmount.Equal(amount) || order.Currency != capture.Amount.Currency {
			log.Printf("capture amount %s %s does not match order %s total %s %s",
				amount, capture.Amount.Currency, order.OrderNumber, order.TotalAmount, order.Currency)
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.MarkCompleted(ctx, tx, record.OrderNumber, capture.ID, res.Payer.PayerID)
	})
	if err != nil {
		// Money has moved; the local mirror catches up later.
		log.Println("mark order completed:", err)
	}

	s.refreshCartCount(ctx, customerID)

	return &CheckoutOutcome{
		State:       model.CheckoutStateSucceeded,
		OrderNumber: record.OrderNumber,
		Result: &model.CaptureResult{
			TransactionID: capture.ID,
			PaymentStatus: capture.Status,
			AmountPaid:    amount,
			Currency:      capture.Amount.Currency,
			PaymentDate:   capture.CreateTime,
			PayerName:     payerName(res.Payer),
			PayerEmail:    res.Payer.Email,
		},
	}
}

// refreshCartCount re-reads the cart once after a successful capture so the
// displayed count reflects the backend's post-purchase state.
func (s *checkoutServiceImpl) refreshCartCount(ctx context.Context, customerID string) {
	lines, err := s.commerceClient.ListCart(ctx, customerID)
	if err != nil {
		log.Println("refresh cart after capture:", err)
		return
	}
	log.Printf("cart refreshed after capture: customer=%s lines=%d", customerID, len(lines))
}

func firstCapture(res *model.GatewayCaptureResult) (*model.GatewayCapture, bool) {
	for _, unit := range res.PurchaseUnits {
		if len(unit.Payments.Captures) > 0 {
			return &unit.Payments.Captures[0], true
		}
	}
	return nil, false
}

func payerName(p model.GatewayPayer) string {
	return strings.TrimSpace(p.Name.GivenName + " " + p.Name.Surname)
}
