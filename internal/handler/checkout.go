package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"craftshop-checkout/internal/dto"
	"craftshop-checkout/internal/middleware"
	"craftshop-checkout/internal/model"
	"craftshop-checkout/internal/service"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

func (h *CheckoutHandler) StartCheckout(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.StartCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := h.checkoutService.StartCheckout(
		ctx,
		middleware.CustomerID(c),
		middleware.CustomerEmail(c),
		model.AddressSource(req.AddressSource),
	)
	switch {
	case errors.Is(err, service.ErrEmptyCart):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrOrderCreation), errors.Is(err, service.ErrGatewaySession):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	case err != nil:
		return err
	}

	return c.JSON(http.StatusOK, &dto.StartCheckoutResponse{
		OrderNumber:      session.OrderNumber,
		GatewayOrderID:   session.GatewayOrderID,
		OrderApprovalURL: session.ApprovalURL,
	})
}

// HandleReturn is the gateway's success leg. The gateway redirects the
// browser here with the gateway order id as `token` plus the payer id; the
// outcome is rendered as a terminal state, never an HTTP error.
func (h *CheckoutHandler) HandleReturn(c echo.Context) error {
	ctx := c.Request().Context()

	token := c.QueryParam("token")
	payerID := c.QueryParam("PayerID")
	if payerID == "" {
		payerID = c.QueryParam("payer_id")
	}

	outcome := h.checkoutService.Resume(ctx, middleware.CustomerID(c), token, payerID)
	return c.JSON(http.StatusOK, outcomeResponse(outcome))
}

// HandleCancel is the gateway's cancellation leg: only `token` is present,
// no capture is attempted, nothing is mutated.
func (h *CheckoutHandler) HandleCancel(c echo.Context) error {
	ctx := c.Request().Context()

	outcome := h.checkoutService.Cancel(ctx, middleware.CustomerID(c), c.QueryParam("token"))
	return c.JSON(http.StatusOK, outcomeResponse(outcome))
}

func (h *CheckoutHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.checkoutService.GetOrder(ctx, middleware.CustomerID(c), c.Param("orderNumber"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}

	return c.JSON(http.StatusOK, orderResponse(order))
}

func (h *CheckoutHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.checkoutService.ListOrders(ctx, middleware.CustomerID(c))
	if err != nil {
		return err
	}

	res := make([]*dto.OrderResponse, len(orders))
	for i, order := range orders {
		res[i] = orderResponse(order)
	}
	return c.JSON(http.StatusOK, res)
}

func orderResponse(order *model.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		TotalAmount:   order.TotalAmount.StringFixed(2),
		Currency:      order.Currency,
		CaptureID:     order.CaptureID,
		AddressSource: order.AddressSource,
		CreatedAt:     order.CreatedAt.Format(time.RFC3339),
	}
}

func outcomeResponse(outcome *service.CheckoutOutcome) *dto.CheckoutOutcomeResponse {
	res := &dto.CheckoutOutcomeResponse{
		State:         outcome.State.String(),
		OrderNumber:   outcome.OrderNumber,
		FailureReason: outcome.FailureReason,
	}

	switch outcome.State {
	case model.CheckoutStateSucceeded:
		if outcome.Result != nil {
			res.TransactionID = outcome.Result.TransactionID
			res.Amount = outcome.Result.AmountPaid.StringFixed(2)
			res.Currency = outcome.Result.Currency
			res.PaymentDate = outcome.Result.PaymentDate
			res.PayerName = outcome.Result.PayerName
			res.PayerEmail = outcome.Result.PayerEmail
		}
		res.ChargeAdvice = "Your payment method was charged."
		res.NextStep = "Your order is confirmed. A confirmation email is on its way."
	case model.CheckoutStateCancelled:
		res.ChargeAdvice = "No charge was made."
		res.NextStep = "Your cart is untouched. You can check out again whenever you like."
	case model.CheckoutStateUnknown:
		res.ChargeAdvice = "Your payment method may have been charged."
		res.NextStep = "Check your order history before paying again. Do not retry the payment."
	case model.CheckoutStateFailed:
		if errors.Is(outcome.Err, service.ErrMissingCallbackParams) {
			res.ChargeAdvice = "No capture was attempted."
			res.NextStep = "Restart checkout from your cart."
		} else {
			res.ChargeAdvice = "We could not determine whether your payment method was charged."
			res.NextStep = "Return to your cart to try again, or contact support."
		}
	default:
		res.ChargeAdvice = "Payment is still being processed."
		res.NextStep = "Check your order history in a moment."
	}

	return res
}
