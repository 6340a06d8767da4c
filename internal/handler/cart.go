package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"craftshop-checkout/internal/dto"
	"craftshop-checkout/internal/middleware"
	"craftshop-checkout/internal/service"
)

// CartHandler is a thin passthrough to the remote commerce cart API so the
// storefront UI talks to a single origin.
type CartHandler struct {
	checkoutService service.CheckoutService
}

func NewCartHandler(checkoutService service.CheckoutService) *CartHandler {
	return &CartHandler{
		checkoutService: checkoutService,
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	lines, err := h.checkoutService.ListCart(ctx, middleware.CustomerID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	res := &dto.CartResponse{
		Lines: make([]dto.CartLineResponse, len(lines)),
		Count: len(lines),
	}
	if len(lines) > 0 {
		total, currency, err := h.checkoutService.CartTotal(ctx, middleware.CustomerID(c))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
		res.Total = total.StringFixed(2)
		res.Currency = currency
	}
	for i, line := range lines {
		res.Lines[i] = dto.CartLineResponse{
			LineID:    line.LineID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.StringFixed(2),
			Currency:  line.Currency,
		}
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid unit price")
	}

	err = h.checkoutService.AddCartItem(ctx, middleware.CustomerID(c), req.ProductID, req.Quantity, unitPrice, req.Currency)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateCartQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.checkoutService.UpdateCartQuantity(ctx, middleware.CustomerID(c), c.Param("lineID"), req.Quantity)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	err := h.checkoutService.RemoveCartItem(ctx, middleware.CustomerID(c), c.Param("lineID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
