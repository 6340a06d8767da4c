package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"craftshop-checkout/internal/config"
	"craftshop-checkout/internal/model"
)

// CommerceClient talks to the remote commerce backend: the cart CRUD and
// the order-creation endpoint. The checkout flow reads the cart only before
// order intake and once more after a successful capture.
type CommerceClient interface {
	ListCart(ctx context.Context, customerID string) ([]model.CartLine, error)
	AddCartItem(ctx context.Context, customerID, productID string, quantity int32, unitPrice decimal.Decimal, currency string) error
	UpdateCartQuantity(ctx context.Context, customerID, lineID string, quantity int32) error
	RemoveCartItem(ctx context.Context, customerID, lineID string) error
	CartTotal(ctx context.Context, customerID string) (decimal.Decimal, string, error)
	CreateOrder(ctx context.Context, draft *OrderDraftRequest) (string, error)
}

// OrderDraftRequest is the wire form of an order draft. Address fields stay
// blank when the customer chose to enter the address during checkout; the
// backend requires them on its own follow-up step.
type OrderDraftRequest struct {
	// ClientRequestID lets the backend deduplicate a re-submitted draft.
	ClientRequestID string                  `json:"client_request_id"`
	CustomerID      string                  `json:"customer_id"`
	CustomerEmail   string                  `json:"customer_email"`
	AddressSource   string                  `json:"address_source"`
	AddressLine     string                  `json:"address_line"`
	City            string                  `json:"city"`
	PostalCode      string                  `json:"postal_code"`
	Country         string                  `json:"country"`
	TotalAmount     string                  `json:"total_amount"`
	Currency        string                  `json:"currency"`
	Lines           []OrderDraftLineRequest `json:"lines"`
}

type OrderDraftLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Currency  string `json:"currency"`
}

type commerceClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	apiKey     string
}

func NewCommerceClient(commerceCfg *config.Commerce) CommerceClient {
	return &commerceClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: commerceCfg.BaseApiURL,
		apiKey:     commerceCfg.APIKey,
	}
}

func (c *commerceClientImpl) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal req payload: %w", err)
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseApiURL+path, body)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("commerce error %d: %s", resp.StatusCode, string(b))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode commerce response: %w", err)
		}
	}
	return nil
}

func (c *commerceClientImpl) ListCart(ctx context.Context, customerID string) ([]model.CartLine, error) {
	var res struct {
		Lines []model.CartLine `json:"lines"`
	}
	if err := c.do(ctx, http.MethodGet, "/carts/"+customerID, nil, &res); err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return res.Lines, nil
}

func (c *commerceClientImpl) AddCartItem(ctx context.Context, customerID, productID string, quantity int32, unitPrice decimal.Decimal, currency string) error {
	payload := map[string]interface{}{
		"product_id": productID,
		"quantity":   quantity,
		"unit_price": unitPrice.StringFixed(2),
		"currency":   currency,
	}
	if err := c.do(ctx, http.MethodPost, "/carts/"+customerID+"/items", payload, nil); err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

func (c *commerceClientImpl) UpdateCartQuantity(ctx context.Context, customerID, lineID string, quantity int32) error {
	payload := map[string]interface{}{"quantity": quantity}
	if err := c.do(ctx, http.MethodPatch, "/carts/"+customerID+"/items/"+lineID, payload, nil); err != nil {
		return fmt.Errorf("update cart quantity: %w", err)
	}
	return nil
}

func (c *commerceClientImpl) RemoveCartItem(ctx context.Context, customerID, lineID string) error {
	if err := c.do(ctx, http.MethodDelete, "/carts/"+customerID+"/items/"+lineID, nil, nil); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

func (c *commerceClientImpl) CartTotal(ctx context.Context, customerID string) (decimal.Decimal, string, error) {
	var res struct {
		Total    string `json:"total"`
		Currency string `json:"currency"`
	}
	if err := c.do(ctx, http.MethodGet, "/carts/"+customerID+"/total", nil, &res); err != nil {
		return decimal.Zero, "", fmt.Errorf("cart total: %w", err)
	}
	total, err := decimal.NewFromString(res.Total)
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("parse cart total: %w", err)
	}
	return total, res.Currency, nil
}

func (c *commerceClientImpl) CreateOrder(ctx context.Context, draft *OrderDraftRequest) (string, error) {
	var res struct {
		OrderNumber string `json:"order_number"`
	}
	if err := c.do(ctx, http.MethodPost, "/orders", draft, &res); err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	if res.OrderNumber == "" {
		return "", fmt.Errorf("commerce backend returned empty order number")
	}
	return res.OrderNumber, nil
}
