package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"craftshop-checkout/internal/config"
	"craftshop-checkout/internal/model"
)

type GatewayClient interface {
	CreateCheckoutSession(ctx context.Context, order *model.Order, items []*model.OrderItem, serviceBaseUrl string) (*model.GatewayCheckoutSession, error)
	CaptureOrder(ctx context.Context, gatewayOrderID, payerID string) (*model.GatewayCaptureResult, error)
}

type gatewayClientImpl struct {
	httpClient          *http.Client
	baseApiURL          string
	gatewayClientID     string
	gatewayClientSecret string
}

func NewGatewayClient(gatewayCfg *config.Gateway) GatewayClient {
	return &gatewayClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:          gatewayCfg.BaseApiURL,
		gatewayClientID:     gatewayCfg.ClientID,
		gatewayClientSecret: gatewayCfg.ClientSecret,
	}
}

func (c *gatewayClientImpl) getAccessToken(ctx context.Context) (string, error) {
	auth := base64.StdEncoding.EncodeToString(
		[]byte(c.gatewayClientID + ":" + c.gatewayClientSecret),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+"/v1/oauth2/token",
		bytes.NewBufferString("grant_type=client_credentials"))
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	var res struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	return res.AccessToken, nil
}

// CreateCheckoutSession asks the gateway for a hosted checkout session for
// an already-created order. Line amounts are re-derived from the order's own
// items, never re-read from the cart, and the order number is embedded as
// the gateway-side reference so a gateway transaction can be mapped back to
// the order out of band.
func (c *gatewayClientImpl) CreateCheckoutSession(ctx context.Context, order *model.Order, items []*model.OrderItem, serviceBaseUrl string) (*model.GatewayCheckoutSession, error) {
	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get gateway access token: %w", err)
	}

	gatewayItems := make([]map[string]interface{}, len(items))
	for i, item := range items {
		gatewayItems[i] = map[string]interface{}{
			"sku":      item.ProductID,
			"name":     item.ProductID,
			"quantity": fmt.Sprintf("%d", item.Quantity),
			"unit_amount": map[string]string{
				"currency_code": item.Currency,
				"value":         item.UnitPrice.StringFixed(2),
			},
		}
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"reference_id": order.OrderNumber,
				"custom_id":    order.OrderNumber,
				"amount": map[string]interface{}{
					"currency_code": order.Currency,
					"value":         order.TotalAmount.StringFixed(2),
					"breakdown": map[string]interface{}{
						"item_total": map[string]string{
							"currency_code": order.Currency,
							"value":         order.TotalAmount.StringFixed(2),
						},
					},
				},
				"items": gatewayItems,
			},
		},
		"application_context": map[string]string{
			"return_url": fmt.Sprintf("%s/api/checkout/return", serviceBaseUrl),
			"cancel_url": fmt.Sprintf("%s/api/checkout/cancel", serviceBaseUrl),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/v2/checkout/orders",
		bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gateway error %d: %s", resp.StatusCode, string(b))
	}

	var result model.GatewayOrderResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}

	approvalURL := extractApprovalURL(result.Links)
	if approvalURL == "" {
		return nil, fmt.Errorf("gateway response has no approval link")
	}

	return &model.GatewayCheckoutSession{
		GatewayOrderID: result.ID,
		ApprovalURL:    approvalURL,
		OrderNumber:    order.OrderNumber,
	}, nil
}

func (c *gatewayClientImpl) CaptureOrder(ctx context.Context, gatewayOrderID, payerID string) (*model.GatewayCaptureResult, error) {
	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("get gateway access token: %w", err)
	}

	url := fmt.Sprintf(
		"%s/v2/checkout/orders/%s/capture",
		c.baseApiURL,
		gatewayOrderID,
	)

	body, err := json.Marshal(map[string]string{"payer_id": payerID})
	if err != nil {
		return nil, fmt.Errorf("marshal capture payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		url,
		bytes.NewBuffer(body),
	)
	if err != nil {
		return nil, fmt.Errorf("create capture request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway capture request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf(
			"gateway capture failed: status=%d body=%s",
			resp.StatusCode,
			string(b),
		)
	}

	var result model.GatewayCaptureResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode capture response: %w", err)
	}

	return &result, nil
}

func extractApprovalURL(links []model.GatewayLink) string {
	for _, link := range links {
		if link.Rel == "approve" {
			return link.Href
		}
	}
	return ""
}
