package dto

type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int32  `json:"quantity" validate:"gte=1"`
	UnitPrice string `json:"unit_price" validate:"required"`
	Currency  string `json:"currency" validate:"required,len=3"`
}

type UpdateCartQuantityRequest struct {
	Quantity int32 `json:"quantity" validate:"gte=0"`
}

type StartCheckoutRequest struct {
	AddressSource string `json:"address_source" validate:"required,oneof=PROFILE CHECKOUT"`
}

type StartCheckoutResponse struct {
	OrderNumber      string `json:"order_number"`
	GatewayOrderID   string `json:"gateway_order_id"`
	OrderApprovalURL string `json:"order_approval_url"`
}

// CheckoutOutcomeResponse renders a terminal settlement state. ChargeAdvice
// spells out whether the payment method may have been charged; on the
// capture path a wrong guess has financial consequences, so it is always
// explicit.
type CheckoutOutcomeResponse struct {
	State         string `json:"state"`
	OrderNumber   string `json:"order_number,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	Amount        string `json:"amount,omitempty"`
	Currency      string `json:"currency,omitempty"`
	PaymentDate   string `json:"payment_date,omitempty"`
	PayerName     string `json:"payer_name,omitempty"`
	PayerEmail    string `json:"payer_email,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
	ChargeAdvice  string `json:"charge_advice"`
	NextStep      string `json:"next_step"`
}

type CartResponse struct {
	Lines    []CartLineResponse `json:"lines"`
	Count    int                `json:"count"`
	Total    string             `json:"total"`
	Currency string             `json:"currency"`
}

type CartLineResponse struct {
	LineID    string `json:"line_id"`
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Currency  string `json:"currency"`
}

type OrderResponse struct {
	OrderNumber   string `json:"order_number"`
	Status        string `json:"status"`
	TotalAmount   string `json:"total_amount"`
	Currency      string `json:"currency"`
	CaptureID     string `json:"capture_id,omitempty"`
	AddressSource string `json:"address_source"`
	CreatedAt     string `json:"created_at"`
}
