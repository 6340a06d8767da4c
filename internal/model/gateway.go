package model

// Wire shapes for the redirect-based payment gateway.

type GatewayLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

type GatewayAmount struct {
	Currency string `json:"currency_code"`
	Value    string `json:"value"`
}

type GatewayPayerName struct {
	GivenName string `json:"given_name"`
	Surname   string `json:"surname"`
}

type GatewayPayer struct {
	PayerID string           `json:"payer_id"`
	Email   string           `json:"email_address"`
	Name    GatewayPayerName `json:"name"`
}

// GatewayOrderResult is the gateway's response to a checkout-session
// creation; the approval URL hides in the links list under rel "approve".
type GatewayOrderResult struct {
	ID     string        `json:"id"`
	Status string        `json:"status"`
	Links  []GatewayLink `json:"links"`
}

type GatewayCapture struct {
	ID         string        `json:"id"`
	Status     string        `json:"status"`
	CreateTime string        `json:"create_time"`
	Final      bool          `json:"final_capture"`
	Amount     GatewayAmount `json:"amount"`
}

type GatewayPayments struct {
	Captures []GatewayCapture `json:"captures"`
}

type GatewayPurchaseUnit struct {
	ReferenceID string          `json:"reference_id"`
	Payments    GatewayPayments `json:"payments"`
}

// GatewayCaptureResult is the gateway's capture response. Status carries
// the business-level indicator; the capture payload under PurchaseUnits
// may be absent even when Status reports success, and the two cases are
// treated differently downstream.
type GatewayCaptureResult struct {
	ID            string                `json:"id"`
	Status        string                `json:"status"`
	Payer         GatewayPayer          `json:"payer"`
	PurchaseUnits []GatewayPurchaseUnit `json:"purchase_units"`
}

const GatewayStatusCompleted = "COMPLETED"
