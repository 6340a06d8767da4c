package model

import "github.com/shopspring/decimal"

// AddressSource decides where the shipping address for an order comes from.
// With AddressFromProfile the caller must already have confirmed the profile
// holds at least one saved address; with AddressDuringCheckout the order is
// submitted with blank address fields and the commerce backend collects them
// on its own follow-up step.
type AddressSource string

const (
	AddressFromProfile    AddressSource = "PROFILE"
	AddressDuringCheckout AddressSource = "CHECKOUT"
)

func (a AddressSource) Valid() bool {
	return a == AddressFromProfile || a == AddressDuringCheckout
}

// CartLine is a single cart row as returned by the commerce cart API.
// It is read-only to the checkout flow.
type CartLine struct {
	LineID    string          `json:"line_id"`
	ProductID string          `json:"product_id"`
	Quantity  int32           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Currency  string          `json:"currency"`
}

// GatewayCheckoutSession is the gateway-hosted session created for an order.
// GatewayOrderID and OrderNumber are persisted as the correlation record
// before the browser is handed the approval URL.
type GatewayCheckoutSession struct {
	GatewayOrderID string
	ApprovalURL    string
	OrderNumber    string
}

// CaptureResult is the settled outcome of a captured payment. Produced at
// most once per checkout attempt.
type CaptureResult struct {
	TransactionID string
	PaymentStatus string
	AmountPaid    decimal.Decimal
	Currency      string
	PaymentDate   string
	PayerName     string
	PayerEmail    string
}

// CheckoutState is the settlement state of a single return-leg activation.
type CheckoutState string

const (
	CheckoutStateIdle      CheckoutState = "IDLE"
	CheckoutStateCapturing CheckoutState = "CAPTURING"
	CheckoutStateSucceeded CheckoutState = "SUCCEEDED"
	CheckoutStateCancelled CheckoutState = "CANCELLED"
	CheckoutStateFailed    CheckoutState = "FAILED"
	CheckoutStateUnknown   CheckoutState = "UNKNOWN"
)

func (s CheckoutState) IsTerminal() bool {
	switch s {
	case CheckoutStateSucceeded, CheckoutStateCancelled, CheckoutStateFailed, CheckoutStateUnknown:
		return true
	}
	return false
}

// String representation (for logging)
func (s CheckoutState) String() string {
	return string(s)
}

// CanTransitionTo reports whether a settlement attempt may move from one
// state to another. Cancellation is reachable only from Idle: it never
// passes through Capturing because no capture call is made for it.
func CanTransitionTo(from, to CheckoutState) bool {
	switch from {
	case CheckoutStateIdle:
		return to == CheckoutStateCapturing || to == CheckoutStateCancelled || to == CheckoutStateFailed
	case CheckoutStateCapturing:
		return to == CheckoutStateSucceeded || to == CheckoutStateFailed || to == CheckoutStateUnknown
	default:
		return false
	}
}
