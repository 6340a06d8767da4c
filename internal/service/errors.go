package service

import "errors"

var (
	// ErrEmptyCart blocks checkout before any network call is made.
	ErrEmptyCart = errors.New("cart is empty, nothing to check out")

	// ErrOrderCreation means the commerce backend rejected the order or was
	// unreachable. Retryable by re-attempting order intake.
	ErrOrderCreation = errors.New("order creation failed")

	// ErrGatewaySession means the gateway session could not be created or
	// its correlation record could not be persisted. The order remains
	// valid; session creation may be retried without recreating it.
	ErrGatewaySession = errors.New("gateway checkout session failed")

	// ErrMissingCallbackParams covers a malformed return URL or a missing
	// correlation record. Not retryable; the checkout must be restarted.
	ErrMissingCallbackParams = errors.New("missing gateway callback parameters")

	// ErrCaptureFailed is an explicit business-level capture failure.
	ErrCaptureFailed = errors.New("payment capture failed")

	// ErrCaptureUnknown means the gateway asserted success without payment
	// data. Never retried automatically: a retry could double-charge.
	ErrCaptureUnknown = errors.New("payment outcome unknown")

	ErrIllegalTransition = errors.New("illegal settlement state transition")
)
