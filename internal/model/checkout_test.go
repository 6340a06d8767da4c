package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from CheckoutState
		to   CheckoutState
		want bool
	}{
		{"idle to capturing", CheckoutStateIdle, CheckoutStateCapturing, true},
		{"idle to cancelled", CheckoutStateIdle, CheckoutStateCancelled, true},
		{"idle to failed", CheckoutStateIdle, CheckoutStateFailed, true},
		{"idle to succeeded", CheckoutStateIdle, CheckoutStateSucceeded, false},
		{"idle to unknown", CheckoutStateIdle, CheckoutStateUnknown, false},
		{"capturing to succeeded", CheckoutStateCapturing, CheckoutStateSucceeded, true},
		{"capturing to failed", CheckoutStateCapturing, CheckoutStateFailed, true},
		{"capturing to unknown", CheckoutStateCapturing, CheckoutStateUnknown, true},
		{"capturing to cancelled", CheckoutStateCapturing, CheckoutStateCancelled, false},
		{"succeeded is terminal", CheckoutStateSucceeded, CheckoutStateCapturing, false},
		{"cancelled is terminal", CheckoutStateCancelled, CheckoutStateCapturing, false},
		{"failed is terminal", CheckoutStateFailed, CheckoutStateCapturing, false},
		{"unknown is terminal", CheckoutStateUnknown, CheckoutStateCapturing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionTo(tt.from, tt.to))
		})
	}
}

func TestCheckoutState_IsTerminal(t *testing.T) {
	assert.False(t, CheckoutStateIdle.IsTerminal())
	assert.False(t, CheckoutStateCapturing.IsTerminal())
	assert.True(t, CheckoutStateSucceeded.IsTerminal())
	assert.True(t, CheckoutStateCancelled.IsTerminal())
	assert.True(t, CheckoutStateFailed.IsTerminal())
	assert.True(t, CheckoutStateUnknown.IsTerminal())
}

func TestAddressSource_Valid(t *testing.T) {
	assert.True(t, AddressFromProfile.Valid())
	assert.True(t, AddressDuringCheckout.Valid())
	assert.False(t, AddressSource("MAIL").Valid())
	assert.False(t, AddressSource("").Valid())
}
