package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craftshop-checkout/internal/model"
)

func TestCaptureAttempt_RecordedOutcomeWinsOverDeadContext(t *testing.T) {
	latch := newCaptureLatch()
	attempt, owner := latch.begin("PAY-1", "P1")
	require.True(t, owner)

	require.NoError(t, attempt.transition(model.CheckoutStateCapturing))
	attempt.finish(&CheckoutOutcome{
		State:  model.CheckoutStateSucceeded,
		Result: &model.CaptureResult{TransactionID: "CAP-1"},
	})

	// both the done channel and the dead context are ready; the recorded
	// outcome must win
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcome := attempt.await(ctx)

	assert.Equal(t, model.CheckoutStateSucceeded, outcome.State)
	require.NotNil(t, outcome.Result)
	assert.Equal(t, "CAP-1", outcome.Result.TransactionID)
}

func TestCaptureAttempt_UnfinishedSnapshotIsNeverTerminal(t *testing.T) {
	latch := newCaptureLatch()
	attempt, owner := latch.begin("PAY-1", "P1")
	require.True(t, owner)
	require.NoError(t, attempt.transition(model.CheckoutStateCapturing))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcome := attempt.await(ctx)

	assert.False(t, outcome.State.IsTerminal())
	assert.Nil(t, outcome.Result)
}

func TestCaptureAttempt_FinishAppliesTerminalTransition(t *testing.T) {
	latch := newCaptureLatch()
	attempt, _ := latch.begin("PAY-1", "P1")
	require.NoError(t, attempt.transition(model.CheckoutStateCapturing))

	attempt.finish(&CheckoutOutcome{
		State:  model.CheckoutStateSucceeded,
		Result: &model.CaptureResult{TransactionID: "CAP-1"},
	})

	// the terminal state and the outcome become visible in one step
	assert.Equal(t, model.CheckoutStateSucceeded, attempt.current())
	outcome := attempt.await(context.Background())
	require.NotNil(t, outcome.Result)
}

func TestCaptureLatch_RetiresFinishedAttempts(t *testing.T) {
	latch := newCaptureLatch()
	latch.retention = time.Millisecond

	attempt, owner := latch.begin("PAY-1", "P1")
	require.True(t, owner)
	attempt.finish(&CheckoutOutcome{State: model.CheckoutStateFailed})
	latch.retire(attempt)

	assert.Eventually(t, func() bool {
		latch.mu.Lock()
		defer latch.mu.Unlock()
		return len(latch.attempts) == 0
	}, time.Second, 5*time.Millisecond)

	// an evicted pair registers a fresh attempt
	_, owner = latch.begin("PAY-1", "P1")
	assert.True(t, owner)
}

func TestCaptureLatch_RemountBeforeRetentionSharesOutcome(t *testing.T) {
	latch := newCaptureLatch()

	attempt, owner := latch.begin("PAY-1", "P1")
	require.True(t, owner)
	attempt.finish(&CheckoutOutcome{State: model.CheckoutStateFailed})
	latch.retire(attempt)

	same, owner := latch.begin("PAY-1", "P1")
	require.False(t, owner)
	assert.Equal(t, model.CheckoutStateFailed, same.await(context.Background()).State)
}
