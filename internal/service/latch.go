package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"craftshop-checkout/internal/model"
)

// attemptRetention keeps a finished attempt visible long enough for slow
// duplicate tabs to re-mount and read the shared outcome. After eviction the
// consumed correlation record keeps a fresh activation away from the capture
// endpoint, so at-most-once still holds.
const attemptRetention = 30 * time.Minute

// captureLatch guarantees at most one settlement run per (token, payerId)
// pair. Registration is a synchronous check-and-set under the mutex, taken
// before any capture call is issued: two near-simultaneous activations can
// never both observe an unset latch.
type captureLatch struct {
	mu        sync.Mutex
	attempts  map[string]*captureAttempt
	retention time.Duration
}

func newCaptureLatch() *captureLatch {
	return &captureLatch{
		attempts:  make(map[string]*captureAttempt),
		retention: attemptRetention,
	}
}

// begin returns the attempt for the pair and whether this caller owns it.
// Only the owner may run settlement; everyone else awaits its outcome.
func (l *captureLatch) begin(token, payerID string) (*captureAttempt, bool) {
	key := token + "|" + payerID

	l.mu.Lock()
	defer l.mu.Unlock()

	if attempt, ok := l.attempts[key]; ok {
		return attempt, false
	}
	attempt := &captureAttempt{
		key:   key,
		state: model.CheckoutStateIdle,
		done:  make(chan struct{}),
	}
	l.attempts[key] = attempt
	return attempt, true
}

// retire schedules eviction of a finished attempt so the map does not grow
// for the process lifetime.
func (l *captureLatch) retire(a *captureAttempt) {
	time.AfterFunc(l.retention, func() {
		l.mu.Lock()
		delete(l.attempts, a.key)
		l.mu.Unlock()
	})
}

type captureAttempt struct {
	key     string
	mu      sync.Mutex
	state   model.CheckoutState
	outcome *CheckoutOutcome
	done    chan struct{}
}

func (a *captureAttempt) transition(to model.CheckoutState) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !model.CanTransitionTo(a.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, a.state, to)
	}
	a.state = to
	return nil
}

func (a *captureAttempt) current() model.CheckoutState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// finish moves the attempt to the outcome's terminal state and records the
// outcome in one step, then releases awaiting activations. Both happen under
// one lock so no observer can see a terminal state with no outcome behind
// it. An attempt finishes exactly once; the outcome is recorded even when
// the activation that started it has already navigated away.
func (a *captureAttempt) finish(outcome *CheckoutOutcome) {
	a.mu.Lock()
	if model.CanTransitionTo(a.state, outcome.State) {
		a.state = outcome.State
	}
	a.outcome = outcome
	a.mu.Unlock()
	close(a.done)
}

// await blocks until the owning activation finishes. The recorded outcome
// wins over a cancelled context; only while the attempt is genuinely
// unfinished does a dead context get a snapshot of the in-flight state, and
// that snapshot is never terminal. The settlement itself keeps running and
// records its outcome regardless.
func (a *captureAttempt) await(ctx context.Context) *CheckoutOutcome {
	select {
	case <-a.done:
	case <-ctx.Done():
		select {
		case <-a.done:
		default:
			return &CheckoutOutcome{State: a.current()}
		}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.outcome
}
