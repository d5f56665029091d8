package actions

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/five82/stayer/internal/state"
)

// ClearPolicy decides how overlapping error clears interact.
type ClearPolicy int

const (
	// ClearIndependent gives every failure its own timer. Each timer clears
	// whatever message is current when it fires, so an older timer can cut a
	// newer message short.
	ClearIndependent ClearPolicy = iota
	// ClearSupersede cancels pending clears when a newer error is reported.
	ClearSupersede
)

func (p ClearPolicy) String() string {
	if p == ClearSupersede {
		return "supersede"
	}
	return "independent"
}

// ParseClearPolicy maps "independent" or "supersede" to a policy.
func ParseClearPolicy(value string) (ClearPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "independent":
		return ClearIndependent, nil
	case "supersede":
		return ClearSupersede, nil
	default:
		return ClearIndependent, fmt.Errorf("unknown error policy %q", value)
	}
}

// errorReporter sets the store's error message and schedules its removal.
type errorReporter struct {
	store  *state.Store
	delay  time.Duration
	policy ClearPolicy

	mu      sync.Mutex
	pending map[uuid.UUID]*time.Timer
}

func newErrorReporter(store *state.Store, delay time.Duration, policy ClearPolicy) *errorReporter {
	return &errorReporter{
		store:   store,
		delay:   delay,
		policy:  policy,
		pending: make(map[uuid.UUID]*time.Timer),
	}
}

// report shows message and returns the id of its scheduled clear.
func (r *errorReporter) report(message string) uuid.UUID {
	id := uuid.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.policy == ClearSupersede {
		r.cancelAllLocked()
	}
	r.store.SetError(message)
	r.pending[id] = time.AfterFunc(r.delay, func() { r.fire(id) })
	return id
}

func (r *errorReporter) fire(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// A superseded timer may already be running when it is stopped.
	if _, ok := r.pending[id]; !ok {
		return
	}
	delete(r.pending, id)
	r.store.ClearError()
}

// cancel stops the clear scheduled for id. It reports whether the clear was
// still pending.
func (r *errorReporter) cancel(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	timer, ok := r.pending[id]
	if !ok {
		return false
	}
	timer.Stop()
	delete(r.pending, id)
	return true
}

func (r *errorReporter) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelAllLocked()
}

func (r *errorReporter) cancelAllLocked() {
	for id, timer := range r.pending {
		timer.Stop()
		delete(r.pending, id)
	}
}

func (r *errorReporter) pendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
