package host

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrUnknownHost is returned by registry operations referencing a host that
// was not configured at startup.
var ErrUnknownHost = errors.New("host not found in registry")

// State is the monitored state of a single host.
type State struct {
	// Up is the current reachability state.  Hosts start optimistic.
	Up bool

	// FailCount counts consecutive failed probe cycles.  It resets to 0 on
	// a successful probe and at the start of each reporting period.
	FailCount int

	// LastAlertAt is when the most recent CRITICAL alert was sent for this
	// host.  The zero time means no alert has ever been sent.
	LastAlertAt time.Time
}

// Registry is a thread-safe mapping from hostname to State.  The host set is
// fixed at construction; entries are never added or removed afterwards.
// Mutations to a single host's state tuple are atomic with respect to
// concurrent readers and writers, but a multi-host snapshot may observe
// different hosts at slightly different instants.
type Registry struct {
	mu     sync.RWMutex
	states map[string]*State
	names  []string
}

// NewRegistry creates a Registry with one entry per hostname, all initially
// up with zero failures.  Duplicate names collapse to a single entry.
func NewRegistry(hosts []string) *Registry {
	r := &Registry{
		states: make(map[string]*State, len(hosts)),
	}
	for _, h := range hosts {
		if _, ok := r.states[h]; ok {
			continue
		}
		r.states[h] = &State{Up: true}
		r.names = append(r.names, h)
	}
	sort.Strings(r.names)
	return r
}

// Hosts returns the configured hostnames in sorted order.
func (r *Registry) Hosts() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Get returns the current state of host.
func (r *Registry) Get(host string) (State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.states[host]
	if !ok {
		return State{}, ErrUnknownHost
	}
	return *st, nil
}

// SetUp sets the reachability state of host.  Marking a host up also resets
// its failure count, preserving the invariant that FailCount is 0 whenever
// Up is true.
func (r *Registry) SetUp(host string, up bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.states[host]
	if !ok {
		return ErrUnknownHost
	}
	st.Up = up
	if up {
		st.FailCount = 0
	}
	return nil
}

// IncrementFail adds one to the host's consecutive-failure counter and
// returns the new count.
func (r *Registry) IncrementFail(host string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.states[host]
	if !ok {
		return 0, ErrUnknownHost
	}
	st.FailCount++
	return st.FailCount, nil
}

// ResetFail zeroes the host's failure counter.
func (r *Registry) ResetFail(host string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.states[host]
	if !ok {
		return ErrUnknownHost
	}
	st.FailCount = 0
	return nil
}

// ResetAllFail zeroes every host's failure counter.  Run after each report
// so the next report's counts cover only the most recent period.
func (r *Registry) ResetAllFail() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, st := range r.states {
		st.FailCount = 0
	}
}

// RecordAlertTime stamps the host's last-alert time.
func (r *Registry) RecordAlertTime(host string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.states[host]
	if !ok {
		return ErrUnknownHost
	}
	st.LastAlertAt = now
	return nil
}

// Apply atomically replaces the host's state tuple.  It exists so callers
// that compute a new state from a probe result can install it in one step
// rather than through a series of field updates.
func (r *Registry) Apply(host string, st State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.states[host]
	if !ok {
		return ErrUnknownHost
	}
	*cur = st
	return nil
}

// Snapshot returns a copy of every host's state keyed by hostname.  Each
// host's tuple is internally consistent; cross-host consistency is not
// guaranteed (hosts are independent).
func (r *Registry) Snapshot() map[string]State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(map[string]State, len(r.states))
	for name, st := range r.states {
		snap[name] = *st
	}
	return snap
}
