package monitor

import (
	"time"

	"github.com/hostmon/hostmon/host"
)

// Evaluator computes a host's next state from a probe result.  It is a pure
// transition function; applying the resulting state to the registry is the
// caller's job.
type Evaluator struct {
	// Throttle is the minimum interval between repeated CRITICAL alerts for
	// the same host, measured from the host's last alert time.  Recovery
	// alerts are never throttled.
	Throttle time.Duration
}

// Outcome is the result of evaluating one probe for one host.
type Outcome struct {
	// State is the host's next state tuple.
	State host.State

	// Alert is the alert due for this transition, or nil.
	Alert *Alert
}

// Evaluate runs the per-host state machine:
//
//	up, unreachable    -> down, failures+1, CRITICAL if outside the throttle window
//	down, reachable    -> up, failures reset, RECOVERY (always)
//	down, unreachable  -> still down, failures+1, CRITICAL if outside the window
//	up, reachable      -> no-op
//
// The still-down branch uses the same throttle test as the initial failure,
// so a host that stays down past the throttle window re-alerts each time the
// window elapses.
func (e Evaluator) Evaluate(hostname string, st host.State, reachable bool, now time.Time) Outcome {
	next := st

	switch {
	case st.Up && !reachable:
		next.Up = false
		next.FailCount++
		if e.alertAllowed(st, now) {
			next.LastAlertAt = now
			return Outcome{State: next, Alert: newAlert(AlertCritical, hostname, next.FailCount, now)}
		}
		return Outcome{State: next}

	case !st.Up && reachable:
		next.Up = true
		next.FailCount = 0
		return Outcome{State: next, Alert: newAlert(AlertRecovery, hostname, st.FailCount, now)}

	case !st.Up && !reachable:
		next.FailCount++
		if e.alertAllowed(st, now) {
			next.LastAlertAt = now
			return Outcome{State: next, Alert: newAlert(AlertCritical, hostname, next.FailCount, now)}
		}
		return Outcome{State: next}

	default:
		return Outcome{State: next}
	}
}

// alertAllowed is true when no CRITICAL alert has ever been sent for the
// host, or the throttle window has fully elapsed since the last one.
func (e Evaluator) alertAllowed(st host.State, now time.Time) bool {
	if st.LastAlertAt.IsZero() {
		return true
	}
	return now.Sub(st.LastAlertAt) > e.Throttle
}
