package monitor

import (
	"time"

	"github.com/google/uuid"
)

// AlertKind distinguishes the two alert messages the monitor emits.
type AlertKind uint8

const (
	AlertCritical AlertKind = iota
	AlertRecovery
)

func (k AlertKind) String() string {
	switch k {
	case AlertCritical:
		return "CRITICAL"
	case AlertRecovery:
		return "RECOVERY"
	default:
		return "UNKNOWN"
	}
}

// Alert is a single notification event for a host state transition.
type Alert struct {
	ID   uuid.UUID
	Kind AlertKind
	Host string

	// FailCount is the host's consecutive-failure count at the moment the
	// alert fired.  For recovery alerts this is the count accumulated during
	// the down-streak, captured before it is reset.
	FailCount int

	Time time.Time
}

func newAlert(kind AlertKind, hostname string, failCount int, now time.Time) *Alert {
	return &Alert{
		ID:        uuid.New(),
		Kind:      kind,
		Host:      hostname,
		FailCount: failCount,
		Time:      now,
	}
}
