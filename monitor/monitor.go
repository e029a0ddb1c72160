package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/hostmon/hostmon/host"
	"github.com/hostmon/hostmon/notify"
	"github.com/hostmon/hostmon/probe"
)

// Monitor runs probe cycles against a fixed host registry and dispatches
// alerts and periodic reports through a Notifier.  It is safe for the
// scheduled cycles and any manual-trigger path (CLI flag, HTTP API) to call
// into it concurrently; the registry serializes per-host mutation.
type Monitor struct {
	Registry  *host.Registry
	Prober    probe.Prober
	Evaluator Evaluator
	Notifier  notify.Notifier

	// Recipients receive every alert and report.
	Recipients []string

	// MaxConcurrentProbes bounds the per-host fan-out of a check cycle.
	// Zero means unbounded.
	MaxConcurrentProbes int

	// NotifyTimeout bounds a single notification delivery.  Zero means the
	// notifier's own timeout (if any) is the only bound.
	NotifyTimeout time.Duration

	Logger *log.Logger
}

func (m *Monitor) logger() *log.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return log.Default()
}

// CheckCycle probes every host concurrently, applies the resulting state
// transitions and sends any alerts that are due.  A failure in one host's
// probe or alert dispatch never aborts the others; all per-host errors are
// collected and returned as one.
func (m *Monitor) CheckCycle(ctx context.Context) error {
	m.logger().Printf("Checking host status via TCP...")

	g := &errgroup.Group{}
	if m.MaxConcurrentProbes > 0 {
		g.SetLimit(m.MaxConcurrentProbes)
	}

	var mu sync.Mutex
	var errs error

	for _, h := range m.Registry.Hosts() {
		h := h
		g.Go(func() error {
			if err := m.checkHost(ctx, h); err != nil {
				mu.Lock()
				errs = multierror.Append(errs, fmt.Errorf("host %s: %w", h, err))
				mu.Unlock()
			}
			return nil
		})
	}

	g.Wait()

	if errs != nil {
		m.logger().Printf("check cycle finished with errors: %v", errs)
	}
	return errs
}

func (m *Monitor) checkHost(ctx context.Context, hostname string) error {
	st, err := m.Registry.Get(hostname)
	if err != nil {
		return err
	}

	reachable := m.Prober.Probe(ctx, hostname)
	now := time.Now()

	out := m.Evaluator.Evaluate(hostname, st, reachable, now)

	switch {
	case st.Up && !out.State.Up:
		m.logger().Printf("Host %s is DOWN", hostname)
	case !st.Up && out.State.Up:
		m.logger().Printf("Host %s recovered", hostname)
	case !out.State.Up:
		m.logger().Printf("Host %s still DOWN. Failure count: %d", hostname, out.State.FailCount)
	}

	if err := m.Registry.Apply(hostname, out.State); err != nil {
		return err
	}

	if out.Alert != nil {
		return m.dispatchAlert(ctx, out.Alert)
	}
	return nil
}

// ReportCycle renders the summary over a registry snapshot, dispatches it,
// and resets every host's failure counter so the next report covers only the
// upcoming period.  The reset happens even when delivery fails; a delivery
// failure is logged and must not leak counts into the next period.  Up/down
// status is never altered.
func (m *Monitor) ReportCycle(ctx context.Context) error {
	m.logger().Printf("Generating daily status report")

	subject, body := renderReport(m.Registry.Snapshot(), time.Now())

	err := m.send(ctx, subject, body)
	if err != nil {
		m.logger().Printf("failed to send report: %v", err)
	} else {
		m.logger().Printf("Daily status report sent successfully")
	}

	m.Registry.ResetAllFail()
	return err
}

// SimulateDown forces a host into the down state and sends a CRITICAL alert
// unconditionally, bypassing the throttle window.  Operational override for
// testing the alerting path end to end; an unknown host is a logged no-op.
func (m *Monitor) SimulateDown(ctx context.Context, hostname string) error {
	st, err := m.Registry.Get(hostname)
	if err != nil {
		if errors.Is(err, host.ErrUnknownHost) {
			m.logger().Printf("Cannot simulate down status: host not found: %s", hostname)
		}
		return err
	}

	if err := m.Registry.SetUp(hostname, false); err != nil {
		return err
	}

	m.logger().Printf("Simulated down status for host: %s", hostname)
	return m.dispatchAlert(ctx, newAlert(AlertCritical, hostname, st.FailCount, time.Now()))
}

func (m *Monitor) dispatchAlert(ctx context.Context, a *Alert) error {
	subject, body := renderAlert(a)

	if err := m.send(ctx, subject, body); err != nil {
		m.logger().Printf("failed to send %s alert for host %s: %v", a.Kind, a.Host, err)
		return err
	}

	m.logger().Printf("Sent %s alert %s for host: %s", a.Kind, a.ID, a.Host)
	return nil
}

func (m *Monitor) send(ctx context.Context, subject, body string) error {
	if m.NotifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.NotifyTimeout)
		defer cancel()
	}
	return m.Notifier.Send(ctx, subject, body, m.Recipients)
}
