package monitor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hostmon/hostmon/host"
)

// renderAlert produces the subject and plain-text body for an alert message.
func renderAlert(a *Alert) (subject, body string) {
	var b strings.Builder

	switch a.Kind {
	case AlertRecovery:
		subject = fmt.Sprintf("RECOVERED: Host %s is back online", a.Host)
		b.WriteString("Host Monitor Alert - RECOVERY\n\n")
		b.WriteString("The following host has recovered and is now reachable:\n")
		fmt.Fprintf(&b, "Host: %s\n", a.Host)
		fmt.Fprintf(&b, "Time: %s\n", a.Time.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&b, "Total failures: %d\n", a.FailCount)
	default:
		subject = fmt.Sprintf("CRITICAL: Host %s is DOWN", a.Host)
		b.WriteString("Host Monitor Alert - CRITICAL\n\n")
		b.WriteString("The following host is currently unreachable:\n")
		fmt.Fprintf(&b, "Host: %s\n", a.Host)
		fmt.Fprintf(&b, "Time: %s\n", a.Time.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&b, "Failure count: %d\n\n", a.FailCount)
		b.WriteString("Please check the host immediately.\n")
	}

	return subject, b.String()
}

// renderReport produces the subject and body for the periodic summary over a
// registry snapshot.  Hosts appear in sorted order so successive reports are
// directly comparable.
func renderReport(snapshot map[string]host.State, now time.Time) (subject, body string) {
	names := make([]string, 0, len(snapshot))
	up := 0
	for name, st := range snapshot {
		names = append(names, name)
		if st.Up {
			up++
		}
	}
	sort.Strings(names)

	subject = fmt.Sprintf("Daily Host Status Report - %s", now.Format("2006-01-02"))

	var b strings.Builder
	b.WriteString("Host Monitor - Daily Status Report\n\n")
	fmt.Fprintf(&b, "Report Time: %s\n\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString("Host Status Summary:\n")
	fmt.Fprintf(&b, "Total hosts monitored: %d\n", len(snapshot))
	fmt.Fprintf(&b, "Hosts UP: %d\n", up)
	fmt.Fprintf(&b, "Hosts DOWN: %d\n\n", len(snapshot)-up)

	b.WriteString("Detailed Status:\n")
	for _, name := range names {
		st := snapshot[name]
		if st.Up {
			fmt.Fprintf(&b, "%s: UP - Failures in last period: %d\n", name, st.FailCount)
		} else {
			fmt.Fprintf(&b, "%s: DOWN - Current failure count: %d\n", name, st.FailCount)
		}
	}

	b.WriteString("\n\nThis is an automated report from Host Monitor.")

	return subject, b.String()
}
