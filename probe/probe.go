package probe

import (
	"context"
	"net"
	"strconv"
	"time"
)

// Prober reports whether a host is reachable.  Probe never returns an error:
// unreachability is the normal, expected outcome and is encoded in the bool.
type Prober interface {
	Probe(ctx context.Context, host string) bool
}

// Dialer abstracts connection establishment so tests can substitute a fake.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// TCPProber checks reachability by attempting to establish a TCP connection.
// Success is transport-level establishment only; no data is exchanged.
type TCPProber struct {
	// Port to connect to on every host.
	Port int

	// Timeout applies independently to each connection attempt.
	Timeout time.Duration

	// Retries is the maximum number of sequential attempts per probe.
	Retries int

	dialer Dialer
}

// SetDialer replaces the dialer used for connection attempts.  Used by tests.
func (p *TCPProber) SetDialer(d Dialer) {
	p.dialer = d
}

// Probe attempts up to Retries connections, returning true on the first
// success.  DNS failure, connection refusal and timeout all fold into the
// same false outcome; the prober does not distinguish them.
func (p *TCPProber) Probe(ctx context.Context, host string) bool {
	dialer := p.dialer
	if dialer == nil {
		dialer = &net.Dialer{Timeout: p.Timeout}
	}

	addr := net.JoinHostPort(host, strconv.Itoa(p.Port))

	for i := 0; i < p.Retries; i++ {
		attemptCtx, cancel := context.WithTimeout(ctx, p.Timeout)
		conn, err := dialer.DialContext(attemptCtx, "tcp", addr)
		cancel()

		if err == nil {
			conn.Close()
			return true
		}

		select {
		case <-ctx.Done():
			return false
		default:
		}
	}

	return false
}
