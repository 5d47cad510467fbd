package probe

import (
	"context"
	"fmt"
	"net"
	"time"

	"dns-speedtest/pkg/wire"
)

// UDPProbe sends raw DNS queries over UDP and waits for a single
// datagram. The response is not parsed: any datagram from the resolver
// counts as success, which keeps success rates comparable with tools
// that measure reachability rather than answer quality.
type UDPProbe struct {
	addr    string
	timeout time.Duration
}

// NewUDP creates a probe for the given resolver address. A missing port
// defaults to 53.
func NewUDP(addr string, timeout time.Duration) *UDPProbe {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "53")
	}
	if timeout <= 0 {
		timeout = DefaultUDPTimeout
	}
	return &UDPProbe{addr: addr, timeout: timeout}
}

// Addr returns the resolver address the probe targets, including port.
func (p *UDPProbe) Addr() string {
	return p.addr
}

// Probe sends one query and blocks for exactly one datagram or the
// timeout. The socket is scoped to this call and closed on every path.
func (p *UDPProbe) Probe(ctx context.Context, domain string) Outcome {
	query, err := wire.Encode(domain)
	if err != nil {
		return Outcome{Err: fmt.Errorf("encode query: %w", err)}
	}

	dialer := &net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "udp", p.addr)
	if err != nil {
		return Outcome{Err: fmt.Errorf("dial %s: %w", p.addr, err)}
	}
	defer conn.Close()

	// Closing the socket unblocks the read when the caller cancels
	// mid-probe; otherwise the deadline is the sole failure detector.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := conn.SetDeadline(time.Now().Add(p.timeout)); err != nil {
		return Outcome{Err: fmt.Errorf("set deadline: %w", err)}
	}

	buf := make([]byte, maxResponseSize)
	start := time.Now()
	if _, err := conn.Write(query); err != nil {
		return Outcome{Err: fmt.Errorf("send query to %s: %w", p.addr, err)}
	}
	if _, err := conn.Read(buf); err != nil {
		return Outcome{Err: fmt.Errorf("receive from %s: %w", p.addr, err)}
	}
	return Outcome{Duration: time.Since(start)}
}
