// Package probe implements single-shot DNS latency probes over plain UDP
// and DNS-over-HTTPS. Both transports share one contract: send one query,
// wait for one response or the timeout, report elapsed wall-clock time.
package probe

import (
	"context"
	"time"
)

// DefaultUDPTimeout matches the classic 2 second per-query budget for
// plain DNS; DoH gets an extra second for connection setup.
const (
	DefaultUDPTimeout = 2 * time.Second
	DefaultDoHTimeout = 3 * time.Second
)

// maxResponseSize bounds the receive buffer for UDP responses. The
// response is never parsed, so the buffer only needs to be large enough
// to drain one datagram.
const maxResponseSize = 1024

// Outcome is the result of a single probe. A failed probe carries the
// error that stopped it and no duration; failures must never feed
// latency arithmetic.
type Outcome struct {
	Duration time.Duration
	Err      error
}

// OK reports whether the probe received a response in time.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Millis returns the elapsed time in milliseconds.
func (o Outcome) Millis() float64 {
	return float64(o.Duration) / float64(time.Millisecond)
}

// Probe measures one query/response exchange against one resolver.
// Implementations recover every transport error into a failed Outcome;
// they never return an error to the caller.
type Probe interface {
	Probe(ctx context.Context, domain string) Outcome
}
