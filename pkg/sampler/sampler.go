// Package sampler runs a batch of probes against a single resolver and
// reduces the outcomes to summary statistics.
package sampler

import (
	"context"
	"math"

	"github.com/montanaflynn/stats"

	"dns-speedtest/pkg/probe"
)

// Stats summarizes the probes run against one resolver. Latencies are in
// milliseconds over successful probes only. A resolver that never
// answered carries +Inf in every latency field and a zero success rate;
// that sentinel sorts last in any ranking and is materialized only here,
// at the reporting boundary — failures never enter latency arithmetic.
type Stats struct {
	Avg         float64
	Min         float64
	Max         float64
	Median      float64
	SuccessRate float64
	Successes   int
	Requested   int
}

// Failed reports whether no probe against this resolver succeeded.
func (s Stats) Failed() bool {
	return s.Successes == 0
}

// Sentinel returns the all-infinite, zero-success stats recorded for a
// resolver that never answered.
func Sentinel(requested int) Stats {
	inf := math.Inf(1)
	return Stats{
		Avg:       inf,
		Min:       inf,
		Max:       inf,
		Median:    inf,
		Requested: requested,
	}
}

// Sample probes the first count domains sequentially with p and returns
// the aggregate. Probes within one resolver are deliberately not
// parallelized: that bounds the outbound burst per resolver and keeps
// its numbers free of self-inflicted contention.
//
// The success rate denominator is the requested count, not the number of
// domains actually available or attempted: a resolver asked for 5 probes
// that answers 5 times out of a 2-domain list still only proves 2
// answers. Cancellation stops between probes; an in-flight probe is
// aborted by its own context handling.
func Sample(ctx context.Context, p probe.Probe, domains []string, count int) Stats {
	if count < 0 {
		count = 0
	}
	if len(domains) > count {
		domains = domains[:count]
	}

	elapsed := make([]float64, 0, len(domains))
	for _, domain := range domains {
		if ctx.Err() != nil {
			break
		}
		outcome := p.Probe(ctx, domain)
		if !outcome.OK() {
			// The failed probe's partial timing is discarded, never reported.
			continue
		}
		elapsed = append(elapsed, outcome.Millis())
	}

	return summarize(elapsed, count)
}

// summarize reduces successful latencies to Stats. An empty input (or a
// zero requested count) yields the sentinel; 0/0 is defined as a 0%
// success rate rather than an error.
func summarize(elapsed []float64, requested int) Stats {
	if len(elapsed) == 0 || requested <= 0 {
		return Sentinel(requested)
	}

	// The stats functions only fail on empty input, which is guarded above.
	avg, _ := stats.Mean(elapsed)
	minimum, _ := stats.Min(elapsed)
	maximum, _ := stats.Max(elapsed)
	median, _ := stats.Median(elapsed)

	return Stats{
		Avg:         avg,
		Min:         minimum,
		Max:         maximum,
		Median:      median,
		SuccessRate: float64(len(elapsed)) / float64(requested) * 100,
		Successes:   len(elapsed),
		Requested:   requested,
	}
}
