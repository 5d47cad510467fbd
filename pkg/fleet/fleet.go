// Package fleet fans resolver samplings out across a bounded set of
// workers and collects per-resolver statistics as they complete.
package fleet

import (
	"context"
	"sync"
	"time"

	"dns-speedtest/pkg/config"
	"dns-speedtest/pkg/logging"
	"dns-speedtest/pkg/probe"
	"dns-speedtest/pkg/sampler"
	"dns-speedtest/pkg/telemetry"
)

// ProbeFactory builds the probe for one resolver address. The transport
// (UDP or DoH) is fixed per run, so the factory is chosen once by the
// caller and the fleet stays transport-agnostic.
type ProbeFactory func(address string) probe.Probe

// Tester runs one sampling task per resolver with at most Concurrency
// tasks in flight. Construct the struct directly; the zero value of the
// optional fields is usable.
type Tester struct {
	// NewProbe builds the per-resolver probe. Required.
	NewProbe ProbeFactory

	// Concurrency bounds simultaneous resolver samplings. Values below 1
	// are treated as 1.
	Concurrency int

	// OnResult, when set, receives each resolver's stats as its task
	// completes, in completion order. It is called from worker
	// goroutines, one call at a time, and has no effect on the returned
	// results.
	OnResult func(name string, st sampler.Stats)

	// Logger defaults to the global logger.
	Logger *logging.Logger

	// Metrics, when set, records probe counts and sample durations.
	Metrics *telemetry.Metrics
}

// Run samples every resolver and returns the stats keyed by resolver
// name. Insertion order is completion order; callers must not infer
// configuration order from the map.
//
// A task that panics is logged and recorded as the zero-success
// sentinel without disturbing the other tasks. Cancelling ctx abandons
// queued and in-flight work promptly: the returned map holds exactly
// the resolvers that finished before cancellation was observed.
func (t *Tester) Run(ctx context.Context, resolvers []config.Resolver, domains []string, count int) map[string]sampler.Stats {
	concurrency := t.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	results := make(map[string]sampler.Stats, len(resolvers))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	for _, r := range resolvers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			st := t.sampleOne(ctx, r, domains, count)
			if ctx.Err() != nil {
				// Abandoned mid-sample; only resolvers that finished
				// cleanly are reported.
				return
			}

			mu.Lock()
			results[r.Name] = st
			if t.OnResult != nil {
				t.OnResult(r.Name, st)
			}
			mu.Unlock()
		}()
	}

	wg.Wait()
	return results
}

// sampleOne runs a single resolver's sample with panic isolation: an
// unexpected fault in one task must not abort the rest of the run.
func (t *Tester) sampleOne(ctx context.Context, r config.Resolver, domains []string, count int) (st sampler.Stats) {
	defer func() {
		if rec := recover(); rec != nil {
			t.logger().Error("resolver sampling task failed",
				"resolver", r.Name,
				"address", r.Address,
				"panic", rec,
			)
			st = sampler.Sentinel(count)
		}
	}()

	t.logger().Debug("sampling resolver", "resolver", r.Name, "address", r.Address)

	start := time.Now()
	st = sampler.Sample(ctx, t.NewProbe(r.Address), domains, count)
	t.Metrics.RecordSample(ctx, r.Name, st.Successes, st.Requested, time.Since(start))

	return st
}

func (t *Tester) logger() *logging.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return logging.Global()
}
