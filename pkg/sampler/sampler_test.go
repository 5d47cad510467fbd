package sampler

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dns-speedtest/pkg/probe"
)

var errProbeFailed = errors.New("probe failed")

// scriptedProbe replays a fixed sequence of outcomes.
type scriptedProbe struct {
	outcomes []probe.Outcome
	calls    int
	domains  []string
}

func (s *scriptedProbe) Probe(ctx context.Context, domain string) probe.Outcome {
	s.domains = append(s.domains, domain)
	if s.calls >= len(s.outcomes) {
		return probe.Outcome{Err: errProbeFailed}
	}
	out := s.outcomes[s.calls]
	s.calls++
	return out
}

func ok(ms int) probe.Outcome {
	return probe.Outcome{Duration: time.Duration(ms) * time.Millisecond}
}

func fail() probe.Outcome {
	return probe.Outcome{Err: errProbeFailed}
}

func TestSampleAllSuccessful(t *testing.T) {
	p := &scriptedProbe{outcomes: []probe.Outcome{ok(10), ok(20)}}

	st := Sample(context.Background(), p, []string{"a.com", "b.com"}, 2)

	assert.InDelta(t, 15.0, st.Avg, 1e-9)
	assert.InDelta(t, 10.0, st.Min, 1e-9)
	assert.InDelta(t, 20.0, st.Max, 1e-9)
	assert.InDelta(t, 15.0, st.Median, 1e-9)
	assert.InDelta(t, 100.0, st.SuccessRate, 1e-9)
	assert.Equal(t, 2, st.Successes)
	assert.False(t, st.Failed())
}

func TestSampleAllFailed(t *testing.T) {
	p := &scriptedProbe{outcomes: []probe.Outcome{fail(), fail()}}

	st := Sample(context.Background(), p, []string{"a.com", "b.com"}, 2)

	assert.True(t, st.Failed())
	assert.True(t, math.IsInf(st.Avg, 1))
	assert.True(t, math.IsInf(st.Min, 1))
	assert.True(t, math.IsInf(st.Max, 1))
	assert.True(t, math.IsInf(st.Median, 1))
	assert.Zero(t, st.SuccessRate)
}

func TestSamplePartialSuccess(t *testing.T) {
	p := &scriptedProbe{outcomes: []probe.Outcome{ok(15), fail()}}

	st := Sample(context.Background(), p, []string{"a.com", "b.com"}, 2)

	assert.InDelta(t, 15.0, st.Avg, 1e-9)
	assert.InDelta(t, 15.0, st.Min, 1e-9)
	assert.InDelta(t, 15.0, st.Max, 1e-9)
	assert.InDelta(t, 15.0, st.Median, 1e-9)
	assert.InDelta(t, 50.0, st.SuccessRate, 1e-9)
	assert.False(t, st.Failed())
}

func TestSampleRequestedCountIsDenominator(t *testing.T) {
	// 5 probes requested against a 2-domain list: both answers still
	// only prove 2 out of 5.
	p := &scriptedProbe{outcomes: []probe.Outcome{ok(10), ok(10)}}

	st := Sample(context.Background(), p, []string{"a.com", "b.com"}, 5)

	assert.Equal(t, 2, p.calls)
	assert.InDelta(t, 40.0, st.SuccessRate, 1e-9)
	assert.Equal(t, 5, st.Requested)
}

func TestSampleCapsDomainList(t *testing.T) {
	p := &scriptedProbe{outcomes: []probe.Outcome{ok(10), ok(20), ok(30)}}

	st := Sample(context.Background(), p, []string{"a.com", "b.com", "c.com", "d.com"}, 3)

	require.Equal(t, []string{"a.com", "b.com", "c.com"}, p.domains)
	assert.InDelta(t, 100.0, st.SuccessRate, 1e-9)
}

func TestSampleMedianOddCount(t *testing.T) {
	p := &scriptedProbe{outcomes: []probe.Outcome{ok(10), ok(50), ok(20)}}

	st := Sample(context.Background(), p, []string{"a", "b", "c"}, 3)

	assert.InDelta(t, 20.0, st.Median, 1e-9)
	assert.InDelta(t, 10.0, st.Min, 1e-9)
	assert.InDelta(t, 50.0, st.Max, 1e-9)
}

func TestSampleMedianEvenCount(t *testing.T) {
	p := &scriptedProbe{outcomes: []probe.Outcome{ok(10), ok(20), ok(40), ok(80)}}

	st := Sample(context.Background(), p, []string{"a", "b", "c", "d"}, 4)

	assert.InDelta(t, 30.0, st.Median, 1e-9)
}

func TestSampleEmptyDomains(t *testing.T) {
	p := &scriptedProbe{}

	st := Sample(context.Background(), p, nil, 5)

	assert.Zero(t, p.calls)
	assert.True(t, st.Failed())
	assert.True(t, math.IsInf(st.Avg, 1))
	assert.Zero(t, st.SuccessRate)
}

func TestSampleZeroCount(t *testing.T) {
	p := &scriptedProbe{outcomes: []probe.Outcome{ok(10)}}

	st := Sample(context.Background(), p, []string{"a.com"}, 0)

	assert.Zero(t, p.calls)
	assert.True(t, st.Failed())
}

func TestSampleStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &scriptedProbe{outcomes: []probe.Outcome{ok(10), ok(10)}}
	st := Sample(ctx, p, []string{"a.com", "b.com"}, 2)

	assert.Zero(t, p.calls)
	assert.True(t, st.Failed())
}

func TestStatsInvariants(t *testing.T) {
	p := &scriptedProbe{outcomes: []probe.Outcome{ok(12), ok(7), fail(), ok(31), ok(7)}}

	st := Sample(context.Background(), p, []string{"a", "b", "c", "d", "e"}, 5)

	assert.LessOrEqual(t, st.Min, st.Median)
	assert.LessOrEqual(t, st.Median, st.Max)
	assert.LessOrEqual(t, st.Min, st.Avg)
	assert.LessOrEqual(t, st.Avg, st.Max)
	assert.GreaterOrEqual(t, st.SuccessRate, 0.0)
	assert.LessOrEqual(t, st.SuccessRate, 100.0)
}
