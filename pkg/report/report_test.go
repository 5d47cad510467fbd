package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dns-speedtest/pkg/sampler"
)

func stat(avg, min, max, median, rate float64, successes int) sampler.Stats {
	return sampler.Stats{
		Avg:         avg,
		Min:         min,
		Max:         max,
		Median:      median,
		SuccessRate: rate,
		Successes:   successes,
		Requested:   successes,
	}
}

func sampleResults() map[string]sampler.Stats {
	return map[string]sampler.Stats{
		"A": stat(15, 10, 20, 15, 100, 2),
		"B": sampler.Sentinel(2),
		"C": stat(15, 15, 15, 15, 50, 1),
		"D": stat(8, 5, 12, 8, 100, 2),
	}
}

func TestRankExcludesSentinels(t *testing.T) {
	ranked := Rank(sampleResults())

	require.Len(t, ranked, 3)
	for _, e := range ranked {
		assert.False(t, e.Stats.Failed())
		assert.False(t, math.IsInf(e.Stats.Avg, 1))
		assert.NotEqual(t, "B", e.Name)
	}
}

func TestRankSortedByAvg(t *testing.T) {
	ranked := Rank(sampleResults())

	require.Len(t, ranked, 3)
	assert.Equal(t, "D", ranked[0].Name)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i].Stats.Avg, ranked[i-1].Stats.Avg)
	}
}

func TestRankTieBreakIsDeterministic(t *testing.T) {
	// A and C tie on avg; name order keeps repeated runs stable.
	ranked := Rank(sampleResults())
	assert.Equal(t, []string{"D", "A", "C"}, []string{ranked[0].Name, ranked[1].Name, ranked[2].Name})
}

func TestRankAllFailed(t *testing.T) {
	results := map[string]sampler.Stats{
		"X": sampler.Sentinel(5),
		"Y": sampler.Sentinel(5),
	}
	assert.Empty(t, Rank(results))
}

func TestTop(t *testing.T) {
	results := sampleResults()

	assert.Len(t, Top(results, 2), 2)
	assert.Len(t, Top(results, 0), 3)
	assert.Len(t, Top(results, -1), 3)
	assert.Len(t, Top(results, 10), 3)
	assert.Equal(t, "D", Top(results, 1)[0].Name)
}

func TestBest(t *testing.T) {
	best, ok := Best(sampleResults())
	require.True(t, ok)
	assert.Equal(t, "D", best.Name)

	_, ok = Best(map[string]sampler.Stats{"X": sampler.Sentinel(3)})
	assert.False(t, ok)
}

func TestRendererProgress(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Progress("Google DNS", stat(12.5, 10, 15, 12, 100, 5))
	r.Progress("Dead DNS", sampler.Sentinel(5))

	out := buf.String()
	assert.Contains(t, out, "Google DNS")
	assert.Contains(t, out, "12.50ms")
	assert.Contains(t, out, "Dead DNS")
	assert.Contains(t, out, "timeout/failure")
}

func TestRendererSummary(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Summary(sampleResults(), 2)

	out := buf.String()
	assert.Contains(t, out, "Fastest resolver: D")
	assert.Contains(t, out, "Rank")
	// Top 2 only; C is ranked third and B failed outright.
	assert.NotContains(t, out, "C ")
	assert.NotContains(t, out, "B ")
	// Ranked rows in order.
	assert.Less(t, strings.Index(out, " D "), strings.Index(out, " A "))
}

func TestRendererSummaryAllFailed(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Summary(map[string]sampler.Stats{"X": sampler.Sentinel(5)}, 0)

	assert.Contains(t, buf.String(), "No resolver answered any probe.")
}

func TestRendererHeaderAndAborted(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Header(20, 5)
	r.Aborted()

	out := buf.String()
	assert.Contains(t, out, "20 DNS resolvers")
	assert.Contains(t, out, "interrupted")
}
