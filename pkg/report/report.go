// Package report turns a run's per-resolver statistics into a ranked
// summary. Ranking requires a finite mean latency, so resolvers that
// never answered are excluded here and only here; the live progress
// stream still shows them.
package report

import (
	"math"
	"sort"

	"dns-speedtest/pkg/sampler"
)

// Entry pairs a resolver name with its statistics.
type Entry struct {
	Name  string
	Stats sampler.Stats
}

// Rank filters out resolvers with sentinel stats and returns the rest
// ordered by ascending mean latency. Results arrive keyed by name with
// no usable insertion order, so ties are broken by name to keep the
// ranking deterministic.
func Rank(results map[string]sampler.Stats) []Entry {
	entries := make([]Entry, 0, len(results))
	for name, st := range results {
		if st.Failed() || math.IsInf(st.Avg, 1) {
			continue
		}
		entries = append(entries, Entry{Name: name, Stats: st})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Stats.Avg < entries[j].Stats.Avg
	})

	return entries
}

// Top returns the first n ranked entries; n <= 0 returns all of them.
func Top(results map[string]sampler.Stats, n int) []Entry {
	ranked := Rank(results)
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}

// Best returns the fastest resolver, if any answered at all.
func Best(results map[string]sampler.Stats) (Entry, bool) {
	ranked := Rank(results)
	if len(ranked) == 0 {
		return Entry{}, false
	}
	return ranked[0], true
}
