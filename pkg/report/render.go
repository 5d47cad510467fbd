package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"dns-speedtest/pkg/sampler"
)

// Renderer writes the live progress stream and the final summary table.
// Formatting is a presentation concern only; nothing here feeds back
// into the measurements.
type Renderer struct {
	out io.Writer

	failed    *color.Color
	highlight *color.Color
	dim       *color.Color
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:       out,
		failed:    color.New(color.FgRed),
		highlight: color.New(color.FgGreen, color.Bold),
		dim:       color.New(color.Faint),
	}
}

// Header prints the run banner before the first probe goes out.
func (r *Renderer) Header(resolvers, queries int) {
	fmt.Fprintf(r.out, "Testing %d DNS resolvers, %d queries each\n", resolvers, queries)
	fmt.Fprintln(r.out, strings.Repeat("-", 72))
}

// Progress prints one resolver's line as its sampling completes. Fully
// failed resolvers are shown here even though the final ranking drops
// them.
func (r *Renderer) Progress(name string, st sampler.Stats) {
	if st.Failed() {
		fmt.Fprintf(r.out, "%-24s | %s\n", name, r.failed.Sprint("timeout/failure"))
		return
	}
	fmt.Fprintf(r.out, "%-24s | avg: %8.2fms | min: %8.2fms | success: %3.0f%%\n",
		name, st.Avg, st.Min, st.SuccessRate)
}

// Summary prints the ranked table and the fastest resolver. topN <= 0
// lists every ranked resolver.
func (r *Renderer) Summary(results map[string]sampler.Stats, topN int) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, strings.Repeat("=", 72))
	fmt.Fprintln(r.out, "Results")
	fmt.Fprintln(r.out, strings.Repeat("=", 72))

	ranked := Top(results, topN)
	if len(ranked) == 0 {
		fmt.Fprintln(r.out, "No resolver answered any probe.")
		return
	}

	fmt.Fprintf(r.out, "%-5s %-24s %-12s %-12s %-8s\n", "Rank", "Resolver", "Avg", "Min", "Success")
	fmt.Fprintln(r.out, strings.Repeat("-", 72))
	for i, e := range ranked {
		fmt.Fprintf(r.out, "%-5d %-24s %9.2fms  %9.2fms  %5.0f%%\n",
			i+1, e.Name, e.Stats.Avg, e.Stats.Min, e.Stats.SuccessRate)
	}

	best := ranked[0]
	fmt.Fprintln(r.out)
	r.highlight.Fprintf(r.out, "Fastest resolver: %s\n", best.Name)
	fmt.Fprintf(r.out, "  avg %.2fms, min %.2fms, success %.0f%%\n",
		best.Stats.Avg, best.Stats.Min, best.Stats.SuccessRate)
}

// Aborted prints the clean interruption notice shown instead of a
// stack trace when the run is cancelled.
func (r *Renderer) Aborted() {
	fmt.Fprintln(r.out)
	r.dim.Fprintln(r.out, "Run interrupted; reporting resolvers that finished.")
}
