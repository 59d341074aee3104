package stats

import (
	"fmt"
	"strings"
)

type Result int

const (
	New Result = iota
	Existing
	Failed
)

// Run counts per-search outcomes so the end of a run can say what it
// actually did. Searches keep insertion order in the summary.
type Run struct {
	order  []string
	counts map[string]*tally
}

type tally struct {
	new, existing, failed int
}

func NewRun() *Run {
	return &Run{counts: make(map[string]*tally)}
}

func (r *Run) Add(search string, res Result) {
	t, ok := r.counts[search]
	if !ok {
		t = &tally{}
		r.counts[search] = t
		r.order = append(r.order, search)
	}
	switch res {
	case New:
		t.new++
	case Existing:
		t.existing++
	case Failed:
		t.failed++
	}
}

func (r *Run) TotalNew() int {
	n := 0
	for _, t := range r.counts {
		n += t.new
	}
	return n
}

func (r *Run) TotalExisting() int {
	n := 0
	for _, t := range r.counts {
		n += t.existing
	}
	return n
}

func (r *Run) TotalFailed() int {
	n := 0
	for _, t := range r.counts {
		n += t.failed
	}
	return n
}

// Summary renders the end-of-run report.
func (r *Run) Summary() string {
	var b strings.Builder
	b.WriteString("=== Scraping Summary ===\n")

	for _, search := range r.order {
		t := r.counts[search]
		total := t.new + t.existing + t.failed
		fmt.Fprintf(&b, "\n%s:\n", search)
		fmt.Fprintf(&b, "  Total jobs found: %d\n", total)
		fmt.Fprintf(&b, "  New jobs uploaded: %d\n", t.new)
		fmt.Fprintf(&b, "  Existing jobs: %d\n", t.existing)
		if t.failed > 0 {
			fmt.Fprintf(&b, "  ERRORS: %d\n", t.failed)
		}
	}

	total := r.TotalNew() + r.TotalExisting() + r.TotalFailed()
	b.WriteString("\nOverall:\n")
	fmt.Fprintf(&b, "  Total jobs: %d\n", total)
	fmt.Fprintf(&b, "  New: %d, existing: %d", r.TotalNew(), r.TotalExisting())
	if f := r.TotalFailed(); f > 0 {
		fmt.Fprintf(&b, ", ERRORS: %d", f)
	}
	b.WriteString("\n=====================")
	return b.String()
}
